package xl

import (
	"bytes"

	"github.com/adnsv/srw/xml"
)

// styleTables are the shared records cellXfs and dxfs point into.
type styleTables struct {
	numFmts   []string
	numFmtIDs map[string]int
	fonts     []Font
	fontIDs   map[Font]int
	fills     []Fill
	fillIDs   map[Fill]int
	borders   []Border
	borderIDs map[Border]int
}

func buildStyleTables(r *styleRegistry) *styleTables {
	t := &styleTables{
		numFmtIDs: map[string]int{},
		fontIDs:   map[Font]int{},
		fillIDs:   map[Fill]int{},
		borderIDs: map[Border]int{},
	}
	// Excel requires the two fills below at indexes 0 and 1.
	t.fill(Fill{})
	t.fill(Fill{Pattern: PatternGray125})
	t.border(Border{})
	for _, f := range r.xfs {
		t.font(f.Font)
		t.fill(f.Fill)
		t.border(f.Border)
		t.numFmt(f)
	}
	for _, f := range r.dxfs {
		t.numFmt(f)
	}
	return t
}

func (t *styleTables) font(f Font) int {
	f = f.normalized()
	if id, ok := t.fontIDs[f]; ok {
		return id
	}
	id := len(t.fonts)
	t.fonts = append(t.fonts, f)
	t.fontIDs[f] = id
	return id
}

func (t *styleTables) fill(f Fill) int {
	f = f.normalized()
	if id, ok := t.fillIDs[f]; ok {
		return id
	}
	id := len(t.fills)
	t.fills = append(t.fills, f)
	t.fillIDs[f] = id
	return id
}

func (t *styleTables) border(b Border) int {
	if id, ok := t.borderIDs[b]; ok {
		return id
	}
	id := len(t.borders)
	t.borders = append(t.borders, b)
	t.borderIDs[b] = id
	return id
}

// numFmt returns the numFmtId of a format, adding a custom record for
// codes that are not builtin.
func (t *styleTables) numFmt(f Format) int {
	code := f.NumFormat
	if code == "" {
		return f.NumFormatIndex
	}
	if id, ok := builtinNumFmtIDs[code]; ok {
		return id
	}
	if id, ok := t.numFmtIDs[code]; ok {
		return id
	}
	id := firstCustomNumFmt + len(t.numFmts)
	t.numFmts = append(t.numFmts, code)
	t.numFmtIDs[code] = id
	return id
}

func (w *writer) writeStyles() error {
	w.workbookRels.add(relStyles, "styles.xml")
	abspath := "/xl/styles.xml"
	w.part(abspath, ctStyles)

	reg := w.wb.styles
	t := buildStyleTables(reg)

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("styleSheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	if len(t.numFmts) > 0 {
		x.OTag("+numFmts").Attr("count", len(t.numFmts))
		for i, code := range t.numFmts {
			x.OTag("+numFmt").Attr("numFmtId", firstCustomNumFmt+i).Attr("formatCode", code).CTag()
		}
		x.CTag()
	}

	x.OTag("+fonts").Attr("count", len(t.fonts))
	for _, f := range t.fonts {
		writeFontProps(x, f, false)
	}
	x.CTag()

	x.OTag("+fills").Attr("count", len(t.fills))
	for _, f := range t.fills {
		x.OTag("+fill")
		writePatternFill(x, f, false)
		x.CTag()
	}
	x.CTag()

	x.OTag("+borders").Attr("count", len(t.borders))
	for _, b := range t.borders {
		writeBorder(x, b)
	}
	x.CTag()

	hyperlink := reg.hyperlink != DefaultStyle
	x.OTag("+cellStyleXfs")
	if hyperlink {
		x.Attr("count", 2)
	} else {
		x.Attr("count", 1)
	}
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	if hyperlink {
		x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", t.font(hyperlinkFormat.Font)).Attr("fillId", 0).Attr("borderId", 0)
		x.Attr("applyNumberFormat", 0).Attr("applyFill", 0).Attr("applyBorder", 0).Attr("applyAlignment", 0).Attr("applyProtection", 0)
		x.OTag("alignment").Attr("vertical", "top").CTag()
		x.OTag("protection").Attr("locked", 0).CTag()
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(reg.xfs))
	for id, f := range reg.xfs {
		xfID := 0
		if hyperlink && StyleID(id) == reg.hyperlink {
			xfID = 1
		}
		writeXf(x, t, f, xfID)
	}
	x.CTag()

	x.OTag("+cellStyles")
	if hyperlink {
		x.Attr("count", 2)
		x.OTag("+cellStyle").Attr("name", "Hyperlink").Attr("xfId", 1).Attr("builtinId", 8).CTag()
	} else {
		x.Attr("count", 1)
	}
	x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
	x.CTag()

	x.OTag("+dxfs").Attr("count", len(reg.dxfs))
	for _, f := range reg.dxfs {
		writeDxf(x, t, f)
	}
	x.CTag()

	x.OTag("+tableStyles").Attr("count", 0)
	x.Attr("defaultTableStyle", "TableStyleMedium9").Attr("defaultPivotStyle", "PivotStyleLight16")
	x.CTag()

	x.CTag() // styleSheet

	return w.writePart(abspath, bb.Bytes())
}

func writeXf(x *xml.Writer, t *styleTables, f Format, xfID int) {
	numFmt := t.numFmt(f)
	font := t.font(f.Font)
	fill := t.fill(f.Fill)
	border := t.border(f.Border)

	x.OTag("+xf").Attr("numFmtId", numFmt).Attr("fontId", font).Attr("fillId", fill).Attr("borderId", border).Attr("xfId", xfID)
	if f.QuotePrefix {
		x.Attr("quotePrefix", 1)
	}
	if numFmt != 0 {
		x.Attr("applyNumberFormat", 1)
	}
	if font != 0 {
		x.Attr("applyFont", 1)
	}
	if fill != 0 {
		x.Attr("applyFill", 1)
	}
	if border != 0 {
		x.Attr("applyBorder", 1)
	}
	if !f.Alignment.empty() {
		x.Attr("applyAlignment", 1)
	}
	if f.Protection != (Protection{}) {
		x.Attr("applyProtection", 1)
	}

	if a := f.Alignment; !a.empty() {
		x.OTag("alignment")
		if a.Horizontal != HAlignNone {
			x.Attr("horizontal", string(a.Horizontal))
		}
		if a.Vertical != VAlignNone {
			x.Attr("vertical", string(a.Vertical))
		}
		switch {
		case a.Rotation == 270:
			x.Attr("textRotation", 255)
		case a.Rotation < 0:
			x.Attr("textRotation", 90-a.Rotation)
		case a.Rotation > 0:
			x.Attr("textRotation", a.Rotation)
		}
		if a.TextWrap {
			x.Attr("wrapText", 1)
		}
		if a.Indent > 0 {
			x.Attr("indent", a.Indent)
		}
		if a.ShrinkToFit {
			x.Attr("shrinkToFit", 1)
		}
		if a.ReadingOrder > 0 {
			x.Attr("readingOrder", a.ReadingOrder)
		}
		x.CTag()
	}
	if p := f.Protection; p != (Protection{}) {
		x.OTag("protection")
		if p.Unlocked {
			x.Attr("locked", 0)
		}
		if p.Hidden {
			x.Attr("hidden", 1)
		}
		x.CTag()
	}
	x.CTag() // xf
}

// writePatternFill writes a <patternFill>. Differential formats store the
// color of a solid fill as the background.
func writePatternFill(x *xml.Writer, f Fill, dxf bool) {
	f = f.normalized()
	x.OTag("patternFill")
	if f.Pattern == PatternNone {
		x.Attr("patternType", "none")
		x.CTag()
		return
	}
	if dxf && f.Pattern == PatternSolid {
		x.OTag("bgColor").Attr("rgb", f.FgColor.argb()).CTag()
		x.CTag()
		return
	}
	x.Attr("patternType", string(f.Pattern))
	if f.FgColor != 0 {
		x.OTag("fgColor").Attr("rgb", f.FgColor.argb()).CTag()
	}
	if f.BgColor != 0 {
		x.OTag("bgColor").Attr("rgb", f.BgColor.argb()).CTag()
	} else if f.FgColor != 0 {
		x.OTag("bgColor").Attr("indexed", 64).CTag()
	}
	x.CTag()
}

func writeBorder(x *xml.Writer, b Border) {
	x.OTag("+border")
	if b.DiagonalType == DiagonalUp || b.DiagonalType == DiagonalUpDown {
		x.Attr("diagonalUp", 1)
	}
	if b.DiagonalType == DiagonalDown || b.DiagonalType == DiagonalUpDown {
		x.Attr("diagonalDown", 1)
	}
	x.OTag("left")
	writeEdge(x, b.Left)
	x.CTag()
	x.OTag("right")
	writeEdge(x, b.Right)
	x.CTag()
	x.OTag("top")
	writeEdge(x, b.Top)
	x.CTag()
	x.OTag("bottom")
	writeEdge(x, b.Bottom)
	x.CTag()
	x.OTag("diagonal")
	writeEdge(x, b.Diagonal)
	x.CTag()
	x.CTag()
}

// writeEdge fills in the attributes and color of an already opened edge.
func writeEdge(x *xml.Writer, e Edge) {
	if e.Style == BorderNone {
		return
	}
	x.Attr("style", string(e.Style))
	if e.Color != 0 {
		x.OTag("color").Attr("rgb", e.Color.argb()).CTag()
	} else {
		x.OTag("color").Attr("auto", 1).CTag()
	}
}

// writeDxf writes a differential format with only the properties that
// were set.
func writeDxf(x *xml.Writer, t *styleTables, f Format) {
	x.OTag("+dxf")
	if fn := f.Font; !fn.IsDefault() {
		x.OTag("font")
		if fn.Bold {
			x.OTag("b").CTag()
		}
		if fn.Italic {
			x.OTag("i").CTag()
		}
		if fn.Strikethrough {
			x.OTag("strike").CTag()
		}
		if fn.Underline != UnderlineNone {
			x.OTag("u")
			if fn.Underline != UnderlineSingle {
				x.Attr("val", string(fn.Underline))
			}
			x.CTag()
		}
		if fn.Color != 0 {
			x.OTag("color").Attr("rgb", fn.Color.argb()).CTag()
		}
		x.CTag()
	}
	if id := t.numFmt(f); id != 0 {
		code := f.NumFormat
		if code == "" {
			code = builtinNumFmts[id]
		}
		x.OTag("numFmt").Attr("numFmtId", id).Attr("formatCode", code).CTag()
	}
	if f.Fill.normalized() != (Fill{}) {
		x.OTag("fill")
		writePatternFill(x, f.Fill, true)
		x.CTag()
	}
	if !f.Alignment.empty() {
		x.OTag("alignment")
		if f.Alignment.Horizontal != HAlignNone {
			x.Attr("horizontal", string(f.Alignment.Horizontal))
		}
		if f.Alignment.Vertical != VAlignNone {
			x.Attr("vertical", string(f.Alignment.Vertical))
		}
		if f.Alignment.TextWrap {
			x.Attr("wrapText", 1)
		}
		x.CTag()
	}
	if f.Border != (Border{}) {
		writeBorder(x, f.Border)
	}
	x.CTag()
}
