package xl

import (
	"bytes"

	"github.com/adnsv/srw/xml"
)

func (w *writer) writeSharedStrings() error {
	w.workbookRels.add(relSharedStrings, "sharedStrings.xml")
	abspath := "/xl/sharedStrings.xml"
	w.part(abspath, ctSharedStrings)

	sst := w.wb.sst
	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("sst")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("count", sst.count)
	x.Attr("uniqueCount", sst.unique())

	for _, e := range sst.entries {
		x.OTag("+si")
		if e.runs != nil {
			w.wb.writeRuns(x, e.runs)
		} else {
			writeT(x, e.text)
		}
		x.CTag()
	}

	x.CTag()

	return w.writePart(abspath, bb.Bytes())
}

// writeRuns writes the <r> elements of a rich string. A run in the
// default style inherits the cell font and gets no properties.
func (wb *Workbook) writeRuns(x *xml.Writer, runs []RichRun) {
	for _, r := range runs {
		x.OTag("r")
		if r.Style != DefaultStyle && wb.styles.known(r.Style) {
			writeFontProps(x, wb.styles.format(r.Style).Font, true)
		}
		writeT(x, r.Text)
		x.CTag()
	}
}

// writeFontProps writes a <font> record, or the <rPr> of a rich run.
func writeFontProps(x *xml.Writer, f Font, run bool) {
	f = f.normalized()
	if run {
		x.OTag("rPr")
	} else {
		x.OTag("+font")
	}
	if f.Bold {
		x.OTag("b").CTag()
	}
	if f.Italic {
		x.OTag("i").CTag()
	}
	if f.Strikethrough {
		x.OTag("strike").CTag()
	}
	if f.Outline {
		x.OTag("outline").CTag()
	}
	if f.Shadow {
		x.OTag("shadow").CTag()
	}
	if f.Underline != UnderlineNone {
		x.OTag("u")
		if f.Underline != UnderlineSingle {
			x.Attr("val", string(f.Underline))
		}
		x.CTag()
	}
	if f.Script != ScriptNone {
		x.OTag("vertAlign").Attr("val", string(f.Script)).CTag()
	}
	x.OTag("sz").Attr("val", formatNumber(f.Size)).CTag()
	if f.Color != 0 {
		x.OTag("color").Attr("rgb", f.Color.argb()).CTag()
	} else {
		x.OTag("color").Attr("theme", 1).CTag()
	}
	if run {
		x.OTag("rFont").Attr("val", f.Name).CTag()
	} else {
		x.OTag("name").Attr("val", f.Name).CTag()
	}
	x.OTag("family").Attr("val", f.Family).CTag()
	if f.Charset != 0 {
		x.OTag("charset").Attr("val", f.Charset).CTag()
	}
	if f.Scheme != "" {
		x.OTag("scheme").Attr("val", f.Scheme).CTag()
	}
	x.CTag()
}
