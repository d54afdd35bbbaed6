package xl

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adnsv/srw/xml"
)

const defaultColWidth = 8.43

// writeSheet emits xl/worksheets/sheetN.xml together with the parts only
// this sheet references: its drawing, comments and tables.
func (w *writer) writeSheet(s *Sheet, n int) error {
	name := fmt.Sprintf("sheet%d.xml", n)
	abspath := "/xl/worksheets/" + name
	w.part(abspath, ctWorksheet)
	w.sheetRIDs = append(w.sheetRIDs, w.workbookRels.add(relWorksheet, "worksheets/"+name))

	rels := &relSet{}
	linkRIDs := map[*hyperlink]string{}
	for _, h := range s.hyperlinks {
		if h.kind == linkExternal {
			linkRIDs[h] = rels.addExternal(relHyperlink, h.target)
		}
	}

	var drawingRID, vmlRID string
	if len(s.drawings) > 0 {
		w.drawingCount++
		drawingRID = rels.add(relDrawing, fmt.Sprintf("../drawings/drawing%d.xml", w.drawingCount))
		if err := w.writeDrawing(s, w.drawingCount); err != nil {
			return err
		}
	}
	if len(s.comments) > 0 {
		w.vmlCount++
		vmlRID = rels.add(relVMLDrawing, fmt.Sprintf("../drawings/vmlDrawing%d.vml", w.vmlCount))
		rels.add(relComments, fmt.Sprintf("../comments%d.xml", w.vmlCount))
		if err := w.writeComments(s, w.vmlCount); err != nil {
			return err
		}
		if err := w.writeVML(s, w.vmlCount); err != nil {
			return err
		}
	}
	tableRIDs := make([]string, len(s.tables))
	for i, t := range s.tables {
		tableRIDs[i] = rels.add(relTable, fmt.Sprintf("../tables/table%d.xml", t.id))
		if err := w.writeTable(s, t); err != nil {
			return err
		}
	}

	// The sheet is rendered with a marker in place of its rows; rows are
	// spliced in while streaming so spooled rows never return to memory.
	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("worksheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", relOfficeDoc)

	w.writeSheetPr(x, s)
	x.OTag("+dimension").Attr("ref", s.dim.ref()).CTag()
	w.writeSheetViews(x, s)
	w.writeSheetFormatPr(x, s)
	w.writeCols(x, s)

	x.OTag("+sheetData").String(w.wb.marker).CTag()

	w.writeSheetProtection(x, s)
	if s.autofilter != nil {
		x.OTag("+autoFilter").Attr("ref", s.autofilter.String()).CTag()
	}
	if len(s.merged) > 0 {
		x.OTag("+mergeCells").Attr("count", len(s.merged))
		for _, m := range s.merged {
			x.OTag("+mergeCell").Attr("ref", m.String()).CTag()
		}
		x.CTag()
	}
	w.writeConditionalFormats(x, s)
	w.writeDataValidations(x, s)
	if len(s.hyperlinks) > 0 {
		x.OTag("+hyperlinks")
		for _, h := range s.hyperlinks {
			x.OTag("+hyperlink").Attr("ref", CellName(h.row, h.col))
			if rid, ok := linkRIDs[h]; ok {
				x.Attr("r:id", rid)
			}
			if h.location != "" {
				x.Attr("location", h.location)
			}
			if h.tooltip != "" {
				x.Attr("tooltip", h.tooltip)
			}
			x.CTag()
		}
		x.CTag()
	}
	w.writePrintSetup(x, s)
	if drawingRID != "" {
		x.OTag("+drawing").Attr("r:id", drawingRID).CTag()
	}
	if vmlRID != "" {
		x.OTag("+legacyDrawing").Attr("r:id", vmlRID).CTag()
	}
	if len(tableRIDs) > 0 {
		x.OTag("+tableParts").Attr("count", len(tableRIDs))
		for _, rid := range tableRIDs {
			x.OTag("+tablePart").Attr("r:id", rid).CTag()
		}
		x.CTag()
	}

	x.CTag() // worksheet

	head, tail, ok := bytes.Cut(bb.Bytes(), []byte(w.wb.marker))
	if !ok {
		return resourceError(abspath, CodeZipInternalError, fmt.Errorf("sheet data marker missing in %s", name))
	}
	rows, err := w.sheetRows(s)
	if err != nil {
		return err
	}
	err = w.writePartReader(abspath, io.MultiReader(bytes.NewReader(head), rows, bytes.NewReader(tail)))
	if err != nil {
		return err
	}

	if !rels.empty() {
		return w.writeRels("/xl/worksheets/_rels/"+name+".rels", rels)
	}
	return nil
}

// sheetRows returns the serialized <row> elements of s.
func (w *writer) sheetRows(s *Sheet) (io.Reader, error) {
	op := "write " + s.Name
	if s.spool != nil {
		if err := s.flushAll(); err != nil {
			return nil, resourceError(op, CodeReadingTmpfile, err)
		}
		r, err := s.spool.reader()
		if err != nil {
			return nil, resourceError(op, CodeReadingTmpfile, err)
		}
		return r, nil
	}

	bb := &bytes.Buffer{}
	x := xml.NewWriter(bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	err := enumerate(s.rows, func(r int, row *Row) error {
		return s.writeRow(x, r, row)
	})
	if err != nil {
		return nil, validationError(op, CodeParameterValidation, err)
	}
	return bb, nil
}

func (s *Sheet) writeRow(x *xml.Writer, r int, row *Row) error {
	if len(row.cells) == 0 && !row.hasMeta() {
		return nil
	}
	x.OTag("+row").Attr("r", r+1)
	if row.style != DefaultStyle {
		x.Attr("s", int(row.style)).Attr("customFormat", 1)
	}
	if row.Height > 0 {
		x.Attr("ht", formatNumber(row.Height)).Attr("customHeight", 1)
	} else if s.defaultRowHeight > 0 {
		x.Attr("ht", formatNumber(s.defaultRowHeight)).Attr("customHeight", 1)
	}
	if row.hidden {
		x.Attr("hidden", 1)
	}
	if row.level > 0 {
		x.Attr("outlineLevel", row.level)
	}
	if row.collapsed {
		x.Attr("collapsed", 1)
	}
	err := enumerate(row.cells, func(c int, cell *Cell) error {
		return s.writeCell(x, r, c, cell)
	})
	x.CTag() // row
	return err
}

func (s *Sheet) writeCell(x *xml.Writer, r, c int, cell *Cell) error {
	x.OTag("+c").Attr("r", CellName(r, c))
	if cell.style != DefaultStyle {
		x.Attr("s", int(cell.style))
	}

	switch cell.typ {
	case CellTypeNumber:
		x.OTag("v").String(formatNumber(cell.num)).CTag()
	case CellTypeBool:
		x.Attr("t", "b")
		x.OTag("v").Write(int(cell.num)).CTag()
	case CellTypeSharedString:
		x.Attr("t", "s")
		x.OTag("v").Write(cell.sst).CTag()
	case CellTypeRichString:
		if cell.runs == nil {
			x.Attr("t", "s")
			x.OTag("v").Write(cell.sst).CTag()
			break
		}
		// constant memory mode keeps rich strings inline
		x.Attr("t", "inlineStr")
		x.OTag("is")
		s.workbook.writeRuns(x, cell.runs)
		x.CTag()
	case CellTypeInlineString:
		x.Attr("t", "inlineStr")
		x.OTag("is")
		writeT(x, cell.v)
		x.CTag()
	case CellTypeFormula:
		if cell.strRes {
			x.Attr("t", "str")
		}
		x.OTag("f").String(escapeControl(cell.v)).CTag()
		if cell.strRes {
			x.OTag("v").String(escapeControl(cell.result)).CTag()
		} else {
			x.OTag("v").String(formatNumber(cell.num)).CTag()
		}
	case CellTypeArrayFormula:
		x.OTag("f").Attr("t", "array").Attr("ref", cell.array.String()).String(escapeControl(cell.v)).CTag()
		x.OTag("v").String(formatNumber(cell.num)).CTag()
	case CellTypeError:
		x.Attr("t", "e")
		x.OTag("v").String(cell.v).CTag()
	case CellTypeBlank:
	case cellTypePicture:
		if cell.image == nil || cell.image.richValue < 0 {
			x.CTag()
			return fmt.Errorf("%w: missing picture data at %s", ErrInvalidParameter, CellName(r, c))
		}
		x.Attr("t", "e").Attr("vm", cell.image.richValue+1)
		x.OTag("v").String(string(ErrorVal)).CTag()
	}
	x.CTag() // c
	return nil
}

// writeT writes a <t> text node.
func writeT(x *xml.Writer, s string) {
	x.OTag("t")
	if needsPreserve(s) {
		x.Attr("xml:space", "preserve")
	}
	x.String(escapeControl(s))
	x.CTag()
}

func (w *writer) writeSheetPr(x *xml.Writer, s *Sheet) {
	tab := s.view.tabColor != 0
	fit := s.setup.fitToPage
	if !tab && !fit {
		return
	}
	x.OTag("+sheetPr")
	if tab {
		x.OTag("+tabColor").Attr("rgb", s.view.tabColor.argb()).CTag()
	}
	if fit {
		x.OTag("+pageSetUpPr").Attr("fitToPage", 1).CTag()
	}
	x.CTag()
}

func (w *writer) writeSheetViews(x *xml.Writer, s *Sheet) {
	v := &s.view
	x.OTag("+sheetViews")
	x.OTag("+sheetView")
	if v.selected || s.index == w.wb.activeSheet {
		x.Attr("tabSelected", 1)
	}
	if v.hideGridlines > 0 {
		x.Attr("showGridLines", 0)
	}
	if v.hideZero {
		x.Attr("showZeros", 0)
	}
	if v.rightToLeft {
		x.Attr("rightToLeft", 1)
	}
	if v.zoom != 100 {
		x.Attr("zoomScale", v.zoom).Attr("zoomScaleNormal", v.zoom)
	}
	x.Attr("workbookViewId", 0)

	activePane := ""
	if p := v.pane; p != nil {
		switch {
		case (p.frozen && p.row > 0 && p.col > 0) || (!p.frozen && p.ySplit > 0 && p.xSplit > 0):
			activePane = "bottomRight"
		case (p.frozen && p.row > 0) || (!p.frozen && p.ySplit > 0):
			activePane = "bottomLeft"
		default:
			activePane = "topRight"
		}
		x.OTag("+pane")
		if p.frozen {
			if p.col > 0 {
				x.Attr("xSplit", p.col)
			}
			if p.row > 0 {
				x.Attr("ySplit", p.row)
			}
		} else {
			if p.xSplit > 0 {
				x.Attr("xSplit", formatNumber(p.xSplit))
			}
			if p.ySplit > 0 {
				x.Attr("ySplit", formatNumber(p.ySplit))
			}
		}
		x.Attr("topLeftCell", CellName(p.topRow, p.leftCol))
		x.Attr("activePane", activePane)
		if p.frozen {
			x.Attr("state", "frozen")
		}
		x.CTag()
	}
	if sel := v.selection; sel != nil || activePane != "" {
		x.OTag("+selection")
		if activePane != "" {
			x.Attr("pane", activePane)
		}
		if sel != nil {
			x.Attr("activeCell", CellName(sel.FirstRow, sel.FirstCol))
			x.Attr("sqref", sel.String())
		}
		x.CTag()
	}

	x.CTag() // sheetView
	x.CTag() // sheetViews
}

func (w *writer) writeSheetFormatPr(x *xml.Writer, s *Sheet) {
	x.OTag("+sheetFormatPr")
	if s.defaultRowHeight > 0 {
		x.Attr("defaultRowHeight", formatNumber(s.defaultRowHeight)).Attr("customHeight", 1)
	} else {
		x.Attr("defaultRowHeight", 15)
	}
	if s.outlineRowLevel > 0 {
		x.Attr("outlineLevelRow", s.outlineRowLevel)
	}
	if s.outlineColLevel > 0 {
		x.Attr("outlineLevelCol", s.outlineColLevel)
	}
	x.CTag()
}

// xmlColWidth converts a width in characters into the stored width, which
// includes the cell padding.
func xmlColWidth(width float64) float64 {
	if width == 0 {
		width = defaultColWidth
	}
	var pixels int
	if width < 1 {
		pixels = int(width*12 + 0.5)
	} else {
		pixels = int(width*7+0.5) + 5
	}
	return float64(int(float64(pixels)/7*256)) / 256
}

// writeCols groups neighbouring columns with equal settings into one <col>.
func (w *writer) writeCols(x *xml.Writer, s *Sheet) {
	if len(s.Columns) == 0 {
		return
	}
	type span struct {
		first, last int
		c           Column
	}
	var spans []span
	enumerate(s.Columns, func(n int, c *Column) error {
		if k := len(spans) - 1; k >= 0 && spans[k].last == n-1 && spans[k].c == *c {
			spans[k].last = n
			return nil
		}
		spans = append(spans, span{n, n, *c})
		return nil
	})

	x.OTag("+cols")
	for _, sp := range spans {
		c := sp.c
		x.OTag("+col").Attr("min", sp.first+1).Attr("max", sp.last+1)
		x.Attr("width", formatNumber(xmlColWidth(c.Width)))
		if c.style != DefaultStyle {
			x.Attr("style", int(c.style))
		}
		if c.hidden {
			x.Attr("hidden", 1)
		}
		if c.Width > 0 || c.hidden {
			x.Attr("customWidth", 1)
		}
		if c.level > 0 {
			x.Attr("outlineLevel", c.level)
		}
		if c.collapsed {
			x.Attr("collapsed", 1)
		}
		x.CTag()
	}
	x.CTag()
}

func (w *writer) writeSheetProtection(x *xml.Writer, s *Sheet) {
	p := s.prot
	if p == nil {
		return
	}
	x.OTag("+sheetProtection")
	if p.Password != "" {
		x.Attr("password", passwordHash(p.Password))
	}
	x.Attr("sheet", 1)
	if !p.Objects {
		x.Attr("objects", 1)
	}
	if !p.Scenarios {
		x.Attr("scenarios", 1)
	}
	if p.FormatCells {
		x.Attr("formatCells", 0)
	}
	if p.FormatColumns {
		x.Attr("formatColumns", 0)
	}
	if p.FormatRows {
		x.Attr("formatRows", 0)
	}
	if p.InsertColumns {
		x.Attr("insertColumns", 0)
	}
	if p.InsertRows {
		x.Attr("insertRows", 0)
	}
	if p.InsertHyperlinks {
		x.Attr("insertHyperlinks", 0)
	}
	if p.DeleteColumns {
		x.Attr("deleteColumns", 0)
	}
	if p.DeleteRows {
		x.Attr("deleteRows", 0)
	}
	if p.NoSelectLockedCells {
		x.Attr("selectLockedCells", 1)
	}
	if p.Sort {
		x.Attr("sort", 0)
	}
	if p.Autofilter {
		x.Attr("autoFilter", 0)
	}
	if p.PivotTables {
		x.Attr("pivotTables", 0)
	}
	if p.NoSelectUnlockedCells {
		x.Attr("selectUnlockedCells", 1)
	}
	x.CTag()
}

func (w *writer) writeDataValidations(x *xml.Writer, s *Sheet) {
	if len(s.validations) == 0 {
		return
	}
	x.OTag("+dataValidations").Attr("count", len(s.validations))
	for _, e := range s.validations {
		dv := &e.dv
		x.OTag("+dataValidation")
		if t := dv.Type.attr(); t != "" {
			x.Attr("type", t)
		}
		switch dv.ErrorType {
		case ValidationErrorWarning:
			x.Attr("errorStyle", "warning")
		case ValidationErrorInformation:
			x.Attr("errorStyle", "information")
		}
		switch dv.Type {
		case ValidateAny, ValidateList, ValidateCustom:
		default:
			if op := dv.Criteria.attr(); op != "" {
				x.Attr("operator", op)
			}
		}
		if !dv.NoIgnoreBlank {
			x.Attr("allowBlank", 1)
		}
		if dv.NoDropdown {
			// the attribute is inverted: 1 hides the list arrow
			x.Attr("showDropDown", 1)
		}
		if !dv.HideInput {
			x.Attr("showInputMessage", 1)
		}
		if !dv.HideError {
			x.Attr("showErrorMessage", 1)
		}
		if dv.ErrorTitle != "" {
			x.Attr("errorTitle", dv.ErrorTitle)
		}
		if dv.ErrorMessage != "" {
			x.Attr("error", dv.ErrorMessage)
		}
		if dv.InputTitle != "" {
			x.Attr("promptTitle", dv.InputTitle)
		}
		if dv.InputMessage != "" {
			x.Attr("prompt", dv.InputMessage)
		}
		x.Attr("sqref", e.sqref)
		if e.formula1 != "" {
			x.OTag("formula1").String(e.formula1).CTag()
		}
		if e.formula2 != "" {
			x.OTag("formula2").String(e.formula2).CTag()
		}
		x.CTag()
	}
	x.CTag()
}

func (w *writer) writePrintSetup(x *xml.Writer, s *Sheet) {
	p := &s.setup
	if p.printGridlines || p.printHeadings || p.hCenter || p.vCenter {
		x.OTag("+printOptions")
		if p.hCenter {
			x.Attr("horizontalCentered", 1)
		}
		if p.vCenter {
			x.Attr("verticalCentered", 1)
		}
		if p.printHeadings {
			x.Attr("headings", 1)
		}
		if p.printGridlines {
			x.Attr("gridLines", 1)
		}
		x.CTag()
	}

	m := p.margins
	x.OTag("+pageMargins")
	x.Attr("left", formatNumber(m.left)).Attr("right", formatNumber(m.right))
	x.Attr("top", formatNumber(m.top)).Attr("bottom", formatNumber(m.bottom))
	x.Attr("header", formatNumber(m.header)).Attr("footer", formatNumber(m.footer))
	x.CTag()

	if p.customized() {
		x.OTag("+pageSetup")
		if p.paper != 0 {
			x.Attr("paperSize", p.paper)
		}
		if p.scale != 100 {
			x.Attr("scale", p.scale)
		}
		if p.firstPageNumber > 0 {
			x.Attr("firstPageNumber", p.firstPageNumber)
		}
		if p.fitToPage {
			if p.fitWidth != 1 {
				x.Attr("fitToWidth", p.fitWidth)
			}
			if p.fitHeight != 1 {
				x.Attr("fitToHeight", p.fitHeight)
			}
		}
		if p.pageOrderOver {
			x.Attr("pageOrder", "overThenDown")
		}
		if p.landscape {
			x.Attr("orientation", "landscape")
		} else {
			x.Attr("orientation", "portrait")
		}
		if p.blackAndWhite {
			x.Attr("blackAndWhite", 1)
		}
		if p.firstPageNumber > 0 {
			x.Attr("useFirstPageNumber", 1)
		}
		x.CTag()
	}

	if p.header != "" || p.footer != "" {
		x.OTag("+headerFooter")
		if p.header != "" {
			x.OTag("+oddHeader").String(headerText(p.header)).CTag()
		}
		if p.footer != "" {
			x.OTag("+oddFooter").String(headerText(p.footer)).CTag()
		}
		x.CTag()
	}
}

// headerText maps the bracketed field names Excel shows in its dialog to
// the one-letter codes it stores.
func headerText(s string) string {
	return strings.NewReplacer(
		"&[Page]", "&P",
		"&[Pages]", "&N",
		"&[Date]", "&D",
		"&[Time]", "&T",
		"&[File]", "&F",
		"&[Tab]", "&A",
		"&[Path]", "&Z",
	).Replace(s)
}
