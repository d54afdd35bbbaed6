package xl

import (
	"bytes"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestConstantMemory(t *testing.T) {
	tmp := t.TempDir()
	opts := DefaultOptions()
	opts.ConstantMemory = true
	opts.TmpDir = tmp
	wb := NewWorkbookOpt("", opts)
	sh, err := wb.AddSheet("Stream")
	require.NoError(t, err)

	require.NoError(t, sh.WriteString(0, 0, "a", DefaultStyle))
	require.NoError(t, sh.WriteNumber(0, 1, 1, DefaultStyle))
	require.NoError(t, sh.WriteString(2, 0, "c", DefaultStyle))
	require.NoError(t, sh.WriteString(2, 1, "d", DefaultStyle))

	err = sh.WriteString(0, 2, "late", DefaultStyle)
	assert.ErrorIs(t, err, ErrRowFlushed)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, CodeWorksheetIndexOutOfRange, CodeOf(err))
	assert.ErrorIs(t, sh.SetRow(1, 20, DefaultStyle), ErrRowFlushed)

	assert.Nil(t, sh.Cell(0, 0))
	assert.NotNil(t, sh.Cell(2, 1))

	ms := closeMem(t, wb)
	assert.NotContains(t, ms.Parts, "xl/sharedStrings.xml")

	sheet := part(t, ms, "xl/worksheets/sheet1.xml")
	assert.Equal(t, "A1:B3", elems(t, sheet, "dimension")[0].Attrs["ref"])
	var rows []string
	for _, r := range elems(t, sheet, "row") {
		rows = append(rows, r.Attrs["r"])
	}
	assert.Equal(t, []string{"1", "3"}, rows)
	assert.Equal(t, "inlineStr", elemWith(t, sheet, "c", "r", "A1").Attrs["t"])
	assert.Empty(t, elemWith(t, sheet, "c", "r", "B1").Attrs["t"])
	assert.Equal(t, []string{"a", "c", "d"}, texts(t, sheet, "t"))

	// the row spool is gone once the workbook is finalized
	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConstantMemoryRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	opts.ConstantMemory = true
	opts.OutputBuffer = true
	opts.TmpDir = t.TempDir()
	wb := NewWorkbookOpt("", opts)
	sh, err := wb.AddSheet("Stream")
	require.NoError(t, err)
	for r := 0; r < 100; r++ {
		require.NoError(t, sh.WriteString(r, 0, "row", DefaultStyle))
		require.NoError(t, sh.WriteNumber(r, 1, float64(r), DefaultStyle))
	}
	require.NoError(t, wb.Close())
	buf, err := wb.Buffer()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Stream")
	require.NoError(t, err)
	require.Len(t, rows, 100)
	assert.Equal(t, []string{"row", "99"}, rows[99])
}

func TestFormulaCells(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	bold, err := wb.AddFormat(Format{Font: Font{Bold: true}})
	require.NoError(t, err)

	require.NoError(t, sh.WriteFormulaNum(0, 0, "=SUM(1,2)", DefaultStyle, 3))
	require.NoError(t, sh.WriteFormulaStr(0, 1, `A1&"x"`, DefaultStyle, "3x"))
	require.NoError(t, sh.WriteArrayFormula(1, 0, 2, 1, "{=A1:B1*2}", DefaultStyle))
	require.NoError(t, sh.WriteBoolean(3, 0, true, DefaultStyle))
	require.NoError(t, sh.WriteError(3, 1, ErrorNA, DefaultStyle))
	require.NoError(t, sh.WriteBlank(3, 2, DefaultStyle))
	require.NoError(t, sh.WriteBlank(3, 3, bold))

	assert.ErrorIs(t, sh.WriteFormula(5, 0, "=", DefaultStyle), ErrInvalidParameter)
	assert.ErrorIs(t, sh.WriteFormula(5, 0, "A1\x00", DefaultStyle), ErrNullByte)
	assert.ErrorIs(t, sh.WriteError(5, 0, ErrorValue("#BAD!"), DefaultStyle), ErrInvalidParameter)
	assert.ErrorIs(t, sh.WriteNumber(5, 0, math.NaN(), DefaultStyle), ErrInvalidParameter)
	assert.ErrorIs(t, sh.WriteNumber(5, 0, math.Inf(1), DefaultStyle), ErrInvalidParameter)
	assert.ErrorIs(t, sh.WriteString(5, 0, "x", StyleID(99)), ErrUnknownStyle)

	ms := closeMem(t, wb)
	doc := part(t, ms, "xl/worksheets/sheet1.xml")

	assert.Equal(t, "SUM(1,2)3", elemWith(t, doc, "c", "r", "A1").Text)
	str := elemWith(t, doc, "c", "r", "B1")
	assert.Equal(t, "str", str.Attrs["t"])
	assert.Equal(t, `A1&"x"3x`, str.Text)

	f := elems(t, doc, "f")
	require.Len(t, f, 3)
	assert.Equal(t, "array", f[2].Attrs["t"])
	assert.Equal(t, "A2:B3", f[2].Attrs["ref"])
	assert.Equal(t, "A1:B1*2", f[2].Text)
	for _, ref := range []string{"B2", "A3", "B3"} {
		assert.Equal(t, "0", elemWith(t, doc, "c", "r", ref).Text, ref)
	}

	b := elemWith(t, doc, "c", "r", "A4")
	assert.Equal(t, "b", b.Attrs["t"])
	assert.Equal(t, "1", b.Text)
	e := elemWith(t, doc, "c", "r", "B4")
	assert.Equal(t, "e", e.Attrs["t"])
	assert.Equal(t, "#N/A", e.Text)

	var refs []string
	for _, c := range elems(t, doc, "c") {
		refs = append(refs, c.Attrs["r"])
	}
	assert.Equal(t, []string{"A1", "B1", "A2", "B2", "A3", "B3", "A4", "B4", "D4"}, refs)
	assert.Equal(t, "1", elemWith(t, doc, "c", "r", "D4").Attrs["s"])
}

func TestArrayFormulaChecksWholeRange(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	require.NoError(t, sh.MergeRange(1, 0, 1, 1, "", DefaultStyle))
	require.NoError(t, sh.WriteString(0, 0, "keep", DefaultStyle))

	err = sh.WriteArrayFormula(0, 0, 1, 1, "{=A5:B6*2}", DefaultStyle)
	assert.ErrorIs(t, err, ErrMergedCell)

	// nothing in the range was touched
	require.NotNil(t, sh.Cell(0, 0))
	assert.Equal(t, CellTypeSharedString, sh.Cell(0, 0).Type())
	assert.Nil(t, sh.Cell(0, 1))

	ms := closeMem(t, wb)
	doc := part(t, ms, "xl/worksheets/sheet1.xml")
	assert.Empty(t, elems(t, doc, "f"))
}

func TestMergeRangeChecksWholeRange(t *testing.T) {
	tmp := t.TempDir()
	opts := DefaultOptions()
	opts.ConstantMemory = true
	opts.TmpDir = tmp
	wb := NewWorkbookOpt("", opts)
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	require.NoError(t, sh.WriteNumber(0, 0, 1, DefaultStyle))
	require.NoError(t, sh.WriteNumber(1, 0, 2, DefaultStyle))

	// row 0 is already flushed, so the merge must not write into row 1 either
	err = sh.MergeRange(0, 1, 1, 2, "title", DefaultStyle)
	assert.ErrorIs(t, err, ErrRowFlushed)
	assert.Nil(t, sh.Cell(1, 1))
	require.NoError(t, wb.CloseStorage(NewMemStorage()))
}

func TestBlankClearsCell(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	bold, err := wb.AddFormat(Format{Font: Font{Bold: true}})
	require.NoError(t, err)

	require.NoError(t, sh.WriteNumber(0, 0, 5, DefaultStyle))
	require.NoError(t, sh.WriteNumber(0, 1, 6, DefaultStyle))
	require.NoError(t, sh.WriteBlank(0, 0, DefaultStyle))
	require.NoError(t, sh.WriteBlank(0, 1, bold))
	require.NoError(t, sh.WriteBlank(9, 9, DefaultStyle))

	assert.Nil(t, sh.Cell(0, 0))
	require.NotNil(t, sh.Cell(0, 1))
	assert.Equal(t, CellTypeBlank, sh.Cell(0, 1).Type())

	doc := part(t, closeMem(t, wb), "xl/worksheets/sheet1.xml")
	cells := elems(t, doc, "c")
	require.Len(t, cells, 1)
	assert.Equal(t, "B1", cells[0].Attrs["r"])
	assert.Empty(t, cells[0].Text)
}

func TestRowsAndColumns(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("")
	require.NoError(t, err)

	require.NoError(t, sh.SetColumn(1, 3, 20, DefaultStyle))
	require.NoError(t, sh.SetColumnOpt(5, 5, 0, DefaultStyle, ColOptions{Hidden: true}))
	require.NoError(t, sh.SetRow(4, 30, DefaultStyle))
	require.NoError(t, sh.SetRowOpt(5, 0, DefaultStyle, RowOptions{Hidden: true, Level: 2}))
	require.NoError(t, sh.WriteNumber(5, 0, 1, DefaultStyle))

	assert.ErrorIs(t, sh.SetRow(0, 410, DefaultStyle), ErrInvalidParameter)
	assert.ErrorIs(t, sh.SetColumn(0, MaxCols, 10, DefaultStyle), ErrRowColumnOutOfRange)
	assert.ErrorIs(t, sh.SetColumnOpt(0, 0, 10, DefaultStyle, ColOptions{Level: 8}), ErrInvalidParameter)

	ms := closeMem(t, wb)
	doc := part(t, ms, "xl/worksheets/sheet1.xml")

	cols := elems(t, doc, "col")
	require.Len(t, cols, 2)
	assert.Equal(t, "2", cols[0].Attrs["min"])
	assert.Equal(t, "4", cols[0].Attrs["max"])
	assert.Equal(t, "20.7109375", cols[0].Attrs["width"])
	assert.Equal(t, "1", cols[0].Attrs["customWidth"])
	assert.Equal(t, "9.140625", cols[1].Attrs["width"])
	assert.Equal(t, "1", cols[1].Attrs["hidden"])

	tall := elemWith(t, doc, "row", "r", "5")
	assert.Equal(t, "30", tall.Attrs["ht"])
	assert.Equal(t, "1", tall.Attrs["customHeight"])
	hidden := elemWith(t, doc, "row", "r", "6")
	assert.Equal(t, "1", hidden.Attrs["hidden"])
	assert.Equal(t, "2", hidden.Attrs["outlineLevel"])
	assert.Equal(t, "2", elems(t, doc, "sheetFormatPr")[0].Attrs["outlineLevelRow"])
}

func TestXMLColWidth(t *testing.T) {
	assert.Equal(t, 9.140625, xmlColWidth(0))
	assert.Equal(t, 9.140625, xmlColWidth(defaultColWidth))
	assert.Equal(t, 20.7109375, xmlColWidth(20))
	assert.Equal(t, 0.85546875, xmlColWidth(0.5))
}

func TestSheetView(t *testing.T) {
	wb := newMemWorkbook(t)
	a, err := wb.AddSheet("A")
	require.NoError(t, err)
	b, err := wb.AddSheet("B")
	require.NoError(t, err)
	c, err := wb.AddSheet("C")
	require.NoError(t, err)

	require.NoError(t, b.Activate())
	require.NoError(t, c.Hide())
	assert.ErrorIs(t, b.Hide(), ErrInvalidParameter)

	require.NoError(t, b.FreezePanes(1, 2))
	require.NoError(t, b.SetZoom(150))
	require.NoError(t, b.HideGridlines(1))
	require.NoError(t, b.SetTabColor(ColorRed))
	require.NoError(t, a.SplitPanes(15, 0))
	require.NoError(t, a.SetSelection(3, 3, 4, 4))
	assert.ErrorIs(t, b.SetZoom(5), ErrInvalidParameter)
	assert.ErrorIs(t, b.FreezePanesAt(2, 2, 1, 2), ErrRowColumnOutOfRange)

	ms := closeMem(t, wb)

	book := part(t, ms, "xl/workbook.xml")
	assert.Equal(t, "1", elems(t, book, "workbookView")[0].Attrs["activeTab"])
	assert.Equal(t, "hidden", elemWith(t, book, "sheet", "name", "C").Attrs["state"])

	doc := part(t, ms, "xl/worksheets/sheet2.xml")
	view := elems(t, doc, "sheetView")[0]
	assert.Equal(t, "1", view.Attrs["tabSelected"])
	assert.Equal(t, "150", view.Attrs["zoomScale"])
	assert.Equal(t, "0", view.Attrs["showGridLines"])
	pane := elems(t, doc, "pane")[0]
	assert.Equal(t, "2", pane.Attrs["xSplit"])
	assert.Equal(t, "1", pane.Attrs["ySplit"])
	assert.Equal(t, "C2", pane.Attrs["topLeftCell"])
	assert.Equal(t, "bottomRight", pane.Attrs["activePane"])
	assert.Equal(t, "frozen", pane.Attrs["state"])
	assert.Equal(t, "bottomRight", elems(t, doc, "selection")[0].Attrs["pane"])
	assert.Equal(t, "FFFF0000", elems(t, doc, "tabColor")[0].Attrs["rgb"])

	doc = part(t, ms, "xl/worksheets/sheet1.xml")
	assert.Empty(t, elems(t, doc, "sheetView")[0].Attrs["tabSelected"])
	pane = elems(t, doc, "pane")[0]
	assert.Equal(t, "600", pane.Attrs["ySplit"])
	assert.Equal(t, "A2", pane.Attrs["topLeftCell"])
	assert.Equal(t, "bottomLeft", pane.Attrs["activePane"])
	assert.Empty(t, pane.Attrs["state"])
	sel := elems(t, doc, "selection")[0]
	assert.Equal(t, "D4", sel.Attrs["activeCell"])
	assert.Equal(t, "D4:E5", sel.Attrs["sqref"])
}

func TestProtectAndPageSetup(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("Print")
	require.NoError(t, err)

	require.NoError(t, sh.Protect(SheetProtection{Password: "password", Sort: true}))
	require.NoError(t, sh.SetLandscape())
	require.NoError(t, sh.SetPaper(9))
	require.NoError(t, sh.FitToPages(1, 0))
	require.NoError(t, sh.SetMargins(0.5, -1, -1, -1))
	require.NoError(t, sh.SetHeader("&CPage &[Page] of &[Pages]", 0))
	require.NoError(t, sh.PrintGridlines())
	require.NoError(t, sh.CenterHorizontally())
	require.NoError(t, sh.Autofilter(0, 0, 10, 3))

	assert.ErrorIs(t, sh.SetPaper(200), ErrInvalidParameter)
	assert.ErrorIs(t, sh.SetPrintScale(401), ErrInvalidParameter)
	assert.ErrorIs(t, sh.SetStartPage(0), ErrInvalidParameter)

	ms := closeMem(t, wb)
	doc := part(t, ms, "xl/worksheets/sheet1.xml")

	prot := elems(t, doc, "sheetProtection")[0]
	assert.Equal(t, "83AF", prot.Attrs["password"])
	assert.Equal(t, "1", prot.Attrs["sheet"])
	assert.Equal(t, "1", prot.Attrs["objects"])
	assert.Equal(t, "0", prot.Attrs["sort"])
	assert.Empty(t, prot.Attrs["formatCells"])

	assert.Equal(t, "1", elems(t, doc, "pageSetUpPr")[0].Attrs["fitToPage"])
	opts := elems(t, doc, "printOptions")[0]
	assert.Equal(t, "1", opts.Attrs["horizontalCentered"])
	assert.Equal(t, "1", opts.Attrs["gridLines"])

	margins := elems(t, doc, "pageMargins")[0]
	assert.Equal(t, "0.5", margins.Attrs["left"])
	assert.Equal(t, "0.7", margins.Attrs["right"])
	assert.Equal(t, "0.75", margins.Attrs["top"])

	setup := elems(t, doc, "pageSetup")[0]
	assert.Equal(t, "9", setup.Attrs["paperSize"])
	assert.Equal(t, "landscape", setup.Attrs["orientation"])
	assert.Equal(t, "0", setup.Attrs["fitToHeight"])
	assert.Empty(t, setup.Attrs["fitToWidth"])

	assert.Equal(t, []string{"&CPage &P of &N"}, texts(t, doc, "oddHeader"))
	assert.Equal(t, "A1:D11", elems(t, doc, "autoFilter")[0].Attrs["ref"])
}

func TestPasswordHash(t *testing.T) {
	assert.Equal(t, "83AF", passwordHash("password"))
	assert.Equal(t, "CE4B", passwordHash(""))
}

func TestWriteTo(t *testing.T) {
	opts := DefaultOptions()
	opts.TmpDir = t.TempDir()
	wb := NewWorkbookOpt("", opts)
	sh, err := wb.AddSheet("Out")
	require.NoError(t, err)
	require.NoError(t, sh.WriteString(0, 0, "streamed", DefaultStyle))

	var bb bytes.Buffer
	n, err := wb.WriteTo(&bb)
	require.NoError(t, err)
	assert.Equal(t, int64(bb.Len()), n)
	assert.True(t, wb.Closed())

	_, err = wb.WriteTo(&bb)
	assert.Equal(t, KindState, KindOf(err))

	f, err := excelize.OpenReader(bytes.NewReader(bb.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Out", "A1")
	require.NoError(t, err)
	assert.Equal(t, "streamed", v)

	entries, err := os.ReadDir(opts.TmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBufferNotReady(t *testing.T) {
	wb := newMemWorkbook(t)
	_, err := wb.Buffer()
	assert.ErrorIs(t, err, ErrBufferNotReady)

	_, err = wb.AddSheet("")
	require.NoError(t, err)
	require.NoError(t, wb.CloseStorage(NewMemStorage()))
	// closed, but not with OutputBuffer
	_, err = wb.Buffer()
	assert.ErrorIs(t, err, ErrBufferNotReady)
}
