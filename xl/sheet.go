package xl

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Sheet is a worksheet. It belongs to exactly one Workbook and must not be
// used after that workbook is closed: every method then fails with
// ErrUseAfterClose.
type Sheet struct {
	Name    string
	Columns map[int]*Column // zero-based

	workbook *Workbook
	index    int // zero-based position in the workbook
	rows     map[int]*Row
	dim      dimensions
	spool    *rowSpool

	merged      []Range
	hyperlinks  []*hyperlink
	autofilter  *Range
	condFormats []*condFormatRange
	validations []*dataValidationEntry
	tables      []*Table
	comments    []*comment
	drawings    []*drawingObject

	view  sheetView
	setup pageSetup
	prot  *SheetProtection

	defaultRowHeight float64
	outlineRowLevel  int
	outlineColLevel  int

	commentAuthor string
	showComments  bool
}

// dimensions tracks the used range for the <dimension> element.
type dimensions struct {
	set            bool
	minRow, minCol int
	maxRow, maxCol int
}

func (d *dimensions) include(row, col int) {
	if !d.set {
		*d = dimensions{true, row, col, row, col}
		return
	}
	d.minRow = min(d.minRow, row)
	d.maxRow = max(d.maxRow, row)
	d.minCol = min(d.minCol, col)
	d.maxCol = max(d.maxCol, col)
}

func (d dimensions) ref() string {
	if !d.set {
		return "A1"
	}
	return NewRange(d.minRow, d.minCol, d.maxRow, d.maxCol).String()
}

func newSheet(wb *Workbook, name string, index int) *Sheet {
	return &Sheet{
		Name:     name,
		Columns:  map[int]*Column{},
		workbook: wb,
		index:    index,
		rows:     map[int]*Row{},
		view:     newSheetView(),
		setup:    newPageSetup(),
	}
}

// Workbook returns the owning workbook.
func (s *Sheet) Workbook() *Workbook {
	return s.workbook
}

func (s *Sheet) checkOpen(op string) error {
	if s.workbook.closed {
		return stateError(op)
	}
	return nil
}

// checkCell performs every check a cell write needs before any mutation.
func (s *Sheet) checkCell(op string, row, col int, style StyleID) error {
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if row < 0 || row >= MaxRows || col < 0 || col >= MaxCols {
		return validationError(op, CodeWorksheetIndexOutOfRange, fmt.Errorf("%w: (%d, %d)", ErrRowColumnOutOfRange, row, col))
	}
	if err := s.workbook.checkStyle(op, style); err != nil {
		return err
	}
	if s.flushed(row) {
		return validationError(op, CodeWorksheetIndexOutOfRange, ErrRowFlushed)
	}
	for _, m := range s.merged {
		if m.Contains(row, col) && (row != m.FirstRow || col != m.FirstCol) {
			return validationError(op, CodeParameterValidation, fmt.Errorf("%w: %s in %s", ErrMergedCell, CellName(row, col), m))
		}
	}
	return nil
}

// flushed reports whether row has already been written out in constant
// memory mode.
func (s *Sheet) flushed(row int) bool {
	return s.spool != nil && s.spool.current >= 0 && row < s.spool.current
}

// checkCells runs checkCell over every cell of r.
func (s *Sheet) checkCells(op string, r Range, style StyleID) error {
	for row := r.FirstRow; row <= r.LastRow; row++ {
		for col := r.FirstCol; col <= r.LastCol; col++ {
			if err := s.checkCell(op, row, col, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkRange(op string, r Range) error {
	if !r.valid() {
		return validationError(op, CodeWorksheetIndexOutOfRange, fmt.Errorf("%w: %v", ErrRowColumnOutOfRange, r))
	}
	return nil
}

// put stores c at (row, col), replacing any previous cell.
func (s *Sheet) put(row, col int, c *Cell) error {
	if err := s.touchRow(row); err != nil {
		return err
	}
	r, ok := s.rows[row]
	if !ok {
		r = newRow()
		s.rows[row] = r
	}
	r.cells[col] = c
	s.dim.include(row, col)
	return nil
}

func (s *Sheet) row(row int) *Row {
	r, ok := s.rows[row]
	if !ok {
		r = newRow()
		s.rows[row] = r
	}
	return r
}

// Cell returns the cell stored at (row, col), or nil. In constant memory
// mode flushed rows are no longer available.
func (s *Sheet) Cell(row, col int) *Cell {
	if r, ok := s.rows[row]; ok {
		return r.cells[col]
	}
	return nil
}

func (s *Sheet) store(op string, row, col int, c *Cell) error {
	if err := s.put(row, col, c); err != nil {
		return validationError(op, CodeWorksheetIndexOutOfRange, err)
	}
	return nil
}

// WriteNumber writes a numeric value.
func (s *Sheet) WriteNumber(row, col int, v float64, style StyleID) error {
	const op = "WriteNumber"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: %v is not a finite number", ErrInvalidParameter, v))
	}
	return s.store(op, row, col, &Cell{typ: CellTypeNumber, num: v, style: style})
}

// WriteString writes text, interned in the shared string table (or stored
// inline in constant memory mode).
func (s *Sheet) WriteString(row, col int, v string, style StyleID) error {
	const op = "WriteString"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	if err := checkText(v); err != nil {
		return validationError(op, CodeMaxStringLengthExceeded, err)
	}
	return s.store(op, row, col, s.stringCell(v, style))
}

func (s *Sheet) stringCell(v string, style StyleID) *Cell {
	if s.spool != nil {
		return &Cell{typ: CellTypeInlineString, v: v, style: style}
	}
	return &Cell{typ: CellTypeSharedString, sst: s.workbook.sst.intern(v), style: style}
}

// WriteFormula writes a formula with a cached result of 0. The leading "="
// is optional.
func (s *Sheet) WriteFormula(row, col int, formula string, style StyleID) error {
	return s.WriteFormulaNum(row, col, formula, style, 0)
}

// WriteFormulaNum writes a formula together with the numeric result viewers
// should show until the file is recalculated.
func (s *Sheet) WriteFormulaNum(row, col int, formula string, style StyleID, result float64) error {
	const op = "WriteFormula"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	f, err := cleanFormula(formula)
	if err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	return s.store(op, row, col, &Cell{typ: CellTypeFormula, v: f, num: result, style: style})
}

// WriteFormulaStr writes a formula with a cached string result.
func (s *Sheet) WriteFormulaStr(row, col int, formula string, style StyleID, result string) error {
	const op = "WriteFormulaStr"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	f, err := cleanFormula(formula)
	if err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	if err := checkText(result); err != nil {
		return validationError(op, CodeMaxStringLengthExceeded, err)
	}
	return s.store(op, row, col, &Cell{typ: CellTypeFormula, v: f, result: result, strRes: true, style: style})
}

// WriteArrayFormula writes a legacy CSE array formula over a range. The
// formula is stored in the top-left cell; the other cells get a cached 0.
func (s *Sheet) WriteArrayFormula(firstRow, firstCol, lastRow, lastCol int, formula string, style StyleID) error {
	const op = "WriteArrayFormula"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	rng := NewRange(firstRow, firstCol, lastRow, lastCol)
	if err := checkRange(op, rng); err != nil {
		return err
	}
	if err := s.checkCells(op, rng, style); err != nil {
		return err
	}
	f, err := cleanFormula(strings.TrimSuffix(strings.TrimPrefix(formula, "{"), "}"))
	if err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	if err := s.store(op, rng.FirstRow, rng.FirstCol, &Cell{typ: CellTypeArrayFormula, v: f, array: rng, style: style}); err != nil {
		return err
	}
	for r := rng.FirstRow; r <= rng.LastRow; r++ {
		for c := rng.FirstCol; c <= rng.LastCol; c++ {
			if r == rng.FirstRow && c == rng.FirstCol {
				continue
			}
			if err := s.store(op, r, c, &Cell{typ: CellTypeNumber, style: style}); err != nil {
				return err
			}
		}
	}
	return nil
}

func cleanFormula(f string) (string, error) {
	f = strings.TrimPrefix(f, "=")
	if f == "" {
		return "", fmt.Errorf("%w: empty formula", ErrInvalidParameter)
	}
	if err := checkText(f); err != nil {
		return "", err
	}
	if strings.IndexByte(f, 0) >= 0 {
		return "", ErrNullByte
	}
	return f, nil
}

// WriteBoolean writes TRUE or FALSE.
func (s *Sheet) WriteBoolean(row, col int, v bool, style StyleID) error {
	const op = "WriteBoolean"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	c := &Cell{typ: CellTypeBool, style: style}
	if v {
		c.num = 1
	}
	return s.store(op, row, col, c)
}

// WriteBlank writes a formatted empty cell. A blank cell without a style
// carries no information: it only clears whatever was stored at (row, col).
func (s *Sheet) WriteBlank(row, col int, style StyleID) error {
	const op = "WriteBlank"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	if style == DefaultStyle {
		if r, ok := s.rows[row]; ok {
			delete(r.cells, col)
		}
		return nil
	}
	return s.store(op, row, col, &Cell{typ: CellTypeBlank, style: style})
}

// WriteError writes one of Excel's error literals, e.g. ErrorNA.
func (s *Sheet) WriteError(row, col int, v ErrorValue, style StyleID) error {
	const op = "WriteError"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	if !v.valid() {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: error value %q", ErrInvalidParameter, v))
	}
	return s.store(op, row, col, &Cell{typ: CellTypeError, v: string(v), style: style})
}

// WriteDateTime writes t as an Excel serial date. Use a style with a date
// number format to display it as a date.
func (s *Sheet) WriteDateTime(row, col int, t time.Time, style StyleID) error {
	const op = "WriteDateTime"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	v, err := excelTime(t, s.workbook.date1904)
	if err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	return s.store(op, row, col, &Cell{typ: CellTypeNumber, num: v, style: style})
}

// WriteRichString writes a string made of differently formatted runs. Runs
// must be non-empty, and two neighbouring runs must not share a style.
func (s *Sheet) WriteRichString(row, col int, runs []RichRun, style StyleID) error {
	const op = "WriteRichString"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	if len(runs) == 0 {
		return validationError(op, CodeParameterValidation, ErrRichStringEmpty)
	}
	total := 0
	for i, r := range runs {
		if r.Text == "" {
			return validationError(op, CodeParameterValidation, fmt.Errorf("%w: run %d", ErrRichStringEmptyRun, i))
		}
		if i > 0 && runs[i-1].Style == r.Style {
			return validationError(op, CodeParameterValidation, fmt.Errorf("%w: runs %d and %d", ErrRichStringSameFormat, i-1, i))
		}
		if err := s.workbook.checkStyle(op, r.Style); err != nil {
			return err
		}
		if err := checkText(r.Text); err != nil {
			return validationError(op, CodeMaxStringLengthExceeded, err)
		}
		total += len([]rune(r.Text))
	}
	if total > MaxStringLength {
		return validationError(op, CodeMaxStringLengthExceeded, ErrMaxStringLength)
	}
	c := &Cell{typ: CellTypeRichString, style: style}
	if s.spool != nil {
		c.runs = append([]RichRun(nil), runs...)
	} else {
		c.sst = s.workbook.sst.internRich(runs)
	}
	return s.store(op, row, col, c)
}
