package xl

import (
	"fmt"
	"strings"
)

// TotalFunction is the aggregate shown in a table's total row.
type TotalFunction int

const (
	TotalNone TotalFunction = iota
	TotalAverage
	TotalCountNums
	TotalCount
	TotalMax
	TotalMin
	TotalStdDev
	TotalSum
	TotalVar
)

// name is the totalsRowFunction attribute value, code the SUBTOTAL number.
func (f TotalFunction) name() (string, int) {
	switch f {
	case TotalAverage:
		return "average", 101
	case TotalCountNums:
		return "countNums", 102
	case TotalCount:
		return "count", 103
	case TotalMax:
		return "max", 104
	case TotalMin:
		return "min", 105
	case TotalStdDev:
		return "stdDev", 107
	case TotalSum:
		return "sum", 109
	case TotalVar:
		return "var", 110
	}
	return "", 0
}

// TableStyle selects one of Excel's builtin table styles.
type TableStyle int

const (
	TableStyleDefault TableStyle = iota
	TableStyleNone
	TableStyleLight
	TableStyleMedium
	TableStyleDark
)

type TableColumn struct {
	Header        string // "" means "ColumnN"
	HeaderStyle   StyleID
	Formula       string // structured reference formula filling the data rows
	Style         StyleID
	TotalFunction TotalFunction
	TotalLabel    string
	TotalValue    float64 // cached result of TotalFunction
}

// TableOptions configures AddTable. The zero value gives a table with a
// header row, autofilter buttons, banded rows and TableStyleMedium9.
type TableOptions struct {
	Name          string
	NoHeaderRow   bool
	NoAutofilter  bool
	NoBandedRows  bool
	BandedColumns bool
	FirstColumn   bool
	LastColumn    bool
	TotalRow      bool
	Style         TableStyle
	StyleNumber   int
	Columns       []TableColumn
}

// Table is a structured range added with Sheet.AddTable.
type Table struct {
	id      int
	name    string
	rng     Range
	opt     TableOptions
	columns []TableColumn
}

func (t *Table) Name() string { return t.name }
func (t *Table) Range() Range { return t.rng }

// AddTable turns a range into an Excel table. The header and total row
// cells are written into the grid; the data cells are left to the caller.
func (s *Sheet) AddTable(firstRow, firstCol, lastRow, lastCol int, opt *TableOptions) (*Table, error) {
	const op = "AddTable"
	if err := s.checkOpen(op); err != nil {
		return nil, err
	}
	if opt == nil {
		opt = &TableOptions{}
	}
	rng := NewRange(firstRow, firstCol, lastRow, lastCol)
	if err := checkRange(op, rng); err != nil {
		return nil, err
	}
	minRows := 1
	if !opt.NoHeaderRow {
		minRows++
	}
	if opt.TotalRow {
		minRows++
	}
	if rng.Rows() < minRows {
		return nil, validationError(op, CodeParameterValidation, fmt.Errorf("%w: table %s needs at least %d rows", ErrInvalidParameter, rng, minRows))
	}
	if len(opt.Columns) > 0 && len(opt.Columns) != rng.Cols() {
		return nil, validationError(op, CodeParameterValidation, fmt.Errorf("%w: %d columns for %d wide range", ErrColumnCountMismatch, len(opt.Columns), rng.Cols()))
	}
	for _, t := range s.tables {
		if t.rng.Overlaps(rng) {
			return nil, validationError(op, CodeParameterValidation, fmt.Errorf("%w: table %s overlaps %s", ErrInvalidParameter, rng, t.name))
		}
	}
	if opt.Style == TableStyleLight && (opt.StyleNumber < 1 || opt.StyleNumber > 21) ||
		opt.Style == TableStyleMedium && (opt.StyleNumber < 1 || opt.StyleNumber > 28) ||
		opt.Style == TableStyleDark && (opt.StyleNumber < 1 || opt.StyleNumber > 11) {
		return nil, validationError(op, CodeParameterValidation, fmt.Errorf("%w: table style %d", ErrInvalidParameter, opt.StyleNumber))
	}

	wb := s.workbook
	name := opt.Name
	if name == "" {
		name = fmt.Sprintf("Table%d", wb.tableCount+1)
	} else if err := validateName(name); err != nil {
		return nil, validationError(op, CodeParameterValidation, err)
	}
	if wb.tableNames[strings.ToLower(name)] {
		return nil, validationError(op, CodeParameterValidation, fmt.Errorf("%w: table name %q already used", ErrInvalidName, name))
	}

	cols := make([]TableColumn, rng.Cols())
	copy(cols, opt.Columns)
	seen := map[string]bool{}
	for i := range cols {
		c := &cols[i]
		if c.Header == "" {
			c.Header = fmt.Sprintf("Column%d", i+1)
		}
		key := strings.ToLower(c.Header)
		if seen[key] {
			return nil, validationError(op, CodeParameterValidation, fmt.Errorf("%w: duplicate table header %q", ErrInvalidParameter, c.Header))
		}
		seen[key] = true
		for _, st := range []StyleID{c.HeaderStyle, c.Style} {
			if err := wb.checkStyle(op, st); err != nil {
				return nil, err
			}
		}
		if err := checkText(c.Header); err != nil {
			return nil, validationError(op, CodeMaxStringLengthExceeded, err)
		}
		c.Formula = strings.TrimPrefix(c.Formula, "=")
	}

	// Cells are validated up front and then written row by row, so a
	// failing call leaves the grid untouched. Rows already flushed in
	// constant memory mode keep what the caller wrote there.
	var cells []tableCell
	dataFirst, dataLast := rng.FirstRow, rng.LastRow
	if !opt.NoHeaderRow {
		for i, c := range cols {
			cells = append(cells, tableCell{row: rng.FirstRow, col: rng.FirstCol + i, text: c.Header, style: c.HeaderStyle})
		}
		dataFirst++
	}
	if opt.TotalRow {
		dataLast--
	}
	for r := dataFirst; r <= dataLast; r++ {
		for i, c := range cols {
			if c.Formula != "" {
				cells = append(cells, tableCell{row: r, col: rng.FirstCol + i, formula: c.Formula, style: c.Style})
			}
		}
	}
	if opt.TotalRow {
		for i, c := range cols {
			tc := tableCell{row: rng.LastRow, col: rng.FirstCol + i, style: c.Style}
			switch {
			case c.TotalLabel != "":
				tc.text = c.TotalLabel
			case c.TotalFunction != TotalNone:
				_, code := c.TotalFunction.name()
				tc.formula = fmt.Sprintf("SUBTOTAL(%d,[%s])", code, escapeTableHeader(c.Header))
				tc.value = c.TotalValue
			default:
				continue
			}
			cells = append(cells, tc)
		}
	}
	n := 0
	for _, tc := range cells {
		if s.flushed(tc.row) {
			continue
		}
		if err := s.checkCell(op, tc.row, tc.col, tc.style); err != nil {
			return nil, err
		}
		if tc.formula != "" {
			if _, err := cleanFormula(tc.formula); err != nil {
				return nil, validationError(op, CodeParameterValidation, err)
			}
		} else if err := checkText(tc.text); err != nil {
			return nil, validationError(op, CodeMaxStringLengthExceeded, err)
		}
		cells[n] = tc
		n++
	}
	for _, tc := range cells[:n] {
		var err error
		if tc.formula != "" {
			err = s.WriteFormulaNum(tc.row, tc.col, tc.formula, tc.style, tc.value)
		} else {
			err = s.WriteString(tc.row, tc.col, tc.text, tc.style)
		}
		if err != nil {
			return nil, err
		}
	}

	wb.tableCount++
	wb.tableNames[strings.ToLower(name)] = true
	t := &Table{id: wb.tableCount, name: name, rng: rng, opt: *opt, columns: cols}
	s.tables = append(s.tables, t)
	return t, nil
}

// tableCell is a header, column formula or total cell that AddTable writes.
type tableCell struct {
	row, col int
	text     string
	formula  string
	value    float64
	style    StyleID
}

// escapeTableHeader escapes the characters that are special inside a
// structured reference.
func escapeTableHeader(h string) string {
	r := strings.NewReplacer("'", "''", "#", "'#", "[", "'[", "]", "']")
	return r.Replace(h)
}

func (t *Table) styleName() string {
	switch t.opt.Style {
	case TableStyleNone:
		return ""
	case TableStyleLight:
		return fmt.Sprintf("TableStyleLight%d", t.opt.StyleNumber)
	case TableStyleMedium:
		return fmt.Sprintf("TableStyleMedium%d", t.opt.StyleNumber)
	case TableStyleDark:
		return fmt.Sprintf("TableStyleDark%d", t.opt.StyleNumber)
	}
	return "TableStyleMedium9"
}
