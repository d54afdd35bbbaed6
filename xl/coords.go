package xl

import (
	"fmt"
	"strconv"
	"strings"
)

// Worksheet limits of the xlsx format.
const (
	MaxRows = 1_048_576
	MaxCols = 16_384
)

// ColumnName converts a zero-based column index into letters: 0 -> "A", 26 -> "AA".
func ColumnName(col int) string {
	if col < 0 {
		panic("invalid column number")
	}
	return columnNumberAsLetters(col + 1)
}

func columnNumberAsLetters(n int) string {
	var s string
	for n > 0 {
		s = string(rune((n-1)%26+65)) + s
		n = (n - 1) / 26
	}
	return s
}

// CellName returns the A1 reference of a zero-based (row, col).
func CellName(row, col int) string {
	return ColumnName(col) + strconv.Itoa(row+1)
}

// AbsCellName returns the $A$1 reference of a zero-based (row, col).
func AbsCellName(row, col int) string {
	return "$" + ColumnName(col) + "$" + strconv.Itoa(row+1)
}

// ParseCellName converts "B3" or "$B$3" into zero-based (row, col).
func ParseCellName(s string) (row, col int, err error) {
	s = strings.ReplaceAll(s, "$", "")
	i := 0
	for i < len(s) && ((s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z')) {
		c := s[i]
		if c >= 'a' {
			c -= 'a' - 'A'
		}
		col = col*26 + int(c-'A') + 1
		i++
	}
	if i == 0 || i == len(s) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", s)
	}
	r, err := strconv.Atoi(s[i:])
	if err != nil || r < 1 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", s)
	}
	row, col = r-1, col-1
	if row >= MaxRows || col >= MaxCols {
		return 0, 0, fmt.Errorf("cell reference %q out of range", s)
	}
	return row, col, nil
}

// Range is a rectangular block of cells, all indexes zero-based and inclusive.
type Range struct {
	FirstRow, FirstCol int
	LastRow, LastCol   int
}

// NewRange returns a Range with its corners normalized.
func NewRange(firstRow, firstCol, lastRow, lastCol int) Range {
	if firstRow > lastRow {
		firstRow, lastRow = lastRow, firstRow
	}
	if firstCol > lastCol {
		firstCol, lastCol = lastCol, firstCol
	}
	return Range{firstRow, firstCol, lastRow, lastCol}
}

// ParseRange converts "A1:C3" (or a single "A1") into a Range.
func ParseRange(s string) (Range, error) {
	a, b, found := strings.Cut(s, ":")
	r1, c1, err := ParseCellName(a)
	if err != nil {
		return Range{}, err
	}
	if !found {
		return Range{r1, c1, r1, c1}, nil
	}
	r2, c2, err := ParseCellName(b)
	if err != nil {
		return Range{}, err
	}
	return NewRange(r1, c1, r2, c2), nil
}

// String returns the relative A1:B2 form, collapsing a single cell to A1.
func (r Range) String() string {
	if r.FirstRow == r.LastRow && r.FirstCol == r.LastCol {
		return CellName(r.FirstRow, r.FirstCol)
	}
	return CellName(r.FirstRow, r.FirstCol) + ":" + CellName(r.LastRow, r.LastCol)
}

// Abs returns the absolute $A$1:$B$2 form.
func (r Range) Abs() string {
	if r.FirstRow == r.LastRow && r.FirstCol == r.LastCol {
		return AbsCellName(r.FirstRow, r.FirstCol)
	}
	return AbsCellName(r.FirstRow, r.FirstCol) + ":" + AbsCellName(r.LastRow, r.LastCol)
}

func (r Range) Contains(row, col int) bool {
	return row >= r.FirstRow && row <= r.LastRow && col >= r.FirstCol && col <= r.LastCol
}

func (r Range) Overlaps(o Range) bool {
	return r.FirstRow <= o.LastRow && o.FirstRow <= r.LastRow &&
		r.FirstCol <= o.LastCol && o.FirstCol <= r.LastCol
}

func (r Range) Rows() int { return r.LastRow - r.FirstRow + 1 }
func (r Range) Cols() int { return r.LastCol - r.FirstCol + 1 }

func (r Range) valid() bool {
	return r.FirstRow >= 0 && r.FirstCol >= 0 && r.LastRow < MaxRows && r.LastCol < MaxCols &&
		r.FirstRow <= r.LastRow && r.FirstCol <= r.LastCol
}

// quoteSheetName quotes a sheet name for use in a formula when it contains
// anything other than letters, digits, dots and underscores.
func quoteSheetName(name string) string {
	if strings.HasPrefix(name, "'") {
		return name
	}
	plain := true
	for i, c := range name {
		isAlpha := c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c > 127
		isDigit := c >= '0' && c <= '9'
		if !isAlpha && !(isDigit && i > 0) {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// sheetRef returns "Sheet1!$A$1:$B$2" for a range on the named sheet.
func sheetRef(sheet string, r Range) string {
	return quoteSheetName(sheet) + "!" + r.Abs()
}

// splitSheetRef splits "Sheet1!$A$1:$B$2" or "'My sheet'!A1" into its parts.
func splitSheetRef(ref string) (sheet string, rng Range, err error) {
	ref = strings.TrimPrefix(ref, "=")
	i := strings.LastIndex(ref, "!")
	if i < 0 {
		return "", Range{}, fmt.Errorf("reference %q has no sheet name", ref)
	}
	sheet = ref[:i]
	if strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") && len(sheet) >= 2 {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	rng, err = ParseRange(ref[i+1:])
	return sheet, rng, err
}
