package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnName(t *testing.T) {
	for col, want := range map[int]string{
		0:     "A",
		25:    "Z",
		26:    "AA",
		51:    "AZ",
		52:    "BA",
		701:   "ZZ",
		702:   "AAA",
		16383: "XFD",
	} {
		assert.Equal(t, want, ColumnName(col), "column %d", col)
	}
	assert.Panics(t, func() { ColumnName(-1) })
}

func TestCellName(t *testing.T) {
	assert.Equal(t, "A1", CellName(0, 0))
	assert.Equal(t, "C5", CellName(4, 2))
	assert.Equal(t, "$C$5", AbsCellName(4, 2))
	assert.Equal(t, "XFD1048576", CellName(MaxRows-1, MaxCols-1))
}

func TestParseCellName(t *testing.T) {
	row, col, err := ParseCellName("B3")
	require.NoError(t, err)
	assert.Equal(t, 2, row)
	assert.Equal(t, 1, col)

	row, col, err = ParseCellName("$xfd$1048576")
	require.NoError(t, err)
	assert.Equal(t, MaxRows-1, row)
	assert.Equal(t, MaxCols-1, col)

	for _, bad := range []string{"", "A", "1", "A0", "1A", "A-1", "XFE1", "A1048577"} {
		_, _, err := ParseCellName(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("C3:A1")
	require.NoError(t, err)
	assert.Equal(t, Range{0, 0, 2, 2}, r)
	assert.Equal(t, "A1:C3", r.String())
	assert.Equal(t, "$A$1:$C$3", r.Abs())
	assert.Equal(t, 3, r.Rows())
	assert.Equal(t, 3, r.Cols())

	r, err = ParseRange("D4")
	require.NoError(t, err)
	assert.Equal(t, "D4", r.String())
	assert.Equal(t, "$D$4", r.Abs())

	_, err = ParseRange("A1:")
	assert.Error(t, err)
}

func TestRangeOverlaps(t *testing.T) {
	a := NewRange(0, 0, 2, 2)
	assert.True(t, a.Overlaps(NewRange(2, 2, 4, 4)))
	assert.False(t, a.Overlaps(NewRange(3, 0, 4, 4)))
	assert.True(t, a.Contains(1, 1))
	assert.False(t, a.Contains(3, 1))
}

func TestQuoteSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", quoteSheetName("Sheet1"))
	assert.Equal(t, "Data_2024.v2", quoteSheetName("Data_2024.v2"))
	assert.Equal(t, "'My sheet'", quoteSheetName("My sheet"))
	assert.Equal(t, "'1st'", quoteSheetName("1st"))
	assert.Equal(t, "'Bob''s'", quoteSheetName("Bob's"))
	assert.Equal(t, "'Quoted'", quoteSheetName("'Quoted'"))

	assert.Equal(t, "'My sheet'!$A$1:$B$2", sheetRef("My sheet", NewRange(0, 0, 1, 1)))
}

func TestSplitSheetRef(t *testing.T) {
	sheet, r, err := splitSheetRef("='Bob''s data'!$B$2:$B$10")
	require.NoError(t, err)
	assert.Equal(t, "Bob's data", sheet)
	assert.Equal(t, NewRange(1, 1, 9, 1), r)

	sheet, r, err = splitSheetRef("Sheet1!C3")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", sheet)
	assert.Equal(t, NewRange(2, 2, 2, 2), r)

	_, _, err = splitSheetRef("A1:B2")
	assert.Error(t, err)
}
