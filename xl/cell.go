package xl

// Cell is the value stored at one (row, col) of a worksheet. Cells are
// created by the Sheet.Write* methods; the exported accessors are read-only.
type Cell struct {
	typ     CellType
	style   StyleID
	num     float64   // number, boolean (0/1), formula numeric result
	sst     int       // shared string index
	v       string    // inline text, formula text or error code
	result  string    // formula string result
	strRes  bool      // formula result is a string
	array   Range     // array formula target range
	runs    []RichRun // rich string runs kept inline in constant memory mode
	image   *imageInfo
}

// CellType is the type of cell value type.
type CellType int

// Cell value types enumeration.
const (
	CellTypeUnset CellType = iota
	CellTypeBool
	CellTypeBlank
	CellTypeError
	CellTypeFormula
	CellTypeArrayFormula
	CellTypeInlineString
	CellTypeNumber
	CellTypeSharedString
	CellTypeRichString

	// internal
	cellTypePicture // in-cell picture, written as a #VALUE! error with value metadata
)

// ErrorValue is one of the error literals Excel shows in a cell.
type ErrorValue string

const (
	ErrorNull ErrorValue = "#NULL!"
	ErrorDiv0 ErrorValue = "#DIV/0!"
	ErrorVal  ErrorValue = "#VALUE!"
	ErrorRef  ErrorValue = "#REF!"
	ErrorName ErrorValue = "#NAME?"
	ErrorNum  ErrorValue = "#NUM!"
	ErrorNA   ErrorValue = "#N/A"
)

func (e ErrorValue) valid() bool {
	switch e {
	case ErrorNull, ErrorDiv0, ErrorVal, ErrorRef, ErrorName, ErrorNum, ErrorNA:
		return true
	}
	return false
}

// RichRun is one fragment of a rich string. Style selects the font of the
// fragment; DefaultStyle uses the cell's font.
type RichRun struct {
	Style StyleID
	Text  string
}

func (c *Cell) Type() CellType  { return c.typ }
func (c *Cell) Style() StyleID  { return c.style }
func (c *Cell) Number() float64 { return c.num }
func (c *Cell) Bool() bool      { return c.typ == CellTypeBool && c.num != 0 }

// StringIndex returns the shared string index of a string or rich string cell.
func (c *Cell) StringIndex() int { return c.sst }

// Formula returns the formula text of a formula cell, the text of an inline
// string cell, or the literal of an error cell.
func (c *Cell) Formula() string { return c.v }
