package xl

// Font represents font formatting properties for cell content.
// These properties correspond to the OpenXML font element as defined in ECMA-376.
type Font struct {
	Name          string        // Font face ("" = Calibri)
	Size          float64       // Font size in points (0 = use default of 11)
	Color         Color         // Font color (0 = automatic)
	Bold          bool          // Bold text
	Italic        bool          // Italic text
	Underline     UnderlineType // Underline style
	Strikethrough bool          // Strikethrough text
	Script        ScriptType    // Superscript or subscript
	Outline       bool
	Shadow        bool
	Family        int // font family number (0 = 2, Swiss)
	Charset       int
	Scheme        string // "minor", "major" or "" (the default font uses "minor")
}

// UnderlineType represents the type of underline formatting.
type UnderlineType string

// Underline type constants as defined in ECMA-376 (ST_UnderlineValues).
const (
	UnderlineNone             UnderlineType = ""                 // No underline (default)
	UnderlineSingle           UnderlineType = "single"           // Single underline
	UnderlineDouble           UnderlineType = "double"           // Double underline
	UnderlineSingleAccounting UnderlineType = "singleAccounting" // Single accounting underline
	UnderlineDoubleAccounting UnderlineType = "doubleAccounting" // Double accounting underline
)

// ScriptType is the vertical alignment of a font run (ST_VerticalAlignRun).
type ScriptType string

const (
	ScriptNone        ScriptType = ""
	ScriptSuperscript ScriptType = "superscript"
	ScriptSubscript   ScriptType = "subscript"
)

const (
	defaultFontName = "Calibri"
	defaultFontSize = 11.0
)

// IsDefault returns true if the font uses all default properties.
func (f *Font) IsDefault() bool {
	return *f == Font{}
}

// normalized fills in the defaults so that "" and "Calibri" dedup to one font record.
func (f Font) normalized() Font {
	if f.Name == "" {
		f.Name = defaultFontName
	}
	if f.Size == 0 {
		f.Size = defaultFontSize
	}
	if f.Family == 0 {
		f.Family = 2
	}
	if f.Name == defaultFontName && f.Scheme == "" {
		f.Scheme = "minor"
	}
	return f
}
