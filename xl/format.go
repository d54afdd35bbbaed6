package xl

import (
	"fmt"
	"strings"
)

// Color is an ARGB color value. Zero means automatic / not set.
type Color uint32

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color(0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Commonly used colors.
const (
	ColorBlack   Color = 0xFF000000
	ColorBlue    Color = 0xFF0000FF
	ColorBrown   Color = 0xFF800000
	ColorCyan    Color = 0xFF00FFFF
	ColorGray    Color = 0xFF808080
	ColorGreen   Color = 0xFF008000
	ColorLime    Color = 0xFF00FF00
	ColorMagenta Color = 0xFFFF00FF
	ColorNavy    Color = 0xFF000080
	ColorOrange  Color = 0xFFFF6600
	ColorPink    Color = 0xFFFF00FF
	ColorPurple  Color = 0xFF800080
	ColorRed     Color = 0xFFFF0000
	ColorSilver  Color = 0xFFC0C0C0
	ColorWhite   Color = 0xFFFFFFFF
	ColorYellow  Color = 0xFFFFFF00
)

// argb renders the color the way styles.xml and drawings expect it.
func (c Color) argb() string {
	if c&0xFF000000 == 0 {
		c |= 0xFF000000
	}
	return fmt.Sprintf("%08X", uint32(c))
}

// rgb renders the six digit form used by DrawingML.
func (c Color) rgb() string {
	return fmt.Sprintf("%06X", uint32(c)&0xFFFFFF)
}

// Format is a cell style descriptor. It is a plain comparable value: two
// Formats with equal fields register to the same StyleID.
type Format struct {
	Font           Font
	NumFormat      string // custom number format code, e.g. "0.00%"
	NumFormatIndex int    // builtin number format id, used when NumFormat is empty
	Alignment      Alignment
	Fill           Fill
	Border         Border
	Protection     Protection
	QuotePrefix    bool
}

// HAlign is the horizontal alignment (ST_HorizontalAlignment).
type HAlign string

const (
	HAlignNone         HAlign = ""
	HAlignLeft         HAlign = "left"
	HAlignCenter       HAlign = "center"
	HAlignRight        HAlign = "right"
	HAlignFill         HAlign = "fill"
	HAlignJustify      HAlign = "justify"
	HAlignCenterAcross HAlign = "centerContinuous"
	HAlignDistributed  HAlign = "distributed"
	HAlignGeneral      HAlign = "general"
)

// VAlign is the vertical alignment (ST_VerticalAlignment).
type VAlign string

const (
	VAlignNone        VAlign = ""
	VAlignTop         VAlign = "top"
	VAlignCenter      VAlign = "center"
	VAlignBottom      VAlign = "bottom"
	VAlignJustify     VAlign = "justify"
	VAlignDistributed VAlign = "distributed"
)

type Alignment struct {
	Horizontal   HAlign
	Vertical     VAlign
	TextWrap     bool
	Rotation     int // -90..90, or 270 for stacked text
	Indent       int
	ShrinkToFit  bool
	ReadingOrder int // 0 context, 1 left-to-right, 2 right-to-left
}

func (a Alignment) empty() bool {
	return a == Alignment{}
}

// Pattern is a fill pattern (ST_PatternType).
type Pattern string

const (
	PatternNone            Pattern = ""
	PatternSolid           Pattern = "solid"
	PatternMediumGray      Pattern = "mediumGray"
	PatternDarkGray        Pattern = "darkGray"
	PatternLightGray       Pattern = "lightGray"
	PatternDarkHorizontal  Pattern = "darkHorizontal"
	PatternDarkVertical    Pattern = "darkVertical"
	PatternDarkDown        Pattern = "darkDown"
	PatternDarkUp          Pattern = "darkUp"
	PatternDarkGrid        Pattern = "darkGrid"
	PatternDarkTrellis     Pattern = "darkTrellis"
	PatternLightHorizontal Pattern = "lightHorizontal"
	PatternLightVertical   Pattern = "lightVertical"
	PatternLightDown       Pattern = "lightDown"
	PatternLightUp         Pattern = "lightUp"
	PatternLightGrid       Pattern = "lightGrid"
	PatternLightTrellis    Pattern = "lightTrellis"
	PatternGray125         Pattern = "gray125"
	PatternGray0625        Pattern = "gray0625"
)

type Fill struct {
	Pattern Pattern
	FgColor Color
	BgColor Color
}

// normalized applies Excel's implicit solid fill rules: a background color
// on its own means a solid fill in that color.
func (f Fill) normalized() Fill {
	if f.Pattern == PatternNone && (f.BgColor != 0 || f.FgColor != 0) {
		f.Pattern = PatternSolid
	}
	if f.Pattern == PatternSolid && f.BgColor != 0 && f.FgColor == 0 {
		f.FgColor = f.BgColor
		f.BgColor = 0
	}
	return f
}

// BorderStyle is a cell edge line style (ST_BorderStyle).
type BorderStyle string

const (
	BorderNone             BorderStyle = ""
	BorderThin             BorderStyle = "thin"
	BorderMedium           BorderStyle = "medium"
	BorderDashed           BorderStyle = "dashed"
	BorderDotted           BorderStyle = "dotted"
	BorderThick            BorderStyle = "thick"
	BorderDouble           BorderStyle = "double"
	BorderHair             BorderStyle = "hair"
	BorderMediumDashed     BorderStyle = "mediumDashed"
	BorderDashDot          BorderStyle = "dashDot"
	BorderMediumDashDot    BorderStyle = "mediumDashDot"
	BorderDashDotDot       BorderStyle = "dashDotDot"
	BorderMediumDashDotDot BorderStyle = "mediumDashDotDot"
	BorderSlantDashDot     BorderStyle = "slantDashDot"
)

type Edge struct {
	Style BorderStyle
	Color Color
}

// DiagonalType selects which diagonals a diagonal border draws.
type DiagonalType int

const (
	DiagonalNone DiagonalType = iota
	DiagonalUp
	DiagonalDown
	DiagonalUpDown
)

type Border struct {
	Left, Right, Top, Bottom, Diagonal Edge
	DiagonalType                       DiagonalType
}

// Outline returns a Border with the same edge on all four sides.
func Outline(style BorderStyle, color Color) Border {
	e := Edge{Style: style, Color: color}
	return Border{Left: e, Right: e, Top: e, Bottom: e}
}

type Protection struct {
	Unlocked bool // cells are locked by default once the sheet is protected
	Hidden   bool // hide the formula in the formula bar
}

// validate rejects strings that can not be carried into styles.xml.
func (f *Format) validate() error {
	for _, s := range []string{f.NumFormat, f.Font.Name, f.Font.Scheme} {
		if strings.IndexByte(s, 0) >= 0 {
			return ErrNullByte
		}
	}
	if f.Alignment.Rotation != 270 && (f.Alignment.Rotation < -90 || f.Alignment.Rotation > 90) {
		return fmt.Errorf("%w: rotation %d", ErrInvalidParameter, f.Alignment.Rotation)
	}
	if f.NumFormatIndex < 0 || f.NumFormatIndex >= firstCustomNumFmt {
		return fmt.Errorf("%w: builtin number format %d", ErrInvalidParameter, f.NumFormatIndex)
	}
	return nil
}

// normalized is the canonical form used as the registry key.
func (f Format) normalized() Format {
	f.Font = f.Font.normalized()
	f.Fill = f.Fill.normalized()
	if f.NumFormat != "" {
		if id, ok := builtinNumFmtIDs[f.NumFormat]; ok {
			f.NumFormat = ""
			f.NumFormatIndex = id
		}
	}
	return f
}
