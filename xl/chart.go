package xl

import (
	"fmt"
	"strings"
)

// ChartType selects the chart family and its grouping.
type ChartType int

const (
	ChartArea ChartType = iota + 1
	ChartAreaStacked
	ChartAreaPercent
	ChartBar
	ChartBarStacked
	ChartBarPercent
	ChartColumn
	ChartColumnStacked
	ChartColumnPercent
	ChartDoughnut
	ChartLine
	ChartLineStacked
	ChartLinePercent
	ChartPie
	ChartScatter
	ChartScatterStraight
	ChartScatterStraightMarkers
	ChartScatterSmooth
	ChartScatterSmoothMarkers
	ChartRadar
	ChartRadarMarkers
	ChartRadarFilled
)

func (t ChartType) valid() bool {
	return t >= ChartArea && t <= ChartRadarFilled
}

func (t ChartType) isPie() bool {
	return t == ChartPie || t == ChartDoughnut
}

func (t ChartType) isScatter() bool {
	return t >= ChartScatter && t <= ChartScatterSmoothMarkers
}

// LegendPosition places the chart legend.
type LegendPosition int

const (
	LegendRight LegendPosition = iota
	LegendNone
	LegendTop
	LegendBottom
	LegendLeft
	LegendTopRight
	LegendOverlayRight
	LegendOverlayLeft
)

// MarkerType is a line or scatter point marker.
type MarkerType string

const (
	MarkerAutomatic MarkerType = ""
	MarkerNone      MarkerType = "none"
	MarkerSquare    MarkerType = "square"
	MarkerDiamond   MarkerType = "diamond"
	MarkerTriangle  MarkerType = "triangle"
	MarkerX         MarkerType = "x"
	MarkerStar      MarkerType = "star"
	MarkerDash      MarkerType = "dash"
	MarkerDot       MarkerType = "dot"
	MarkerCircle    MarkerType = "circle"
	MarkerPlus      MarkerType = "plus"
)

// LineDash is the dash style of a chart line.
type LineDash string

const (
	DashSolid       LineDash = ""
	DashRoundDot    LineDash = "sysDot"
	DashSquareDot   LineDash = "sysDash"
	DashDash        LineDash = "dash"
	DashDashDot     LineDash = "dashDot"
	DashLongDash    LineDash = "lgDash"
	DashLongDashDot LineDash = "lgDashDot"
)

// ChartLineFormat formats a line or border. The zero value is automatic.
type ChartLineFormat struct {
	Color        Color
	None         bool
	Width        float64 // points
	Dash         LineDash
	Transparency int // percent
}

func (l *ChartLineFormat) set() bool {
	return l != nil && *l != ChartLineFormat{}
}

// ChartFill formats an area. The zero value is automatic.
type ChartFill struct {
	Color        Color
	None         bool
	Transparency int
}

func (f *ChartFill) set() bool {
	return f != nil && *f != ChartFill{}
}

type ChartMarker struct {
	Type MarkerType
	Size int // 2..72, 0 = automatic
	Line *ChartLineFormat
	Fill *ChartFill
}

// ChartDataLabels selects what data labels show.
type ChartDataLabels struct {
	Value       bool
	Category    bool
	SeriesName  bool
	Percentage  bool
	LeaderLines bool
	Position    string // "ctr", "inEnd", "outEnd", "bestFit", ...
}

// ChartSeries is one data series. Ranges are formulas such as
// "=Sheet1!$A$1:$A$5"; the cached values are read from the grid at finalize.
type ChartSeries struct {
	chart      *Chart
	categories string
	values     string
	name       string
	nameRef    string

	Line             *ChartLineFormat
	Fill             *ChartFill
	Marker           *ChartMarker
	DataLabels       *ChartDataLabels
	Smooth           bool
	InvertIfNegative bool
}

// SetName sets the series name shown in the legend. A formula such as
// "=Sheet1!$B$1" refers to a cell.
func (s *ChartSeries) SetName(name string) error {
	const op = "ChartSeries.SetName"
	if s.chart.workbook.closed {
		return stateError(op)
	}
	if err := checkText(name); err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	if strings.HasPrefix(name, "=") {
		if _, _, err := splitSheetRef(name); err != nil {
			return validationError(op, CodeParameterValidation, fmt.Errorf("%w: %v", ErrInvalidParameter, err))
		}
		s.name, s.nameRef = "", strings.TrimPrefix(name, "=")
		return nil
	}
	s.name, s.nameRef = name, ""
	return nil
}

// ChartAxis holds axis settings. Pie and doughnut charts have no axes.
type ChartAxis struct {
	Name           string
	Min, Max       *float64
	NumFormat      string
	MajorGridlines bool
	MinorGridlines bool
	Reverse        bool
	LogBase        float64 // 0 = linear
	Hidden         bool
}

// Chart is a chart definition. Create it with Workbook.AddChart, add series,
// then insert it once with Sheet.InsertChart.
type Chart struct {
	workbook *Workbook
	typ      ChartType
	id       int // 1-based chartN.xml number, assigned at finalize
	series   []*ChartSeries
	inserted bool

	title        string
	titleRef     string
	titleOff     bool
	XAxis        ChartAxis
	YAxis        ChartAxis
	Legend       LegendPosition
	Style        int // 1..48, 0 = Excel's default style 2
	HoleSize     int // doughnut hole, percent 10..90
	FirstSlice   int // pie rotation in degrees
	GapWidth     *int
	Overlap      *int
	ShowBlanksAs string // "gap", "zero" or "span"

	axisIDs [2]int
}

// AddChart creates a chart owned by the workbook.
func (wb *Workbook) AddChart(t ChartType) (*Chart, error) {
	const op = "AddChart"
	if wb.closed {
		return nil, stateError(op)
	}
	if !t.valid() {
		return nil, validationError(op, CodeParameterValidation, fmt.Errorf("%w: chart type %d", ErrInvalidParameter, t))
	}
	c := &Chart{workbook: wb, typ: t}
	c.YAxis.MajorGridlines = !t.isPie()
	if t == ChartBar || t == ChartBarStacked || t == ChartBarPercent {
		c.YAxis.MajorGridlines = false
		c.XAxis.MajorGridlines = true
	}
	n := len(wb.charts) + 1
	c.axisIDs = [2]int{50010000 + n*10 + 1, 50010000 + n*10 + 2}
	wb.charts = append(wb.charts, c)
	return c, nil
}

func (c *Chart) Type() ChartType { return c.typ }

// AddSeries adds a series. categories may be empty; values is required.
// Scatter charts use categories as the X values.
func (c *Chart) AddSeries(categories, values string) (*ChartSeries, error) {
	const op = "Chart.AddSeries"
	if c.workbook.closed {
		return nil, stateError(op)
	}
	if values == "" {
		return nil, validationError(op, CodeParameterValidation, fmt.Errorf("%w: series values are required", ErrInvalidParameter))
	}
	for _, ref := range []string{categories, values} {
		if ref == "" {
			continue
		}
		if _, rng, err := splitSheetRef(ref); err != nil || !rng.valid() {
			return nil, validationError(op, CodeParameterValidation, fmt.Errorf("%w: range %q", ErrInvalidParameter, ref))
		}
	}
	s := &ChartSeries{
		chart:      c,
		categories: strings.TrimPrefix(categories, "="),
		values:     strings.TrimPrefix(values, "="),
	}
	c.series = append(c.series, s)
	return s, nil
}

// SetTitle sets the chart title. A formula such as "=Sheet1!$A$1" refers
// to a cell.
func (c *Chart) SetTitle(title string) error {
	const op = "Chart.SetTitle"
	if c.workbook.closed {
		return stateError(op)
	}
	if err := checkText(title); err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	if strings.HasPrefix(title, "=") {
		c.title, c.titleRef = "", strings.TrimPrefix(title, "=")
	} else {
		c.title, c.titleRef = title, ""
	}
	c.titleOff = false
	return nil
}

// TitleOff removes the automatic title single-series charts get.
func (c *Chart) TitleOff() error {
	if c.workbook.closed {
		return stateError("Chart.TitleOff")
	}
	c.titleOff = true
	c.title, c.titleRef = "", ""
	return nil
}
