package xl

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adnsv/srw/xml"
)

func (w *writer) writeChart(c *Chart) error {
	abspath := fmt.Sprintf("/xl/charts/chart%d.xml", c.id)
	w.part(abspath, ctChart)

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("c:chartSpace")
	x.Attr("xmlns:c", nsChart)
	x.Attr("xmlns:a", nsDrawingML)
	x.Attr("xmlns:r", relOfficeDoc)

	x.OTag("+c:lang").Attr("val", "en-US").CTag()
	if c.Style != 0 && c.Style != 2 {
		x.OTag("+c:style").Attr("val", c.Style).CTag()
	}

	x.OTag("+c:chart")
	switch {
	case c.title != "":
		writeChartTitle(x, c.title, false)
	case c.titleRef != "":
		w.writeChartTitleRef(x, c.titleRef)
	case c.titleOff:
		x.OTag("+c:autoTitleDeleted").Attr("val", 1).CTag()
	}

	x.OTag("+c:plotArea")
	x.OTag("c:layout").CTag()
	w.writePlot(x, c)
	if !c.typ.isPie() {
		writeAxes(x, c)
	}
	x.CTag() // c:plotArea

	writeLegend(x, c.Legend)
	x.OTag("+c:plotVisOnly").Attr("val", 1).CTag()
	blanks := c.ShowBlanksAs
	if blanks == "" {
		blanks = "gap"
	}
	x.OTag("+c:dispBlanksAs").Attr("val", blanks).CTag()
	x.CTag() // c:chart

	x.OTag("+c:printSettings")
	x.OTag("c:headerFooter").CTag()
	x.OTag("c:pageMargins").Attr("b", "0.75").Attr("l", "0.7").Attr("r", "0.7").Attr("t", "0.75").Attr("header", "0.3").Attr("footer", "0.3").CTag()
	x.OTag("c:pageSetup").CTag()
	x.CTag()

	x.CTag() // c:chartSpace

	return w.writePart(abspath, bb.Bytes())
}

// writePlot writes the chart group element with its series.
func (w *writer) writePlot(x *xml.Writer, c *Chart) {
	t := c.typ
	switch t {
	case ChartBar, ChartBarStacked, ChartBarPercent, ChartColumn, ChartColumnStacked, ChartColumnPercent:
		x.OTag("+c:barChart")
		if t <= ChartBarPercent {
			x.OTag("c:barDir").Attr("val", "bar").CTag()
		} else {
			x.OTag("c:barDir").Attr("val", "col").CTag()
		}
		x.OTag("c:grouping").Attr("val", grouping(t, "clustered")).CTag()
		w.writeAllSeries(x, c)
		gap := 150
		if c.GapWidth != nil {
			gap = *c.GapWidth
		}
		x.OTag("+c:gapWidth").Attr("val", gap).CTag()
		switch {
		case c.Overlap != nil:
			x.OTag("+c:overlap").Attr("val", *c.Overlap).CTag()
		case grouping(t, "") != "":
			x.OTag("+c:overlap").Attr("val", 100).CTag()
		}
		writeAxisIDs(x, c)

	case ChartLine, ChartLineStacked, ChartLinePercent:
		x.OTag("+c:lineChart")
		x.OTag("c:grouping").Attr("val", grouping(t, "standard")).CTag()
		w.writeAllSeries(x, c)
		x.OTag("+c:marker").Attr("val", 1).CTag()
		writeAxisIDs(x, c)

	case ChartArea, ChartAreaStacked, ChartAreaPercent:
		x.OTag("+c:areaChart")
		x.OTag("c:grouping").Attr("val", grouping(t, "standard")).CTag()
		w.writeAllSeries(x, c)
		writeAxisIDs(x, c)

	case ChartPie, ChartDoughnut:
		if t == ChartPie {
			x.OTag("+c:pieChart")
		} else {
			x.OTag("+c:doughnutChart")
		}
		x.OTag("c:varyColors").Attr("val", 1).CTag()
		w.writeAllSeries(x, c)
		x.OTag("+c:firstSliceAng").Attr("val", c.FirstSlice).CTag()
		if t == ChartDoughnut {
			hole := c.HoleSize
			if hole == 0 {
				hole = 50
			}
			x.OTag("+c:holeSize").Attr("val", hole).CTag()
		}

	case ChartScatter, ChartScatterStraight, ChartScatterStraightMarkers, ChartScatterSmooth, ChartScatterSmoothMarkers:
		x.OTag("+c:scatterChart")
		if t == ChartScatterSmooth || t == ChartScatterSmoothMarkers {
			x.OTag("c:scatterStyle").Attr("val", "smoothMarker").CTag()
		} else {
			x.OTag("c:scatterStyle").Attr("val", "lineMarker").CTag()
		}
		w.writeAllSeries(x, c)
		writeAxisIDs(x, c)

	case ChartRadar, ChartRadarMarkers, ChartRadarFilled:
		x.OTag("+c:radarChart")
		if t == ChartRadarFilled {
			x.OTag("c:radarStyle").Attr("val", "filled").CTag()
		} else {
			x.OTag("c:radarStyle").Attr("val", "marker").CTag()
		}
		w.writeAllSeries(x, c)
		writeAxisIDs(x, c)
	}
	x.CTag()
}

// grouping maps the stacked and percent variants to their grouping
// attribute, def otherwise.
func grouping(t ChartType, def string) string {
	switch t {
	case ChartAreaStacked, ChartBarStacked, ChartColumnStacked, ChartLineStacked:
		return "stacked"
	case ChartAreaPercent, ChartBarPercent, ChartColumnPercent, ChartLinePercent:
		return "percentStacked"
	}
	return def
}

func writeAxisIDs(x *xml.Writer, c *Chart) {
	x.OTag("+c:axId").Attr("val", c.axisIDs[0]).CTag()
	x.OTag("+c:axId").Attr("val", c.axisIDs[1]).CTag()
}

func (w *writer) writeAllSeries(x *xml.Writer, c *Chart) {
	t := c.typ
	for i, s := range c.series {
		x.OTag("+c:ser")
		x.OTag("c:idx").Attr("val", i).CTag()
		x.OTag("c:order").Attr("val", i).CTag()

		if s.nameRef != "" {
			x.OTag("c:tx")
			w.writeStrRef(x, s.nameRef)
			x.CTag()
		} else if s.name != "" {
			x.OTag("c:tx")
			x.OTag("c:v").String(s.name).CTag()
			x.CTag()
		}

		line := s.Line
		if t == ChartScatter && !line.set() {
			line = &ChartLineFormat{None: true}
		}
		writeSpPr(x, line, s.Fill)

		switch {
		case t == ChartLine || t == ChartLineStacked || t == ChartLinePercent ||
			t == ChartRadarMarkers || t == ChartScatter ||
			t == ChartScatterStraightMarkers || t == ChartScatterSmoothMarkers:
			writeMarker(x, s.Marker)
		case t == ChartRadar || t == ChartScatterStraight || t == ChartScatterSmooth:
			if s.Marker != nil {
				writeMarker(x, s.Marker)
			} else {
				writeMarker(x, &ChartMarker{Type: MarkerNone})
			}
		}

		if t >= ChartBar && t <= ChartColumnPercent {
			x.OTag("c:invertIfNegative").Attr("val", boolInt(s.InvertIfNegative)).CTag()
		}

		writeDataLabels(x, s.DataLabels)

		if t.isScatter() {
			if s.categories != "" {
				x.OTag("c:xVal")
				w.writeDataRef(x, s.categories, false)
				x.CTag()
			}
			x.OTag("c:yVal")
			w.writeDataRef(x, s.values, true)
			x.CTag()
		} else {
			if s.categories != "" {
				x.OTag("c:cat")
				w.writeDataRef(x, s.categories, false)
				x.CTag()
			}
			x.OTag("c:val")
			w.writeDataRef(x, s.values, true)
			x.CTag()
		}

		switch t {
		case ChartLine, ChartLineStacked, ChartLinePercent, ChartScatterStraight, ChartScatterStraightMarkers, ChartScatter:
			x.OTag("c:smooth").Attr("val", boolInt(s.Smooth)).CTag()
		case ChartScatterSmooth, ChartScatterSmoothMarkers:
			x.OTag("c:smooth").Attr("val", 1).CTag()
		}

		x.CTag() // c:ser
	}
}

// cacheValue reads the cached value of one referenced cell.
func (w *writer) cacheValue(s *Sheet, r, c int) (v string, num, ok bool) {
	row, found := s.rows[r]
	if !found {
		return "", false, false
	}
	cell, found := row.cells[c]
	if !found {
		return "", false, false
	}
	switch cell.typ {
	case CellTypeNumber, CellTypeBool:
		return formatNumber(cell.num), true, true
	case CellTypeFormula, CellTypeArrayFormula:
		if cell.strRes {
			return cell.result, false, true
		}
		return formatNumber(cell.num), true, true
	case CellTypeSharedString, CellTypeRichString:
		if cell.runs != nil {
			return runsText(cell.runs), false, true
		}
		e := w.wb.sst.entries[cell.sst]
		if e.runs != nil {
			return runsText(e.runs), false, true
		}
		return e.text, false, true
	case CellTypeInlineString:
		return cell.v, false, true
	}
	return "", false, false
}

func runsText(runs []RichRun) string {
	sb := strings.Builder{}
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

type cachePoint struct {
	idx int
	v   string
	num bool
}

// readCache collects the values of a range reference in row-major order.
// Flushed rows of a constant memory sheet read as empty.
func (w *writer) readCache(ref string) (count int, pts []cachePoint) {
	name, rng, err := splitSheetRef(ref)
	if err != nil {
		return 0, nil
	}
	s := w.wb.GetSheetByName(name)
	if s == nil {
		return rng.Rows() * rng.Cols(), nil
	}
	for r := rng.FirstRow; r <= rng.LastRow; r++ {
		for c := rng.FirstCol; c <= rng.LastCol; c++ {
			if v, num, ok := w.cacheValue(s, r, c); ok {
				pts = append(pts, cachePoint{idx: count, v: v, num: num})
			}
			count++
		}
	}
	return count, pts
}

// writeDataRef writes a numRef, or a strRef when the range holds text
// and numeric is false.
func (w *writer) writeDataRef(x *xml.Writer, ref string, numeric bool) {
	count, pts := w.readCache(ref)
	if !numeric {
		for _, p := range pts {
			if !p.num {
				w.writeStrRefCache(x, ref, count, pts)
				return
			}
		}
	}
	x.OTag("c:numRef")
	x.OTag("c:f").String(ref).CTag()
	x.OTag("c:numCache")
	x.OTag("c:formatCode").String("General").CTag()
	x.OTag("c:ptCount").Attr("val", count).CTag()
	for _, p := range pts {
		if !p.num {
			continue
		}
		x.OTag("c:pt").Attr("idx", p.idx)
		x.OTag("c:v").String(p.v).CTag()
		x.CTag()
	}
	x.CTag() // c:numCache
	x.CTag() // c:numRef
}

func (w *writer) writeStrRef(x *xml.Writer, ref string) {
	count, pts := w.readCache(ref)
	w.writeStrRefCache(x, ref, count, pts)
}

func (w *writer) writeStrRefCache(x *xml.Writer, ref string, count int, pts []cachePoint) {
	x.OTag("c:strRef")
	x.OTag("c:f").String(ref).CTag()
	x.OTag("c:strCache")
	x.OTag("c:ptCount").Attr("val", count).CTag()
	for _, p := range pts {
		x.OTag("c:pt").Attr("idx", p.idx)
		x.OTag("c:v").String(p.v).CTag()
		x.CTag()
	}
	x.CTag() // c:strCache
	x.CTag() // c:strRef
}

func writeChartTitle(x *xml.Writer, text string, vertical bool) {
	x.OTag("+c:title")
	x.OTag("c:tx")
	x.OTag("c:rich")
	if vertical {
		x.OTag("a:bodyPr").Attr("rot", -5400000).Attr("vert", "horz").CTag()
	} else {
		x.OTag("a:bodyPr").CTag()
	}
	x.OTag("a:lstStyle").CTag()
	x.OTag("a:p")
	x.OTag("a:pPr")
	x.OTag("a:defRPr").CTag()
	x.CTag()
	x.OTag("a:r")
	x.OTag("a:rPr").Attr("lang", "en-US").CTag()
	x.OTag("a:t").String(text).CTag()
	x.CTag() // a:r
	x.CTag() // a:p
	x.CTag() // c:rich
	x.CTag() // c:tx
	x.OTag("c:layout").CTag()
	x.OTag("c:overlay").Attr("val", 0).CTag()
	x.CTag()
}

func (w *writer) writeChartTitleRef(x *xml.Writer, ref string) {
	x.OTag("+c:title")
	x.OTag("c:tx")
	w.writeStrRef(x, ref)
	x.CTag()
	x.OTag("c:layout").CTag()
	x.OTag("c:overlay").Attr("val", 0).CTag()
	x.CTag()
}

func writeAxes(x *xml.Writer, c *Chart) {
	id1, id2 := c.axisIDs[0], c.axisIDs[1]
	switch {
	case c.typ.isScatter():
		writeValAx(x, &c.XAxis, id1, id2, "b", "midCat")
		writeValAx(x, &c.YAxis, id2, id1, "l", "midCat")
	case c.typ >= ChartBar && c.typ <= ChartBarPercent:
		// Horizontal bars: the X axis is the value axis along the bottom.
		writeCatAx(x, &c.YAxis, id1, id2, "l")
		writeValAx(x, &c.XAxis, id2, id1, "b", "between")
	default:
		writeCatAx(x, &c.XAxis, id1, id2, "b")
		writeValAx(x, &c.YAxis, id2, id1, "l", "between")
	}
}

func writeScaling(x *xml.Writer, a *ChartAxis) {
	x.OTag("c:scaling")
	if a.LogBase > 0 {
		x.OTag("c:logBase").Attr("val", formatNumber(a.LogBase)).CTag()
	}
	if a.Reverse {
		x.OTag("c:orientation").Attr("val", "maxMin").CTag()
	} else {
		x.OTag("c:orientation").Attr("val", "minMax").CTag()
	}
	if a.Max != nil {
		x.OTag("c:max").Attr("val", formatNumber(*a.Max)).CTag()
	}
	if a.Min != nil {
		x.OTag("c:min").Attr("val", formatNumber(*a.Min)).CTag()
	}
	x.CTag()
}

func writeAxisHead(x *xml.Writer, a *ChartAxis, id int, pos string) {
	x.OTag("c:axId").Attr("val", id).CTag()
	writeScaling(x, a)
	x.OTag("c:delete").Attr("val", boolInt(a.Hidden)).CTag()
	x.OTag("c:axPos").Attr("val", pos).CTag()
	if a.MajorGridlines {
		x.OTag("c:majorGridlines").CTag()
	}
	if a.MinorGridlines {
		x.OTag("c:minorGridlines").CTag()
	}
	if a.Name != "" {
		writeChartTitle(x, a.Name, pos == "l")
	}
	if a.NumFormat != "" {
		x.OTag("c:numFmt").Attr("formatCode", a.NumFormat).Attr("sourceLinked", 0).CTag()
	} else {
		x.OTag("c:numFmt").Attr("formatCode", "General").Attr("sourceLinked", 1).CTag()
	}
	x.OTag("c:majorTickMark").Attr("val", "out").CTag()
	x.OTag("c:minorTickMark").Attr("val", "none").CTag()
	x.OTag("c:tickLblPos").Attr("val", "nextTo").CTag()
}

func writeCatAx(x *xml.Writer, a *ChartAxis, id, cross int, pos string) {
	x.OTag("+c:catAx")
	writeAxisHead(x, a, id, pos)
	x.OTag("c:crossAx").Attr("val", cross).CTag()
	x.OTag("c:crosses").Attr("val", "autoZero").CTag()
	x.OTag("c:auto").Attr("val", 1).CTag()
	x.OTag("c:lblAlgn").Attr("val", "ctr").CTag()
	x.OTag("c:lblOffset").Attr("val", 100).CTag()
	x.OTag("c:noMultiLvlLbl").Attr("val", 0).CTag()
	x.CTag()
}

func writeValAx(x *xml.Writer, a *ChartAxis, id, cross int, pos, between string) {
	x.OTag("+c:valAx")
	writeAxisHead(x, a, id, pos)
	x.OTag("c:crossAx").Attr("val", cross).CTag()
	x.OTag("c:crosses").Attr("val", "autoZero").CTag()
	x.OTag("c:crossBetween").Attr("val", between).CTag()
	x.CTag()
}

func writeLegend(x *xml.Writer, p LegendPosition) {
	var pos string
	overlay := false
	switch p {
	case LegendNone:
		return
	case LegendTop:
		pos = "t"
	case LegendBottom:
		pos = "b"
	case LegendLeft:
		pos = "l"
	case LegendTopRight:
		pos = "tr"
	case LegendOverlayRight:
		pos, overlay = "r", true
	case LegendOverlayLeft:
		pos, overlay = "l", true
	default:
		pos = "r"
	}
	x.OTag("+c:legend")
	x.OTag("c:legendPos").Attr("val", pos).CTag()
	x.OTag("c:layout").CTag()
	if overlay {
		x.OTag("c:overlay").Attr("val", 1).CTag()
	}
	x.CTag()
}

// writeSpPr writes shape properties when a line or fill was set.
func writeSpPr(x *xml.Writer, line *ChartLineFormat, fill *ChartFill) {
	if !line.set() && !fill.set() {
		return
	}
	x.OTag("c:spPr")
	if fill.set() {
		writeSolidFill(x, fill.None, fill.Color, fill.Transparency)
	}
	if line.set() {
		x.OTag("a:ln")
		if line.Width > 0 {
			x.Attr("w", int(line.Width*12700+0.5))
		}
		writeSolidFill(x, line.None, line.Color, line.Transparency)
		if line.Dash != DashSolid {
			x.OTag("a:prstDash").Attr("val", string(line.Dash)).CTag()
		}
		x.CTag()
	}
	x.CTag()
}

func writeSolidFill(x *xml.Writer, none bool, c Color, transparency int) {
	switch {
	case none:
		x.OTag("a:noFill").CTag()
	case c != 0:
		x.OTag("a:solidFill")
		x.OTag("a:srgbClr").Attr("val", c.rgb())
		if transparency > 0 {
			x.OTag("a:alpha").Attr("val", (100-transparency)*1000).CTag()
		}
		x.CTag()
		x.CTag()
	}
}

func writeMarker(x *xml.Writer, m *ChartMarker) {
	if m == nil {
		return
	}
	x.OTag("c:marker")
	if m.Type != MarkerAutomatic {
		x.OTag("c:symbol").Attr("val", string(m.Type)).CTag()
	}
	if m.Size > 0 {
		x.OTag("c:size").Attr("val", m.Size).CTag()
	}
	writeSpPr(x, m.Line, m.Fill)
	x.CTag()
}

func writeDataLabels(x *xml.Writer, d *ChartDataLabels) {
	if d == nil {
		return
	}
	x.OTag("c:dLbls")
	if d.Position != "" {
		x.OTag("c:dLblPos").Attr("val", d.Position).CTag()
	}
	x.OTag("c:showLegendKey").Attr("val", 0).CTag()
	x.OTag("c:showVal").Attr("val", boolInt(d.Value)).CTag()
	x.OTag("c:showCatName").Attr("val", boolInt(d.Category)).CTag()
	x.OTag("c:showSerName").Attr("val", boolInt(d.SeriesName)).CTag()
	x.OTag("c:showPercent").Attr("val", boolInt(d.Percentage)).CTag()
	x.OTag("c:showBubbleSize").Attr("val", 0).CTag()
	if d.LeaderLines {
		x.OTag("c:showLeaderLines").Attr("val", 1).CTag()
	}
	x.CTag()
}
