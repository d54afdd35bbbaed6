package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartData(t *testing.T, sh *Sheet) {
	t.Helper()
	require.NoError(t, sh.WriteString(0, 1, "Sales", DefaultStyle))
	for i, m := range []string{"Jan", "Feb", "Mar"} {
		require.NoError(t, sh.WriteString(i+1, 0, m, DefaultStyle))
		require.NoError(t, sh.WriteNumber(i+1, 1, float64(10*(i+1)), DefaultStyle))
	}
}

func TestColumnChart(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("Data")
	require.NoError(t, err)
	chartData(t, sh)

	c, err := wb.AddChart(ChartColumn)
	require.NoError(t, err)
	ser, err := c.AddSeries("=Data!$A$2:$A$4", "=Data!$B$2:$B$5")
	require.NoError(t, err)
	require.NoError(t, ser.SetName("=Data!$B$1"))
	require.NoError(t, c.SetTitle("Quarter"))
	c.Legend = LegendBottom
	require.NoError(t, sh.InsertChart(5, 3, c))

	ms := closeMem(t, wb)
	doc := part(t, ms, "xl/charts/chart1.xml")

	assert.Len(t, elems(t, doc, "barChart"), 1)
	assert.Equal(t, "col", elems(t, doc, "barDir")[0].Attrs["val"])
	assert.Equal(t, "clustered", elems(t, doc, "grouping")[0].Attrs["val"])
	assert.Equal(t, []string{"Quarter"}, texts(t, doc, "t"))
	assert.Equal(t, "b", elems(t, doc, "legendPos")[0].Attrs["val"])

	assert.Equal(t, []string{"Data!$B$1", "Data!$A$2:$A$4", "Data!$B$2:$B$5"}, texts(t, doc, "f"))

	// name and categories come from text cells, values from numbers; the
	// empty B5 is counted but has no point
	counts := elems(t, doc, "ptCount")
	require.Len(t, counts, 3)
	assert.Equal(t, "1", counts[0].Attrs["val"])
	assert.Equal(t, "3", counts[1].Attrs["val"])
	assert.Equal(t, "4", counts[2].Attrs["val"])
	assert.Len(t, elems(t, doc, "strCache"), 2)
	assert.Len(t, elems(t, doc, "numCache"), 1)

	var vals []string
	for _, p := range elems(t, doc, "pt") {
		vals = append(vals, p.Attrs["idx"]+"="+p.Text)
	}
	assert.Equal(t, []string{"0=Sales", "0=Jan", "1=Feb", "2=Mar", "0=10", "1=20", "2=30"}, vals)

	axes := elems(t, doc, "axId")
	require.GreaterOrEqual(t, len(axes), 2)
	assert.Equal(t, "50010011", axes[0].Attrs["val"])
	assert.Len(t, elems(t, doc, "catAx"), 1)
	assert.Len(t, elems(t, doc, "valAx"), 1)
	assert.Len(t, elems(t, doc, "majorGridlines"), 1)

	drawing := part(t, ms, "xl/drawings/drawing1.xml")
	require.Len(t, elems(t, drawing, "from"), 1)
	// 480x288 pixels over 64x20 pixel cells
	assert.Equal(t, []string{"3", "10"}, texts(t, drawing, "col"))
	assert.Equal(t, []string{"0", "304800"}, texts(t, drawing, "colOff"))
	assert.Equal(t, []string{"5", "19"}, texts(t, drawing, "row"))
	assert.Equal(t, "Chart 1", elems(t, drawing, "cNvPr")[0].Attrs["name"])

	drels := part(t, ms, "xl/drawings/_rels/drawing1.xml.rels")
	assert.Equal(t, "../charts/chart1.xml", elemWith(t, drels, "Relationship", "Id", "rId1").Attrs["Target"])

	srels := part(t, ms, "xl/worksheets/_rels/sheet1.xml.rels")
	assert.Equal(t, relDrawing, elemWith(t, srels, "Relationship", "Target", "../drawings/drawing1.xml").Attrs["Type"])

	ct := part(t, ms, "[Content_Types].xml")
	assert.Equal(t, ctChart, elemWith(t, ct, "Override", "PartName", "/xl/charts/chart1.xml").Attrs["ContentType"])
	assert.Equal(t, ctDrawing, elemWith(t, ct, "Override", "PartName", "/xl/drawings/drawing1.xml").Attrs["ContentType"])
}

func TestPieAndScatterCharts(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("Data")
	require.NoError(t, err)
	chartData(t, sh)

	pie, err := wb.AddChart(ChartDoughnut)
	require.NoError(t, err)
	_, err = pie.AddSeries("Data!$A$2:$A$4", "Data!$B$2:$B$4")
	require.NoError(t, err)
	pie.HoleSize = 60

	scatter, err := wb.AddChart(ChartScatter)
	require.NoError(t, err)
	ser, err := scatter.AddSeries("Data!$B$2:$B$4", "Data!$B$2:$B$4")
	require.NoError(t, err)
	require.NoError(t, ser.SetName("Identity"))
	require.NoError(t, scatter.TitleOff())

	require.NoError(t, sh.InsertChart(5, 0, pie))
	require.NoError(t, sh.InsertChartOpt(5, 8, scatter, ImageOptions{XScale: 0.5, YScale: 0.5}))

	ms := closeMem(t, wb)

	doc := part(t, ms, "xl/charts/chart1.xml")
	assert.Len(t, elems(t, doc, "doughnutChart"), 1)
	assert.Equal(t, "60", elems(t, doc, "holeSize")[0].Attrs["val"])
	assert.Empty(t, elems(t, doc, "catAx"))
	assert.Empty(t, elems(t, doc, "valAx"))

	doc = part(t, ms, "xl/charts/chart2.xml")
	assert.Equal(t, "lineMarker", elems(t, doc, "scatterStyle")[0].Attrs["val"])
	assert.Len(t, elems(t, doc, "valAx"), 2)
	assert.Len(t, elems(t, doc, "xVal"), 1)
	assert.Len(t, elems(t, doc, "noFill"), 1)
	assert.Equal(t, "1", elems(t, doc, "autoTitleDeleted")[0].Attrs["val"])
	assert.Equal(t, []string{"Identity"}, texts(t, doc, "v")[:1])

	// both charts share one drawing
	drawing := part(t, ms, "xl/drawings/drawing1.xml")
	assert.Len(t, elems(t, drawing, "twoCellAnchor"), 2)
	assert.NotContains(t, ms.Parts, "xl/drawings/drawing2.xml")
}

func TestChartErrors(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("Data")
	require.NoError(t, err)

	_, err = wb.AddChart(ChartType(0))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	c, err := wb.AddChart(ChartLine)
	require.NoError(t, err)
	_, err = c.AddSeries("", "")
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = c.AddSeries("", "$A$1:$A$3")
	assert.ErrorIs(t, err, ErrInvalidParameter)
	ser, err := c.AddSeries("", "Data!$A$1:$A$3")
	require.NoError(t, err)
	assert.ErrorIs(t, ser.SetName("=nope"), ErrInvalidParameter)

	require.NoError(t, sh.InsertChart(0, 0, c))
	assert.ErrorIs(t, sh.InsertChart(10, 0, c), ErrChartAlreadyInserted)
	assert.ErrorIs(t, sh.InsertChart(0, 0, nil), ErrInvalidParameter)

	other := newMemWorkbook(t)
	foreign, err := other.AddChart(ChartPie)
	require.NoError(t, err)
	assert.ErrorIs(t, sh.InsertChart(0, 0, foreign), ErrForeignObject)

	empty, err := wb.AddChart(ChartArea)
	require.NoError(t, err)
	require.NoError(t, sh.InsertChart(20, 0, empty))
	assert.ErrorIs(t, wb.CloseStorage(NewMemStorage()), ErrChartNoSeries)
}

func TestSeriesLineFormat(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("Data")
	require.NoError(t, err)
	chartData(t, sh)

	c, err := wb.AddChart(ChartLine)
	require.NoError(t, err)
	ser, err := c.AddSeries("=Data!$A$2:$A$4", "=Data!$B$2:$B$4")
	require.NoError(t, err)
	ser.Line = &ChartLineFormat{Color: ColorRed, Width: 2.25, Dash: DashDash}
	require.NoError(t, sh.InsertChart(5, 3, c))

	doc := part(t, closeMem(t, wb), "xl/charts/chart1.xml")
	assert.Len(t, elems(t, doc, "lineChart"), 1)
	elemWith(t, doc, "ln", "w", "28575")
	elemWith(t, doc, "prstDash", "val", "dash")
	elemWith(t, doc, "srgbClr", "val", "FF0000")
}
