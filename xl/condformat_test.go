package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionalFormats(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("")
	require.NoError(t, err)
	red := &Format{Font: Font{Color: ColorRed}}
	green := &Format{Fill: Fill{BgColor: ColorLime}}

	require.NoError(t, sh.ConditionalFormatRange(1, 1, 10, 3, &ConditionalFormat{
		Type: CondCell, Criteria: CondGreaterThan, Value: "50", Format: red,
	}))
	require.NoError(t, sh.ConditionalFormatRange(1, 1, 10, 3, &ConditionalFormat{
		Type: CondCell, Criteria: CondBetween, MinValue: "10", MaxValue: "=$Z$1", Format: green,
	}))
	require.NoError(t, sh.ConditionalFormatRange(0, 5, 20, 5, &ConditionalFormat{
		Type: CondText, Criteria: CondTextBeginsWith, Value: `a"b`, Format: red,
	}))
	require.NoError(t, sh.ConditionalFormatRange(0, 6, 20, 6, &ConditionalFormat{
		Type: CondTop, Criteria: CondTopOrBottomPercent, Format: red,
	}))
	require.NoError(t, sh.ConditionalFormatRange(0, 7, 20, 7, &ConditionalFormat{
		Type: CondAverage, Criteria: CondBelow2StdDev, Format: red,
	}))
	require.NoError(t, sh.ConditionalFormatRange(0, 8, 20, 8, &ConditionalFormat{
		Type: Cond3ColorScale,
	}))
	require.NoError(t, sh.ConditionalFormatRange(0, 9, 20, 9, &ConditionalFormat{
		Type: CondDataBar, BarColor: ColorBlue, MinType: CondRuleNumber, MinValue: "5",
	}))
	require.NoError(t, sh.ConditionalFormatRange(0, 10, 20, 10, &ConditionalFormat{
		Type: CondIconSet, IconStyle: Icons4Ratings, IconsOnly: true,
	}))
	require.NoError(t, sh.ConditionalFormatRange(0, 0, 0, 0, &ConditionalFormat{
		Type: CondBlanks, Format: green, MultiRange: "A1:A5  C1:C5",
	}))

	ms := closeMem(t, wb)
	doc := part(t, ms, "xl/worksheets/sheet1.xml")

	blocks := elems(t, doc, "conditionalFormatting")
	require.Len(t, blocks, 8)
	assert.Equal(t, "B2:D11", blocks[0].Attrs["sqref"])
	assert.Equal(t, "A1:A5 C1:C5", blocks[7].Attrs["sqref"])

	rules := elems(t, doc, "cfRule")
	require.Len(t, rules, 9)
	for i, r := range rules {
		assert.Equal(t, itoa(i+1), r.Attrs["priority"])
	}

	assert.Equal(t, "cellIs", rules[0].Attrs["type"])
	assert.Equal(t, "greaterThan", rules[0].Attrs["operator"])
	assert.Equal(t, "0", rules[0].Attrs["dxfId"])
	assert.Equal(t, "between", rules[1].Attrs["operator"])
	assert.Equal(t, "1", rules[1].Attrs["dxfId"])
	assert.Equal(t, "0", rules[2].Attrs["dxfId"])

	assert.Equal(t, "beginsWith", rules[2].Attrs["type"])
	assert.Equal(t, `a"b`, rules[2].Attrs["text"])

	assert.Equal(t, "top10", rules[3].Attrs["type"])
	assert.Equal(t, "1", rules[3].Attrs["percent"])
	assert.Equal(t, "10", rules[3].Attrs["rank"])

	assert.Equal(t, "0", rules[4].Attrs["aboveAverage"])
	assert.Equal(t, "2", rules[4].Attrs["stdDev"])

	assert.Equal(t, "colorScale", rules[5].Attrs["type"])
	assert.Empty(t, rules[5].Attrs["dxfId"])
	assert.Equal(t, "dataBar", rules[6].Attrs["type"])
	assert.Equal(t, "iconSet", rules[7].Attrs["type"])
	assert.Equal(t, "containsBlanks", rules[8].Attrs["type"])

	assert.Equal(t, []string{
		"50",
		"10", "$Z$1",
		`LEFT(F1,3)="a""b"`,
		"LEN(TRIM(A1))=0",
	}, texts(t, doc, "formula"))

	icons := elems(t, doc, "iconSet")
	require.Len(t, icons, 1)
	assert.Equal(t, "4Rating", icons[0].Attrs["iconSet"])
	assert.Equal(t, "0", icons[0].Attrs["showValue"])

	var cfvo []string
	for _, c := range elems(t, doc, "cfvo") {
		cfvo = append(cfvo, c.Attrs["type"]+":"+c.Attrs["val"])
	}
	assert.Equal(t, []string{
		"min:", "percentile:50", "max:",
		"num:5", "max:",
		"percent:0", "percent:25", "percent:50", "percent:75",
	}, cfvo)

	var colors []string
	for _, c := range elems(t, doc, "color") {
		colors = append(colors, c.Attrs["rgb"])
	}
	assert.Equal(t, []string{"FFF8696B", "FFFFEB84", "FF63BE7B", "FF0000FF"}, colors)

	styles := part(t, ms, "xl/styles.xml")
	assert.Equal(t, "2", elems(t, styles, "dxfs")[0].Attrs["count"])
}

func TestConditionalFormatValidation(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("")
	require.NoError(t, err)

	for _, cf := range []*ConditionalFormat{
		nil,
		{},
		{Type: CondCell, Criteria: CondGreaterThan},
		{Type: CondCell, Criteria: CondBetween, MinValue: "1"},
		{Type: CondCell, Criteria: CondTextContaining, Value: "1"},
		{Type: CondText, Criteria: CondTextContaining},
		{Type: CondTimePeriod},
		{Type: CondTop, Rank: 1001},
		{Type: CondFormula, Value: "="},
		{Type: CondIconSet, IconStyle: "9Stars"},
		{Type: CondBlanks, MultiRange: "A1:A5 nope"},
	} {
		err := sh.ConditionalFormatRange(0, 0, 5, 0, cf)
		assert.ErrorIs(t, err, ErrInvalidParameter, "%+v", cf)
		assert.Equal(t, KindValidation, KindOf(err))
	}
}

func TestTextRule(t *testing.T) {
	typ, op, f := textRule(CondTextContaining, "err", "B2")
	assert.Equal(t, "containsText", typ)
	assert.Equal(t, "containsText", op)
	assert.Equal(t, `NOT(ISERROR(SEARCH("err",B2)))`, f)

	typ, op, f = textRule(CondTextNotContaining, "err", "B2")
	assert.Equal(t, "notContainsText", typ)
	assert.Equal(t, "notContains", op)
	assert.Equal(t, `ISERROR(SEARCH("err",B2))`, f)

	_, _, f = textRule(CondTextEndsWith, "ü", "B2")
	assert.Equal(t, `RIGHT(B2,1)="ü"`, f)
}

func itoa(i int) string {
	return formatNumber(float64(i))
}
