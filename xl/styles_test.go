package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDedup(t *testing.T) {
	wb := newMemWorkbook(t)

	id, err := wb.AddFormat(Format{})
	require.NoError(t, err)
	assert.Equal(t, DefaultStyle, id)

	id, err = wb.AddFormat(Format{Font: Font{Name: "Calibri", Size: 11}})
	require.NoError(t, err)
	assert.Equal(t, DefaultStyle, id)

	bold := wb.MustAddFormat(Format{Font: Font{Bold: true}})
	// the default cell style is the only reserved id
	assert.Equal(t, StyleID(1), bold)
	assert.Equal(t, bold, wb.MustAddFormat(Format{Font: Font{Bold: true}}))
	assert.NotEqual(t, bold, wb.MustAddFormat(Format{Font: Font{Bold: true, Italic: true}}))

	pct := wb.MustAddFormat(Format{NumFormat: "0.00%"})
	assert.Equal(t, pct, wb.MustAddFormat(Format{NumFormatIndex: 10}))

	solid := wb.MustAddFormat(Format{Fill: Fill{BgColor: ColorYellow}})
	assert.Equal(t, solid, wb.MustAddFormat(Format{Fill: Fill{Pattern: PatternSolid, FgColor: ColorYellow}}))

	f, ok := wb.Format(bold)
	require.True(t, ok)
	assert.True(t, f.Font.Bold)
	_, ok = wb.Format(StyleID(99))
	assert.False(t, ok)
}

func TestFormatValidation(t *testing.T) {
	wb := newMemWorkbook(t)
	_, err := wb.AddFormat(Format{Alignment: Alignment{Rotation: 91}})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = wb.AddFormat(Format{Alignment: Alignment{Rotation: 270}})
	assert.NoError(t, err)
	_, err = wb.AddFormat(Format{NumFormat: "0\x00"})
	assert.ErrorIs(t, err, ErrNullByte)
	_, err = wb.AddFormat(Format{NumFormatIndex: firstCustomNumFmt})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Panics(t, func() { wb.MustAddFormat(Format{NumFormatIndex: -1}) })
}

func TestStyleSheet(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("")
	require.NoError(t, err)

	styles := []Format{
		{NumFormat: "#,##0.000"},
		{NumFormat: "0.00%"},
		{Fill: Fill{BgColor: ColorYellow}},
		{Border: Outline(BorderThin, ColorBlue)},
		{Alignment: Alignment{Horizontal: HAlignCenter, TextWrap: true}},
	}
	for i, f := range styles {
		require.NoError(t, sh.WriteNumber(i, 0, 1, wb.MustAddFormat(f)))
	}

	ms := closeMem(t, wb)
	doc := part(t, ms, "xl/styles.xml")

	assert.Equal(t, "#,##0.000", elemWith(t, doc, "numFmt", "numFmtId", "164").Attrs["formatCode"])
	assert.Len(t, elems(t, doc, "numFmt"), 1)
	assert.Equal(t, "6", elems(t, doc, "cellXfs")[0].Attrs["count"])

	// gray125 must stay at index 1 ahead of user fills
	fills := elems(t, doc, "patternFill")
	require.Len(t, fills, 3)
	assert.Equal(t, "none", fills[0].Attrs["patternType"])
	assert.Equal(t, "gray125", fills[1].Attrs["patternType"])
	assert.Equal(t, "solid", fills[2].Attrs["patternType"])

	pct := elemWith(t, doc, "xf", "numFmtId", "10")
	assert.Equal(t, "1", pct.Attrs["applyNumberFormat"])

	assert.Equal(t, "thin", elems(t, doc, "left")[1].Attrs["style"])
	align := elemWith(t, doc, "alignment", "horizontal", "center")
	assert.Equal(t, "1", align.Attrs["wrapText"])

	names := elems(t, doc, "cellStyle")
	require.Len(t, names, 1)
	assert.Equal(t, "Normal", names[0].Attrs["name"])
}

func TestColorRendering(t *testing.T) {
	assert.Equal(t, "FFFF0000", ColorRed.argb())
	assert.Equal(t, "FF123456", Color(0x123456).argb())
	assert.Equal(t, "123456", RGB(0x12, 0x34, 0x56).rgb())
}
