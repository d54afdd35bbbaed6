package xl

import (
	"bytes"
	"fmt"
)

func (w *writer) writeTable(s *Sheet, t *Table) error {
	abspath := fmt.Sprintf("/xl/tables/table%d.xml", t.id)
	w.part(abspath, ctTable)

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("table")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("id", t.id)
	x.Attr("name", t.name)
	x.Attr("displayName", t.name)
	x.Attr("ref", t.rng.String())
	if t.opt.NoHeaderRow {
		x.Attr("headerRowCount", 0)
	}
	if t.opt.TotalRow {
		x.Attr("totalsRowCount", 1)
	} else {
		x.Attr("totalsRowShown", 0)
	}

	if !t.opt.NoHeaderRow && !t.opt.NoAutofilter {
		filter := t.rng
		if t.opt.TotalRow {
			filter.LastRow--
		}
		x.OTag("+autoFilter").Attr("ref", filter.String()).CTag()
	}

	x.OTag("+tableColumns").Attr("count", len(t.columns))
	for i, c := range t.columns {
		x.OTag("+tableColumn").Attr("id", i+1).Attr("name", c.Header)
		if t.opt.TotalRow {
			switch {
			case c.TotalLabel != "":
				x.Attr("totalsRowLabel", c.TotalLabel)
			case c.TotalFunction != TotalNone:
				fn, _ := c.TotalFunction.name()
				x.Attr("totalsRowFunction", fn)
			}
		}
		if c.Formula != "" {
			x.OTag("calculatedColumnFormula").String(c.Formula).CTag()
		}
		x.CTag()
	}
	x.CTag() // tableColumns

	x.OTag("+tableStyleInfo")
	if name := t.styleName(); name != "" {
		x.Attr("name", name)
	}
	x.Attr("showFirstColumn", boolInt(t.opt.FirstColumn))
	x.Attr("showLastColumn", boolInt(t.opt.LastColumn))
	x.Attr("showRowStripes", boolInt(!t.opt.NoBandedRows))
	x.Attr("showColumnStripes", boolInt(t.opt.BandedColumns))
	x.CTag()

	x.CTag() // table

	return w.writePart(abspath, bb.Bytes())
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
