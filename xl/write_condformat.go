package xl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/adnsv/srw/xml"
)

// writeConditionalFormats writes every <conditionalFormatting> block.
// Priorities run 1.. across the whole sheet in the order rules were added.
func (w *writer) writeConditionalFormats(x *xml.Writer, s *Sheet) {
	priority := 0
	for _, r := range s.condFormats {
		x.OTag("+conditionalFormatting").Attr("sqref", r.sqref)
		cell := CellName(r.first.FirstRow, r.first.FirstCol)
		for _, rule := range r.rules {
			priority++
			rule.priority = priority
			writeCondRule(x, rule, cell)
		}
		x.CTag()
	}
}

func writeCondRule(x *xml.Writer, rule *condRule, cell string) {
	cf := &rule.cf

	x.OTag("+cfRule")
	switch cf.Type {
	case CondCell:
		x.Attr("type", "cellIs")
	case CondText:
		typ, _, _ := textRule(cf.Criteria, cf.Value, cell)
		x.Attr("type", typ)
	case CondTimePeriod:
		x.Attr("type", "timePeriod")
	case CondAverage:
		x.Attr("type", "aboveAverage")
	case CondTop, CondBottom:
		x.Attr("type", "top10")
	case CondDuplicate:
		x.Attr("type", "duplicateValues")
	case CondUnique:
		x.Attr("type", "uniqueValues")
	case CondBlanks:
		x.Attr("type", "containsBlanks")
	case CondNoBlanks:
		x.Attr("type", "notContainsBlanks")
	case CondErrors:
		x.Attr("type", "containsErrors")
	case CondNoErrors:
		x.Attr("type", "notContainsErrors")
	case CondFormula:
		x.Attr("type", "expression")
	case Cond2ColorScale, Cond3ColorScale:
		x.Attr("type", "colorScale")
	case CondDataBar:
		x.Attr("type", "dataBar")
	case CondIconSet:
		x.Attr("type", "iconSet")
	}
	if rule.dxf >= 0 {
		x.Attr("dxfId", rule.dxf)
	}
	x.Attr("priority", rule.priority)
	if cf.StopIfTrue {
		x.Attr("stopIfTrue", 1)
	}

	switch cf.Type {
	case CondCell:
		x.Attr("operator", cellOperators[cf.Criteria])
		if cf.Criteria == CondBetween || cf.Criteria == CondNotBetween {
			writeCondFormula(x, cf.MinValue)
			writeCondFormula(x, cf.MaxValue)
		} else {
			writeCondFormula(x, cf.Value)
		}

	case CondText:
		_, operator, formula := textRule(cf.Criteria, cf.Value, cell)
		x.Attr("operator", operator).Attr("text", cf.Value)
		writeCondFormula(x, formula)

	case CondTimePeriod:
		p := timePeriods[cf.Criteria]
		x.Attr("timePeriod", p.name)
		writeCondFormula(x, fmt.Sprintf(p.formula, cell))

	case CondAverage:
		switch cf.Criteria {
		case CondBelowAverage:
			x.Attr("aboveAverage", 0)
		case CondEqualOrAboveAverage:
			x.Attr("equalAverage", 1)
		case CondEqualOrBelowAverage:
			x.Attr("aboveAverage", 0).Attr("equalAverage", 1)
		case CondAbove1StdDev:
			x.Attr("stdDev", 1)
		case CondBelow1StdDev:
			x.Attr("aboveAverage", 0).Attr("stdDev", 1)
		case CondAbove2StdDev:
			x.Attr("stdDev", 2)
		case CondBelow2StdDev:
			x.Attr("aboveAverage", 0).Attr("stdDev", 2)
		case CondAbove3StdDev:
			x.Attr("stdDev", 3)
		case CondBelow3StdDev:
			x.Attr("aboveAverage", 0).Attr("stdDev", 3)
		}

	case CondTop, CondBottom:
		if cf.Criteria == CondTopOrBottomPercent {
			x.Attr("percent", 1)
		}
		if cf.Type == CondBottom {
			x.Attr("bottom", 1)
		}
		rank := cf.Rank
		if rank == 0 {
			rank = 10
		}
		x.Attr("rank", rank)

	case CondBlanks:
		writeCondFormula(x, "LEN(TRIM("+cell+"))=0")
	case CondNoBlanks:
		writeCondFormula(x, "LEN(TRIM("+cell+"))>0")
	case CondErrors:
		writeCondFormula(x, "ISERROR("+cell+")")
	case CondNoErrors:
		writeCondFormula(x, "NOT(ISERROR("+cell+"))")

	case CondFormula:
		writeCondFormula(x, cf.Value)

	case Cond2ColorScale:
		x.OTag("colorScale")
		writeCfvo(x, cf.MinType.cfvo("min"), cf.MinValue)
		writeCfvo(x, cf.MaxType.cfvo("max"), cf.MaxValue)
		writeCfColor(x, cf.MinColor, 0xFFFF7128)
		writeCfColor(x, cf.MaxColor, 0xFFFFEF9C)
		x.CTag()

	case Cond3ColorScale:
		mid := cf.MidValue
		if mid == "" && cf.MidType == CondRuleDefault {
			mid = "50"
		}
		x.OTag("colorScale")
		writeCfvo(x, cf.MinType.cfvo("min"), cf.MinValue)
		writeCfvo(x, cf.MidType.cfvo("percentile"), mid)
		writeCfvo(x, cf.MaxType.cfvo("max"), cf.MaxValue)
		writeCfColor(x, cf.MinColor, 0xFFF8696B)
		writeCfColor(x, cf.MidColor, 0xFFFFEB84)
		writeCfColor(x, cf.MaxColor, 0xFF63BE7B)
		x.CTag()

	case CondDataBar:
		x.OTag("dataBar")
		writeCfvo(x, cf.MinType.cfvo("min"), cf.MinValue)
		writeCfvo(x, cf.MaxType.cfvo("max"), cf.MaxValue)
		writeCfColor(x, cf.BarColor, 0xFF638EC6)
		x.CTag()

	case CondIconSet:
		n := cf.IconStyle.count()
		x.OTag("iconSet")
		if cf.IconStyle != "" && cf.IconStyle != Icons3TrafficLights {
			x.Attr("iconSet", string(cf.IconStyle))
		}
		if cf.IconsOnly {
			x.Attr("showValue", 0)
		}
		if cf.ReverseIcons {
			x.Attr("reverse", 1)
		}
		for i := 0; i < n; i++ {
			writeCfvo(x, "percent", strconv.Itoa((i*100+n/2)/n))
		}
		x.CTag()
	}

	x.CTag() // cfRule
}

func writeCondFormula(x *xml.Writer, v string) {
	x.OTag("formula").String(strings.TrimPrefix(v, "=")).CTag()
}

func writeCfvo(x *xml.Writer, typ, val string) {
	x.OTag("cfvo").Attr("type", typ)
	if typ != "min" && typ != "max" {
		if val == "" {
			val = "0"
		}
		x.Attr("val", strings.TrimPrefix(val, "="))
	}
	x.CTag()
}

func writeCfColor(x *xml.Writer, c, def Color) {
	if c == 0 {
		c = def
	}
	x.OTag("color").Attr("rgb", c.argb()).CTag()
}
