package xl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// CondType is the kind of a conditional format rule.
type CondType int

const (
	CondCell CondType = iota + 1
	CondText
	CondTimePeriod
	CondAverage
	CondDuplicate
	CondUnique
	CondTop
	CondBottom
	CondBlanks
	CondNoBlanks
	CondErrors
	CondNoErrors
	CondFormula
	Cond2ColorScale
	Cond3ColorScale
	CondDataBar
	CondIconSet
)

// CondCriteria refines a rule. Which values apply depends on the CondType.
type CondCriteria int

const (
	CondCriteriaNone CondCriteria = iota

	// CondCell
	CondEqualTo
	CondNotEqualTo
	CondGreaterThan
	CondLessThan
	CondGreaterThanOrEqualTo
	CondLessThanOrEqualTo
	CondBetween
	CondNotBetween

	// CondText
	CondTextContaining
	CondTextNotContaining
	CondTextBeginsWith
	CondTextEndsWith

	// CondTimePeriod
	CondYesterday
	CondToday
	CondTomorrow
	CondLast7Days
	CondLastWeek
	CondThisWeek
	CondNextWeek
	CondLastMonth
	CondThisMonth
	CondNextMonth

	// CondAverage
	CondAboveAverage
	CondBelowAverage
	CondEqualOrAboveAverage
	CondEqualOrBelowAverage
	CondAbove1StdDev
	CondBelow1StdDev
	CondAbove2StdDev
	CondBelow2StdDev
	CondAbove3StdDev
	CondBelow3StdDev

	// CondTop, CondBottom
	CondTopOrBottomPercent
)

// CondRuleType is the kind of threshold of a color scale or data bar stop.
type CondRuleType int

const (
	CondRuleDefault CondRuleType = iota
	CondRuleMinimum
	CondRuleNumber
	CondRulePercent
	CondRulePercentile
	CondRuleFormula
	CondRuleMaximum
)

// IconStyle selects an icon set.
type IconStyle string

const (
	Icons3ArrowsColored    IconStyle = "3Arrows"
	Icons3ArrowsGray       IconStyle = "3ArrowsGray"
	Icons3Flags            IconStyle = "3Flags"
	Icons3TrafficLights    IconStyle = "3TrafficLights1"
	Icons3TrafficLightsRim IconStyle = "3TrafficLights2"
	Icons3Signs            IconStyle = "3Signs"
	Icons3Symbols          IconStyle = "3Symbols"
	Icons3SymbolsCircled   IconStyle = "3Symbols2"
	Icons4ArrowsColored    IconStyle = "4Arrows"
	Icons4ArrowsGray       IconStyle = "4ArrowsGray"
	Icons4RedToBlack       IconStyle = "4RedToBlack"
	Icons4Ratings          IconStyle = "4Rating"
	Icons4TrafficLights    IconStyle = "4TrafficLights"
	Icons5ArrowsColored    IconStyle = "5Arrows"
	Icons5ArrowsGray       IconStyle = "5ArrowsGray"
	Icons5Ratings          IconStyle = "5Rating"
	Icons5Quarters         IconStyle = "5Quarters"
)

func (s IconStyle) count() int {
	if s == "" {
		return 3
	}
	return int(s[0] - '0')
}

// ConditionalFormat describes one conditional format rule. Value, MinValue
// and MaxValue hold numbers or formulas as text, e.g. "10" or "$B$1".
type ConditionalFormat struct {
	Type       CondType
	Criteria   CondCriteria
	Value      string
	MinValue   string
	MaxValue   string
	Format     *Format // cell formatting for the rule kinds that highlight cells
	StopIfTrue bool

	// Top/bottom rank, 1..1000.
	Rank int

	// Color scale and data bar stops.
	MinType, MidType, MaxType    CondRuleType
	MinColor, MidColor, MaxColor Color
	MidValue                     string
	BarColor                     Color

	IconStyle    IconStyle
	ReverseIcons bool
	IconsOnly    bool

	// MultiRange applies the rule to several ranges, e.g. "B3:D6 I3:K6".
	MultiRange string
}

type condFormatRange struct {
	sqref string
	first Range
	rules []*condRule
}

type condRule struct {
	cf       ConditionalFormat
	dxf      int // -1 when the rule has no format
	priority int
}

// ConditionalFormatCell applies a rule to a single cell.
func (s *Sheet) ConditionalFormatCell(row, col int, cf *ConditionalFormat) error {
	return s.ConditionalFormatRange(row, col, row, col, cf)
}

// ConditionalFormatRange applies a rule to a range. Rules added to the
// same range are evaluated in the order they were added.
func (s *Sheet) ConditionalFormatRange(firstRow, firstCol, lastRow, lastCol int, cf *ConditionalFormat) error {
	const op = "ConditionalFormat"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if cf == nil {
		return validationError(op, CodeNullParameterIgnored, fmt.Errorf("%w: nil conditional format", ErrInvalidParameter))
	}
	rng := NewRange(firstRow, firstCol, lastRow, lastCol)
	if err := checkRange(op, rng); err != nil {
		return err
	}
	if err := cf.validate(); err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	sqref := rng.String()
	if cf.MultiRange != "" {
		for _, part := range strings.Fields(cf.MultiRange) {
			if _, err := ParseRange(part); err != nil {
				return validationError(op, CodeParameterValidation, fmt.Errorf("%w: %v", ErrInvalidParameter, err))
			}
		}
		sqref = strings.Join(strings.Fields(cf.MultiRange), " ")
	}

	rule := &condRule{cf: *cf, dxf: -1}
	if cf.Format != nil && cf.usesFormat() {
		if err := cf.Format.validate(); err != nil {
			return validationError(op, CodeParameterValidation, err)
		}
		rule.dxf = s.workbook.styles.registerDxf(*cf.Format)
	}
	rule.cf.Format = nil

	for _, r := range s.condFormats {
		if r.sqref == sqref {
			r.rules = append(r.rules, rule)
			return nil
		}
	}
	s.condFormats = append(s.condFormats, &condFormatRange{sqref: sqref, first: rng, rules: []*condRule{rule}})
	return nil
}

func (cf *ConditionalFormat) usesFormat() bool {
	switch cf.Type {
	case Cond2ColorScale, Cond3ColorScale, CondDataBar, CondIconSet:
		return false
	}
	return true
}

func (cf *ConditionalFormat) validate() error {
	switch cf.Type {
	case CondCell:
		if cf.Criteria < CondEqualTo || cf.Criteria > CondNotBetween {
			return fmt.Errorf("%w: cell rule criteria %d", ErrInvalidParameter, cf.Criteria)
		}
		if cf.Criteria == CondBetween || cf.Criteria == CondNotBetween {
			if cf.MinValue == "" || cf.MaxValue == "" {
				return fmt.Errorf("%w: between needs MinValue and MaxValue", ErrInvalidParameter)
			}
		} else if cf.Value == "" {
			return fmt.Errorf("%w: cell rule needs a Value", ErrInvalidParameter)
		}
	case CondText:
		if cf.Criteria < CondTextContaining || cf.Criteria > CondTextEndsWith {
			return fmt.Errorf("%w: text rule criteria %d", ErrInvalidParameter, cf.Criteria)
		}
		if cf.Value == "" {
			return fmt.Errorf("%w: text rule needs a Value", ErrInvalidParameter)
		}
		if utf8.RuneCountInString(cf.Value) > 255 {
			return ErrStringLength255
		}
	case CondTimePeriod:
		if cf.Criteria < CondYesterday || cf.Criteria > CondNextMonth {
			return fmt.Errorf("%w: time period criteria %d", ErrInvalidParameter, cf.Criteria)
		}
	case CondAverage:
		if cf.Criteria != CondCriteriaNone && (cf.Criteria < CondAboveAverage || cf.Criteria > CondBelow3StdDev) {
			return fmt.Errorf("%w: average criteria %d", ErrInvalidParameter, cf.Criteria)
		}
	case CondTop, CondBottom:
		if cf.Rank < 0 || cf.Rank > 1000 {
			return fmt.Errorf("%w: rank %d", ErrInvalidParameter, cf.Rank)
		}
	case CondFormula:
		if strings.TrimPrefix(cf.Value, "=") == "" {
			return fmt.Errorf("%w: formula rule needs a Value", ErrInvalidParameter)
		}
	case CondIconSet:
		if cf.IconStyle != "" && (cf.IconStyle.count() < 3 || cf.IconStyle.count() > 5) {
			return fmt.Errorf("%w: icon style %q", ErrInvalidParameter, cf.IconStyle)
		}
	case CondDuplicate, CondUnique, CondBlanks, CondNoBlanks, CondErrors, CondNoErrors,
		Cond2ColorScale, Cond3ColorScale, CondDataBar:
	default:
		return fmt.Errorf("%w: conditional format type %d", ErrInvalidParameter, cf.Type)
	}
	for _, v := range []string{cf.Value, cf.MinValue, cf.MaxValue, cf.MidValue} {
		if err := checkText(v); err != nil {
			return err
		}
	}
	return nil
}

var cellOperators = map[CondCriteria]string{
	CondEqualTo:              "equal",
	CondNotEqualTo:           "notEqual",
	CondGreaterThan:          "greaterThan",
	CondLessThan:             "lessThan",
	CondGreaterThanOrEqualTo: "greaterThanOrEqual",
	CondLessThanOrEqualTo:    "lessThanOrEqual",
	CondBetween:              "between",
	CondNotBetween:           "notBetween",
}

var timePeriods = map[CondCriteria]struct{ name, formula string }{
	CondYesterday: {"yesterday", "FLOOR(%[1]s,1)=TODAY()-1"},
	CondToday:     {"today", "FLOOR(%[1]s,1)=TODAY()"},
	CondTomorrow:  {"tomorrow", "FLOOR(%[1]s,1)=TODAY()+1"},
	CondLast7Days: {"last7Days", "AND(TODAY()-FLOOR(%[1]s,1)<=6,FLOOR(%[1]s,1)<=TODAY())"},
	CondLastWeek:  {"lastWeek", "AND(TODAY()-ROUNDDOWN(%[1]s,0)>=(WEEKDAY(TODAY())),TODAY()-ROUNDDOWN(%[1]s,0)<(WEEKDAY(TODAY())+7))"},
	CondThisWeek:  {"thisWeek", "AND(TODAY()-ROUNDDOWN(%[1]s,0)<=WEEKDAY(TODAY())-1,ROUNDDOWN(%[1]s,0)-TODAY()<=7-WEEKDAY(TODAY()))"},
	CondNextWeek:  {"nextWeek", "AND(ROUNDDOWN(%[1]s,0)-TODAY()>(7-WEEKDAY(TODAY())),ROUNDDOWN(%[1]s,0)-TODAY()<(15-WEEKDAY(TODAY())))"},
	CondLastMonth: {"lastMonth", "AND(MONTH(%[1]s)=MONTH(TODAY())-1,OR(YEAR(%[1]s)=YEAR(TODAY()),AND(MONTH(%[1]s)=1,YEAR(%[1]s)=YEAR(TODAY())-1)))"},
	CondThisMonth: {"thisMonth", "AND(MONTH(%[1]s)=MONTH(TODAY()),YEAR(%[1]s)=YEAR(TODAY()))"},
	CondNextMonth: {"nextMonth", "AND(MONTH(%[1]s)=MONTH(TODAY())+1,OR(YEAR(%[1]s)=YEAR(TODAY()),AND(MONTH(%[1]s)=12,YEAR(%[1]s)=YEAR(TODAY())+1)))"},
}

// textRule returns the rule type, operator and formula of a text rule
// anchored at cell.
func textRule(c CondCriteria, text, cell string) (typ, operator, formula string) {
	quoted := strings.ReplaceAll(text, `"`, `""`)
	n := strconv.Itoa(utf8.RuneCountInString(text))
	switch c {
	case CondTextNotContaining:
		return "notContainsText", "notContains", fmt.Sprintf(`ISERROR(SEARCH("%s",%s))`, quoted, cell)
	case CondTextBeginsWith:
		return "beginsWith", "beginsWith", fmt.Sprintf(`LEFT(%s,%s)="%s"`, cell, n, quoted)
	case CondTextEndsWith:
		return "endsWith", "endsWith", fmt.Sprintf(`RIGHT(%s,%s)="%s"`, cell, n, quoted)
	default:
		return "containsText", "containsText", fmt.Sprintf(`NOT(ISERROR(SEARCH("%s",%s)))`, quoted, cell)
	}
}

func (t CondRuleType) cfvo(def string) string {
	switch t {
	case CondRuleMinimum:
		return "min"
	case CondRuleNumber:
		return "num"
	case CondRulePercent:
		return "percent"
	case CondRulePercentile:
		return "percentile"
	case CondRuleFormula:
		return "formula"
	case CondRuleMaximum:
		return "max"
	}
	return def
}
