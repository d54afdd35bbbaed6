package xl

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidationType restricts what a cell accepts.
type ValidationType int

const (
	ValidateAny ValidationType = iota
	ValidateInteger
	ValidateDecimal
	ValidateList
	ValidateDate
	ValidateTime
	ValidateLength
	ValidateCustom
)

// ValidationCriteria compares the input with the bounds.
type ValidationCriteria int

const (
	CriteriaBetween ValidationCriteria = iota
	CriteriaNotBetween
	CriteriaEqualTo
	CriteriaNotEqualTo
	CriteriaGreaterThan
	CriteriaLessThan
	CriteriaGreaterThanOrEqualTo
	CriteriaLessThanOrEqualTo
)

// ValidationErrorType is the icon and behaviour of the error alert.
type ValidationErrorType int

const (
	ValidationErrorStop ValidationErrorType = iota
	ValidationErrorWarning
	ValidationErrorInformation
)

// DataValidation describes a validation rule. A bound is taken from the
// first non-empty of its Formula, DateTime and Number fields; ValidateList
// uses List or ValueFormula.
//
// Input and error messages, the dropdown and ignoring blank input are on
// by default; the Hide and No fields turn them off.
type DataValidation struct {
	Type     ValidationType
	Criteria ValidationCriteria

	ValueNumber   float64
	ValueFormula  string
	ValueDateTime time.Time
	MinNumber     float64
	MinFormula    string
	MinDateTime   time.Time
	MaxNumber     float64
	MaxFormula    string
	MaxDateTime   time.Time
	List          []string

	InputTitle   string
	InputMessage string
	ErrorTitle   string
	ErrorMessage string
	ErrorType    ValidationErrorType

	HideInput     bool
	HideError     bool
	NoDropdown    bool
	NoIgnoreBlank bool
}

type dataValidationEntry struct {
	dv       DataValidation
	sqref    string
	formula1 string
	formula2 string
}

// Message limits of data validation alerts.
const (
	maxValidationTitle   = 32
	maxValidationMessage = 255
	maxValidationList    = 255
)

// DataValidationCell adds a validation rule to one cell.
func (s *Sheet) DataValidationCell(row, col int, dv *DataValidation) error {
	return s.DataValidationRange(row, col, row, col, dv)
}

// DataValidationRange adds a validation rule to a range.
func (s *Sheet) DataValidationRange(firstRow, firstCol, lastRow, lastCol int, dv *DataValidation) error {
	const op = "DataValidation"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if dv == nil {
		return validationError(op, CodeNullParameterIgnored, fmt.Errorf("%w: nil data validation", ErrInvalidParameter))
	}
	rng := NewRange(firstRow, firstCol, lastRow, lastCol)
	if err := checkRange(op, rng); err != nil {
		return err
	}
	for _, t := range []string{dv.InputTitle, dv.ErrorTitle} {
		if utf8.RuneCountInString(t) > maxValidationTitle {
			return validationError(op, Code32StringLengthExceeded, ErrStringLength32)
		}
	}
	for _, m := range []string{dv.InputMessage, dv.ErrorMessage} {
		if utf8.RuneCountInString(m) > maxValidationMessage {
			return validationError(op, Code255StringLengthExceeded, ErrStringLength255)
		}
	}
	for _, t := range []string{dv.InputTitle, dv.ErrorTitle, dv.InputMessage, dv.ErrorMessage} {
		if err := checkText(t); err != nil {
			return validationError(op, CodeParameterValidation, err)
		}
	}
	if dv.Criteria < CriteriaBetween || dv.Criteria > CriteriaLessThanOrEqualTo {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: criteria %d", ErrInvalidParameter, dv.Criteria))
	}

	e := &dataValidationEntry{dv: *dv, sqref: rng.String()}
	date1904 := s.workbook.date1904
	var err error
	switch dv.Type {
	case ValidateAny:
	case ValidateList:
		if dv.ValueFormula != "" {
			e.formula1 = strings.TrimPrefix(dv.ValueFormula, "=")
			break
		}
		if len(dv.List) == 0 {
			return validationError(op, CodeParameterValidation, fmt.Errorf("%w: empty list", ErrInvalidParameter))
		}
		joined := strings.Join(dv.List, ",")
		if utf8.RuneCountInString(joined) > maxValidationList {
			return validationError(op, Code255StringLengthExceeded, fmt.Errorf("%w: list source", ErrStringLength255))
		}
		e.formula1 = `"` + strings.ReplaceAll(joined, `"`, `""`) + `"`
	case ValidateCustom:
		e.formula1 = strings.TrimPrefix(dv.ValueFormula, "=")
		if e.formula1 == "" {
			return validationError(op, CodeParameterValidation, fmt.Errorf("%w: custom validation needs ValueFormula", ErrInvalidParameter))
		}
	case ValidateInteger, ValidateDecimal, ValidateDate, ValidateTime, ValidateLength:
		if dv.Criteria == CriteriaBetween || dv.Criteria == CriteriaNotBetween {
			if e.formula1, err = dv.bound(dv.MinFormula, dv.MinDateTime, dv.MinNumber, date1904); err == nil {
				e.formula2, err = dv.bound(dv.MaxFormula, dv.MaxDateTime, dv.MaxNumber, date1904)
			}
		} else {
			e.formula1, err = dv.bound(dv.ValueFormula, dv.ValueDateTime, dv.ValueNumber, date1904)
		}
		if err != nil {
			return validationError(op, CodeParameterValidation, err)
		}
	default:
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: validation type %d", ErrInvalidParameter, dv.Type))
	}
	s.validations = append(s.validations, e)
	return nil
}

func (dv *DataValidation) bound(formula string, t time.Time, n float64, date1904 bool) (string, error) {
	if formula != "" {
		return strings.TrimPrefix(formula, "="), nil
	}
	if !t.IsZero() {
		switch dv.Type {
		case ValidateTime:
			d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second + time.Duration(t.Nanosecond())
			return formatNumber(excelTimeOfDay(d)), nil
		case ValidateDate:
			v, err := excelTime(t, date1904)
			if err != nil {
				return "", err
			}
			return formatNumber(v), nil
		}
	}
	return formatNumber(n), nil
}

func (t ValidationType) attr() string {
	switch t {
	case ValidateInteger:
		return "whole"
	case ValidateDecimal:
		return "decimal"
	case ValidateList:
		return "list"
	case ValidateDate:
		return "date"
	case ValidateTime:
		return "time"
	case ValidateLength:
		return "textLength"
	case ValidateCustom:
		return "custom"
	}
	return ""
}

func (c ValidationCriteria) attr() string {
	switch c {
	case CriteriaNotBetween:
		return "notBetween"
	case CriteriaEqualTo:
		return "equal"
	case CriteriaNotEqualTo:
		return "notEqual"
	case CriteriaGreaterThan:
		return "greaterThan"
	case CriteriaLessThan:
		return "lessThan"
	case CriteriaGreaterThanOrEqualTo:
		return "greaterThanOrEqual"
	case CriteriaLessThanOrEqualTo:
		return "lessThanOrEqual"
	}
	return ""
}

// formatNumber renders a float the way Excel stores it in XML.
func formatNumber(v float64) string {
	if v == float64(int64(v)) && v < 1e15 && v > -1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'G', -1, 64)
}
