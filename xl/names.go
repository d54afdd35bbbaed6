package xl

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

type definedName struct {
	name    string
	formula string
	local   int // sheet index, -1 for workbook scope
	hidden  bool
}

// DefineName creates a named range or constant. Prefix the name with a
// sheet name, "Sheet1!Sales", to make it local to that sheet.
//
//	wb.DefineName("Sales", "=Sheet1!$G$1:$H$10")
func (wb *Workbook) DefineName(name, formula string) error {
	const op = "DefineName"
	if wb.closed {
		return stateError(op)
	}
	local := -1
	if i := strings.LastIndexByte(name, '!'); i >= 0 {
		sheet := strings.Trim(name[:i], "'")
		s := wb.GetSheetByName(sheet)
		if s == nil {
			return validationError(op, CodeParameterValidation, fmt.Errorf("%w: unknown sheet %q", ErrInvalidName, sheet))
		}
		local = s.index
		name = name[i+1:]
	}
	if err := validateName(name); err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	formula = strings.TrimPrefix(formula, "=")
	if formula == "" {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: empty formula", ErrInvalidParameter))
	}
	if err := checkText(formula); err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	for i, d := range wb.definedNames {
		if d.local == local && strings.EqualFold(d.name, name) {
			wb.definedNames[i].formula = formula
			return nil
		}
	}
	wb.definedNames = append(wb.definedNames, definedName{name: name, formula: formula, local: local})
	return nil
}

// validateName applies Excel's rules for defined and table names.
func validateName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > 255 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.HasPrefix(strings.ToLower(name), "_xlnm.") {
		return fmt.Errorf("%w: %q uses a reserved prefix", ErrInvalidName, name)
	}
	first, _ := utf8.DecodeRuneInString(name)
	if !(unicode.IsLetter(first) || first == '_' || first == '\\') {
		return fmt.Errorf("%w: %q must start with a letter, underscore or backslash", ErrInvalidName, name)
	}
	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '\\') {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, r)
		}
	}
	if _, _, err := ParseCellName(name); err == nil {
		return fmt.Errorf("%w: %q looks like a cell reference", ErrInvalidName, name)
	}
	if isR1C1(name) {
		return fmt.Errorf("%w: %q looks like an R1C1 reference", ErrInvalidName, name)
	}
	return nil
}

func isR1C1(name string) bool {
	u := strings.ToUpper(name)
	if u == "R" || u == "C" {
		return true
	}
	if u[0] != 'R' && u[0] != 'C' {
		return false
	}
	for _, r := range u[1:] {
		if !unicode.IsDigit(r) && r != 'R' && r != 'C' {
			return false
		}
	}
	return true
}

// allDefinedNames merges the user names with the builtin print and filter
// names of every sheet, in the order Excel sorts them.
func (wb *Workbook) allDefinedNames() []definedName {
	names := slices.Clone(wb.definedNames)
	for _, s := range wb.Sheets {
		if s.autofilter != nil {
			names = append(names, definedName{name: "_xlnm._FilterDatabase", formula: sheetRef(s.Name, *s.autofilter), local: s.index, hidden: true})
		}
		if s.setup.printArea != nil {
			names = append(names, definedName{name: "_xlnm.Print_Area", formula: sheetRef(s.Name, *s.setup.printArea), local: s.index})
		}
		if t := s.printTitles(); t != "" {
			names = append(names, definedName{name: "_xlnm.Print_Titles", formula: t, local: s.index})
		}
	}
	slices.SortStableFunc(names, func(a, b definedName) int {
		ka := strings.ToLower(strings.TrimPrefix(a.name, "_xlnm."))
		kb := strings.ToLower(strings.TrimPrefix(b.name, "_xlnm."))
		if c := cmp.Compare(ka, kb); c != 0 {
			return c
		}
		return cmp.Compare(a.local, b.local)
	})
	return names
}
