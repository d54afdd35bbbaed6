package xl

import (
	"fmt"
	"unicode/utf8"
)

type margins struct {
	left, right, top, bottom, header, footer float64
}

type pageSetup struct {
	landscape       bool
	orientationSet  bool
	paper           int
	scale           int
	fitWidth        int
	fitHeight       int
	fitToPage       bool
	firstPageNumber int
	pageOrderOver   bool
	margins         margins
	header, footer  string
	printGridlines  bool
	printHeadings   bool
	hCenter         bool
	vCenter         bool
	blackAndWhite   bool

	printArea  *Range
	repeatRows *[2]int
	repeatCols *[2]int
}

func newPageSetup() pageSetup {
	return pageSetup{
		scale:   100,
		margins: margins{left: 0.7, right: 0.7, top: 0.75, bottom: 0.75, header: 0.3, footer: 0.3},
	}
}

func (p *pageSetup) customized() bool {
	return p.orientationSet || p.paper != 0 || p.scale != 100 || p.fitToPage || p.firstPageNumber != 0 || p.pageOrderOver || p.blackAndWhite
}

func (s *Sheet) SetLandscape() error {
	if err := s.checkOpen("SetLandscape"); err != nil {
		return err
	}
	s.setup.landscape = true
	s.setup.orientationSet = true
	return nil
}

func (s *Sheet) SetPortrait() error {
	if err := s.checkOpen("SetPortrait"); err != nil {
		return err
	}
	s.setup.landscape = false
	s.setup.orientationSet = true
	return nil
}

// SetPaper selects the printer paper by Excel's paper index (1 = Letter, 9 = A4).
func (s *Sheet) SetPaper(index int) error {
	const op = "SetPaper"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if index < 0 || index > 118 {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: paper %d", ErrInvalidParameter, index))
	}
	s.setup.paper = index
	return nil
}

// SetMargins sets the page margins in inches. Negative values keep the default.
func (s *Sheet) SetMargins(left, right, top, bottom float64) error {
	if err := s.checkOpen("SetMargins"); err != nil {
		return err
	}
	m := &s.setup.margins
	for _, p := range []struct {
		dst *float64
		v   float64
	}{{&m.left, left}, {&m.right, right}, {&m.top, top}, {&m.bottom, bottom}} {
		if p.v >= 0 {
			*p.dst = p.v
		}
	}
	return nil
}

// SetHeader sets the page header using Excel's &L/&C/&R control codes.
func (s *Sheet) SetHeader(text string, margin float64) error {
	const op = "SetHeader"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if utf8.RuneCountInString(text) > 255 {
		return validationError(op, Code255StringLengthExceeded, ErrStringLength255)
	}
	s.setup.header = text
	if margin > 0 {
		s.setup.margins.header = margin
	}
	return nil
}

// SetFooter sets the page footer using Excel's &L/&C/&R control codes.
func (s *Sheet) SetFooter(text string, margin float64) error {
	const op = "SetFooter"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if utf8.RuneCountInString(text) > 255 {
		return validationError(op, Code255StringLengthExceeded, ErrStringLength255)
	}
	s.setup.footer = text
	if margin > 0 {
		s.setup.margins.footer = margin
	}
	return nil
}

// SetPrintScale sets the print scale, 10..400 percent. It is ignored by
// Excel when FitToPages is also used.
func (s *Sheet) SetPrintScale(scale int) error {
	const op = "SetPrintScale"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if scale < 10 || scale > 400 {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: scale %d", ErrInvalidParameter, scale))
	}
	s.setup.fitToPage = false
	s.setup.scale = scale
	return nil
}

// FitToPages fits the printout to width x height pages; 0 means as many as needed.
func (s *Sheet) FitToPages(width, height int) error {
	const op = "FitToPages"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if width < 0 || height < 0 {
		return validationError(op, CodeParameterValidation, ErrInvalidParameter)
	}
	s.setup.fitToPage = true
	s.setup.fitWidth = width
	s.setup.fitHeight = height
	return nil
}

func (s *Sheet) SetStartPage(n int) error {
	const op = "SetStartPage"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if n < 1 {
		return validationError(op, CodeParameterValidation, ErrInvalidParameter)
	}
	s.setup.firstPageNumber = n
	return nil
}

// PrintAcross prints pages left to right before top to bottom.
func (s *Sheet) PrintAcross() error {
	if err := s.checkOpen("PrintAcross"); err != nil {
		return err
	}
	s.setup.pageOrderOver = true
	return nil
}

func (s *Sheet) PrintGridlines() error {
	if err := s.checkOpen("PrintGridlines"); err != nil {
		return err
	}
	s.setup.printGridlines = true
	return nil
}

func (s *Sheet) PrintRowColHeaders() error {
	if err := s.checkOpen("PrintRowColHeaders"); err != nil {
		return err
	}
	s.setup.printHeadings = true
	return nil
}

func (s *Sheet) CenterHorizontally() error {
	if err := s.checkOpen("CenterHorizontally"); err != nil {
		return err
	}
	s.setup.hCenter = true
	return nil
}

func (s *Sheet) CenterVertically() error {
	if err := s.checkOpen("CenterVertically"); err != nil {
		return err
	}
	s.setup.vCenter = true
	return nil
}

func (s *Sheet) PrintBlackAndWhite() error {
	if err := s.checkOpen("PrintBlackAndWhite"); err != nil {
		return err
	}
	s.setup.blackAndWhite = true
	return nil
}

// PrintArea limits printing to a range. It is stored as the sheet-local
// _xlnm.Print_Area defined name.
func (s *Sheet) PrintArea(firstRow, firstCol, lastRow, lastCol int) error {
	const op = "PrintArea"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	rng := NewRange(firstRow, firstCol, lastRow, lastCol)
	if err := checkRange(op, rng); err != nil {
		return err
	}
	s.setup.printArea = &rng
	return nil
}

// RepeatRows repeats rows firstRow..lastRow at the top of every printed page.
func (s *Sheet) RepeatRows(firstRow, lastRow int) error {
	const op = "RepeatRows"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if firstRow > lastRow {
		firstRow, lastRow = lastRow, firstRow
	}
	if firstRow < 0 || lastRow >= MaxRows {
		return validationError(op, CodeWorksheetIndexOutOfRange, ErrRowColumnOutOfRange)
	}
	s.setup.repeatRows = &[2]int{firstRow, lastRow}
	return nil
}

// RepeatColumns repeats columns firstCol..lastCol at the left of every printed page.
func (s *Sheet) RepeatColumns(firstCol, lastCol int) error {
	const op = "RepeatColumns"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if firstCol > lastCol {
		firstCol, lastCol = lastCol, firstCol
	}
	if firstCol < 0 || lastCol >= MaxCols {
		return validationError(op, CodeWorksheetIndexOutOfRange, ErrRowColumnOutOfRange)
	}
	s.setup.repeatCols = &[2]int{firstCol, lastCol}
	return nil
}

// printTitles renders the _xlnm.Print_Titles formula.
func (s *Sheet) printTitles() string {
	name := quoteSheetName(s.Name)
	var parts []string
	if c := s.setup.repeatCols; c != nil {
		parts = append(parts, fmt.Sprintf("%s!$%s:$%s", name, ColumnName(c[0]), ColumnName(c[1])))
	}
	if r := s.setup.repeatRows; r != nil {
		parts = append(parts, fmt.Sprintf("%s!$%d:$%d", name, r[0]+1, r[1]+1))
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + "," + parts[1]
	}
}
