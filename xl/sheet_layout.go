package xl

import (
	"fmt"
	"unicode/utf8"
)

// RowOptions are the less common row properties for SetRowOpt.
type RowOptions struct {
	Hidden    bool
	Level     int // outline level 0..7
	Collapsed bool
}

// SetRow sets the height (in points, 0 = default) and default style of a row.
func (s *Sheet) SetRow(row int, height float64, style StyleID) error {
	return s.SetRowOpt(row, height, style, RowOptions{})
}

// SetRowOpt sets row properties including visibility and outline level.
func (s *Sheet) SetRowOpt(row int, height float64, style StyleID, opt RowOptions) error {
	const op = "SetRow"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if row < 0 || row >= MaxRows {
		return validationError(op, CodeWorksheetIndexOutOfRange, ErrRowColumnOutOfRange)
	}
	if err := s.workbook.checkStyle(op, style); err != nil {
		return err
	}
	if height < 0 || height > 409 {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: row height %v", ErrInvalidParameter, height))
	}
	if opt.Level < 0 || opt.Level > 7 {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: outline level %d", ErrInvalidParameter, opt.Level))
	}
	if err := s.touchRow(row); err != nil {
		return validationError(op, CodeWorksheetIndexOutOfRange, err)
	}
	r := s.row(row)
	r.Height = height
	r.style = style
	r.hidden = opt.Hidden
	r.level = opt.Level
	r.collapsed = opt.Collapsed
	s.outlineRowLevel = max(s.outlineRowLevel, opt.Level)
	s.dim.include(row, s.dimColOr(0))
	return nil
}

func (s *Sheet) dimColOr(def int) int {
	if s.dim.set {
		return s.dim.minCol
	}
	return def
}

// ColOptions are the less common column properties for SetColumnOpt.
type ColOptions struct {
	Hidden    bool
	Level     int
	Collapsed bool
}

// SetColumn sets the width (in characters, 0 = default) and default style
// of the columns firstCol..lastCol.
func (s *Sheet) SetColumn(firstCol, lastCol int, width float64, style StyleID) error {
	return s.SetColumnOpt(firstCol, lastCol, width, style, ColOptions{})
}

// SetColumnOpt sets column properties including visibility and outline level.
func (s *Sheet) SetColumnOpt(firstCol, lastCol int, width float64, style StyleID, opt ColOptions) error {
	const op = "SetColumn"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if firstCol > lastCol {
		firstCol, lastCol = lastCol, firstCol
	}
	if firstCol < 0 || lastCol >= MaxCols {
		return validationError(op, CodeWorksheetIndexOutOfRange, ErrRowColumnOutOfRange)
	}
	if err := s.workbook.checkStyle(op, style); err != nil {
		return err
	}
	if width < 0 || width > 255 {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: column width %v", ErrInvalidParameter, width))
	}
	if opt.Level < 0 || opt.Level > 7 {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: outline level %d", ErrInvalidParameter, opt.Level))
	}
	for c := firstCol; c <= lastCol; c++ {
		if width == 0 && style == DefaultStyle && opt == (ColOptions{}) {
			delete(s.Columns, c)
			continue
		}
		s.Columns[c] = &Column{
			Width:     width,
			style:     style,
			hidden:    opt.Hidden,
			level:     opt.Level,
			collapsed: opt.Collapsed,
		}
	}
	s.outlineColLevel = max(s.outlineColLevel, opt.Level)
	return nil
}

// SetColumnWidth is a shorthand for SetColumn with the default style.
func (s *Sheet) SetColumnWidth(col int, w float64) error {
	return s.SetColumn(col, col, w, DefaultStyle)
}

// SetDefaultRowHeight changes the height of all rows without an explicit height.
func (s *Sheet) SetDefaultRowHeight(height float64) error {
	const op = "SetDefaultRowHeight"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if height <= 0 || height > 409 {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: row height %v", ErrInvalidParameter, height))
	}
	s.defaultRowHeight = height
	return nil
}

// MergeRange merges a block of cells and writes text into its top-left
// cell. The other cells get blank cells in style so borders and fills cover
// the whole block. Cells inside the block, other than the top-left one, can
// not be written afterwards.
func (s *Sheet) MergeRange(firstRow, firstCol, lastRow, lastCol int, text string, style StyleID) error {
	const op = "MergeRange"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	rng := NewRange(firstRow, firstCol, lastRow, lastCol)
	if err := checkRange(op, rng); err != nil {
		return err
	}
	if rng.Rows() == 1 && rng.Cols() == 1 {
		return validationError(op, CodeParameterValidation, ErrMergeSingleCell)
	}
	for _, m := range s.merged {
		if m.Overlaps(rng) {
			return validationError(op, CodeParameterValidation, fmt.Errorf("%w: %s and %s", ErrMergeOverlap, rng, m))
		}
	}
	if err := s.checkCells(op, rng, style); err != nil {
		return err
	}
	if err := checkText(text); err != nil {
		return validationError(op, CodeMaxStringLengthExceeded, err)
	}
	if err := s.WriteString(rng.FirstRow, rng.FirstCol, text, style); err != nil {
		return err
	}
	for r := rng.FirstRow; r <= rng.LastRow; r++ {
		for c := rng.FirstCol; c <= rng.LastCol; c++ {
			if r == rng.FirstRow && c == rng.FirstCol {
				continue
			}
			if err := s.WriteBlank(r, c, style); err != nil {
				return err
			}
		}
	}
	s.merged = append(s.merged, rng)
	return nil
}

// Autofilter adds filter buttons to the header row of a range.
func (s *Sheet) Autofilter(firstRow, firstCol, lastRow, lastCol int) error {
	const op = "Autofilter"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	rng := NewRange(firstRow, firstCol, lastRow, lastCol)
	if err := checkRange(op, rng); err != nil {
		return err
	}
	s.autofilter = &rng
	return nil
}

type pane struct {
	frozen          bool
	row, col        int     // frozen rows/cols
	topRow, leftCol int     // first visible cell of the scrolling pane
	ySplit, xSplit  float64 // split pane position in twips
}

type sheetView struct {
	zoom          int
	tabColor      Color
	hideGridlines int // 0 shown, 1 hidden on screen, 2 hidden on screen and print
	rightToLeft   bool
	hideZero      bool
	hidden        bool
	selected      bool
	pane          *pane
	selection     *Range
}

func newSheetView() sheetView {
	return sheetView{zoom: 100}
}

// FreezePanes freezes the rows above row and the columns left of col.
func (s *Sheet) FreezePanes(row, col int) error {
	return s.FreezePanesAt(row, col, row, col)
}

// FreezePanesAt freezes panes and scrolls the unfrozen part to (topRow, leftCol).
func (s *Sheet) FreezePanesAt(row, col, topRow, leftCol int) error {
	const op = "FreezePanes"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if row < 0 || row >= MaxRows || col < 0 || col >= MaxCols || topRow < row || leftCol < col || topRow >= MaxRows || leftCol >= MaxCols {
		return validationError(op, CodeWorksheetIndexOutOfRange, ErrRowColumnOutOfRange)
	}
	if row == 0 && col == 0 {
		s.view.pane = nil
		return nil
	}
	s.view.pane = &pane{frozen: true, row: row, col: col, topRow: topRow, leftCol: leftCol}
	return nil
}

// SplitPanes splits the window at a position given in points (vertical)
// and character widths (horizontal), like dragging the split bars.
func (s *Sheet) SplitPanes(vertical, horizontal float64) error {
	const op = "SplitPanes"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if vertical < 0 || horizontal < 0 {
		return validationError(op, CodeParameterValidation, ErrInvalidParameter)
	}
	if vertical == 0 && horizontal == 0 {
		s.view.pane = nil
		return nil
	}
	p := &pane{}
	if vertical > 0 {
		p.ySplit = 20*vertical + 300
		p.topRow = int(vertical/15 + 0.5)
	}
	if horizontal > 0 {
		p.xSplit = 20*(7*horizontal+5)*0.75 + 390
		p.leftCol = int(horizontal/8.43 + 0.5)
	}
	s.view.pane = p
	return nil
}

// SetSelection selects a range; its first cell becomes the active cell.
func (s *Sheet) SetSelection(firstRow, firstCol, lastRow, lastCol int) error {
	const op = "SetSelection"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	rng := NewRange(firstRow, firstCol, lastRow, lastCol)
	if err := checkRange(op, rng); err != nil {
		return err
	}
	s.view.selection = &rng
	return nil
}

// SetZoom sets the view zoom, 10..400 percent.
func (s *Sheet) SetZoom(scale int) error {
	const op = "SetZoom"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if scale < 10 || scale > 400 {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: zoom %d", ErrInvalidParameter, scale))
	}
	s.view.zoom = scale
	return nil
}

func (s *Sheet) SetTabColor(c Color) error {
	if err := s.checkOpen("SetTabColor"); err != nil {
		return err
	}
	s.view.tabColor = c
	return nil
}

// HideGridlines hides gridlines on screen (1) or on screen and in print (2);
// 0 shows them again.
func (s *Sheet) HideGridlines(option int) error {
	const op = "HideGridlines"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if option < 0 || option > 2 {
		return validationError(op, CodeParameterValidation, ErrInvalidParameter)
	}
	s.view.hideGridlines = option
	return nil
}

func (s *Sheet) SetRightToLeft() error {
	if err := s.checkOpen("SetRightToLeft"); err != nil {
		return err
	}
	s.view.rightToLeft = true
	return nil
}

func (s *Sheet) HideZero() error {
	if err := s.checkOpen("HideZero"); err != nil {
		return err
	}
	s.view.hideZero = true
	return nil
}

// Hide hides the sheet. The active sheet can not be hidden.
func (s *Sheet) Hide() error {
	const op = "Hide"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if s.workbook.activeSheet == s.index {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: can not hide the active sheet", ErrInvalidParameter))
	}
	s.view.hidden = true
	s.view.selected = false
	if s.workbook.firstSheet == s.index {
		s.workbook.firstSheet = 0
	}
	return nil
}

// Activate makes this the sheet shown when the file is opened.
func (s *Sheet) Activate() error {
	if err := s.checkOpen("Activate"); err != nil {
		return err
	}
	s.view.hidden = false
	s.view.selected = true
	s.workbook.activeSheet = s.index
	return nil
}

// Select marks the sheet tab as selected (grouped with the active sheet).
func (s *Sheet) Select() error {
	if err := s.checkOpen("Select"); err != nil {
		return err
	}
	s.view.hidden = false
	s.view.selected = true
	return nil
}

// SetFirstSheet sets the leftmost visible tab when there are many sheets.
func (s *Sheet) SetFirstSheet() error {
	if err := s.checkOpen("SetFirstSheet"); err != nil {
		return err
	}
	s.view.hidden = false
	s.workbook.firstSheet = s.index
	return nil
}

// SheetProtection lists what remains allowed on a protected sheet.
type SheetProtection struct {
	Password              string
	NoSelectLockedCells   bool
	NoSelectUnlockedCells bool
	FormatCells           bool
	FormatColumns         bool
	FormatRows            bool
	InsertColumns         bool
	InsertRows            bool
	InsertHyperlinks      bool
	DeleteColumns         bool
	DeleteRows            bool
	Sort                  bool
	Autofilter            bool
	PivotTables           bool
	Scenarios             bool
	Objects               bool
}

// Protect protects the sheet; cells with Protection.Unlocked stay editable.
func (s *Sheet) Protect(p SheetProtection) error {
	const op = "Protect"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if utf8.RuneCountInString(p.Password) > 255 {
		return validationError(op, Code255StringLengthExceeded, ErrStringLength255)
	}
	s.prot = &p
	return nil
}

// passwordHash is Excel's legacy 16 bit sheet password hash.
func passwordHash(password string) string {
	var hash uint16
	b := []byte(password)
	for i := len(b) - 1; i >= 0; i-- {
		hash = ((hash >> 14) & 0x01) | ((hash << 1) & 0x7FFF)
		hash ^= uint16(b[i])
	}
	hash = ((hash >> 14) & 0x01) | ((hash << 1) & 0x7FFF)
	hash ^= uint16(len(b))
	hash ^= 0xCE4B
	return fmt.Sprintf("%X", hash)
}
