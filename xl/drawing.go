package xl

import (
	"fmt"
	"math"
	"path/filepath"
)

const (
	emuPerPixel        = 9525
	defaultColPixels   = 64
	defaultRowPixels   = 20
	defaultChartWidth  = 480
	defaultChartHeight = 288
)

type drawingKind int

const (
	drawingImage drawingKind = iota
	drawingChart
)

// ImageOptions positions and scales an inserted image or chart.
type ImageOptions struct {
	XOffset, YOffset int     // pixels from the top-left corner of the anchor cell
	XScale, YScale   float64 // 0 means 1
	Description      string  // alt text
	Decorative       bool
	URL              string // click-through hyperlink for images
	Tooltip          string
}

// anchor is a two cell anchor: cells plus pixel offsets inside them.
type anchor struct {
	fromCol, fromRow       int
	fromColOff, fromRowOff int // pixels
	toCol, toRow           int
	toColOff, toRowOff     int
	width, height          int // pixels
}

// drawingObject is an image or chart placed over the grid. The anchor is
// computed at finalize, once row heights and column widths are final.
type drawingObject struct {
	kind       drawingKind
	row, col   int
	xOff, yOff int
	width      int // pixels
	height     int
	name       string
	descr      string
	decorative bool
	image      *imageInfo
	chart      *Chart
	url        string
	tip        string
}

// colPixels is the on-screen width of a column.
func (s *Sheet) colPixels(col int) int {
	c, ok := s.Columns[col]
	switch {
	case !ok:
		return defaultColPixels
	case c.hidden:
		return 0
	case c.Width == 0:
		return defaultColPixels
	case c.Width < 1:
		return int(c.Width*12 + 0.5)
	default:
		return int(c.Width*7 + 0.5 + 5)
	}
}

// rowPixels is the on-screen height of a row. Flushed rows in constant
// memory mode count with the default height.
func (s *Sheet) rowPixels(row int) int {
	if r, ok := s.rows[row]; ok {
		if r.hidden {
			return 0
		}
		if r.Height > 0 {
			return int(4.0 / 3.0 * r.Height)
		}
	}
	if s.defaultRowHeight > 0 {
		return int(4.0 / 3.0 * s.defaultRowHeight)
	}
	return defaultRowPixels
}

// positionObject converts a cell position plus an object size in pixels
// into a two cell anchor.
func (s *Sheet) positionObject(row, col, xOff, yOff, width, height int) anchor {
	for xOff < 0 && col > 0 {
		col--
		xOff += s.colPixels(col)
	}
	for yOff < 0 && row > 0 {
		row--
		yOff += s.rowPixels(row)
	}
	xOff, yOff = max(xOff, 0), max(yOff, 0)

	// Normalize offsets that are larger than the cell.
	for col < MaxCols-1 && xOff >= s.colPixels(col) && s.colPixels(col) > 0 {
		xOff -= s.colPixels(col)
		col++
	}
	for row < MaxRows-1 && yOff >= s.rowPixels(row) && s.rowPixels(row) > 0 {
		yOff -= s.rowPixels(row)
		row++
	}

	a := anchor{fromCol: col, fromRow: row, fromColOff: xOff, fromRowOff: yOff, width: width, height: height}

	toCol, remX := col, width+xOff
	for toCol < MaxCols-1 && remX >= s.colPixels(toCol) {
		remX -= s.colPixels(toCol)
		toCol++
	}
	toRow, remY := row, height+yOff
	for toRow < MaxRows-1 && remY >= s.rowPixels(toRow) {
		remY -= s.rowPixels(toRow)
		toRow++
	}
	a.toCol, a.toColOff = toCol, remX
	a.toRow, a.toRowOff = toRow, remY
	return a
}

func (o ImageOptions) scales() (float64, float64) {
	xs, ys := o.XScale, o.YScale
	if xs == 0 {
		xs = 1
	}
	if ys == 0 {
		ys = 1
	}
	return xs, ys
}

func (o ImageOptions) check(op string) error {
	if o.XScale < 0 || o.YScale < 0 || math.IsNaN(o.XScale) || math.IsNaN(o.YScale) {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: negative scale", ErrInvalidParameter))
	}
	if err := checkText(o.Description); err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	if o.URL != "" {
		if _, _, err := parseURL(o.URL); err != nil {
			return validationError(op, CodeParameterValidation, err)
		}
	}
	if len([]rune(o.Tooltip)) > maxTooltipSize {
		return validationError(op, Code255StringLengthExceeded, ErrStringLength255)
	}
	return nil
}

func (s *Sheet) anchorOf(o *drawingObject) anchor {
	return s.positionObject(o.row, o.col, o.xOff, o.yOff, o.width, o.height)
}

func (s *Sheet) checkAnchor(op string, row, col int) error {
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if row < 0 || row >= MaxRows || col < 0 || col >= MaxCols {
		return validationError(op, CodeWorksheetIndexOutOfRange, fmt.Errorf("%w: (%d, %d)", ErrRowColumnOutOfRange, row, col))
	}
	return nil
}

// InsertImage places a PNG, JPEG, GIF or BMP file over the grid with its
// top-left corner in cell (row, col).
func (s *Sheet) InsertImage(row, col int, filename string) error {
	return s.InsertImageOpt(row, col, filename, ImageOptions{})
}

func (s *Sheet) InsertImageOpt(row, col int, filename string, opt ImageOptions) error {
	const op = "InsertImage"
	if err := s.checkAnchor(op, row, col); err != nil {
		return err
	}
	blob, err := readImageFile(op, filename)
	if err != nil {
		return err
	}
	if opt.Description == "" {
		opt.Description = filepath.Base(filename)
	}
	return s.insertImage(op, row, col, blob, opt)
}

// InsertImageBuffer is InsertImage for an in-memory image.
func (s *Sheet) InsertImageBuffer(row, col int, blob []byte, opt ImageOptions) error {
	const op = "InsertImageBuffer"
	if err := s.checkAnchor(op, row, col); err != nil {
		return err
	}
	return s.insertImage(op, row, col, blob, opt)
}

func (s *Sheet) insertImage(op string, row, col int, blob []byte, opt ImageOptions) error {
	if err := opt.check(op); err != nil {
		return err
	}
	if len(blob) == 0 {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: empty image data", ErrInvalidParameter))
	}
	info, err := s.workbook.addImage(blob)
	if err != nil {
		return validationError(op, CodeImageDimensions, err)
	}
	xs, ys := opt.scales()
	w := int(float64(info.width)*xs*96/info.dpiX + 0.5)
	h := int(float64(info.height)*ys*96/info.dpiY + 0.5)
	s.drawings = append(s.drawings, &drawingObject{
		kind:       drawingImage,
		row:        row,
		col:        col,
		xOff:       opt.XOffset,
		yOff:       opt.YOffset,
		width:      w,
		height:     h,
		name:       fmt.Sprintf("Picture %d", len(s.drawings)+1),
		descr:      opt.Description,
		decorative: opt.Decorative,
		image:      info,
		url:        opt.URL,
		tip:        opt.Tooltip,
	})
	return nil
}

// InsertChart places a chart with its top-left corner in cell (row, col).
// A chart can be inserted only once.
func (s *Sheet) InsertChart(row, col int, c *Chart) error {
	return s.InsertChartOpt(row, col, c, ImageOptions{})
}

func (s *Sheet) InsertChartOpt(row, col int, c *Chart, opt ImageOptions) error {
	const op = "InsertChart"
	if err := s.checkAnchor(op, row, col); err != nil {
		return err
	}
	if c == nil {
		return validationError(op, CodeNullParameterIgnored, fmt.Errorf("%w: nil chart", ErrInvalidParameter))
	}
	if c.workbook != s.workbook {
		return validationError(op, CodeParameterValidation, ErrForeignObject)
	}
	if c.inserted {
		return validationError(op, CodeParameterValidation, ErrChartAlreadyInserted)
	}
	if err := opt.check(op); err != nil {
		return err
	}
	xs, ys := opt.scales()
	w := int(defaultChartWidth*xs + 0.5)
	h := int(defaultChartHeight*ys + 0.5)
	c.inserted = true
	s.drawings = append(s.drawings, &drawingObject{
		kind:   drawingChart,
		row:    row,
		col:    col,
		xOff:   opt.XOffset,
		yOff:   opt.YOffset,
		width:  w,
		height: h,
		name:   fmt.Sprintf("Chart %d", len(s.drawings)+1),
		descr:  opt.Description,
		chart:  c,
	})
	return nil
}
