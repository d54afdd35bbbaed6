package xl

import (
	"fmt"
	"unicode/utf8"
)

const (
	defaultCommentWidth  = 128 // pixels
	defaultCommentHeight = 74
	defaultCommentColor  = Color(0xFFFFFFE1)
	defaultCommentFont   = "Tahoma"
	defaultCommentSize   = 8
)

// CommentOptions customizes WriteCommentOpt.
type CommentOptions struct {
	Author   string // "" uses the sheet's comment author
	Visible  bool
	Width    int // pixels, 0 = 128
	Height   int // pixels, 0 = 74
	XScale   float64
	YScale   float64
	Color    Color // background, 0 = pale yellow
	FontName string
	FontSize float64
	XOffset  int // pixels right of the cell, 0 = 15
	YOffset  int // pixels below the cell top, 0 = 10
}

type comment struct {
	row, col int
	text     string
	author   string
	visible  bool
	color    Color
	font     string
	size     float64
	width    int
	height   int
	xOff     int
	yOff     int
}

// WriteComment attaches a note to a cell. The cell value is not changed.
func (s *Sheet) WriteComment(row, col int, text string) error {
	return s.WriteCommentOpt(row, col, text, CommentOptions{})
}

func (s *Sheet) WriteCommentOpt(row, col int, text string, opt CommentOptions) error {
	const op = "WriteComment"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if row < 0 || row >= MaxRows || col < 0 || col >= MaxCols {
		return validationError(op, CodeWorksheetIndexOutOfRange, fmt.Errorf("%w: (%d, %d)", ErrRowColumnOutOfRange, row, col))
	}
	if err := checkText(text); err != nil {
		return validationError(op, CodeMaxStringLengthExceeded, err)
	}
	if err := checkText(opt.Author); err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	if opt.Width < 0 || opt.Height < 0 || opt.XScale < 0 || opt.YScale < 0 {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: negative comment size", ErrInvalidParameter))
	}

	c := &comment{
		row:     row,
		col:     col,
		text:    text,
		author:  opt.Author,
		visible: opt.Visible || s.showComments,
		color:   opt.Color,
		font:    opt.FontName,
		size:    opt.FontSize,
		width:   opt.Width,
		height:  opt.Height,
		xOff:    opt.XOffset,
		yOff:    opt.YOffset,
	}
	if c.author == "" {
		c.author = s.commentAuthor
	}
	if c.color == 0 {
		c.color = defaultCommentColor
	}
	if c.font == "" {
		c.font = defaultCommentFont
	}
	if c.size == 0 {
		c.size = defaultCommentSize
	}
	if c.width == 0 {
		c.width = defaultCommentWidth
	}
	if c.height == 0 {
		c.height = defaultCommentHeight
	}
	if opt.XScale > 0 {
		c.width = int(float64(c.width)*opt.XScale + 0.5)
	}
	if opt.YScale > 0 {
		c.height = int(float64(c.height)*opt.YScale + 0.5)
	}
	if c.xOff == 0 {
		c.xOff = 15
	}
	if c.yOff == 0 {
		c.yOff = 10
	}

	for i, old := range s.comments {
		if old.row == row && old.col == col {
			s.comments[i] = c
			return nil
		}
	}
	s.comments = append(s.comments, c)
	return nil
}

// SetCommentAuthor sets the default author of later comments.
func (s *Sheet) SetCommentAuthor(author string) error {
	const op = "SetCommentAuthor"
	if err := s.checkOpen(op); err != nil {
		return err
	}
	if utf8.RuneCountInString(author) > 255 {
		return validationError(op, Code255StringLengthExceeded, ErrStringLength255)
	}
	s.commentAuthor = author
	return nil
}

// ShowComments makes every comment visible, not only on hover.
func (s *Sheet) ShowComments() error {
	if err := s.checkOpen("ShowComments"); err != nil {
		return err
	}
	s.showComments = true
	for _, c := range s.comments {
		c.visible = true
	}
	return nil
}

// commentAnchor places the note box to the upper right of its cell, like
// Excel does.
func (s *Sheet) commentAnchor(c *comment) anchor {
	row, col := c.row, c.col+1
	yOff := c.yOff
	if row > 0 {
		row--
	} else {
		yOff = 2
	}
	if col >= MaxCols {
		col = MaxCols - 1
	}
	return s.positionObject(row, col, c.xOff, yOff, c.width, c.height)
}

func (s *Sheet) commentAuthors() ([]string, map[string]int) {
	var authors []string
	ids := map[string]int{}
	for _, c := range s.comments {
		if _, ok := ids[c.author]; !ok {
			ids[c.author] = len(authors)
			authors = append(authors, c.author)
		}
	}
	return authors, ids
}
