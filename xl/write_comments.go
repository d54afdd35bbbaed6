package xl

import (
	"bytes"
	"fmt"
	"strings"
)

func (w *writer) writeComments(s *Sheet, n int) error {
	abspath := fmt.Sprintf("/xl/comments%d.xml", n)
	w.part(abspath, ctComments)

	authors, ids := s.commentAuthors()

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("comments")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	x.OTag("+authors")
	for _, a := range authors {
		x.OTag("+author").String(a).CTag()
	}
	x.CTag()

	x.OTag("+commentList")
	for _, c := range s.comments {
		x.OTag("+comment").Attr("ref", CellName(c.row, c.col)).Attr("authorId", ids[c.author])
		x.OTag("text")
		x.OTag("r")
		x.OTag("rPr")
		x.OTag("sz").Attr("val", formatNumber(c.size)).CTag()
		x.OTag("color").Attr("indexed", 81).CTag()
		x.OTag("rFont").Attr("val", c.font).CTag()
		x.OTag("family").Attr("val", 2).CTag()
		x.CTag() // rPr
		writeT(x, c.text)
		x.CTag() // r
		x.CTag() // text
		x.CTag() // comment
	}
	x.CTag() // commentList

	x.CTag() // comments

	return w.writePart(abspath, bb.Bytes())
}

// writeVML writes the legacy drawing that gives each note its box.
func (w *writer) writeVML(s *Sheet, n int) error {
	abspath := fmt.Sprintf("/xl/drawings/vmlDrawing%d.vml", n)
	w.DefaultContentTypes["vml"] = ctVML

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("xml")
	x.Attr("xmlns:v", "urn:schemas-microsoft-com:vml")
	x.Attr("xmlns:o", "urn:schemas-microsoft-com:office:office")
	x.Attr("xmlns:x", "urn:schemas-microsoft-com:office:excel")

	x.OTag("+o:shapelayout").Attr("v:ext", "edit")
	x.OTag("o:idmap").Attr("v:ext", "edit").Attr("data", n).CTag()
	x.CTag()

	x.OTag("+v:shapetype")
	x.Attr("id", "_x0000_t202")
	x.Attr("coordsize", "21600,21600")
	x.Attr("o:spt", 202)
	x.Attr("path", "m,l,21600r21600,l21600,xe")
	x.OTag("v:stroke").Attr("joinstyle", "miter").CTag()
	x.OTag("v:path").Attr("gradientshapeok", "t").Attr("o:connecttype", "rect").CTag()
	x.CTag()

	for i, c := range s.comments {
		a := s.commentAnchor(c)
		left, top := s.pixelOrigin(a.fromRow, a.fromCol)
		left += a.fromColOff
		top += a.fromRowOff

		visibility := "hidden"
		if c.visible {
			visibility = "visible"
		}
		style := fmt.Sprintf("position:absolute;margin-left:%spt;margin-top:%spt;width:%spt;height:%spt;z-index:%d;visibility:%s",
			formatNumber(float64(left)*0.75), formatNumber(float64(top)*0.75),
			formatNumber(float64(c.width)*0.75), formatNumber(float64(c.height)*0.75),
			i+1, visibility)
		fill := "#" + strings.ToLower(c.color.rgb())

		x.OTag("+v:shape")
		x.Attr("id", fmt.Sprintf("_x0000_s%d", 1024*n+1+i))
		x.Attr("type", "#_x0000_t202")
		x.Attr("style", style)
		x.Attr("fillcolor", fill)
		x.Attr("o:insetmode", "auto")
		x.OTag("v:fill").Attr("color2", fill).CTag()
		x.OTag("v:shadow").Attr("on", "t").Attr("color", "black").Attr("obscured", "t").CTag()
		x.OTag("v:path").Attr("o:connecttype", "none").CTag()
		x.OTag("v:textbox").Attr("style", "mso-direction-alt:auto")
		x.OTag("div").Attr("style", "text-align:left").CTag()
		x.CTag() // v:textbox

		x.OTag("x:ClientData").Attr("ObjectType", "Note")
		x.OTag("x:MoveWithCells").CTag()
		x.OTag("x:SizeWithCells").CTag()
		x.OTag("x:Anchor").String(fmt.Sprintf("%d, %d, %d, %d, %d, %d, %d, %d",
			a.fromCol, a.fromColOff, a.fromRow, a.fromRowOff,
			a.toCol, a.toColOff, a.toRow, a.toRowOff)).CTag()
		x.OTag("x:AutoFill").String("False").CTag()
		x.OTag("x:Row").Write(c.row).CTag()
		x.OTag("x:Column").Write(c.col).CTag()
		if c.visible {
			x.OTag("x:Visible").CTag()
		}
		x.CTag() // x:ClientData

		x.CTag() // v:shape
	}

	x.CTag() // xml

	return w.writePart(abspath, bb.Bytes())
}

// pixelOrigin is the distance in pixels from the top-left corner of the
// sheet to the top-left corner of a cell.
func (s *Sheet) pixelOrigin(row, col int) (int, int) {
	x, y := 0, 0
	for c := 0; c < col; c++ {
		x += s.colPixels(c)
	}
	if len(s.rows) == 0 {
		return x, row * s.rowPixels(-1)
	}
	for r := 0; r < row; r++ {
		y += s.rowPixels(r)
	}
	return x, y
}
