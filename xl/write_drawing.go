package xl

import (
	"bytes"
	"fmt"

	"github.com/adnsv/srw/xml"
)

const (
	nsDrawingML = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsChart     = "http://schemas.openxmlformats.org/drawingml/2006/chart"
)

// writeDrawing writes xl/drawings/drawingN.xml with one anchor per image
// or chart, and the chart parts it refers to.
func (w *writer) writeDrawing(s *Sheet, n int) error {
	abspath := fmt.Sprintf("/xl/drawings/drawing%d.xml", n)
	w.part(abspath, ctDrawing)

	rels := &relSet{}

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("xdr:wsDr")
	x.Attr("xmlns:xdr", "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing")
	x.Attr("xmlns:a", nsDrawingML)

	for i, o := range s.drawings {
		a := s.anchorOf(o)
		id := i + 2

		x.OTag("+xdr:twoCellAnchor")
		if o.kind == drawingImage {
			x.Attr("editAs", "oneCell")
		}
		writeAnchorPoint(x, "from", a.fromCol, a.fromColOff, a.fromRow, a.fromRowOff)
		writeAnchorPoint(x, "to", a.toCol, a.toColOff, a.toRow, a.toRowOff)

		switch o.kind {
		case drawingImage:
			var linkRID string
			if o.url != "" {
				if h, _, err := parseURL(o.url); err == nil {
					if h.kind == linkExternal {
						linkRID = rels.addExternal(relHyperlink, h.target)
					} else {
						linkRID = rels.add(relHyperlink, "#"+h.location)
					}
				}
			}
			imageRID := rels.add(relImage, "../media/"+o.image.name)

			x.OTag("+xdr:pic")
			x.OTag("+xdr:nvPicPr")
			writeCNvPr(x, id, o, linkRID)
			x.OTag("xdr:cNvPicPr")
			x.OTag("a:picLocks").Attr("noChangeAspect", 1).CTag()
			x.CTag()
			x.CTag() // xdr:nvPicPr

			x.OTag("+xdr:blipFill")
			x.OTag("a:blip").Attr("xmlns:r", relOfficeDoc).Attr("r:embed", imageRID).CTag()
			x.OTag("a:stretch")
			x.OTag("a:fillRect").CTag()
			x.CTag()
			x.CTag() // xdr:blipFill

			x.OTag("+xdr:spPr")
			x.OTag("a:xfrm")
			x.OTag("a:off").Attr("x", 0).Attr("y", 0).CTag()
			x.OTag("a:ext").Attr("cx", a.width*emuPerPixel).Attr("cy", a.height*emuPerPixel).CTag()
			x.CTag()
			x.OTag("a:prstGeom").Attr("prst", "rect")
			x.OTag("a:avLst").CTag()
			x.CTag()
			x.CTag() // xdr:spPr
			x.CTag() // xdr:pic

		case drawingChart:
			w.chartCount++
			o.chart.id = w.chartCount
			chartRID := rels.add(relChart, fmt.Sprintf("../charts/chart%d.xml", o.chart.id))

			x.OTag("+xdr:graphicFrame").Attr("macro", "")
			x.OTag("+xdr:nvGraphicFramePr")
			writeCNvPr(x, id, o, "")
			x.OTag("xdr:cNvGraphicFramePr").CTag()
			x.CTag()
			x.OTag("+xdr:xfrm")
			x.OTag("a:off").Attr("x", 0).Attr("y", 0).CTag()
			x.OTag("a:ext").Attr("cx", 0).Attr("cy", 0).CTag()
			x.CTag()
			x.OTag("+a:graphic")
			x.OTag("a:graphicData").Attr("uri", nsChart)
			x.OTag("c:chart").Attr("xmlns:c", nsChart).Attr("xmlns:r", relOfficeDoc).Attr("r:id", chartRID).CTag()
			x.CTag()
			x.CTag() // a:graphic
			x.CTag() // xdr:graphicFrame

			if err := w.writeChart(o.chart); err != nil {
				return err
			}
		}

		x.OTag("+xdr:clientData").CTag()
		x.CTag() // xdr:twoCellAnchor
	}

	x.CTag() // xdr:wsDr

	if err := w.writePart(abspath, bb.Bytes()); err != nil {
		return err
	}
	return w.writeRels(fmt.Sprintf("/xl/drawings/_rels/drawing%d.xml.rels", n), rels)
}

func writeAnchorPoint(x *xml.Writer, which string, col, colOff, row, rowOff int) {
	if which == "from" {
		x.OTag("+xdr:from")
	} else {
		x.OTag("+xdr:to")
	}
	x.OTag("xdr:col").Write(col).CTag()
	x.OTag("xdr:colOff").Write(colOff * emuPerPixel).CTag()
	x.OTag("xdr:row").Write(row).CTag()
	x.OTag("xdr:rowOff").Write(rowOff * emuPerPixel).CTag()
	x.CTag()
}

func writeCNvPr(x *xml.Writer, id int, o *drawingObject, linkRID string) {
	x.OTag("xdr:cNvPr").Attr("id", id).Attr("name", o.name)
	if o.descr != "" && !o.decorative {
		x.Attr("descr", o.descr)
	}
	if linkRID != "" {
		x.OTag("a:hlinkClick").Attr("xmlns:r", relOfficeDoc).Attr("r:id", linkRID)
		if o.tip != "" {
			x.Attr("tooltip", o.tip)
		}
		x.CTag()
	}
	if o.decorative {
		x.OTag("a:extLst")
		x.OTag("a:ext").Attr("uri", "{C183D7F6-B498-43B3-948B-1728B52AA6E4}")
		x.OTag("adec:decorative")
		x.Attr("xmlns:adec", "http://schemas.microsoft.com/office/drawing/2017/decorative")
		x.Attr("val", 1)
		x.CTag()
		x.CTag() // a:ext
		x.CTag() // a:extLst
	}
	x.CTag()
}
