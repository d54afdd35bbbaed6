package xl

import (
	"bytes"
	"time"
)

func (w *writer) writeCoreProperties() error {
	relpath := "docProps/core.xml"
	abspath := "/" + relpath
	w.part(abspath, ctCoreProps)
	w.rootRels.add(relCoreProps, relpath)

	p := w.wb.props
	created := p.Created
	if created.IsZero() {
		created = time.Now()
	}
	stamp := created.UTC().Format(time.RFC3339)

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	if p.Title != "" {
		x.OTag("+dc:title").String(p.Title).CTag()
	}
	if p.Subject != "" {
		x.OTag("+dc:subject").String(p.Subject).CTag()
	}
	if p.Author != "" {
		x.OTag("+dc:creator").String(p.Author).CTag()
	}
	if p.Keywords != "" {
		x.OTag("+cp:keywords").String(p.Keywords).CTag()
	}
	if p.Comments != "" {
		x.OTag("+dc:description").String(p.Comments).CTag()
	}
	if p.Author != "" {
		x.OTag("+cp:lastModifiedBy").String(p.Author).CTag()
	}

	x.OTag("+dcterms:created")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(stamp)
	x.CTag()

	x.OTag("+dcterms:modified")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(stamp)
	x.CTag()

	if p.Category != "" {
		x.OTag("+cp:category").String(p.Category).CTag()
	}
	if p.Status != "" {
		x.OTag("+cp:contentStatus").String(p.Status).CTag()
	}

	x.CTag()

	return w.writePart(abspath, bb.Bytes())
}

func (w *writer) writeExtendedProperties() error {
	relpath := "docProps/app.xml"
	abspath := "/" + relpath
	w.part(abspath, ctExtendedProps)
	w.rootRels.add(relExtendedProps, relpath)

	wb := w.wb
	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	if wb.AppName != "" {
		x.OTag("+Application").String(wb.AppName).CTag()
	}
	x.OTag("+DocSecurity").Write(0).CTag()
	x.OTag("+ScaleCrop").String("false").CTag()

	x.OTag("+HeadingPairs")
	x.OTag("vt:vector").Attr("size", 2).Attr("baseType", "variant")
	x.OTag("vt:variant")
	x.OTag("vt:lpstr").String("Worksheets").CTag()
	x.CTag()
	x.OTag("vt:variant")
	x.OTag("vt:i4").Write(len(wb.Sheets)).CTag()
	x.CTag()
	x.CTag() // vt:vector
	x.CTag() // HeadingPairs

	x.OTag("+TitlesOfParts")
	x.OTag("vt:vector").Attr("size", len(wb.Sheets)).Attr("baseType", "lpstr")
	for _, s := range wb.Sheets {
		x.OTag("vt:lpstr").String(s.Name).CTag()
	}
	x.CTag() // vt:vector
	x.CTag() // TitlesOfParts

	if wb.props.Manager != "" {
		x.OTag("+Manager").String(wb.props.Manager).CTag()
	}
	if wb.props.Company != "" {
		x.OTag("+Company").String(wb.props.Company).CTag()
	}
	x.OTag("+LinksUpToDate").String("false").CTag()
	x.OTag("+SharedDoc").String("false").CTag()
	if wb.props.HyperlinkBase != "" {
		x.OTag("+HyperlinkBase").String(wb.props.HyperlinkBase).CTag()
	}
	x.OTag("+HyperlinksChanged").String("false").CTag()
	x.OTag("+AppVersion").String("12.0000").CTag()

	x.CTag()

	return w.writePart(abspath, bb.Bytes())
}

func (w *writer) writeCustomProperties() error {
	relpath := "docProps/custom.xml"
	abspath := "/" + relpath
	w.part(abspath, ctCustomProps)
	w.rootRels.add(relCustomProps, relpath)

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/custom-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	for i, p := range w.wb.customProps {
		x.OTag("+property")
		x.Attr("fmtid", "{D5CDD505-2E9C-101B-9397-08002B2CF9AE}")
		x.Attr("pid", i+2)
		x.Attr("name", p.name)
		switch v := p.value.(type) {
		case string:
			x.OTag("vt:lpwstr").String(v).CTag()
		case float64:
			x.OTag("vt:r8").String(formatNumber(v)).CTag()
		case int32:
			x.OTag("vt:i4").Write(int(v)).CTag()
		case bool:
			if v {
				x.OTag("vt:bool").String("true").CTag()
			} else {
				x.OTag("vt:bool").String("false").CTag()
			}
		case time.Time:
			x.OTag("vt:filetime").String(v.UTC().Format(time.RFC3339)).CTag()
		}
		x.CTag()
	}

	x.CTag()

	return w.writePart(abspath, bb.Bytes())
}
