package xl

import (
	"bytes"

	"github.com/adnsv/srw/xml"
)

// writeRichData emits the parts that back in-cell pictures: the metadata
// that cells point at with vm="N" and the rich value tables behind it.
func (w *writer) writeRichData() error {
	var rels relSet
	for _, m := range w.wb.richValues {
		rels.add(relImage, "../media/"+m.name)
	}

	steps := []func() error{
		w.writeMetadata,
		func() error { return w.writeRichValueRel(&rels) },
		w.writeRichValueStructure,
		w.writeRichValueData,
		w.writeRichValueTypes,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return w.writeRels("/xl/richData/_rels/richValueRel.xml.rels", &rels)
}

func (w *writer) writeMetadata() error {
	relpath := "metadata.xml"
	abspath := "/xl/" + relpath
	w.part(abspath, ctSheetMetadata)
	w.workbookRels.add(relSheetMetadata, relpath)

	values := w.wb.richValues

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("metadata")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:xlrd", "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata")

	x.OTag("+metadataTypes").Attr("count", 1)
	x.OTag("+metadataType")
	x.Attr("name", "XLRICHVALUE")
	x.Attr("minSupportedVersion", "120000")
	for _, s := range []xml.NameString{"copy", "pasteAll", "pasteValues",
		"merge", "splitFirst", "rowColShift", "clearFormats",
		"clearComments", "assign", "coerce"} {
		x.Attr(s, 1)
	}
	x.CTag() // metadataType
	x.CTag() // metadataTypes

	x.OTag("+futureMetadata").Attr("name", "XLRICHVALUE").Attr("count", len(values))
	for i := range values {
		x.OTag("+bk")
		x.OTag("extLst")
		x.OTag("ext").Attr("uri", "{3e2802c4-a4d2-4d8b-9148-e3be6c30e623}")
		x.OTag("xlrd:rvb").Attr("i", i).CTag()
		x.CTag() // ext
		x.CTag() // extLst
		x.CTag() // bk
	}
	x.CTag() // futureMetadata

	x.OTag("+valueMetadata").Attr("count", len(values))
	for i := range values {
		x.OTag("+bk")
		x.OTag("rc").Attr("t", 1).Attr("v", i).CTag()
		x.CTag() // bk
	}
	x.CTag() // valueMetadata

	x.CTag() // metadata

	return w.writePart(abspath, bb.Bytes())
}

func (w *writer) writeRichValueRel(rels *relSet) error {
	relpath := "richData/richValueRel.xml"
	abspath := "/xl/" + relpath
	w.part(abspath, "application/vnd.ms-excel.richvaluerel+xml")
	w.workbookRels.add(relRichValueRel, relpath)

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("richValueRels")
	x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2022/richvaluerel")
	x.Attr("xmlns:r", relOfficeDoc)

	for _, r := range rels.rels {
		x.OTag("+rel").Attr("r:id", r.ID).CTag()
	}

	x.CTag()

	return w.writePart(abspath, bb.Bytes())
}

func (w *writer) writeRichValueStructure() error {
	relpath := "richData/rdrichvaluestructure.xml"
	abspath := "/xl/" + relpath
	w.part(abspath, "application/vnd.ms-excel.rdrichvaluestructure+xml")
	w.workbookRels.add(relRichValueStructure, relpath)

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("rvStructures")
	x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata")
	x.Attr("count", 1)

	// _localImage{Id, CalcOrigin}
	x.OTag("+s").Attr("t", "_localImage")
	x.OTag("+k").Attr("n", "_rvRel:LocalImageIdentifier").Attr("t", "i").CTag()
	x.OTag("+k").Attr("n", "CalcOrigin").Attr("t", "i").CTag()
	x.CTag()

	x.CTag()

	return w.writePart(abspath, bb.Bytes())
}

func (w *writer) writeRichValueData() error {
	relpath := "richData/rdrichvalue.xml"
	abspath := "/xl/" + relpath
	w.part(abspath, "application/vnd.ms-excel.rdrichvalue+xml")
	w.workbookRels.add(relRichValueData, relpath)

	values := w.wb.richValues

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("rvData")
	x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata")
	x.Attr("count", len(values))

	for i := range values {
		x.OTag("+rv").Attr("s", 0)
		x.OTag("v").Write(i).CTag() // index into richValueRels
		x.OTag("v").Write(5).CTag()
		x.CTag()
	}

	x.CTag()

	return w.writePart(abspath, bb.Bytes())
}

func (w *writer) writeRichValueTypes() error {
	relpath := "richData/rdRichValueTypes.xml"
	abspath := "/xl/" + relpath
	w.part(abspath, "application/vnd.ms-excel.rdrichvaluetypes+xml")
	w.workbookRels.add(relRichValueTypes, relpath)

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("rvTypesInfo")
	x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata2")
	x.Attr("xmlns:mc", "http://schemas.openxmlformats.org/markup-compatibility/2006")
	x.Attr("xmlns:x", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("mc:Ignorable", "x")

	x.OTag("global")

	x.OTag("+key").Attr("name", "_Self")
	x.OTag("+flag").Attr("name", "ExcludeFromFile").Attr("value", 1).CTag()
	x.OTag("+flag").Attr("name", "ExcludeFromCalcComparison").Attr("value", 1).CTag()
	x.CTag()

	for _, s := range []string{
		"_DisplayString", "_Flags", "_Format", "_SubLabel", "_Attribution",
		"_Icon", "_Display", "_CanonicalPropertyNames", "_ClassificationId"} {

		x.OTag("+key").Attr("name", s)
		x.OTag("+flag").Attr("name", "ExcludeFromCalcComparison").Attr("value", 1).CTag()
		x.CTag()
	}

	x.CTag() // global

	x.CTag() // rvTypesInfo

	return w.writePart(abspath, bb.Bytes())
}
