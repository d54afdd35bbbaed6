package xl

import (
	"bytes"
	"fmt"

	"github.com/adnsv/srw/xml"
)

// Relationship type URIs.
const (
	relPackage       = "http://schemas.openxmlformats.org/package/2006/relationships"
	relOfficeDoc     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	relCoreProps     = relPackage + "/metadata/core-properties"
	relExtendedProps = relOfficeDoc + "/extended-properties"
	relCustomProps   = relOfficeDoc + "/custom-properties"
	relDocument      = relOfficeDoc + "/officeDocument"
	relWorksheet     = relOfficeDoc + "/worksheet"
	relStyles        = relOfficeDoc + "/styles"
	relSharedStrings = relOfficeDoc + "/sharedStrings"
	relHyperlink     = relOfficeDoc + "/hyperlink"
	relDrawing       = relOfficeDoc + "/drawing"
	relVMLDrawing    = relOfficeDoc + "/vmlDrawing"
	relComments      = relOfficeDoc + "/comments"
	relTable         = relOfficeDoc + "/table"
	relChart         = relOfficeDoc + "/chart"
	relImage         = relOfficeDoc + "/image"
	relSheetMetadata = relOfficeDoc + "/sheetMetadata"

	relRichValueRel       = "http://schemas.microsoft.com/office/2022/10/relationships/richValueRel"
	relRichValueStructure = "http://schemas.microsoft.com/office/2017/06/relationships/rdRichValueStructure"
	relRichValueData      = "http://schemas.microsoft.com/office/2017/06/relationships/rdRichValue"
	relRichValueTypes     = "http://schemas.microsoft.com/office/2017/06/relationships/rdRichValueTypes"
)

type RelInfo struct {
	ID       string
	Type     string // url to schema type
	Target   string // relative path, or the url of an external target
	External bool
}

// relSet is the relationship list of one source part. Ids are issued in
// insertion order, rId1 first.
type relSet struct {
	rels []RelInfo
}

func (rs *relSet) add(typ, target string) string {
	id := fmt.Sprintf("rId%d", len(rs.rels)+1)
	rs.rels = append(rs.rels, RelInfo{ID: id, Type: typ, Target: target})
	return id
}

// addExternal adds a TargetMode="External" relationship, reusing an earlier
// one with the same target.
func (rs *relSet) addExternal(typ, target string) string {
	for _, r := range rs.rels {
		if r.External && r.Type == typ && r.Target == target {
			return r.ID
		}
	}
	id := fmt.Sprintf("rId%d", len(rs.rels)+1)
	rs.rels = append(rs.rels, RelInfo{ID: id, Type: typ, Target: target, External: true})
	return id
}

func (rs *relSet) empty() bool {
	return len(rs.rels) == 0
}

func (w *writer) writeRels(path string, rs *relSet) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Relationships")
	x.Attr("xmlns", relPackage)
	for _, r := range rs.rels {
		x.OTag("+Relationship").Attr("Id", r.ID).Attr("Type", r.Type).Attr("Target", r.Target)
		if r.External {
			x.Attr("TargetMode", "External")
		}
		x.CTag()
	}
	x.CTag()

	return w.writePart(path, bb.Bytes())
}
