package xl

import (
	"bytes"
	"errors"
	"io"
	"slices"

	"github.com/adnsv/srw/xml"
	"go.uber.org/zap"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

// Content types of the parts this package writes.
const (
	ctOfficeDoc     = "application/vnd.openxmlformats-officedocument."
	ctRels          = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML           = "application/xml"
	ctVML           = ctOfficeDoc + "vmlDrawing"
	ctWorkbook      = ctOfficeDoc + "spreadsheetml.sheet.main+xml"
	ctWorksheet     = ctOfficeDoc + "spreadsheetml.worksheet+xml"
	ctStyles        = ctOfficeDoc + "spreadsheetml.styles+xml"
	ctSharedStrings = ctOfficeDoc + "spreadsheetml.sharedStrings+xml"
	ctSheetMetadata = ctOfficeDoc + "spreadsheetml.sheetMetadata+xml"
	ctTable         = ctOfficeDoc + "spreadsheetml.table+xml"
	ctComments      = ctOfficeDoc + "spreadsheetml.comments+xml"
	ctDrawing       = ctOfficeDoc + "drawing+xml"
	ctChart         = ctOfficeDoc + "drawingml.chart+xml"
	ctCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtendedProps = ctOfficeDoc + "extended-properties+xml"
	ctCustomProps   = ctOfficeDoc + "custom-properties+xml"
)

// writer walks a closed Workbook once and emits every package part into a
// Storage. It assigns part numbers and relationship ids as it goes.
type writer struct {
	out   Storage
	wb    *Workbook
	log   *zap.Logger
	parts int

	rootRels     relSet
	workbookRels relSet
	sheetRIDs    []string

	DefaultContentTypes map[string]string // maps path extension to content-type
	PartContentTypes    map[string]string // maps path partname to content-type

	drawingCount int
	vmlCount     int
	chartCount   int
}

func newWriter(s Storage, wb *Workbook) *writer {
	w := &writer{
		out:                 s,
		wb:                  wb,
		log:                 wb.log,
		DefaultContentTypes: map[string]string{},
		PartContentTypes:    map[string]string{},
	}

	w.DefaultContentTypes["xml"] = ctXML
	w.DefaultContentTypes["rels"] = ctRels

	return w
}

func (w *writer) write() error {
	wb := w.wb
	var err error

	w.rootRels.add(relDocument, "xl/workbook.xml")

	for i, s := range wb.Sheets {
		err = w.writeSheet(s, i+1)
		if err != nil {
			return err
		}
	}

	err = w.writeMedia()
	if err != nil {
		return err
	}

	err = w.writeWorkbook()
	if err != nil {
		return err
	}

	err = w.writeStyles()
	if err != nil {
		return err
	}

	if wb.sst.unique() > 0 {
		err = w.writeSharedStrings()
		if err != nil {
			return err
		}
	}

	if len(wb.richValues) > 0 {
		err = w.writeRichData()
		if err != nil {
			return err
		}
	}

	err = w.writeRels("/xl/_rels/workbook.xml.rels", &w.workbookRels)
	if err != nil {
		return err
	}

	err = w.writeCoreProperties()
	if err != nil {
		return err
	}
	err = w.writeExtendedProperties()
	if err != nil {
		return err
	}
	if len(wb.customProps) > 0 {
		err = w.writeCustomProperties()
		if err != nil {
			return err
		}
	}

	err = w.writeRels("/_rels/.rels", &w.rootRels)
	if err != nil {
		return err
	}

	return w.writeContentTypes()
}

// writePart stores one finished part.
func (w *writer) writePart(path string, blob []byte) error {
	if err := w.out.WriteBlob(path, blob); err != nil {
		return partError(path, err)
	}
	w.parts++
	w.log.Debug("part written", zap.String("path", path), zap.Int("bytes", len(blob)))
	return nil
}

// writePartReader stores a part assembled from several sources.
func (w *writer) writePartReader(path string, r io.Reader) error {
	cr := &countingReader{r: r}
	if err := w.out.WriteReader(path, cr); err != nil {
		return partError(path, err)
	}
	w.parts++
	w.log.Debug("part written", zap.String("path", path), zap.Int64("bytes", cr.n))
	return nil
}

func partError(path string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return resourceError(path, CodeZipFileAdd, err)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (w *writer) writeContentTypes() error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})

	x.XmlStandaloneDecl()
	x.OTag("Types")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
	enumerate(w.DefaultContentTypes, func(ext, ctype string) error {
		x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
		return nil
	})
	enumerate(w.PartContentTypes, func(abspath, ctype string) error {
		x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
		return nil
	})

	x.CTag()

	return w.writePart("/[Content_Types].xml", bb.Bytes())
}

// writeMedia stores every distinct image once, whether it is drawn over
// the grid or placed in a cell.
func (w *writer) writeMedia() error {
	for _, m := range w.wb.media {
		w.DefaultContentTypes[m.typ.ext()] = m.typ.contentType()
		err := w.writePart("/xl/media/"+m.name, m.blob)
		if err != nil {
			return err
		}
	}
	return nil
}

// newXML starts a part with the standalone declaration.
func newXML(bb *bytes.Buffer) *xml.Writer {
	x := xml.NewWriter(bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()
	return x
}

func (w *writer) part(abspath, contentType string) {
	w.PartContentTypes[abspath] = contentType
}

func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V) error) error {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		err := callback(k, m[k])
		if err != nil {
			return err
		}
	}
	return nil
}
