package xl

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/image/bmp"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 0x80, A: 0xFF})
		}
	}
	return img
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var bb bytes.Buffer
	require.NoError(t, png.Encode(&bb, testImage(w, h)))
	return bb.Bytes()
}

func testBMP(t *testing.T, w, h int) []byte {
	t.Helper()
	var bb bytes.Buffer
	require.NoError(t, bmp.Encode(&bb, testImage(w, h)))
	return bb.Bytes()
}

// withPHYs inserts a pHYs chunk right after IHDR.
func withPHYs(blob []byte, ppm uint32) []byte {
	data := make([]byte, 9)
	binary.BigEndian.PutUint32(data[0:], ppm)
	binary.BigEndian.PutUint32(data[4:], ppm)
	data[8] = 1

	chunk := make([]byte, 0, 21)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(data)))
	chunk = append(chunk, "pHYs"...)
	chunk = append(chunk, data...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	ihdrEnd := 8 + 8 + 13 + 4
	out := append([]byte{}, blob[:ihdrEnd]...)
	out = append(out, chunk...)
	return append(out, blob[ihdrEnd:]...)
}

func TestSniffImage(t *testing.T) {
	info, err := sniffImage(testPNG(t, 8, 4))
	require.NoError(t, err)
	assert.Equal(t, imagePNG, info.typ)
	assert.Equal(t, 8, info.width)
	assert.Equal(t, 4, info.height)
	assert.Equal(t, 96.0, info.dpiX)
	assert.Equal(t, -1, info.richValue)

	info, err = sniffImage(testBMP(t, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, imageBMP, info.typ)
	assert.Equal(t, "image/bmp", info.typ.contentType())
	assert.Equal(t, 3, info.width)
	assert.Equal(t, 5, info.height)

	info, err = sniffImage(withPHYs(testPNG(t, 2, 2), 5669))
	require.NoError(t, err)
	assert.InDelta(t, 144, info.dpiX, 0.01)
	assert.InDelta(t, 144, info.dpiY, 0.01)

	_, err = sniffImage([]byte("hello world"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	_, err = sniffImage([]byte("\x89PNG\r\n\x1a\n"))
	assert.ErrorIs(t, err, ErrImageDimensions)
}

func TestBlobHash(t *testing.T) {
	a := testPNG(t, 2, 2)
	assert.Equal(t, BlobHash(a), BlobHash(append([]byte{}, a...)))
	assert.NotEqual(t, BlobHash(a), BlobHash(testPNG(t, 2, 3)))
}

func TestInsertImage(t *testing.T) {
	blob := testPNG(t, 8, 4)
	dir := t.TempDir()
	filename := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(filename, blob, 0o644))

	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("Pics")
	require.NoError(t, err)

	require.NoError(t, sh.InsertImageOpt(1, 1, filename, ImageOptions{URL: "https://example.com", Tooltip: "home"}))
	require.NoError(t, sh.InsertImageBuffer(10, 1, blob, ImageOptions{Decorative: true, XScale: 2}))
	require.NoError(t, sh.InsertImageBuffer(20, 1, testBMP(t, 4, 4), ImageOptions{Description: "square"}))

	ms := closeMem(t, wb)

	// identical pictures share one media part
	assert.Equal(t, blob, ms.Parts["xl/media/image1.png"])
	assert.Contains(t, ms.Parts, "xl/media/image2.bmp")
	assert.NotContains(t, ms.Parts, "xl/media/image3.png")

	doc := part(t, ms, "xl/drawings/drawing1.xml")
	assert.Len(t, elems(t, doc, "pic"), 3)

	names := elems(t, doc, "cNvPr")
	require.Len(t, names, 3)
	assert.Equal(t, "2", names[0].Attrs["id"])
	assert.Equal(t, "Picture 1", names[0].Attrs["name"])
	assert.Equal(t, "logo.png", names[0].Attrs["descr"])
	assert.Empty(t, names[1].Attrs["descr"])
	assert.Equal(t, "square", names[2].Attrs["descr"])
	assert.Len(t, elems(t, doc, "decorative"), 1)

	click := elems(t, doc, "hlinkClick")
	require.Len(t, click, 1)
	assert.Equal(t, "home", click[0].Attrs["tooltip"])

	var exts []string
	for _, e := range elems(t, doc, "ext") {
		if cx, ok := e.Attrs["cx"]; ok {
			exts = append(exts, cx+"x"+e.Attrs["cy"])
		}
	}
	assert.Equal(t, []string{"76200x38100", "152400x38100", "38100x38100"}, exts)

	// every picture is smaller than a default cell
	assert.Equal(t, []string{"1", "1", "1", "1", "1", "1"}, texts(t, doc, "col"))
	assert.Equal(t, []string{"0", "76200", "0", "152400", "0", "38100"}, texts(t, doc, "colOff"))
	assert.Equal(t, []string{"1", "1", "10", "10", "20", "20"}, texts(t, doc, "row"))

	rels := part(t, ms, "xl/drawings/_rels/drawing1.xml.rels")
	link := elemWith(t, rels, "Relationship", "Id", click[0].Attrs["id"])
	assert.Equal(t, "https://example.com", link.Attrs["Target"])
	assert.Equal(t, "External", link.Attrs["TargetMode"])

	var targets []string
	for _, b := range elems(t, doc, "blip") {
		targets = append(targets, elemWith(t, rels, "Relationship", "Id", b.Attrs["embed"]).Attrs["Target"])
	}
	assert.Equal(t, []string{"../media/image1.png", "../media/image1.png", "../media/image2.bmp"}, targets)

	ct := part(t, ms, "[Content_Types].xml")
	assert.Equal(t, "image/png", elemWith(t, ct, "Default", "Extension", "png").Attrs["ContentType"])
	assert.Equal(t, "image/bmp", elemWith(t, ct, "Default", "Extension", "bmp").Attrs["ContentType"])
}

func TestInsertImageErrors(t *testing.T) {
	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("")
	require.NoError(t, err)

	err = sh.InsertImage(0, 0, filepath.Join(t.TempDir(), "missing.png"))
	assert.Equal(t, KindResource, KindOf(err))

	err = sh.InsertImageBuffer(0, 0, []byte("not a picture"), ImageOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.Equal(t, CodeImageDimensions, CodeOf(err))

	assert.ErrorIs(t, sh.InsertImageBuffer(0, 0, nil, ImageOptions{}), ErrInvalidParameter)
	assert.ErrorIs(t, sh.InsertImageBuffer(0, 0, testPNG(t, 1, 1), ImageOptions{XScale: -1}), ErrInvalidParameter)
	assert.ErrorIs(t, sh.InsertImageBuffer(0, 0, testPNG(t, 1, 1), ImageOptions{URL: "gopher://x"}), ErrInvalidParameter)
	assert.ErrorIs(t, sh.InsertImageBuffer(0, MaxCols, testPNG(t, 1, 1), ImageOptions{}), ErrRowColumnOutOfRange)
	assert.ErrorIs(t, sh.EmbedImageBuffer(0, 0, []byte("GIF8junk"), DefaultStyle), ErrImageDimensions)
}

func TestEmbedImage(t *testing.T) {
	pngBlob := testPNG(t, 8, 4)
	bmpBlob := testBMP(t, 2, 2)

	wb := newMemWorkbook(t)
	sh, err := wb.AddSheet("Cells")
	require.NoError(t, err)
	require.NoError(t, sh.EmbedImageBuffer(0, 0, pngBlob, DefaultStyle))
	require.NoError(t, sh.EmbedImageBuffer(1, 0, pngBlob, DefaultStyle))
	require.NoError(t, sh.EmbedImageBuffer(2, 0, bmpBlob, DefaultStyle))
	// a drawn copy of an embedded picture reuses its media part
	require.NoError(t, sh.InsertImageBuffer(0, 3, pngBlob, ImageOptions{}))

	ms := closeMem(t, wb)

	sheet := part(t, ms, "xl/worksheets/sheet1.xml")
	for ref, vm := range map[string]string{"A1": "1", "A2": "1", "A3": "2"} {
		c := elemWith(t, sheet, "c", "r", ref)
		assert.Equal(t, "e", c.Attrs["t"], ref)
		assert.Equal(t, vm, c.Attrs["vm"], ref)
		assert.Equal(t, "#VALUE!", c.Text, ref)
	}

	meta := part(t, ms, "xl/metadata.xml")
	assert.Equal(t, "2", elems(t, meta, "valueMetadata")[0].Attrs["count"])
	var rc []string
	for _, e := range elems(t, meta, "rc") {
		rc = append(rc, e.Attrs["v"])
	}
	assert.Equal(t, []string{"0", "1"}, rc)

	rv := part(t, ms, "xl/richData/rdrichvalue.xml")
	assert.Equal(t, []string{"0", "5", "1", "5"}, texts(t, rv, "v"))

	rels := part(t, ms, "xl/richData/_rels/richValueRel.xml.rels")
	assert.Equal(t, "../media/image1.png", elemWith(t, rels, "Relationship", "Id", "rId1").Attrs["Target"])
	assert.Equal(t, "../media/image2.bmp", elemWith(t, rels, "Relationship", "Id", "rId2").Attrs["Target"])

	wbRels := part(t, ms, "xl/_rels/workbook.xml.rels")
	for _, target := range []string{"metadata.xml", "richData/richValueRel.xml", "richData/rdrichvaluestructure.xml",
		"richData/rdrichvalue.xml", "richData/rdRichValueTypes.xml"} {
		elemWith(t, wbRels, "Relationship", "Target", target)
	}
	assert.NotContains(t, ms.Parts, "xl/media/image3.png")
}

func TestEmbedImageRoundTrip(t *testing.T) {
	blob := testPNG(t, 6, 6)
	f := roundTrip(t, func(wb *Workbook) {
		sh, err := wb.AddSheet("Cells")
		require.NoError(t, err)
		require.NoError(t, sh.EmbedImageBuffer(1, 1, blob, DefaultStyle))
	})
	pics, err := f.GetPictures("Cells", "B2")
	require.NoError(t, err)
	require.Len(t, pics, 1)
	assert.Equal(t, excelize.PictureInsertTypePlaceInCell, pics[0].InsertType)
	assert.Equal(t, ".png", pics[0].Extension)
	assert.Equal(t, blob, pics[0].File)
}
