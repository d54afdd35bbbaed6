package xl

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/google/uuid"
	"golang.org/x/image/bmp"
)

func BlobHash(blob []byte) uuid.UUID {
	h := fnv.New128()
	h.Write(blob)
	uid, _ := uuid.FromBytes(h.Sum([]byte{}))
	return uid
}

type imageType int

const (
	imagePNG imageType = iota
	imageJPEG
	imageGIF
	imageBMP
)

func (t imageType) ext() string {
	switch t {
	case imageJPEG:
		return "jpeg"
	case imageGIF:
		return "gif"
	case imageBMP:
		return "bmp"
	default:
		return "png"
	}
}

func (t imageType) contentType() string {
	return "image/" + t.ext()
}

// imageInfo is one media part. Identical blobs share a single part no
// matter how many sheets or cells use them.
type imageInfo struct {
	typ    imageType
	blob   []byte
	name   string // file name under xl/media
	width  int    // pixels
	height int
	dpiX   float64
	dpiY   float64

	richValue int // index into the rich value table, -1 when not embedded
}

// sniffImage detects the image format from its signature and reads the
// pixel dimensions.
func sniffImage(blob []byte) (*imageInfo, error) {
	var typ imageType
	switch {
	case bytes.HasPrefix(blob, []byte("\x89PNG\r\n\x1a\n")):
		typ = imagePNG
	case bytes.HasPrefix(blob, []byte{0xFF, 0xD8}):
		typ = imageJPEG
	case bytes.HasPrefix(blob, []byte("GIF8")):
		typ = imageGIF
	case bytes.HasPrefix(blob, []byte("BM")):
		typ = imageBMP
	default:
		return nil, ErrUnsupportedImage
	}

	var cfg image.Config
	var err error
	if typ == imageBMP {
		cfg, err = bmp.DecodeConfig(bytes.NewReader(blob))
	} else {
		cfg, _, err = image.DecodeConfig(bytes.NewReader(blob))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDimensions, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrImageDimensions
	}
	info := &imageInfo{
		typ:       typ,
		blob:      blob,
		width:     cfg.Width,
		height:    cfg.Height,
		dpiX:      96,
		dpiY:      96,
		richValue: -1,
	}
	if typ == imagePNG {
		if x, y, ok := pngDPI(blob); ok {
			info.dpiX, info.dpiY = x, y
		}
	}
	return info, nil
}

// pngDPI reads the pHYs chunk, if present.
func pngDPI(blob []byte) (float64, float64, bool) {
	p := 8
	for p+8 <= len(blob) {
		n := int(uint32(blob[p])<<24 | uint32(blob[p+1])<<16 | uint32(blob[p+2])<<8 | uint32(blob[p+3]))
		kind := string(blob[p+4 : p+8])
		if kind == "IDAT" || kind == "IEND" {
			break
		}
		if kind == "pHYs" && n == 9 && p+8+9 <= len(blob) {
			d := blob[p+8:]
			x := uint32(d[0])<<24 | uint32(d[1])<<16 | uint32(d[2])<<8 | uint32(d[3])
			y := uint32(d[4])<<24 | uint32(d[5])<<16 | uint32(d[6])<<8 | uint32(d[7])
			if d[8] == 1 && x > 0 && y > 0 {
				return float64(x) * 0.0254, float64(y) * 0.0254, true
			}
			return 0, 0, false
		}
		p += 12 + n
	}
	return 0, 0, false
}

// addImage registers blob as a media part, reusing an existing part for
// identical content.
func (wb *Workbook) addImage(blob []byte) (*imageInfo, error) {
	key := BlobHash(blob)
	if info, ok := wb.mediaMap[key]; ok {
		return info, nil
	}
	info, err := sniffImage(blob)
	if err != nil {
		return nil, err
	}
	info.name = fmt.Sprintf("image%d.%s", len(wb.media)+1, info.typ.ext())
	wb.media = append(wb.media, info)
	wb.mediaMap[key] = info
	return info, nil
}

func readImageFile(op, filename string) ([]byte, error) {
	blob, err := os.ReadFile(filename)
	if err != nil {
		return nil, resourceError(op, CodeParameterValidation, err)
	}
	return blob, nil
}

// EmbedImage places a picture inside a cell, the way Excel's "Place in
// Cell" does. The picture scales with the cell.
func (s *Sheet) EmbedImage(row, col int, filename string, style StyleID) error {
	const op = "EmbedImage"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	blob, err := readImageFile(op, filename)
	if err != nil {
		return err
	}
	return s.EmbedImageBuffer(row, col, blob, style)
}

// EmbedImageBuffer is EmbedImage for an in-memory PNG, JPEG, GIF or BMP.
func (s *Sheet) EmbedImageBuffer(row, col int, blob []byte, style StyleID) error {
	const op = "EmbedImage"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	if len(blob) == 0 {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: empty picture data", ErrInvalidParameter))
	}
	info, err := s.workbook.addImage(blob)
	if err != nil {
		return validationError(op, CodeImageDimensions, err)
	}
	if info.richValue < 0 {
		info.richValue = len(s.workbook.richValues)
		s.workbook.richValues = append(s.workbook.richValues, info)
	}
	return s.store(op, row, col, &Cell{typ: cellTypePicture, image: info, style: style})
}
