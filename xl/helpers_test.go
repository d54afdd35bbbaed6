package xl

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// newMemWorkbook returns a workbook that is finalized into a MemStorage.
func newMemWorkbook(t *testing.T) *Workbook {
	t.Helper()
	opts := DefaultOptions()
	opts.TmpDir = t.TempDir()
	return NewWorkbookOpt("", opts)
}

// closeMem finalizes wb into memory and returns the parts.
func closeMem(t *testing.T, wb *Workbook) *MemStorage {
	t.Helper()
	ms := NewMemStorage()
	require.NoError(t, wb.CloseStorage(ms))
	for path, blob := range ms.Parts {
		if strings.HasPrefix(path, "xl/media/") {
			continue
		}
		requireWellFormed(t, path, blob)
	}
	return ms
}

// part returns a part as text, failing when it is missing.
func part(t *testing.T, ms *MemStorage, path string) string {
	t.Helper()
	blob, ok := ms.Parts[path]
	require.True(t, ok, "missing part %s", path)
	return string(blob)
}

func requireWellFormed(t *testing.T, path string, blob []byte) {
	t.Helper()
	d := xml.NewDecoder(bytes.NewReader(blob))
	for {
		_, err := d.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err, "%s is not well-formed", path)
	}
}

// roundTrip finalizes wb into a buffer and opens the result with excelize.
func roundTrip(t *testing.T, build func(wb *Workbook)) *excelize.File {
	t.Helper()
	opts := DefaultOptions()
	opts.OutputBuffer = true
	opts.TmpDir = t.TempDir()
	wb := NewWorkbookOpt("", opts)
	build(wb)
	require.NoError(t, wb.Close())
	buf, err := wb.Buffer()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// elem is a parsed XML element: its attributes by local name and all the
// character data inside it.
type elem struct {
	Name  string
	Attrs map[string]string
	Text  string
}

// elems returns every element of doc with the given local name, in
// document order.
func elems(t *testing.T, doc, local string) []elem {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(doc))
	var out []elem
	var open []int // indexes into out of the matching elements still open
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		switch tok := tok.(type) {
		case xml.StartElement:
			if tok.Name.Local != local {
				open = append(open, -1)
				continue
			}
			e := elem{Name: tok.Name.Local, Attrs: map[string]string{}}
			for _, a := range tok.Attr {
				e.Attrs[a.Name.Local] = a.Value
			}
			out = append(out, e)
			open = append(open, len(out)-1)
		case xml.EndElement:
			open = open[:len(open)-1]
		case xml.CharData:
			for _, i := range open {
				if i >= 0 {
					out[i].Text += string(tok)
				}
			}
		}
	}
}

// elemWith returns the first element named local whose attribute key has
// the value val.
func elemWith(t *testing.T, doc, local, key, val string) elem {
	t.Helper()
	for _, e := range elems(t, doc, local) {
		if e.Attrs[key] == val {
			return e
		}
	}
	require.Failf(t, "element not found", "<%s %s=%q>", local, key, val)
	return elem{}
}

// texts returns the character data of every element named local.
func texts(t *testing.T, doc, local string) []string {
	t.Helper()
	var out []string
	for _, e := range elems(t, doc, local) {
		out = append(out, e.Text)
	}
	return out
}
