package xl

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/adnsv/srw/xml"
)

// Row holds the cells of one worksheet row plus its row-level metadata.
type Row struct {
	cells map[int]*Cell

	Height float64 // when Height=0, use the default of 15 points

	style     StyleID
	hidden    bool
	level     int
	collapsed bool
}

func newRow() *Row {
	return &Row{cells: map[int]*Cell{}}
}

func (r *Row) hasMeta() bool {
	return r.Height > 0 || r.style != DefaultStyle || r.hidden || r.level > 0 || r.collapsed
}

// Column holds column-level metadata. The map key in Sheet.Columns is the
// zero-based column index.
type Column struct {
	Width     float64 // character units, 0 = default 8.43
	style     StyleID
	hidden    bool
	level     int
	collapsed bool
}

// rowSpool is the constant memory row store: once a later row is touched,
// the current row is serialized and appended to a temp file.
type rowSpool struct {
	f       *os.File
	bw      *bufio.Writer
	current int // row held in memory, -1 before the first write
}

func newRowSpool(dir string) (*rowSpool, error) {
	f, err := os.CreateTemp(dir, "xlsx-rows-*.xml")
	if err != nil {
		return nil, err
	}
	return &rowSpool{f: f, bw: bufio.NewWriter(f), current: -1}, nil
}

// reader flushes pending data and rewinds the temp file for copying into
// the worksheet part.
func (sp *rowSpool) reader() (io.Reader, error) {
	if err := sp.bw.Flush(); err != nil {
		return nil, err
	}
	if _, err := sp.f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return sp.f, nil
}

func (sp *rowSpool) remove() error {
	if sp.f == nil {
		return nil
	}
	name := sp.f.Name()
	sp.f.Close()
	sp.f = nil
	return os.Remove(name)
}

// touchRow makes row r the writable row. Rows below the current one have
// already left memory.
func (s *Sheet) touchRow(r int) error {
	sp := s.spool
	if sp == nil {
		return nil
	}
	if sp.current >= 0 && r < sp.current {
		return ErrRowFlushed
	}
	if r > sp.current {
		if err := s.flushRow(sp.current); err != nil {
			return err
		}
		sp.current = r
	}
	return nil
}

// flushRow serializes one row into the spool and drops it from memory.
func (s *Sheet) flushRow(r int) error {
	row, ok := s.rows[r]
	if r < 0 || !ok {
		return nil
	}
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	if err := s.writeRow(x, r, row); err != nil {
		return err
	}
	delete(s.rows, r)
	_, err := s.spool.bw.Write(bb.Bytes())
	return err
}

// flushAll moves every remaining row into the spool before finalize.
func (s *Sheet) flushAll() error {
	if s.spool == nil {
		return nil
	}
	return enumerate(s.rows, func(r int, _ *Row) error {
		return s.flushRow(r)
	})
}
