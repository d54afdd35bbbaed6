package xl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// Storage is the interface for writing Excel file parts (XML and media files).
// Implementations can write to ZIP archives or directory structures.
type Storage interface {
	WriteBlob(path string, blob []byte) error
	// WriteReader stores a part whose content is produced incrementally,
	// such as a worksheet with spooled rows.
	WriteReader(path string, r io.Reader) error
}

// maxPlainZipSize is the largest entry a zip file without the zip64
// extension can describe.
const maxPlainZipSize = 1<<32 - 1

// partTime is the modification time stamped on every entry; Excel writes
// the DOS epoch too.
var partTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// DirStorage writes Excel file parts to a directory structure on disk.
// This is useful for debugging as it allows inspection of generated XML files.
type DirStorage struct {
	Dir string // Root directory path
}

// ZipStorage writes Excel file parts to a ZIP archive, creating a standard .xlsx file.
type ZipStorage struct {
	z *zip.Writer

	// Zip64 permits entries of 4 GiB and more. When false such an entry
	// fails with ErrZip64Required.
	Zip64 bool
}

// NewDirStorage creates a new directory-based storage that writes files to the specified directory.
// The directory will be created if it doesn't exist.
func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{
		Dir: dir,
	}
}

func (ds *DirStorage) create(path string) (*os.File, error) {
	path = strings.TrimPrefix(path, "/")
	fn := filepath.Join(ds.Dir, filepath.FromSlash(path))
	err := os.MkdirAll(filepath.Dir(fn), 0777)
	if err != nil {
		return nil, err
	}
	return os.Create(fn)
}

// WriteBlob writes a file part to the directory structure.
// Creates any necessary parent directories automatically.
func (ds *DirStorage) WriteBlob(path string, blob []byte) error {
	return ds.WriteReader(path, bytes.NewReader(blob))
}

func (ds *DirStorage) WriteReader(path string, r io.Reader) error {
	f, err := ds.create(path)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// NewZipStorage creates a new ZIP-based storage that writes to the given writer.
// The writer is typically a file opened for writing (e.g., os.Create("output.xlsx")).
func NewZipStorage(out io.Writer) *ZipStorage {
	return &ZipStorage{z: zip.NewWriter(out)}
}

// WriteBlob writes a file part to the ZIP archive.
// Each part becomes a file entry in the ZIP with the specified path.
func (zs *ZipStorage) WriteBlob(path string, blob []byte) error {
	return zs.WriteReader(path, bytes.NewReader(blob))
}

func (zs *ZipStorage) WriteReader(path string, r io.Reader) error {
	path = strings.TrimPrefix(path, "/")
	f, err := zs.z.CreateHeader(&zip.FileHeader{
		Name:     path,
		Method:   zip.Deflate,
		Modified: partTime,
	})
	if err != nil {
		return err
	}
	if zs.Zip64 {
		_, err = io.Copy(f, r)
		return err
	}
	n, err := io.CopyN(f, r, maxPlainZipSize+1)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if n > maxPlainZipSize {
		return fmt.Errorf("%w: %s", ErrZip64Required, path)
	}
	return nil
}

// Close finalizes the ZIP archive. Must be called after all writes are complete.
// Failure to call Close will result in an invalid/corrupted Excel file.
func (zs *ZipStorage) Close() error {
	return zs.z.Close()
}

// MemStorage keeps every part in memory, keyed by its path without the
// leading slash. Parts are listed in the order they were written.
type MemStorage struct {
	Parts map[string][]byte
	Order []string
}

func NewMemStorage() *MemStorage {
	return &MemStorage{Parts: map[string][]byte{}}
}

func (ms *MemStorage) WriteBlob(path string, blob []byte) error {
	path = strings.TrimPrefix(path, "/")
	if _, ok := ms.Parts[path]; !ok {
		ms.Order = append(ms.Order, path)
	}
	ms.Parts[path] = bytes.Clone(blob)
	return nil
}

func (ms *MemStorage) WriteReader(path string, r io.Reader) error {
	blob, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return ms.WriteBlob(path, blob)
}
