package xl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Workbook is the root of the document model. Build it with the Add* and
// Sheet.Write* methods, then call exactly one of Close, WriteTo or
// CloseStorage. After that every method fails with ErrUseAfterClose.
//
// A Workbook is not safe for concurrent use.
type Workbook struct {
	AppName string
	Sheets  []*Sheet // in tab order; use AddSheet to append

	filename string
	opts     Options
	log      *zap.Logger

	sheetMap map[string]*Sheet // keyed by lower-case name
	styles   *styleRegistry
	sst      *sharedStrings

	charts     []*Chart
	tableNames map[string]bool
	tableCount int

	media      []*imageInfo
	mediaMap   map[uuid.UUID]*imageInfo
	richValues []*imageInfo

	definedNames []definedName
	props        DocProperties
	customProps  []customProperty
	calcMode     CalcMode
	fullCalc     bool
	date1904     bool

	activeSheet int
	firstSheet  int

	closed bool
	buffer []byte
	marker string // splice point for streamed sheet data
}

// NewWorkbook creates a workbook that Close writes to filename.
func NewWorkbook(filename string) *Workbook {
	return NewWorkbookOpt(filename, DefaultOptions())
}

// NewWorkbookOpt creates a workbook with explicit options. With
// Options.OutputBuffer set, filename is ignored and may be empty.
func NewWorkbookOpt(filename string, opts Options) *Workbook {
	return &Workbook{
		AppName:    "Microsoft Excel",
		filename:   filename,
		opts:       opts,
		log:        opts.logger(),
		sheetMap:   map[string]*Sheet{},
		styles:     newStyleRegistry(),
		sst:        newSharedStrings(),
		tableNames: map[string]bool{},
		mediaMap:   map[uuid.UUID]*imageInfo{},
		marker:     uuid.NewString(),
	}
}

// AddSheet appends a worksheet. An empty name picks "SheetN".
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	const op = "AddSheet"
	if wb.closed {
		return nil, stateError(op)
	}
	if name == "" {
		name = fmt.Sprintf("Sheet%d", len(wb.Sheets)+1)
	}
	if code, err := validateSheetName(name); err != nil {
		return nil, validationError(op, code, err)
	}
	key := strings.ToLower(name)
	if _, exists := wb.sheetMap[key]; exists {
		return nil, validationError(op, CodeSheetnameAlreadyUsed, fmt.Errorf("%w '%s'", ErrSheetNameUsed, name))
	}

	sheet := newSheet(wb, name, len(wb.Sheets))
	if wb.opts.ConstantMemory {
		sp, err := newRowSpool(wb.opts.TmpDir)
		if err != nil {
			return nil, resourceError(op, CodeCreatingTmpfile, err)
		}
		sheet.spool = sp
	}

	wb.Sheets = append(wb.Sheets, sheet)
	wb.sheetMap[key] = sheet

	return sheet, nil
}

// GetSheetByName looks a sheet up by name, ignoring case.
func (wb *Workbook) GetSheetByName(name string) *Sheet {
	return wb.sheetMap[strings.ToLower(name)]
}

func validateSheetName(s string) (Code, error) {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return CodeParameterValidation, ErrSheetNameEmpty
	} else if n > 31 {
		return CodeSheetnameLengthExceeded, ErrSheetNameLength
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return CodeSheetnameStartEndApostrophe, ErrSheetNameApostrophe
	}
	if strings.ContainsAny(s, ":\\/?*[]") {
		return CodeInvalidSheetnameCharacter, ErrSheetNameChar
	}
	return CodeNoError, nil
}

// CalcMode controls when Excel recalculates formulas.
type CalcMode int

const (
	CalcAuto CalcMode = iota
	CalcManual
	CalcAutoNoTable
)

// SetCalcMode sets the calculation mode. With fullCalcOnLoad Excel
// recalculates every formula when the file is opened.
func (wb *Workbook) SetCalcMode(mode CalcMode, fullCalcOnLoad bool) error {
	const op = "SetCalcMode"
	if wb.closed {
		return stateError(op)
	}
	if mode < CalcAuto || mode > CalcAutoNoTable {
		return validationError(op, CodeParameterValidation, ErrInvalidParameter)
	}
	wb.calcMode = mode
	wb.fullCalc = fullCalcOnLoad
	return nil
}

// UseDate1904 switches the workbook to the 1904 date system. It affects
// dates written afterwards.
func (wb *Workbook) UseDate1904() error {
	if wb.closed {
		return stateError("UseDate1904")
	}
	wb.date1904 = true
	return nil
}

// DocProperties is the document metadata stored in docProps/core.xml and
// docProps/app.xml.
type DocProperties struct {
	Title         string
	Subject       string
	Author        string
	Manager       string
	Company       string
	Category      string
	Keywords      string
	Comments      string
	Status        string
	HyperlinkBase string
	Created       time.Time // zero means the time of Close
}

func (wb *Workbook) SetProperties(p DocProperties) error {
	const op = "SetProperties"
	if wb.closed {
		return stateError(op)
	}
	for _, s := range []string{p.Title, p.Subject, p.Author, p.Manager, p.Company, p.Category, p.Keywords, p.Comments, p.Status, p.HyperlinkBase} {
		if err := checkText(s); err != nil {
			return validationError(op, CodeParameterValidation, err)
		}
	}
	wb.props = p
	return nil
}

type customProperty struct {
	name  string
	value any // string, float64, int32, bool or time.Time
}

func (wb *Workbook) setCustomProperty(op, name string, v any) error {
	if wb.closed {
		return stateError(op)
	}
	if name == "" {
		return validationError(op, CodeParameterValidation, fmt.Errorf("%w: empty property name", ErrInvalidParameter))
	}
	if utf8.RuneCountInString(name) > 255 {
		return validationError(op, Code255StringLengthExceeded, ErrStringLength255)
	}
	if s, ok := v.(string); ok && utf8.RuneCountInString(s) > 255 {
		return validationError(op, Code255StringLengthExceeded, ErrStringLength255)
	}
	for i, p := range wb.customProps {
		if p.name == name {
			wb.customProps[i].value = v
			return nil
		}
	}
	wb.customProps = append(wb.customProps, customProperty{name: name, value: v})
	return nil
}

func (wb *Workbook) SetCustomPropertyString(name, value string) error {
	return wb.setCustomProperty("SetCustomPropertyString", name, value)
}

func (wb *Workbook) SetCustomPropertyNumber(name string, value float64) error {
	return wb.setCustomProperty("SetCustomPropertyNumber", name, value)
}

func (wb *Workbook) SetCustomPropertyInteger(name string, value int32) error {
	return wb.setCustomProperty("SetCustomPropertyInteger", name, value)
}

func (wb *Workbook) SetCustomPropertyBool(name string, value bool) error {
	return wb.setCustomProperty("SetCustomPropertyBool", name, value)
}

func (wb *Workbook) SetCustomPropertyDateTime(name string, value time.Time) error {
	return wb.setCustomProperty("SetCustomPropertyDateTime", name, value)
}

// Close finalizes the workbook into the file given to NewWorkbook, or into
// memory when Options.OutputBuffer is set. The file is written under a
// temporary name and renamed once complete, so a failed Close leaves any
// existing file untouched.
func (wb *Workbook) Close() error {
	const op = "Close"
	if wb.closed {
		return stateError(op)
	}

	if wb.opts.OutputBuffer {
		bb := bytes.Buffer{}
		if err := wb.finalizeZip(op, &bb); err != nil {
			return err
		}
		wb.buffer = bb.Bytes()
		return nil
	}

	if wb.filename == "" {
		wb.shutdown()
		return validationError(op, CodeCreatingXLSXFile, fmt.Errorf("%w: no output file name", ErrInvalidParameter))
	}
	f, err := os.CreateTemp(filepath.Dir(wb.filename), "."+filepath.Base(wb.filename)+".*")
	if err != nil {
		wb.shutdown()
		return resourceError(op, CodeCreatingXLSXFile, err)
	}
	tmp := f.Name()
	err = wb.finalizeZip(op, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = resourceError(op, CodeCreatingXLSXFile, cerr)
	}
	if err == nil {
		if rerr := os.Rename(tmp, wb.filename); rerr != nil {
			err = resourceError(op, CodeCreatingXLSXFile, rerr)
		}
	}
	if err != nil {
		if rerr := os.Remove(tmp); rerr != nil && !os.IsNotExist(rerr) {
			wb.log.Warn("could not remove partial output", zap.String("path", tmp), zap.Error(rerr))
		}
		return err
	}
	wb.log.Info("workbook written", zap.String("path", wb.filename))
	return nil
}

// WriteTo finalizes the workbook into w. The archive is assembled in a
// temporary file first, so w only receives a complete archive.
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) {
	const op = "WriteTo"
	if wb.closed {
		return 0, stateError(op)
	}
	f, err := os.CreateTemp(wb.opts.TmpDir, "xlsx-out-*.zip")
	if err != nil {
		wb.shutdown()
		return 0, resourceError(op, CodeCreatingTmpfile, err)
	}
	defer func() {
		f.Close()
		if rerr := os.Remove(f.Name()); rerr != nil {
			wb.log.Warn("could not remove spool file", zap.String("path", f.Name()), zap.Error(rerr))
		}
	}()

	if err := wb.finalizeZip(op, f); err != nil {
		return 0, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, resourceError(op, CodeReadingTmpfile, err)
	}
	n, err := io.Copy(w, f)
	if err != nil {
		return n, resourceError(op, CodeCreatingXLSXFile, err)
	}
	return n, nil
}

// CloseStorage finalizes the workbook into an arbitrary Storage, for
// example a DirStorage to inspect the generated parts. The caller owns st
// and closes it if needed.
func (wb *Workbook) CloseStorage(st Storage) error {
	const op = "CloseStorage"
	if wb.closed {
		return stateError(op)
	}
	return wb.finalize(op, st)
}

// Buffer returns the archive produced by Close with Options.OutputBuffer.
func (wb *Workbook) Buffer() ([]byte, error) {
	if !wb.closed || wb.buffer == nil {
		return nil, validationError("Buffer", CodeParameterValidation, ErrBufferNotReady)
	}
	return wb.buffer, nil
}

// Closed reports whether the workbook has been finalized.
func (wb *Workbook) Closed() bool {
	return wb.closed
}

func (wb *Workbook) finalizeZip(op string, out io.Writer) error {
	zs := NewZipStorage(out)
	zs.Zip64 = wb.opts.UseZip64
	err := wb.finalize(op, zs)
	if cerr := zs.Close(); err == nil && cerr != nil {
		err = resourceError(op, CodeZipClose, cerr)
	}
	return err
}

// finalize runs once. The workbook is closed afterwards whatever the
// outcome.
func (wb *Workbook) finalize(op string, st Storage) error {
	if wb.closed {
		return stateError(op)
	}
	defer wb.shutdown()
	wb.closed = true

	if err := wb.validate(op); err != nil {
		return err
	}
	wb.styles.frozen = true
	wb.sst.frozen = true

	w := newWriter(st, wb)
	if err := w.write(); err != nil {
		return err
	}
	wb.log.Info("workbook finalized",
		zap.String("op", op),
		zap.Int("sheets", len(wb.Sheets)),
		zap.Int("strings", wb.sst.unique()),
		zap.Int("styles", len(wb.styles.xfs)),
		zap.Int("parts", w.parts),
	)
	return nil
}

// validate re-checks the whole-document invariants.
func (wb *Workbook) validate(op string) error {
	if len(wb.Sheets) == 0 {
		return validationError(op, CodeParameterValidation, ErrNoWorksheets)
	}
	seen := map[string]bool{}
	for _, s := range wb.Sheets {
		if code, err := validateSheetName(s.Name); err != nil {
			return validationError(op, code, err)
		}
		key := strings.ToLower(s.Name)
		if seen[key] {
			return validationError(op, CodeSheetnameAlreadyUsed, fmt.Errorf("%w '%s'", ErrSheetNameUsed, s.Name))
		}
		seen[key] = true
	}
	if int64(wb.sst.unique()) > MaxSharedStrings {
		return validationError(op, CodeSharedStringIndexNotFound, ErrTooManyStrings)
	}
	for _, c := range wb.charts {
		if c.inserted && len(c.series) == 0 {
			return validationError(op, CodeParameterValidation, ErrChartNoSeries)
		}
	}
	return nil
}

// shutdown marks the workbook closed and releases temp files.
func (wb *Workbook) shutdown() {
	wb.closed = true
	for _, s := range wb.Sheets {
		if s.spool == nil {
			continue
		}
		if err := s.spool.remove(); err != nil {
			wb.log.Warn("could not remove row spool", zap.String("sheet", s.Name), zap.Error(err))
		}
	}
}
