package xl

import (
	"errors"
	"fmt"
)

// Kind classifies an error by who can fix it.
type Kind int

const (
	KindUnknown    Kind = iota // unmapped failure, Code carries the raw value
	KindValidation             // caller-fixable, detected at the offending call
	KindResource               // environment: files, temp dirs, zip codec
	KindState                  // call issued after the workbook was finalized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindResource:
		return "resource"
	case KindState:
		return "state"
	default:
		return "unknown"
	}
}

// Code is a stable numeric error code so callers that need the
// numeric value for compatibility can get it from any returned error.
type Code int

const (
	CodeNoError                     Code = 0
	CodeMemoryMallocFailed          Code = 1
	CodeCreatingXLSXFile            Code = 2
	CodeCreatingTmpfile             Code = 3
	CodeReadingTmpfile              Code = 4
	CodeZipFileOperation            Code = 5
	CodeZipParameterError           Code = 6
	CodeZipBadZipFile               Code = 7
	CodeZipInternalError            Code = 8
	CodeZipFileAdd                  Code = 9
	CodeZipClose                    Code = 10
	CodeFeatureNotSupported         Code = 11
	CodeNullParameterIgnored        Code = 12
	CodeParameterValidation         Code = 13
	CodeSheetnameLengthExceeded     Code = 14
	CodeInvalidSheetnameCharacter   Code = 15
	CodeSheetnameStartEndApostrophe Code = 16
	CodeSheetnameAlreadyUsed        Code = 17
	Code32StringLengthExceeded      Code = 18
	Code128StringLengthExceeded     Code = 19
	Code255StringLengthExceeded     Code = 20
	CodeMaxStringLengthExceeded     Code = 21
	CodeSharedStringIndexNotFound   Code = 22
	CodeWorksheetIndexOutOfRange    Code = 23
	CodeMaxURLLengthExceeded        Code = 24
	CodeMaxNumberURLsExceeded       Code = 25
	CodeImageDimensions             Code = 26
)

var (
	ErrSheetNameEmpty       = errors.New("empty sheet name is not allowed")
	ErrSheetNameLength      = errors.New("the sheet name is too long")
	ErrSheetNameChar        = errors.New("the sheet name can not contain any of the characters []:*?/\\")
	ErrSheetNameApostrophe  = errors.New("the first or last character of the sheet name can not be a single quote")
	ErrSheetNameUsed        = errors.New("duplicate sheet name")
	ErrNoWorksheets         = errors.New("workbook has no worksheets")
	ErrRowColumnOutOfRange  = errors.New("row or column number out of range")
	ErrRowFlushed           = errors.New("row has already been flushed in constant memory mode")
	ErrMergedCell           = errors.New("cell is covered by a merged range")
	ErrMergeOverlap         = errors.New("merged range overlaps an existing merged range")
	ErrMergeSingleCell      = errors.New("can not merge a single cell")
	ErrColumnCountMismatch  = errors.New("table column count does not match the range width")
	ErrRichStringEmpty      = errors.New("rich string requires at least one run")
	ErrRichStringEmptyRun   = errors.New("rich string run has empty text")
	ErrRichStringSameFormat = errors.New("adjacent rich string runs share the same format")
	ErrNullByte             = errors.New("string contains a null byte")
	ErrInvalidUTF8          = errors.New("string is not valid UTF-8")
	ErrMaxStringLength      = errors.New("string exceeds the maximum of 32767 characters")
	ErrTooManyStrings       = errors.New("shared string table exceeds the maximum unique count")
	ErrUnknownStyle         = errors.New("style id is not registered in this workbook")
	ErrURLLength            = errors.New("url exceeds the maximum length")
	ErrTooManyURLs          = errors.New("too many hyperlinks in worksheet")
	ErrStringLength32       = errors.New("string exceeds 32 characters")
	ErrStringLength255      = errors.New("string exceeds 255 characters")
	ErrInvalidName          = errors.New("invalid defined name")
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrChartAlreadyInserted = errors.New("chart has already been inserted")
	ErrChartNoSeries        = errors.New("chart has no data series")
	ErrForeignObject        = errors.New("object belongs to a different workbook")
	ErrUnsupportedImage     = errors.New("unsupported image format")
	ErrImageDimensions      = errors.New("could not determine image dimensions")
	ErrUseAfterClose        = errors.New("workbook has already been closed")
	ErrZip64Required        = errors.New("part exceeds the zip size limit, enable UseZip64")
	ErrBufferNotReady       = errors.New("output buffer is only available after Close with OutputBuffer enabled")
)

// Error is the error type returned by every fallible operation of this package.
type Error struct {
	Kind Kind
	Code Code
	Op   string // the API call or finalize step that failed
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("xl: %v", e.Err)
	}
	return fmt.Sprintf("xl: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(op string, code Code, err error) *Error {
	return &Error{Kind: KindValidation, Code: code, Op: op, Err: err}
}

func resourceError(op string, code Code, err error) *Error {
	return &Error{Kind: KindResource, Code: code, Op: op, Err: err}
}

func stateError(op string) *Error {
	return &Error{Kind: KindState, Code: CodeParameterValidation, Op: op, Err: ErrUseAfterClose}
}

// KindOf reports the classification of err. Errors not produced by this
// package are KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf reports the numeric code of err.
func CodeOf(err error) Code {
	if err == nil {
		return CodeNoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeParameterValidation
}
