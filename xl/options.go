package xl

import "go.uber.org/zap"

// Options configures a Workbook at construction time.
type Options struct {
	// OutputBuffer keeps the finished archive in memory instead of writing the
	// file name passed to NewWorkbook. Retrieve it with Workbook.Buffer after Close.
	OutputBuffer bool

	// ConstantMemory flushes each row to a temporary file as soon as a later
	// row is written. Earlier rows can not be revisited and strings are stored
	// inline instead of in the shared string table.
	ConstantMemory bool

	// TmpDir overrides the directory used for constant memory row files and
	// for spooling. Empty means os.TempDir().
	TmpDir string

	// UseZip64 allows parts larger than 4 GiB. Without it such parts fail
	// with ErrZip64Required instead of producing an archive that older
	// readers reject.
	UseZip64 bool

	// Logger receives debug traces of the finalize step. Nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns the options used by NewWorkbook.
func DefaultOptions() Options {
	return Options{
		Logger: zap.NewNop(),
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
