// Package main provides the xlsxgen command, which converts CSV files into
// an xlsx workbook with one sheet per input file.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adnsv/go-xlsxwriter/xl"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type config struct {
	output         string
	explodeDir     string
	constantMemory bool
	zip64          bool
	tmpDir         string
	verbose        bool
	header         bool
	autofilter     bool
	table          bool
	freeze         bool
	delimiter      string
}

func main() {
	cfg := &config{}
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xlsxgen [flags] input.csv...",
		Short: "Convert CSV files into an xlsx workbook",
		Long: `xlsxgen writes every input CSV file into its own worksheet.
Numeric fields are stored as numbers, everything else as text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, args)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.output, "output", "o", "out.xlsx", "Output workbook path")
	f.StringVar(&cfg.explodeDir, "explode", "", "Write the package parts into this directory instead of a zip archive")
	f.BoolVar(&cfg.constantMemory, "constant-memory", false, "Flush rows to a temporary file while writing")
	f.BoolVar(&cfg.zip64, "zip64", false, "Allow parts larger than 4 GiB")
	f.StringVar(&cfg.tmpDir, "tmpdir", "", "Directory for temporary files")
	f.BoolVarP(&cfg.verbose, "verbose", "v", false, "Log the parts being written")
	f.BoolVar(&cfg.header, "header", false, "Treat the first record as a bold header row")
	f.BoolVar(&cfg.autofilter, "autofilter", false, "Add an autofilter over the data (implies --header)")
	f.BoolVar(&cfg.table, "table", false, "Turn the data into an Excel table (implies --header)")
	f.BoolVar(&cfg.freeze, "freeze", false, "Freeze the header row")
	f.StringVarP(&cfg.delimiter, "delimiter", "d", ",", "Field delimiter")

	return cmd
}

func run(cfg *config, inputs []string) error {
	if cfg.table && cfg.autofilter {
		return errors.New("--table and --autofilter are mutually exclusive")
	}
	if cfg.table || cfg.autofilter {
		cfg.header = true
	}
	if cfg.table && cfg.constantMemory {
		return errors.New("--table can not be combined with --constant-memory: the header row is flushed before the table width is known")
	}
	delim := []rune(cfg.delimiter)
	if len(delim) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", cfg.delimiter)
	}

	log := zap.NewNop()
	if cfg.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		log = l
		defer log.Sync()
	}

	opts := xl.DefaultOptions()
	opts.ConstantMemory = cfg.constantMemory
	opts.UseZip64 = cfg.zip64
	opts.TmpDir = cfg.tmpDir
	opts.Logger = log

	wb := xl.NewWorkbookOpt(cfg.output, opts)

	var headerStyle xl.StyleID
	if cfg.header {
		var err error
		headerStyle, err = wb.AddFormat(xl.Format{
			Font:   xl.Font{Bold: true},
			Border: xl.Border{Bottom: xl.Edge{Style: xl.BorderThin}},
		})
		if err != nil {
			return err
		}
	}

	for _, fn := range inputs {
		if err := addCSV(wb, cfg, fn, delim[0], headerStyle); err != nil {
			return fmt.Errorf("%s: %w", fn, err)
		}
		log.Info("sheet added", zap.String("input", fn))
	}

	if cfg.explodeDir != "" {
		return wb.CloseStorage(xl.NewDirStorage(cfg.explodeDir))
	}
	return wb.Close()
}

// sheetName derives a valid, unused sheet name from a file name.
func sheetName(wb *xl.Workbook, fn string) string {
	base := strings.TrimSuffix(filepath.Base(fn), filepath.Ext(fn))
	base = strings.Map(func(r rune) rune {
		if strings.ContainsRune(":\\/?*[]'", r) {
			return '_'
		}
		return r
	}, base)
	if r := []rune(base); len(r) > 28 {
		base = string(r[:28])
	}
	if base == "" {
		base = "Sheet"
	}
	name := base
	for i := 2; wb.GetSheetByName(name) != nil; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	return name
}

func addCSV(wb *xl.Workbook, cfg *config, fn string, delim rune, headerStyle xl.StyleID) error {
	f, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	sh, err := wb.AddSheet(sheetName(wb, fn))
	if err != nil {
		return err
	}

	rd := csv.NewReader(f)
	rd.Comma = delim
	rd.FieldsPerRecord = -1

	var header []string
	row, cols := 0, 0
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		cols = max(cols, len(rec))
		if row == 0 {
			header = rec
		}
		for c, field := range rec {
			if err := writeField(sh, row, c, field, row == 0 && cfg.header, headerStyle); err != nil {
				return err
			}
		}
		row++
	}
	if row == 0 || cols == 0 {
		return nil
	}

	if cfg.freeze && cfg.header {
		if err := sh.FreezePanes(1, 0); err != nil {
			return err
		}
	}
	switch {
	case cfg.autofilter:
		return sh.Autofilter(0, 0, row-1, cols-1)
	case cfg.table && row > 1:
		_, err := sh.AddTable(0, 0, row-1, cols-1, &xl.TableOptions{Columns: tableColumns(header, cols, headerStyle)})
		return err
	}
	return nil
}

func writeField(sh *xl.Sheet, row, col int, field string, header bool, headerStyle xl.StyleID) error {
	if header {
		return sh.WriteString(row, col, field, headerStyle)
	}
	if field == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(field, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return sh.WriteNumber(row, col, v, xl.DefaultStyle)
	}
	return sh.WriteString(row, col, field, xl.DefaultStyle)
}

// tableColumns carries the CSV header over to the table, filling gaps
// and duplicates with generated names.
func tableColumns(header []string, cols int, style xl.StyleID) []xl.TableColumn {
	out := make([]xl.TableColumn, cols)
	seen := map[string]bool{}
	for i := range out {
		h := ""
		if i < len(header) {
			h = header[i]
		}
		if h == "" || seen[strings.ToLower(h)] {
			h = fmt.Sprintf("Column%d", i+1)
		}
		seen[strings.ToLower(h)] = true
		out[i].Header = h
		out[i].HeaderStyle = style
	}
	return out
}
