package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adnsv/go-xlsxwriter/xl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o644))
	return fn
}

func TestRunTable(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "data.csv", "name,qty\nbolt,3\nnut,NaN\n")
	b := writeFile(t, dir, "data.txt", "x;y\n1;2\n")

	cfg := &config{
		output:    filepath.Join(dir, "out.xlsx"),
		table:     true,
		freeze:    true,
		delimiter: ",",
		tmpDir:    dir,
	}
	require.NoError(t, run(cfg, []string{a}))

	f, err := excelize.OpenFile(cfg.output)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"data"}, f.GetSheetList())

	rows, err := f.GetRows("data")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"name", "qty"}, {"bolt", "3"}, {"nut", "NaN"}}, rows)

	tables, err := f.GetTables("data")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "A1:B3", tables[0].Range)

	panes, err := f.GetPanes("data")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)

	cfg = &config{output: filepath.Join(dir, "semi.xlsx"), delimiter: ";"}
	require.NoError(t, run(cfg, []string{b, b}))
	f2, err := excelize.OpenFile(cfg.output)
	require.NoError(t, err)
	defer f2.Close()
	assert.Equal(t, []string{"data", "data_2"}, f2.GetSheetList())
	v, err := f2.GetCellValue("data_2", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestRunExplode(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "a,b\n1,2\n")
	out := filepath.Join(dir, "parts")

	cfg := &config{explodeDir: out, autofilter: true, constantMemory: true, delimiter: ","}
	require.NoError(t, run(cfg, []string{in}))
	assert.True(t, cfg.header)

	blob, err := os.ReadFile(filepath.Join(out, "xl", "worksheets", "sheet1.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(blob), "autoFilter")
	assert.Contains(t, string(blob), "A1:B2")
	assert.Contains(t, string(blob), "inlineStr")
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "a\n")
	out := filepath.Join(dir, "out.xlsx")

	err := run(&config{output: out, table: true, autofilter: true, delimiter: ","}, []string{in})
	assert.ErrorContains(t, err, "mutually exclusive")

	err = run(&config{output: out, table: true, constantMemory: true, delimiter: ","}, []string{in})
	assert.ErrorContains(t, err, "constant-memory")

	err = run(&config{output: out, delimiter: ";;"}, []string{in})
	assert.ErrorContains(t, err, "single character")

	err = run(&config{output: out, delimiter: ","}, []string{filepath.Join(dir, "missing.csv")})
	assert.ErrorContains(t, err, "missing.csv")

	cmd := newRootCmd(&config{})
	cmd.SetArgs([]string{})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})
	assert.Error(t, cmd.Execute())
}

func TestRootCmdFlags(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.tsv", "k\tv\nx\t1\n")
	cfg := &config{}
	cmd := newRootCmd(cfg)
	cmd.SetArgs([]string{"-o", filepath.Join(dir, "flags.xlsx"), "-d", "\t", "--header", in})
	require.NoError(t, cmd.Execute())
	assert.True(t, cfg.header)
	assert.Equal(t, "\t", cfg.delimiter)

	f, err := excelize.OpenFile(filepath.Join(dir, "flags.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("in", "B2")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestSheetName(t *testing.T) {
	wb := xl.NewWorkbookOpt("", xl.DefaultOptions())
	assert.Equal(t, "a_b_c_", sheetName(wb, "/tmp/a:b[c].csv"))
	assert.Equal(t, "Sheet", sheetName(wb, ".csv"))
	assert.Equal(t, strings.Repeat("x", 28), sheetName(wb, strings.Repeat("x", 40)+".csv"))

	_, err := wb.AddSheet("report")
	require.NoError(t, err)
	assert.Equal(t, "REPORT_2", sheetName(wb, "REPORT.csv"))
}

func TestTableColumns(t *testing.T) {
	style := xl.StyleID(3)
	cols := tableColumns([]string{"a", "", "A"}, 4, style)
	var names []string
	for _, c := range cols {
		names = append(names, c.Header)
		assert.Equal(t, style, c.HeaderStyle)
	}
	assert.Equal(t, []string{"a", "Column2", "Column3", "Column4"}, names)
}
