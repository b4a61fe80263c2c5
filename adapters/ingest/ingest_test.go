package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"logitlab/domain/table"
	"logitlab/internal/errors"
)

func TestForPath(t *testing.T) {
	loader, err := ForPath("data/hsbdemo.dta")
	require.NoError(t, err)
	assert.IsType(t, &StataLoader{}, loader)

	loader, err = ForPath("scores.XLSX")
	require.NoError(t, err)
	assert.IsType(t, &ExcelLoader{}, loader)

	_, err = ForPath("notes.txt")
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
}

func TestStataLoader_MissingFile(t *testing.T) {
	_, err := NewStataLoader().Load(filepath.Join(t.TempDir(), "absent.dta"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
}

func TestStataLoader_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.dta")
	require.NoError(t, os.WriteFile(path, []byte("this is not a dta file"), 0o644))

	_, err := NewStataLoader().Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
}

func TestExcelLoader_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"write", "prog"},
		{52.0, "academic"},
		{41.0, "general"},
		{63.0, "academic"},
		{39.0, "vocation"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))

	tbl, err := NewExcelLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.NumRows())

	write, err := tbl.Column("write")
	require.NoError(t, err)
	assert.Equal(t, table.Numeric, write.Kind)
	assert.Equal(t, []float64{52, 41, 63, 39}, write.Floats)

	prog, err := tbl.Column("prog")
	require.NoError(t, err)
	assert.Equal(t, table.Categorical, prog.Kind)
	assert.Equal(t, []string{"academic", "general", "academic", "vocation"}, prog.Labels)
	assert.Equal(t, []string{"academic", "general", "vocation"}, prog.Levels())
}

func TestExcelLoader_MissingFile(t *testing.T) {
	_, err := NewExcelLoader().Load(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
}

func TestExcelLoader_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f := excelize.NewFile()
	row := []interface{}{"write"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &row))
	require.NoError(t, f.SaveAs(path))

	_, err := NewExcelLoader().Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
}
