package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"logitlab/domain/table"
	"logitlab/internal/errors"
)

// ExcelLoader reads the first sheet of an .xlsx workbook into an
// observation table. The first row supplies column names; a column whose
// every non-empty cell parses as a number becomes numeric, anything else
// categorical.
type ExcelLoader struct{}

// NewExcelLoader creates a new Excel dataset loader
func NewExcelLoader() *ExcelLoader {
	return &ExcelLoader{}
}

// Load reads the workbook at path into a table
func (l *ExcelLoader) Load(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.LoadError(fmt.Sprintf("cannot open Excel file %q", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.LoadError(fmt.Sprintf("Excel file %q has no sheets", path), nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.LoadError(fmt.Sprintf("reading sheet %q of %q", sheets[0], path), err)
	}
	if len(rows) < 2 {
		return nil, errors.LoadError(fmt.Sprintf("Excel file %q has no data rows", path), nil)
	}

	header := rows[0]
	nRows := len(rows) - 1
	t := table.New()
	for j, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.LoadError(fmt.Sprintf(
				"Excel file %q has an empty header in column %d", path, j+1), nil)
		}
		cells := make([]string, nRows)
		for i := 0; i < nRows; i++ {
			if j < len(rows[i+1]) {
				cells[i] = strings.TrimSpace(rows[i+1][j])
			}
		}
		if err := addExcelColumn(t, name, cells); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func addExcelColumn(t *table.Table, name string, cells []string) error {
	floats := make([]float64, len(cells))
	numeric := true
	for i, cell := range cells {
		if cell == "" {
			numeric = false
			break
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			numeric = false
			break
		}
		floats[i] = v
	}
	if numeric {
		return errors.Wrapf(t.AddNumeric(name, floats), "adding column %q", name)
	}
	return errors.Wrapf(t.AddCategorical(name, cells), "adding column %q", name)
}
