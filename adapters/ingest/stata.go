package ingest

import (
	"fmt"
	"os"

	"github.com/kshedden/datareader"

	"logitlab/domain/table"
	"logitlab/internal/errors"
)

// StataLoader reads Stata .dta files into observation tables. Value-labeled
// columns come back as categorical columns; plain numeric columns as
// numeric ones.
type StataLoader struct{}

// NewStataLoader creates a new Stata dataset loader
func NewStataLoader() *StataLoader {
	return &StataLoader{}
}

// Load reads the whole file at path into a table
func (l *StataLoader) Load(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.LoadError(fmt.Sprintf("cannot open Stata file %q", path), err)
	}
	defer f.Close()

	rdr, err := datareader.NewStataReader(f)
	if err != nil {
		return nil, errors.LoadError(fmt.Sprintf("malformed Stata file %q", path), err)
	}
	rdr.InsertCategoryLabels = true

	series, err := rdr.Read(-1)
	if err != nil {
		return nil, errors.LoadError(fmt.Sprintf("reading Stata file %q", path), err)
	}

	t := table.New()
	for _, ser := range series {
		if err := addSeries(t, ser); err != nil {
			return nil, err
		}
	}
	if t.NumRows() == 0 {
		return nil, errors.LoadError(fmt.Sprintf("Stata file %q contains no observations", path), nil)
	}
	return t, nil
}

func addSeries(t *table.Table, ser *datareader.Series) error {
	switch ser.Data().(type) {
	case []string:
		vals, _, err := ser.AsStringSlice()
		if err != nil {
			return errors.LoadError(fmt.Sprintf("decoding column %q", ser.Name), err)
		}
		return errors.Wrapf(t.AddCategorical(ser.Name, vals), "adding column %q", ser.Name)
	default:
		vals, _, err := ser.AsFloat64Slice()
		if err != nil {
			return errors.LoadError(fmt.Sprintf("decoding column %q", ser.Name), err)
		}
		return errors.Wrapf(t.AddNumeric(ser.Name, vals), "adding column %q", ser.Name)
	}
}
