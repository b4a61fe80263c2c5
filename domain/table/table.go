package table

import (
	"fmt"

	"logitlab/internal/errors"
)

// ColumnKind distinguishes numeric from categorical columns
type ColumnKind int

const (
	Numeric ColumnKind = iota
	Categorical
)

// Column is a single named column of observations
type Column struct {
	Name string
	Kind ColumnKind

	// Floats holds the values of a numeric column.
	Floats []float64
	// Labels holds the per-row values of a categorical column.
	Labels []string

	levels []string
}

// Levels returns the level order of a categorical column, baseline first.
// Numeric columns have no levels.
func (c *Column) Levels() []string {
	out := make([]string, len(c.levels))
	copy(out, c.levels)
	return out
}

// Len returns the number of observations in the column
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Labels)
}

// Table is a column-oriented observation table with stable column identity
type Table struct {
	cols []*Column
	n    int
}

// New creates an empty table
func New() *Table {
	return &Table{}
}

// NumRows returns the observation count
func (t *Table) NumRows() int {
	return t.n
}

// Names returns the column names in insertion order
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column or a MISSING_COLUMN error
func (t *Table) Column(name string) (*Column, error) {
	for _, c := range t.cols {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, errors.MissingColumn(name)
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	_, err := t.Column(name)
	return err == nil
}

// AddNumeric appends a numeric column. The first column fixes the row
// count; later columns must match it.
func (t *Table) AddNumeric(name string, values []float64) error {
	if err := t.checkAdd(name, len(values)); err != nil {
		return err
	}
	t.cols = append(t.cols, &Column{Name: name, Kind: Numeric, Floats: values})
	return nil
}

// AddCategorical appends a categorical column. Levels are recorded in
// first-appearance order; use Relevel to move a baseline to the front.
func (t *Table) AddCategorical(name string, values []string) error {
	if err := t.checkAdd(name, len(values)); err != nil {
		return err
	}
	seen := make(map[string]bool, 4)
	var levels []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	t.cols = append(t.cols, &Column{Name: name, Kind: Categorical, Labels: values, levels: levels})
	return nil
}

func (t *Table) checkAdd(name string, length int) error {
	if name == "" {
		return errors.New(errors.CodeInternalError, "column name cannot be empty")
	}
	if t.HasColumn(name) {
		return errors.New(errors.CodeInternalError, fmt.Sprintf("column %q already present in table", name))
	}
	if len(t.cols) == 0 {
		t.n = length
		return nil
	}
	if length != t.n {
		return errors.New(errors.CodeInternalError,
			fmt.Sprintf("column %q has %d rows, table has %d", name, length, t.n))
	}
	return nil
}

// Relevel derives a new categorical column dst from src with base moved to
// the front of the level order, so base becomes the reference category in
// model fitting. The row values are unchanged.
func (t *Table) Relevel(src, base, dst string) error {
	col, err := t.Column(src)
	if err != nil {
		return err
	}
	if col.Kind != Categorical {
		return errors.New(errors.CodeInternalError, fmt.Sprintf("column %q is not categorical", src))
	}
	found := false
	levels := make([]string, 0, len(col.levels))
	levels = append(levels, base)
	for _, lv := range col.levels {
		if lv == base {
			found = true
			continue
		}
		levels = append(levels, lv)
	}
	if !found {
		return errors.New(errors.CodeInternalError,
			fmt.Sprintf("level %q not observed in column %q", base, src))
	}
	labels := make([]string, len(col.Labels))
	copy(labels, col.Labels)
	return t.addReleveled(dst, labels, levels)
}

func (t *Table) addReleveled(name string, labels, levels []string) error {
	if err := t.checkAdd(name, len(labels)); err != nil {
		return err
	}
	t.cols = append(t.cols, &Column{Name: name, Kind: Categorical, Labels: labels, levels: levels})
	return nil
}
