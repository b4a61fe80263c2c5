package model

import (
	"fmt"
	"strings"

	"logitlab/domain/core"
	"logitlab/internal/errors"
)

// Family identifies the GLM family of a fitted model
type Family string

const (
	Binomial    Family = "binomial"
	Multinomial Family = "multinomial"
)

// Formula describes a model as response ~ predictors
type Formula struct {
	Response   string
	Predictors []string
}

// String renders the formula in conventional notation
func (f Formula) String() string {
	if len(f.Predictors) == 0 {
		return f.Response + " ~ 1"
	}
	return f.Response + " ~ " + strings.Join(f.Predictors, " + ")
}

// NestedIn reports whether f's predictor set is a strict subset of other's
// and both share the same response.
func (f Formula) NestedIn(other Formula) bool {
	if f.Response != other.Response {
		return false
	}
	if len(f.Predictors) >= len(other.Predictors) {
		return false
	}
	have := make(map[string]bool, len(other.Predictors))
	for _, p := range other.Predictors {
		have[p] = true
	}
	for _, p := range f.Predictors {
		if !have[p] {
			return false
		}
	}
	return true
}

// CoefTable is a named matrix of per-contrast, per-term values. Binomial
// fits have a single row; multinomial fits have one row per non-baseline
// response category.
type CoefTable struct {
	Rows   []string
	Cols   []string
	Values [][]float64
}

// NewCoefTable allocates a zeroed table with the given row and column names
func NewCoefTable(rows, cols []string) *CoefTable {
	values := make([][]float64, len(rows))
	for i := range values {
		values[i] = make([]float64, len(cols))
	}
	return &CoefTable{Rows: rows, Cols: cols, Values: values}
}

// At returns the value at row i, column j
func (ct *CoefTable) At(i, j int) float64 {
	return ct.Values[i][j]
}

// Set assigns the value at row i, column j
func (ct *CoefTable) Set(i, j int, v float64) {
	ct.Values[i][j] = v
}

// SameShape reports whether two tables align by row and column names
func (ct *CoefTable) SameShape(other *CoefTable) bool {
	if other == nil || len(ct.Rows) != len(other.Rows) || len(ct.Cols) != len(other.Cols) {
		return false
	}
	for i, r := range ct.Rows {
		if other.Rows[i] != r {
			return false
		}
	}
	for j, c := range ct.Cols {
		if other.Cols[j] != c {
			return false
		}
	}
	return true
}

// ShapeError builds a DimensionError describing the misalignment between
// two tables.
func (ct *CoefTable) ShapeError(other *CoefTable, what string) error {
	if other == nil {
		return errors.DimensionError(fmt.Sprintf("%s table is nil", what))
	}
	return errors.DimensionError(fmt.Sprintf(
		"%s tables are misaligned: %dx%d (%v) vs %dx%d (%v)",
		what, len(ct.Rows), len(ct.Cols), ct.Cols, len(other.Rows), len(other.Cols), other.Cols))
}

// Fit is a fitted generalized linear model. It is produced once by a fit
// operation and read-only afterwards.
type Fit struct {
	ID      core.ModelID
	Formula Formula
	Family  Family

	// Categories lists the observed response levels, baseline first.
	Categories []string
	// Terms names the design matrix columns: intercept, numeric predictors
	// and treatment-coded dummy levels.
	Terms []string

	Coef   *CoefTable
	StdErr *CoefTable
	// Cov is the full parameter covariance, indexed by the flattened
	// (contrast, term) parameter order used by the fitter.
	Cov [][]float64

	LogLik  float64
	AIC     float64
	NObs    int
	NParams int
}

// Summary renders a compact coefficient summary for console output
func (f *Fit) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", f.Formula.String(), f.Family)
	fmt.Fprintf(&b, "n=%d  params=%d  logLik=%.4f  AIC=%.4f\n", f.NObs, f.NParams, f.LogLik, f.AIC)
	fmt.Fprintf(&b, "%-12s", "")
	for _, term := range f.Terms {
		fmt.Fprintf(&b, "%14s", term)
	}
	b.WriteByte('\n')
	for i, row := range f.Coef.Rows {
		fmt.Fprintf(&b, "%-12s", row)
		for j := range f.Terms {
			fmt.Fprintf(&b, "%14.5f", f.Coef.At(i, j))
		}
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%-12s", "  (se)")
		for j := range f.Terms {
			fmt.Fprintf(&b, "%14.5f", f.StdErr.At(i, j))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
