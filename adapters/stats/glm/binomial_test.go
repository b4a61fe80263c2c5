package glm

import (
	"math"
	"testing"

	"logitlab/domain/model"
	"logitlab/domain/table"
	"logitlab/internal/errors"
)

// balancedBinary builds a 40-row dataset where x1 carries a real effect and
// x2 is exactly balanced within both outcome classes, so the maximum
// likelihood estimate of the x2 coefficient is identically zero.
func balancedBinary(t *testing.T) *table.Table {
	t.Helper()
	var x1, x2 []float64
	var y []string
	for _, v := range []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10} {
		for _, g := range []float64{0, 1} {
			x1 = append(x1, v)
			x2 = append(x2, g)
			y = append(y, "no")
		}
	}
	for _, v := range []float64{6, 7, 8, 9, 10, 11, 12, 13, 14, 15} {
		for _, g := range []float64{0, 1} {
			x1 = append(x1, v)
			x2 = append(x2, g)
			y = append(y, "yes")
		}
	}
	tbl := table.New()
	if err := tbl.AddNumeric("x1", x1); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddNumeric("x2", x2); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddCategorical("y", y); err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestFitBinomial_CoefficientCount(t *testing.T) {
	data := table.GenerateMortality(1)
	fit, err := FitBinomial(data, model.Formula{
		Response:   table.ColMortality,
		Predictors: []string{table.ColLength, table.ColSpots},
	})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	// Intercept plus one coefficient per predictor.
	if len(fit.Terms) != 3 {
		t.Errorf("terms = %v, want 3 entries", fit.Terms)
	}
	if len(fit.Coef.Cols) != 3 || len(fit.Coef.Rows) != 1 {
		t.Errorf("coef table %dx%d, want 1x3", len(fit.Coef.Rows), len(fit.Coef.Cols))
	}
	if fit.NParams != 3 {
		t.Errorf("NParams = %d, want 3", fit.NParams)
	}
}

func TestFitBinomial_MortalityNegativeLength(t *testing.T) {
	data := table.GenerateMortality(1)
	fit, err := FitBinomial(data, model.Formula{
		Response:   table.ColMortality,
		Predictors: []string{table.ColLength},
	})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	lengthIdx := -1
	for j, term := range fit.Terms {
		if term == table.ColLength {
			lengthIdx = j
		}
	}
	if lengthIdx < 0 {
		t.Fatalf("length term missing from %v", fit.Terms)
	}
	if coef := fit.Coef.At(0, lengthIdx); coef >= 0 {
		t.Errorf("length coefficient = %v, want negative association with death", coef)
	}
	if math.IsNaN(fit.LogLik) || math.IsInf(fit.LogLik, 0) {
		t.Errorf("logLik = %v", fit.LogLik)
	}
	if want := -2*fit.LogLik + 2*float64(fit.NParams); math.Abs(fit.AIC-want) > 1e-9 {
		t.Errorf("AIC = %v, want %v", fit.AIC, want)
	}
	for j := range fit.Terms {
		if se := fit.StdErr.At(0, j); se <= 0 || math.IsNaN(se) {
			t.Errorf("standard error for %s = %v", fit.Terms[j], se)
		}
	}
}

func TestFitBinomial_BalancedPredictorHasZeroEffect(t *testing.T) {
	data := balancedBinary(t)
	full, err := FitBinomial(data, model.Formula{Response: "y", Predictors: []string{"x1", "x2"}})
	if err != nil {
		t.Fatalf("full fit failed: %v", err)
	}
	reduced, err := FitBinomial(data, model.Formula{Response: "y", Predictors: []string{"x1"}})
	if err != nil {
		t.Fatalf("reduced fit failed: %v", err)
	}

	x2Idx := -1
	for j, term := range full.Terms {
		if term == "x2" {
			x2Idx = j
		}
	}
	if math.Abs(full.Coef.At(0, x2Idx)) > 1e-5 {
		t.Errorf("x2 coefficient = %v, symmetry forces 0", full.Coef.At(0, x2Idx))
	}
	if math.Abs(full.LogLik-reduced.LogLik) > 1e-6 {
		t.Errorf("logLik differs: full %v vs reduced %v", full.LogLik, reduced.LogLik)
	}
}

func TestFitBinomial_CategoricalPredictor(t *testing.T) {
	tbl := table.New()
	_ = tbl.AddCategorical("group", []string{"a", "a", "a", "a", "b", "b", "b", "b", "a", "b", "a", "b"})
	_ = tbl.AddCategorical("y", []string{"no", "no", "yes", "no", "yes", "yes", "no", "yes", "no", "yes", "yes", "no"})

	fit, err := FitBinomial(tbl, model.Formula{Response: "y", Predictors: []string{"group"}})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if len(fit.Terms) != 2 || fit.Terms[1] != "group.b" {
		t.Errorf("terms = %v, want [(Intercept) group.b]", fit.Terms)
	}
}

func TestFitBinomial_DegenerateResponse(t *testing.T) {
	tbl := table.New()
	_ = tbl.AddNumeric("x", []float64{1, 2, 3, 4})
	_ = tbl.AddCategorical("y", []string{"no", "no", "no", "no"})

	_, err := FitBinomial(tbl, model.Formula{Response: "y", Predictors: []string{"x"}})
	if err == nil {
		t.Fatal("expected FitError for single-category response")
	}
	if errors.GetCode(err) != errors.CodeFitError {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeFitError)
	}
}

func TestFitBinomial_CollinearPredictors(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	double := make([]float64, len(x))
	for i, v := range x {
		double[i] = 2 * v
	}
	tbl := table.New()
	_ = tbl.AddNumeric("x", x)
	_ = tbl.AddNumeric("x2", double)
	_ = tbl.AddCategorical("y", []string{"no", "yes", "no", "yes", "no", "yes", "yes", "no"})

	_, err := FitBinomial(tbl, model.Formula{Response: "y", Predictors: []string{"x", "x2"}})
	if err == nil {
		t.Fatal("expected FitError for perfectly collinear predictors")
	}
	if errors.GetCode(err) != errors.CodeFitError {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeFitError)
	}
}

func TestFitBinomial_MissingResponseColumn(t *testing.T) {
	tbl := table.New()
	_ = tbl.AddNumeric("x", []float64{1, 2, 3})
	_, err := FitBinomial(tbl, model.Formula{Response: "y", Predictors: []string{"x"}})
	if err == nil {
		t.Fatal("expected error for missing response column")
	}
	if errors.GetCode(err) != errors.CodeMissingColumn {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeMissingColumn)
	}
}
