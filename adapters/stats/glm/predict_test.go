package glm

import (
	"math"
	"testing"

	"logitlab/domain/model"
	"logitlab/domain/table"
)

func fitMortalityReduced(t *testing.T) (*model.Fit, *table.Table) {
	t.Helper()
	data := table.GenerateMortality(1)
	fit, err := FitBinomial(data, model.Formula{
		Response:   table.ColMortality,
		Predictors: []string{table.ColLength},
	})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	return fit, data
}

func lengthGrid(t *testing.T) *table.Table {
	t.Helper()
	vals := make([]float64, 19)
	for i := range vals {
		vals[i] = 10 + float64(i)*5
	}
	grid := table.New()
	if err := grid.AddNumeric(table.ColLength, vals); err != nil {
		t.Fatal(err)
	}
	return grid
}

func TestPredictLink_Determinism(t *testing.T) {
	fit, _ := fitMortalityReduced(t)
	grid := lengthGrid(t)

	first, err := PredictLink(fit, grid)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	second, err := PredictLink(fit, grid)
	if err != nil {
		t.Fatalf("repeat predict failed: %v", err)
	}
	for i := range first.Eta {
		if first.Eta[i][0] != second.Eta[i][0] || first.SE[i][0] != second.SE[i][0] {
			t.Fatalf("row %d: predictions differ across identical calls", i)
		}
	}
	for i := range first.SE {
		if first.SE[i][0] <= 0 {
			t.Errorf("row %d: standard error %v, want positive", i, first.SE[i][0])
		}
	}
}

func TestPredictProb_MatchesLink(t *testing.T) {
	fit, _ := fitMortalityReduced(t)
	grid := lengthGrid(t)

	link, err := PredictLink(fit, grid)
	if err != nil {
		t.Fatal(err)
	}
	probs, err := PredictProb(fit, grid)
	if err != nil {
		t.Fatal(err)
	}

	if probs.Categories[0] != table.OutcomeSurvived || probs.Categories[1] != table.OutcomeDied {
		t.Fatalf("categories = %v", probs.Categories)
	}
	for i, row := range probs.Probs {
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("row %d: probabilities sum to %v", i, sum)
		}
		want := InvLogit(link.Eta[i][0])
		if math.Abs(row[1]-want) > 1e-12 {
			t.Errorf("row %d: P(died) = %v, inverse-logit of link = %v", i, row[1], want)
		}
	}
}

func TestPredictClass_MatchesArgmax(t *testing.T) {
	data := syntheticPrograms(t, 400, 5)
	fit, err := FitMultinomial(data, model.Formula{Response: "choice2", Predictors: []string{"x"}})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	classes, err := PredictClass(fit, data)
	if err != nil {
		t.Fatal(err)
	}
	probs, err := PredictProb(fit, data)
	if err != nil {
		t.Fatal(err)
	}

	if len(classes) != data.NumRows() {
		t.Fatalf("classes length = %d, want %d", len(classes), data.NumRows())
	}
	for i, row := range probs.Probs {
		best := 0
		for c := 1; c < len(row); c++ {
			// Strict inequality keeps ties on the first-listed category.
			if row[c] > row[best] {
				best = c
			}
		}
		if classes[i] != probs.Categories[best] {
			t.Errorf("row %d: class %q, argmax category %q", i, classes[i], probs.Categories[best])
		}
	}
}

func TestPredict_MissingGridColumn(t *testing.T) {
	fit, _ := fitMortalityReduced(t)
	grid := table.New()
	_ = grid.AddNumeric("unrelated", []float64{1, 2, 3})

	if _, err := PredictLink(fit, grid); err == nil {
		t.Fatal("expected error for grid without the model's predictor column")
	}
}
