package glm

import (
	"math"

	"logitlab/domain/model"
	"logitlab/domain/table"
)

// LinkPrediction holds link-scale predictions with standard errors, one
// column per non-baseline contrast. Binomial fits have a single contrast.
type LinkPrediction struct {
	Contrasts []string
	// Eta and SE are indexed [row][contrast].
	Eta [][]float64
	SE  [][]float64
}

// ProbPrediction holds per-category probabilities for each input row
type ProbPrediction struct {
	Categories []string
	// Probs is indexed [row][category], aligned with Categories.
	Probs [][]float64
}

// PredictLink evaluates the fitted model on a new predictor table on the
// link scale, with a standard error per prediction from the parameter
// covariance. The model is not mutated and the output is deterministic.
func PredictLink(fit *model.Fit, t *table.Table) (*LinkPrediction, error) {
	x, err := designForTerms(fit, t)
	if err != nil {
		return nil, err
	}
	p := len(fit.Terms)
	k := len(fit.Coef.Rows)

	out := &LinkPrediction{
		Contrasts: append([]string(nil), fit.Coef.Rows...),
		Eta:       make([][]float64, len(x)),
		SE:        make([][]float64, len(x)),
	}
	for i, xi := range x {
		out.Eta[i] = make([]float64, k)
		out.SE[i] = make([]float64, k)
		for c := 0; c < k; c++ {
			out.Eta[i][c] = dot(xi, fit.Coef.Values[c])
			out.SE[i][c] = math.Sqrt(quadraticForm(xi, fit.Cov, c*p))
		}
	}
	return out, nil
}

// quadraticForm computes x' S x over the p x p covariance block starting at
// offset on both axes.
func quadraticForm(x []float64, cov [][]float64, offset int) float64 {
	s := 0.0
	for a := range x {
		row := cov[offset+a]
		for b := range x {
			s += x[a] * row[offset+b] * x[b]
		}
	}
	return s
}

// PredictProb evaluates per-category probabilities for each row of a new
// predictor table. For binomial fits this is the inverse-logit pair; for
// multinomial fits the softmax over contrasts with the baseline at zero.
func PredictProb(fit *model.Fit, t *table.Table) (*ProbPrediction, error) {
	x, err := designForTerms(fit, t)
	if err != nil {
		return nil, err
	}
	k := len(fit.Coef.Rows)

	out := &ProbPrediction{
		Categories: append([]string(nil), fit.Categories...),
		Probs:      make([][]float64, len(x)),
	}
	for i, xi := range x {
		probs := make([]float64, k+1)
		maxEta := 0.0
		for c := 0; c < k; c++ {
			probs[c+1] = dot(xi, fit.Coef.Values[c])
			if probs[c+1] > maxEta {
				maxEta = probs[c+1]
			}
		}
		sum := 0.0
		for c := 0; c <= k; c++ {
			probs[c] = math.Exp(probs[c] - maxEta)
			sum += probs[c]
		}
		for c := 0; c <= k; c++ {
			probs[c] /= sum
		}
		out.Probs[i] = probs
	}
	return out, nil
}

// PredictClass returns the most probable category per row, with ties broken
// toward the first-listed category.
func PredictClass(fit *model.Fit, t *table.Table) ([]string, error) {
	probs, err := PredictProb(fit, t)
	if err != nil {
		return nil, err
	}
	classes := make([]string, len(probs.Probs))
	for i, row := range probs.Probs {
		best := 0
		for c := 1; c < len(row); c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		classes[i] = probs.Categories[best]
	}
	return classes, nil
}

// InvLogit maps a link-scale value back to the probability scale
func InvLogit(eta float64) float64 {
	return invLogit(eta)
}
