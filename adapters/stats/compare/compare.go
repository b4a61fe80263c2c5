// Package compare implements nested model comparison: a likelihood-ratio
// test plus an AIC check, deciding whether a reduced model is an adequate
// simplification of a fuller one.
package compare

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"logitlab/domain/model"
	"logitlab/internal/errors"
)

// Decision states which model the comparator selected
type Decision string

const (
	KeepFull      Decision = "keep_full"
	PreferReduced Decision = "prefer_reduced"
)

// Result reports the comparison of a full model against a nested reduction
type Result struct {
	Full     model.Formula
	Reduced  model.Formula
	LRStat   float64
	DF       int
	PValue   float64
	AICFull  float64
	AICRed   float64
	Decision Decision
	Reason   string
}

// aicTol absorbs floating-point noise when comparing information criteria
const aicTol = 1e-9

// Nested compares two fits where reduced's predictor set is a strict
// subset of full's, both fit on the same data. The reduced model is
// preferred when the dropped terms are not significant at alpha or when it
// matches the full model's AIC; ties go to the simpler model.
func Nested(full, reduced *model.Fit, alpha float64) (*Result, error) {
	if err := checkComparable(full, reduced); err != nil {
		return nil, err
	}

	df := full.NParams - reduced.NParams
	if df <= 0 {
		return nil, errors.ComparisonError(fmt.Sprintf(
			"full model %s has no extra parameters over %s",
			full.Formula.String(), reduced.Formula.String()))
	}
	lr := 2 * (full.LogLik - reduced.LogLik)
	if lr < 0 {
		// A nested optimum can never beat the full optimum; tiny negative
		// values are numerical noise.
		lr = 0
	}
	chi := distuv.ChiSquared{K: float64(df)}
	pValue := chi.Survival(lr)

	res := &Result{
		Full:    full.Formula,
		Reduced: reduced.Formula,
		LRStat:  lr,
		DF:      df,
		PValue:  pValue,
		AICFull: full.AIC,
		AICRed:  reduced.AIC,
	}

	switch {
	case pValue > alpha:
		res.Decision = PreferReduced
		res.Reason = fmt.Sprintf(
			"dropped terms not significant (LR=%.4f, df=%d, p=%.4f > %.2f)", lr, df, pValue, alpha)
	case reduced.AIC <= full.AIC+aicTol:
		res.Decision = PreferReduced
		res.Reason = fmt.Sprintf(
			"reduced AIC %.4f <= full AIC %.4f", reduced.AIC, full.AIC)
	default:
		res.Decision = KeepFull
		res.Reason = fmt.Sprintf(
			"dropped terms significant (LR=%.4f, df=%d, p=%.4f) and AIC favors full model", lr, df, pValue)
	}
	return res, nil
}

func checkComparable(full, reduced *model.Fit) error {
	if full == nil || reduced == nil {
		return errors.ComparisonError("both models must be fitted")
	}
	if full.Family != reduced.Family {
		return errors.ComparisonError(fmt.Sprintf(
			"families differ: %s vs %s", full.Family, reduced.Family))
	}
	if full.NObs != reduced.NObs {
		return errors.ComparisonError(fmt.Sprintf(
			"models fit on different data: n=%d vs n=%d", full.NObs, reduced.NObs))
	}
	if !reduced.Formula.NestedIn(full.Formula) {
		return errors.ComparisonError(fmt.Sprintf(
			"%s is not nested in %s", reduced.Formula.String(), full.Formula.String()))
	}
	return nil
}
