// Package inference derives z-scores and two-tailed p-values from a fitted
// model's coefficient and standard-error tables. The z-score table is bound
// explicitly before any p-value is computed; shape mismatches are rejected
// up front rather than surfacing mid-calculation.
package inference

import (
	"gonum.org/v1/gonum/stat/distuv"

	"logitlab/domain/model"
	"logitlab/internal/errors"
)

// WaldResult pairs the z-score table with its p-value table, aligned by
// row and column with the input coefficient table.
type WaldResult struct {
	Z *model.CoefTable
	P *model.CoefTable
}

// Wald computes elementwise z = coef/se and two-tailed p = 2(1 - Phi(|z|))
// under a standard normal reference. Returns a DimensionError when the two
// tables do not align.
func Wald(coef, se *model.CoefTable) (*WaldResult, error) {
	if coef == nil {
		return nil, errors.DimensionError("coefficient table is nil")
	}
	if !coef.SameShape(se) {
		return nil, coef.ShapeError(se, "coefficient/standard-error")
	}

	z := model.NewCoefTable(coef.Rows, coef.Cols)
	for i := range coef.Rows {
		for j := range coef.Cols {
			z.Set(i, j, coef.At(i, j)/se.At(i, j))
		}
	}

	p := model.NewCoefTable(coef.Rows, coef.Cols)
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	for i := range z.Rows {
		for j := range z.Cols {
			zv := z.At(i, j)
			if zv < 0 {
				zv = -zv
			}
			p.Set(i, j, 2*norm.Survival(zv))
		}
	}
	return &WaldResult{Z: z, P: p}, nil
}
