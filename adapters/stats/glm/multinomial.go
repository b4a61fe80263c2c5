package glm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"logitlab/domain/core"
	"logitlab/domain/model"
	"logitlab/domain/table"
	"logitlab/internal/errors"
)

const (
	newtonMaxIter   = 100
	newtonTol       = 1e-10
	maxStepHalvings = 12
)

// FitMultinomial fits a multinomial logistic regression by Newton-Raphson
// on the stacked coefficient vector. The first observed response level is
// the baseline; each remaining category gets one row of coefficients
// describing its log-odds against the baseline.
func FitMultinomial(t *table.Table, formula model.Formula) (*model.Fit, error) {
	categories, y, err := responseCategories(t, formula.Response)
	if err != nil {
		return nil, err
	}
	des, err := buildDesign(t, formula.Predictors)
	if err != nil {
		return nil, err
	}

	n := len(des.X)
	p := len(des.Terms)
	k := len(categories) - 1 // contrasts against the baseline
	dim := k * p

	theta := make([]float64, dim)
	probs := make([][]float64, n)
	for i := range probs {
		probs[i] = make([]float64, k+1)
	}

	logLik := multinomialLogLik(des.X, y, theta, k, p)
	grad := make([]float64, dim)
	info := mat.NewDense(dim, dim, nil)

	for iter := 0; iter < newtonMaxIter; iter++ {
		computeProbs(des.X, theta, k, p, probs)
		scoreAndInfo(des.X, y, probs, k, p, grad, info)

		var step mat.VecDense
		if err := step.SolveVec(info, mat.NewVecDense(dim, grad)); err != nil {
			return nil, errors.FitError(fmt.Sprintf(
				"design matrix for %s is rank-deficient: %v", formula.String(), err))
		}

		// Newton step with halving if the likelihood does not improve.
		scale := 1.0
		var next []float64
		var nextLL float64
		improved := false
		for h := 0; h < maxStepHalvings; h++ {
			next = make([]float64, dim)
			for j := 0; j < dim; j++ {
				next[j] = theta[j] + scale*step.AtVec(j)
			}
			nextLL = multinomialLogLik(des.X, y, next, k, p)
			if nextLL >= logLik-newtonTol {
				improved = true
				break
			}
			scale /= 2
		}
		if !improved {
			return nil, errors.FitError(fmt.Sprintf(
				"multinomial fit for %s did not converge", formula.String()))
		}

		done := math.Abs(nextLL-logLik) < newtonTol
		theta = next
		logLik = nextLL
		if done {
			break
		}
	}

	computeProbs(des.X, theta, k, p, probs)
	scoreAndInfo(des.X, y, probs, k, p, grad, info)
	var covDense mat.Dense
	if err := covDense.Inverse(info); err != nil {
		return nil, errors.FitError(fmt.Sprintf(
			"information matrix for %s is singular: %v", formula.String(), err))
	}
	cov := denseToSlices(&covDense)

	rows := make([]string, k)
	copy(rows, categories[1:])
	coef := model.NewCoefTable(rows, des.Terms)
	se := model.NewCoefTable(rows, des.Terms)
	for c := 0; c < k; c++ {
		for j := 0; j < p; j++ {
			idx := c*p + j
			coef.Set(c, j, theta[idx])
			se.Set(c, j, math.Sqrt(cov[idx][idx]))
		}
	}

	return &model.Fit{
		ID:         core.ModelID(core.NewID()),
		Formula:    formula,
		Family:     model.Multinomial,
		Categories: categories,
		Terms:      des.Terms,
		Coef:       coef,
		StdErr:     se,
		Cov:        cov,
		LogLik:     logLik,
		AIC:        -2*logLik + 2*float64(dim),
		NObs:       n,
		NParams:    dim,
	}, nil
}

// computeProbs fills probs with per-category probabilities: softmax over
// the contrast linear predictors with the baseline pinned at zero.
func computeProbs(x [][]float64, theta []float64, k, p int, probs [][]float64) {
	for i, xi := range x {
		maxEta := 0.0
		etas := probs[i] // reuse the row as scratch for the exponents
		etas[0] = 0
		for c := 0; c < k; c++ {
			eta := dot(xi, theta[c*p:(c+1)*p])
			etas[c+1] = eta
			if eta > maxEta {
				maxEta = eta
			}
		}
		sum := 0.0
		for c := 0; c <= k; c++ {
			etas[c] = math.Exp(etas[c] - maxEta)
			sum += etas[c]
		}
		for c := 0; c <= k; c++ {
			etas[c] /= sum
		}
	}
}

// scoreAndInfo computes the score vector and the observed information
// matrix (negative Hessian) at the current probabilities.
func scoreAndInfo(x [][]float64, y []int, probs [][]float64, k, p int, grad []float64, info *mat.Dense) {
	for j := range grad {
		grad[j] = 0
	}
	info.Zero()

	for i, xi := range x {
		pi := probs[i]
		for c := 0; c < k; c++ {
			yc := 0.0
			if y[i] == c+1 {
				yc = 1
			}
			resid := yc - pi[c+1]
			for a := 0; a < p; a++ {
				grad[c*p+a] += xi[a] * resid
			}
			for l := c; l < k; l++ {
				wcl := pi[c+1] * pi[l+1]
				if l == c {
					wcl = pi[c+1] * (1 - pi[c+1])
				} else {
					wcl = -wcl
				}
				for a := 0; a < p; a++ {
					base := xi[a] * wcl
					for b := 0; b < p; b++ {
						v := base * xi[b]
						info.Set(c*p+a, l*p+b, info.At(c*p+a, l*p+b)+v)
						if l != c {
							info.Set(l*p+b, c*p+a, info.At(l*p+b, c*p+a)+v)
						}
					}
				}
			}
		}
	}
}

func multinomialLogLik(x [][]float64, y []int, theta []float64, k, p int) float64 {
	ll := 0.0
	for i, xi := range x {
		maxEta := 0.0
		etas := make([]float64, k+1)
		for c := 0; c < k; c++ {
			etas[c+1] = dot(xi, theta[c*p:(c+1)*p])
			if etas[c+1] > maxEta {
				maxEta = etas[c+1]
			}
		}
		sum := 0.0
		for c := 0; c <= k; c++ {
			sum += math.Exp(etas[c] - maxEta)
		}
		ll += etas[y[i]] - maxEta - math.Log(sum)
	}
	return ll
}
