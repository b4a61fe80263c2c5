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
	irlsMaxIter = 50
	irlsTol     = 1e-10
	minWeight   = 1e-10
)

// FitBinomial fits a binary logistic regression by iteratively reweighted
// least squares. The response column must be categorical with exactly two
// observed categories; the first level is the reference and coefficients
// describe the log-odds of the second.
func FitBinomial(t *table.Table, formula model.Formula) (*model.Fit, error) {
	categories, y, err := responseCategories(t, formula.Response)
	if err != nil {
		return nil, err
	}
	if len(categories) != 2 {
		return nil, errors.FitError(fmt.Sprintf(
			"binomial family needs a two-category response, column %q has %d", formula.Response, len(categories)))
	}
	des, err := buildDesign(t, formula.Predictors)
	if err != nil {
		return nil, err
	}

	n := len(des.X)
	p := len(des.Terms)
	x := mat.NewDense(n, p, nil)
	for i, row := range des.X {
		x.SetRow(i, row)
	}
	yv := make([]float64, n)
	for i, yi := range y {
		yv[i] = float64(yi)
	}

	beta := make([]float64, p)
	eta := make([]float64, n)
	mu := make([]float64, n)
	w := make([]float64, n)
	z := make([]float64, n)
	var xtwx mat.Dense
	logLik := math.Inf(-1)

	for iter := 0; iter < irlsMaxIter; iter++ {
		for i := 0; i < n; i++ {
			eta[i] = dot(des.X[i], beta)
			mu[i] = invLogit(eta[i])
			w[i] = math.Max(mu[i]*(1-mu[i]), minWeight)
			z[i] = eta[i] + (yv[i]-mu[i])/w[i]
		}

		wd := mat.NewDiagDense(n, w)
		zv := mat.NewVecDense(n, z)
		xtwx.Reset()
		xtwx.Product(x.T(), wd, x)
		var xtwz mat.VecDense
		xtwz.MulVec(wd, zv)
		var rhs mat.VecDense
		rhs.MulVec(x.T(), &xtwz)

		var next mat.VecDense
		if err := next.SolveVec(&xtwx, &rhs); err != nil {
			return nil, errors.FitError(fmt.Sprintf(
				"design matrix for %s is rank-deficient: %v", formula.String(), err))
		}
		for j := 0; j < p; j++ {
			beta[j] = next.AtVec(j)
		}

		ll := binomialLogLik(des.X, yv, beta)
		if math.Abs(ll-logLik) < irlsTol {
			logLik = ll
			break
		}
		logLik = ll
	}
	if math.IsInf(logLik, -1) || math.IsNaN(logLik) {
		return nil, errors.FitError(fmt.Sprintf(
			"binomial fit for %s did not converge", formula.String()))
	}

	// Recompute the information matrix at the converged coefficients before
	// inverting it for the covariance.
	for i := 0; i < n; i++ {
		eta[i] = dot(des.X[i], beta)
		mu[i] = invLogit(eta[i])
		w[i] = math.Max(mu[i]*(1-mu[i]), minWeight)
	}
	xtwx.Reset()
	xtwx.Product(x.T(), mat.NewDiagDense(n, w), x)

	var covDense mat.Dense
	if err := covDense.Inverse(&xtwx); err != nil {
		return nil, errors.FitError(fmt.Sprintf(
			"information matrix for %s is singular: %v", formula.String(), err))
	}
	cov := denseToSlices(&covDense)

	contrast := categories[1]
	coef := model.NewCoefTable([]string{contrast}, des.Terms)
	se := model.NewCoefTable([]string{contrast}, des.Terms)
	for j := 0; j < p; j++ {
		coef.Set(0, j, beta[j])
		se.Set(0, j, math.Sqrt(cov[j][j]))
	}

	return &model.Fit{
		ID:         core.ModelID(core.NewID()),
		Formula:    formula,
		Family:     model.Binomial,
		Categories: categories,
		Terms:      des.Terms,
		Coef:       coef,
		StdErr:     se,
		Cov:        cov,
		LogLik:     logLik,
		AIC:        -2*logLik + 2*float64(p),
		NObs:       n,
		NParams:    p,
	}, nil
}

func binomialLogLik(x [][]float64, y, beta []float64) float64 {
	ll := 0.0
	for i := range x {
		eta := dot(x[i], beta)
		// log(1+exp(eta)) computed stably
		ll += y[i]*eta - log1pExp(eta)
	}
	return ll
}

func log1pExp(v float64) float64 {
	if v > 35 {
		return v
	}
	return math.Log1p(math.Exp(v))
}

func invLogit(eta float64) float64 {
	return 1.0 / (1.0 + math.Exp(-eta))
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func denseToSlices(d *mat.Dense) [][]float64 {
	r, c := d.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = d.At(i, j)
		}
		out[i] = row
	}
	return out
}
