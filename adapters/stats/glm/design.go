package glm

import (
	"fmt"
	"strings"

	"logitlab/domain/model"
	"logitlab/domain/table"
	"logitlab/internal/errors"
)

// interceptTerm names the constant design column
const interceptTerm = "(Intercept)"

// design is a dense n x p model matrix with named terms
type design struct {
	Terms []string
	X     [][]float64
}

// buildDesign constructs the model matrix for the given predictors:
// an intercept, one column per numeric predictor, and treatment-coded
// dummy columns for every non-baseline level of a categorical predictor.
func buildDesign(t *table.Table, predictors []string) (*design, error) {
	n := t.NumRows()
	terms := []string{interceptTerm}
	cols := [][]float64{constantColumn(n)}

	for _, name := range predictors {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		switch col.Kind {
		case table.Numeric:
			terms = append(terms, name)
			cols = append(cols, col.Floats)
		case table.Categorical:
			levels := col.Levels()
			for _, lv := range levels[1:] {
				terms = append(terms, dummyTerm(name, lv))
				cols = append(cols, indicatorColumn(col.Labels, lv))
			}
		}
	}

	x := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = c[i]
		}
		x[i] = row
	}
	return &design{Terms: terms, X: x}, nil
}

// designForTerms rebuilds a model matrix for a prediction table using the
// term names recorded on a fitted model, so dummy coding follows the
// training levels rather than whatever order the new table happens to have.
func designForTerms(fit *model.Fit, t *table.Table) ([][]float64, error) {
	n := t.NumRows()
	cols := make([][]float64, 0, len(fit.Terms))

	for _, term := range fit.Terms {
		if term == interceptTerm {
			cols = append(cols, constantColumn(n))
			continue
		}
		name, level, isDummy := splitDummyTerm(fit.Formula.Predictors, term)
		col, err := t.Column(name)
		if err != nil {
			return nil, errors.Wrapf(err, "building prediction design for term %q", term)
		}
		if isDummy {
			if col.Kind != table.Categorical {
				return nil, errors.FitError(fmt.Sprintf(
					"term %q expects categorical column %q", term, name))
			}
			cols = append(cols, indicatorColumn(col.Labels, level))
			continue
		}
		if col.Kind != table.Numeric {
			return nil, errors.FitError(fmt.Sprintf(
				"term %q expects numeric column %q", term, name))
		}
		cols = append(cols, col.Floats)
	}

	x := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = c[i]
		}
		x[i] = row
	}
	return x, nil
}

// splitDummyTerm resolves a design term back to its predictor column and,
// for dummy terms, the encoded level.
func splitDummyTerm(predictors []string, term string) (name, level string, isDummy bool) {
	for _, p := range predictors {
		if term == p {
			return p, "", false
		}
		if strings.HasPrefix(term, p+".") {
			return p, term[len(p)+1:], true
		}
	}
	// Unknown terms surface later as missing columns.
	return term, "", false
}

func dummyTerm(name, level string) string {
	return name + "." + level
}

func constantColumn(n int) []float64 {
	c := make([]float64, n)
	for i := range c {
		c[i] = 1
	}
	return c
}

func indicatorColumn(labels []string, level string) []float64 {
	c := make([]float64, len(labels))
	for i, v := range labels {
		if v == level {
			c[i] = 1
		}
	}
	return c
}

// responseCategories validates the response column and returns its observed
// categories, baseline first.
func responseCategories(t *table.Table, response string) ([]string, []int, error) {
	col, err := t.Column(response)
	if err != nil {
		return nil, nil, err
	}
	if col.Kind != table.Categorical {
		return nil, nil, errors.FitError(fmt.Sprintf(
			"response column %q must be categorical", response))
	}
	levels := col.Levels()
	observed := make(map[string]bool, len(levels))
	for _, v := range col.Labels {
		observed[v] = true
	}
	if len(observed) < 2 {
		return nil, nil, errors.FitError(fmt.Sprintf(
			"response column %q has %d observed category(ies), need at least 2", response, len(observed)))
	}

	idx := make(map[string]int, len(levels))
	kept := make([]string, 0, len(levels))
	for _, lv := range levels {
		if observed[lv] {
			idx[lv] = len(kept)
			kept = append(kept, lv)
		}
	}
	y := make([]int, len(col.Labels))
	for i, v := range col.Labels {
		y[i] = idx[v]
	}
	return kept, y, nil
}
