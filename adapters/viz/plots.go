// Package viz renders the analysis figures: exploratory histograms and
// scatter panels, the binary regression curve with its confidence
// envelope, and faceted multinomial probability curves. Rendering is pure
// presentation; nothing here feeds back into fitting.
package viz

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"logitlab/domain/table"
	"logitlab/internal/errors"
)

// Renderer writes PNG figures into a single output directory
type Renderer struct {
	Dir string
}

// NewRenderer creates a renderer rooted at dir, creating it if needed
func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.PlotError(fmt.Sprintf("creating output directory %q", dir), err)
	}
	return &Renderer{Dir: dir}, nil
}

func (r *Renderer) save(p *plot.Plot, name string) (string, error) {
	path := filepath.Join(r.Dir, name)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", errors.PlotError(fmt.Sprintf("saving plot %q", path), err)
	}
	return path, nil
}

// Histogram renders the distribution of a numeric column
func (r *Renderer) Histogram(t *table.Table, column, name string) (string, error) {
	col, err := t.Column(column)
	if err != nil {
		return "", err
	}
	if col.Kind != table.Numeric {
		return "", errors.PlotError(fmt.Sprintf("histogram needs a numeric column, %q is categorical", column), nil)
	}

	h, err := plotter.NewHist(plotter.Values(col.Floats), 12)
	if err != nil {
		return "", errors.PlotError(fmt.Sprintf("building histogram for %q", column), err)
	}
	p := plot.New()
	p.Title.Text = "Distribution of " + column
	p.X.Label.Text = column
	p.Y.Label.Text = "count"
	p.Add(h)
	return r.save(p, name)
}

// Scatter renders one numeric column against another
func (r *Renderer) Scatter(t *table.Table, xCol, yCol, name string) (string, error) {
	xc, err := t.Column(xCol)
	if err != nil {
		return "", err
	}
	yc, err := t.Column(yCol)
	if err != nil {
		return "", err
	}
	if xc.Kind != table.Numeric || yc.Kind != table.Numeric {
		return "", errors.PlotError(fmt.Sprintf("scatter needs numeric columns %q and %q", xCol, yCol), nil)
	}

	pts := make(plotter.XYs, t.NumRows())
	for i := range pts {
		pts[i].X = xc.Floats[i]
		pts[i].Y = yc.Floats[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return "", errors.PlotError(fmt.Sprintf("building scatter %q vs %q", yCol, xCol), err)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", yCol, xCol)
	p.X.Label.Text = xCol
	p.Y.Label.Text = yCol
	p.Add(s)
	return r.save(p, name)
}

// PairwisePanels renders a scatter panel for every ordered pair of the
// given numeric columns, one file per pair.
func (r *Renderer) PairwisePanels(t *table.Table, columns []string) ([]string, error) {
	var paths []string
	for i, xc := range columns {
		for j, yc := range columns {
			if i == j {
				continue
			}
			name := fmt.Sprintf("pairs_%s_%s.png", yc, xc)
			path, err := r.Scatter(t, xc, yc, name)
			if err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// CurveBand is a fitted probability curve with a confidence envelope over
// a single numeric predictor.
type CurveBand struct {
	X     []float64
	Prob  []float64
	Lower []float64
	Upper []float64
}

// RegressionCurve renders a binary-response probability curve with its
// confidence envelope, overlaying the observed 0/1 outcomes.
func (r *Renderer) RegressionCurve(band CurveBand, obsX, obsY []float64, xLabel, name string) (string, error) {
	p := plot.New()
	p.Title.Text = "Fitted probability with 95% envelope"
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "probability"
	p.Y.Min, p.Y.Max = -0.05, 1.05

	center, err := plotter.NewLine(toXYs(band.X, band.Prob))
	if err != nil {
		return "", errors.PlotError("building fitted curve", err)
	}
	center.Color = plotutil.Color(0)

	lower, err := plotter.NewLine(toXYs(band.X, band.Lower))
	if err != nil {
		return "", errors.PlotError("building lower envelope", err)
	}
	upper, err := plotter.NewLine(toXYs(band.X, band.Upper))
	if err != nil {
		return "", errors.PlotError("building upper envelope", err)
	}
	dashes := []vg.Length{vg.Points(4), vg.Points(2)}
	lower.Color = plotutil.Color(1)
	lower.Dashes = dashes
	upper.Color = plotutil.Color(1)
	upper.Dashes = dashes

	obs, err := plotter.NewScatter(toXYs(obsX, obsY))
	if err != nil {
		return "", errors.PlotError("building observation overlay", err)
	}

	p.Add(center, lower, upper, obs)
	p.Legend.Add("fitted", center)
	p.Legend.Add("95% band", lower)
	return r.save(p, name)
}

// ProbPoint is one long-form probability observation keyed by predictor
// value, group and response category.
type ProbPoint struct {
	X        float64
	Group    string
	Category string
	Prob     float64
}

// FacetedCurves renders one panel per group, with a probability curve per
// response category, from long-form points. Returns the saved paths keyed
// by group.
func (r *Renderer) FacetedCurves(points []ProbPoint, xLabel, prefix string) (map[string]string, error) {
	byGroup := make(map[string]map[string]plotter.XYs)
	var groups, categories []string
	for _, pt := range points {
		if _, ok := byGroup[pt.Group]; !ok {
			byGroup[pt.Group] = make(map[string]plotter.XYs)
			groups = append(groups, pt.Group)
		}
		if _, ok := byGroup[pt.Group][pt.Category]; !ok {
			byGroup[pt.Group][pt.Category] = plotter.XYs{}
			if !contains(categories, pt.Category) {
				categories = append(categories, pt.Category)
			}
		}
		byGroup[pt.Group][pt.Category] = append(byGroup[pt.Group][pt.Category],
			plotter.XY{X: pt.X, Y: pt.Prob})
	}

	paths := make(map[string]string, len(groups))
	for _, group := range groups {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Predicted probabilities (%s)", group)
		p.X.Label.Text = xLabel
		p.Y.Label.Text = "probability"
		p.Y.Min, p.Y.Max = 0, 1

		for ci, cat := range categories {
			xys, ok := byGroup[group][cat]
			if !ok {
				continue
			}
			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, errors.PlotError(fmt.Sprintf("building curve for %s/%s", group, cat), err)
			}
			line.Color = plotutil.Color(ci)
			p.Add(line)
			p.Legend.Add(cat, line)
		}

		path, err := r.save(p, fmt.Sprintf("%s_%s.png", prefix, group))
		if err != nil {
			return nil, err
		}
		paths[group] = path
	}
	return paths, nil
}

func toXYs(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
