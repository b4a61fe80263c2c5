package app

import (
	"logitlab/adapters/ingest"
	"logitlab/adapters/stats/compare"
	"logitlab/adapters/stats/glm"
	"logitlab/adapters/stats/inference"
	"logitlab/adapters/viz"
	"logitlab/domain/model"
	"logitlab/domain/table"
	"logitlab/internal"
	"logitlab/internal/config"
	"logitlab/internal/errors"
)

// Column and level names of the student program-choice dataset
const (
	ColProg     = "prog"
	ColProg2    = "prog2"
	ColSchType  = "schtyp"
	ColWrite    = "write"
	BaselineCat = "academic"
)

// MultinomialSession runs the program-choice pipeline: load the Stata
// dataset, summarize it, relevel the response so "academic" is the
// baseline, fit and compare the candidate multinomial models, derive the
// manual Wald tables, and render faceted probability curves.
type MultinomialSession struct {
	cfg      *config.Config
	log      *internal.Logger
	renderer *viz.Renderer

	Data       *table.Table
	Full       *model.Fit
	Reduced    *model.Fit
	Comparison *compare.Result
	Selected   *model.Fit
	Wald       *inference.WaldResult
	Classes    []string
	Probs      *glm.ProbPrediction
	FacetPaths map[string]string
}

// NewMultinomialSession creates a session over the given configuration
func NewMultinomialSession(cfg *config.Config, log *internal.Logger, renderer *viz.Renderer) *MultinomialSession {
	return &MultinomialSession{cfg: cfg, log: log, renderer: renderer}
}

// Run executes the pipeline end to end
func (s *MultinomialSession) Run() error {
	if err := s.load(); err != nil {
		return err
	}
	if err := s.explore(); err != nil {
		return err
	}
	if err := s.fitAndCompare(); err != nil {
		return err
	}
	if err := s.inferAndPredict(); err != nil {
		return err
	}
	return nil
}

func (s *MultinomialSession) load() error {
	loader, err := ingest.ForPath(s.cfg.Data.StataFile)
	if err != nil {
		return err
	}
	data, err := loader.Load(s.cfg.Data.StataFile)
	if err != nil {
		return err
	}
	s.Data = data
	s.log.Info("loaded %q: %d rows, columns %v", s.cfg.Data.StataFile, data.NumRows(), data.Names())
	return nil
}

func (s *MultinomialSession) explore() error {
	summaries, err := table.Describe(s.Data, ColWrite)
	if err != nil {
		return err
	}
	for _, sum := range summaries {
		s.log.Info("%s: n=%d mean=%.3f sd=%.3f median=%.3f", sum.Column, sum.Count, sum.Mean, sum.StdDev, sum.Median)
	}
	for _, col := range []string{ColProg, ColSchType} {
		freq, err := table.Freq(s.Data, col)
		if err != nil {
			return err
		}
		for _, f := range freq {
			s.log.Info("%s=%s: %d", col, f.Level, f.Count)
		}
	}
	ct, err := table.Cross(s.Data, ColProg, ColSchType)
	if err != nil {
		return err
	}
	s.log.Info("contingency table:\n%s", ct.String())

	if s.renderer != nil {
		if _, err := s.renderer.Histogram(s.Data, ColWrite, "multinom_hist_write.png"); err != nil {
			return err
		}
	}
	return nil
}

func (s *MultinomialSession) fitAndCompare() error {
	if err := s.Data.Relevel(ColProg, BaselineCat, ColProg2); err != nil {
		return errors.Wrapf(err, "releveling %s to baseline %q", ColProg, BaselineCat)
	}

	fullFormula := model.Formula{
		Response:   ColProg2,
		Predictors: []string{ColSchType, ColWrite},
	}
	reducedFormula := model.Formula{
		Response:   ColProg2,
		Predictors: []string{ColWrite},
	}

	full, err := glm.FitMultinomial(s.Data, fullFormula)
	if err != nil {
		return errors.Wrapf(err, "fitting %s", fullFormula.String())
	}
	reduced, err := glm.FitMultinomial(s.Data, reducedFormula)
	if err != nil {
		return errors.Wrapf(err, "fitting %s", reducedFormula.String())
	}
	s.Full, s.Reduced = full, reduced
	s.log.Info("full model:\n%s", full.Summary())
	s.log.Info("reduced model:\n%s", reduced.Summary())

	res, err := compare.Nested(full, reduced, s.cfg.Analysis.Alpha)
	if err != nil {
		return err
	}
	s.Comparison = res
	s.Selected = full
	if res.Decision == compare.PreferReduced {
		s.Selected = reduced
	}
	s.log.Info("model comparison: %s (%s)", res.Decision, res.Reason)
	return nil
}

func (s *MultinomialSession) inferAndPredict() error {
	wald, err := inference.Wald(s.Selected.Coef, s.Selected.StdErr)
	if err != nil {
		return err
	}
	s.Wald = wald
	for i, row := range wald.Z.Rows {
		for j, col := range wald.Z.Cols {
			s.log.Info("wald %s/%s: z=%.4f p=%.4f", row, col, wald.Z.At(i, j), wald.P.At(i, j))
		}
	}

	classes, err := glm.PredictClass(s.Selected, s.Data)
	if err != nil {
		return err
	}
	s.Classes = classes

	grid := programGrid(s.Data)
	probs, err := glm.PredictProb(s.Selected, grid)
	if err != nil {
		return err
	}
	s.Probs = probs

	if s.renderer == nil {
		return nil
	}
	points, err := reshapeLong(grid, probs)
	if err != nil {
		return err
	}
	paths, err := s.renderer.FacetedCurves(points, ColWrite, "multinom_probs")
	if err != nil {
		return err
	}
	s.FacetPaths = paths
	return nil
}

// programGrid crosses writing scores 30..70 with every observed school
// type. The grid only queries the fitted model; it never feeds back into
// fitting.
func programGrid(data *table.Table) *table.Table {
	schoolTypes := []string{"public", "private"}
	if col, err := data.Column(ColSchType); err == nil {
		schoolTypes = col.Levels()
	}

	var writes []float64
	var types []string
	for _, st := range schoolTypes {
		for w := 30; w <= 70; w++ {
			writes = append(writes, float64(w))
			types = append(types, st)
		}
	}
	grid := table.New()
	_ = grid.AddNumeric(ColWrite, writes)
	_ = grid.AddCategorical(ColSchType, types)
	return grid
}

// reshapeLong flattens the probability table into long form keyed by
// writing score, school type and program category for faceted plotting.
func reshapeLong(grid *table.Table, probs *glm.ProbPrediction) ([]viz.ProbPoint, error) {
	writeCol, err := grid.Column(ColWrite)
	if err != nil {
		return nil, err
	}
	typeCol, err := grid.Column(ColSchType)
	if err != nil {
		return nil, err
	}
	var points []viz.ProbPoint
	for i, row := range probs.Probs {
		for c, cat := range probs.Categories {
			points = append(points, viz.ProbPoint{
				X:        writeCol.Floats[i],
				Group:    typeCol.Labels[i],
				Category: cat,
				Prob:     row[c],
			})
		}
	}
	return points, nil
}
