package app

import (
	"fmt"

	"logitlab/adapters/stats/compare"
	"logitlab/adapters/stats/glm"
	"logitlab/adapters/viz"
	"logitlab/domain/model"
	"logitlab/domain/table"
	"logitlab/internal"
	"logitlab/internal/config"
	"logitlab/internal/errors"
)

// BinarySession runs the binary logistic pipeline: synthesize the mortality
// dataset, summarize it, fit the full and reduced models, compare them,
// and render the prediction curve with its confidence envelope. All state
// lives on the session; there is no ambient global workspace.
type BinarySession struct {
	cfg      *config.Config
	log      *internal.Logger
	renderer *viz.Renderer

	Data       *table.Table
	Full       *model.Fit
	Reduced    *model.Fit
	Comparison *compare.Result
	Selected   *model.Fit
	Band       viz.CurveBand
	PlotPaths  []string
}

// NewBinarySession creates a session over the given configuration
func NewBinarySession(cfg *config.Config, log *internal.Logger, renderer *viz.Renderer) *BinarySession {
	return &BinarySession{cfg: cfg, log: log, renderer: renderer}
}

// Run executes the pipeline end to end
func (s *BinarySession) Run() error {
	s.Data = table.GenerateMortality(s.cfg.Data.Seed)
	s.log.Info("generated mortality dataset: %d rows, columns %v", s.Data.NumRows(), s.Data.Names())

	if err := s.explore(); err != nil {
		return err
	}
	if err := s.fitAndCompare(); err != nil {
		return err
	}
	if err := s.predictAndPlot(); err != nil {
		return err
	}
	return nil
}

func (s *BinarySession) explore() error {
	summaries, err := table.Describe(s.Data, table.ColSpots, table.ColLength)
	if err != nil {
		return err
	}
	for _, sum := range summaries {
		s.log.Info("%s: n=%d mean=%.3f sd=%.3f min=%.3f q25=%.3f median=%.3f q75=%.3f max=%.3f",
			sum.Column, sum.Count, sum.Mean, sum.StdDev, sum.Min, sum.Q25, sum.Median, sum.Q75, sum.Max)
	}
	freq, err := table.Freq(s.Data, table.ColMortality)
	if err != nil {
		return err
	}
	for _, f := range freq {
		s.log.Info("%s=%s: %d", table.ColMortality, f.Level, f.Count)
	}

	if s.renderer == nil {
		return nil
	}
	for _, col := range []string{table.ColSpots, table.ColLength} {
		path, err := s.renderer.Histogram(s.Data, col, fmt.Sprintf("binary_hist_%s.png", col))
		if err != nil {
			return err
		}
		s.PlotPaths = append(s.PlotPaths, path)
	}
	paths, err := s.renderer.PairwisePanels(s.Data, []string{table.ColSpots, table.ColLength})
	if err != nil {
		return err
	}
	s.PlotPaths = append(s.PlotPaths, paths...)
	return nil
}

func (s *BinarySession) fitAndCompare() error {
	fullFormula := model.Formula{
		Response:   table.ColMortality,
		Predictors: []string{table.ColLength, table.ColSpots},
	}
	reducedFormula := model.Formula{
		Response:   table.ColMortality,
		Predictors: []string{table.ColLength},
	}

	full, err := glm.FitBinomial(s.Data, fullFormula)
	if err != nil {
		return errors.Wrapf(err, "fitting %s", fullFormula.String())
	}
	reduced, err := glm.FitBinomial(s.Data, reducedFormula)
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

func (s *BinarySession) predictAndPlot() error {
	grid := predictionGrid(s.Data)
	link, err := glm.PredictLink(s.Selected, grid)
	if err != nil {
		return err
	}

	gridLen, err := grid.Column(table.ColLength)
	if err != nil {
		return err
	}
	n := grid.NumRows()
	band := viz.CurveBand{
		X:     gridLen.Floats,
		Prob:  make([]float64, n),
		Lower: make([]float64, n),
		Upper: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		eta, se := link.Eta[i][0], link.SE[i][0]
		band.Prob[i] = glm.InvLogit(eta)
		band.Lower[i] = glm.InvLogit(eta - 1.96*se)
		band.Upper[i] = glm.InvLogit(eta + 1.96*se)
	}
	s.Band = band

	if s.renderer == nil {
		return nil
	}
	obsX, obsY, err := observedOutcomes(s.Data)
	if err != nil {
		return err
	}
	path, err := s.renderer.RegressionCurve(band, obsX, obsY, table.ColLength, "binary_fit.png")
	if err != nil {
		return err
	}
	s.PlotPaths = append(s.PlotPaths, path)
	return nil
}

// predictionGrid builds a fine length grid spanning the observed range,
// holding spots at its mean so either candidate model can be queried.
func predictionGrid(data *table.Table) *table.Table {
	const points = 91
	lengths := make([]float64, points)
	for i := range lengths {
		lengths[i] = 10 + float64(i)
	}
	meanSpots := 0.0
	if col, err := data.Column(table.ColSpots); err == nil {
		for _, v := range col.Floats {
			meanSpots += v
		}
		meanSpots /= float64(len(col.Floats))
	}
	spots := make([]float64, points)
	for i := range spots {
		spots[i] = meanSpots
	}
	grid := table.New()
	_ = grid.AddNumeric(table.ColLength, lengths)
	_ = grid.AddNumeric(table.ColSpots, spots)
	return grid
}

func observedOutcomes(data *table.Table) (x, y []float64, err error) {
	lengthCol, err := data.Column(table.ColLength)
	if err != nil {
		return nil, nil, err
	}
	mortCol, err := data.Column(table.ColMortality)
	if err != nil {
		return nil, nil, err
	}
	y = make([]float64, len(mortCol.Labels))
	for i, v := range mortCol.Labels {
		if v == table.OutcomeDied {
			y[i] = 1
		}
	}
	return lengthCol.Floats, y, nil
}
