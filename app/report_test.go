package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logitlab/adapters/stats/compare"
	"logitlab/adapters/stats/glm"
	"logitlab/adapters/stats/inference"
	"logitlab/domain/model"
	"logitlab/domain/table"
)

func TestReport_Write(t *testing.T) {
	data := table.GenerateMortality(1)
	full, err := glm.FitBinomial(data, model.Formula{
		Response:   table.ColMortality,
		Predictors: []string{table.ColLength, table.ColSpots},
	})
	require.NoError(t, err)
	reduced, err := glm.FitBinomial(data, model.Formula{
		Response:   table.ColMortality,
		Predictors: []string{table.ColLength},
	})
	require.NoError(t, err)
	res, err := compare.Nested(full, reduced, 0.05)
	require.NoError(t, err)
	wald, err := inference.Wald(reduced.Coef, reduced.StdErr)
	require.NoError(t, err)

	report := NewReport("Mortality analysis")
	report.AddModel("Full model", full)
	report.AddModel("Reduced model", reduced)
	report.AddComparison(res)
	report.AddWald(wald)
	report.AddFigures([]string{"out/binary_fit.png"})

	md := report.Markdown()
	assert.Contains(t, md, "# Mortality analysis")
	assert.Contains(t, md, "mortality ~ length + spots")
	assert.Contains(t, md, "## Model comparison")
	assert.Contains(t, md, "## Wald tests")
	assert.Contains(t, md, "binary_fit.png")

	dir := t.TempDir()
	require.NoError(t, report.Write(dir, "binary_report", true))

	mdBytes, err := os.ReadFile(filepath.Join(dir, "binary_report.md"))
	require.NoError(t, err)
	assert.Equal(t, md, string(mdBytes))

	htmlBytes, err := os.ReadFile(filepath.Join(dir, "binary_report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(htmlBytes), "<h1")
}

func TestReport_MarkdownOnly(t *testing.T) {
	report := NewReport("Plain")
	dir := t.TempDir()
	require.NoError(t, report.Write(dir, "plain", false))

	_, err := os.Stat(filepath.Join(dir, "plain.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "plain.html"))
	assert.True(t, os.IsNotExist(err))
}
