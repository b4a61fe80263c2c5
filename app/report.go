package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"logitlab/adapters/stats/compare"
	"logitlab/adapters/stats/inference"
	"logitlab/domain/model"
	"logitlab/internal/errors"
)

// Report accumulates a markdown analysis summary and writes it alongside
// an HTML rendering.
type Report struct {
	title string
	body  strings.Builder
}

// NewReport starts a report with the given title
func NewReport(title string) *Report {
	r := &Report{title: title}
	fmt.Fprintf(&r.body, "# %s\n\n", title)
	return r
}

// AddModel appends a fitted model section
func (r *Report) AddModel(heading string, fit *model.Fit) {
	fmt.Fprintf(&r.body, "## %s\n\n", heading)
	fmt.Fprintf(&r.body, "Formula: `%s` (%s family), n=%d, logLik=%.4f, AIC=%.4f\n\n",
		fit.Formula.String(), fit.Family, fit.NObs, fit.LogLik, fit.AIC)

	r.tableHeader(fit.Terms)
	for i, row := range fit.Coef.Rows {
		fmt.Fprintf(&r.body, "| %s ", row)
		for j := range fit.Terms {
			fmt.Fprintf(&r.body, "| %.5f (%.5f) ", fit.Coef.At(i, j), fit.StdErr.At(i, j))
		}
		r.body.WriteString("|\n")
	}
	r.body.WriteString("\n")
}

// AddComparison appends a nested model comparison section
func (r *Report) AddComparison(res *compare.Result) {
	r.body.WriteString("## Model comparison\n\n")
	fmt.Fprintf(&r.body, "`%s` vs `%s`: LR=%.4f, df=%d, p=%.4f, AIC %.4f vs %.4f.\n\n",
		res.Full.String(), res.Reduced.String(), res.LRStat, res.DF, res.PValue, res.AICFull, res.AICRed)
	fmt.Fprintf(&r.body, "Decision: **%s** (%s)\n\n", res.Decision, res.Reason)
}

// AddWald appends the manual z-score and p-value tables
func (r *Report) AddWald(res *inference.WaldResult) {
	r.body.WriteString("## Wald tests\n\n")
	r.tableHeader(res.Z.Cols)
	for i, row := range res.Z.Rows {
		fmt.Fprintf(&r.body, "| %s ", row)
		for j := range res.Z.Cols {
			fmt.Fprintf(&r.body, "| z=%.4f p=%.4f ", res.Z.At(i, j), res.P.At(i, j))
		}
		r.body.WriteString("|\n")
	}
	r.body.WriteString("\n")
}

// AddFigures appends links to rendered figures
func (r *Report) AddFigures(paths []string) {
	if len(paths) == 0 {
		return
	}
	r.body.WriteString("## Figures\n\n")
	for _, p := range paths {
		fmt.Fprintf(&r.body, "- ![%s](%s)\n", filepath.Base(p), filepath.Base(p))
	}
	r.body.WriteString("\n")
}

func (r *Report) tableHeader(cols []string) {
	r.body.WriteString("| |")
	for _, c := range cols {
		fmt.Fprintf(&r.body, " %s |", c)
	}
	r.body.WriteString("\n|---|")
	for range cols {
		r.body.WriteString("---|")
	}
	r.body.WriteString("\n")
}

// Markdown returns the accumulated markdown source
func (r *Report) Markdown() string {
	return r.body.String()
}

// Write saves the markdown report and, when renderHTML is set, an HTML
// rendering next to it.
func (r *Report) Write(dir, name string, renderHTML bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating report directory %q", dir)
	}
	md := []byte(r.Markdown())
	mdPath := filepath.Join(dir, name+".md")
	if err := os.WriteFile(mdPath, md, 0o644); err != nil {
		return errors.Wrapf(err, "writing report %q", mdPath)
	}
	if !renderHTML {
		return nil
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	out := markdown.ToHTML(md, p, renderer)
	htmlPath := filepath.Join(dir, name+".html")
	if err := os.WriteFile(htmlPath, out, 0o644); err != nil {
		return errors.Wrapf(err, "writing report %q", htmlPath)
	}
	return nil
}
