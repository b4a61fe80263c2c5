package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"logitlab/adapters/viz"
	"logitlab/app"
	"logitlab/internal"
	"logitlab/internal/config"
)

func main() {
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	renderer, err := viz.NewRenderer(cfg.Output.Dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	session := app.NewMultinomialSession(cfg, logger, renderer)
	if err := session.Run(); err != nil {
		logger.Error("multinomial pipeline failed: %v", err)
		os.Exit(1)
	}

	report := app.NewReport("Program choice: multinomial logistic regression")
	report.AddModel("Full model", session.Full)
	report.AddModel("Reduced model", session.Reduced)
	report.AddComparison(session.Comparison)
	report.AddWald(session.Wald)
	var figures []string
	for _, path := range session.FacetPaths {
		figures = append(figures, path)
	}
	report.AddFigures(figures)
	if err := report.Write(cfg.Output.Dir, "multinomial_report", cfg.Output.ReportHTML); err != nil {
		logger.Error("writing report: %v", err)
		os.Exit(1)
	}
	logger.Info("multinomial pipeline complete; output in %s", cfg.Output.Dir)
}
