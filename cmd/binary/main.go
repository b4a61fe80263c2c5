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
	// .env is optional; environment variables win either way.
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

	session := app.NewBinarySession(cfg, logger, renderer)
	if err := session.Run(); err != nil {
		logger.Error("binary pipeline failed: %v", err)
		os.Exit(1)
	}

	report := app.NewReport("Mortality: binary logistic regression")
	report.AddModel("Full model", session.Full)
	report.AddModel("Reduced model", session.Reduced)
	report.AddComparison(session.Comparison)
	report.AddFigures(session.PlotPaths)
	if err := report.Write(cfg.Output.Dir, "binary_report", cfg.Output.ReportHTML); err != nil {
		logger.Error("writing report: %v", err)
		os.Exit(1)
	}
	logger.Info("binary pipeline complete; output in %s", cfg.Output.Dir)
}
