package config

import (
	"testing"

	"logitlab/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Data.StataFile != "data/hsbdemo.dta" {
		t.Errorf("StataFile = %q", cfg.Data.StataFile)
	}
	if cfg.Analysis.Alpha != 0.05 {
		t.Errorf("Alpha = %v, want 0.05", cfg.Analysis.Alpha)
	}
	if !cfg.Output.ReportHTML {
		t.Error("ReportHTML should default to true")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STATA_FILE", "/tmp/other.dta")
	t.Setenv("ALPHA", "0.01")
	t.Setenv("SEED", "99")
	t.Setenv("REPORT_HTML", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Data.StataFile != "/tmp/other.dta" {
		t.Errorf("StataFile = %q", cfg.Data.StataFile)
	}
	if cfg.Analysis.Alpha != 0.01 {
		t.Errorf("Alpha = %v", cfg.Analysis.Alpha)
	}
	if cfg.Data.Seed != 99 {
		t.Errorf("Seed = %d", cfg.Data.Seed)
	}
	if cfg.Output.ReportHTML {
		t.Error("ReportHTML override ignored")
	}
}

func TestLoad_InvalidAlpha(t *testing.T) {
	t.Setenv("ALPHA", "1.5")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for alpha outside (0,1)")
	}
	if errors.GetCode(err) != errors.CodeConfigInvalid {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeConfigInvalid)
	}
}
