package table

import (
	"math"
	"testing"
)

func TestGenerateMortality_Shape(t *testing.T) {
	tbl := GenerateMortality(1)

	if tbl.NumRows() != 50 {
		t.Fatalf("rows = %d, want 50", tbl.NumRows())
	}
	for _, name := range []string{ColSpots, ColLength, ColMortality} {
		if !tbl.HasColumn(name) {
			t.Errorf("missing column %q", name)
		}
	}

	spots, _ := tbl.Column(ColSpots)
	for i, v := range spots.Floats {
		if v < 0 || v > 9 || v != math.Trunc(v) {
			t.Errorf("spots[%d] = %v, want integer in [0,9]", i, v)
		}
	}

	length, _ := tbl.Column(ColLength)
	if length.Floats[0] != 10 || length.Floats[49] != 100 {
		t.Errorf("length endpoints = %v, %v; want 10, 100", length.Floats[0], length.Floats[49])
	}
}

func TestGenerateMortality_SeedDeterminism(t *testing.T) {
	a := GenerateMortality(42)
	b := GenerateMortality(42)
	sa, _ := a.Column(ColSpots)
	sb, _ := b.Column(ColSpots)
	for i := range sa.Floats {
		if sa.Floats[i] != sb.Floats[i] {
			t.Fatalf("spots differ at row %d for identical seed", i)
		}
	}
}

func TestGenerateMortality_FixedOutcomes(t *testing.T) {
	a := GenerateMortality(1)
	b := GenerateMortality(99)
	ma, _ := a.Column(ColMortality)
	mb, _ := b.Column(ColMortality)
	for i := range ma.Labels {
		if ma.Labels[i] != mb.Labels[i] {
			t.Fatalf("mortality labels differ at row %d; sequence must be seed-independent", i)
		}
	}
	if ma.Levels()[0] != OutcomeSurvived {
		t.Errorf("reference level = %q, want %q", ma.Levels()[0], OutcomeSurvived)
	}
}
