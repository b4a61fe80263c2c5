package table

import (
	"math/rand"
)

// Column names of the synthetic mortality dataset
const (
	ColSpots     = "spots"
	ColLength    = "length"
	ColMortality = "mortality"
)

// Mortality outcome labels. "survived" is listed first so it is the
// reference category and fitted coefficients describe the odds of death.
const (
	OutcomeSurvived = "survived"
	OutcomeDied     = "died"
)

// mortalityOutcomes is the fixed 50-observation outcome sequence. The death
// rate falls from roughly 80% in the shortest decile to 20% in the longest,
// so the fitted length coefficient carries the minor negative association
// the tutorial narrates.
var mortalityOutcomes = []int{
	1, 1, 1, 0, 1, 1, 1, 1, 0, 1,
	1, 0, 1, 1, 0, 1, 1, 0, 1, 1,
	0, 1, 0, 1, 1, 0, 1, 0, 0, 1,
	0, 0, 1, 0, 0, 1, 0, 1, 0, 0,
	0, 1, 0, 0, 0, 0, 0, 0, 1, 0,
}

// GenerateMortality synthesizes the 50-row binary tutorial dataset:
// uniform-random spot counts in [0,9], lengths evenly spaced from 10 to
// 100, and the fixed mortality outcome sequence. The spot counts are the
// only randomness; the same seed reproduces the same table.
func GenerateMortality(seed int64) *Table {
	n := len(mortalityOutcomes)
	rng := rand.New(rand.NewSource(seed))

	spots := make([]float64, n)
	length := make([]float64, n)
	outcome := make([]string, n)
	step := 90.0 / float64(n-1)
	for i := 0; i < n; i++ {
		spots[i] = float64(rng.Intn(10))
		length[i] = 10.0 + float64(i)*step
		if mortalityOutcomes[i] == 1 {
			outcome[i] = OutcomeDied
		} else {
			outcome[i] = OutcomeSurvived
		}
	}

	t := New()
	// The sequence of Add calls cannot fail on fresh columns of equal length.
	_ = t.AddNumeric(ColSpots, spots)
	_ = t.AddNumeric(ColLength, length)
	_ = t.AddCategorical(ColMortality, outcome)

	// Force survived to be the reference even if the fixed sequence is ever
	// edited to start with a death.
	col, _ := t.Column(ColMortality)
	if len(col.levels) == 2 && col.levels[0] != OutcomeSurvived {
		col.levels[0], col.levels[1] = col.levels[1], col.levels[0]
	}
	return t
}
