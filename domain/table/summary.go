package table

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"logitlab/internal/errors"
)

// ColumnSummary holds descriptive statistics for one numeric column
type ColumnSummary struct {
	Column string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe computes count/mean/quantile summaries for the named numeric
// columns. It is a pure read; the only error condition is a missing or
// non-numeric column.
func Describe(t *Table, columns ...string) ([]ColumnSummary, error) {
	summaries := make([]ColumnSummary, 0, len(columns))
	for _, name := range columns {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Kind != Numeric {
			return nil, errors.New(errors.CodeInternalError,
				fmt.Sprintf("column %q is categorical; use Freq instead", name))
		}

		data := stats.Float64Data(col.Floats)
		mean, err := stats.Mean(data)
		if err != nil {
			return nil, errors.Wrapf(err, "summarizing column %q", name)
		}
		sd, _ := stats.StandardDeviationSample(data)
		min, _ := stats.Min(data)
		max, _ := stats.Max(data)
		median, _ := stats.Median(data)
		q25, _ := stats.Percentile(data, 25)
		q75, _ := stats.Percentile(data, 75)

		summaries = append(summaries, ColumnSummary{
			Column: name,
			Count:  col.Len(),
			Mean:   mean,
			StdDev: sd,
			Min:    min,
			Q25:    q25,
			Median: median,
			Q75:    q75,
			Max:    max,
		})
	}
	return summaries, nil
}

// FreqEntry is one level of a frequency table
type FreqEntry struct {
	Level string
	Count int
}

// Freq computes the frequency table of a categorical column, reported in
// level order (baseline first).
func Freq(t *Table, column string) ([]FreqEntry, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	if col.Kind != Categorical {
		return nil, errors.New(errors.CodeInternalError,
			fmt.Sprintf("column %q is numeric; use Describe instead", column))
	}
	counts := make(map[string]int, len(col.levels))
	for _, v := range col.Labels {
		counts[v]++
	}
	out := make([]FreqEntry, 0, len(col.levels))
	for _, lv := range col.levels {
		out = append(out, FreqEntry{Level: lv, Count: counts[lv]})
	}
	return out, nil
}

// CrossTab is a two-way contingency table of observation counts
type CrossTab struct {
	RowColumn string
	ColColumn string
	RowLevels []string
	ColLevels []string
	Counts    [][]int
}

// Cross tabulates two categorical columns against each other.
func Cross(t *Table, rowColumn, colColumn string) (*CrossTab, error) {
	rc, err := t.Column(rowColumn)
	if err != nil {
		return nil, err
	}
	cc, err := t.Column(colColumn)
	if err != nil {
		return nil, err
	}
	if rc.Kind != Categorical || cc.Kind != Categorical {
		return nil, errors.New(errors.CodeInternalError,
			fmt.Sprintf("cross tabulation needs categorical columns, got %q x %q", rowColumn, colColumn))
	}

	rowIdx := levelIndex(rc.levels)
	colIdx := levelIndex(cc.levels)
	counts := make([][]int, len(rc.levels))
	for i := range counts {
		counts[i] = make([]int, len(cc.levels))
	}
	for i := range rc.Labels {
		counts[rowIdx[rc.Labels[i]]][colIdx[cc.Labels[i]]]++
	}
	return &CrossTab{
		RowColumn: rowColumn,
		ColColumn: colColumn,
		RowLevels: rc.Levels(),
		ColLevels: cc.Levels(),
		Counts:    counts,
	}, nil
}

func levelIndex(levels []string) map[string]int {
	idx := make(map[string]int, len(levels))
	for i, lv := range levels {
		idx[lv] = i
	}
	return idx
}

// String renders the contingency table for console output
func (ct *CrossTab) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s x %s\n", ct.RowColumn, ct.ColColumn)
	fmt.Fprintf(&b, "%12s", "")
	for _, cl := range ct.ColLevels {
		fmt.Fprintf(&b, "%12s", cl)
	}
	b.WriteByte('\n')
	for i, rl := range ct.RowLevels {
		fmt.Fprintf(&b, "%12s", rl)
		for j := range ct.ColLevels {
			fmt.Fprintf(&b, "%12d", ct.Counts[i][j])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
