package outfile

// StatMode selects how a multi-period run is condensed into a single
// summary record instead of a full per-period SERIES (spec.md §6's
// documented statistic postprocessing modes).
type StatMode int

const (
	StatSeries StatMode = iota // no folding; every period is retained
	StatAverage
	StatMinimum
	StatMaximum
	StatRange
)

// StatFold streams one element's (a node's pressure, a link's flow, ...)
// values across periods into a running AVERAGE/MINIMUM/MAXIMUM/RANGE
// summary, avoiding the need to hold every period's value in memory —
// grounded on gonum/stat's streaming-moment idiom (package report uses
// gonum/stat for its summaries); here rolled by hand since
// gonum/stat's own Mean/Variance require a materialized slice, not a
// push-per-sample stream.
type StatFold struct {
	mode    StatMode
	n       int
	sum     float64
	minimum float64
	maximum float64
}

// NewStatFold returns a StatFold configured for mode.
func NewStatFold(mode StatMode) *StatFold {
	return &StatFold{mode: mode}
}

// Push adds one period's value to the running fold.
func (f *StatFold) Push(v float64) {
	if f.n == 0 || v < f.minimum {
		f.minimum = v
	}
	if f.n == 0 || v > f.maximum {
		f.maximum = v
	}
	f.sum += v
	f.n++
}

// Value returns the folded result for the configured mode. For
// StatSeries it returns 0 — callers in SERIES mode never fold, they write
// every period directly.
func (f *StatFold) Value() float64 {
	if f.n == 0 {
		return 0
	}
	switch f.mode {
	case StatAverage:
		return f.sum / float64(f.n)
	case StatMinimum:
		return f.minimum
	case StatMaximum:
		return f.maximum
	case StatRange:
		return f.maximum - f.minimum
	default:
		return 0
	}
}
