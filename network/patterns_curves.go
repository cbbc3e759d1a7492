// File: patterns_curves.go
// Role: Pattern and Curve CRUD, grounded on the teacher's deterministic,
// allocation-once sequence idiom (builder.BuildPulse/BuildChirp/BuildOHLC):
// resolve once, store a plain slice, never mutate it implicitly.
package network

import (
	"sort"

	"github.com/katalvlaran/hydronet/errs"
)

// AddPattern creates a new pattern with the given multipliers (copied).
func (s *Store) AddPattern(id string, multipliers []float64) (int, error) {
	if err := validID(id); err != nil {
		return 0, err
	}
	if len(multipliers) == 0 {
		multipliers = []float64{1.0}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.patternIndex[id]; dup {
		return 0, errs.Wrap(errs.ErrDuplicateID, id, nil)
	}
	cp := append([]float64(nil), multipliers...)
	idx := len(s.patterns)
	s.patterns = append(s.patterns, &Pattern{ID: id, Multipliers: cp})
	s.patternIndex[id] = idx
	return idx, nil
}

// Pattern returns the pattern at idx, or nil if out of range.
func (s *Store) Pattern(idx int) *Pattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx < 1 || idx >= len(s.patterns) {
		return nil
	}
	return s.patterns[idx]
}

// FindPattern returns the 1-based index of id, or 0 if not present.
func (s *Store) FindPattern(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patternIndex[id]
}

// SetPattern replaces the multipliers of the pattern at idx.
func (s *Store) SetPattern(idx int, multipliers []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx >= len(s.patterns) {
		return errs.ErrNoSuchPattern
	}
	s.patterns[idx].Multipliers = append([]float64(nil), multipliers...)
	return nil
}

// SetPatternValue overwrites one period of the pattern at idx (1-based
// period, auto-extending the slice if needed, matching the reference
// engine's tolerant in-place editing of patterns).
func (s *Store) SetPatternValue(idx, period int, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx >= len(s.patterns) {
		return errs.ErrNoSuchPattern
	}
	if period < 1 {
		return errs.ErrBadValue
	}
	p := s.patterns[idx]
	for len(p.Multipliers) < period {
		p.Multipliers = append(p.Multipliers, 1.0)
	}
	p.Multipliers[period-1] = value
	return nil
}

// PatternCount reports the number of patterns (excluding the sentinel).
func (s *Store) PatternCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patterns) - 1
}

// AddCurve creates a new curve. x must be strictly monotonic increasing;
// points are stored in the order given (callers are expected to sort
// ahead of time — AddCurve validates, it does not resequence).
func (s *Store) AddCurve(id string, kind CurveKind, x, y []float64) (int, error) {
	if err := validID(id); err != nil {
		return 0, err
	}
	if len(x) != len(y) || len(x) == 0 {
		return 0, errs.ErrBadValue
	}
	if !sort.Float64sAreSorted(x) {
		return 0, errs.ErrBadValue
	}
	for i := 1; i < len(x); i++ {
		if x[i] == x[i-1] {
			return 0, errs.ErrBadValue
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.curveIndex[id]; dup {
		return 0, errs.Wrap(errs.ErrDuplicateID, id, nil)
	}
	idx := len(s.curves)
	s.curves = append(s.curves, &Curve{
		ID:   id,
		Kind: kind,
		X:    append([]float64(nil), x...),
		Y:    append([]float64(nil), y...),
	})
	s.curveIndex[id] = idx
	return idx, nil
}

// Curve returns the curve at idx, or nil if out of range.
func (s *Store) Curve(idx int) *Curve {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx < 1 || idx >= len(s.curves) {
		return nil
	}
	return s.curves[idx]
}

// FindCurve returns the 1-based index of id, or 0 if not present.
func (s *Store) FindCurve(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.curveIndex[id]
}

// CurveCount reports the number of curves (excluding the sentinel).
func (s *Store) CurveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.curves) - 1
}

// Interpolate evaluates the curve at x, clamping to the endpoint values
// rather than extrapolating (spec.md §8 boundary property).
func (c *Curve) Interpolate(x float64) float64 {
	n := len(c.X)
	if n == 0 {
		return 0
	}
	if x <= c.X[0] {
		return c.Y[0]
	}
	if x >= c.X[n-1] {
		return c.Y[n-1]
	}
	i := sort.SearchFloat64s(c.X, x)
	if c.X[i] == x {
		return c.Y[i]
	}
	x0, x1 := c.X[i-1], c.X[i]
	y0, y1 := c.Y[i-1], c.Y[i]
	frac := (x - x0) / (x1 - x0)
	return y0 + frac*(y1-y0)
}
