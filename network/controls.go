// File: controls.go
// Role: simple (non-rule) control CRUD. Controls are stored in definition
// order in a plain slice (they are few and rarely mutated mid-run, unlike
// demands/segments, so no ring-buffer treatment is warranted here).
package network

import "github.com/katalvlaran/hydronet/errs"

// AddControl appends a new simple control and returns its 1-based index.
func (s *Store) AddControl(c Control) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.LinkIndex < 1 || c.LinkIndex >= len(s.links) || s.links[c.LinkIndex] == nil {
		return 0, errs.ErrNoSuchLink
	}
	if c.Kind == LowLevel || c.Kind == HiLevel {
		if c.NodeIndex < 1 || c.NodeIndex >= len(s.nodes) || s.nodes[c.NodeIndex] == nil {
			return 0, errs.ErrNoSuchNode
		}
	}
	s.controls = append(s.controls, &c)
	return len(s.controls), nil
}

// Control returns the 1-based-indexed control, or nil if out of range.
func (s *Store) Control(idx int) *Control {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx < 1 || idx > len(s.controls) {
		return nil
	}
	return s.controls[idx-1]
}

// ControlCount reports how many simple controls are defined.
func (s *Store) ControlCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.controls)
}

// DeleteControl removes the control at the given 1-based index.
func (s *Store) DeleteControl(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx > len(s.controls) {
		return errs.ErrNoSuchControl
	}
	s.controls = append(s.controls[:idx-1], s.controls[idx:]...)
	return nil
}

// SetControl overwrites the control at the given 1-based index.
func (s *Store) SetControl(idx int, c Control) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx > len(s.controls) {
		return errs.ErrNoSuchControl
	}
	s.controls[idx-1] = &c
	return nil
}

// ControlsForLink returns every control referencing the given link.
func (s *Store) ControlsForLink(linkIdx int) []*Control {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Control
	for _, c := range s.controls {
		if c.LinkIndex == linkIdx {
			out = append(out, c)
		}
	}
	return out
}
