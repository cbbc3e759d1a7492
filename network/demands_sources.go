// File: demands_sources.go
// Role: per-junction demand list management and per-node WQ sources.
//
// Demand list invariant (spec.md §3): the last element of Node.Demands is
// the primary category; AddDemand always appends, preserving this order.
package network

import "github.com/katalvlaran/hydronet/errs"

// AddDemand appends a new demand category to a junction, becoming the new
// primary demand.
func (s *Store) AddDemand(nodeIdx int, base float64, patternIdx int, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nodeAt(nodeIdx)
	if n == nil {
		return errs.ErrNoSuchNode
	}
	n.Demands = append(n.Demands, Demand{Base: base, PatternIndex: patternIdx, Category: category})
	return nil
}

// DeleteDemand removes the demand at the given 0-based position.
func (s *Store) DeleteDemand(nodeIdx, demandIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nodeAt(nodeIdx)
	if n == nil {
		return errs.ErrNoSuchNode
	}
	if demandIdx < 0 || demandIdx >= len(n.Demands) {
		return errs.ErrNoSuchDemand
	}
	n.Demands = append(n.Demands[:demandIdx], n.Demands[demandIdx+1:]...)
	return nil
}

// DemandCount reports how many demand categories a node has.
func (s *Store) DemandCount(nodeIdx int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.nodeAt(nodeIdx)
	if n == nil {
		return 0, errs.ErrNoSuchNode
	}
	return len(n.Demands), nil
}

// PrimaryDemand returns the node's primary (last-inserted) demand.
func (s *Store) PrimaryDemand(nodeIdx int) (Demand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.nodeAt(nodeIdx)
	if n == nil {
		return Demand{}, errs.ErrNoSuchNode
	}
	if len(n.Demands) == 0 {
		return Demand{}, errs.ErrNoSuchDemand
	}
	return n.Demands[len(n.Demands)-1], nil
}

// SetPrimaryDemand overwrites the base demand and pattern of the primary
// (last) demand category, matching EN_BASEDEMAND/EN_PATTERN semantics.
func (s *Store) SetPrimaryDemand(nodeIdx int, base float64, patternIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nodeAt(nodeIdx)
	if n == nil {
		return errs.ErrNoSuchNode
	}
	if len(n.Demands) == 0 {
		n.Demands = append(n.Demands, Demand{})
	}
	last := len(n.Demands) - 1
	n.Demands[last].Base = base
	n.Demands[last].PatternIndex = patternIdx
	return nil
}

// SetSource attaches or replaces the water-quality source at a node.
func (s *Store) SetSource(nodeIdx int, base float64, patternIdx int, kind SourceKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nodeAt(nodeIdx)
	if n == nil {
		return errs.ErrNoSuchNode
	}
	n.Source = &Source{Base: base, PatternIndex: patternIdx, Kind: kind}
	return nil
}

// ClearSource removes the water-quality source at a node, if any.
func (s *Store) ClearSource(nodeIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nodeAt(nodeIdx)
	if n == nil {
		return errs.ErrNoSuchNode
	}
	if n.Source == nil {
		return errs.ErrNoSourceAtNode
	}
	n.Source = nil
	return nil
}

// nodeAt returns the node at idx or nil if out of range. Caller must hold
// s.mu (read or write).
func (s *Store) nodeAt(idx int) *Node {
	if idx < 1 || idx >= len(s.nodes) {
		return nil
	}
	return s.nodes[idx]
}

// linkAt returns the link at idx or nil if out of range. Caller must hold
// s.mu (read or write).
func (s *Store) linkAt(idx int) *Link {
	if idx < 1 || idx >= len(s.links) {
		return nil
	}
	return s.links[idx]
}
