// File: methods.go
// Role: node/link lifecycle (add/delete/rename/retype) and the renumbering
// sweep that keeps every cross-reference valid across a mutation.
//
// Grounded on core/methods.go's validate-then-mutate discipline and on the
// explicit recommendation in spec.md §9 to factor renumbering into one
// helper called from every mutating operation.
package network

import (
	"fmt"

	"github.com/katalvlaran/hydronet/errs"
)

func validID(id string) error {
	if id == "" {
		return errs.Wrap(errs.ErrInvalidNodeID, "empty ID", nil)
	}
	if len(id) > 31 {
		return errs.Wrap(errs.ErrInvalidNodeID, fmt.Sprintf("%q exceeds 31 characters", id), nil)
	}
	for _, r := range id {
		if r == ' ' || r == ';' {
			return errs.Wrap(errs.ErrInvalidNodeID, fmt.Sprintf("%q contains a space or semicolon", id), nil)
		}
	}
	return nil
}

// GetCount reports the current (Njuncs, Ntanks, Nnodes, Npipes, Npumps,
// Nvalves, Nlinks) tuple.
func (s *Store) GetCount() (njuncs, ntanks, nnodes, npipes, npumps, nvalves, nlinks int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	njuncs, ntanks = s.njuncs, s.ntanks
	nnodes = njuncs + ntanks
	npipes, npumps, nvalves = s.npipes, s.npumps, s.nvalves
	nlinks = npipes + npumps + nvalves
	return
}

// FindNode returns the 1-based index of id, or 0 if not present.
func (s *Store) FindNode(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodeIndex[id]
}

// FindLink returns the 1-based index of id, or 0 if not present.
func (s *Store) FindLink(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.linkIndex[id]
}

// Node returns the node at the given 1-based index, or nil if out of range.
func (s *Store) Node(idx int) *Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx < 1 || idx >= len(s.nodes) {
		return nil
	}
	return s.nodes[idx]
}

// Link returns the link at the given 1-based index, or nil if out of range.
func (s *Store) Link(idx int) *Link {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx < 1 || idx >= len(s.links) {
		return nil
	}
	return s.links[idx]
}

// AddJunction inserts a new junction at position Njuncs+1, shifting every
// tank/reservoir and every cross-reference to them up by one.
func (s *Store) AddJunction(id string, elevation float64) (int, error) {
	if err := validID(id); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.nodeIndex[id]; dup {
		return 0, errs.Wrap(errs.ErrDuplicateID, id, nil)
	}

	insertAt := s.njuncs + 1
	node := &Node{ID: id, Type: Junction, Elevation: elevation, Demands: nil}
	s.insertNodeAt(insertAt, node)
	s.njuncs++

	return insertAt, nil
}

// addTankOrReservoir is the shared implementation for AddTank and
// AddReservoir; a Reservoir is a Tank with Area == 0.
func (s *Store) addTankOrReservoir(id string, elevation float64, typ NodeType, area float64) (int, error) {
	if err := validID(id); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.nodeIndex[id]; dup {
		return 0, errs.Wrap(errs.ErrDuplicateID, id, nil)
	}

	idx := len(s.nodes) // tanks/reservoirs append at the end
	node := &Node{
		ID:        id,
		Type:      typ,
		Elevation: elevation,
		Tank: &TankData{
			NodeIndex: idx,
			Area:      area,
		},
	}
	s.nodes = append(s.nodes, node)
	s.nodeIndex[id] = idx
	s.ntanks++
	s.bumpVersion()

	return idx, nil
}

// AddTank inserts a storage tank of the given cross-sectional area.
func (s *Store) AddTank(id string, elevation, area float64) (int, error) {
	return s.addTankOrReservoir(id, elevation, TankNode, area)
}

// AddReservoir inserts a fixed-head reservoir (a Tank with Area == 0).
func (s *Store) AddReservoir(id string, elevation float64) (int, error) {
	return s.addTankOrReservoir(id, elevation, Reservoir, 0)
}

// insertNodeAt splices node into position idx (1-based), shifting every
// existing node at idx or later up by one, and rewriting every
// cross-reference accordingly. Caller holds s.mu.
func (s *Store) insertNodeAt(idx int, node *Node) {
	s.nodes = append(s.nodes, nil)
	copy(s.nodes[idx+1:], s.nodes[idx:len(s.nodes)-1])
	s.nodes[idx] = node
	s.nodeIndex[node.ID] = idx

	for id, i := range s.nodeIndex {
		if i >= idx && id != node.ID {
			s.nodeIndex[id] = i + 1
		}
	}
	for i := idx + 1; i < len(s.nodes); i++ {
		if s.nodes[i] != nil && s.nodes[i].Tank != nil {
			s.nodes[i].Tank.NodeIndex = i
		}
	}
	for _, l := range s.links {
		if l == nil {
			continue
		}
		if l.N1 >= idx {
			l.N1++
		}
		if l.N2 >= idx {
			l.N2++
		}
	}
	for _, c := range s.controls {
		if c.NodeIndex >= idx {
			c.NodeIndex++
		}
	}
	for _, r := range s.rules {
		for i := range r.Premises {
			if r.Premises[i].Object == ObjNode && r.Premises[i].ObjectIdx >= idx {
				r.Premises[i].ObjectIdx++
			}
		}
	}
	s.bumpVersion()
}

// AddLink inserts a link of the given type between existing nodes n1, n2.
func (s *Store) AddLink(id string, n1, n2 int, typ LinkType) (int, error) {
	if err := validID(id); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.linkIndex[id]; dup {
		return 0, errs.Wrap(errs.ErrDuplicateID, id, nil)
	}
	if n1 < 1 || n1 >= len(s.nodes) || s.nodes[n1] == nil {
		return 0, errs.Wrap(errs.ErrNoSuchNode, id, nil)
	}
	if n2 < 1 || n2 >= len(s.nodes) || s.nodes[n2] == nil {
		return 0, errs.Wrap(errs.ErrNoSuchNode, id, nil)
	}
	if n1 == n2 {
		return 0, errs.Wrap(errs.ErrSameEndNodes, id, nil)
	}
	if typ == PRV || typ == PSV || typ == FCV {
		if s.nodes[n1].Type != Junction || s.nodes[n2].Type != Junction {
			return 0, errs.Wrap(errs.ErrIllegalValveEndpoint, id, nil)
		}
		if err := s.valveCheck(n1, n2); err != nil {
			return 0, err
		}
	}

	idx := len(s.links)
	link := &Link{ID: id, N1: n1, N2: n2, Type: typ, InitialStatus: Open}
	switch typ {
	case PumpLink:
		link.Pump = &PumpData{LinkIndex: idx}
		s.npumps++
	case Pipe, CVPipe:
		s.npipes++
	default:
		link.Valve = &ValveData{LinkIndex: idx}
		s.nvalves++
	}
	s.links = append(s.links, link)
	s.linkIndex[id] = idx
	s.bumpVersion()

	return idx, nil
}

// valveCheck enforces that no two PRV/PSV/FCV valves share an end-node
// (spec.md §3, "valvecheck"). Caller holds s.mu.
func (s *Store) valveCheck(n1, n2 int) error {
	for _, l := range s.links {
		if l == nil {
			continue
		}
		switch l.Type {
		case PRV, PSV, FCV:
			if l.N1 == n1 || l.N1 == n2 || l.N2 == n1 || l.N2 == n2 {
				return errs.Wrap(errs.ErrIllegalValveShared, l.ID, nil)
			}
		}
	}
	return nil
}

// DeleteNode removes the node at idx. Unconditional also purges any
// controls/rules referencing it; Conditional refuses the delete if any
// link, control, or rule references the node.
func (s *Store) DeleteNode(idx int, action DeleteAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx >= len(s.nodes) || s.nodes[idx] == nil {
		return errs.ErrNoSuchNode
	}

	referenced := false
	for _, l := range s.links {
		if l != nil && (l.N1 == idx || l.N2 == idx) {
			referenced = true
			break
		}
	}
	if !referenced {
		for _, c := range s.controls {
			if c.NodeIndex == idx {
				referenced = true
				break
			}
		}
	}
	if !referenced {
		for _, r := range s.rules {
			for _, p := range r.Premises {
				if p.Object == ObjNode && p.ObjectIdx == idx {
					referenced = true
					break
				}
			}
		}
	}
	if referenced && action == Conditional {
		return errs.ErrElementControlled
	}
	if referenced {
		s.purgeNodeReferences(idx)
	}

	node := s.nodes[idx]
	delete(s.nodeIndex, node.ID)
	s.nodes = append(s.nodes[:idx], s.nodes[idx+1:]...)
	if node.Type == Junction {
		s.njuncs--
	} else {
		s.ntanks--
	}

	for id, i := range s.nodeIndex {
		if i > idx {
			s.nodeIndex[id] = i - 1
		}
	}
	for i := idx; i < len(s.nodes); i++ {
		if s.nodes[i] != nil && s.nodes[i].Tank != nil {
			s.nodes[i].Tank.NodeIndex = i
		}
	}
	for _, l := range s.links {
		if l == nil {
			continue
		}
		if l.N1 > idx {
			l.N1--
		}
		if l.N2 > idx {
			l.N2--
		}
	}
	for _, c := range s.controls {
		if c.NodeIndex > idx {
			c.NodeIndex--
		}
	}
	for _, r := range s.rules {
		for i := range r.Premises {
			if r.Premises[i].Object == ObjNode && r.Premises[i].ObjectIdx > idx {
				r.Premises[i].ObjectIdx--
			}
		}
	}
	s.bumpVersion()

	return nil
}

// purgeNodeReferences removes every link, control, and rule premise that
// references node idx. Caller holds s.mu and has already decided the
// delete proceeds unconditionally.
func (s *Store) purgeNodeReferences(idx int) {
	kept := make([]*Link, 0, len(s.links))
	for _, l := range s.links {
		if l != nil && (l.N1 == idx || l.N2 == idx) {
			continue
		}
		kept = append(kept, l)
	}
	// Rebuild link array and hash table from scratch, since the removed
	// links are not necessarily contiguous.
	s.rebuildLinks(kept)

	newControls := s.controls[:0]
	for _, c := range s.controls {
		if c.NodeIndex != idx {
			newControls = append(newControls, c)
		}
	}
	s.controls = newControls

	for _, r := range s.rules {
		r.Premises = filterPremisesByNode(r.Premises, idx)
	}
}

func filterPremisesByNode(premises []Premise, idx int) []Premise {
	out := premises[:0]
	for _, p := range premises {
		if p.Object == ObjNode && p.ObjectIdx == idx {
			continue
		}
		out = append(out, p)
	}
	return out
}

// rebuildLinks replaces s.links with kept (index 0 sentinel preserved) and
// recomputes linkIndex and the family counters. Caller holds s.mu.
func (s *Store) rebuildLinks(kept []*Link) {
	s.links = kept
	s.linkIndex = make(map[string]int, len(kept))
	s.npipes, s.npumps, s.nvalves = 0, 0, 0
	for i, l := range kept {
		if l == nil {
			continue
		}
		s.linkIndex[l.ID] = i
		switch l.Type {
		case PumpLink:
			l.Pump.LinkIndex = i
			s.npumps++
		case Pipe, CVPipe:
			s.npipes++
		default:
			l.Valve.LinkIndex = i
			s.nvalves++
		}
	}
}

// DeleteLink removes the link at idx. Unconditional purges any controls
// or rule actions referencing it; Conditional refuses the delete if any
// exist.
func (s *Store) DeleteLink(idx int, action DeleteAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx >= len(s.links) || s.links[idx] == nil {
		return errs.ErrNoSuchLink
	}

	referenced := false
	for _, c := range s.controls {
		if c.LinkIndex == idx {
			referenced = true
			break
		}
	}
	if !referenced {
		for _, r := range s.rules {
			for _, a := range r.Then {
				if a.LinkIndex == idx {
					referenced = true
					break
				}
			}
			for _, a := range r.Else {
				if a.LinkIndex == idx {
					referenced = true
					break
				}
			}
			for _, p := range r.Premises {
				if p.Object == ObjLink && p.ObjectIdx == idx {
					referenced = true
					break
				}
			}
		}
	}
	if referenced && action == Conditional {
		return errs.ErrElementControlled
	}
	if referenced {
		newControls := s.controls[:0]
		for _, c := range s.controls {
			if c.LinkIndex != idx {
				newControls = append(newControls, c)
			}
		}
		s.controls = newControls
		for _, r := range s.rules {
			r.Premises = filterPremisesByLink(r.Premises, idx)
			r.Then = filterActionsByLink(r.Then, idx)
			r.Else = filterActionsByLink(r.Else, idx)
		}
	}

	link := s.links[idx]
	delete(s.linkIndex, link.ID)
	kept := append(append([]*Link{}, s.links[:idx]...), s.links[idx+1:]...)
	switch link.Type {
	case PumpLink:
		s.npumps--
	case Pipe, CVPipe:
		s.npipes--
	default:
		s.nvalves--
	}
	s.rebuildLinksPreserveCounters(kept)

	for _, c := range s.controls {
		if c.LinkIndex > idx {
			c.LinkIndex--
		}
	}
	for _, r := range s.rules {
		for i := range r.Premises {
			if r.Premises[i].Object == ObjLink && r.Premises[i].ObjectIdx > idx {
				r.Premises[i].ObjectIdx--
			}
		}
		for i := range r.Then {
			if r.Then[i].LinkIndex > idx {
				r.Then[i].LinkIndex--
			}
		}
		for i := range r.Else {
			if r.Else[i].LinkIndex > idx {
				r.Else[i].LinkIndex--
			}
		}
	}
	s.bumpVersion()

	return nil
}

// rebuildLinksPreserveCounters re-indexes kept without recomputing the
// family counters (the caller already adjusted them for the one removal).
func (s *Store) rebuildLinksPreserveCounters(kept []*Link) {
	s.links = kept
	s.linkIndex = make(map[string]int, len(kept))
	for i, l := range kept {
		if l == nil {
			continue
		}
		s.linkIndex[l.ID] = i
		switch l.Type {
		case PumpLink:
			l.Pump.LinkIndex = i
		default:
			if l.Valve != nil {
				l.Valve.LinkIndex = i
			}
		}
	}
}

func filterPremisesByLink(premises []Premise, idx int) []Premise {
	out := premises[:0]
	for _, p := range premises {
		if p.Object == ObjLink && p.ObjectIdx == idx {
			continue
		}
		out = append(out, p)
	}
	return out
}

func filterActionsByLink(actions []RuleAction, idx int) []RuleAction {
	out := actions[:0]
	for _, a := range actions {
		if a.LinkIndex == idx {
			continue
		}
		out = append(out, a)
	}
	return out
}

// SetNodeID renames the node at idx. Returns ErrDuplicateID if newID is
// already taken by a different node.
func (s *Store) SetNodeID(idx int, newID string) error {
	if err := validID(newID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx >= len(s.nodes) || s.nodes[idx] == nil {
		return errs.ErrNoSuchNode
	}
	if other, dup := s.nodeIndex[newID]; dup && other != idx {
		return errs.Wrap(errs.ErrDuplicateID, newID, nil)
	}
	old := s.nodes[idx].ID
	delete(s.nodeIndex, old)
	s.nodes[idx].ID = newID
	s.nodeIndex[newID] = idx
	return nil
}

// SetLinkID renames the link at idx.
func (s *Store) SetLinkID(idx int, newID string) error {
	if err := validID(newID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx >= len(s.links) || s.links[idx] == nil {
		return errs.ErrNoSuchLink
	}
	if other, dup := s.linkIndex[newID]; dup && other != idx {
		return errs.Wrap(errs.ErrDuplicateID, newID, nil)
	}
	old := s.links[idx].ID
	delete(s.linkIndex, old)
	s.links[idx].ID = newID
	s.linkIndex[newID] = idx
	return nil
}

// SetLinkNodes changes a link's end-nodes.
func (s *Store) SetLinkNodes(idx, n1, n2 int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx >= len(s.links) || s.links[idx] == nil {
		return errs.ErrNoSuchLink
	}
	if s.links[idx].Type == CVPipe {
		return errs.ErrIllegalOnCV
	}
	if n1 < 1 || n1 >= len(s.nodes) || s.nodes[n1] == nil {
		return errs.ErrNoSuchNode
	}
	if n2 < 1 || n2 >= len(s.nodes) || s.nodes[n2] == nil {
		return errs.ErrNoSuchNode
	}
	if n1 == n2 {
		return errs.ErrSameEndNodes
	}
	s.links[idx].N1 = n1
	s.links[idx].N2 = n2
	s.bumpVersion()
	return nil
}

// SetLinkType changes a link's type. Within the pipe family (Pipe<->CVPipe)
// this is an in-place flag change; every other conversion is implemented
// as delete-then-add, preserving the link's ID and end-nodes.
func (s *Store) SetLinkType(idx int, newType LinkType) error {
	s.mu.Lock()
	if idx < 1 || idx >= len(s.links) || s.links[idx] == nil {
		s.mu.Unlock()
		return errs.ErrNoSuchLink
	}
	link := s.links[idx]
	if link.Type.IsPipeFamily() && newType.IsPipeFamily() {
		// Pipe<->CVPipe is an in-place flag change: both are counted
		// under Npipes, so no counter adjustment is needed.
		link.Type = newType
		s.bumpVersion()
		s.mu.Unlock()
		return nil
	}
	id, n1, n2 := link.ID, link.N1, link.N2
	diameter, length, kc, km := link.Diameter, link.Length, link.Kc, link.Km
	s.mu.Unlock()

	if err := s.DeleteLink(idx, Unconditional); err != nil {
		return err
	}
	newIdx, err := s.AddLink(id, n1, n2, newType)
	if err != nil {
		return err
	}
	s.mu.Lock()
	nl := s.links[newIdx]
	nl.Diameter, nl.Length, nl.Kc, nl.Km = diameter, length, kc, km
	s.mu.Unlock()
	return nil
}

func (s *Store) bumpVersion() { s.topoVersion++ }
