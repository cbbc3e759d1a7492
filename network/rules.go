// File: rules.go
// Role: Rule CRUD — the editing contract from spec.md §4.5: rules may be
// added wholesale (ParseRule), then their Priority/Premises/Then/Else
// fields edited individually, then deleted. Renumbering on node/link
// deletion is handled in methods.go (filterPremisesByNode/ByLink,
// filterActionsByLink), invoked from DeleteNode/DeleteLink so the
// contract lives in exactly one place.
package network

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/hydronet/errs"
)

// AddRule appends an empty rule with the given label and priority.
func (s *Store) AddRule(label string, priority float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rules {
		if r.Label == label {
			return 0, errs.Wrap(errs.ErrDuplicateID, label, nil)
		}
	}
	s.rules = append(s.rules, &Rule{Label: label, Priority: priority})
	return len(s.rules), nil
}

// Rule returns the rule at the given 1-based index, or nil if out of range.
func (s *Store) Rule(idx int) *Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx < 1 || idx > len(s.rules) {
		return nil
	}
	return s.rules[idx-1]
}

// FindRule returns the 1-based index of the rule with the given label, or 0.
func (s *Store) FindRule(label string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, r := range s.rules {
		if r.Label == label {
			return i + 1
		}
	}
	return 0
}

// RuleCount reports how many rules are defined.
func (s *Store) RuleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// DeleteRule removes the rule at the given 1-based index.
func (s *Store) DeleteRule(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx > len(s.rules) {
		return errs.ErrNoSuchRule
	}
	s.rules = append(s.rules[:idx-1], s.rules[idx:]...)
	return nil
}

// SetRulePriority sets a rule's priority.
func (s *Store) SetRulePriority(idx int, priority float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx > len(s.rules) {
		return errs.ErrNoSuchRule
	}
	s.rules[idx-1].Priority = priority
	return nil
}

// AddPremise appends a premise to the rule at idx.
func (s *Store) AddPremise(idx int, p Premise) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx > len(s.rules) {
		return errs.ErrNoSuchRule
	}
	s.rules[idx-1].Premises = append(s.rules[idx-1].Premises, p)
	return nil
}

// SetPremise overwrites the premise at the given 0-based position.
func (s *Store) SetPremise(ruleIdx, premiseIdx int, p Premise) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.ruleAt(ruleIdx)
	if r == nil {
		return errs.ErrNoSuchRule
	}
	if premiseIdx < 0 || premiseIdx >= len(r.Premises) {
		return errs.ErrNoSuchPremiseAction
	}
	r.Premises[premiseIdx] = p
	return nil
}

// DeletePremise removes the premise at the given 0-based position.
func (s *Store) DeletePremise(ruleIdx, premiseIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.ruleAt(ruleIdx)
	if r == nil {
		return errs.ErrNoSuchRule
	}
	if premiseIdx < 0 || premiseIdx >= len(r.Premises) {
		return errs.ErrNoSuchPremiseAction
	}
	r.Premises = append(r.Premises[:premiseIdx], r.Premises[premiseIdx+1:]...)
	return nil
}

// AddThenAction appends a THEN action to the rule at idx.
func (s *Store) AddThenAction(idx int, a RuleAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.ruleAt(idx)
	if r == nil {
		return errs.ErrNoSuchRule
	}
	r.Then = append(r.Then, a)
	return nil
}

// AddElseAction appends an ELSE action to the rule at idx.
func (s *Store) AddElseAction(idx int, a RuleAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.ruleAt(idx)
	if r == nil {
		return errs.ErrNoSuchRule
	}
	r.Else = append(r.Else, a)
	return nil
}

// GetThenAction returns the THEN action at the given 0-based position.
func (s *Store) GetThenAction(ruleIdx, actionIdx int) (RuleAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.ruleAt(ruleIdx)
	if r == nil {
		return RuleAction{}, errs.ErrNoSuchRule
	}
	if actionIdx < 0 || actionIdx >= len(r.Then) {
		return RuleAction{}, errs.ErrNoSuchPremiseAction
	}
	return r.Then[actionIdx], nil
}

// GetElseAction returns the ELSE action at the given 0-based position.
//
// The reference engine's EN_getelseaction reads from ThenActions — spec.md
// §9 Open Questions flags this as a bug. This implementation reads from
// ElseActions, the corrected behavior; see DESIGN.md for the rationale.
func (s *Store) GetElseAction(ruleIdx, actionIdx int) (RuleAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.ruleAt(ruleIdx)
	if r == nil {
		return RuleAction{}, errs.ErrNoSuchRule
	}
	if actionIdx < 0 || actionIdx >= len(r.Else) {
		return RuleAction{}, errs.ErrNoSuchPremiseAction
	}
	return r.Else[actionIdx], nil
}

func (s *Store) ruleAt(idx int) *Rule {
	if idx < 1 || idx > len(s.rules) {
		return nil
	}
	return s.rules[idx-1]
}

// ParseRule parses a multi-line rule-text block of the form:
//
//	RULE <label>
//	IF <object> <id> <variable> <relop> <value>
//	AND/OR ...
//	THEN <LINK> <id> STATUS/SETTING IS <value>
//	ELSE ...
//	PRIORITY <value>
//
// It resolves NODE/LINK object references through findNode/findLink,
// appending the parsed rule to the store. Malformed input returns
// ErrMalformedText, leaving the store untouched.
func (s *Store) ParseRule(text string, findNode, findLink func(string) int) error {
	lines := strings.Split(text, "\n")
	var label string
	var priority float64
	var premises []Premise
	var thenActions, elseActions []RuleAction

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		kw := strings.ToUpper(fields[0])
		switch kw {
		case "RULE":
			if len(fields) < 2 {
				return errs.ErrMalformedText
			}
			label = fields[1]
		case "IF", "AND", "OR":
			p, err := parsePremise(fields, findNode, findLink)
			if err != nil {
				return err
			}
			if kw == "OR" {
				p.Logic = OpOr
			} else {
				p.Logic = OpAnd
			}
			premises = append(premises, p)
		case "THEN", "ELSE":
			a, err := parseAction(fields, findLink)
			if err != nil {
				return err
			}
			if kw == "THEN" {
				thenActions = append(thenActions, a)
			} else {
				elseActions = append(elseActions, a)
			}
		case "PRIORITY":
			if len(fields) < 2 {
				return errs.ErrMalformedText
			}
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return errs.Wrap(errs.ErrMalformedText, "bad priority", err)
			}
			priority = v
		default:
			return errs.Wrap(errs.ErrMalformedText, fmt.Sprintf("unknown keyword %q", kw), nil)
		}
	}
	if label == "" {
		return errs.ErrMalformedText
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, &Rule{
		Label:    label,
		Priority: priority,
		Premises: premises,
		Then:     thenActions,
		Else:     elseActions,
	})
	return nil
}

// parsePremise parses "IF/AND/OR <NODE|LINK> <id> <variable> <relop> <value>"
// or "IF SYSTEM <variable> <relop> <value>".
func parsePremise(fields []string, findNode, findLink func(string) int) (Premise, error) {
	if len(fields) < 5 {
		return Premise{}, errs.ErrMalformedText
	}
	obj := strings.ToUpper(fields[1])
	var p Premise
	switch obj {
	case "NODE", "JUNCTION", "TANK", "RESERVOIR":
		p.Object = ObjNode
		idx := findNode(fields[2])
		if idx == 0 {
			return Premise{}, errs.ErrNoSuchNode
		}
		p.ObjectIdx = idx
		p.Variable = strings.ToUpper(fields[3])
		rel, val, err := parseRelValue(fields[4:])
		if err != nil {
			return Premise{}, err
		}
		p.Rel, p.Value = rel, val
	case "LINK", "PIPE", "PUMP", "VALVE":
		p.Object = ObjLink
		idx := findLink(fields[2])
		if idx == 0 {
			return Premise{}, errs.ErrNoSuchLink
		}
		p.ObjectIdx = idx
		p.Variable = strings.ToUpper(fields[3])
		rel, val, err := parseRelValue(fields[4:])
		if err != nil {
			return Premise{}, err
		}
		p.Rel, p.Value = rel, val
	case "SYSTEM":
		p.Object = ObjSystem
		p.Variable = strings.ToUpper(fields[2])
		rel, val, err := parseRelValue(fields[3:])
		if err != nil {
			return Premise{}, err
		}
		p.Rel, p.Value = rel, val
	default:
		return Premise{}, errs.ErrMalformedText
	}
	return p, nil
}

func parseRelValue(fields []string) (RelOp, float64, error) {
	if len(fields) < 2 {
		return 0, 0, errs.ErrMalformedText
	}
	rel, err := parseRelOp(fields[0])
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, errs.Wrap(errs.ErrMalformedText, "bad value", err)
	}
	return rel, v, nil
}

func parseRelOp(tok string) (RelOp, error) {
	switch strings.ToUpper(tok) {
	case "=", "IS":
		return RelEQ, nil
	case "<>", "NOT":
		return RelNot, nil
	case "<":
		return RelLT, nil
	case "<=":
		return RelLE, nil
	case ">":
		return RelGT, nil
	case ">=":
		return RelGE, nil
	case "BELOW":
		return RelBelow, nil
	case "ABOVE":
		return RelAbove, nil
	default:
		return 0, errs.ErrMalformedText
	}
}

// parseAction parses "THEN/ELSE <LINK|PUMP|VALVE> <id> STATUS/SETTING IS <value>".
func parseAction(fields []string, findLink func(string) int) (RuleAction, error) {
	if len(fields) < 5 {
		return RuleAction{}, errs.ErrMalformedText
	}
	idx := findLink(fields[2])
	if idx == 0 {
		return RuleAction{}, errs.ErrNoSuchLink
	}
	a := RuleAction{LinkIndex: idx}
	field := strings.ToUpper(fields[3])
	val := strings.ToUpper(fields[len(fields)-1])
	switch field {
	case "STATUS":
		a.HasStatus = true
		switch val {
		case "OPEN":
			a.Status = Open
		case "CLOSED":
			a.Status = Closed
		case "ACTIVE":
			a.Status = Active
		default:
			return RuleAction{}, errs.ErrMalformedText
		}
	case "SETTING":
		v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return RuleAction{}, errs.Wrap(errs.ErrMalformedText, "bad setting", err)
		}
		a.HasSetting = true
		a.Setting = v
	default:
		return RuleAction{}, errs.ErrMalformedText
	}
	return a, nil
}
