// Package rules implements the runtime evaluator for rules stored in a
// network.Store: premise evaluation against live simulation state,
// THEN/ELSE action selection, and priority-based conflict resolution when
// two fired rules target the same link.
//
// Grounded on spec.md §4.5's description of the reference engine's
// rule-time evaluation loop; network.Rule/Premise/RuleAction (the storage
// side) is defined in package network, following the teacher's split
// between a data-catalog package and algorithm packages that read it
// (e.g. graph/algorithms vs core).
package rules

import (
	"github.com/katalvlaran/hydronet/network"
)

// Snapshot is the minimal read view of simulation state a premise needs:
// node heads/pressures/demands/qualities and link flows/statuses/settings,
// plus the system clock. It decouples this package from hydraulics/quality
// so neither depends on the other.
type Snapshot struct {
	Htime int

	NodeHead    []float64
	NodePressure []float64
	NodeDemand  []float64
	NodeQuality []float64

	LinkFlow    []float64
	LinkStatus  []network.LinkStatus
	LinkSetting []float64
}

// Firing is one rule that evaluated true this step, carrying the actions
// it wants applied.
type Firing struct {
	RuleIndex int
	Priority  float64
	Actions   []network.RuleAction
}

// Evaluate walks every rule in store, tests its premise chain against snap,
// and returns one Firing per rule whose premises hold (THEN actions) or
// whose premises fail and which has an ELSE clause (ELSE actions).
//
// AND binds tighter than OR: consecutive premises joined by OpAnd form a
// group, and the chain holds when any group holds.
func Evaluate(store *network.Store, snap Snapshot) []Firing {
	var firings []Firing
	n := store.RuleCount()
	for i := 1; i <= n; i++ {
		r := store.Rule(i)
		if r == nil || len(r.Premises) == 0 {
			continue
		}
		if premisesHold(r.Premises, snap) {
			if len(r.Then) > 0 {
				firings = append(firings, Firing{RuleIndex: i, Priority: r.Priority, Actions: r.Then})
			}
		} else if len(r.Else) > 0 {
			firings = append(firings, Firing{RuleIndex: i, Priority: r.Priority, Actions: r.Else})
		}
	}
	return firings
}

func premisesHold(premises []network.Premise, snap Snapshot) bool {
	result := false
	group := evalPremise(premises[0], snap)
	for _, p := range premises[1:] {
		v := evalPremise(p, snap)
		switch p.Logic {
		case network.OpOr:
			result = result || group
			group = v
		default:
			group = group && v
		}
	}
	return result || group
}

func evalPremise(p network.Premise, snap Snapshot) bool {
	var lhs float64
	switch p.Object {
	case network.ObjNode:
		lhs = nodeVariable(p, snap)
	case network.ObjLink:
		return linkPremise(p, snap)
	case network.ObjSystem:
		lhs = systemVariable(p, snap)
	}
	return compare(lhs, p.Rel, p.Value)
}

func nodeVariable(p network.Premise, snap Snapshot) float64 {
	idx := p.ObjectIdx
	switch p.Variable {
	case "PRESSURE":
		return at(snap.NodePressure, idx)
	case "HEAD", "LEVEL", "GRADE":
		return at(snap.NodeHead, idx)
	case "DEMAND":
		return at(snap.NodeDemand, idx)
	case "QUALITY":
		return at(snap.NodeQuality, idx)
	default:
		return 0
	}
}

func linkPremise(p network.Premise, snap Snapshot) bool {
	idx := p.ObjectIdx
	switch p.Variable {
	case "STATUS":
		if !p.HasStatus {
			return false
		}
		return at(snap.LinkStatus, idx) == p.Status
	case "FLOW":
		return compare(at(snap.LinkFlow, idx), p.Rel, p.Value)
	case "SETTING":
		return compare(at(snap.LinkSetting, idx), p.Rel, p.Value)
	default:
		return false
	}
}

func systemVariable(p network.Premise, snap Snapshot) float64 {
	switch p.Variable {
	case "TIME":
		return float64(snap.Htime)
	case "CLOCKTIME":
		return float64(snap.Htime % 86400)
	default:
		return 0
	}
}

func compare(lhs float64, rel network.RelOp, rhs float64) bool {
	switch rel {
	case network.RelEQ, network.RelIs:
		return lhs == rhs
	case network.RelNE, network.RelNot:
		return lhs != rhs
	case network.RelLT, network.RelBelow:
		return lhs < rhs
	case network.RelLE:
		return lhs <= rhs
	case network.RelGT, network.RelAbove:
		return lhs > rhs
	case network.RelGE:
		return lhs >= rhs
	default:
		return false
	}
}

func at[T any](s []T, idx int) T {
	var zero T
	if idx < 0 || idx >= len(s) {
		return zero
	}
	return s[idx]
}
