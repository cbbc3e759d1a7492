package rules_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/network"
	"github.com/katalvlaran/hydronet/rules"
)

func buildStoreWithRule(t *testing.T, rel network.RelOp, threshold float64, then network.RuleAction) *network.Store {
	s := network.New()
	j1, err := s.AddJunction("J1", 0)
	require.NoError(t, err)
	j2, err := s.AddJunction("J2", 0)
	require.NoError(t, err)
	_, err = s.AddLink("P1", j1, j2, network.Pipe)
	require.NoError(t, err)

	ruleIdx, err := s.AddRule("R1", 5)
	require.NoError(t, err)
	require.NoError(t, s.AddPremise(ruleIdx, network.Premise{
		Object:    network.ObjNode,
		ObjectIdx: j1,
		Variable:  "PRESSURE",
		Rel:       rel,
		Value:     threshold,
	}))
	require.NoError(t, s.AddThenAction(ruleIdx, then))
	return s
}

func TestEvaluateFiresOnTruePremise(t *testing.T) {
	linkIdx := 1
	s := buildStoreWithRule(t, network.RelGT, 10, network.RuleAction{LinkIndex: linkIdx, HasStatus: true, Status: network.Closed})

	snap := rules.Snapshot{NodePressure: []float64{0, 20, 0}}
	firings := rules.Evaluate(s, snap)
	require.Len(t, firings, 1)
	require.Equal(t, network.Closed, firings[0].Actions[0].Status)
}

func TestEvaluateSkipsOnFalsePremiseNoElse(t *testing.T) {
	linkIdx := 1
	s := buildStoreWithRule(t, network.RelGT, 10, network.RuleAction{LinkIndex: linkIdx, HasStatus: true, Status: network.Closed})

	snap := rules.Snapshot{NodePressure: []float64{0, 5, 0}}
	firings := rules.Evaluate(s, snap)
	require.Empty(t, firings)
}

func TestResolvePrefersHigherPriority(t *testing.T) {
	firings := []rules.Firing{
		{RuleIndex: 1, Priority: 1, Actions: []network.RuleAction{{LinkIndex: 1, HasStatus: true, Status: network.Open}}},
		{RuleIndex: 2, Priority: 5, Actions: []network.RuleAction{{LinkIndex: 1, HasStatus: true, Status: network.Closed}}},
	}
	resolved := rules.Resolve(firings)
	require.Equal(t, network.Closed, resolved[1].Status)
}

func TestApplyReportsChangeCount(t *testing.T) {
	actions := map[int]network.RuleAction{
		1: {LinkIndex: 1, HasStatus: true, Status: network.Closed},
	}
	status := []network.LinkStatus{network.Open, network.Open}
	setting := []float64{0, 0}
	changed := rules.Apply(actions, status, setting)
	require.Equal(t, 1, changed)
	require.Equal(t, network.Closed, status[1])
}
