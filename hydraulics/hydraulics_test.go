package hydraulics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/hydraulics"
	"github.com/katalvlaran/hydronet/network"
)

func TestDeliveredDemandPDA(t *testing.T) {
	st := hydraulics.NewState()
	st.DemandModel = hydraulics.PressureDriven
	st.PDAMinPressure = 0
	st.PDAReqPressure = 20
	st.PDAExponent = 0.5

	require.Equal(t, 0.0, st.DeliveredDemand(10, -5))
	require.Equal(t, 10.0, st.DeliveredDemand(10, 25))
	mid := st.DeliveredDemand(10, 10)
	require.Greater(t, mid, 0.0)
	require.Less(t, mid, 10.0)
}

func TestDeliveredDemandDemandDriven(t *testing.T) {
	st := hydraulics.NewState()
	st.DemandModel = hydraulics.DemandDriven
	require.Equal(t, 5.0, st.DeliveredDemand(5, -100))
}

func buildTwoJunctionNetwork(t *testing.T) (*network.Store, int, int, int) {
	s := network.New()
	r1, err := s.AddReservoir("R1", 100)
	require.NoError(t, err)
	j1, err := s.AddJunction("J1", 50)
	require.NoError(t, err)
	r1 = s.FindNode("R1") // adding J1 shifted R1 up by one index
	linkIdx, err := s.AddLink("P1", r1, j1, network.Pipe)
	require.NoError(t, err)
	l := s.Link(linkIdx)
	l.Diameter = 1.0
	l.Length = 1000
	l.Kc = 130
	l.R = 1.0
	return s, r1, j1, linkIdx
}

func TestConnectivityReachesFromReservoir(t *testing.T) {
	s, _, j1, linkIdx := buildTwoJunctionNetwork(t)
	st := hydraulics.NewState()
	_, _, nnodes, _, _, _, nlinks := s.GetCount()
	st.Resize(nnodes, nlinks)
	st.Status[linkIdx] = network.Open

	reachable := hydraulics.CheckConnectivity(s, st, hydraulics.NewConnectivityCache())
	require.True(t, reachable[j1])
}

func TestConnectivityDetectsClosedIsolation(t *testing.T) {
	s, _, j1, linkIdx := buildTwoJunctionNetwork(t)
	st := hydraulics.NewState()
	_, _, nnodes, _, _, _, nlinks := s.GetCount()
	st.Resize(nnodes, nlinks)
	st.Status[linkIdx] = network.Closed

	reachable := hydraulics.CheckConnectivity(s, st, hydraulics.NewConnectivityCache())
	require.False(t, reachable[j1])
}

func TestSolverOpenInitLifecycle(t *testing.T) {
	s, _, _, _ := buildTwoJunctionNetwork(t)
	st := hydraulics.NewState()
	sv := hydraulics.NewSolver(s, st, hydraulics.DefaultOptions())

	_, _, err := sv.RunH()
	require.Error(t, err, "RunH before OpenH/InitH must fail")

	require.NoError(t, sv.OpenH())
	require.NoError(t, sv.InitH())

	trials, _, err := sv.RunH()
	require.NoError(t, err)
	require.GreaterOrEqual(t, trials, 1)
}

func TestComputeDemandsScalesByPattern(t *testing.T) {
	s, _, j1, linkIdx := buildTwoJunctionNetwork(t)
	_ = linkIdx
	patIdx, err := s.AddPattern("daily", []float64{1.0, 2.0, 0.5})
	require.NoError(t, err)
	require.NoError(t, s.AddDemand(j1, 10, patIdx, "residential"))

	st := hydraulics.NewState()
	_, _, nnodes, _, _, _, nlinks := s.GetCount()
	st.Resize(nnodes, nlinks)
	st.PatternStep = 3600

	st.Htime = 0
	hydraulics.ComputeDemands(s, st)
	require.InDelta(t, 10.0, st.Demand[j1], 1e-9)

	st.Htime = 3600
	hydraulics.ComputeDemands(s, st)
	require.InDelta(t, 20.0, st.Demand[j1], 1e-9)

	st.Htime = 7200
	hydraulics.ComputeDemands(s, st)
	require.InDelta(t, 5.0, st.Demand[j1], 1e-9)
}

func TestApplySimpleControlsTimer(t *testing.T) {
	s := network.New()
	j1, _ := s.AddJunction("J1", 0)
	j2, _ := s.AddJunction("J2", 0)
	linkIdx, _ := s.AddLink("P1", j1, j2, network.Pipe)

	_, err := s.AddControl(network.Control{
		Kind:          network.Timer,
		LinkIndex:     linkIdx,
		Status:        network.Closed,
		ThresholdTime: 3600,
	})
	require.NoError(t, err)

	st := hydraulics.NewState()
	_, _, nnodes, _, _, _, nlinks := s.GetCount()
	st.Resize(nnodes, nlinks)
	st.Status[linkIdx] = network.Open

	changed := hydraulics.ApplySimpleControls(s, st, 3600, 0)
	require.Equal(t, 1, changed)
	require.Equal(t, network.Closed, st.Status[linkIdx])
}
