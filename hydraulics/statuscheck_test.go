package hydraulics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/network"
)

func TestReviseLinkStatusClosesReversedCheckValve(t *testing.T) {
	s := network.New()
	j1, _ := s.AddJunction("J1", 0)
	j2, _ := s.AddJunction("J2", 0)
	linkIdx, _ := s.AddLink("CV1", j1, j2, network.CVPipe)

	st := NewState()
	_, _, nnodes, _, _, _, nlinks := s.GetCount()
	st.Resize(nnodes, nlinks)
	st.Status[linkIdx] = network.Open
	st.Flow[linkIdx] = -1.0

	changed := reviseLinkStatus(s, st)
	require.Equal(t, 1, changed)
	require.Equal(t, network.Closed, st.Status[linkIdx])
	require.Equal(t, 0.0, st.Flow[linkIdx])
}

func TestReviseLinkStatusMarksPumpXFlow(t *testing.T) {
	s := network.New()
	j1, _ := s.AddJunction("J1", 0)
	j2, _ := s.AddJunction("J2", 0)
	linkIdx, err := s.AddLink("PU1", j1, j2, network.PumpLink)
	require.NoError(t, err)
	l := s.Link(linkIdx)
	l.Pump = &network.PumpData{LinkIndex: linkIdx, H0: 100}

	st := NewState()
	_, _, nnodes, _, _, _, nlinks := s.GetCount()
	st.Resize(nnodes, nlinks)
	st.Status[linkIdx] = network.Open
	st.Flow[linkIdx] = -2.0

	changed := reviseLinkStatus(s, st)
	require.Equal(t, 1, changed)
	require.Equal(t, network.XFlow, st.Status[linkIdx])
}
