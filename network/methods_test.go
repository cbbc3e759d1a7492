package network_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/errs"
	"github.com/katalvlaran/hydronet/network"
)

func TestRenumberAfterAdd(t *testing.T) {
	s := network.New()

	j1, err := s.AddJunction("J1", 100)
	require.NoError(t, err)
	require.Equal(t, 1, j1)

	t1, err := s.AddTank("T1", 120, 100)
	require.NoError(t, err)
	require.Equal(t, 2, t1)

	_, err = s.AddLink("P1", j1, t1, network.Pipe)
	require.NoError(t, err)

	link := s.Link(s.FindLink("P1"))
	require.Equal(t, 1, link.N1)
	require.Equal(t, 2, link.N2)

	// Adding a second junction shifts T1 (and P1's N2) up by one.
	_, err = s.AddJunction("J2", 90)
	require.NoError(t, err)

	link = s.Link(s.FindLink("P1"))
	require.Equal(t, 1, link.N1)
	require.Equal(t, 3, link.N2)
	require.Equal(t, t1+1, s.FindNode("T1"))
	require.NoError(t, s.Validate())
}

func TestConditionalDeleteRejected(t *testing.T) {
	s := network.New()
	j1, _ := s.AddJunction("J1", 0)
	j2, _ := s.AddJunction("J2", 0)
	linkIdx, _ := s.AddLink("P1", j1, j2, network.Pipe)

	_, err := s.AddControl(network.Control{
		Kind:      network.Timer,
		LinkIndex: linkIdx,
		Status:    network.Closed,
	})
	require.NoError(t, err)

	err = s.DeleteLink(linkIdx, network.Conditional)
	require.ErrorIs(t, err, errs.ErrElementControlled)

	// Link still present.
	require.NotNil(t, s.Link(linkIdx))

	err = s.DeleteLink(linkIdx, network.Unconditional)
	require.NoError(t, err)
	require.Equal(t, 0, s.ControlCount())
}

func TestHashTableRoundTrip(t *testing.T) {
	s := network.New()
	ids := []string{"A", "B", "C", "D"}
	for _, id := range ids {
		_, err := s.AddJunction(id, 0)
		require.NoError(t, err)
	}
	_, _, nnodes, _, _, _, _ := s.GetCount()
	for i := 1; i <= nnodes; i++ {
		n := s.Node(i)
		require.Equal(t, i, s.FindNode(n.ID))
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	s := network.New()
	_, err := s.AddJunction("J1", 0)
	require.NoError(t, err)
	_, err = s.AddJunction("J1", 0)
	require.Error(t, err)
}

func TestPatternWraps(t *testing.T) {
	p := &network.Pattern{Multipliers: []float64{1, 2, 3}}
	require.Equal(t, 1.0, p.At(0))
	require.Equal(t, 2.0, p.At(1))
	require.Equal(t, 1.0, p.At(3))
	require.Equal(t, 3.0, p.At(5))
}

func TestCurveClampsAtEndpoints(t *testing.T) {
	s := network.New()
	_, err := s.AddCurve("C1", network.VolumeCurve, []float64{0, 10, 20}, []float64{0, 100, 300})
	require.NoError(t, err)
	c := s.Curve(s.FindCurve("C1"))
	require.Equal(t, 0.0, c.Interpolate(-5))
	require.Equal(t, 300.0, c.Interpolate(50))
	require.InDelta(t, 50.0, c.Interpolate(5), 1e-9)
}

func TestPrimaryDemandIsLastInserted(t *testing.T) {
	s := network.New()
	j1, _ := s.AddJunction("J1", 0)
	require.NoError(t, s.AddDemand(j1, 10, 0, "residential"))
	require.NoError(t, s.AddDemand(j1, 5, 0, "irrigation"))
	d, err := s.PrimaryDemand(j1)
	require.NoError(t, err)
	require.Equal(t, "irrigation", d.Category)
}
