package units_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/units"
)

func TestRoundTrip(t *testing.T) {
	tab := units.NewTable(units.GPM)
	user := tab.ToUser(units.DimFlow, 1.0)
	back := tab.ToInternal(units.DimFlow, user)
	require.InDelta(t, 1.0, back, 1e-9)
}

func TestRescaleCurveMatchesFactorRatio(t *testing.T) {
	from := units.NewTable(units.CFS)
	to := units.NewTable(units.GPM)
	x := []float64{10, 20, 30}
	y := []float64{1, 2, 3}
	nx, _ := units.RescaleCurve(x, y, units.DimFlow, units.DimHead, from, to)
	for i := range x {
		expected := x[i] * (from.Factor(units.DimFlow) / to.Factor(units.DimFlow))
		require.InDelta(t, expected, nx[i], 1e-9, "must match spec.md §8's new_x = old_x*(old_ucf/new_ucf) invariant")
	}
}
