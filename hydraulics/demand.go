package hydraulics

import "github.com/katalvlaran/hydronet/network"

// ComputeDemands folds every junction's base demand categories through
// their assigned demand pattern for the current period, then — in
// PressureDriven mode — through the pressure-dependent ramp, writing the
// result into st.Demand. Spec.md §4.3 step 1: "scale base demand by
// pattern value."
//
// Grounded on network.Pattern.At's documented period-wrapping boundary;
// original domain code otherwise, since no teacher package folds a
// category list through a cyclic multiplier table.
func ComputeDemands(store *network.Store, st *State) {
	_, _, nnodes, _, _, _, _ := store.GetCount()
	period := 0
	if st.PatternStep > 0 {
		period = st.Htime / st.PatternStep
	}
	for i := 1; i <= nnodes; i++ {
		n := store.Node(i)
		if n == nil || n.Type != network.Junction {
			continue
		}
		base := 0.0
		for _, d := range n.Demands {
			mult := 1.0
			if d.PatternIndex != 0 {
				if p := store.Pattern(d.PatternIndex); p != nil {
					mult = p.At(period)
				}
			}
			base += d.Base * mult
		}
		if st.DemandModel == PressureDriven {
			pressure := st.Head[i] - n.Elevation
			base = st.DeliveredDemand(base, pressure)
		}
		st.Demand[i] = base
	}
}
