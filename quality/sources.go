package quality

import "github.com/katalvlaran/hydronet/network"

// InjectedConcentration returns the concentration a node's Source adds to
// water leaving it this period, per spec.md §5's four source kinds.
// flowOut is the node's total outflow rate for the step (ft^3/s).
func InjectedConcentration(src *network.Source, patternMultiplier, ambientConc, flowOut float64) float64 {
	if src == nil || flowOut <= 0 {
		return ambientConc
	}
	base := src.Base * patternMultiplier
	switch src.Kind {
	case network.Mass:
		// Base is a mass rate (e.g. mg/min); converting to concentration
		// requires dividing by the carrying flow.
		return ambientConc + base/flowOut
	case network.Setpoint:
		if base > ambientConc {
			return base
		}
		return ambientConc
	case network.FlowPaced:
		return ambientConc + base
	default: // Concen
		return ambientConc + base
	}
}
