package hydraulics

import "math"

// DeliveredDemand applies the pressure-dependent demand model from
// spec.md §4.4: a junction below PDAMinPressure delivers nothing, one at
// or above PDAReqPressure delivers its full base demand, and the region
// between follows a power-law ramp. DemandDriven mode always returns base
// unchanged, matching the reference engine's default behavior.
func (st *State) DeliveredDemand(base, pressure float64) float64 {
	if st.DemandModel == DemandDriven || base <= 0 {
		return base
	}
	pMin, pReq := st.PDAMinPressure, st.PDAReqPressure
	switch {
	case pressure <= pMin:
		return 0
	case pressure >= pReq:
		return base
	}
	ratio := (pressure - pMin) / (pReq - pMin)
	frac := math.Pow(ratio, st.PDAExponent)
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return base * frac
}
