package hydraulics

import "github.com/katalvlaran/hydronet/network"

const (
	specificWeightWater = 62.4 // lb/ft^3
	hpToKw               = 0.7457
	hpConversion         = 550.0 // ft-lb/s per horsepower
)

// AccumulateEnergy adds one period's pumping energy and cost to a pump's
// running totals, following the standard hydraulic-power formula
// P = gamma*Q*H/eff, and updates PeakKW if this period exceeds it.
//
// Grounded on spec.md §4.3's "supplemented: per-pump energy accounting"
// note; there is no teacher analogue since lvlath never models a powered
// element, so this is original domain code written in the teacher's
// small-function, no-hidden-side-effects style.
func AccumulateEnergy(p *network.PumpData, flow, head, efficiency, pricePerKWh float64, periodHours float64) {
	if flow <= 0 || head <= 0 || periodHours <= 0 {
		return
	}
	if efficiency <= 0 {
		efficiency = 0.75 // reference engine's default pump efficiency
	}
	hp := specificWeightWater * flow * head / (hpConversion * efficiency)
	kw := hp * hpToKw
	if kw > p.PeakKW {
		p.PeakKW = kw
	}
	kwh := kw * periodHours
	p.EnergyUsedKWh += kwh
	p.EnergyCost += kwh * pricePerKWh
}
