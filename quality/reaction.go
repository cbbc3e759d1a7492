package quality

import "math"

// BulkDecay returns the concentration remaining after dt seconds of
// first-order (or zero-order/nth-order) bulk-fluid reaction at rate kb
// (per second, negative for decay, positive for growth).
//
// Grounded on spec.md §5's documented reaction kinetics; this is the only
// place in the repository doing continuous-time exponential decay, so it
// stands alone rather than sharing code with the hydraulic solver's
// discrete per-trial updates.
func BulkDecay(conc, kb float64, order ReactionOrder, dt float64) float64 {
	if dt <= 0 {
		return conc
	}
	switch order {
	case ZeroOrder:
		next := conc + kb*dt
		if next < 0 {
			return 0
		}
		return next
	case NthOrder:
		// Second-order approximation; kb carries units consistent with
		// conc^2 per second for this branch.
		if conc <= 0 {
			return conc
		}
		next := conc / (1 - kb*conc*dt)
		if next < 0 {
			return 0
		}
		return next
	default: // FirstOrder
		return conc * math.Exp(kb*dt)
	}
}

// WallDecay applies a wall-reaction term to a pipe segment, modeled as an
// additional first-order sink/source proportional to the pipe's
// surface-area-to-volume ratio (4/diameter for a cylindrical pipe).
func WallDecay(conc, kw, diameter float64, dt float64) float64 {
	if dt <= 0 || diameter <= 0 {
		return conc
	}
	rate := kw * 4 / diameter
	return conc * math.Exp(rate*dt)
}
