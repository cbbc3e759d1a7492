package hydraulics

import "github.com/katalvlaran/hydronet/network"

// reviseLinkStatus re-evaluates check-valve, pump, and PRV/PSV status
// against the just-converged heads/flows, per spec.md §4.3 steps 3-4: a
// check valve or closed pump that would need to pass reverse flow is
// forced shut (or marked XFlow/XHead), and PRV/PSV valves transition
// between Open, Active, and Closed as the pressure they regulate crosses
// their setting. It returns the number of links whose status changed, so
// the caller knows whether the gradient solve needs to re-iterate.
func reviseLinkStatus(store *network.Store, st *State) int {
	_, _, _, _, _, _, nlinks := store.GetCount()
	changed := 0
	for i := 1; i <= nlinks; i++ {
		l := store.Link(i)
		if l == nil {
			continue
		}
		switch {
		case l.Type == network.CVPipe:
			if reviseCheckValve(st, i, l) {
				changed++
			}
		case l.Type == network.PumpLink && l.Pump != nil:
			if revisePump(st, i, l) {
				changed++
			}
		case l.Type == network.PRV:
			if revisePRV(st, i, l) {
				changed++
			}
		case l.Type == network.PSV:
			if revisePSV(st, i, l) {
				changed++
			}
		}
	}
	return changed
}

// reviseCheckValve forces a CVPipe closed once it would carry reverse
// flow, and reopens it once the head gradient would again drive flow
// forward.
func reviseCheckValve(st *State, idx int, l *network.Link) bool {
	if st.Status[idx] == network.Closed {
		if st.Head[l.N1] > st.Head[l.N2]+1e-6 {
			st.Status[idx] = network.Open
			return true
		}
		return false
	}
	if st.Flow[idx] < -headlossMinFlow {
		st.Flow[idx] = 0
		st.Status[idx] = network.Closed
		return true
	}
	return false
}

// revisePump marks a pump XFlow when it would need to pass reverse flow,
// and XHead when the head it would need to deliver exceeds its shutoff
// head H0; it returns to Open once neither condition holds.
func revisePump(st *State, idx int, l *network.Link) bool {
	switch {
	case st.Flow[idx] < -headlossMinFlow:
		st.Flow[idx] = 0
		if st.Status[idx] == network.XFlow {
			return false
		}
		st.Status[idx] = network.XFlow
		return true
	case st.Head[l.N2]-st.Head[l.N1] > l.Pump.H0:
		st.Flow[idx] = 0
		if st.Status[idx] == network.XHead {
			return false
		}
		st.Status[idx] = network.XHead
		return true
	default:
		if st.Status[idx] == network.XFlow || st.Status[idx] == network.XHead {
			st.Status[idx] = network.Open
			return true
		}
		return false
	}
}

// revisePRV keeps downstream head at Setting[idx], switching between Open
// (fully passing), Active (throttling to the setpoint), and Closed (the
// head gradient has reversed).
func revisePRV(st *State, idx int, l *network.Link) bool {
	prev := st.Status[idx]
	setting := st.Setting[idx]
	switch {
	case st.Head[l.N1] < st.Head[l.N2]-1e-6:
		st.Status[idx] = network.Closed
		st.Flow[idx] = 0
	case st.Head[l.N2] > setting+1e-6:
		st.Status[idx] = network.Active
		st.Head[l.N2] = setting
	default:
		st.Status[idx] = network.Open
	}
	return st.Status[idx] != prev
}

// revisePSV mirrors revisePRV, regulating upstream head instead.
func revisePSV(st *State, idx int, l *network.Link) bool {
	prev := st.Status[idx]
	setting := st.Setting[idx]
	switch {
	case st.Head[l.N1] < st.Head[l.N2]-1e-6:
		st.Status[idx] = network.Closed
		st.Flow[idx] = 0
	case st.Head[l.N1] < setting-1e-6:
		st.Status[idx] = network.Active
		st.Head[l.N1] = setting
	default:
		st.Status[idx] = network.Open
	}
	return st.Status[idx] != prev
}
