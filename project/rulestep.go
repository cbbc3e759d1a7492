package project

import "github.com/katalvlaran/hydronet/rules"

// RunRuleStep evaluates every rule against the current hydraulic state and
// applies the resolved link status/setting changes in place, returning the
// number of status and setting changes made. Simple controls must be
// applied first by the caller
// (via hydraulics.ApplySimpleControls) since spec.md §4.5 gives them
// precedence over rules within a period.
func (p *Project) RunRuleStep() int {
	_, _, nnodes, _, _, _, _ := p.store.GetCount()

	pressure := make([]float64, nnodes+1)
	for i := 1; i <= nnodes; i++ {
		n := p.store.Node(i)
		if n != nil {
			pressure[i] = p.hstate.Head[i] - n.Elevation
		}
	}

	snap := rules.Snapshot{
		Htime:        p.hstate.Htime,
		NodeHead:     p.hstate.Head,
		NodePressure: pressure,
		NodeDemand:   p.hstate.Demand,
		NodeQuality:  p.hstate.Quality,
		LinkFlow:     p.hstate.Flow,
		LinkStatus:   p.hstate.Status,
		LinkSetting:  p.hstate.Setting,
	}

	firings := rules.Evaluate(p.store, snap)
	resolved := rules.Resolve(firings)
	return rules.Apply(resolved, p.hstate.Status, p.hstate.Setting)
}
