package rules

import "github.com/katalvlaran/hydronet/network"

// Resolve flattens a set of Firings into one action per link, keeping the
// action from the highest-priority firing when two rules target the same
// link — spec.md §4.5's documented conflict rule. Firings are otherwise
// applied in RuleIndex order, matching the reference engine's deterministic
// top-to-bottom rule list evaluation.
func Resolve(firings []Firing) map[int]network.RuleAction {
	winner := make(map[int]network.RuleAction)
	winnerPriority := make(map[int]float64)
	winnerFired := make(map[int]bool)

	for _, f := range firings {
		for _, a := range f.Actions {
			if !winnerFired[a.LinkIndex] || f.Priority > winnerPriority[a.LinkIndex] {
				winner[a.LinkIndex] = a
				winnerPriority[a.LinkIndex] = f.Priority
				winnerFired[a.LinkIndex] = true
			}
		}
	}
	return winner
}

// Apply writes each resolved action's status/setting into the link status
// and setting slices, returning the number of status and setting changes
// made (a link whose status and setting both change counts twice).
func Apply(actions map[int]network.RuleAction, status []network.LinkStatus, setting []float64) int {
	changed := 0
	for linkIdx, a := range actions {
		if a.HasStatus && status[linkIdx] != a.Status {
			status[linkIdx] = a.Status
			changed++
		}
		if a.HasSetting && setting[linkIdx] != a.Setting {
			setting[linkIdx] = a.Setting
			changed++
		}
	}
	return changed
}
