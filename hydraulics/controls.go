package hydraulics

import "github.com/katalvlaran/hydronet/network"

// ApplySimpleControls evaluates every non-rule Control against the current
// State and returns the number of status and setting changes it made (a
// link whose status and setting both change counts twice). Time-based
// controls (Timer, TimeOfDay) compare against Htime; level-based controls
// (LowLevel, HiLevel) compare against the controlling tank's current head.
//
// Grounded on spec.md §4.5's control-precedence note ("simple controls are
// applied before rules each period"); mirrors the teacher's small
// single-purpose evaluator functions rather than one large switch spread
// across files.
func ApplySimpleControls(store *network.Store, st *State, htime, timeOfDaySec int) int {
	changed := 0
	n := store.ControlCount()
	for i := 1; i <= n; i++ {
		c := store.Control(i)
		if c == nil {
			continue
		}
		if !controlFires(store, st, c, htime, timeOfDaySec) {
			continue
		}
		if st.Status[c.LinkIndex] != c.Status {
			st.Status[c.LinkIndex] = c.Status
			changed++
		}
		if c.HasSetting && st.Setting[c.LinkIndex] != c.Setting {
			st.Setting[c.LinkIndex] = c.Setting
			changed++
		}
	}
	return changed
}

func controlFires(store *network.Store, st *State, c *network.Control, htime, timeOfDaySec int) bool {
	switch c.Kind {
	case network.Timer:
		return float64(htime) == c.ThresholdTime
	case network.TimeOfDay:
		return float64(timeOfDaySec) == c.ThresholdTime
	case network.LowLevel:
		return st.Head[c.NodeIndex] <= c.ThresholdGrade
	case network.HiLevel:
		return st.Head[c.NodeIndex] >= c.ThresholdGrade
	default:
		return false
	}
}
