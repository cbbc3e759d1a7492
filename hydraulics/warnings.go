package hydraulics

// raiseWarning records a warning code for the current period, keeping only
// the highest code observed (errs.go's documented "highest code wins"
// contract for the <100 warning range).
func (st *State) raiseWarning(code int) {
	if code > int(st.Warnings) {
		st.Warnings = uint32(code)
	}
}

// HasWarning reports whether the accumulated warning is at least as severe
// as code.
func (st *State) HasWarning(code int) bool {
	return int(st.Warnings) >= code && st.Warnings != 0
}
