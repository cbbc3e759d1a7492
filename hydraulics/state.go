// Package hydraulics implements the steady-state gradient-method flow
// solver and the extended-period time loop described in spec.md §4.3.
//
// The Jacobian assembly lives here; the actual sparse factorization is an
// out-of-scope "opaque algorithm" per spec.md §1, delegated to the
// LinearSolver interface (see linsolve.go) — a gonum/mat-backed
// implementation is wired by default, grounded on the gonum usage found
// elsewhere in the retrieved pack's numeric repositories.
package hydraulics

import (
	"time"

	"github.com/katalvlaran/hydronet/network"
)

// HeadlossFormula selects the global headloss model.
type HeadlossFormula int

const (
	HazenWilliams HeadlossFormula = iota
	DarcyWeisbach
	ChezyManning
)

// DemandModel selects demand-at-a-junction behavior.
type DemandModel int

const (
	DemandDriven DemandModel = iota // full base demand regardless of pressure
	PressureDriven
)

// State is the mutable simulation snapshot for one Project: demands,
// heads, flows, statuses, settings, and the solver's time cursors. It is
// kept separate from network.Store's topology tables (mirroring the
// teacher's split between vertex/edge catalogs and algorithm-local
// traversal state) so readers of results never contend with topology
// edits.
type State struct {
	Demand   []float64 // per node, current-period demand, internal units (cfs)
	Head     []float64 // per node, current head, ft
	Quality  []float64 // per node, placeholder carried for the quality solver's handoff

	Flow     []float64 // per link, signed flow N1->N2, internal units (cfs)
	Status   []network.LinkStatus
	Setting  []float64 // valve/pump setting (pressure, flow, or speed, by type)

	Htime    int // seconds, current hydraulic-period cursor
	Duration int // seconds, total simulation duration
	HydStep  int // seconds, nominal hydraulic time step
	RuleStep int // seconds, rule-evaluation interval
	PatternStep int // seconds, demand-pattern indexing interval

	Trials    int // iterations used by the last period's solve
	MaxTrials int
	Accuracy  float64 // composite convergence accuracy reached
	Warnings  uint32  // highest errs.Warn* code observed this run (0 = none)

	DemandModel DemandModel
	PDAMinPressure float64
	PDAReqPressure float64
	PDAExponent    float64

	opened     bool
	initialized bool
	usingFile   bool
}

// NewState returns an empty State with one-hour pattern and hydraulic
// steps; its per-node/per-link arrays are allocated by Resize, which
// callers must call after any topology mutation.
func NewState() *State { return &State{PatternStep: 3600, HydStep: 3600} }

// Resize grows the per-node/per-link arrays to match the store's current
// element counts, zero-filling new slots and preserving existing values —
// this is what lets a Project keep running hydraulics across API edits
// between periods.
func (st *State) Resize(nnodes, nlinks int) {
	st.Demand = growFloat(st.Demand, nnodes+1)
	st.Head = growFloat(st.Head, nnodes+1)
	st.Quality = growFloat(st.Quality, nnodes+1)
	st.Flow = growFloat(st.Flow, nlinks+1)
	st.Setting = growFloat(st.Setting, nlinks+1)
	if len(st.Status) < nlinks+1 {
		grown := make([]network.LinkStatus, nlinks+1)
		copy(grown, st.Status)
		for i := len(st.Status); i < nlinks+1; i++ {
			grown[i] = network.Open
		}
		st.Status = grown
	}
}

func growFloat(s []float64, n int) []float64 {
	if len(s) >= n {
		return s
	}
	grown := make([]float64, n)
	copy(grown, s)
	return grown
}

// nowFunc is overridable in tests; the solver loop never calls it (the
// loop is driven by simulation time, not wall-clock time).
var nowFunc = time.Now
