// Package project implements the Project facade: the single entry point
// that owns a network.Store, a hydraulics.State/Solver, a quality.State/
// Solver, and the scratch-file lifecycle, and dispatches every public
// operation through the coded errs vocabulary.
//
// Grounded on the teacher's functional-options pattern (builder/options.go)
// for ProjectOption, and on the same "validate and panic on programmer
// error, never on user data" split: ProjectOption constructors panic on a
// nil argument (a coding mistake) but every data-path operation (OpenH,
// RunH, UseHydFile, ...) returns an error instead.
package project

import (
	"log"

	"github.com/katalvlaran/hydronet/hydraulics"
	"github.com/katalvlaran/hydronet/units"
)

// ProjectOption customizes a Project before first use.
type ProjectOption func(*config)

type config struct {
	flowUnits  units.FlowUnits
	formula    hydraulics.HeadlossFormula
	logger     *log.Logger
	linSolver  hydraulics.LinearSolver
	ruleStep   int
	demandModel hydraulics.DemandModel
	pdaMin, pdaReq, pdaExp float64
	energyPrice float64
	qStep       int
}

func defaultConfig() config {
	return config{
		flowUnits: units.GPM,
		formula:   hydraulics.HazenWilliams,
		logger:    log.Default(),
		ruleStep:  3600,
		demandModel: hydraulics.DemandDriven,
		pdaMin: 0, pdaReq: 20, pdaExp: 0.5,
		energyPrice: 0.12,
		qStep:       300,
	}
}

// WithFlowUnits selects the user-visible flow unit and, transitively, the
// whole unit system (spec.md §4.1).
func WithFlowUnits(u units.FlowUnits) ProjectOption {
	return func(c *config) { c.flowUnits = u }
}

// WithHeadlossFormula selects the global headloss model.
func WithHeadlossFormula(f hydraulics.HeadlossFormula) ProjectOption {
	return func(c *config) { c.formula = f }
}

// WithLogger attaches a logger. Panics on nil, matching the teacher's
// convention that option constructors reject meaningless arguments
// immediately rather than let a nil propagate into a background solve.
func WithLogger(l *log.Logger) ProjectOption {
	if l == nil {
		panic("project: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}

// WithLinearSolver overrides the default Cholesky-backed LinearSolver.
func WithLinearSolver(s hydraulics.LinearSolver) ProjectOption {
	if s == nil {
		panic("project: WithLinearSolver(nil)")
	}
	return func(c *config) { c.linSolver = s }
}

// WithRuleStep sets the rule-evaluation interval in seconds.
func WithRuleStep(seconds int) ProjectOption {
	if seconds <= 0 {
		panic("project: WithRuleStep(<=0)")
	}
	return func(c *config) { c.ruleStep = seconds }
}

// WithPressureDependentDemand switches the demand model to PDA with the
// given minimum/required pressure and exponent (spec.md §4.4).
func WithPressureDependentDemand(minPressure, reqPressure, exponent float64) ProjectOption {
	return func(c *config) {
		c.demandModel = hydraulics.PressureDriven
		c.pdaMin, c.pdaReq, c.pdaExp = minPressure, reqPressure, exponent
	}
}

// WithEnergyPrice sets the price per kWh used for pump energy-cost
// accounting during AdvancePeriod.
func WithEnergyPrice(pricePerKWh float64) ProjectOption {
	return func(c *config) { c.energyPrice = pricePerKWh }
}

// WithQualityStep sets the water-quality time step in seconds used by
// SolveQ when replaying a hydraulics file (spec.md §4.4). SolveQ advances
// one step per replayed period, by the time elapsed since the previous
// period; this value is the step used for a period with no elapsed time
// (the first one).
func WithQualityStep(seconds int) ProjectOption {
	if seconds <= 0 {
		panic("project: WithQualityStep(<=0)")
	}
	return func(c *config) { c.qStep = seconds }
}
