package project

import (
	"log"
	"os"

	"github.com/katalvlaran/hydronet/errs"
	"github.com/katalvlaran/hydronet/hydfile"
	"github.com/katalvlaran/hydronet/hydraulics"
	"github.com/katalvlaran/hydronet/network"
	"github.com/katalvlaran/hydronet/outfile"
	"github.com/katalvlaran/hydronet/quality"
	"github.com/katalvlaran/hydronet/units"
)

const engineVersion int32 = 200

// Project is the top-level facade: one network.Store, its hydraulic and
// water-quality runtime state, and the unit-conversion table applied at
// every getter/setter boundary.
type Project struct {
	cfg   config
	store *network.Store
	units *units.Table
	log   *log.Logger

	hstate *hydraulics.State
	hsolve *hydraulics.Solver

	qstate *quality.State
	qsolve *quality.Solver

	hydFilePath string
	hydWriter   *hydfile.Writer
	hydReader   *hydfile.Reader
	usingFile   bool

	outPath string
	out     *outfile.Writer

	headSamples     []float64
	pressureSamples []float64
	flowSamples     []float64

	deleted bool
}

// New creates an empty Project: no input file is read, no topology
// exists yet, mirroring spec.md §2's "EN_createproject" semantics.
func New(opts ...ProjectOption) *Project {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &Project{
		cfg:   cfg,
		store: network.New(),
		units: units.NewTable(cfg.flowUnits),
		log:   cfg.logger,
	}
	p.hstate = hydraulics.NewState()
	p.hstate.DemandModel = cfg.demandModel
	p.hstate.PDAMinPressure = cfg.pdaMin
	p.hstate.PDAReqPressure = cfg.pdaReq
	p.hstate.PDAExponent = cfg.pdaExp
	p.hstate.RuleStep = cfg.ruleStep

	p.qstate = quality.NewState()
	return p
}

// Store exposes the underlying topology store for direct API mutation,
// matching the reference engine's single-namespace element API (add/get/
// set/delete on nodes, links, patterns, curves, controls, rules).
func (p *Project) Store() *network.Store { return p.store }

// Units exposes the active conversion table so callers building a
// reporting layer can convert internal values consistently with the
// facade.
func (p *Project) Units() *units.Table { return p.units }

func (p *Project) hydOptions() hydraulics.Options {
	o := hydraulics.DefaultOptions()
	o.Formula = p.cfg.formula
	if p.cfg.linSolver != nil {
		o.LinSolver = p.cfg.linSolver
	}
	return o
}

// OpenH opens the hydraulic solver for a fresh run. Returns
// ErrHydOpenWhenUseFile if a saved hydraulics file is currently in USE
// mode (spec.md §4.6's documented mutual exclusion).
func (p *Project) OpenH() error {
	if p.usingFile {
		return errs.ErrHydOpenWhenUseFile
	}
	p.hsolve = hydraulics.NewSolver(p.store, p.hstate, p.hydOptions())
	p.log.Printf("hydraulics opened: formula=%v", p.cfg.formula)
	return p.hsolve.OpenH()
}

// InitH resets the time cursor and tank levels for a new extended-period
// run.
func (p *Project) InitH() error {
	if p.hsolve == nil {
		return errs.ErrHydNotOpen
	}
	return p.hsolve.InitH()
}

// SetDuration sets the total extended-period simulation duration in
// seconds. Must be called before InitH.
func (p *Project) SetDuration(seconds int) {
	p.hstate.Duration = seconds
}

// SetHydStep sets the nominal hydraulic time step in seconds.
func (p *Project) SetHydStep(seconds int) {
	p.hstate.HydStep = seconds
}

// RunH solves the current hydraulic period in place, returning the trial
// count and accuracy reached; non-convergence is reported as a warning on
// the Project, not as an error (spec.md §4.2's failure-semantics note).
func (p *Project) RunH() (trials int, accuracy float64, err error) {
	if p.hsolve == nil {
		return 0, 0, errs.ErrHydNotOpen
	}
	return p.hsolve.RunH()
}

// NextH advances the hydraulic time cursor, optionally persisting the just
// -solved period to the hydraulics scratch file when save is requested via
// EnableHydFileSave. Returns the step length in seconds, or 0 when the
// simulation has reached its duration.
func (p *Project) NextH(inflow map[int]float64) (int, error) {
	if p.hsolve == nil {
		return 0, errs.ErrHydNotOpen
	}
	if p.hydWriter != nil {
		if err := p.writeHydPeriod(); err != nil {
			return 0, err
		}
	}
	return p.hsolve.NextH(inflow), nil
}

// AdvancePeriod applies simple controls, runs one rule step, accumulates
// pump energy for the period just solved, and reports the combined count of
// status and setting changes made. timeOfDaySec is the time-of-day in
// seconds used to evaluate TimeOfDay controls; periodHours is the duration
// just solved, in hours, used for energy accounting. Simple controls run
// before rules, matching spec.md §4.5's documented precedence.
func (p *Project) AdvancePeriod(timeOfDaySec int, periodHours float64) int {
	changed := hydraulics.ApplySimpleControls(p.store, p.hstate, p.hstate.Htime, timeOfDaySec)
	changed += p.RunRuleStep()
	p.accumulatePumpEnergy(periodHours)
	return changed
}

func (p *Project) accumulatePumpEnergy(periodHours float64) {
	_, _, _, _, _, _, nlinks := p.store.GetCount()
	for i := 1; i <= nlinks; i++ {
		l := p.store.Link(i)
		if l == nil || l.Type != network.PumpLink || l.Pump == nil {
			continue
		}
		flow := p.hstate.Flow[i]
		if flow < 0 {
			flow = -flow
		}
		headGain := p.hstate.Head[l.N2] - p.hstate.Head[l.N1]
		hydraulics.AccumulateEnergy(l.Pump, flow, headGain, 0, p.cfg.energyPrice, periodHours)
	}
}

// CloseH releases the hydraulic solver and any open hydraulics scratch
// file handle.
func (p *Project) CloseH() error {
	if p.hsolve != nil {
		_ = p.hsolve.CloseH()
		p.hsolve = nil
	}
	if p.hydWriter != nil {
		err := p.hydWriter.Close()
		p.hydWriter = nil
		return err
	}
	if p.hydReader != nil {
		err := p.hydReader.Close()
		p.hydReader = nil
		p.usingFile = false
		return err
	}
	return nil
}

// EnableHydFileSave opens path for writing and arranges for every
// converged period to be persisted there via NextH, satisfying spec.md
// §4.6's savehydfile feature.
func (p *Project) EnableHydFileSave(path string) error {
	_, ntanks, nnodes, _, npumps, nvalves, nlinks := p.store.GetCount()
	header := hydfile.Header{
		Nnodes: int32(nnodes), Nlinks: int32(nlinks), Ntanks: int32(ntanks),
		Npumps: int32(npumps), Nvalves: int32(nvalves), Duration: int32(p.hstate.Duration),
	}
	w, err := hydfile.Create(path, header, engineVersion)
	if err != nil {
		return err
	}
	p.hydWriter = w
	p.hydFilePath = path
	return nil
}

// UseHydFile opens a previously saved hydraulics file in USE mode: the
// water-quality solver reads flows/heads from it instead of running the
// hydraulic solver itself, implementing spec.md §4.6's usehydfile
// interoperability feature.
func (p *Project) UseHydFile(path string) error {
	_, ntanks, nnodes, _, npumps, nvalves, nlinks := p.store.GetCount()
	want := hydfile.Header{
		Nnodes: int32(nnodes), Nlinks: int32(nlinks), Ntanks: int32(ntanks),
		Npumps: int32(npumps), Nvalves: int32(nvalves),
	}
	r, err := hydfile.Open(path, want)
	if err != nil {
		return err
	}
	p.hydReader = r
	p.usingFile = true
	return nil
}

func (p *Project) writeHydPeriod() error {
	_, _, nnodes, _, _, _, nlinks := p.store.GetCount()
	period := hydfile.Period{
		Time:    int32(p.hstate.Htime),
		Demand:  append([]float64{}, p.hstate.Demand[1:nnodes+1]...),
		Head:    append([]float64{}, p.hstate.Head[1:nnodes+1]...),
		Flow:    append([]float64{}, p.hstate.Flow[1:nlinks+1]...),
		Status:  statusToInt32(p.hstate.Status[1 : nlinks+1]),
		Setting: append([]float64{}, p.hstate.Setting[1:nlinks+1]...),
	}
	return p.hydWriter.WritePeriod(period)
}

func statusToInt32(s []network.LinkStatus) []int32 {
	out := make([]int32, len(s))
	for i, v := range s {
		out[i] = int32(v)
	}
	return out
}

// OpenQ seeds the water-quality solver's pipe segments.
func (p *Project) OpenQ() error {
	qopts := quality.DefaultOptions()
	qopts.QStep = p.cfg.qStep
	p.qsolve = quality.NewSolver(p.store, p.qstate, qopts)
	return p.qsolve.OpenQ()
}

// StepQ advances water quality by dt seconds using the given link flows
// (normally the just-solved hydraulic period's flows, or a period read
// back from a hydraulics file in USE mode).
func (p *Project) StepQ(flow []float64, dt float64) error {
	if p.qsolve == nil {
		return errs.ErrWQNotOpen
	}
	p.qsolve.StepQ(flow, dt)
	return nil
}

// CreateOutputFile opens path for the binary output file and writes its
// prolog.
func (p *Project) CreateOutputFile(path, title string) error {
	_, ntanks, nnodes, _, npumps, nvalves, nlinks := p.store.GetCount()
	w, err := outfile.Create(path, outfile.Prolog{
		Version: engineVersion, Nnodes: int32(nnodes), Nlinks: int32(nlinks),
		Ntanks: int32(ntanks), Npumps: int32(npumps), Nvalves: int32(nvalves),
		FlowUnits: int32(p.cfg.flowUnits), Title: title,
	})
	if err != nil {
		return err
	}
	p.out = w
	p.outPath = path
	return nil
}

// Delete releases every resource the Project holds and removes its scratch
// files, matching spec.md §2's EN_deleteproject semantics.
func (p *Project) Delete() error {
	if p.deleted {
		return nil
	}
	p.log.Println("project deleted, releasing scratch files")
	_ = p.CloseH()
	if p.out != nil {
		_ = p.out.Close()
	}
	if p.hydFilePath != "" {
		_ = os.Remove(p.hydFilePath)
	}
	p.deleted = true
	return nil
}
