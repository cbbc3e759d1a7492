package project

import (
	"io"
	"math"
	"os"

	"github.com/katalvlaran/hydronet/errs"
	"github.com/katalvlaran/hydronet/network"
	"github.com/katalvlaran/hydronet/outfile"
	"github.com/katalvlaran/hydronet/report"
	"github.com/katalvlaran/hydronet/units"
)

// SolveH runs the hydraulic extended-period loop end to end: openH, initH,
// then runH/nextH alternating until nextH reports a zero step length, then
// closeH — spec.md §4.3's "openH→initH(SAVE)→{runH;nextH} while step>0→
// closeH". Every converged period's results are streamed to the output
// file when one is open (CreateOutputFile), and folded into the running
// samples Report summarizes. It returns the number of periods solved.
func (p *Project) SolveH() (periods int, err error) {
	if err := p.OpenH(); err != nil {
		return 0, err
	}
	if err := p.InitH(); err != nil {
		return 0, err
	}
	p.headSamples = p.headSamples[:0]
	p.pressureSamples = p.pressureSamples[:0]
	p.flowSamples = p.flowSamples[:0]

	for {
		if _, _, err := p.RunH(); err != nil {
			return periods, err
		}
		periods++
		p.collectHydSamples()
		if p.out != nil {
			if err := p.writeHydOutputPeriod(); err != nil {
				return periods, err
			}
		}

		timeOfDay := p.hstate.Htime % 86400
		periodHours := float64(p.hstate.HydStep) / 3600.0
		p.AdvancePeriod(timeOfDay, periodHours)

		step, err := p.NextH(nil)
		if err != nil {
			return periods, err
		}
		if step == 0 {
			break
		}
	}
	return periods, p.CloseH()
}

// collectHydSamples appends the just-converged period's per-element values
// to the running series Report later reduces with report.Summarize.
func (p *Project) collectHydSamples() {
	_, _, nnodes, _, _, _, nlinks := p.store.GetCount()
	for i := 1; i <= nnodes; i++ {
		p.headSamples = append(p.headSamples, p.units.ToUser(units.DimHead, p.hstate.Head[i]))
		n := p.store.Node(i)
		if n != nil && n.Type == network.Junction {
			pressure := p.hstate.Head[i] - n.Elevation
			p.pressureSamples = append(p.pressureSamples, p.units.ToUser(units.DimPressure, pressure))
		}
	}
	for i := 1; i <= nlinks; i++ {
		p.flowSamples = append(p.flowSamples, p.units.ToUser(units.DimFlow, p.hstate.Flow[i]))
	}
}

// writeHydOutputPeriod converts the current hydraulic state to the output
// file's node/link result blocks and appends them.
func (p *Project) writeHydOutputPeriod() error {
	_, _, nnodes, _, _, _, nlinks := p.store.GetCount()

	demand := make([]float32, nnodes)
	head := make([]float32, nnodes)
	pressure := make([]float32, nnodes)
	for i := 1; i <= nnodes; i++ {
		demand[i-1] = float32(p.units.ToUser(units.DimDemand, p.hstate.Demand[i]))
		head[i-1] = float32(p.units.ToUser(units.DimHead, p.hstate.Head[i]))
		n := p.store.Node(i)
		var raw float64
		if n != nil && n.Type == network.Junction {
			raw = p.hstate.Head[i] - n.Elevation
		}
		pressure[i-1] = float32(p.units.ToUser(units.DimPressure, raw))
	}

	flow := make([]float32, nlinks)
	velocity := make([]float32, nlinks)
	headloss := make([]float32, nlinks)
	status := make([]int32, nlinks)
	setting := make([]float32, nlinks)
	for i := 1; i <= nlinks; i++ {
		l := p.store.Link(i)
		flow[i-1] = float32(p.units.ToUser(units.DimFlow, p.hstate.Flow[i]))
		status[i-1] = int32(p.hstate.Status[i])
		setting[i-1] = float32(p.hstate.Setting[i])
		if l == nil {
			continue
		}
		if l.Diameter > 0 {
			area := math.Pi * l.Diameter * l.Diameter / 4.0
			velocity[i-1] = float32(p.hstate.Flow[i] / area)
		}
		headloss[i-1] = float32(p.units.ToUser(units.DimHead, p.hstate.Head[l.N1]-p.hstate.Head[l.N2]))
	}

	if err := p.out.WriteNodeResult(outfile.NodeResult{Demand: demand, Head: head, Pressure: pressure}); err != nil {
		return err
	}
	return p.out.WriteLinkResult(outfile.LinkResult{
		Flow: flow, Velocity: velocity, Headloss: headloss,
		Status: status, Setting: setting,
	})
}

// SolveQ runs the water-quality extended-period loop (spec.md §4.4) by
// replaying the hydraulic periods recorded in a hydraulics file opened in
// USE mode (UseHydFile): openQ, then stepQ once per recorded period using
// that period's flows and elapsed time, streaming a quality-only result
// block to the output file for each step when one is open.
func (p *Project) SolveQ() error {
	if !p.usingFile || p.hydReader == nil {
		return errs.ErrNoHydResults
	}
	if err := p.OpenQ(); err != nil {
		return err
	}

	prevTime := 0
	for {
		period, err := p.hydReader.ReadPeriod()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		dt := float64(int(period.Time) - prevTime)
		prevTime = int(period.Time)
		if dt <= 0 {
			dt = float64(p.cfg.qStep)
		}

		flow := make([]float64, len(period.Flow)+1)
		for i, v := range period.Flow {
			flow[i+1] = v
		}
		if err := p.StepQ(flow, dt); err != nil {
			return err
		}
		if p.out != nil {
			if err := p.writeQualityOutputPeriod(); err != nil {
				return err
			}
		}
	}
}

func (p *Project) writeQualityOutputPeriod() error {
	_, _, nnodes, _, _, _, _ := p.store.GetCount()
	quality := make([]float32, nnodes)
	for i := 1; i <= nnodes; i++ {
		quality[i-1] = float32(p.qstate.NodeConc[i])
	}
	return p.out.WriteNodeResult(outfile.NodeResult{Quality: quality})
}

// Report renders a summary table of the run's head/pressure/flow extremes,
// total pumping energy, and warning count to w, implementing spec.md
// §4.1's report operation over whatever SolveH/SolveQ accumulated.
func (p *Project) Report(w io.Writer) error {
	columns := []report.ColumnSummary{
		report.Summarize("Head", p.headSamples),
		report.Summarize("Pressure", p.pressureSamples),
		report.Summarize("Flow", p.flowSamples),
	}

	var totalEnergy, peakKW float64
	_, _, _, _, _, _, nlinks := p.store.GetCount()
	for i := 1; i <= nlinks; i++ {
		l := p.store.Link(i)
		if l == nil || l.Type != network.PumpLink || l.Pump == nil {
			continue
		}
		totalEnergy += l.Pump.EnergyUsedKWh
		if l.Pump.PeakKW > peakKW {
			peakKW = l.Pump.PeakKW
		}
	}
	return report.WriteSummaryTable(w, columns, totalEnergy, peakKW, int(p.hstate.Warnings))
}

// writeEpilog appends the output file's closing summary block.
func (p *Project) writeEpilog() error {
	var totalEnergy, peakKW float64
	_, _, _, _, _, _, nlinks := p.store.GetCount()
	for i := 1; i <= nlinks; i++ {
		l := p.store.Link(i)
		if l == nil || l.Type != network.PumpLink || l.Pump == nil {
			continue
		}
		totalEnergy += l.Pump.EnergyUsedKWh
		if l.Pump.PeakKW > peakKW {
			peakKW = l.Pump.PeakKW
		}
	}
	return p.out.WriteEpilog(outfile.Epilog{
		TotalEnergyKWh: totalEnergy,
		PeakPumpKW:     peakKW,
		WarningCount:   int32(p.hstate.Warnings),
	})
}

// RunProject is the top-level convenience pipeline for the common
// end-to-end case (spec.md §4.1's runproject): it solves hydraulics to a
// scratch hydraulics file, replays water quality from that file, streams
// both into the output file, and writes a closing report. outPath and
// rptPath may be empty to skip the output file or the report respectively;
// hydPath must name a writable scratch file.
func (p *Project) RunProject(outPath, hydPath, rptPath, title string) error {
	if outPath != "" {
		if err := p.CreateOutputFile(outPath, title); err != nil {
			return err
		}
	}
	if err := p.EnableHydFileSave(hydPath); err != nil {
		return err
	}
	if _, err := p.SolveH(); err != nil {
		return err
	}
	if err := p.UseHydFile(hydPath); err != nil {
		return err
	}
	if err := p.SolveQ(); err != nil {
		return err
	}
	if err := p.CloseH(); err != nil {
		return err
	}

	if p.out != nil {
		if err := p.writeEpilog(); err != nil {
			return err
		}
		if err := p.out.Close(); err != nil {
			return err
		}
		p.out = nil
	}

	if rptPath == "" {
		return nil
	}
	f, err := os.Create(rptPath)
	if err != nil {
		return errs.Wrap(errs.ErrOutputOpen, rptPath, err)
	}
	defer f.Close()
	return p.Report(f)
}
