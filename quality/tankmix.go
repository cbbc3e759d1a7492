package quality

import "github.com/katalvlaran/hydronet/network"

// TankMixer advances a tank's mixing state ts by one step given the inflow
// volume/concentration arriving and the outflow volume requested, and
// returns the concentration delivered to that outflow. zoneVolume is the
// tank's configured well-mixed-zone size (TankData.MixZoneVolume);
// mixers that don't use a second compartment ignore it.
type TankMixer interface {
	Mix(ts *TankState, zoneVolume, inflowVol, inflowConc, outflowVol float64) (outflowConc float64)
}

// MixerFor returns the TankMixer implementing a tank's configured mixing
// model.
func MixerFor(model network.MixingModel) TankMixer {
	switch model {
	case network.Mix2:
		return mix2{}
	case network.FIFO:
		return fifoMixer{}
	case network.LIFO:
		return lifoMixer{}
	default:
		return mix1{}
	}
}

// mix1 is the complete-mix, single-compartment model: inflow mixes
// instantly with the full tank volume.
type mix1 struct{}

func (mix1) Mix(ts *TankState, _ float64, inflowVol, inflowConc, outflowVol float64) float64 {
	mass := ts.Volume*ts.Conc + inflowVol*inflowConc
	preOutVolume := ts.Volume + inflowVol
	outConc := ts.Conc
	if preOutVolume > 0 {
		outConc = mass / preOutVolume
	}
	ts.Volume = preOutVolume - outflowVol
	ts.Conc = outConc
	return outConc
}

// mix2 is the two-compartment model: inflow and outflow pass through a
// well-mixed zone of size zoneVolume; whatever the tank's total volume
// exceeds that zone is a stagnant second compartment that exchanges with
// the mixed zone only as the mixed zone overflows or needs topping up.
type mix2 struct{}

func (mix2) Mix(ts *TankState, zoneVolume, inflowVol, inflowConc, outflowVol float64) float64 {
	if zoneVolume <= 0 {
		return mix1{}.Mix(ts, 0, inflowVol, inflowConc, outflowVol)
	}

	mixedVol := ts.Volume
	if mixedVol > zoneVolume {
		mixedVol = zoneVolume
	}
	stagnantVol := ts.Volume - mixedVol

	mixMass := mixedVol*ts.Conc + inflowVol*inflowConc
	outConc := ts.Conc
	if mixedVol+inflowVol > 0 {
		outConc = mixMass / (mixedVol + inflowVol)
	}
	newMixedVol := mixedVol + inflowVol - outflowVol

	newTotal := ts.Volume + inflowVol - outflowVol
	newMixedCap := newTotal
	if newMixedCap > zoneVolume {
		newMixedCap = zoneVolume
	}

	switch {
	case newMixedVol > newMixedCap:
		overflow := newMixedVol - newMixedCap
		stagnantMass := stagnantVol*ts.StagnantConc + overflow*outConc
		stagnantVol += overflow
		if stagnantVol > 0 {
			ts.StagnantConc = stagnantMass / stagnantVol
		}
		newMixedVol = newMixedCap
	case newMixedVol < newMixedCap && stagnantVol > 0:
		draw := newMixedCap - newMixedVol
		if draw > stagnantVol {
			draw = stagnantVol
		}
		drawnMass := outConc*newMixedVol + draw*ts.StagnantConc
		newMixedVol += draw
		stagnantVol -= draw
		if newMixedVol > 0 {
			outConc = drawnMass / newMixedVol
		}
	}

	ts.Volume = newMixedVol + stagnantVol
	ts.Conc = outConc
	return outConc
}

// fifoMixer is the plug-flow queue model: outflow draws the oldest water in
// the tank, reusing PipeQueue's head-in/tail-out segment deque.
type fifoMixer struct{}

func (fifoMixer) Mix(ts *TankState, _ float64, inflowVol, inflowConc, outflowVol float64) float64 {
	ts.Queue.Enqueue(inflowVol, inflowConc)
	outConc := ts.Queue.Dequeue(outflowVol)
	ts.Volume += inflowVol - outflowVol
	ts.Conc = outConc
	return outConc
}

// lifoMixer is the plug-flow stack model: outflow draws the most recently
// entered water, so new segments are appended at the tail (the end
// PipeQueue.Dequeue consumes first) instead of the head.
type lifoMixer struct{}

func (lifoMixer) Mix(ts *TankState, _ float64, inflowVol, inflowConc, outflowVol float64) float64 {
	if inflowVol > 0 {
		ts.Queue.segs = append(ts.Queue.segs, Segment{Volume: inflowVol, Conc: inflowConc})
	}
	outConc := ts.Queue.Dequeue(outflowVol)
	ts.Volume += inflowVol - outflowVol
	ts.Conc = outConc
	return outConc
}
