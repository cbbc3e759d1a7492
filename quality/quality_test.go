package quality_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/network"
	"github.com/katalvlaran/hydronet/quality"
)

func TestPipeQueueEnqueueDequeueConservesMass(t *testing.T) {
	var q quality.PipeQueue
	q.Enqueue(10, 2.0)
	q.Enqueue(5, 4.0)
	require.InDelta(t, 15.0, q.TotalVolume(), 1e-9)

	outConc := q.Dequeue(10)
	require.InDelta(t, 2.0, outConc, 1e-9, "dequeue drains the oldest (tail) segment first")
	require.InDelta(t, 5.0, q.TotalVolume(), 1e-9)
}

func TestBulkDecayFirstOrderDecreases(t *testing.T) {
	c := quality.BulkDecay(1.0, -0.1, quality.FirstOrder, 3600)
	require.Less(t, c, 1.0)
	require.Greater(t, c, 0.0)
}

func TestBulkDecayZeroRateUnchanged(t *testing.T) {
	c := quality.BulkDecay(1.0, 0, quality.FirstOrder, 3600)
	require.InDelta(t, 1.0, c, 1e-9)
}

func TestMix1BlendsProportionally(t *testing.T) {
	m := quality.MixerFor(network.Mix1)
	ts := &quality.TankState{Volume: 100, Conc: 1.0}
	outConc := m.Mix(ts, 0, 50, 3.0, 20)
	require.InDelta(t, ts.Conc, outConc, 1e-9)
	require.Greater(t, outConc, 1.0)
	require.Less(t, outConc, 3.0)
}

func TestMix2ExchangesWithStagnantZone(t *testing.T) {
	m := quality.MixerFor(network.Mix2)
	ts := &quality.TankState{Volume: 100, Conc: 1.0, StagnantConc: 1.0}
	outConc := m.Mix(ts, 30, 40, 5.0, 10)
	require.Greater(t, outConc, 1.0)
	require.Less(t, outConc, 5.0)
}

func TestFIFOMixerDrainsOldestFirst(t *testing.T) {
	m := quality.MixerFor(network.FIFO)
	ts := &quality.TankState{Volume: 10, Conc: 1.0}
	ts.Queue.Enqueue(10, 1.0)
	outConc := m.Mix(ts, 0, 5, 9.0, 10)
	require.InDelta(t, 1.0, outConc, 1e-9, "FIFO drains the pre-existing (oldest) water before the new inflow")
}

func TestInjectedConcentrationSetpointClampsUp(t *testing.T) {
	src := &network.Source{Base: 5.0, Kind: network.Setpoint}
	c := quality.InjectedConcentration(src, 1.0, 2.0, 10.0)
	require.InDelta(t, 5.0, c, 1e-9)

	src2 := &network.Source{Base: 1.0, Kind: network.Setpoint}
	c2 := quality.InjectedConcentration(src2, 1.0, 2.0, 10.0)
	require.InDelta(t, 2.0, c2, 1e-9, "setpoint never lowers concentration below ambient")
}
