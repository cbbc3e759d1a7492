package outfile_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/outfile"
)

func TestWriteReadProlog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	p := outfile.Prolog{Version: 200, Nnodes: 3, Nlinks: 2, Title: "test network"}

	w, err := outfile.Create(path, p)
	require.NoError(t, err)
	require.NoError(t, w.WriteNodeResult(outfile.NodeResult{
		Demand: []float32{0, 1, 2}, Head: []float32{100, 99, 98},
		Pressure: []float32{10, 9, 8}, Quality: []float32{0, 0, 0},
	}))
	require.NoError(t, w.WriteLinkResult(outfile.LinkResult{
		Flow: []float32{1, 2}, Velocity: []float32{0.5, 0.6}, Headloss: []float32{0.1, 0.2}, Quality: []float32{0, 0},
		Status: []int32{1, 1}, Setting: []float32{0, 0},
	}))
	require.NoError(t, w.WriteEpilog(outfile.Epilog{TotalEnergyKWh: 12.5, PeakPumpKW: 3.2, WarningCount: 0}))
	require.NoError(t, w.Close())

	r, err := outfile.Open(path)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, "test network", r.Prolog.Title)
	require.EqualValues(t, 3, r.Prolog.Nnodes)
}

func TestStatFoldAverageMinMaxRange(t *testing.T) {
	values := []float64{1, 5, 3, 9, 2}

	avg := outfile.NewStatFold(outfile.StatAverage)
	minF := outfile.NewStatFold(outfile.StatMinimum)
	maxF := outfile.NewStatFold(outfile.StatMaximum)
	rng := outfile.NewStatFold(outfile.StatRange)
	for _, v := range values {
		avg.Push(v)
		minF.Push(v)
		maxF.Push(v)
		rng.Push(v)
	}
	require.InDelta(t, 4.0, avg.Value(), 1e-9)
	require.InDelta(t, 1.0, minF.Value(), 1e-9)
	require.InDelta(t, 9.0, maxF.Value(), 1e-9)
	require.InDelta(t, 8.0, rng.Value(), 1e-9)
}
