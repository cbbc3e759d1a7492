package hydfile_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/hydfile"
)

func header() hydfile.Header {
	return hydfile.Header{Nnodes: 2, Nlinks: 1, Ntanks: 0, Npumps: 0, Nvalves: 0, Duration: 7200}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hyd.bin")
	h := header()

	w, err := hydfile.Create(path, h, 200)
	require.NoError(t, err)

	want := hydfile.Period{
		Time:    0,
		Demand:  []float64{0, 10},
		Head:    []float64{100, 95},
		Flow:    []float64{2.5},
		Status:  []int32{1},
		Setting: []float64{0},
	}
	require.NoError(t, w.WritePeriod(want))
	require.NoError(t, w.Close())

	r, err := hydfile.Open(path, h)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadPeriod()
	require.NoError(t, err)
	require.Equal(t, want.Demand, got.Demand)
	require.Equal(t, want.Head, got.Head)
	require.Equal(t, want.Flow, got.Flow)
	require.Equal(t, want.Status, got.Status)

	_, err = r.ReadPeriod()
	require.ErrorIs(t, err, io.EOF)
}

func TestOpenRejectsShapeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hyd.bin")
	w, err := hydfile.Create(path, header(), 200)
	require.NoError(t, err)
	require.NoError(t, w.WritePeriod(hydfile.Period{Demand: []float64{0, 0}, Head: []float64{0, 0}, Flow: []float64{0}, Status: []int32{0}, Setting: []float64{0}}))
	require.NoError(t, w.Close())

	bad := header()
	bad.Nnodes = 99
	_, err = hydfile.Open(path, bad)
	require.Error(t, err)
}
