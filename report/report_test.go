package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/report"
)

func TestSummarizeComputesMeanMinMax(t *testing.T) {
	s := report.Summarize("pressure", []float64{10, 20, 30})
	require.InDelta(t, 20.0, s.Mean, 1e-9)
	require.InDelta(t, 10.0, s.Min, 1e-9)
	require.InDelta(t, 30.0, s.Max, 1e-9)
}

func TestWriteSummaryTableIncludesEnergy(t *testing.T) {
	var buf bytes.Buffer
	cols := []report.ColumnSummary{{Name: "pressure", Mean: 20, Min: 10, Max: 30}}
	require.NoError(t, report.WriteSummaryTable(&buf, cols, 123.45, 10, 2))
	out := buf.String()
	require.Contains(t, out, "pressure")
	require.Contains(t, out, "123.45")
	require.Contains(t, out, "Warnings issued: 2")
}
