package project_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/network"
	"github.com/katalvlaran/hydronet/project"
)

func buildTwoJunctionProject(t *testing.T) *project.Project {
	t.Helper()
	p := project.New()
	r1, err := p.Store().AddReservoir("R1", 100)
	require.NoError(t, err)
	j1, err := p.Store().AddJunction("J1", 50)
	require.NoError(t, err)
	r1 = p.Store().FindNode("R1") // adding J1 shifted R1 up by one index
	linkIdx, err := p.Store().AddLink("P1", r1, j1, network.Pipe)
	require.NoError(t, err)
	l := p.Store().Link(linkIdx)
	l.Diameter = 1.0
	l.Length = 1000
	l.Kc = 130
	l.R = 1.0
	return p
}

func TestNewAppliesDefaultConfig(t *testing.T) {
	p := project.New()
	require.NotNil(t, p.Store())
	require.NotNil(t, p.Units())
}

func TestOpenHInitHRunHLifecycle(t *testing.T) {
	p := buildTwoJunctionProject(t)

	_, _, err := p.RunH()
	require.Error(t, err, "RunH before OpenH must fail")

	require.NoError(t, p.OpenH())
	require.NoError(t, p.InitH())

	trials, _, err := p.RunH()
	require.NoError(t, err)
	require.GreaterOrEqual(t, trials, 1)

	require.NoError(t, p.CloseH())
}

func TestNextHAdvancesWithoutFile(t *testing.T) {
	p := buildTwoJunctionProject(t)
	p.SetDuration(7200)
	p.SetHydStep(3600)
	require.NoError(t, p.OpenH())
	require.NoError(t, p.InitH())
	_, _, err := p.RunH()
	require.NoError(t, err)

	step, err := p.NextH(nil)
	require.NoError(t, err)
	require.Greater(t, step, 0)
}

func TestEnableHydFileSaveRoundTrip(t *testing.T) {
	p := buildTwoJunctionProject(t)
	p.SetDuration(3600)
	p.SetHydStep(3600)

	path := filepath.Join(t.TempDir(), "scratch.hyd")
	require.NoError(t, p.EnableHydFileSave(path))

	require.NoError(t, p.OpenH())
	require.NoError(t, p.InitH())
	_, _, err := p.RunH()
	require.NoError(t, err)

	_, err = p.NextH(nil)
	require.NoError(t, err)

	require.NoError(t, p.CloseH())
}

func TestUseHydFileRejectsMissingFile(t *testing.T) {
	p := buildTwoJunctionProject(t)
	path := filepath.Join(t.TempDir(), "missing.hyd")
	err := p.UseHydFile(path)
	require.Error(t, err)
}

func TestCreateOutputFile(t *testing.T) {
	p := buildTwoJunctionProject(t)
	path := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, p.CreateOutputFile(path, "test run"))
}

func TestAdvancePeriodWithoutControlsOrRules(t *testing.T) {
	p := buildTwoJunctionProject(t)
	require.NoError(t, p.OpenH())
	require.NoError(t, p.InitH())
	_, _, err := p.RunH()
	require.NoError(t, err)

	changed := p.AdvancePeriod(0, 1.0)
	require.GreaterOrEqual(t, changed, 0)
}

func TestDeleteIsIdempotent(t *testing.T) {
	p := buildTwoJunctionProject(t)
	require.NoError(t, p.OpenH())
	require.NoError(t, p.Delete())
	require.NoError(t, p.Delete())
}

func TestSolveHRunsExtendedPeriodAndWritesOutput(t *testing.T) {
	p := buildTwoJunctionProject(t)
	p.SetDuration(7200)
	p.SetHydStep(3600)

	outPath := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, p.CreateOutputFile(outPath, "two-junction run"))

	periods, err := p.SolveH()
	require.NoError(t, err)
	require.GreaterOrEqual(t, periods, 2)

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestSolveQRequiresHydFileInUseMode(t *testing.T) {
	p := buildTwoJunctionProject(t)
	err := p.SolveQ()
	require.Error(t, err)
}

func TestRunProjectEndToEnd(t *testing.T) {
	p := buildTwoJunctionProject(t)
	p.SetDuration(7200)
	p.SetHydStep(3600)

	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.bin")
	hydPath := filepath.Join(dir, "scratch.hyd")
	rptPath := filepath.Join(dir, "report.txt")

	require.NoError(t, p.RunProject(outPath, hydPath, rptPath, "net1-like run"))

	rpt, err := os.ReadFile(rptPath)
	require.NoError(t, err)
	require.Contains(t, string(rpt), "Total pumping energy")

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestReportWritesSummaryWithoutSolve(t *testing.T) {
	p := buildTwoJunctionProject(t)
	var buf bytes.Buffer
	require.NoError(t, p.Report(&buf))
	require.Contains(t, buf.String(), "Quantity")
}
