package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stereo3d/internal/config"
	"stereo3d/internal/driver"
	"stereo3d/internal/gpu"
	"stereo3d/internal/logging"
	"stereo3d/internal/procexec"
	"stereo3d/internal/stereoreg"
)

// journal records which collaborators ran, in order.
type journal struct {
	calls []string
}

func (j *journal) add(s string) { j.calls = append(j.calls, s) }

type fakeProber struct{ result gpu.ProbeResult }

func (f fakeProber) Probe() gpu.ProbeResult { return f.result }

type fakeFixer struct {
	j   *journal
	err error
}

func (f fakeFixer) Apply(src, dest string) (string, error) {
	f.j.add("fixup")
	return dest, f.err
}

type fakeExtractor struct {
	j   *journal
	err error
}

func (f fakeExtractor) Extract(string, string) error {
	f.j.add("extract")
	return f.err
}

type fakePatcher struct {
	j   *journal
	err error
}

func (f fakePatcher) Patch([]string, driver.Version) error {
	f.j.add("patch")
	return f.err
}

type fakeExit struct {
	j    *journal
	name string
	code int
	err  error
}

func (f fakeExit) Install() (int, error) {
	f.j.add(f.name)
	return f.code, f.err
}

func (f fakeExit) Enable() (int, error) {
	f.j.add(f.name)
	return f.code, f.err
}

type fakeConfigurator struct {
	j   *journal
	err error
}

func (f fakeConfigurator) Apply(stereoreg.Table, stereoreg.Table) error {
	f.j.add("configure")
	return f.err
}

func present(v driver.Version) fakeProber {
	return fakeProber{result: gpu.ProbeResult{Present: true, Version: v, RawVersion: v.String()}}
}

func fakeDeps(j *journal, prober gpu.Prober) Dependencies {
	return Dependencies{
		Prober:       prober,
		Fixer:        fakeFixer{j: j},
		Extractor:    fakeExtractor{j: j},
		Patcher:      fakePatcher{j: j},
		Installer:    fakeExit{j: j, name: "install"},
		Configurator: fakeConfigurator{j: j},
		Enabler:      fakeExit{j: j, name: "enable"},
	}
}

func testPlan() Plan {
	return Plan{
		Paths: config.FilePaths{
			WorkDir:        "/work",
			SupportFile:    "/work/Resource.dat",
			SupportDestDir: "/pd/NVIDIA",
			Archive:        "/work/NVidia/3DVision.exe",
			ExtractDir:     "/work/NVidia3DVision",
			Installer:      "/work/NVidia3DVision/setup.exe",
			Enabler:        "/work/Tools/nv3dtoggle.exe",
			PatchFiles:     []string{"/work/NVidia3DVision/nvstres.dll", "/work/NVidia3DVision/nvstlink.exe"},
		},
		Baseline:  stereoreg.Baseline(),
		Overrides: stereoreg.Overrides(),
	}
}

func newTestOrchestrator(deps Dependencies, plan Plan) *Orchestrator {
	o := New(deps, plan, logging.NewLogger(logging.LevelError))
	o.newID = func() string { return "run-1" }
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	o.now = func() time.Time { return fixed }
	return o
}

func TestRun_AllStagesInOrder(t *testing.T) {
	j := &journal{}

	res := newTestOrchestrator(fakeDeps(j, present(52531)), testPlan()).Run()

	assert.Equal(t, OutcomeDone, res.Outcome)
	assert.Equal(t, ExitOK, res.ExitCode())
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, "7.17.15.2531", res.FileVersion)
	assert.Equal(t, []string{"fixup", "extract", "patch", "install", "configure", "enable"}, j.calls)
	assert.Equal(t, []State{
		StateProbing, StateGated, StateFixingUp, StateExtracting, StatePatching,
		StateInstalling, StateConfiguring, StateEnabling, StateDone,
	}, res.Visited)
	assert.Nil(t, res.Failure)
}

func TestRun_IneligibleRunsNothing(t *testing.T) {
	tests := []struct {
		name   string
		prober fakeProber
		want   driver.Eligibility
	}{
		{"no device", fakeProber{}, driver.IneligibleNoDevice},
		{"floor driver", present(45206), driver.IneligibleOldDriver},
		{"older driver", present(41634), driver.IneligibleOldDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &journal{}

			res := newTestOrchestrator(fakeDeps(j, tt.prober), testPlan()).Run()

			assert.Equal(t, OutcomeIneligible, res.Outcome)
			assert.Equal(t, ExitIneligible, res.ExitCode())
			assert.Equal(t, tt.want, res.Eligibility)
			assert.Empty(t, j.calls)
			assert.Equal(t, []State{StateProbing, StateGated}, res.Visited)
			assert.Nil(t, res.Failure)
		})
	}
}

func TestRun_SkipExtract(t *testing.T) {
	j := &journal{}
	plan := testPlan()
	plan.SkipExtract = true

	res := newTestOrchestrator(fakeDeps(j, present(52531)), plan).Run()

	assert.Equal(t, OutcomeDone, res.Outcome)
	assert.NotContains(t, j.calls, "extract")
	assert.Equal(t, []State{StateExtracting}, res.Skipped)
	assert.False(t, res.Reached(StateExtracting))
}

func TestRun_StageFailureStopsPipeline(t *testing.T) {
	boom := errors.New("boom")
	missing := fmt.Errorf("open: %w", fs.ErrNotExist)

	tests := []struct {
		name      string
		mutate    func(*Dependencies, *journal)
		stage     State
		kind      ErrorKind
		wantCalls []string
	}{
		{
			name:      "fixup missing source",
			mutate:    func(d *Dependencies, j *journal) { d.Fixer = fakeFixer{j: j, err: missing} },
			stage:     StateFixingUp,
			kind:      KindIO,
			wantCalls: []string{"fixup"},
		},
		{
			name: "extract tool fails",
			mutate: func(d *Dependencies, j *journal) {
				d.Extractor = fakeExtractor{j: j, err: &procexec.ExitError{Tool: "7za.exe", Code: 2}}
			},
			stage:     StateExtracting,
			kind:      KindExternalTool,
			wantCalls: []string{"fixup", "extract"},
		},
		{
			name:      "patch fails",
			mutate:    func(d *Dependencies, j *journal) { d.Patcher = fakePatcher{j: j, err: boom} },
			stage:     StatePatching,
			kind:      KindExternalTool,
			wantCalls: []string{"fixup", "extract", "patch"},
		},
		{
			name:      "installer exits non-zero",
			mutate:    func(d *Dependencies, j *journal) { d.Installer = fakeExit{j: j, name: "install", code: 1603} },
			stage:     StateInstalling,
			kind:      KindExternalTool,
			wantCalls: []string{"fixup", "extract", "patch", "install"},
		},
		{
			name: "installer binary missing",
			mutate: func(d *Dependencies, j *journal) {
				d.Installer = fakeExit{j: j, name: "install", code: -1, err: missing}
			},
			stage:     StateInstalling,
			kind:      KindIO,
			wantCalls: []string{"fixup", "extract", "patch", "install"},
		},
		{
			name:      "registry write fails",
			mutate:    func(d *Dependencies, j *journal) { d.Configurator = fakeConfigurator{j: j, err: boom} },
			stage:     StateConfiguring,
			kind:      KindConfigurationWrite,
			wantCalls: []string{"fixup", "extract", "patch", "install", "configure"},
		},
		{
			name:      "enabler exits non-zero",
			mutate:    func(d *Dependencies, j *journal) { d.Enabler = fakeExit{j: j, name: "enable", code: 1} },
			stage:     StateEnabling,
			kind:      KindExternalTool,
			wantCalls: []string{"fixup", "extract", "patch", "install", "configure", "enable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &journal{}
			deps := fakeDeps(j, present(52531))
			tt.mutate(&deps, j)

			res := newTestOrchestrator(deps, testPlan()).Run()

			assert.Equal(t, OutcomeFailed, res.Outcome)
			assert.Equal(t, ExitFailed, res.ExitCode())
			require.NotNil(t, res.Failure)
			assert.Equal(t, tt.stage, res.Failure.Stage)
			assert.Equal(t, tt.kind, res.Failure.Kind)
			assert.Equal(t, tt.stage.String(), res.FailedStage)
			assert.Equal(t, tt.wantCalls, j.calls)
			assert.Equal(t, tt.stage, res.Visited[len(res.Visited)-1])
			assert.False(t, res.Reached(StateDone))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "fixing-up", StateFixingUp.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "state(42)", State(42).String())
}

func TestStageError_Error(t *testing.T) {
	err := &StageError{Stage: StatePatching, Kind: KindExternalTool, File: "b.dll", Err: errors.New("exit 1")}
	assert.Equal(t, "patching failed (external_tool_failure) on b.dll: exit 1", err.Error())
}

func TestRun_UsesPlannedRunID(t *testing.T) {
	plan := testPlan()
	plan.RunID = "planned"

	res := newTestOrchestrator(fakeDeps(&journal{}, present(52531)), plan).Run()

	assert.Equal(t, "planned", res.RunID)
}

type fakeGuard struct {
	j   *journal
	err error
}

func (f fakeGuard) Acquire(runID string) error {
	f.j.add("lock " + runID)
	return f.err
}

func (f fakeGuard) Release(runID string) error {
	f.j.add("unlock " + runID)
	return nil
}

func TestRun_GuardWrapsChangingStages(t *testing.T) {
	j := &journal{}
	deps := fakeDeps(j, present(52531))
	deps.Guard = fakeGuard{j: j}

	res := newTestOrchestrator(deps, testPlan()).Run()

	assert.Equal(t, OutcomeDone, res.Outcome)
	assert.Equal(t, []string{
		"lock run-1", "fixup", "extract", "patch", "install", "configure", "enable", "unlock run-1",
	}, j.calls)
}

func TestRun_GuardReleasedAfterFailure(t *testing.T) {
	j := &journal{}
	deps := fakeDeps(j, present(52531))
	deps.Guard = fakeGuard{j: j}
	deps.Patcher = fakePatcher{j: j, err: errors.New("boom")}

	res := newTestOrchestrator(deps, testPlan()).Run()

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, "unlock run-1", j.calls[len(j.calls)-1])
}

func TestRun_IneligibleNeverTakesGuard(t *testing.T) {
	j := &journal{}
	deps := fakeDeps(j, present(45206))
	deps.Guard = fakeGuard{j: j}

	res := newTestOrchestrator(deps, testPlan()).Run()

	assert.Equal(t, OutcomeIneligible, res.Outcome)
	assert.Empty(t, j.calls)
}

func TestRun_GuardHeldStopsBeforeChanges(t *testing.T) {
	j := &journal{}
	held := errors.New("held by run-0")
	deps := fakeDeps(j, present(52531))
	deps.Guard = fakeGuard{j: j, err: held}

	res := newTestOrchestrator(deps, testPlan()).Run()

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, ExitFailed, res.ExitCode())
	require.NotNil(t, res.Failure)
	assert.Equal(t, StateGated, res.Failure.Stage)
	assert.Equal(t, KindLocked, res.Failure.Kind)
	assert.ErrorIs(t, res.Failure, held)
	assert.Equal(t, []string{"lock run-1"}, j.calls)
	assert.Equal(t, []State{StateProbing, StateGated}, res.Visited)
}
