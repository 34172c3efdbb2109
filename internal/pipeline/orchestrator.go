// Package pipeline sequences the 3D Vision installation stages with
// fail-fast semantics.
package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"

	"stereo3d/internal/config"
	"stereo3d/internal/driver"
	"stereo3d/internal/gpu"
	"stereo3d/internal/logging"
	"stereo3d/internal/patcher"
	"stereo3d/internal/procexec"
	"stereo3d/internal/stereoreg"
)

// SupportFixer places the support file the installer depends on.
type SupportFixer interface {
	Apply(sourceFile, destDir string) (string, error)
}

// Extractor unpacks the driver package.
type Extractor interface {
	Extract(archive, destDir string) error
}

// Patcher stamps the matching version onto component files.
type Patcher interface {
	Patch(files []string, v driver.Version) error
}

// Installer runs the vendor setup and returns its exit code.
type Installer interface {
	Install() (int, error)
}

// Configurator persists the stereo configuration tables.
type Configurator interface {
	Apply(baseline, overrides stereoreg.Table) error
}

// Enabler turns the installed feature on and returns the toggle's exit code.
type Enabler interface {
	Enable() (int, error)
}

// RunGuard keeps two runs from changing the machine at the same time.
type RunGuard interface {
	Acquire(runID string) error
	Release(runID string) error
}

// Dependencies are the collaborators driven by the orchestrator.
type Dependencies struct {
	// Guard is optional. It is taken only after the gate passes, so an
	// ineligible machine is left untouched.
	Guard        RunGuard
	Prober       gpu.Prober
	Fixer        SupportFixer
	Extractor    Extractor
	Patcher      Patcher
	Installer    Installer
	Configurator Configurator
	Enabler      Enabler
}

// Plan is the read-only input of one run.
type Plan struct {
	// RunID identifies the run; a random id is generated when empty.
	RunID       string
	Paths       config.FilePaths
	SkipExtract bool
	Baseline    stereoreg.Table
	Overrides   stereoreg.Table
	DryRun      bool
}

// Orchestrator runs the stages in order and stops at the first failure.
type Orchestrator struct {
	deps   Dependencies
	plan   Plan
	logger *logging.Logger
	now    func() time.Time
	newID  func() string
}

// New creates an Orchestrator.
func New(deps Dependencies, plan Plan, logger *logging.Logger) *Orchestrator {
	return &Orchestrator{
		deps:   deps,
		plan:   plan,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

type stage struct {
	state State
	skip  bool
	run   func(v driver.Version) *StageError
}

// Run executes the pipeline once. It never panics on stage failure; the
// outcome and failure are reported in the Result.
func (o *Orchestrator) Run() Result {
	runID := o.plan.RunID
	if runID == "" {
		runID = o.newID()
	}
	res := Result{
		RunID:     runID,
		DryRun:    o.plan.DryRun,
		StartedAt: o.now().UTC(),
	}
	log := o.logger.With(map[string]interface{}{"run_id": res.RunID})
	log.Info("pipeline.start", "Starting 3D Vision installation", map[string]interface{}{
		"work_dir": o.plan.Paths.WorkDir,
		"dry_run":  o.plan.DryRun,
	})

	res.Visited = append(res.Visited, StateProbing)
	res.Probe = o.deps.Prober.Probe()

	res.Visited = append(res.Visited, StateGated)
	res.Eligibility = driver.CheckEligibility(res.Probe.Present, res.Probe.Version)
	if res.Eligibility != driver.Eligible {
		res.Outcome = OutcomeIneligible
		res.FinishedAt = o.now().UTC()
		log.Warn("pipeline.ineligible", "System not eligible, nothing changed", map[string]interface{}{
			"eligibility":    res.Eligibility.String(),
			"driver_version": res.Probe.RawVersion,
			"floor":          driver.SupportedFloor.String(),
		})
		return res
	}
	if fv, err := res.Probe.Version.FileVersion(); err == nil {
		res.FileVersion = fv
	}

	if guard := o.deps.Guard; guard != nil {
		if err := guard.Acquire(res.RunID); err != nil {
			res.fail(&StageError{Stage: StateGated, Kind: KindLocked, Err: err})
			res.FinishedAt = o.now().UTC()
			log.Error("pipeline.locked", "Another run holds the run lock", map[string]interface{}{
				"error": err.Error(),
			})
			return res
		}
		defer func() {
			if err := guard.Release(res.RunID); err != nil {
				log.Warn("pipeline.unlock.failed", "Could not release run lock", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()
	}

	for _, st := range o.stages() {
		if st.skip {
			res.Skipped = append(res.Skipped, st.state)
			log.Info("pipeline.stage.skipped", "Stage skipped", map[string]interface{}{"stage": st.state.String()})
			continue
		}

		res.Visited = append(res.Visited, st.state)
		log.Info("pipeline.stage.start", "Starting stage", map[string]interface{}{"stage": st.state.String()})

		if failure := st.run(res.Probe.Version); failure != nil {
			res.fail(failure)
			res.FinishedAt = o.now().UTC()
			log.Error("pipeline.stage.failed", "Stage failed, aborting run", map[string]interface{}{
				"stage": failure.Stage.String(),
				"kind":  string(failure.Kind),
				"file":  failure.File,
				"error": failure.Err.Error(),
			})
			return res
		}
		log.Info("pipeline.stage.done", "Stage finished", map[string]interface{}{"stage": st.state.String()})
	}

	res.Visited = append(res.Visited, StateDone)
	res.Outcome = OutcomeDone
	res.FinishedAt = o.now().UTC()
	log.Info("pipeline.done", "3D Vision installed and enabled", map[string]interface{}{
		"driver_version": res.Probe.RawVersion,
		"file_version":   res.FileVersion,
	})
	return res
}

func (r *Result) fail(e *StageError) {
	r.Outcome = OutcomeFailed
	r.Failure = e
	r.FailedStage = e.Stage.String()
	r.FailureKind = e.Kind
	r.FailedFile = e.File
	r.Error = e.Error()
}

func (o *Orchestrator) stages() []stage {
	paths := o.plan.Paths
	return []stage{
		{state: StateFixingUp, run: func(driver.Version) *StageError {
			if _, err := o.deps.Fixer.Apply(paths.SupportFile, paths.SupportDestDir); err != nil {
				return &StageError{Stage: StateFixingUp, Kind: KindIO, File: paths.SupportFile, Err: err}
			}
			return nil
		}},
		{state: StateExtracting, skip: o.plan.SkipExtract, run: func(driver.Version) *StageError {
			if err := o.deps.Extractor.Extract(paths.Archive, paths.ExtractDir); err != nil {
				return toolFailure(StateExtracting, paths.Archive, err)
			}
			return nil
		}},
		{state: StatePatching, run: func(v driver.Version) *StageError {
			err := o.deps.Patcher.Patch(paths.PatchFiles, v)
			if err == nil {
				return nil
			}
			var patchErr *patcher.PatchError
			if errors.As(err, &patchErr) {
				return toolFailure(StatePatching, patchErr.File, err)
			}
			return toolFailure(StatePatching, "", err)
		}},
		{state: StateInstalling, run: func(driver.Version) *StageError {
			code, err := o.deps.Installer.Install()
			return exitFailure(StateInstalling, paths.Installer, code, err)
		}},
		{state: StateConfiguring, run: func(driver.Version) *StageError {
			if err := o.deps.Configurator.Apply(o.plan.Baseline, o.plan.Overrides); err != nil {
				return &StageError{Stage: StateConfiguring, Kind: KindConfigurationWrite, Err: err}
			}
			return nil
		}},
		{state: StateEnabling, run: func(driver.Version) *StageError {
			code, err := o.deps.Enabler.Enable()
			return exitFailure(StateEnabling, paths.Enabler, code, err)
		}},
	}
}

// toolFailure classifies an error from an external tool stage. A missing
// file is an IO failure; anything else is the tool's.
func toolFailure(s State, file string, err error) *StageError {
	kind := KindExternalTool
	if errors.Is(err, fs.ErrNotExist) {
		kind = KindIO
	}
	return &StageError{Stage: s, Kind: kind, File: file, Err: err}
}

func exitFailure(s State, tool string, code int, err error) *StageError {
	if err != nil {
		return toolFailure(s, tool, err)
	}
	if code != 0 {
		return &StageError{Stage: s, Kind: KindExternalTool, File: tool, Err: &procexec.ExitError{Tool: tool, Code: code}}
	}
	return nil
}

// String summarizes a result on one line.
func (r Result) String() string {
	switch r.Outcome {
	case OutcomeDone:
		return fmt.Sprintf("done: driver %s, component version %s", r.Probe.RawVersion, r.FileVersion)
	case OutcomeIneligible:
		return fmt.Sprintf("ineligible: %s", r.Eligibility)
	}
	return "failed: " + r.Error
}
