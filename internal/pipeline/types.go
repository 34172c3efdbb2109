package pipeline

import (
	"fmt"
	"time"

	"stereo3d/internal/driver"
	"stereo3d/internal/gpu"
)

// State is a pipeline stage. States are entered in declaration order and
// never revisited.
type State int

const (
	StateProbing State = iota
	StateGated
	StateFixingUp
	StateExtracting
	StatePatching
	StateInstalling
	StateConfiguring
	StateEnabling
	StateDone
)

var stateNames = [...]string{
	StateProbing:     "probing",
	StateGated:       "gated",
	StateFixingUp:    "fixing-up",
	StateExtracting:  "extracting",
	StatePatching:    "patching",
	StateInstalling:  "installing",
	StateConfiguring: "configuring",
	StateEnabling:    "enabling",
	StateDone:        "done",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText renders the state name in reports.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown pipeline state %q", text)
}

// Outcome is the terminal result of a run.
type Outcome string

const (
	OutcomeDone       Outcome = "done"
	OutcomeIneligible Outcome = "ineligible"
	OutcomeFailed     Outcome = "failed"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailed     = 1
	ExitIneligible = 2
)

// ErrorKind classifies stage failures.
type ErrorKind string

const (
	KindIO                 ErrorKind = "io_failure"
	KindExternalTool       ErrorKind = "external_tool_failure"
	KindConfigurationWrite ErrorKind = "configuration_write_failure"
	// KindLocked means another run held the run lock; nothing was changed.
	KindLocked ErrorKind = "run_locked"
)

// StageError is the terminal failure of a run.
type StageError struct {
	Stage State
	Kind  ErrorKind
	// File names the file the stage failed on, when there is one.
	File string
	Err  error
}

func (e *StageError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s failed (%s) on %s: %v", e.Stage, e.Kind, e.File, e.Err)
	}
	return fmt.Sprintf("%s failed (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result describes a finished run.
type Result struct {
	RunID       string             `json:"run_id"`
	Outcome     Outcome            `json:"outcome"`
	DryRun      bool               `json:"dry_run"`
	Probe       gpu.ProbeResult    `json:"probe"`
	Eligibility driver.Eligibility `json:"eligibility"`
	FileVersion string             `json:"file_version,omitempty"`
	Visited     []State            `json:"visited"`
	Skipped     []State            `json:"skipped,omitempty"`
	Failure     *StageError        `json:"-"`
	FailedStage string             `json:"failed_stage,omitempty"`
	FailureKind ErrorKind          `json:"failure_kind,omitempty"`
	FailedFile  string             `json:"failed_file,omitempty"`
	Error       string             `json:"error,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
}

// ExitCode maps the outcome to the process exit status.
func (r Result) ExitCode() int {
	switch r.Outcome {
	case OutcomeDone:
		return ExitOK
	case OutcomeIneligible:
		return ExitIneligible
	}
	return ExitFailed
}

// Reached reports whether the run entered s.
func (r Result) Reached(s State) bool {
	for _, v := range r.Visited {
		if v == s {
			return true
		}
	}
	return false
}
