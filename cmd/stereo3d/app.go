package main

import (
	"fmt"

	"stereo3d/internal/config"
	"stereo3d/internal/extract"
	"stereo3d/internal/fixup"
	"stereo3d/internal/gpu"
	"stereo3d/internal/logging"
	"stereo3d/internal/patcher"
	"stereo3d/internal/pipeline"
	"stereo3d/internal/procexec"
	"stereo3d/internal/runlock"
	"stereo3d/internal/setup"
	"stereo3d/internal/stereoreg"
)

// newProber is swapped out by tests.
var newProber = gpu.NewProber

// app is the configuration and logger shared by every command.
type app struct {
	cfg    config.Config
	paths  config.FilePaths
	logger *logging.Logger
}

func loadApp(flags *rootFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.workDir != "" {
		cfg.WorkDir = flags.workDir
	}
	if flags.logLevel != "" {
		level, err := logging.ParseLevel(flags.logLevel)
		if err != nil {
			return nil, err
		}
		cfg.Logging.Level = string(level)
	}

	logger, err := logging.New(logging.Options{
		Level:  logging.Level(cfg.Logging.Level),
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	paths, err := cfg.Resolve()
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	return &app{cfg: cfg, paths: paths, logger: logger}, nil
}

func (a *app) close() {
	_ = a.logger.Close()
}

// orchestrator wires the pipeline. Dry runs swap the process launcher and
// the registry for recording fakes.
func (a *app) orchestrator(dryRun bool) (*pipeline.Orchestrator, error) {
	hive, err := stereoreg.ParseHive(a.cfg.Registry.Hive)
	if err != nil {
		return nil, err
	}

	var launcher procexec.Launcher = procexec.NewExecLauncher(a.paths.WorkDir, a.logger)
	store := stereoreg.NewSystemStore()
	var guard pipeline.RunGuard = runlock.NewManager(a.paths.StateDir, a.logger)
	if dryRun {
		launcher = procexec.NewDryRunLauncher(a.logger)
		store = stereoreg.NewMemoryStore()
		guard = nil
	}

	deps := pipeline.Dependencies{
		Guard:        guard,
		Prober:       newProber(a.logger),
		Fixer:        fixup.New(a.logger, dryRun),
		Extractor:    extract.New(launcher, a.paths.Extractor, a.logger),
		Patcher:      patcher.New(launcher, a.paths.ResourceEditor, a.logger),
		Installer:    setup.NewInstaller(launcher, a.paths.Installer, a.logger),
		Configurator: stereoreg.NewApplier(store, hive, a.cfg.Registry.Path, a.logger),
		Enabler:      setup.NewEnabler(launcher, a.paths.Enabler, a.logger),
	}
	plan := pipeline.Plan{
		Paths:       a.paths,
		SkipExtract: a.cfg.Extract.Skip,
		Baseline:    stereoreg.Baseline(),
		Overrides:   stereoreg.Overrides().Then(a.cfg.Registry.Overrides),
		DryRun:      dryRun,
	}
	return pipeline.New(deps, plan, a.logger), nil
}
