package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/ChicagoDave/episim/internal/server"
	"github.com/ChicagoDave/episim/pkg/plot"
	"github.com/ChicagoDave/episim/pkg/scenario"
	"github.com/ChicagoDave/episim/pkg/scene"
	"github.com/ChicagoDave/episim/pkg/sim"
	"github.com/ChicagoDave/episim/pkg/validation"
)

type runOptions struct {
	days         int
	seed         uint64
	chartPath    string
	snapshotPath string
}

// loadAndValidate loads the scenario and runs schema validation.
func loadAndValidate(projectPath string) (*scenario.Scenario, *validation.Report, error) {
	s, err := scenario.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading scenario: %w", err)
	}
	return s, validation.ValidateScenario(s), nil
}

func runValidate(projectPath string) error {
	_, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	printValidationReport(os.Stdout, report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runSimulation(ctx context.Context, projectPath string, opts runOptions, logger *log.Logger) error {
	s, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if opts.days > 0 {
		s.Run.Days = opts.days
	}
	if opts.seed != 0 {
		s.Seed = opts.seed
	}
	if !report.Valid {
		printValidationReport(os.Stdout, report)
		return fmt.Errorf("scenario has validation errors")
	}

	run, err := sim.New(s, nil, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run.Run(ctx, s.Frames(), s.FrameTime()); err != nil {
		logger.Warn("run interrupted", "err", err, "frames", run.Frames())
	}

	printRunReport(os.Stdout, run.Status())

	if opts.chartPath != "" {
		if err := writeChart(opts.chartPath, run); err != nil {
			return err
		}
		logger.Info("wrote chart", "path", opts.chartPath)
	}
	if opts.snapshotPath != "" {
		if err := writeSnapshot(opts.snapshotPath, run); err != nil {
			return err
		}
		logger.Info("wrote snapshot", "path", opts.snapshotPath)
	}
	return nil
}

func writeChart(path string, run *sim.Simulation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()
	if err := plot.RenderPNG(f, plot.FromWindow(run.Window()), plot.DefaultOptions()); err != nil {
		return err
	}
	return f.Close()
}

func writeSnapshot(path string, run *sim.Simulation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scene.Assemble(run)); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}

func runServe(ctx context.Context, projectPath string, port int, logger *log.Logger) error {
	s, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(os.Stdout, report)
		return fmt.Errorf("scenario has validation errors")
	}

	run, err := sim.New(s, nil, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info("serving scenario", "project", projectPath, "name", s.Name)
	return server.New(run, s.FrameTime(), port, logger).Start(ctx)
}
