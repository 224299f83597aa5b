package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/daniacca/metrobox/internal/energy"
	"github.com/daniacca/metrobox/internal/metro"
	"github.com/daniacca/metrobox/internal/metro/notifiers"
)

func main() {
	app := newCLIApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newCLIApp creates the CLI application.
func newCLIApp() *cli.App {
	return &cli.App{
		Name:  "metrobox-run",
		Usage: "Metropolis Monte Carlo driver over a molecular simulation box",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Required: true, Usage: "Path to system config JSON file"},
			&cli.IntFlag{Name: "moves", Aliases: []string{"n"}, Value: 10000, Usage: "Number of Monte Carlo moves to run"},
			&cli.Int64Flag{Name: "seed", Value: 0, Usage: "Random seed (0 picks a time-based one)"},
			&cli.Float64Flag{Name: "temperature", Aliases: []string{"t"}, Value: 298.15, Usage: "Temperature in Kelvin for the acceptance test"},
			&cli.BoolFlag{Name: "parallel", Usage: "Use the parallel execution strategy"},
			&cli.IntFlag{Name: "workers", Value: 0, Usage: "Worker count for the parallel strategy (0 = NumCPU)"},
			&cli.StringFlag{Name: "webhook-url", Usage: "Webhook URL to POST move events to (empty disables)"},
			&cli.StringFlag{Name: "snapshot-dir", Usage: "Directory for periodic system snapshots (empty disables)"},
			&cli.IntFlag{Name: "snapshot-every", Value: 0, Usage: "Write a snapshot every N moves (0 disables)"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Log level: debug, info, warn, error"},
		},
		Action: runSimulation,
	}
}

func runSimulation(c *cli.Context) error {
	logger := NewLogger(c.String("log-level"))

	cfg, sys, err := loadSystemFromFile(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading system: %w", err)
	}

	rng := metro.NewRandSource(c.Int64("seed"))

	var notifMgr *metro.NotificationManager
	var notifierIDs []string
	if url := c.String("webhook-url"); url != "" {
		notifMgr = metro.NewNotificationManagerWithLogger(logger)
		defer notifMgr.Close()

		wh := notifiers.NewWebhookNotifier("run-webhook", url)
		if err := notifMgr.RegisterNotifier(wh); err != nil {
			return fmt.Errorf("registering webhook notifier: %w", err)
		}
		notifierIDs = []string{wh.ID()}
	}

	var box metro.Box
	if c.Bool("parallel") {
		pb := metro.NewParallelBox(sys, rng, logger, c.Int("workers"))
		pb.SetNotificationManager(notifMgr, notifierIDs)
		box = pb
	} else {
		sb := metro.NewSerialBox(sys, rng, logger)
		sb.SetNotificationManager(notifMgr, notifierIDs)
		box = sb
	}

	result, err := runMoves(box, rng, runParams{
		Moves:         c.Int("moves"),
		Temperature:   c.Float64("temperature"),
		SnapshotDir:   c.String("snapshot-dir"),
		SnapshotEvery: c.Int("snapshot-every"),
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	printSummary(cfg.Name, result)
	return nil
}

type runParams struct {
	Moves         int
	Temperature   float64
	SnapshotDir   string
	SnapshotEvery int
	Logger        *Logger
}

type runResult struct {
	Moves       int
	Accepted    int
	Rejected    int
	FinalEnergy float64
	Elapsed     time.Duration
}

// runMoves drives the propose/evaluate/accept-reject loop. The box owns the
// state; the energy evaluator and the acceptance decision live out here.
func runMoves(box metro.Box, rng metro.Source, p runParams) (runResult, error) {
	sys := box.System()
	evaluator := energy.LennardJones{}

	// Snapshots carry the same run ID the box stamps on its move events.
	runID := ""
	if b, ok := box.(interface{ RunID() string }); ok {
		runID = b.RunID()
	}
	if runID == "" {
		runID = metro.NewRunID()
	}

	start := time.Now()
	result := runResult{Moves: p.Moves}
	current := evaluator.Total(sys)

	for move := 1; move <= p.Moves; move++ {
		idx := box.ChooseMolecule()
		if _, err := box.ProposeMove(idx); err != nil {
			return result, fmt.Errorf("move %d: %w", move, err)
		}

		proposed := evaluator.Total(sys)
		if energy.MetropolisAccept(current, proposed, p.Temperature, rng) {
			current = proposed
			result.Accepted++
		} else {
			if err := box.Rollback(idx); err != nil {
				return result, fmt.Errorf("move %d: %w", move, err)
			}
			result.Rejected++
		}

		if p.SnapshotDir != "" && p.SnapshotEvery > 0 && move%p.SnapshotEvery == 0 {
			if err := writeSnapshot(p.SnapshotDir, runID, int64(move), sys); err != nil {
				p.Logger.Warnf("snapshot at move %d failed: %v", move, err)
			}
		}
	}

	result.FinalEnergy = current
	result.Elapsed = time.Since(start)
	return result, nil
}

func writeSnapshot(dir, runID string, moveCount int64, sys *metro.System) error {
	snap := metro.CaptureSystemSnapshot(runID, moveCount, sys)
	data, err := metro.EncodeSystemSnapshotJSON(snap)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("%s-%08d.json", runID, moveCount)
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

func loadSystemFromFile(path string) (metro.SystemConfig, *metro.System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return metro.SystemConfig{}, nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg metro.SystemConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return metro.SystemConfig{}, nil, fmt.Errorf("parsing config JSON: %w", err)
	}

	if err := metro.ValidateSystemConfig(cfg); err != nil {
		return metro.SystemConfig{}, nil, fmt.Errorf("validating config: %w", err)
	}

	sys, err := metro.BuildSystemFromConfig(cfg)
	if err != nil {
		return metro.SystemConfig{}, nil, fmt.Errorf("building system: %w", err)
	}

	return cfg, sys, nil
}

func printSummary(name string, r runResult) {
	fmt.Printf("Simulation finished (system=%s, moves=%d)\n", name, r.Moves)
	ratio := 0.0
	if r.Moves > 0 {
		ratio = float64(r.Accepted) / float64(r.Moves)
	}
	fmt.Printf("  accepted: %d\n", r.Accepted)
	fmt.Printf("  rejected: %d\n", r.Rejected)
	fmt.Printf("  acceptance ratio: %.3f\n", ratio)
	fmt.Printf("  final energy: %.6f\n", r.FinalEnergy)
	fmt.Printf("  elapsed: %s\n", r.Elapsed)
}
