// Command detsuite verifies that settlement generation is bit-identical
// across independent runs. Exits non-zero on any drift.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/talgya/crossroads/internal/detsuite"
	"github.com/talgya/crossroads/internal/handshake"
	"github.com/talgya/crossroads/internal/persistence"
	"github.com/talgya/crossroads/internal/settlement"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config (defaults apply when empty)")
		runs       = flag.Int("runs", 3, "independent generation runs to compare")
		dbPath     = flag.String("db", "", "record the outcome in this snapshot database (empty skips)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := settlement.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	hash := handshake.Hash(cfg)
	slog.Info("determinism suite", "seed", cfg.Seed, "runs", *runs, "handshake", hash[:12])

	res := detsuite.Run(cfg, detsuite.Options{Runs: *runs})
	for i, rh := range res.RunHashes {
		slog.Info("run complete", "run", i+1, "hash", rh[:16])
	}

	if *dbPath != "" {
		db, err := persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.RecordDeterminismRun(hash, *runs, res.OverallHash, res.OK); err != nil {
			slog.Error("failed to record outcome", "error", err)
		}
	}

	if !res.OK {
		slog.Error("DRIFT DETECTED: runs produced different geometry for equal inputs")
		os.Exit(1)
	}
	fmt.Printf("OK: %d runs, overall hash %s\n", *runs, res.OverallHash[:16])
}
