// Command settlementd serves deterministic settlement layers over HTTP.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/talgya/crossroads/internal/api"
	"github.com/talgya/crossroads/internal/handshake"
	"github.com/talgya/crossroads/internal/persistence"
	"github.com/talgya/crossroads/internal/settlement"
	"github.com/talgya/crossroads/internal/terrain"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config (defaults apply when empty)")
		dbPath     = flag.String("db", "data/crossroads.db", "layout snapshot database path (empty disables)")
		port       = flag.Int("port", 8080, "HTTP API port")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Crossroads — deterministic settlement layer server")

	// ── Config ────────────────────────────────────────────────────────
	cfg, err := settlement.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	hash := handshake.Hash(cfg)
	slog.Info("config loaded",
		"seed", cfg.Seed,
		"region_size", cfg.Roads.RegionSize,
		"cell_size", cfg.Settlement.CellSize,
		"handshake", hash[:12],
	)

	// ── Snapshot store ────────────────────────────────────────────────
	var store *persistence.DB
	if *dbPath != "" {
		os.MkdirAll(filepath.Dir(*dbPath), 0755)
		store, err = persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		slog.Info("snapshot store opened", "path", *dbPath)
	} else {
		slog.Warn("snapshot store disabled, every restart regenerates from scratch")
	}

	// ── Generator ─────────────────────────────────────────────────────
	field := terrain.NewField(cfg.Seed, cfg.Terrain)
	gen := settlement.NewGenerator(cfg, field)

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Gen:       gen,
		Store:     store,
		Port:      *port,
		Handshake: hash,
	}
	apiServer.Start()

	fmt.Printf("\nCrossroads is serving: http://localhost:%d/api/v1/status\n", *port)
	fmt.Println("Press Ctrl+C to stop.")

	// ── Shutdown ──────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}
