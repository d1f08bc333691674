// Command statesim runs the Monetary State simulation core and serves the
// player surface over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/talgya/monetary-state/internal/api"
	"github.com/talgya/monetary-state/internal/config"
	"github.com/talgya/monetary-state/internal/country"
	"github.com/talgya/monetary-state/internal/engine"
	"github.com/talgya/monetary-state/internal/entropy"
	"github.com/talgya/monetary-state/internal/mapview"
	"github.com/talgya/monetary-state/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	src := entropy.New(seed)
	slog.Info("Monetary State — geopolitical simulation core", "seed", seed)

	// ── Country dataset ───────────────────────────────────────────────
	// A failed initial load blocks session start; there is no sensible
	// in-game state without the dataset.
	countries, err := loadDataset(cfg)
	if err != nil {
		slog.Error("failed to load country dataset", "error", err)
		os.Exit(1)
	}
	slog.Info("country dataset loaded", "countries", countries.Len())

	// ── Save store ────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	store, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open save store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	start, err := time.Parse("2006-01-02", cfg.StartDate)
	if err != nil {
		slog.Error("invalid start_date in config", "value", cfg.StartDate, "error", err)
		os.Exit(1)
	}

	eng := engine.New(cfg.Balance, src, countries, start, mapview.LogView{})

	// ── Restore saved slot, if any ────────────────────────────────────
	if blob, ok, err := store.Load(); err != nil {
		slog.Warn("save slot unreadable, starting fresh", "error", err)
	} else if ok {
		restoreSave(eng, blob)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{Eng: eng, Store: store, Port: cfg.Port}
	apiServer.Start()

	// ── Run until signalled ───────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	eng.Run(ctx)

	// Final save on exit, matching the browser build's save-on-exit.
	if snap, err := eng.Snapshot(time.Now()); err == nil {
		if blob, err := persistence.Encode(snap); err == nil {
			if err := store.Save(blob); err != nil {
				slog.Error("final save failed", "error", err)
			}
		}
	}
	slog.Info("simulation stopped")
}

// loadDataset prefers a local file and falls back to the remote endpoint.
func loadDataset(cfg *config.Config) (*country.Set, error) {
	if cfg.DatasetPath != "" {
		if set, err := country.LoadFile(cfg.DatasetPath); err == nil {
			return set, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("local dataset unreadable, trying remote", "path", cfg.DatasetPath, "error", err)
		}
	}
	return country.Fetch(cfg.DatasetURL)
}

// restoreSave applies a stored blob. An unknown saved country is recovered
// locally: fall back to a random selection instead of refusing to start.
func restoreSave(eng *engine.Engine, blob []byte) {
	snap, err := persistence.Decode(blob)
	if err != nil {
		slog.Warn("save blob rejected, starting fresh", "error", err)
		return
	}
	if err := eng.Restore(snap); err != nil {
		slog.Warn("saved country not in dataset, selecting at random", "saved", snap.CountryName, "error", err)
		if name, rerr := eng.SelectRandom(); rerr == nil {
			slog.Info("fallback selection", "country", name)
		}
		return
	}
	slog.Info("saved game available", "country", snap.CountryName, "lastSaved", snap.LastSaved)
}
