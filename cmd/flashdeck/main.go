package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/flashdeck/internal/audit"
	"github.com/conorfennell/flashdeck/internal/cli"
	"github.com/conorfennell/flashdeck/internal/config"
	"github.com/conorfennell/flashdeck/internal/gitsource"
	"github.com/conorfennell/flashdeck/internal/history"
	"github.com/conorfennell/flashdeck/internal/render"
	"github.com/conorfennell/flashdeck/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("flashdeck failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Flag defaults mirror config.Default() so an unset flag never clobbers
	// a value from the config file or the environment.
	def := config.Default()
	flags := pflag.NewFlagSet("flashdeck", pflag.ExitOnError)
	configPath := flags.String("config", "flashdeck.yaml", "path to the YAML config file")
	flags.String("questions-dir", def.QuestionsDir, "directory holding the CSV question banks")
	flags.String("log-dir", def.LogDir, "directory for audit logs")
	flags.String("export-dir", def.ExportDir, "directory for session result exports")
	flags.String("history-db", def.HistoryDB, "path to the session history database")
	flags.Bool("clear-screen", def.ClearScreen, "clear the terminal between menus")
	flags.Bool("debug", def.Debug, "enable debug logging")
	flags.String("sync-remote", def.SyncRemote, "git URL of a remote bank repository to mirror")
	flags.String("sync-cache-dir", def.SyncCacheDir, "directory for remote repository checkouts")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	auditLog, err := audit.Open(cfg.LogDir)
	if err != nil {
		return err
	}
	defer auditLog.Close()

	st, err := store.New(cfg.QuestionsDir, auditLog)
	if err != nil {
		return err
	}

	// History is best-effort: the quiz still works without it.
	hist, err := history.Open(cfg.HistoryDB)
	if err != nil {
		slog.Warn("session history unavailable", "path", cfg.HistoryDB, "error", err)
	} else {
		defer hist.Close()
	}

	if cfg.SyncRemote != "" {
		syncBanks(cfg, auditLog)
	}

	rend := render.New(os.Stdout, cfg.ClearScreen)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	app := cli.New(cfg, st, hist, auditLog, rend, os.Stdin, rng)
	app.Run()
	return nil
}

// syncBanks pulls the remote bank repository on startup. Failures are logged
// and skipped so an offline machine can still play with local banks.
func syncBanks(cfg *config.Config, auditLog *audit.Logger) {
	repoPath, err := gitsource.Sync(cfg.SyncRemote, cfg.SyncCacheDir)
	if err != nil {
		slog.Warn("failed to sync remote banks", "remote", cfg.SyncRemote, "error", err)
		return
	}
	added, updated, err := gitsource.Reconcile(repoPath, cfg.QuestionsDir)
	if err != nil {
		slog.Warn("failed to reconcile remote banks", "error", err)
		return
	}
	if added > 0 || updated > 0 {
		auditLog.Log("SYNC", fmt.Sprintf("%s | %d mới, %d cập nhật", cfg.SyncRemote, added, updated))
	}
	slog.Info("remote banks synced", "added", added, "updated", updated)
}
