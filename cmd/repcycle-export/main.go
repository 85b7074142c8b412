package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/claude/repcycle/internal/config"
	"github.com/claude/repcycle/internal/store"
	"github.com/claude/repcycle/internal/tracker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	outPath := flag.String("out", "-", "output file, - for stdout")
	historyOnly := flag.Bool("history", false, "export only the workout history")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		log.Error("failed to open state db", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	data, ok, err := st.Load()
	if err != nil {
		log.Error("failed to load state", "error", err)
		os.Exit(1)
	}
	if !ok {
		log.Error("no state saved yet", "dir", cfg.Storage.DataDir)
		os.Exit(1)
	}

	// Parse through the migration path so old blobs export in the current
	// shape.
	state, err := tracker.ParseState(data)
	if err != nil {
		log.Error("failed to parse state", "error", err)
		os.Exit(1)
	}

	var v any = state
	if *historyOnly {
		v = state.History
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error("failed to encode export", "error", err)
		os.Exit(1)
	}
	out = append(out, '\n')

	if *outPath == "-" {
		if _, err := os.Stdout.Write(out); err != nil {
			log.Error("write failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		log.Error("write failed", "path", *outPath, "error", err)
		os.Exit(1)
	}
	log.Info("export written", "path", *outPath, "bytes", len(out))
}
