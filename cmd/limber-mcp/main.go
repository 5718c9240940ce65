package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	limber "github.com/claude/limber"
	"github.com/claude/limber/internal/catalog"
	"github.com/claude/limber/internal/config"
	"github.com/claude/limber/internal/mcp"
	"github.com/claude/limber/internal/routine"
	"github.com/claude/limber/internal/settings"
	"github.com/claude/limber/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (serves from the local database)")
	serverURL := flag.String("url", "", "Limber server URL (serves through the HTTP API instead)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("limber-mcp", Version)
		return
	}

	// stdout carries the MCP protocol, so all logging goes to stderr
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *configPath == "" && *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: limber-mcp -config <file> | -url <server URL>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *configPath != "" && *serverURL != "" {
		fmt.Fprintf(os.Stderr, "Error: -config and -url are mutually exclusive\n")
		os.Exit(1)
	}

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL)
		log.Info("limber-mcp starting", "version", Version, "mode", "remote", "url", *serverURL)
	} else {
		local, cleanup, err := openLocal(*configPath)
		if err != nil {
			log.Error("failed to open local data source", "error", err)
			os.Exit(1)
		}
		defer cleanup()
		ds = local
		log.Info("limber-mcp starting", "version", Version, "mode", "local")
	}

	srv := mcp.New(ds, Version, log)
	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

// openLocal wires a DataSource straight onto the database and settings
// store, the same stack the HTTP server runs on.
func openLocal(configPath string) (*mcp.Local, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	db, err := storage.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}

	st, err := settings.Open(cfg.Settings.Dir)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		st.Close()
		db.Close()
		return nil, nil, err
	}

	// MCP logs must stay off stdout, so the generator logs to stderr too
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	gen := routine.NewGenerator(cat, routine.NewShuffler(), log)

	cleanup := func() {
		if err := st.Close(); err != nil {
			log.Warn("settings close failed", "error", err)
		}
		db.Close()
	}
	return mcp.NewLocal(db, st, gen, cat), cleanup, nil
}

func loadCatalog(path string) ([]catalog.Stretch, error) {
	if path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Load(limber.DefaultCatalog())
}
