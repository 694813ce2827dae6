// Package main is the LocalMind server entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/localmind/localmind/internal/config"
	"github.com/localmind/localmind/internal/docid"
	"github.com/localmind/localmind/internal/extract"
	"github.com/localmind/localmind/internal/index"
	"github.com/localmind/localmind/internal/models"
	"github.com/localmind/localmind/internal/seed"
	"github.com/localmind/localmind/internal/server"
	"github.com/localmind/localmind/internal/watcher"
	"github.com/localmind/localmind/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/localmind/config.yaml"

// loadConfig loads config from path. When path is the default and a
// config.yaml exists in the current directory, that one wins, so running from
// the project dir picks up the project's config. A missing default config is
// not an error; built-in defaults apply.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				return config.Load(fallback)
			}
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			var cfg config.Config
			config.ApplyDefaults(&cfg)
			return &cfg, nil
		}
	}
	return config.Load(path)
}

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	port := flag.Int("port", 0, "override server port")
	debug := flag.Bool("debug", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("localmind", version)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *debug {
		cfg.Debug = true
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	store := index.NewStore(cfg.Search.MaxVocabulary, cfg.Search.RecentQueries)

	if cfg.Ingest.SeedSamplesOrDefault() {
		n, err := seed.Load(store)
		if err != nil {
			return fmt.Errorf("seed samples: %w", err)
		}
		logger.Info("loaded sample documents", zap.Int("count", n))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.Watch.Directories) > 0 {
		w := watcher.New(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.RecursiveOrDefault(),
			func(path string) { indexFile(store, logger, path) },
			func(path string) { removeFile(store, logger, path) },
			logger,
		)
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer w.Stop()
	}

	srv := server.NewServer(store, cfg, logger)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Stop(shutdownCtx)
}

// indexFile reads and extracts a watched file, then adds it to the index
// under a path-derived ID.
func indexFile(store *index.Store, logger *zap.Logger, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("read watched file failed", zap.String("path", path), zap.Error(err))
		return
	}
	res, err := extract.File(content, filepath.Base(path))
	if err != nil {
		logger.Warn("extract watched file failed", zap.String("path", path), zap.Error(err))
		return
	}
	res.Metadata["type"] = res.Type
	res.Metadata["path"] = path
	in := &models.DocumentInput{
		ID:       docid.FromPath(path),
		Title:    filepath.Base(path),
		Content:  res.Content,
		Metadata: res.Metadata,
	}
	if err := store.Add(in); err != nil {
		logger.Warn("index watched file failed", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("indexed watched file", zap.String("path", path), zap.String("id", in.ID))
}

// removeFile drops a watched file from the index; paths that were never
// indexed are ignored.
func removeFile(store *index.Store, logger *zap.Logger, path string) {
	id := docid.FromPath(path)
	if err := store.Remove(id); err != nil {
		if errors.Is(err, index.ErrNotFound) {
			return
		}
		logger.Warn("remove watched file failed", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("removed watched file", zap.String("path", path), zap.String("id", id))
}
