package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgallion1/manweave/internal/api"
	"github.com/dgallion1/manweave/internal/config"
	"github.com/dgallion1/manweave/internal/placeholder"
	"github.com/dgallion1/manweave/internal/store"
	"github.com/dgallion1/manweave/internal/viewer"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pick the page source.
	var st store.Store
	var remote *store.RemoteStore
	if cfg.ManualDir != "" {
		st = store.NewDirStore(cfg.ManualDir,
			store.WithMaxPageBytes(cfg.MaxPageBytes),
			store.WithPdftotextFallback(cfg.PDFFallbackPdftotext),
		)
	} else {
		remote = store.NewRemoteStore(cfg.PageStoreURL, cfg.PageStoreAPIKey)
		st = remote
	}

	// Substitution context: base plus optional locale overlay.
	sub, err := loadContexts(cfg)
	if err != nil {
		log.Error("invalid substitution context", "error", err)
		os.Exit(1)
	}

	v := viewer.New(st, log, cfg.RootPage, cfg.Locale, sub, cfg.Prefetch)

	// A manual that cannot compose must not serve.
	if _, err := v.Rebuild(ctx); err != nil {
		log.Error("initial build failed", "error", err)
		os.Exit(1)
	}

	srv := api.NewServer(v, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if remote != nil {
			remote.Close()
		}
	}()

	log.Info("starting manweave", "port", cfg.Port, "root", cfg.RootPage, "locale", cfg.Locale)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// loadContexts reads context.json and, when LOCALE is set, context.<locale>.json
// from the manual dir. The locale overlay wins on conflicts. With a remote page
// store there is no local dir, so the context starts empty.
func loadContexts(cfg config.Config) (placeholder.Context, error) {
	if cfg.ManualDir == "" {
		return placeholder.Context{}, nil
	}
	base, err := placeholder.LoadFile(filepath.Join(cfg.ManualDir, "context.json"))
	if err != nil {
		return nil, err
	}
	if cfg.Locale == "" {
		return base, nil
	}
	overlay, err := placeholder.LoadFile(filepath.Join(cfg.ManualDir, "context."+cfg.Locale+".json"))
	if err != nil {
		return nil, err
	}
	return placeholder.Merge(base, overlay), nil
}
