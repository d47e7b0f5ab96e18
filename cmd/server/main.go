package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docsite/internal/api"
	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/content"
	"github.com/dgallion1/docsite/internal/help"
	"github.com/dgallion1/docsite/internal/markdown"
	"github.com/dgallion1/docsite/internal/scrollsync"
	"github.com/dgallion1/docsite/internal/session"
	"github.com/dgallion1/docsite/internal/source"
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

	// Load documents.
	renderer := markdown.New(markdown.Options{
		CodeStyle:    cfg.CodeStyle,
		CodeClasses:  true,
		HeaderOffset: cfg.HeaderOffset,
	})
	loader := &content.Loader{
		Renderer: renderer,
		Source:   source.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		Log:      log,
	}
	store, err := loader.Load(cfg.ContentDir)
	if err != nil {
		log.Error("failed to load documents", "dir", cfg.ContentDir, "error", err)
		os.Exit(1)
	}
	log.Info("documents loaded", "count", store.Len(), "dir", cfg.ContentDir)

	// Contextual help.
	var requester help.Requester = help.LogRequester{Log: log}
	var client *help.Client
	if cfg.HelpWebhookURL != "" {
		client = help.NewClient(cfg.HelpWebhookURL, cfg.HelpAPIKey)
		requester = client
	}
	dispatcher := help.NewDispatcher(requester, help.DispatcherOptions{
		Workers:    cfg.HelpWorkers,
		QueueSize:  cfg.HelpQueueSize,
		MaxRetries: help.MaxRetries,
		Stats:      help.NewStats(time.Hour),
	}, log)
	dispatcher.Start(ctx)

	// Scroll sync sessions.
	sessions := session.NewStore(session.Options{
		Controller: scrollsync.Options{
			ThrottleInterval: cfg.ScrollThrottle,
			FragmentDelay:    cfg.FragmentDelay,
		},
		TTL:    cfg.SessionTTL,
		Logger: log,
	})
	go sessions.Run(ctx, time.Minute)

	srv, err := api.NewServer(store, renderer, dispatcher, sessions, log, cfg)
	if err != nil {
		log.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
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

		cancel()
		dispatcher.Stop()
		sessions.Close()
		if client != nil {
			client.Close()
		}
	}()

	log.Info("starting docsite", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
