package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nachoal/lingo-tutor-go/config"
	"github.com/nachoal/lingo-tutor-go/history"
	"github.com/nachoal/lingo-tutor-go/server"
	"github.com/nachoal/lingo-tutor-go/session"
	"github.com/nachoal/lingo-tutor-go/tools/registry"
)

var (
	serveAddr string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the tutor HTTP API",
		RunE:  runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :12001)")
}

func runServe(cmd *cobra.Command, args []string) error {
	manager, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	hist, err := history.Open(cfg.History.Driver, cfg.History.DSN, cfg.History.Dir)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer hist.Close()

	store := session.New()
	vlt := openVault(cfg)
	srv := server.New(server.Options{
		Store:       store,
		Registry:    registry.NewDefault(store),
		History:     hist,
		Vault:       vlt,
		NewClient:   clientFactory(cfg),
		APIKey:      resolveAPIKey(cfg, vlt),
		SentinelKey: cfg.Mock.SentinelKey,
		TutorPrompt: cfg.Tutor.Prompt,
		Model:       cfg.LLM.Model,
		Temperature: float32(cfg.LLM.Temperature),
		MaxTokens:   cfg.LLM.MaxTokens,
		Verbose:     verbose,
	})
	defer srv.Close()

	if err := manager.Watch(func(c *config.Config) {
		if c.Tutor.Prompt != "" {
			log.Printf("[Config] tutor prompt reloaded from %s", manager.Path())
			srv.SetTutorPrompt(c.Tutor.Prompt)
		}
	}); err != nil && verbose {
		log.Printf("[Config] not watching: %v", err)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server running on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
