package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aaronzipp/distance-resistance/internal/config"
	"github.com/aaronzipp/distance-resistance/internal/handlers"
	"github.com/aaronzipp/distance-resistance/internal/log"
	"github.com/aaronzipp/distance-resistance/internal/names"
	"github.com/aaronzipp/distance-resistance/internal/sse"
	"github.com/aaronzipp/distance-resistance/internal/store"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "resistance",
		Short:         "Serve hidden-role mission game sessions over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("RESISTANCE_CONFIG"), "path to a YAML config file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "resistance:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log.Reset()
	log.Configure(log.Config{Level: cfg.LogLevel})
	logger := log.WithComponent("main")

	nameProvider := names.NewProvider(cfg.NamesFile)
	hub := sse.NewHub(cfg.SSEBufferSize, cfg.SSETimeout)
	app := &handlers.Context{
		Registry: store.NewRegistry(store.Options{
			CodeLength: cfg.SessionCodeLength,
			Name:       nameProvider.Next,
		}),
		Hub:                hub,
		PublicBaseURL:      cfg.PublicBaseURL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		// open streams block Shutdown until the hub closes them
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
