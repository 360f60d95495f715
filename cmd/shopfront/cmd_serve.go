package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/shopfront/internal/config"
	"github.com/user/shopfront/internal/httpapi"
	"github.com/user/shopfront/internal/storefront"
)

const shutdownTimeout = 5 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the storefront HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func writePIDFile(cfg *config.Config) (string, error) {
	pidPath := cfg.DataPath("shopfront.pid")
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := setupLogging(cfg)
	defer logger.Sync()

	if !cfg.HTTP.Enabled {
		return errors.New("http surface disabled: set http.enabled true or use the tui command")
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	pidPath, err := writePIDFile(cfg)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	opts := storefront.OptionsFromConfig(cfg)
	opts.Logger = logger
	store := storefront.New(opts)
	defer store.Close()

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Listen,
		Handler:           httpapi.NewServer(store, logger.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	logger.Info("shopfront started",
		zap.String("listen", cfg.HTTP.Listen),
		zap.String("data_dir", cfg.DataDir),
		zap.Duration("latency", cfg.Assistant.Latency()),
		zap.String("flight_policy", cfg.Flight.Policy),
		zap.String("pid_file", pidPath),
	)

	restart := false
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-hup:
			logger.Info("received SIGHUP, restarting")
			restart = true
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if restart {
		return reexec(logger, pidPath)
	}
	logger.Info("shutting down")
	return nil
}

func reexec(logger *zap.Logger, pidPath string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("find executable: %w", err)
	}
	os.Remove(pidPath)
	logger.Sync()
	if err := syscall.Exec(execPath, os.Args, os.Environ()); err != nil {
		return fmt.Errorf("re-exec: %w", err)
	}
	return nil
}
