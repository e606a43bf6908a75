package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nguyentantai21042004/codesummary/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox directory and summarize every zip archive dropped into it",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	watchCmd.Flags().Int("jobs", 0, "archives processed in parallel")
	for _, name := range []string{"metrics-addr", "jobs"} {
		if err := viper.BindPFlag(name, watchCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	log := a.logger
	cfg := a.cfg

	if v := viper.GetInt("jobs"); v > 0 {
		cfg.Performance.MaxJobs = v
	}

	if err := ensureDirectories(cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Archived, cfg.Paths.Temp); err != nil {
		return err
	}

	w, err := watcher.New(watcher.Options{
		Dir:             cfg.Paths.Input,
		MaxConcurrent:   cfg.Performance.MaxJobs,
		ProcessExisting: true,
	}, func(ctx context.Context, path string) error {
		_, err := a.processor.Process(ctx, path)
		return err
	}, log)
	if err != nil {
		return err
	}
	defer w.Stop()

	addr := cfg.Metrics.Addr
	if v := viper.GetString("metrics-addr"); v != "" {
		addr = v
	}
	if addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.metrics.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "Metrics server failed: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info(ctx, "Metrics: http://%s/metrics", addr)
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Code Summary watcher is ready!")
	log.Info(ctx, "System: %s/%s, %d CPUs", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Provider: %s (%s), prompt mode: %s", cfg.Completion.Provider, cfg.Completion.Model, cfg.Prompt.Mode)
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Concurrent: %d archives, %d files each", cfg.Performance.MaxJobs, cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info(ctx, "Code Summary watcher stopped")
	return nil
}
