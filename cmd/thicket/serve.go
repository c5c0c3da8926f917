package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/internal/presentation/tui"
	httpAdapter "github.com/aretw0/thicket/pkg/adapters/http"
	"github.com/aretw0/thicket/pkg/adapters/memory"
	"github.com/aretw0/thicket/pkg/adapters/redis"
	"github.com/aretw0/thicket/pkg/observability"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/aretw0/thicket/pkg/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP fixture server",
	Long: `Serves generated fixtures as JSON over HTTP. Seeded requests are cached
in memory, or in Redis when --redis is set. Prometheus metrics are exposed
on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		ttl, _ := cmd.Flags().GetDuration("cache-ttl")
		watch, _ := cmd.Flags().GetBool("watch")
		parallel, _ := cmd.Flags().GetInt("parallel")

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		catalog, fileCatalog, err := openCatalog(cmd, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var cache ports.FixtureCache = memory.NewCache()
		if redisAddr != "" {
			rc := redis.New(redisAddr, os.Getenv("THICKET_REDIS_PASSWORD"), 0, redis.WithTTL(ttl))
			defer rc.Close()
			if err := rc.Ping(ctx); err != nil {
				return fmt.Errorf("failed to reach redis at %s: %w", redisAddr, err)
			}
			cache = rc
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := observability.NewMetrics(reg)

		svc := service.New(catalog,
			service.WithCache(cache),
			service.WithLogger(logger),
			service.WithGeneratorOptions(
				thicket.WithLogger(logger),
				thicket.WithLifecycleHooks(metrics.Hooks()),
				thicket.WithParallelism(parallel),
			),
		)

		if watch {
			if fileCatalog == nil {
				return fmt.Errorf("--watch needs --dir")
			}
			if err := watchCatalog(ctx, fileCatalog, svc, logger); err != nil {
				return err
			}
		}

		handler := httpAdapter.NewHandler(svc,
			httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		out := cmd.OutOrStdout()
		tui.PrintBanner(out, thicket.Version)

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Fprintf(out, "Starting Thicket Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			fmt.Fprintln(out, "\nStart shutdown...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(out, "Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Fprintf(out, "Error killing server: %v\n", err)
				}
			}
			fmt.Fprintln(out, "Thicket Server stopped gracefully")
		}
		return nil
	},
}

// watchCatalog drops cached fixtures whenever the definitions on disk change.
func watchCatalog(ctx context.Context, c ports.Watchable, svc *service.Service, logger *slog.Logger) error {
	changes, err := c.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for range changes {
			if err := svc.Invalidate(ctx); err != nil {
				logger.Warn("cache invalidation failed", "err", err)
				continue
			}
			logger.Info("fixture definitions reloaded")
		}
	}()
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for the fixture cache (in-memory when empty)")
	serveCmd.Flags().Duration("cache-ttl", time.Hour, "Expiry of cached fixtures in Redis")
	serveCmd.Flags().Bool("watch", false, "Reload definitions from --dir when they change")
	serveCmd.Flags().Int("parallel", 0, "Build subtrees with this many workers")
}
