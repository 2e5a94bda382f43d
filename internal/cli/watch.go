package cli

import (
	"context"
	"net/http"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/shaiso/Stackmate/internal/stack"
)

// NewWatchCmd создаёт команду watch — периодические health-проверки
// хранилищ по расписанию cron с /healthz и /metrics.
func NewWatchCmd(deps *Deps, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Periodically probe every store and expose Prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			cfg, err := deps.Config()
			if err != nil {
				return err
			}

			// graceful shutdown
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client, _, cleanup, err := deps.Workflow(ctx, cfg)
			if err != nil {
				deps.Logger.Error("workflow wiring failed", "error", err)
				out.Error(err.Error())
				return nil
			}
			defer cleanup()

			logger := deps.Logger
			specs := stack.Default()

			runProbes := func() {
				results := client.HealthCheck(ctx, cfg.Stores.DialTimeout)

				names := make([]string, 0, len(results))
				for name := range results {
					names = append(names, name)
				}
				sort.Strings(names)

				for _, name := range names {
					r := results[name]
					addr := ""
					if spec, ok := stack.Lookup(specs, name); ok {
						addr = spec.Addr
					}
					if r.OK {
						logger.Info("probe ok", "store", name, "addr", addr, "latency_ms", r.LatencyMs)
					} else {
						logger.Warn("probe failed", "store", name, "addr", addr, "error", r.Error)
					}
				}
			}

			c := cron.New()
			if _, err := c.AddFunc(cfg.Watch.Schedule, runProbes); err != nil {
				return err
			}
			c.Start()
			defer func() {
				stopCtx := c.Stop()
				select {
				case <-stopCtx.Done():
				case <-time.After(5 * time.Second):
				}
			}()

			// первый прогон сразу, не дожидаясь расписания
			runProbes()

			// HTTP mux: /healthz + /metrics
			mux := http.NewServeMux()
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			mux.Handle("/metrics", promhttp.Handler())

			srv := &http.Server{Addr: cfg.Watch.ListenAddr, Handler: mux}
			go func() {
				logger.Info("listening", "addr", cfg.Watch.ListenAddr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("http server error", "error", err)
					cancel()
				}
			}()

			// Ожидаем сигнал завершения
			<-ctx.Done()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)

			logger.Info("watch stopped")
			return nil
		},
	}
}
