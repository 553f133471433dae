// Command seqmap indexes reference genomes and aligns reads against them.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/seqmap"
	"github.com/hupe1980/seqmap/metrics/prom"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	logLevel    string
	logFormat   string
	workers     int
	metricsAddr string
)

// app carries the state shared by all subcommands.
var app struct {
	logger  *seqmap.Logger
	metrics seqmap.MetricsCollector
	run     seqmap.RunContext
}

var rootCmd = &cobra.Command{
	Use:   "seqmap",
	Short: "seqmap - hashblock read mapper",
	Long: `seqmap indexes reference sequences into hashblock pyramids and aligns
short reads against them with an affine-gap path search.

Indexes are written as snapshots to a local directory, S3 or MinIO and can
be reused across runs.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	pf.IntVarP(&workers, "workers", "j", 0, "Worker count (0 uses all CPUs)")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func setup(cmd *cobra.Command, _ []string) error {
	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	switch strings.ToLower(logFormat) {
	case "text":
		app.logger = seqmap.NewTextLogger(level)
	case "json":
		app.logger = seqmap.NewJSONLogger(level)
	default:
		return fmt.Errorf("invalid log format %q", logFormat)
	}

	app.run = seqmap.NewRunContext(version, os.Args)
	app.metrics = seqmap.NoopMetricsCollector{}
	if metricsAddr == "" {
		return nil
	}

	reg := prometheus.NewRegistry()
	c, err := prom.New(reg)
	if err != nil {
		return err
	}
	app.metrics = c

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.ErrorContext(cmd.Context(), "metrics server stopped", "error", err)
		}
	}()
	app.logger.InfoContext(cmd.Context(), "serving metrics", "addr", metricsAddr)
	return nil
}

// commonOptions returns the options every subcommand passes to seqmap.
func commonOptions() []seqmap.Option {
	opts := []seqmap.Option{
		seqmap.WithLogger(app.logger),
		seqmap.WithMetricsCollector(app.metrics),
	}
	if workers > 0 {
		opts = append(opts, seqmap.WithWorkers(workers))
	}
	return opts
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "seqmap version %s\n", version)
	},
}
