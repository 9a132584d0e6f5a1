package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"

	"github.com/DanielPopoola/affirm-go/internal/config"
	"github.com/DanielPopoola/affirm-go/internal/transport"
	"github.com/DanielPopoola/affirm-go/pkg/affirm"
)

var Version = "dev"

// app is built once per invocation, before any subcommand runs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	client   *affirm.Client
}

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the command tree and pushes metrics afterwards, whether or
// not the command failed.
func execute(args []string, stdout, stderr io.Writer) error {
	rootCmd, a := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	a.pushMetrics()
	return err
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "affirm",
		Short:         "Authorize, capture, read, void and refund Affirm charges",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.AddCommand(authorizeCmd(a))
	rootCmd.AddCommand(captureCmd(a))
	rootCmd.AddCommand(readCmd(a))
	rootCmd.AddCommand(voidCmd(a))
	rootCmd.AddCommand(refundCmd(a))

	return rootCmd, a
}

func (a *app) setup() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()

	var doer affirm.Doer = &http.Client{Timeout: cfg.HTTP.Timeout}
	doer, err = transport.NewInstrumented(doer, registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	doer = transport.NewLogging(doer, logger)
	doer = transport.NewRetrying(doer, cfg.Retry)

	client, err := affirm.New(cfg.ClientConfig(), doer, cfg.ClientOptions(logger)...)
	if err != nil {
		return err
	}

	logger.Debug("affirm client ready",
		"sandbox", cfg.IsSandbox,
		"max_attempts", cfg.Retry.MaxAttempts,
	)

	a.cfg = cfg
	a.logger = logger
	a.registry = registry
	a.client = client
	return nil
}

// pushMetrics is best effort: a pushgateway outage must not fail the charge
// operation that already ran.
func (a *app) pushMetrics() {
	if a.cfg == nil || a.cfg.Metrics.PushgatewayURL == "" {
		return
	}

	err := push.New(a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job).
		Gatherer(a.registry).
		Push()
	if err != nil {
		a.logger.Warn("failed to push metrics", "error", err)
	}
}
