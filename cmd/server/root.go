package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/server"
)

// serveFlags override the environment configuration
type serveFlags struct {
	port     string
	host     string
	logLevel string
	dev      bool
}

func (f serveFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = f.port
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = f.host
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if cmd.Flags().Changed("dev") {
		cfg.Logging.Development = f.dev
	}
}

// NewRootCmd builds the sidenote-core command. Without a subcommand it
// serves the backend and announces the optional launch folder.
func NewRootCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "sidenote-core [path]",
		Short: "Filesystem backend for the Sidenote markdown editor",
		Long: `Serve the Sidenote filesystem backend.

The optional path is the folder to open; "." opens the working directory.
The webview receives it as an open-folder event once it connects.

Examples:
  sidenote-core                 # serve without a launch folder
  sidenote-core .               # open the working directory
  sidenote-core ~/notes --dev   # open ~/notes with console logs`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)

			var launchArg string
			if len(args) == 1 {
				launchArg = args[0]
			}
			return serve(cmd.Context(), cfg, launchArg)
		},
	}

	cmd.Flags().StringVar(&flags.port, "port", "8000", "Server port (overrides PORT)")
	cmd.Flags().StringVar(&flags.host, "host", "127.0.0.1", "Listen host (overrides HOST)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "Log level (overrides LOG_LEVEL)")
	cmd.Flags().BoolVar(&flags.dev, "dev", false, "Console logs at debug level (overrides LOG_DEV)")

	cmd.AddCommand(newTreeCmd())
	cmd.AddCommand(newLsCmd())

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, launchArg string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)

	srv, err := server.NewServer(cfg, logger, version)
	if err != nil {
		logger.Error("Failed to create server", zap.Error(err))
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.Announce(ctx, launchArg)

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
		return err
	}
	logger.Info("Shut down gracefully")
	return nil
}
