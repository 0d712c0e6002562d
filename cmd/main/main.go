package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"admin/access/internal/config"
	"admin/access/internal/container"
	"admin/access/internal/domain"
	"admin/access/internal/logger"
	"admin/access/internal/router"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		cfg     *config.Config
	)

	rootCmd := &cobra.Command{
		Use:   "access",
		Short: "Route and menu access generator for the admin dashboard",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			return logger.Setup(cfg.Log)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	rootCmd.AddCommand(
		newServeCmd(func() *config.Config { return cfg }),
		newGenerateCmd(func() *config.Config { return cfg }),
	)

	return rootCmd
}

func newServeCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the session access API and process queued tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("Starting access service...")

			app, err := container.New(ctx, cfg())
			if err != nil {
				return fmt.Errorf("failed to initialize container: %w", err)
			}
			defer app.Close()

			if err := app.Run(ctx); err != nil {
				return fmt.Errorf("application exited with error: %w", err)
			}

			log.Info("Application finished successfully")
			return nil
		},
	}
}

func newGenerateCmd(cfg func() *config.Config) *cobra.Command {
	var (
		mode  string
		roles []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate accessible routes and menus once and print them as JSON",
		Example: `  # Frontend mode for a user with the "user" role
  access generate --mode frontend --roles user

  # Backend mode using the configured menu source
  access generate --config config.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), cmd, cfg(), mode, roles)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "access mode (backend|frontend), defaults to access.mode")
	cmd.Flags().StringSliceVar(&roles, "roles", nil, "roles of the user")

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, cfg *config.Config, mode string, roles []string) error {
	stack, err := container.NewAccessStack(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer stack.Close()

	accessMode := stack.Mode
	if strings.TrimSpace(mode) != "" {
		accessMode, err = domain.ParseAccessMode(mode)
		if err != nil {
			return err
		}
	}

	result, err := stack.Generator.Generate(ctx, router.New(stack.CoreRoutes...), accessMode, roles)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
