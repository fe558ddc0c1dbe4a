package cli

import (
	"context"
	"fmt"

	"github.com/bitfantasy/qr-label/internal/config"
	"github.com/bitfantasy/qr-label/internal/label/repository"
	"github.com/bitfantasy/qr-label/internal/label/service"
	"github.com/bitfantasy/qr-label/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
}

// NewRootCmd labelctl root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "labelctl",
		Short: "Render QR parts-identification labels offline",
		Long: `labelctl renders QR parts-identification labels from a record file
and writes the tiled PNG and the filled spreadsheet next to each other.

It reads the same configuration as the label server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./configs/config.yaml)")

	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newTemplateCmd(opts))
	cmd.AddCommand(newLotCmd(opts))
	return cmd
}

// engine is the wired label stack for one CLI invocation.
type engine struct {
	cfg      *config.Config
	services *service.Services
	logger   *zap.Logger
}

func (o *rootOptions) load(templatePath string) (*engine, error) {
	cfg, err := config.LoadFrom(o.configPath)
	if err != nil {
		return nil, err
	}
	if templatePath != "" {
		cfg.Label.TemplatePath = templatePath
		cfg.Label.TemplateObject = ""
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	templates, err := repository.NewTemplateSource(cfg)
	if err != nil {
		return nil, err
	}
	services, err := service.NewServices(cfg, templates, log)
	if err != nil {
		return nil, fmt.Errorf("init label services: %w", err)
	}
	return &engine{cfg: cfg, services: services, logger: log}, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
