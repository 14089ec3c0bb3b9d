// Package cli is the taisugar command line.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/taisugar/toolkit/config"
	"github.com/taisugar/toolkit/server"
)

// ReporterFactory builds the report service for a loaded configuration.
type ReporterFactory func(ctx context.Context, cfg *config.Config) (server.Reporter, error)

type Options struct {
	// Output receives command results. Defaults to os.Stdout.
	Output io.Writer
	// Logs receives log lines and progress bars. Defaults to os.Stderr.
	Logs io.Writer
	// NewReporter defaults to NewReporter.
	NewReporter ReporterFactory
}

type CLI struct {
	out         io.Writer
	logs        io.Writer
	newReporter ReporterFactory

	configPath      string
	credentialsPath string
	verbose         bool

	cfg     *config.Config
	rootCmd *cobra.Command
}

func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logs == nil {
		opts.Logs = os.Stderr
	}
	if opts.NewReporter == nil {
		opts.NewReporter = NewReporter
	}

	cli := &CLI{
		out:         opts.Output,
		logs:        opts.Logs,
		newReporter: opts.NewReporter,
	}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "taisugar",
		Short:             "Purchase orders and delivery statistics for Taisugar stations",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}
	cmd.SetOut(cli.out)
	cmd.SetErr(cli.logs)

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&cli.credentialsPath, "credentials", "", "path to the credentials INI file (overrides credentials_file)")
	cmd.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "log debug output")

	cmd.AddCommand(newPurchaseOrderCmd(cli))
	cmd.AddCommand(newDeliveryRecordCmd(cli))
	cmd.AddCommand(newOperationCentersCmd(cli))
	cmd.AddCommand(newPreviewCmd(cli))
	cmd.AddCommand(newServeCmd(cli))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	level := zerolog.InfoLevel
	if cli.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.logs, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))

	cfg, err := config.Load(cli.configPath)
	if err != nil {
		return err
	}
	if cli.credentialsPath != "" {
		cfg.CredentialsFile = cli.credentialsPath
	}
	cli.cfg = cfg

	logger.Debug().
		Str("config", cli.configPath).
		Str("template_dir", cfg.TemplateDir).
		Str("tscred", cfg.TSCRED.BaseURL).
		Msg("configuration loaded")
	return nil
}

// outputDir returns flag when set, else the configured directory.
func (cli *CLI) outputDir(flag string) (string, error) {
	dir := flag
	if dir == "" {
		dir = cli.cfg.OutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
