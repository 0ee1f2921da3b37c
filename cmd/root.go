// Package cmd implements the tenderned-notice command-line interface.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/domain"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

type rootOptions struct {
	cfgFile       string
	debug         bool
	publicationID int64
	output        string
	metricsFile   string
}

// NewRootCommand builds the root command. Flags override the config file and
// environment.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "tenderned-notice",
		Short: "Retrieve a TenderNed notice and print its contract title",
		Long: `Retrieves one publication from the TenderNed notice API using the
API_USERNAME and API_PASSWORD credentials and extracts the title of its
contract object.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.Int64Var(&opts.publicationID, "publication-id", int64(domain.DefaultPublicationID),
		"publication to retrieve")
	flags.StringVar(&opts.output, "output", "", "output format: log, table or json")
	flags.StringVar(&opts.metricsFile, "metrics-file", "",
		"write Prometheus metrics to this file in textfile-collector format")

	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tenderned-notice version %s\n", Version)
		},
	}
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := bootstrap.LoadConfig(opts.cfgFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if cmd.Flags().Changed("output") {
		cfg.Output.Format = opts.output
	}
	if opts.metricsFile != "" {
		cfg.Output.MetricsFile = opts.metricsFile
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return fmt.Errorf("config: %w", validateErr)
	}

	log, err := bootstrap.CreateLogger(cfg, opts.debug)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	return bootstrap.Run(cmd.Context(), cfg, log, bootstrap.Options{
		PublicationID: domain.PublicationID(opts.publicationID),
		Stdout:        cmd.OutOrStdout(),
	})
}

// Execute runs the root command until it completes or the process is interrupted.
func Execute() error {
	return ExecuteContext(context.Background(), os.Args[1:], os.Stdout)
}

// ExecuteContext runs the root command with args, writing command output to stdout.
func ExecuteContext(ctx context.Context, args []string, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)

	return rootCmd.ExecuteContext(ctx)
}
