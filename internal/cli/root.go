// Package cli implements launchctl, an operator tool for the launch table.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/launchsync/launchsync/internal/config"
	"github.com/launchsync/launchsync/internal/logging"
	"github.com/launchsync/launchsync/pkg/storage"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Table    string
	Region   string
	Endpoint string
	Source   string
	Timeout  time.Duration
	PageSize int32
	LogLevel string
	Pretty   bool

	// openStore connects to the table, tests swap it for an in-memory store
	openStore func(ctx context.Context, opts *RootOptions) (storage.Store, error)
	log       *slog.Logger
	cfgErr    error
}

// NewRootCommand creates the root command, with flag defaults taken from the environment.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{openStore: openDynamo})
}

func newRootCommand(opts *RootOptions) *cobra.Command {

	cfg, err := config.Load()
	if err != nil {
		opts.cfgErr = err
		cfg = config.Config{TableName: config.DefaultTable, FetchTimeout: config.DefaultFetchTimeout, LogLevel: "info"}
	}

	cmd := &cobra.Command{
		Use:   "launchctl",
		Short: "Sync and inspect the launch table",
		Long:  "launchctl runs the launch sync and the statistics views against a DynamoDB launch table.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfgErr != nil {
				return opts.cfgErr
			}
			opts.log = logging.New(logging.Options{Level: opts.LogLevel, Out: cmd.ErrOrStderr()})
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Table, "table", cfg.TableName, "launch table name")
	cmd.PersistentFlags().StringVar(&opts.Region, "region", cfg.Region, "AWS region")
	cmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", cfg.Endpoint, "DynamoDB endpoint, e.g. a local DynamoDB")
	cmd.PersistentFlags().StringVar(&opts.Source, "source", cfg.SourceURL, "launch provider base URL")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", cfg.FetchTimeout, "launch provider request timeout")
	cmd.PersistentFlags().Int32Var(&opts.PageSize, "page-size", cfg.ScanPageLimit, "items per scan page, 0 for the DynamoDB default")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&opts.Pretty, "pretty", false, "indent JSON output")

	cmd.AddCommand(newSyncCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))

	return cmd
}

func openDynamo(ctx context.Context, opts *RootOptions) (storage.Store, error) {
	return storage.NewDynamo(ctx, storage.DynamoOptions{
		Region:    opts.Region,
		Endpoint:  opts.Endpoint,
		Table:     opts.Table,
		PageLimit: opts.PageSize,
		Log:       opts.log,
	})
}

// writeJSON prints v to w
func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
