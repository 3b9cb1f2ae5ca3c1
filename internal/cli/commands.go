package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/launchsync/launchsync/pkg/caller"
	"github.com/launchsync/launchsync/pkg/launch"
	"github.com/launchsync/launchsync/pkg/stats"
	"github.com/launchsync/launchsync/pkg/storage"
	"github.com/launchsync/launchsync/pkg/syncer"
)

func newSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch all launches from the provider and upsert them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			src, err := caller.NewClient(opts.Source, opts.Timeout)
			if err != nil {
				return fmt.Errorf("invalid source URL: %v", err)
			}
			db, err := opts.openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}

			res, err := syncer.NewSyncer(src, db, syncer.WithLogger(opts.log)).Sync(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res, opts.Pretty)
		},
	}
}

func newListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every stored launch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			items, err := readAll(cmd, opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				Launches []launch.Item `json:"launches"`
			}{Launches: items}, opts.Pretty)
		},
	}
}

func newStatsCommand(opts *RootOptions) *cobra.Command {

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print launch statistics",
	}

	var sorted bool

	views := []struct {
		use   string
		short string
		view  func(items []launch.Item) interface{}
	}{
		{"totals", "Launch totals by status", func(items []launch.Item) interface{} {
			return stats.Count(items)
		}},
		{"rate", "Status breakdown and success percentage", func(items []launch.Item) interface{} {
			return stats.Rate(items)
		}},
		{"years", "Launch counts per year", func(items []launch.Item) interface{} {
			if sorted {
				return stats.Sorted(stats.ByYear(items))
			}
			return stats.ByYear(items)
		}},
		{"rockets", "Launch counts per rocket", func(items []launch.Item) interface{} {
			if sorted {
				return stats.Sorted(stats.ByRocket(items))
			}
			return stats.ByRocket(items)
		}},
	}

	for _, v := range views {
		v := v
		cmd.AddCommand(&cobra.Command{
			Use:   v.use,
			Short: v.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := readAll(cmd, opts)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), v.view(items), opts.Pretty)
			},
		})
	}

	cmd.PersistentFlags().BoolVar(&sorted, "sort", false, "sort labels ascending (years and rockets)")

	return cmd
}

func readAll(cmd *cobra.Command, opts *RootOptions) ([]launch.Item, error) {

	db, err := opts.openStore(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}
	return storage.ReadAll(cmd.Context(), db)
}
