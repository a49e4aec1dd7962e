package main

import (
	"github.com/spf13/cobra"

	"github.com/vmunix/mediar/internal/metadata"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the metadata cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			live, expired, err := metadata.NewCache(db).Stats(cmd.Context())
			if err != nil {
				return err
			}
			printf(a.out, "Database: %s\n", a.cfg.Database.Path)
			printf(a.out, "Entries:  %d live, %d expired\n", live, expired)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Remove expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			n, err := metadata.NewCache(db).Prune(cmd.Context())
			if err != nil {
				return err
			}
			printf(a.out, "Pruned %d expired entries\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached provider response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			cache := metadata.NewCache(db)
			var total int64
			for _, source := range metadataSources {
				n, err := cache.DeletePrefix(cmd.Context(), source+":")
				if err != nil {
					return err
				}
				total += n
			}
			printf(a.out, "Cleared %d entries\n", total)
			return nil
		},
	})
	return cmd
}
