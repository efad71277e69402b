package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bookferry/internal/bookmarkcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Local bookmark cache operations",
	}

	cacheCmd.AddCommand(newCachePopulateCommand(ctx))
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func (c *commandContext) withStore(fn func(*bookmarkcache.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := bookmarkcache.Open(cfg.Cache.Dir)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newCachePopulateCommand(ctx *commandContext) *cobra.Command {
	var includeContent bool

	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Refetch every bookmark into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *bookmarkcache.Store) error {
				count, err := ctx.populateCache(cmd.Context(), store, client, bookmarkcache.PopulateOptions{
					ShowProgress:   stdoutIsTerminal(),
					IncludeContent: includeContent,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cached %d bookmarks in %s\n", count, store.Path())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&includeContent, "include-content", false, "Also cache full bookmark content")
	return cmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached bookmark counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *bookmarkcache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Total", "Archived", "Links", "Texts", "Assets"},
					[][]string{{
						strconv.Itoa(stats.Total),
						strconv.Itoa(stats.Archived),
						strconv.Itoa(stats.Links),
						strconv.Itoa(stats.Texts),
						strconv.Itoa(stats.Assets),
					}},
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached bookmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *bookmarkcache.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
				return nil
			})
		},
	}
}
