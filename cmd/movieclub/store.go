package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/movieclub/internal/cache"
	"github.com/vmunix/movieclub/internal/listing"
	"github.com/vmunix/movieclub/internal/storeclient"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Pick a random movie from the store",
	Args:  cobra.NoArgs,
	RunE:  runRandom,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored movies by title",
	Long: `List stored movies sorted by title, one page at a time, with the
Slack user ids that shared each movie.

Examples:
  movieclub list
  movieclub list --page 2 --size 50`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the movie store service",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(randomCmd, listCmd, statusCmd)
	listCmd.Flags().Int("page", 1, "Page number")
	listCmd.Flags().Int("size", 0, "Movies per page (default: bot.page_size)")
}

func runRandom(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := newStoreClient(cfg).Random(cmd.Context())
	if errors.Is(err, storeclient.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No movies found in the database.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("random movie: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), m)
	}
	printMovie(cmd.OutOrStdout(), m)
	return nil
}

// userIDs shows contributors by user id; the CLI has no Slack token.
type userIDs struct{}

func (userIDs) Resolve(_ context.Context, ids []string) []string {
	return ids
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("size")
	if size <= 0 {
		size = cfg.Bot.PageSize
	}

	client := newStoreClient(cfg)
	pager := listing.NewPager(cache.NewMovieList(client), cache.NewContributors(client, userIDs{}), nil)
	rp, err := pager.RenderPage(cmd.Context(), page, size)
	if err != nil {
		return fmt.Errorf("list movies: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), rp)
	}
	fmt.Fprintln(cmd.OutOrStdout(), rp.Text())
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := newStoreClient(cfg).Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), st)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Store:   %s (%s)\nStatus:  %s\nMovies:  %d\n", cfg.Bot.APIURL, st.Version, st.Status, st.Movies)
	return nil
}
