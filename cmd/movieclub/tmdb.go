package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/movieclub/internal/movie"
	"github.com/vmunix/movieclub/internal/tmdb"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search TMDB for movies",
	Long: `Search TMDB for movies by title.

Examples:
  movieclub search "The Matrix"
  movieclub search --page 2 alien`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Show popular movies on TMDB",
	Args:  cobra.NoArgs,
	RunE:  runPopular,
}

var urlCmd = &cobra.Command{
	Use:   "url <tmdb-url>",
	Short: "Show the movie a TMDB link points at",
	Long: `Fetch the movie a TMDB movie page links to, and optionally add it to
the movie store.

Examples:
  movieclub url https://www.themoviedb.org/movie/550-fight-club
  movieclub url --add https://www.themoviedb.org/movie/603`,
	Args: cobra.ExactArgs(1),
	RunE: runURL,
}

func init() {
	rootCmd.AddCommand(searchCmd, popularCmd, urlCmd)
	searchCmd.Flags().Int("page", 1, "Result page")
	popularCmd.Flags().Int("page", 1, "Result page")
	urlCmd.Flags().Bool("add", false, "Add the movie to the store")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	page, _ := cmd.Flags().GetInt("page")

	results, err := newTMDBClient(cfg).Search(cmd.Context(), query, page)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), results)
	}
	out := cmd.OutOrStdout()
	if len(results.Results) == 0 {
		fmt.Fprintf(out, "No movies found for %q\n", query)
		return nil
	}
	fmt.Fprintf(out, "Found %d movies for %q (page %d/%d):\n\n", results.TotalResults, query, results.Page, results.TotalPages)
	printResults(out, results.Results)
	return nil
}

func runPopular(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	page, _ := cmd.Flags().GetInt("page")

	results, err := newTMDBClient(cfg).Popular(cmd.Context(), page)
	if err != nil {
		return fmt.Errorf("popular failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), results)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Popular movies (page %d/%d):\n\n", results.Page, results.TotalPages)
	printResults(out, results.Results)
	return nil
}

func printResults(w io.Writer, results []tmdb.Result) {
	for _, r := range results {
		m := r.Movie()
		fmt.Fprintf(w, "  %7d  %s (%s) - %s\n", m.ID, m.Title, m.YearLabel(), m.RatingLabel())
	}
}

func runURL(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !tmdb.IsMovieURL(args[0]) {
		return fmt.Errorf("not a TMDB movie URL: %s", args[0])
	}
	add, _ := cmd.Flags().GetBool("add")

	m, err := newTMDBClient(cfg).MovieByURL(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetch movie: %w", err)
	}
	if add {
		if m, err = newStoreClient(cfg).Create(cmd.Context(), m); err != nil {
			return fmt.Errorf("add movie: %w", err)
		}
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), m)
	}
	out := cmd.OutOrStdout()
	printMovie(out, m)
	if add {
		fmt.Fprintf(out, "\nAdded %s to the movie store\n", m)
	}
	return nil
}

func printMovie(w io.Writer, m *movie.Movie) {
	fmt.Fprintf(w, "%s\n", m)
	fmt.Fprintf(w, "  Rating:   %s (%d votes)\n", m.RatingLabel(), m.VoteCount)
	if genres := m.GenreNames(); len(genres) > 0 {
		fmt.Fprintf(w, "  Genres:   %s\n", strings.Join(genres, ", "))
	}
	if m.Runtime != nil && *m.Runtime > 0 {
		fmt.Fprintf(w, "  Runtime:  %d min\n", *m.Runtime)
	}
	fmt.Fprintf(w, "  TMDB:     %s\n", m.TMDBURL())
	if m.Overview != "" {
		fmt.Fprintf(w, "\n%s\n", m.Overview)
	}
}
