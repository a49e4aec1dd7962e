package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediar/internal/metadata"
	"github.com/vmunix/mediar/pkg/release"
)

const defaultMinPopularity = 1.0

type searchOptions struct {
	source        string
	language      string
	minPopularity float64
	kind          string
	limit         int
	json          bool
}

func newSearchCmd(a *app) *cobra.Command {
	var opts searchOptions
	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search for TV series and movies",
		Long: `Search TMDB (or TVDB, series only) and print IDs for use with --tv-id,
--tvdb-id and --movie-id.

Examples:
  mediar search breaking bad
  mediar search "the matrix" --kind movie --language en
  mediar search "breaking bad" --source tvdb`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// TVDB reports no popularity.
			if opts.source == sourceTVDB && !cmd.Flags().Changed("min-popularity") {
				opts.minPopularity = 0
			}
			return a.runSearch(cmd.Context(), strings.Join(args, " "), opts)
		},
	}
	cmd.Flags().StringVar(&opts.source, "source", sourceTMDB, "Metadata source (tmdb, tvdb)")
	cmd.Flags().StringVar(&opts.language, "language", "", "Only keep results in this original language (ISO 639-1); unknown languages are kept")
	cmd.Flags().Float64Var(&opts.minPopularity, "min-popularity", defaultMinPopularity,
		"Drop results below this popularity unless the name matches exactly (not applied to tvdb unless set)")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "Only show this kind (tv, movie)")
	cmd.Flags().IntVar(&opts.limit, "limit", 10, "Maximum results to show (0 for all)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output as JSON")
	return cmd
}

func (a *app) runSearch(ctx context.Context, query string, opts searchOptions) error {
	var kind metadata.Kind
	switch strings.ToLower(opts.kind) {
	case "":
	case string(metadata.KindTV):
		kind = metadata.KindTV
	case string(metadata.KindMovie):
		kind = metadata.KindMovie
	default:
		return fmt.Errorf("invalid --kind %q (want tv or movie)", opts.kind)
	}

	query = release.SearchQuery(query)
	if query == "" {
		return fmt.Errorf("empty search query")
	}

	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	provider, err := a.newProvider(opts.source, a.cfg, db, a.log)
	if err != nil {
		return err
	}
	found, err := provider.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}

	results := make([]metadata.SearchResult, 0, len(found))
	for _, r := range found {
		if kind == "" || r.Kind == kind {
			results = append(results, r)
		}
	}
	results = metadata.Rank(query, results, metadata.SearchOptions{
		Language:      opts.language,
		MinPopularity: opts.minPopularity,
	})
	if opts.limit > 0 && len(results) > opts.limit {
		results = results[:opts.limit]
	}

	if opts.json {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		printf(a.out, "No results for %q\n", query)
		return nil
	}

	rows := make([][]string, 0, len(results))
	names := make([]string, 0, len(results))
	for _, r := range results {
		year := ""
		if r.Year > 0 {
			year = strconv.Itoa(r.Year)
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			string(r.Kind),
			r.Name,
			year,
			r.Language,
			strconv.FormatFloat(r.Popularity, 'f', 1, 64),
		})
		names = append(names, r.Name)
	}
	printf(a.out, "%s\n", renderTable(
		[]string{"ID", "Kind", "Name", "Year", "Lang", "Popularity"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight},
	))

	if best := release.BestTitle(query, names); best.Index >= 0 {
		r := results[best.Index]
		printf(a.out, "\nBest match: %s (%s confidence)\n", r.Name, best.Confidence)
		printf(a.out, "  mediar link <source> --%s %d\n", idFlag(opts.source, r.Kind), r.ID)
	}
	return nil
}

// idFlag names the organize flag that selects a result.
func idFlag(source string, k metadata.Kind) string {
	switch {
	case source == sourceTVDB:
		return "tvdb-id"
	case k == metadata.KindMovie:
		return "movie-id"
	default:
		return "tv-id"
	}
}
