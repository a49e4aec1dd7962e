package main

import (
	"encoding/json"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediar/pkg/release"
)

// parsedFile is the JSON form of one parse result.
type parsedFile struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Year    int    `json:"year,omitempty"`
	Season  *int   `json:"season,omitempty"`
	Episode *int   `json:"episode,omitempty"`
	Rule    string `json:"rule,omitempty"`
}

func newParseCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Show what mediar reads from filenames",
		Long: `Tokenize filenames the way organize does and print the title, year,
season and episode found in each. Nothing is looked up or changed.`,
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(_ *cobra.Command, args []string) error {
			files := make([]parsedFile, 0, len(args))
			for _, path := range args {
				t := release.ParsePath(path)
				files = append(files, parsedFile{
					Path: path, Title: t.Title, Year: t.Year,
					Season: t.Season, Episode: t.Episode, Rule: t.Rule,
				})
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(files)
			}

			rows := make([][]string, 0, len(files))
			for _, f := range files {
				rows = append(rows, []string{
					filepath.Base(f.Path), f.Title, formatYear(f.Year), optInt(f.Season), optInt(f.Episode), f.Rule,
				})
			}
			printf(a.out, "%s\n", renderTable(
				[]string{"File", "Title", "Year", "Season", "Episode", "Rule"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func formatYear(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func optInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
