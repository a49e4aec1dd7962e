package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/vmunix/mediar/internal/importer"
	"github.com/vmunix/mediar/internal/metadata"
	"github.com/vmunix/mediar/pkg/release"
)

// maxChoices caps the numbered list offered by selectRecord.
const maxChoices = 10

var (
	errSelectNeedsTerminal = errors.New("no --tv-id, --tvdb-id or --movie-id given and stdin is not a terminal to pick one")
	errNoSelection         = errors.New("nothing selected")
)

// detection is what the first media file under source suggests searching for.
type detection struct {
	kind  metadata.Kind
	title string
}

// detect guesses the kind and title from the first media file under source.
// An episode token means TV; anything else is taken for a movie.
func detect(source string) (detection, error) {
	files, err := importer.Scan(source)
	if err != nil {
		return detection{}, err
	}
	t := files[0].Tokens
	d := detection{kind: metadata.KindMovie, title: release.SearchQuery(t.Title)}
	if t.Episode != nil {
		d.kind = metadata.KindTV
	}
	return d, nil
}

// selectRecord asks for a kind and title defaulting to what source suggests,
// searches, and lets the user pick one result. The pick is stored in opts.
func (a *app) selectRecord(ctx context.Context, p metadata.Provider, source string, opts *organizeOptions) error {
	d, err := detect(source)
	if err != nil {
		return err
	}

	defKind := "1"
	if d.kind == metadata.KindMovie {
		defKind = "2"
	}
	printf(a.out, "Search for:\n  1) TV series\n  2) Movie\n")
	kind := metadata.KindTV
	switch choice := a.ask("Choice", defKind); choice {
	case "1":
	case "2":
		kind = metadata.KindMovie
	default:
		return fmt.Errorf("%w: invalid choice %q", errNoSelection, choice)
	}

	title := release.SearchQuery(a.ask("Title", d.title))
	if title == "" {
		return fmt.Errorf("%w: empty title", errNoSelection)
	}

	found, err := p.Search(ctx, title)
	if err != nil {
		return fmt.Errorf("search %q: %w", title, err)
	}
	var results []metadata.SearchResult
	for _, r := range found {
		if r.Kind == kind {
			results = append(results, r)
		}
	}
	results = metadata.Rank(title, results, metadata.SearchOptions{})
	if len(results) == 0 {
		return fmt.Errorf("%w: no %s results for %q", errNoSelection, kind, title)
	}
	if len(results) > maxChoices {
		results = results[:maxChoices]
	}

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		year := ""
		if r.Year > 0 {
			year = strconv.Itoa(r.Year)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1), r.Name, year, strconv.FormatInt(r.ID, 10),
			strconv.FormatFloat(r.Popularity, 'f', 1, 64),
		})
	}
	printf(a.out, "\n%s\n", renderTable(
		[]string{"#", "Name", "Year", "ID", "Popularity"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
	))

	answer := a.ask(fmt.Sprintf("Select 1-%d", len(results)), "")
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(results) {
		return fmt.Errorf("%w: invalid selection %q", errNoSelection, answer)
	}
	picked := results[n-1]
	printf(a.out, "Selected: %s (ID: %d)\n\n", picked.Name, picked.ID)

	if kind == metadata.KindMovie {
		opts.movieID = picked.ID
	} else {
		opts.tvID = picked.ID
	}
	return nil
}

func (o organizeOptions) hasID() bool {
	return o.tvID != 0 || o.tvdbID != 0 || o.movieID != 0
}

// ask prints question with its default and returns the answer, or def when
// the answer is empty.
func (a *app) ask(question, def string) string {
	if def != "" {
		printf(a.out, "%s [%s]: ", question, def)
	} else {
		printf(a.out, "%s: ", question)
	}
	if answer := a.readLine(); answer != "" {
		return answer
	}
	return def
}
