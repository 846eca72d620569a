package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notedex/notedex/internal/output"
	"github.com/notedex/notedex/internal/search"
	"github.com/notedex/notedex/internal/vault"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit  int
	format string // "text", "json"
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed notes",
		Long: `Search notes with free text, path filters and section filters.

Path filters (@name or at:name) match against the file name without
extension. Section filters (>heading or in:heading) restrict free text
to matching sections. Terms may contain * wildcards; quoted phrases
keep their spaces. Matching ignores case and diacritics.

Examples:
  notedex search "grocery list"
  notedex search "@thoughts wine"
  notedex search '>"project ideas" cli'
  notedex search "at:tasks in:urgent" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (0 = configured default)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	out := output.New(cmd.OutOrStdout())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.limit > 0 {
		cfg.Search.MaxResults = opts.limit
	}

	v, err := vault.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = v.Close() }()

	if err := v.Rescan(cmd.Context()); err != nil {
		return fmt.Errorf("rescan failed: %w", err)
	}

	results := v.Search(query)

	switch opts.format {
	case "json":
		return printJSON(cmd, query, results)
	default:
		printText(out, query, results)
		return nil
	}
}

func printText(out *output.Writer, query string, results []search.Result) {
	if len(results) == 0 {
		out.Dim(fmt.Sprintf("no notes match %q", query))
		return
	}
	for _, r := range results {
		sectionTitle := ""
		if r.Section != nil {
			sectionTitle = r.Section.Title
		}
		out.Result(r.Note.Title, r.Note.Path, sectionTitle)
	}
	out.Println()
	out.Dim(fmt.Sprintf("%d notes", len(results)))
}

func printJSON(cmd *cobra.Command, query string, results []search.Result) error {
	type hit struct {
		Path    string `json:"path"`
		Title   string `json:"title"`
		Section string `json:"section,omitempty"`
		Exact   bool   `json:"exact"`
	}
	hits := make([]hit, len(results))
	for i, r := range results {
		hits[i] = hit{Path: r.Note.Path, Title: r.Note.Title, Exact: r.Exact()}
		if r.Section != nil {
			hits[i].Section = r.Section.Title
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"query":   query,
		"count":   len(hits),
		"results": hits,
	})
}
