package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pagetab/pagetab"
	"github.com/pagetab/pagetab/etree"
	"github.com/pagetab/pagetab/excelize"
	"github.com/pagetab/pagetab/fetch"
	"github.com/pagetab/pagetab/flatten"
	"github.com/pagetab/pagetab/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Fetcher pagetab.Fetcher
	Parser  pagetab.Parser
	Writer  pagetab.TableWriter
	Limiter *fetch.DomainLimiter
}

// runFlatten fetches every URL, flattens each document, and writes the
// requested sheets. Per-URL failures are reported but do not abort the rest
// of the batch.
func runFlatten(cli *CLI, deps *Dependencies) error {
	tags := parseTags(cli.Tags)
	sheets := buildSheets(cli, tags)

	batch := fetch.NewBatch(deps.Fetcher,
		fetch.WithConcurrency(cli.Concurrency),
		fetch.WithDelays(fetch.Delays(cli.Delay, cli.Retries)),
		fetch.WithLimiter(deps.Limiter),
		fetch.WithLogger(func(format string, args ...any) {
			fmt.Fprintf(deps.Stderr, format+"\n", args...)
		}),
	)

	results, err := batch.FetchAll(deps.Ctx, cli.URLs)
	if err != nil {
		return err
	}

	failures := 0
	for i, res := range results {
		if res.Err != nil {
			failures++
			fmt.Fprintf(deps.Stderr, "fetch %s: %s\n", res.URL, pagetab.ErrorMessage(res.Err))
			continue
		}

		dest := outputName(cli.Output, cli.Format, i, len(results))
		if err := flattenOne(deps, res, sheets, dest); err != nil {
			failures++
			fmt.Fprintf(deps.Stderr, "flatten %s: %v\n", res.URL, err)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s -> %s\n", res.URL, dest)
	}

	if failures == len(results) {
		return fmt.Errorf("all %d pages failed", len(results))
	}
	return nil
}

func flattenOne(deps *Dependencies, res fetch.Result, sheets []pagetab.Sheet, dest string) error {
	doc, err := deps.Parser.Parse(res.Res.HTML)
	if err != nil {
		return err
	}

	records, err := flatten.Flatten(doc, res.Res.FinalURL)
	if err != nil {
		return err
	}

	snap := pagetab.NewSnapshot(res.URL, res.Res.FinalURL, fetch.ContentHash(res.Res.HTML), len(records))
	return deps.Writer.WriteTable(deps.Ctx, snap, records, sheets, dest)
}

// newWriter selects the sink for a format.
func newWriter(format string) (pagetab.TableWriter, error) {
	switch format {
	case "xlsx":
		return excelize.NewWriter(), nil
	case "sqlite":
		return sqlite.NewWriter(), nil
	case "xml":
		return etree.NewWriter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// parseTags splits a comma-separated tag list, dropping empty entries.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// buildSheets assembles the sheet list: a filtered sheet when any predicate
// is set, optional image and link sheets, and always the full record set.
func buildSheets(cli *CLI, tags []string) []pagetab.Sheet {
	var sheets []pagetab.Sheet

	filter := pagetab.FilterOptions{
		Tags:     tags,
		MinLevel: cli.MinLevel,
		MaxLevel: cli.MaxLevel,
		HasText:  cli.HasText,
		HasClass: cli.HasClass,
		HasID:    cli.HasID,
	}
	if len(tags) > 0 || cli.MinLevel != nil || cli.MaxLevel != nil || cli.HasText || cli.HasClass || cli.HasID {
		sheets = append(sheets, pagetab.Sheet{Name: "Filtered Data", Filter: &filter})
	}
	if cli.Images {
		sheets = append(sheets, pagetab.Sheet{Name: "Images", Filter: &pagetab.FilterOptions{Tags: []string{"img"}}})
	}
	if cli.Links {
		sheets = append(sheets, pagetab.Sheet{Name: "Links", Filter: &pagetab.FilterOptions{Tags: []string{"a"}}})
	}

	return append(sheets, pagetab.Sheet{Name: "All Data"})
}

// outputName returns the destination file for the i-th of n pages. A single
// page uses the name as-is; multiple pages get a 1-based suffix before the
// extension so they don't overwrite each other.
func outputName(output, format string, i, n int) string {
	if output == "" {
		output = "webpage_data." + extensionFor(format)
	}
	if n <= 1 {
		return output
	}

	ext := ""
	base := output
	if idx := strings.LastIndex(output, "."); idx > 0 {
		base, ext = output[:idx], output[idx:]
	}
	return fmt.Sprintf("%s_%d%s", base, i+1, ext)
}

func extensionFor(format string) string {
	switch format {
	case "sqlite":
		return "db"
	case "xml":
		return "xml"
	default:
		return "xlsx"
	}
}
