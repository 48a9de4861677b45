// Package importer loads interchange records into storage and writes them back out.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/steveyegge/dictum/internal/debug"
	"github.com/steveyegge/dictum/internal/jsonl"
	"github.com/steveyegge/dictum/internal/storage"
	"github.com/steveyegge/dictum/internal/types"
)

// Options contains import configuration
type Options struct {
	DryRun bool // Report what would be imported without writing
}

// Result contains statistics about the import operation
type Result struct {
	Created      int               // New decisions inserted (or that would be, on a dry run)
	Skipped      int               // Decisions whose id already existed
	Links        int               // New links inserted
	LinksSkipped int               // Links already present, self-links, or with a missing endpoint
	Planned      []*types.Decision // Decisions a dry run would insert, in input order
	SkippedIDs   []string          // Ids of skipped decisions
}

// pendingLink remembers which line a link came from for error messages.
type pendingLink struct {
	line int
	link *types.Link
}

// Import reads one record per line from r.
//
// Decisions (and their labels) are inserted first; links from every line are
// inserted afterwards so a link may point at a decision that appears later in
// the input. A decision whose id already exists is skipped, as is a link that
// already exists. Link side effects are not replayed: statuses come from the
// records themselves. Blank lines are ignored. A malformed decision aborts the
// import with an error naming the line.
func Import(ctx context.Context, store storage.Storage, r io.Reader, opts Options) (*Result, error) {
	result := &Result{}
	var links []pendingLink
	seen := make(map[string]bool)

	sc := jsonl.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if isBlank(line) {
			continue
		}

		d, recLinks, err := jsonl.Decode(line)
		if err != nil {
			return result, fmt.Errorf("line %d: %w", lineNo, err)
		}

		exists := seen[d.ID]
		if !exists {
			exists, err = decisionExists(ctx, store, d.ID)
			if err != nil {
				return result, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
		seen[d.ID] = true
		if exists {
			debug.Logf("import: skipping existing decision %s", d.ID)
			result.Skipped++
			result.SkippedIDs = append(result.SkippedIDs, d.ID)
			continue
		}

		if opts.DryRun {
			result.Created++
			result.Planned = append(result.Planned, d)
			continue
		}

		if err := insertDecision(ctx, store, d); err != nil {
			if errors.Is(err, storage.ErrDuplicateID) {
				// Written concurrently by another invocation.
				result.Skipped++
				result.SkippedIDs = append(result.SkippedIDs, d.ID)
				continue
			}
			return result, fmt.Errorf("line %d: %w", lineNo, err)
		}
		result.Created++

		for _, l := range recLinks {
			links = append(links, pendingLink{line: lineNo, link: l})
		}
	}
	if err := sc.Err(); err != nil {
		return result, fmt.Errorf("read input: %w", err)
	}

	if opts.DryRun {
		return result, nil
	}

	for _, pl := range links {
		inserted, err := insertLink(ctx, store, pl.link)
		if err != nil {
			return result, fmt.Errorf("line %d: %w", pl.line, err)
		}
		if inserted {
			result.Links++
		} else {
			result.LinksSkipped++
		}
	}
	return result, nil
}

func insertDecision(ctx context.Context, store storage.Storage, d *types.Decision) error {
	if err := store.InsertDecision(ctx, d); err != nil {
		return err
	}
	for _, label := range d.Labels {
		if err := store.AddLabel(ctx, d.ID, label); err != nil {
			return err
		}
	}
	return nil
}

// insertLink reports false for links that are skipped by design: duplicates
// (each link appears on both of its endpoints' lines), self-links and links to
// decisions that do not exist.
func insertLink(ctx context.Context, store storage.Storage, link *types.Link) (bool, error) {
	for _, id := range []string{link.SourceID, link.TargetID} {
		exists, err := decisionExists(ctx, store, id)
		if err != nil {
			return false, err
		}
		if !exists {
			debug.Logf("import: skipping link %s %s %s: %s not found", link.SourceID, link.Kind, link.TargetID, id)
			return false, nil
		}
	}

	err := store.InsertLink(ctx, link)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrLinkAlreadyExists), errors.Is(err, storage.ErrSelfLink):
		return false, nil
	default:
		return false, err
	}
}

func decisionExists(ctx context.Context, store storage.Storage, id string) (bool, error) {
	_, err := store.GetDecision(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrDecisionNotFound) {
		return false, nil
	}
	return false, err
}

func isBlank(line []byte) bool {
	for _, c := range line {
		if c != ' ' && c != '\t' && c != '\r' {
			return false
		}
	}
	return true
}

// Export writes every decision, newest first, with its incident links.
// It returns the number of decisions written.
func Export(ctx context.Context, store storage.Storage, w io.Writer) (int, error) {
	decisions, err := store.ListDecisions(ctx, types.ListFilter{})
	if err != nil {
		return 0, err
	}

	jw := jsonl.NewWriter(w)
	for _, d := range decisions {
		links, err := store.GetIncidentLinks(ctx, d.ID)
		if err != nil {
			return 0, err
		}
		if err := jw.Write(d, links); err != nil {
			return 0, err
		}
	}
	if err := jw.Flush(); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	return len(decisions), nil
}
