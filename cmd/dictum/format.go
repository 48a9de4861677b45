package main

import (
	"fmt"
	"strings"

	"github.com/steveyegge/dictum/internal/decision"
	"github.com/steveyegge/dictum/internal/types"
	"github.com/steveyegge/dictum/internal/ui"
)

// noDecisions is printed for an empty list.
const noDecisions = "No decisions found.\n"

// Column widths of the list view.
const (
	levelWidth  = 12
	statusWidth = 10
	kindWidth   = 10
)

// formatDecisionLine renders "id | level | status | kind | title [labels]".
func formatDecisionLine(d *types.Decision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s | %s | %-*s | %s",
		ui.RenderID(d.ID),
		ui.RenderLevel(d.Level, levelWidth),
		ui.RenderStatus(d.Status, statusWidth),
		kindWidth, d.Kind,
		d.Title)
	if len(d.Labels) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(d.Labels, ", "))
	}
	return b.String()
}

func formatDecisionList(decisions []*types.Decision) string {
	if len(decisions) == 0 {
		return noDecisions
	}
	var b strings.Builder
	for _, d := range decisions {
		b.WriteString(formatDecisionLine(d))
		b.WriteByte('\n')
	}
	return b.String()
}

// formatDecision renders the detail view: fields, body, then links, with
// outgoing links as "kind -> target" and incoming as "<- kind source".
func formatDecision(d *types.Decision, links []*types.Link) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", ui.RenderID(d.ID), d.Title)
	fmt.Fprintf(&b, "  Level: %s  Status: %s  Kind: %s  Weight: %s\n",
		d.Level, ui.StatusStyle(d.Status).Render(string(d.Status)), d.Kind, d.Weight)
	if d.Scope != nil {
		fmt.Fprintf(&b, "  Scope: %s\n", *d.Scope)
	}
	if d.Rebuttal != nil {
		fmt.Fprintf(&b, "  Unless: %s\n", *d.Rebuttal)
	}
	fmt.Fprintf(&b, "  Author: %s\n", d.Author)
	fmt.Fprintf(&b, "  Created: %s\n", d.CreatedAt)
	if d.UpdatedAt != d.CreatedAt {
		fmt.Fprintf(&b, "  Updated: %s\n", d.UpdatedAt)
	}
	if d.SupersededBy != nil {
		fmt.Fprintf(&b, "  Superseded by: %s\n", *d.SupersededBy)
	}
	if len(d.Labels) > 0 {
		fmt.Fprintf(&b, "  Labels: %s\n", strings.Join(d.Labels, ", "))
	}
	if d.Body != nil {
		fmt.Fprintf(&b, "\n  %s\n", *d.Body)
	}

	if len(links) > 0 {
		b.WriteString("\n  Links:\n")
		for _, l := range links {
			if l.SourceID == d.ID {
				fmt.Fprintf(&b, "    %s -> %s", l.Kind, l.TargetID)
			} else {
				fmt.Fprintf(&b, "    <- %s %s", l.Kind, l.SourceID)
			}
			if l.Reason != nil {
				fmt.Fprintf(&b, " (%s)", *l.Reason)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// noActiveDecisions is the context text for an empty snapshot.
const noActiveDecisions = "No active decisions.\n"

// formatContextMarkdown renders the snapshot as markdown grouped by level.
func formatContextMarkdown(snap *decision.Snapshot) string {
	if snap.IsEmpty() {
		return noActiveDecisions
	}

	var b strings.Builder
	b.WriteString("# Active Decisions\n\n")
	for _, g := range snap.Groups {
		fmt.Fprintf(&b, "## %s\n\n", capitalize(string(g.Level)))
		for _, d := range g.Decisions {
			fmt.Fprintf(&b, "- [%s] (%s/%s) %s", d.ID, d.Kind, d.Weight, d.Title)
			if d.Scope != nil {
				fmt.Fprintf(&b, " [scope: %s]", *d.Scope)
			}
			if parent, ok := snap.ParentOf[d.ID]; ok {
				fmt.Fprintf(&b, " (refines %s)", parent)
			}
			b.WriteByte('\n')
			if d.Body != nil {
				fmt.Fprintf(&b, "  %s\n", *d.Body)
			}
			if d.Rebuttal != nil {
				fmt.Fprintf(&b, "  UNLESS: %s\n", *d.Rebuttal)
			}
			if len(d.Labels) > 0 {
				fmt.Fprintf(&b, "  Labels: %s\n", strings.Join(d.Labels, ", "))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// contextLink is a link as shown to agents: no timestamp.
type contextLink struct {
	Kind   types.LinkKind `json:"kind"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Reason *string        `json:"reason,omitempty"`
}

// contextEntry drops the fields that are noise for an agent: timestamps,
// and status since every entry is active.
type contextEntry struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Body         *string       `json:"body,omitempty"`
	Level        types.Level   `json:"level"`
	SupersededBy *string       `json:"superseded_by,omitempty"`
	Author       string        `json:"author"`
	Labels       []string      `json:"labels,omitempty"`
	Kind         types.Kind    `json:"kind"`
	Weight       types.Weight  `json:"weight"`
	Rebuttal     *string       `json:"rebuttal,omitempty"`
	Scope        *string       `json:"scope,omitempty"`
	Links        []contextLink `json:"links,omitempty"`
}

func contextEntries(snap *decision.Snapshot) []contextEntry {
	entries := []contextEntry{}
	for _, d := range snap.Decisions() {
		e := contextEntry{
			ID:           d.ID,
			Title:        d.Title,
			Body:         d.Body,
			Level:        d.Level,
			SupersededBy: d.SupersededBy,
			Author:       d.Author,
			Labels:       d.Labels,
			Kind:         d.Kind,
			Weight:       d.Weight,
			Rebuttal:     d.Rebuttal,
			Scope:        d.Scope,
		}
		for _, l := range snap.Links[d.ID] {
			e.Links = append(e.Links, contextLink{Kind: l.Kind, Source: l.SourceID, Target: l.TargetID, Reason: l.Reason})
		}
		entries = append(entries, e)
	}
	return entries
}
