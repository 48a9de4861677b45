package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/steveyegge/dictum/internal/jsonl"
	"github.com/steveyegge/dictum/internal/types"
	"github.com/steveyegge/dictum/internal/ui"
)

// Output formats
const (
	formatText  = "text"
	formatJSON  = "json"
	formatJSONL = "jsonl"
	formatAuto  = "auto"
)

// outputFormat resolves --json, --format, the configured default_format and
// finally auto detection: text on a terminal, JSON otherwise.
func (a *app) outputFormat(w io.Writer) (string, error) {
	f := a.formatFlag()
	if a.jsonOutput {
		f = formatJSON
	}
	if f == "" && a.ws != nil {
		f = a.ws.Config.DefaultFormat
	}
	switch f {
	case formatText, formatJSON, formatJSONL:
		return f, nil
	case "", formatAuto:
		if isTerminal(w) {
			return formatText, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected one of: text, json, jsonl)", f)
	}
}

// formatFlag is --format as typed, lowercased and trimmed.
func (a *app) formatFlag() string {
	return strings.ToLower(strings.TrimSpace(a.format))
}

// isTerminal reports whether stream is an *os.File attached to a terminal.
func isTerminal(stream interface{}) bool {
	f, ok := stream.(*os.File)
	return ok && ui.IsTerminalFile(f)
}

// outputJSON writes v as pretty-printed JSON.
func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// outputJSONLine writes v as one compact JSON line.
func outputJSONLine(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// writeDecision renders one decision produced by a write command: a short
// confirmation in text, the decision itself otherwise.
func writeDecision(w io.Writer, format string, d *types.Decision, text string) error {
	switch format {
	case formatText:
		_, err := fmt.Fprintln(w, text)
		return err
	case formatJSON:
		return outputJSON(w, d)
	default:
		return outputJSONLine(w, d)
	}
}

// writeDecisionList renders a list result.
func writeDecisionList(w io.Writer, format string, decisions []*types.Decision) error {
	switch format {
	case formatText:
		_, err := io.WriteString(w, formatDecisionList(decisions))
		return err
	case formatJSON:
		if decisions == nil {
			decisions = []*types.Decision{}
		}
		return outputJSON(w, decisions)
	default:
		for _, d := range decisions {
			if err := outputJSONLine(w, d); err != nil {
				return err
			}
		}
		return nil
	}
}

// decisionWithLinks is the JSON shape of show.
type decisionWithLinks struct {
	*types.Decision
	Links []*types.Link `json:"links"`
}

// writeShow renders a decision with its incident links.
func writeShow(w io.Writer, format string, d *types.Decision, links []*types.Link) error {
	switch format {
	case formatText:
		_, err := io.WriteString(w, formatDecision(d, links))
		return err
	case formatJSON:
		if links == nil {
			links = []*types.Link{}
		}
		return outputJSON(w, decisionWithLinks{Decision: d, Links: links})
	default:
		line, err := jsonl.Encode(d, links)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", line)
		return err
	}
}
