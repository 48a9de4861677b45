// Package jsonl encodes decisions and their incident links as single-line
// JSON records for export and import.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/steveyegge/dictum/internal/types"
)

// ErrSerialization marks a malformed interchange record.
var ErrSerialization = errors.New("serialization error")

// maxLineSize bounds a single record; long bodies are allowed.
const maxLineSize = 64 * 1024 * 1024

// LinkSummary is the form a link takes inside a record.
type LinkSummary struct {
	Kind      types.LinkKind `json:"kind"`
	Source    string         `json:"source"`
	Target    string         `json:"target"`
	Reason    *string        `json:"reason,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
}

// UnmarshalJSON also accepts source_id/target_id, the field names of the
// full link object, so records written by older exporters still decode.
func (l *LinkSummary) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind      types.LinkKind `json:"kind"`
		Source    string         `json:"source"`
		Target    string         `json:"target"`
		SourceID  string         `json:"source_id"`
		TargetID  string         `json:"target_id"`
		Reason    *string        `json:"reason"`
		CreatedAt string         `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = LinkSummary{Kind: raw.Kind, Source: raw.Source, Target: raw.Target, Reason: raw.Reason, CreatedAt: raw.CreatedAt}
	if l.Source == "" {
		l.Source = raw.SourceID
	}
	if l.Target == "" {
		l.Target = raw.TargetID
	}
	if l.Source == "" || l.Target == "" || l.Kind == "" {
		return fmt.Errorf("link is missing kind, source or target")
	}
	return nil
}

// Link converts the summary back to a link.
func (l LinkSummary) Link() *types.Link {
	return &types.Link{SourceID: l.Source, TargetID: l.Target, Kind: l.Kind, CreatedAt: l.CreatedAt, Reason: l.Reason}
}

func summarize(link *types.Link) LinkSummary {
	return LinkSummary{Kind: link.Kind, Source: link.SourceID, Target: link.TargetID, Reason: link.Reason, CreatedAt: link.CreatedAt}
}

// record is the on-the-wire shape: the decision's fields followed by links.
type record struct {
	*types.Decision
	Links []LinkSummary `json:"links,omitempty"`
}

// requiredFields must be present in every record; everything else defaults.
var requiredFields = []string{"id", "title", "level", "author", "created_at", "updated_at"}

// Encode renders d and its incident links as one line of JSON with no
// trailing newline. Null optionals and empty label or link lists are omitted.
func Encode(d *types.Decision, links []*types.Link) ([]byte, error) {
	rec := record{Decision: d}
	for _, l := range links {
		rec.Links = append(rec.Links, summarize(l))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("%w: encode %s: %w", ErrSerialization, d.ID, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses one record. The decision part is strict: required fields must
// be present and every enumeration must be valid. The links part is best
// effort: if it is malformed the decision is still returned, with nil links.
func Decode(line []byte) (*types.Decision, []*types.Link, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	for _, name := range requiredFields {
		if raw, ok := fields[name]; !ok || string(raw) == "null" {
			return nil, nil, fmt.Errorf("%w: missing required field %q", ErrSerialization, name)
		}
	}

	var d types.Decision
	if err := json.Unmarshal(line, &d); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	d.SetDefaults()
	if err := d.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	d.CreatedAt = canonicalTime(d.CreatedAt)
	d.UpdatedAt = canonicalTime(d.UpdatedAt)

	links := decodeLinks(fields["links"])
	for _, l := range links {
		l.CreatedAt = canonicalTime(l.CreatedAt)
	}
	return &d, links, nil
}

// canonicalTime re-renders an RFC3339 timestamp in types.TimeFormat so that
// stored text orders like the instant it names. Anything else is kept as is.
func canonicalTime(s string) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	return types.FormatTime(t)
}

func decodeLinks(raw json.RawMessage) []*types.Link {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var summaries []LinkSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return nil
	}
	if len(summaries) == 0 {
		return nil
	}
	links := make([]*types.Link, len(summaries))
	for i, s := range summaries {
		links[i] = s.Link()
	}
	return links
}

// Writer writes one record per line.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer that buffers into w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write encodes and writes a record followed by a newline.
func (w *Writer) Write(d *types.Decision, links []*types.Link) error {
	line, err := Encode(d, links)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(line); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush writes any buffered data.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// NewScanner returns a line scanner sized for large records.
func NewScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}
