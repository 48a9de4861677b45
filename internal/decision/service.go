// Package decision composes the repositories into the operations users run:
// adding, amending, deprecating and linking decisions. Cross-entity side
// effects (a supersedes link retiring its target) live here rather than in
// storage.
package decision

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/steveyegge/dictum/internal/idgen"
	"github.com/steveyegge/dictum/internal/storage"
	"github.com/steveyegge/dictum/internal/types"
)

// DefaultPrefix is used when no prefix is configured.
const DefaultPrefix = "d"

// Service runs decision workflows against a store.
type Service struct {
	store  storage.Storage
	prefix string
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service that mints ids with prefix.
func NewService(store storage.Storage, prefix string, opts ...Option) *Service {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	s := &Service{store: store, prefix: prefix, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store for read-only queries.
func (s *Service) Store() storage.Storage {
	return s.store
}

func (s *Service) timestamp() string {
	return types.FormatTime(s.now())
}

// AddParams describes a new decision. Zero values take the defaults:
// level tactical, kind choice, weight should, status active.
type AddParams struct {
	Title    string
	Body     string
	Level    types.Level
	Kind     types.Kind
	Weight   types.Weight
	Rebuttal string
	Scope    string
	Author   string
	Parent   string // id this decision refines
	Labels   []string
	Draft    bool
}

// Add creates a decision, attaches its labels and, when Parent is set, a
// refines link to the parent. The parent is checked before anything is written.
func (s *Service) Add(ctx context.Context, p AddParams) (*types.Decision, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, types.ErrTitleRequired
	}
	if p.Parent != "" {
		if _, err := s.store.GetDecision(ctx, p.Parent); err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
	}

	now := s.timestamp()
	d := &types.Decision{
		ID:        idgen.Generate(s.prefix, title, now),
		Title:     title,
		Body:      types.StringPtr(p.Body),
		Level:     p.Level,
		Status:    types.StatusActive,
		Author:    p.Author,
		CreatedAt: now,
		UpdatedAt: now,
		Labels:    normalizeLabels(p.Labels),
		Kind:      p.Kind,
		Weight:    p.Weight,
		Rebuttal:  types.StringPtr(p.Rebuttal),
		Scope:     types.StringPtr(p.Scope),
	}
	if d.Level == "" {
		d.Level = types.LevelTactical
	}
	if d.Author == "" {
		d.Author = "unknown"
	}
	if p.Draft {
		d.Status = types.StatusDraft
	}
	d.SetDefaults()

	if err := s.insertWithLabels(ctx, d); err != nil {
		return nil, err
	}

	if p.Parent != "" {
		link := &types.Link{SourceID: d.ID, TargetID: p.Parent, Kind: types.LinkRefines, CreatedAt: now}
		if err := s.store.InsertLink(ctx, link); err != nil {
			return d, fmt.Errorf("link to parent: %w", err)
		}
	}
	return d, nil
}

func (s *Service) insertWithLabels(ctx context.Context, d *types.Decision) error {
	if err := s.store.InsertDecision(ctx, d); err != nil {
		return err
	}
	for _, label := range d.Labels {
		if err := s.store.AddLabel(ctx, d.ID, label); err != nil {
			return err
		}
	}
	return nil
}

// Deprecate retires a decision in place. No decision or link is created.
func (s *Service) Deprecate(ctx context.Context, id string) (*types.Decision, error) {
	if _, err := s.store.GetDecision(ctx, id); err != nil {
		return nil, err
	}
	if err := s.store.UpdateStatus(ctx, id, types.StatusDeprecated, nil); err != nil {
		return nil, err
	}
	return s.store.GetDecision(ctx, id)
}

// Link verifies both endpoints and inserts the link. A supersedes link also
// marks the target superseded by the source.
func (s *Service) Link(ctx context.Context, sourceID string, kind types.LinkKind, targetID, reason string) (*types.Link, error) {
	if !kind.IsValid() {
		if _, err := types.ParseLinkKind(string(kind)); err != nil {
			return nil, err
		}
	}
	for _, id := range []string{sourceID, targetID} {
		if _, err := s.store.GetDecision(ctx, id); err != nil {
			return nil, err
		}
	}

	link := &types.Link{
		SourceID:  sourceID,
		TargetID:  targetID,
		Kind:      kind,
		CreatedAt: s.timestamp(),
		Reason:    types.StringPtr(reason),
	}
	if err := s.store.InsertLink(ctx, link); err != nil {
		return nil, err
	}

	if kind == types.LinkSupersedes {
		if err := s.store.UpdateStatus(ctx, targetID, types.StatusSuperseded, &sourceID); err != nil {
			return link, err
		}
	}
	return link, nil
}

// Unlink removes a link. Status changes made when it was created stay.
func (s *Service) Unlink(ctx context.Context, sourceID string, kind types.LinkKind, targetID string) error {
	return s.store.DeleteLink(ctx, sourceID, kind, targetID)
}

// Show returns a decision with its incident links.
func (s *Service) Show(ctx context.Context, id string) (*types.Decision, []*types.Link, error) {
	d, err := s.store.GetDecision(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	links, err := s.store.GetIncidentLinks(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return d, links, nil
}

// AddLabels attaches labels to an existing decision and returns it.
func (s *Service) AddLabels(ctx context.Context, id string, labels []string) (*types.Decision, error) {
	if _, err := s.store.GetDecision(ctx, id); err != nil {
		return nil, err
	}
	for _, label := range normalizeLabels(labels) {
		if err := s.store.AddLabel(ctx, id, label); err != nil {
			return nil, err
		}
	}
	return s.store.GetDecision(ctx, id)
}

// RemoveLabels detaches labels from an existing decision and returns it.
func (s *Service) RemoveLabels(ctx context.Context, id string, labels []string) (*types.Decision, error) {
	if _, err := s.store.GetDecision(ctx, id); err != nil {
		return nil, err
	}
	for _, label := range normalizeLabels(labels) {
		if err := s.store.RemoveLabel(ctx, id, label); err != nil {
			return nil, err
		}
	}
	return s.store.GetDecision(ctx, id)
}

// normalizeLabels trims, drops empties and duplicates, and sorts, which is the
// order labels are read back in.
func normalizeLabels(labels []string) []string {
	var out []string
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l != "" && !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	slices.Sort(out)
	return out
}
