package decision

import (
	"context"
	"fmt"
	"strings"

	"github.com/steveyegge/dictum/internal/idgen"
	"github.com/steveyegge/dictum/internal/types"
)

// AmendParams describes an amendment. Nil fields keep the old value.
type AmendParams struct {
	ID    string
	Title *string
	Body  *string
}

// AmendResult contains the outcome of an amendment.
type AmendResult struct {
	Old  *types.Decision // the retired decision, after its status change
	New  *types.Decision
	Link *types.Link // new supersedes old
}

// Amend replaces a decision with a new one instead of editing it.
//
// The new decision:
//   - copies level, kind, weight, rebuttal, scope, author and labels
//   - takes the new title and body when given
//   - starts active, with a fresh id and timestamps
//   - supersedes the old one via a link
//
// The old decision becomes superseded with superseded_by set to the new id.
func (s *Service) Amend(ctx context.Context, p AmendParams) (*AmendResult, error) {
	old, err := s.store.GetDecision(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	title := old.Title
	if p.Title != nil && strings.TrimSpace(*p.Title) != "" {
		title = strings.TrimSpace(*p.Title)
	}
	body := old.Body
	if p.Body != nil {
		body = types.StringPtr(*p.Body)
	}

	now := s.timestamp()
	next := &types.Decision{
		ID:        idgen.Generate(s.prefix, title, now),
		Title:     title,
		Body:      body,
		Level:     old.Level,
		Status:    types.StatusActive,
		Author:    old.Author,
		CreatedAt: now,
		UpdatedAt: now,
		Labels:    old.Labels,
		Kind:      old.Kind,
		Weight:    old.Weight,
		Rebuttal:  old.Rebuttal,
		Scope:     old.Scope,
	}
	if err := s.insertWithLabels(ctx, next); err != nil {
		return nil, fmt.Errorf("creating amendment: %w", err)
	}

	link := &types.Link{SourceID: next.ID, TargetID: old.ID, Kind: types.LinkSupersedes, CreatedAt: now}
	if err := s.store.InsertLink(ctx, link); err != nil {
		return nil, fmt.Errorf("linking amendment: %w", err)
	}
	if err := s.store.UpdateStatus(ctx, old.ID, types.StatusSuperseded, &next.ID); err != nil {
		return nil, fmt.Errorf("retiring %s: %w", old.ID, err)
	}

	retired, err := s.store.GetDecision(ctx, old.ID)
	if err != nil {
		return nil, err
	}
	return &AmendResult{Old: retired, New: next, Link: link}, nil
}
