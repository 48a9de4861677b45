package decision

import (
	"context"

	"github.com/steveyegge/dictum/internal/types"
)

// LevelGroup is the active decisions of one level, newest first.
type LevelGroup struct {
	Level     types.Level
	Decisions []*types.Decision
}

// Snapshot is the set of decisions currently in force, shaped for handing
// to an agent or a reviewer.
type Snapshot struct {
	Groups   []LevelGroup             // broadest level first; empty levels omitted
	ParentOf map[string]string        // child id -> refined parent id
	Links    map[string][]*types.Link // incident links per active decision
}

// IsEmpty reports whether there are no active decisions.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Groups) == 0
}

// Decisions returns every decision in group order.
func (s *Snapshot) Decisions() []*types.Decision {
	var out []*types.Decision
	for _, g := range s.Groups {
		out = append(out, g.Decisions...)
	}
	return out
}

// Context collects active decisions grouped by level, their parents in the
// refines hierarchy and their incident links. When a decision refines more
// than one parent, the most recently linked parent is reported.
func (s *Service) Context(ctx context.Context) (*Snapshot, error) {
	active := types.StatusActive
	decisions, err := s.store.ListDecisions(ctx, types.ListFilter{Status: &active})
	if err != nil {
		return nil, err
	}

	byLevel := make(map[types.Level][]*types.Decision)
	for _, d := range decisions {
		byLevel[d.Level] = append(byLevel[d.Level], d)
	}

	snap := &Snapshot{
		ParentOf: make(map[string]string),
		Links:    make(map[string][]*types.Link, len(decisions)),
	}
	for _, level := range types.AllLevels() {
		if ds := byLevel[level]; len(ds) > 0 {
			snap.Groups = append(snap.Groups, LevelGroup{Level: level, Decisions: ds})
		}
	}

	edges, err := s.store.GetRefinesEdges(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		snap.ParentOf[e.Source] = e.Target
	}

	for _, d := range decisions {
		links, err := s.store.GetIncidentLinks(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		snap.Links[d.ID] = links
	}
	return snap, nil
}
