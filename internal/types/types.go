// Package types defines core data structures for the dictum decision tracker.
package types

import (
	"fmt"
	"time"
)

// TimeFormat is the canonical text form of every stored timestamp.
// Fixed width keeps lexical order equal to chronological order, which the
// storage layer relies on for ORDER BY created_at.
const TimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in UTC using TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// Decision is a recorded statement with classification, lifecycle status and provenance.
type Decision struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Body         *string  `json:"body,omitempty"`
	Level        Level    `json:"level"`
	Status       Status   `json:"status"`
	SupersededBy *string  `json:"superseded_by,omitempty"`
	Author       string   `json:"author"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
	Labels       []string `json:"labels,omitempty"` // sorted on read
	Kind         Kind     `json:"kind"`
	Weight       Weight   `json:"weight"`
	Rebuttal     *string  `json:"rebuttal,omitempty"` // condition under which the decision does not apply
	Scope        *string  `json:"scope,omitempty"`
}

// SetDefaults fills empty classification fields with the values an older
// store or export implies: status active, kind choice, weight should.
func (d *Decision) SetDefaults() {
	if d.Status == "" {
		d.Status = StatusActive
	}
	if d.Kind == "" {
		d.Kind = KindChoice
	}
	if d.Weight == "" {
		d.Weight = WeightShould
	}
}

// Validate checks required fields and every closed enumeration.
func (d *Decision) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("id is required")
	}
	if d.Title == "" {
		return ErrTitleRequired
	}
	if !d.Level.IsValid() {
		return invalid(levelSet, string(d.Level))
	}
	if !d.Status.IsValid() {
		return invalid(statusSet, string(d.Status))
	}
	if !d.Kind.IsValid() {
		return invalid(kindSet, string(d.Kind))
	}
	if !d.Weight.IsValid() {
		return invalid(weightSet, string(d.Weight))
	}
	return nil
}

// IsActive reports whether the decision is currently in force.
func (d *Decision) IsActive() bool {
	return d.Status == StatusActive
}

// Link is a directed, typed, reasoned relationship between two decisions.
type Link struct {
	SourceID  string   `json:"source_id"`
	TargetID  string   `json:"target_id"`
	Kind      LinkKind `json:"kind"`
	CreatedAt string   `json:"created_at"`
	Reason    *string  `json:"reason,omitempty"`
}

// Validate checks the structural invariants that do not need the store.
func (l *Link) Validate() error {
	if l.SourceID == "" || l.TargetID == "" {
		return fmt.Errorf("link endpoints are required")
	}
	if !l.Kind.IsValid() {
		return invalid(linkKindSet, string(l.Kind))
	}
	return nil
}

// Edge is a (source, target) pair of a refines link: source refines target,
// so target is the structural parent.
type Edge struct {
	Source string
	Target string
}

// ListFilter is a conjunction over zero or more decision fields.
// Nil fields do not constrain the result.
type ListFilter struct {
	Level  *Level
	Status *Status
	Kind   *Kind
	Weight *Weight
	Scope  *string
	Label  *string // membership in the attached label set

	// CreatedAfter keeps decisions created at or after this instant.
	CreatedAfter *time.Time
}

// IsEmpty reports whether the filter has no constraints.
func (f ListFilter) IsEmpty() bool {
	return f.Level == nil && f.Status == nil && f.Kind == nil && f.Weight == nil &&
		f.Scope == nil && f.Label == nil && f.CreatedAfter == nil
}

// StringPtr returns a pointer to s, or nil if s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
