package types

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDecision() Decision {
	return Decision{
		ID:        "d-abc",
		Title:     "Use SQLite",
		Level:     LevelTactical,
		Status:    StatusActive,
		Kind:      KindChoice,
		Weight:    WeightShould,
		Author:    "ann",
		CreatedAt: "2025-01-01T00:00:00.000000000Z",
		UpdatedAt: "2025-01-01T00:00:00.000000000Z",
	}
}

func TestDecisionValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Decision)
		wantErr error
	}{
		{name: "valid", mutate: func(d *Decision) {}},
		{name: "missing title", mutate: func(d *Decision) { d.Title = "" }, wantErr: ErrTitleRequired},
		{name: "bad level", mutate: func(d *Decision) { d.Level = "galactic" }, wantErr: ErrInvalidLevel},
		{name: "bad status", mutate: func(d *Decision) { d.Status = "open" }, wantErr: ErrInvalidStatus},
		{name: "bad kind", mutate: func(d *Decision) { d.Kind = "whim" }, wantErr: ErrInvalidKind},
		{name: "bad weight", mutate: func(d *Decision) { d.Weight = "might" }, wantErr: ErrInvalidWeight},
		{name: "empty kind", mutate: func(d *Decision) { d.Kind = "" }, wantErr: ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDecision()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateRequiresID(t *testing.T) {
	d := validDecision()
	d.ID = ""
	assert.Error(t, d.Validate())
}

func TestSetDefaults(t *testing.T) {
	d := Decision{}
	d.SetDefaults()
	assert.Equal(t, StatusActive, d.Status)
	assert.Equal(t, KindChoice, d.Kind)
	assert.Equal(t, WeightShould, d.Weight)

	d = Decision{Status: StatusDraft, Kind: KindGoal, Weight: WeightMust}
	d.SetDefaults()
	assert.Equal(t, StatusDraft, d.Status)
	assert.Equal(t, KindGoal, d.Kind)
	assert.Equal(t, WeightMust, d.Weight)
}

func TestParseEnums(t *testing.T) {
	l, err := ParseLevel("  Strategic ")
	require.NoError(t, err)
	assert.Equal(t, LevelStrategic, l)

	k, err := ParseKind("PRINCIPLE")
	require.NoError(t, err)
	assert.Equal(t, KindPrinciple, k)

	w, err := ParseWeight("May")
	require.NoError(t, err)
	assert.Equal(t, WeightMay, w)

	s, err := ParseStatus("draft")
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, s)

	lk, err := ParseLinkKind("Excludes")
	require.NoError(t, err)
	assert.Equal(t, LinkExcludes, lk)
}

func TestParseRejectsUnknown(t *testing.T) {
	_, err := ParseLinkKind("blocks")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLinkKind)
	assert.NotErrorIs(t, err, ErrInvalidLevel)

	var ive *InvalidValueError
	require.True(t, errors.As(err, &ive))
	assert.Equal(t, "link kind", ive.Field)
	assert.Equal(t, "blocks", ive.Value)
	assert.Equal(t, LinkKinds(), ive.Accepted)
	assert.Equal(t,
		`invalid link kind "blocks" (expected one of: refines, supports, supersedes, conflicts, requires, entails, excludes)`,
		err.Error())
}

func TestAcceptedLists(t *testing.T) {
	assert.Equal(t, []string{"strategic", "tactical", "operational"}, Levels())
	assert.Equal(t, []string{"principle", "constraint", "assumption", "choice", "rule", "goal"}, Kinds())
	assert.Equal(t, []string{"must", "should", "may"}, Weights())
	assert.Equal(t, []string{"active", "superseded", "deprecated", "draft"}, Statuses())
	assert.Len(t, AllLinkKinds(), 7)
	assert.Equal(t, []Level{LevelStrategic, LevelTactical, LevelOperational}, AllLevels())
}

func TestEnumUnmarshalJSON(t *testing.T) {
	var d Decision
	err := json.Unmarshal([]byte(`{"level":"Operational","kind":"rule"}`), &d)
	require.NoError(t, err)
	assert.Equal(t, LevelOperational, d.Level)
	assert.Equal(t, KindRule, d.Kind)

	err = json.Unmarshal([]byte(`{"level":"galactic"}`), &d)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestLinkValidate(t *testing.T) {
	l := Link{SourceID: "d-a", TargetID: "d-b", Kind: LinkSupports}
	assert.NoError(t, l.Validate())

	l.Kind = "blocks"
	assert.ErrorIs(t, l.Validate(), ErrInvalidLinkKind)

	l = Link{SourceID: "d-a", Kind: LinkSupports}
	assert.Error(t, l.Validate())
}

func TestListFilterIsEmpty(t *testing.T) {
	assert.True(t, ListFilter{}.IsEmpty())
	lvl := LevelTactical
	assert.False(t, ListFilter{Level: &lvl}.IsEmpty())
	now := time.Now()
	assert.False(t, ListFilter{CreatedAfter: &now}.IsEmpty())
}

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("X", 3600)
	ts := time.Date(2025, 3, 4, 5, 6, 7, 8, loc)
	assert.Equal(t, "2025-03-04T04:06:07.000000008Z", FormatTime(ts))

	// Fixed width keeps lexical order chronological.
	a := FormatTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	b := FormatTime(time.Date(2025, 1, 1, 0, 0, 0, 500, time.UTC))
	assert.Len(t, a, len(b))
	assert.Less(t, a, b)
}

func TestStringPtrDeref(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	assert.Equal(t, "x", Deref(StringPtr("x")))
	assert.Equal(t, "", Deref(nil))
}

func TestIsActive(t *testing.T) {
	d := validDecision()
	assert.True(t, d.IsActive())
	d.Status = StatusDraft
	assert.False(t, d.IsActive())
}
