package jsonl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/dictum/internal/types"
)

func sampleDecision() *types.Decision {
	return &types.Decision{
		ID:           "d-1o2id5",
		Title:        "We serve restaurant owners",
		Body:         types.StringPtr("Line one\nline \"two\" <tag> & more"),
		Level:        types.LevelStrategic,
		Status:       types.StatusSuperseded,
		SupersededBy: types.StringPtr("d-2"),
		Author:       "ann",
		CreatedAt:    "2024-01-15T10:30:00.000000000Z",
		UpdatedAt:    "2024-01-16T10:30:00.000000000Z",
		Labels:       []string{"market", "product"},
		Kind:         types.KindGoal,
		Weight:       types.WeightMust,
		Rebuttal:     types.StringPtr("unless we pivot"),
		Scope:        types.StringPtr("company"),
	}
}

func sampleLinks() []*types.Link {
	return []*types.Link{
		{SourceID: "d-2", TargetID: "d-1o2id5", Kind: types.LinkSupersedes, CreatedAt: "2024-01-16T10:30:00.000000000Z"},
		{SourceID: "d-1o2id5", TargetID: "d-3", Kind: types.LinkRefines, CreatedAt: "2024-01-17T10:30:00.000000000Z", Reason: types.StringPtr("narrower")},
		{SourceID: "d-4", TargetID: "d-1o2id5", Kind: types.LinkConflicts, CreatedAt: "2024-01-17T10:30:00.000000000Z"},
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		d     *types.Decision
		links []*types.Link
	}{
		{"full with links", sampleDecision(), sampleLinks()},
		{"full without links", sampleDecision(), nil},
		{"minimal", &types.Decision{
			ID: "d-x", Title: "t", Level: types.LevelOperational, Status: types.StatusActive,
			Author: "a", CreatedAt: "c", UpdatedAt: "u", Kind: types.KindChoice, Weight: types.WeightShould,
		}, nil},
		{"one link", sampleDecision(), sampleLinks()[:1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := Encode(tt.d, tt.links)
			require.NoError(t, err)
			assert.NotContains(t, string(line), "\n")

			d, links, err := Decode(line)
			require.NoError(t, err)
			assert.Equal(t, tt.d, d)
			assert.Equal(t, tt.links, links)
		})
	}
}

func TestEncodeOmitsNullsAndEmptyLists(t *testing.T) {
	d := &types.Decision{
		ID: "d-x", Title: "t", Level: types.LevelTactical, Status: types.StatusActive,
		Author: "a", CreatedAt: "c", UpdatedAt: "u", Kind: types.KindChoice, Weight: types.WeightShould,
		Labels: []string{},
	}
	line, err := Encode(d, []*types.Link{})
	require.NoError(t, err)

	s := string(line)
	for _, absent := range []string{"body", "superseded_by", "rebuttal", "scope", "labels", "links"} {
		assert.NotContains(t, s, `"`+absent+`"`)
	}
	assert.True(t, strings.HasPrefix(s, `{"id":"d-x","title":"t"`), s)
}

func TestEncodeLinkShape(t *testing.T) {
	line, err := Encode(sampleDecision(), sampleLinks()[1:2])
	require.NoError(t, err)
	assert.Contains(t, string(line),
		`"links":[{"kind":"refines","source":"d-1o2id5","target":"d-3","reason":"narrower","created_at":"2024-01-17T10:30:00.000000000Z"}]`)
}

func TestDecodeDefaults(t *testing.T) {
	line := `{"id":"d-1","title":"Old","level":"tactical","author":"a","created_at":"2024-01-15T10:30:00Z","updated_at":"2024-01-15T10:30:00Z"}`
	d, links, err := Decode([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, types.StatusActive, d.Status)
	assert.Equal(t, types.KindChoice, d.Kind)
	assert.Equal(t, types.WeightShould, d.Weight)
	assert.Nil(t, d.Labels)
	assert.Nil(t, links)
}

func TestDecodeNormalizesTimestamps(t *testing.T) {
	line := `{"id":"d-1","title":"Old","level":"tactical","author":"a",` +
		`"created_at":"2024-01-15T10:30:00+00:00","updated_at":"2024-01-15T12:30:00+02:00",` +
		`"links":[{"kind":"supports","source":"d-1","target":"d-2","created_at":"2024-01-15T10:30:00.5Z"}]}`
	d, links, err := Decode([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T10:30:00.000000000Z", d.CreatedAt)
	assert.Equal(t, "2024-01-15T10:30:00.000000000Z", d.UpdatedAt)
	require.Len(t, links, 1)
	assert.Equal(t, "2024-01-15T10:30:00.500000000Z", links[0].CreatedAt)
}

func TestDecodeStrictDecision(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"not json", `{"id":`},
		{"not an object", `[1,2]`},
		{"missing id", `{"title":"t","level":"tactical","author":"a","created_at":"c","updated_at":"u"}`},
		{"null title", `{"id":"d-1","title":null,"level":"tactical","author":"a","created_at":"c","updated_at":"u"}`},
		{"missing level", `{"id":"d-1","title":"t","author":"a","created_at":"c","updated_at":"u"}`},
		{"bad level", `{"id":"d-1","title":"t","level":"galactic","author":"a","created_at":"c","updated_at":"u"}`},
		{"bad kind", `{"id":"d-1","title":"t","level":"tactical","kind":"whim","author":"a","created_at":"c","updated_at":"u"}`},
		{"bad weight", `{"id":"d-1","title":"t","level":"tactical","weight":"never","author":"a","created_at":"c","updated_at":"u"}`},
		{"wrong type", `{"id":"d-1","title":7,"level":"tactical","author":"a","created_at":"c","updated_at":"u"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tt.line))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerialization)
		})
	}
}

func TestDecodeInvalidEnumKeepsCause(t *testing.T) {
	_, _, err := Decode([]byte(`{"id":"d-1","title":"t","level":"galactic","author":"a","created_at":"c","updated_at":"u"}`))
	assert.ErrorIs(t, err, types.ErrInvalidLevel)
	assert.Contains(t, err.Error(), "galactic")
}

func TestDecodeMalformedLinksIsBestEffort(t *testing.T) {
	base := `{"id":"d-1","title":"t","level":"tactical","author":"a","created_at":"c","updated_at":"u","links":`
	for _, links := range []string{
		`"nope"`,
		`[{"kind":"blocks","source":"d-1","target":"d-2"}]`,
		`[{"kind":"refines"}]`,
		`{"kind":"refines"}`,
	} {
		d, got, err := Decode([]byte(base + links + `}`))
		require.NoError(t, err, links)
		assert.Equal(t, "d-1", d.ID)
		assert.Nil(t, got, links)
	}
}

func TestDecodeAcceptsFullLinkFieldNames(t *testing.T) {
	line := `{"id":"d-1","title":"t","level":"tactical","author":"a","created_at":"c","updated_at":"u",` +
		`"links":[{"source_id":"d-1","target_id":"d-2","kind":"supports","created_at":"x"}]}`
	_, links, err := Decode([]byte(line))
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, &types.Link{SourceID: "d-1", TargetID: "d-2", Kind: types.LinkSupports, CreatedAt: "x"}, links[0])
}

func TestWriterAndScanner(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(sampleDecision(), sampleLinks()))
	require.NoError(t, w.Write(sampleDecision(), nil))
	require.NoError(t, w.Flush())

	sc := NewScanner(&buf)
	var n int
	for sc.Scan() {
		d, _, err := Decode(sc.Bytes())
		require.NoError(t, err)
		assert.Equal(t, sampleDecision(), d)
		n++
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, 2, n)
}
