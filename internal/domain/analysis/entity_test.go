package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointListAcceptsStructuredShape(t *testing.T) {
	var pl PointList
	require.NoError(t, json.Unmarshal([]byte(`[{"title":"Rash","details":"Red patches."}]`), &pl))

	require.Len(t, pl, 1)
	assert.Equal(t, "Rash", pl[0].Title)
	assert.Equal(t, "Red patches.", pl[0].Details)
}

func TestPointListAcceptsLegacyStringShape(t *testing.T) {
	var pl PointList
	require.NoError(t, json.Unmarshal([]byte(`["keep the area dry","avoid scratching"]`), &pl))

	require.Len(t, pl, 2)
	assert.Equal(t, "keep the area dry", pl[0].Title)
	assert.Empty(t, pl[0].Details)
}

func TestPointListAcceptsMixedShapes(t *testing.T) {
	var pl PointList
	require.NoError(t, json.Unmarshal([]byte(`["plain", {"title":"Structured","details":"d"}]`), &pl))

	require.Len(t, pl, 2)
	assert.Equal(t, "plain", pl[0].Title)
	assert.Equal(t, "Structured", pl[1].Title)
}

func TestParseVerdict(t *testing.T) {
	cases := map[string]Verdict{
		"IMPROVED":   VerdictImproved,
		"improved":   VerdictImproved,
		" Worsened ": VerdictWorsened,
		"stable":     VerdictStable,
		"MISMATCH":   VerdictMismatch,
		"UNCLEAR":    VerdictUnclear,
		"":           VerdictUnclear,
		"gibberish":  VerdictUnclear,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseVerdict(in), "input %q", in)
	}
}
