package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerKeyUnmarshalVariants(t *testing.T) {
	cases := []struct {
		raw      string
		wantList []string
		wantStr  string
	}{
		{raw: `["A","C"]`, wantList: []string{"A", "C"}},
		{raw: `"B"`, wantStr: "B"},
		{raw: `true`},
		{raw: `4`},
	}
	for _, tc := range cases {
		var key AnswerKey
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &key), tc.raw)
		if tc.wantList != nil {
			list, ok := key.List()
			require.True(t, ok, tc.raw)
			assert.Equal(t, tc.wantList, list)
		}
		if tc.wantStr != "" {
			str, ok := key.String()
			require.True(t, ok, tc.raw)
			assert.Equal(t, tc.wantStr, str)
		}
	}
}

func TestAnswerKeyMarshalRoundTrip(t *testing.T) {
	question := Question{ID: "q-1", Type: QuestionMultipleChoice, Prompt: "Pick", Answer: NewAnswerKey([]string{"A", "C"}), Points: 2}
	raw, err := json.Marshal(question)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"answerKey":["A","C"]`)

	var decoded Question
	require.NoError(t, json.Unmarshal(raw, &decoded))
	list, ok := decoded.Answer.List()
	require.True(t, ok)
	assert.Equal(t, []string{"A", "C"}, list)
}

func TestDerivePointsTotal(t *testing.T) {
	rubric := Rubric{Rows: []RubricRow{
		{Criterion: "Clarity", Levels: []RubricLevel{{Label: "High", Points: 4}, {Label: "Low", Points: 1}}},
		{Criterion: "Accuracy", Levels: []RubricLevel{{Label: "High", Points: 4}, {Label: "Low", Points: 1}}},
		{Criterion: "Depth", Levels: []RubricLevel{{Label: "High", Points: 4}, {Label: "Low", Points: 1}}},
	}}
	assert.Equal(t, 12.0, rubric.DerivePointsTotal(), "criteria count times the maximum level points")

	empty := Rubric{}
	assert.Equal(t, 0.0, empty.DerivePointsTotal())
}

func TestToolCatalogIsConsistent(t *testing.T) {
	seen := make(map[string]bool)
	for _, tool := range ToolCatalog {
		require.False(t, seen[tool.ID], "duplicate tool id %s", tool.ID)
		seen[tool.ID] = true
		assert.True(t, tool.Kind.Valid(), "tool %s has unknown kind %s", tool.ID, tool.Kind)
	}
}
