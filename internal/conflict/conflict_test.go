package conflict

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/necolo/rulink/internal/source"
)

var available = []source.RuleMetadata{
	{Category: "default", Name: "general"},
	{Category: "typescript", Name: "style", Description: "TypeScript style rules"},
	{Category: "react", Name: "style"},
}

func answer(s string, asked *[]Question) Asker {
	return AskerFunc(func(q Question) (string, error) {
		*asked = append(*asked, q)
		return s, nil
	})
}

func TestResolve_Ambiguous(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		wantInstall []string
		wantSkipped []string
	}{
		{"first", "1", []string{"typescript/style.mdc"}, nil},
		{"second", " 2\n", []string{"react/style.mdc"}, nil},
		{"skip index", "3", nil, []string{"style.mdc"}},
		{"out of range", "7", nil, []string{"style.mdc"}},
		{"zero", "0", nil, []string{"style.mdc"}},
		{"not a number", "ts", nil, []string{"style.mdc"}},
		{"empty", "", nil, []string{"style.mdc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var asked []Question
			plan := Resolve(t.Context(), []string{"style.mdc"}, available, answer(tt.answer, &asked))

			require.Len(t, asked, 1)
			q := asked[0]
			assert.Equal(t, "style.mdc", q.Filename)
			assert.Len(t, q.Candidates, 2)
			assert.Equal(t, 3, q.SkipIndex)
			assert.Equal(t, tt.wantInstall, plan.Install)
			assert.Equal(t, tt.wantSkipped, plan.Skipped)
		})
	}
}

func TestResolve_UniqueAndMissing(t *testing.T) {
	var asked []Question
	plan := Resolve(t.Context(), []string{"general.mdc", "old-rule.mdc"}, available, answer("1", &asked))

	assert.Empty(t, asked)
	assert.Equal(t, []string{"general.mdc"}, plan.Install)
	assert.Equal(t, []string{"old-rule.mdc"}, plan.NotFound)
	assert.Empty(t, plan.Skipped)
}

func TestResolve_AskerErrorSkips(t *testing.T) {
	ask := AskerFunc(func(Question) (string, error) { return "", io.EOF })
	plan := Resolve(t.Context(), []string{"style.mdc"}, available, ask)

	assert.Empty(t, plan.Install)
	assert.Equal(t, []string{"style.mdc"}, plan.Skipped)
}

func TestCandidate_Label(t *testing.T) {
	idx := Index(available)
	assert.Equal(t, "typescript/style.mdc - TypeScript style rules", idx["style.mdc"][0].Label())
	assert.Equal(t, "react/style.mdc", idx["style.mdc"][1].Label())
}
