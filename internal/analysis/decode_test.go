package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-matcher/internal/llm"
)

func TestDecodeResumeFactsFiltersBadListEntries(t *testing.T) {
	got, err := decodeResumeFacts(map[string]any{
		"skills": []any{"Go", "SQL"},
		"experience": []any{
			map[string]any{"title": "Engineer", "company": map[string]any{"name": "Acme"}, "duration": "2y"},
			"not an object",
			map[string]any{"title": "Intern", "company": "Initech"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
	require.Len(t, got.Experience, 2)
	assert.Equal(t, Experience{Title: "Engineer", Duration: "2y"}, got.Experience[0])
	assert.Equal(t, Experience{Title: "Intern", Company: "Initech"}, got.Experience[1])
}

func TestDecodeMatchResultParsesPercentStrings(t *testing.T) {
	got, err := decodeMatchResult(map[string]any{
		"match_percentage": "85%",
		"matching_skills":  []any{"Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, 85.0, got.MatchPercentage)
	assert.Equal(t, []string{"Go"}, got.MatchingSkills)
}

func TestDecodeJobFactsRequiresTitle(t *testing.T) {
	_, err := decodeJobFacts(map[string]any{"company": "Acme"})
	require.ErrorIs(t, err, llm.ErrMalformedResponse)
}
