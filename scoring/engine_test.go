package scoring

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-agent/domain"
)

type stubCompleter struct {
	response string
	err      error
	prompts  []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func TestSkillOverlapBidirectionalContainment(t *testing.T) {
	candidate := []string{"Python programming", "SQL", "Docker"}
	required := []string{"python", "PostgreSQL databases", "Kubernetes"}

	matched, pct := SkillOverlap(candidate, required)

	// "python" is contained in "python programming"; "sql" is contained
	// in "postgresql databases".
	assert.Equal(t, []string{"python", "PostgreSQL databases"}, matched)
	assert.InDelta(t, 66.66, pct, 0.1)
}

func TestSkillOverlapEmptyRequired(t *testing.T) {
	matched, pct := SkillOverlap([]string{"go"}, nil)
	assert.Nil(t, matched)
	assert.Zero(t, pct)
}

func TestSkillOverlapIgnoresBlankEntries(t *testing.T) {
	matched, pct := SkillOverlap([]string{"  ", "Go"}, []string{"go", ""})
	assert.Equal(t, []string{"go"}, matched)
	assert.Equal(t, 50.0, pct)
}

func TestScoreParsesAndKeepsConsistentTotal(t *testing.T) {
	stub := &stubCompleter{response: `{"main_score": 70, "extra_score": 15, "total_score": 85, "rationale": "good fit", "justification": "Strong overlap."}`}
	engine := NewEngine(stub)

	result, err := engine.Score(context.Background(), profileFixture(), requirementFixture())
	require.NoError(t, err)

	assert.Equal(t, 70.0, result.MainScore)
	assert.Equal(t, 15.0, result.ExtraScore)
	assert.Equal(t, 85.0, result.TotalScore)
	assert.Equal(t, "good fit", result.Rationale)
}

func TestScoreClampsComponentBounds(t *testing.T) {
	stub := &stubCompleter{response: `{"main_score": 95, "extra_score": -5, "total_score": 90}`}
	engine := NewEngine(stub)

	result, err := engine.Score(context.Background(), profileFixture(), requirementFixture())
	require.NoError(t, err)

	assert.Equal(t, 80.0, result.MainScore)
	assert.Equal(t, 0.0, result.ExtraScore)
	// Reported total disagrees with the clamped sum by more than the
	// tolerance, so it is recomputed.
	assert.Equal(t, 80.0, result.TotalScore)
}

func TestScoreRecomputesInconsistentTotal(t *testing.T) {
	stub := &stubCompleter{response: `{"main_score": 60, "extra_score": 10, "total_score": 99}`}
	engine := NewEngine(stub)

	result, err := engine.Score(context.Background(), profileFixture(), requirementFixture())
	require.NoError(t, err)
	assert.Equal(t, 70.0, result.TotalScore)
}

func TestScoreToleratesSmallTotalDrift(t *testing.T) {
	stub := &stubCompleter{response: `{"main_score": 60, "extra_score": 10, "total_score": 70.4}`}
	engine := NewEngine(stub)

	result, err := engine.Score(context.Background(), profileFixture(), requirementFixture())
	require.NoError(t, err)
	assert.Equal(t, 70.4, result.TotalScore)
}

func TestScoreFencedResponse(t *testing.T) {
	stub := &stubCompleter{response: "```json\n{\"main_score\": 50, \"extra_score\": 10, \"total_score\": 60}\n```"}
	engine := NewEngine(stub)

	result, err := engine.Score(context.Background(), profileFixture(), requirementFixture())
	require.NoError(t, err)
	assert.Equal(t, 60.0, result.TotalScore)
}

func TestScoreRejectsScorelessResponse(t *testing.T) {
	stub := &stubCompleter{response: `{"rationale": "no numbers here"}`}
	engine := NewEngine(stub)

	_, err := engine.Score(context.Background(), profileFixture(), requirementFixture())
	assert.Error(t, err)
}

func TestScoreRejectsUnparseableResponse(t *testing.T) {
	stub := &stubCompleter{response: "I cannot evaluate this candidate."}
	engine := NewEngine(stub)

	_, err := engine.Score(context.Background(), profileFixture(), requirementFixture())
	assert.Error(t, err)
}

func TestScorePropagatesCompleterError(t *testing.T) {
	stub := &stubCompleter{err: fmt.Errorf("upstream down")}
	engine := NewEngine(stub)

	_, err := engine.Score(context.Background(), profileFixture(), requirementFixture())
	assert.ErrorContains(t, err, "upstream down")
}

func TestScoreDoesNotMutateInputs(t *testing.T) {
	stub := &stubCompleter{response: `{"main_score": 40, "extra_score": 5, "total_score": 45}`}
	engine := NewEngine(stub)

	profile := profileFixture()
	req := requirementFixture()
	skillsBefore := append([]string(nil), profile.Skills...)

	_, err := engine.Score(context.Background(), profile, req)
	require.NoError(t, err)
	assert.Equal(t, skillsBefore, profile.Skills)
}

func TestBestPrefersHighestTotal(t *testing.T) {
	results := []domain.MatchResult{
		{TotalScore: 71},
		{TotalScore: 88},
		{TotalScore: 54},
	}
	assert.Equal(t, 1, Best(results))
}

func TestBestKeepsFirstOnTie(t *testing.T) {
	results := []domain.MatchResult{
		{TotalScore: 80},
		{TotalScore: 80},
	}
	assert.Equal(t, 0, Best(results))
}

func TestBestEmpty(t *testing.T) {
	assert.Equal(t, -1, Best(nil))
}

func profileFixture() domain.CandidateProfile {
	return domain.CandidateProfile{
		Name:            "Jordan Lee",
		Email:           "jordan@example.com",
		Skills:          []string{"Python", "SQL"},
		ExperienceYears: 4,
	}
}

func requirementFixture() domain.Requirement {
	return domain.Requirement{
		Title:              "Backend Engineer",
		Skills:             []string{"Python", "SQL"},
		ExperienceRequired: 3,
		Level:              "Mid",
	}
}
