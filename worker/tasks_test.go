package worker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-agent/domain"
	"recruitment-agent/pipeline"
)

func TestBuildApplicationRecord(t *testing.T) {
	profile := domain.CandidateProfile{
		Name:            "Jordan Lee",
		Email:           "jordan@example.com",
		Skills:          []string{"Python", "SQL"},
		ExperienceYears: 4,
	}
	req := domain.Requirement{
		Title:              "Backend Engineer",
		Skills:             []string{"Python", "SQL"},
		ExperienceRequired: 3,
	}
	state := &pipeline.State{
		Username:           "jlee",
		Profile:            &profile,
		MatchedRequirement: &req,
		Match:              &domain.MatchResult{TotalScore: 85.4, Justification: "Strong overlap."},
	}

	app, err := buildApplicationRecord(state, "Jordan Lee", "jordan@example.com")
	require.NoError(t, err)

	assert.Equal(t, "Jordan Lee", app.CandidateName)
	assert.Equal(t, "jlee", app.Username)
	assert.Equal(t, domain.StatusPending, app.Status)
	assert.Equal(t, "Backend Engineer", app.MatchedTitle)
	assert.Equal(t, 85, app.MatchedScore)
	assert.True(t, app.IsMatched)
	assert.Equal(t, 3, app.MatchedExperienceRequired)
	assert.False(t, app.SubmittedAt.IsZero())

	var skills []string
	require.NoError(t, json.Unmarshal([]byte(app.SkillsJSON), &skills))
	assert.Equal(t, []string{"Python", "SQL"}, skills)

	var stored domain.CandidateProfile
	require.NoError(t, json.Unmarshal([]byte(app.ProfileJSON), &stored))
	assert.Equal(t, profile.Name, stored.Name)
}

func TestBuildApplicationRecordRoundsScore(t *testing.T) {
	profile := domain.CandidateProfile{Skills: []string{"Go"}}
	req := domain.Requirement{Title: "Engineer", Skills: []string{"Go"}}
	state := &pipeline.State{
		Profile:            &profile,
		MatchedRequirement: &req,
		Match:              &domain.MatchResult{TotalScore: 79.6},
	}

	app, err := buildApplicationRecord(state, "X", "x@example.com")
	require.NoError(t, err)
	assert.Equal(t, 80, app.MatchedScore)
}

func TestStateFromRecordRestoresProfile(t *testing.T) {
	profile := domain.CandidateProfile{
		Name:            "Jordan Lee",
		Email:           "jordan@example.com",
		Skills:          []string{"Python", "SQL"},
		ExperienceYears: 4,
	}
	profileJSON, err := json.Marshal(profile)
	require.NoError(t, err)

	app := &domain.Application{
		ID:                        12,
		CandidateName:             "Jordan Lee",
		Email:                     "jordan@example.com",
		MatchedTitle:              "Backend Engineer",
		MatchedSkillsJSON:         `["Python","SQL"]`,
		MatchedExperienceRequired: 3,
		ProfileJSON:               string(profileJSON),
	}

	state, err := stateFromRecord(app)
	require.NoError(t, err)

	assert.Equal(t, uint(12), state.ApplicationID)
	assert.Equal(t, "jordan@example.com", state.OverrideEmail)
	require.NotNil(t, state.Profile)
	assert.Equal(t, []string{"Python", "SQL"}, state.Profile.Skills)
	require.NotNil(t, state.MatchedRequirement)
	assert.Equal(t, "Backend Engineer", state.MatchedRequirement.Title)
	assert.Equal(t, 3, state.MatchedRequirement.ExperienceRequired)
}

func TestStateFromRecordFallsBackToColumns(t *testing.T) {
	app := &domain.Application{
		ID:              7,
		CandidateName:   "Sam Doe",
		Email:           "sam@example.com",
		MatchedTitle:    "Data Engineer",
		ExperienceYears: 6,
	}

	state, err := stateFromRecord(app)
	require.NoError(t, err)
	assert.Equal(t, "Sam Doe", state.Profile.Name)
	assert.Equal(t, 6, state.Profile.ExperienceYears)
	assert.Empty(t, state.MatchedRequirement.Skills)
}

func TestStateFromRecordCorruptProfileFails(t *testing.T) {
	app := &domain.Application{ID: 9, ProfileJSON: "{broken"}
	_, err := stateFromRecord(app)
	assert.ErrorContains(t, err, "decode stored profile")
}
