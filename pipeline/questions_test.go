package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-agent/domain"
)

type fakeQuestionRepo struct {
	stored map[uint][]domain.Question
	err    error
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{stored: make(map[uint][]domain.Question)}
}

func (f *fakeQuestionRepo) ReplaceForApplication(_ context.Context, applicationID uint, questions []domain.Question) error {
	if f.err != nil {
		return f.err
	}
	f.stored[applicationID] = questions
	return nil
}

func (f *fakeQuestionRepo) ListByApplication(_ context.Context, applicationID uint) ([]domain.Question, error) {
	return f.stored[applicationID], nil
}

func (f *fakeQuestionRepo) GetByID(_ context.Context, _ uint) (*domain.Question, error) {
	return nil, nil
}

func (f *fakeQuestionRepo) Edit(_ context.Context, _ uint, _, _ string) error { return nil }

func (f *fakeQuestionRepo) DeleteForApplication(_ context.Context, _ uint) error { return nil }

func TestQuestionGeneratorParsesQuestions(t *testing.T) {
	completer := &fakeCompleter{response: `{"questions": [
		{"question": "Describe a system you designed.", "answer": "Expect concrete tradeoffs."},
		{"question": "How do you debug production issues?", "answer": ["Logs", "Metrics"]}
	]}`}
	gen := NewQuestionGenerator(completer, "gpt-4o-mini")

	questions, err := gen.Generate(context.Background(), domain.CandidateProfile{Name: "Jordan"}, backendRequirement())
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "Describe a system you designed.", questions[0].QuestionText)
	assert.Equal(t, "Expect concrete tradeoffs.", questions[0].Answer)
	assert.Equal(t, "Logs\nMetrics", questions[1].Answer)
	assert.Equal(t, "gpt-4o-mini", questions[0].Source)
}

func TestQuestionGeneratorDefaultsMissingAnswer(t *testing.T) {
	completer := &fakeCompleter{response: `{"questions": [{"question": "Why this role?"}]}`}
	gen := NewQuestionGenerator(completer, "gpt-4o-mini")

	questions, err := gen.Generate(context.Background(), domain.CandidateProfile{}, backendRequirement())
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "No answer provided.", questions[0].Answer)
}

func TestQuestionGeneratorEmptySetFails(t *testing.T) {
	completer := &fakeCompleter{response: `{"questions": []}`}
	gen := NewQuestionGenerator(completer, "gpt-4o-mini")

	_, err := gen.Generate(context.Background(), domain.CandidateProfile{}, backendRequirement())
	assert.ErrorContains(t, err, "no questions")
}

func TestGenerateQuestionsStageStoresOnAcceptance(t *testing.T) {
	completer := &fakeCompleter{response: `{"questions": [{"question": "Q1", "answer": "A1"}]}`}
	gen := NewQuestionGenerator(completer, "gpt-4o-mini")
	repo := newFakeQuestionRepo()

	req := backendRequirement()
	profile := domain.CandidateProfile{Name: "Jordan"}
	s := &State{
		Profile:            &profile,
		MatchedRequirement: &req,
		ApplicationID:      12,
		Decision:           DecisionAccepted,
	}
	err := NewGenerateQuestionsStage(gen, repo).Run(context.Background(), s)
	require.NoError(t, err)

	assert.Len(t, repo.stored[12], 1)
	assert.Len(t, s.Questions, 1)
}

func TestGenerateQuestionsStageSkipsRejectedRuns(t *testing.T) {
	gen := NewQuestionGenerator(&fakeCompleter{err: fmt.Errorf("must not be called")}, "gpt-4o-mini")
	repo := newFakeQuestionRepo()

	req := backendRequirement()
	profile := domain.CandidateProfile{Name: "Jordan"}
	s := &State{
		Profile:            &profile,
		MatchedRequirement: &req,
		ApplicationID:      12,
		Decision:           DecisionRejectedNotApproved,
	}
	err := NewGenerateQuestionsStage(gen, repo).Run(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, repo.stored)
}

func TestGenerateQuestionsStageFailureDoesNotChangeDecision(t *testing.T) {
	gen := NewQuestionGenerator(&fakeCompleter{err: fmt.Errorf("provider down")}, "gpt-4o-mini")
	repo := newFakeQuestionRepo()

	req := backendRequirement()
	profile := domain.CandidateProfile{Name: "Jordan"}
	s := &State{
		Profile:            &profile,
		MatchedRequirement: &req,
		ApplicationID:      12,
		Decision:           DecisionAccepted,
	}
	err := NewGenerateQuestionsStage(gen, repo).Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, DecisionAccepted, s.Decision)
	assert.Empty(t, repo.stored)
}
