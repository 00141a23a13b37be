package worker

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-agent/domain"
)

type stubApplicationRepo struct {
	existing     *domain.Application
	err          error
	lastStatuses []string
}

func (s *stubApplicationRepo) FindExisting(_ context.Context, name, email, title string, statuses []string) (*domain.Application, error) {
	s.lastStatuses = statuses
	if s.err != nil {
		return nil, s.err
	}
	if s.existing != nil && s.existing.CandidateName == name && s.existing.Email == email && s.existing.MatchedTitle == title {
		return s.existing, nil
	}
	return nil, nil
}

func (s *stubApplicationRepo) Insert(_ context.Context, _ *domain.Application) error { return nil }
func (s *stubApplicationRepo) GetByID(_ context.Context, _ uint) (*domain.Application, error) {
	return nil, nil
}
func (s *stubApplicationRepo) GetByIDWithStatus(_ context.Context, _ uint, _ string) (*domain.Application, error) {
	return nil, nil
}
func (s *stubApplicationRepo) GetByUsername(_ context.Context, _ string) ([]domain.Application, error) {
	return nil, nil
}
func (s *stubApplicationRepo) List(_ context.Context, _ string) ([]domain.Application, error) {
	return nil, nil
}
func (s *stubApplicationRepo) ListByStatus(_ context.Context, _, _ string) ([]domain.Application, error) {
	return nil, nil
}
func (s *stubApplicationRepo) UpdateStatus(_ context.Context, _ uint, _, _ string) error { return nil }
func (s *stubApplicationRepo) Update(_ context.Context, _ uint, _ map[string]interface{}) error {
	return nil
}
func (s *stubApplicationRepo) Delete(_ context.Context, _ uint) error { return nil }

func TestGuardDetectsActiveDuplicate(t *testing.T) {
	repo := &stubApplicationRepo{existing: &domain.Application{
		CandidateName: "Jordan Lee",
		Email:         "jordan@example.com",
		MatchedTitle:  "Backend Engineer",
		Status:        domain.StatusPending,
	}}
	guard := NewGuard(repo)

	dup, err := guard.IsDuplicate(context.Background(), "Jordan Lee", "jordan@example.com", "Backend Engineer")
	require.NoError(t, err)
	assert.True(t, dup)

	// Only active records block a resubmission; Rejected ones do not.
	assert.Equal(t, []string{domain.StatusPending, domain.StatusAccepted}, repo.lastStatuses)
}

func TestGuardAllowsNewSubmission(t *testing.T) {
	guard := NewGuard(&stubApplicationRepo{})

	dup, err := guard.IsDuplicate(context.Background(), "Jordan Lee", "jordan@example.com", "Backend Engineer")
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestGuardAllowsDifferentTitle(t *testing.T) {
	repo := &stubApplicationRepo{existing: &domain.Application{
		CandidateName: "Jordan Lee",
		Email:         "jordan@example.com",
		MatchedTitle:  "Backend Engineer",
	}}
	guard := NewGuard(repo)

	dup, err := guard.IsDuplicate(context.Background(), "Jordan Lee", "jordan@example.com", "Data Engineer")
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestGuardPropagatesLookupError(t *testing.T) {
	guard := NewGuard(&stubApplicationRepo{err: fmt.Errorf("db down")})

	_, err := guard.IsDuplicate(context.Background(), "Jordan Lee", "jordan@example.com", "Backend Engineer")
	assert.ErrorContains(t, err, "db down")
}
