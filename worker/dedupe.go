package worker

import (
	"context"

	"recruitment-agent/domain"
)

// Guard suppresses duplicate submissions: a new result is discarded
// when a record with the same (name, email, matched title) already sits
// in Pending or Accepted. This is a check-then-insert without a unique
// constraint behind it, so two submissions racing within the same
// commit window can both pass. Known, accepted weakness.
type Guard struct {
	apps domain.ApplicationRepository
}

func NewGuard(apps domain.ApplicationRepository) *Guard {
	return &Guard{apps: apps}
}

func (g *Guard) IsDuplicate(ctx context.Context, name, email, matchedTitle string) (bool, error) {
	existing, err := g.apps.FindExisting(ctx, name, email, matchedTitle,
		[]string{domain.StatusPending, domain.StatusAccepted})
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}
