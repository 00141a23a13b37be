package pipeline

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"recruitment-agent/domain"
)

// NewFetchRequirementsStage loads the candidate requirement set:
// either the single record named by RequirementID, or every record
// sharing TargetTitle. Duplicate records (same title, skills,
// experience, level) collapse to the first occurrence. An unresolvable
// target is fatal to the run.
func NewFetchRequirementsStage(repo domain.RequirementRepository) Stage {
	return Stage{
		Name: "fetch_requirements",
		Run: func(ctx context.Context, s *State) error {
			var records []domain.Requirement

			switch {
			case s.RequirementID != 0:
				req, err := repo.GetByID(ctx, s.RequirementID)
				if err != nil {
					return fmt.Errorf("load requirement id=%d: %w", s.RequirementID, err)
				}
				if req == nil {
					return fmt.Errorf("requirement id=%d not found", s.RequirementID)
				}
				records = []domain.Requirement{*req}
			case s.TargetTitle != "":
				var err error
				records, err = repo.GetByTitle(ctx, s.TargetTitle)
				if err != nil {
					return fmt.Errorf("load requirements title=%q: %w", s.TargetTitle, err)
				}
				if len(records) == 0 {
					return fmt.Errorf("no requirements found for title %q", s.TargetTitle)
				}
			default:
				return fmt.Errorf("a requirement id or target title must be provided")
			}

			s.Requirements = dedupeBySignature(records)
			log.WithField("count", len(s.Requirements)).Debug("requirements selected for matching")
			return nil
		},
	}
}

func dedupeBySignature(records []domain.Requirement) []domain.Requirement {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.Requirement, 0, len(records))
	for _, r := range records {
		sig := r.Signature()
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		out = append(out, r)
	}
	return out
}
