package pipeline

import (
	"context"

	log "github.com/sirupsen/logrus"

	"recruitment-agent/config"
	"recruitment-agent/scoring"
)

// NewApproveStage re-checks the match deterministically: skill overlap
// must reach the acceptance threshold and the candidate's experience
// must be at least the required years, or at most one year below. No
// completion call is involved on this path.
func NewApproveStage() Stage {
	return Stage{
		Name: "approve",
		Run: func(ctx context.Context, s *State) error {
			if s.MatchedRequirement == nil {
				s.Approved = nil
				return nil
			}
			if s.Profile == nil || len(s.Profile.Skills) == 0 || len(s.MatchedRequirement.Skills) == 0 {
				log.Warn("missing skills on profile or requirement, candidate not approved")
				s.Approved = nil
				return nil
			}

			matched, overlapPct := scoring.SkillOverlap(s.Profile.Skills, s.MatchedRequirement.Skills)

			candidateExp := s.Profile.ExperienceYears
			requiredExp := s.MatchedRequirement.ExperienceRequired
			experienceOK := candidateExp >= requiredExp || requiredExp-candidateExp <= 1

			log.WithFields(log.Fields{
				"matched_skills":  matched,
				"overlap_pct":     overlapPct,
				"candidate_years": candidateExp,
				"required_years":  requiredExp,
			}).Info("approval checks computed")

			if overlapPct >= config.MatchingScoreThreshold && experienceOK {
				s.Approved = s.Profile
			} else {
				s.Approved = nil
			}
			return nil
		},
	}
}
