package pipeline

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"recruitment-agent/config"
	"recruitment-agent/domain"
	"recruitment-agent/scoring"
)

// Scorer is what the match stage needs from the scoring engine.
type Scorer interface {
	Score(ctx context.Context, profile domain.CandidateProfile, req domain.Requirement) (domain.MatchResult, error)
}

// NewMatchStage scores the profile against every candidate
// requirement and keeps the best result. A single failed scoring call
// skips that requirement; the stage only fails when every call failed.
// A best score below the acceptance threshold is a business rejection,
// not an error.
func NewMatchStage(engine Scorer) Stage {
	return Stage{
		Name: "match",
		Run: func(ctx context.Context, s *State) error {
			if s.Profile == nil {
				s.Decision = "Rejected: invalid CV content"
				s.StopPipeline = true
				return nil
			}
			if len(s.Requirements) == 0 {
				s.Decision = DecisionRejectedNoMatch
				s.StopPipeline = true
				return nil
			}

			var (
				scored   []domain.MatchResult
				indexes  []int
				failures int
			)
			for i, req := range s.Requirements {
				result, err := engine.Score(ctx, *s.Profile, req)
				if err != nil {
					failures++
					log.WithFields(log.Fields{
						"requirement": req.Title,
						"error":       err,
					}).Warn("scoring failed, skipping requirement")
					continue
				}
				log.WithFields(log.Fields{
					"requirement": req.Title,
					"total_score": result.TotalScore,
				}).Debug("requirement scored")
				scored = append(scored, result)
				indexes = append(indexes, i)
			}

			if len(scored) == 0 {
				return fmt.Errorf("all %d requirements failed to score", failures)
			}

			best := scoring.Best(scored)
			bestResult := scored[best]
			if bestResult.TotalScore < config.MatchingScoreThreshold {
				log.WithField("best_score", bestResult.TotalScore).Info("no requirement cleared the acceptance threshold")
				s.Decision = DecisionRejectedNoMatch
				s.StopPipeline = true
				return nil
			}

			matched := s.Requirements[indexes[best]]
			s.Match = &bestResult
			s.MatchedRequirement = &matched
			log.WithFields(log.Fields{
				"requirement": matched.Title,
				"total_score": bestResult.TotalScore,
			}).Info("best match selected")
			return nil
		},
	}
}
