package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"recruitment-agent/domain"
	"recruitment-agent/scoring"
)

const questionPromptTemplate = `You are a technical interviewer preparing for an interview with %s, who applied for the position of "%s".
They have %d years of experience and key skills: %s.

Generate 5 relevant and personalized interview questions, covering technical expertise, problem solving, experience and background, communication, and cultural fit. For each question also provide a short expected answer.

Return strict JSON only:
{"questions": [{"question": "...", "answer": "..."}]}`

// QuestionGenerator produces follow-up questions for an accepted
// application. It is shared by the finalize-time stage and the admin
// regenerate endpoint.
type QuestionGenerator struct {
	completer domain.Completer
	source    string
}

func NewQuestionGenerator(completer domain.Completer, source string) *QuestionGenerator {
	return &QuestionGenerator{completer: completer, source: source}
}

func (g *QuestionGenerator) Generate(ctx context.Context, profile domain.CandidateProfile, req domain.Requirement) ([]domain.Question, error) {
	name := profile.Name
	if name == "" {
		name = "the candidate"
	}
	prompt := fmt.Sprintf(questionPromptTemplate,
		name, req.Title, profile.ExperienceYears, strings.Join(profile.Skills, ", "))

	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("completion call: %w", err)
	}

	var payload struct {
		Questions []struct {
			Question string          `json:"question"`
			Answer   json.RawMessage `json:"answer"`
			Answers  json.RawMessage `json:"answers"`
		} `json:"questions"`
	}
	if err := json.Unmarshal([]byte(scoring.CleanJSONResponse(raw)), &payload); err != nil {
		return nil, fmt.Errorf("parse question response: %w", err)
	}

	var out []domain.Question
	for _, q := range payload.Questions {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			continue
		}
		answer := flattenAnswer(q.Answer)
		if answer == "" {
			answer = flattenAnswer(q.Answers)
		}
		if answer == "" {
			answer = "No answer provided."
		}
		out = append(out, domain.Question{
			QuestionText: text,
			Answer:       answer,
			Source:       g.source,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no questions in response")
	}
	return out, nil
}

// flattenAnswer accepts either a string or a list of strings.
func flattenAnswer(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.TrimSpace(strings.Join(many, "\n"))
	}
	return ""
}

// NewGenerateQuestionsStage persists a fresh question set for the
// application when the run reached an accepting decision. Generation
// failures are logged and never alter the decision.
func NewGenerateQuestionsStage(gen *QuestionGenerator, repo domain.QuestionRepository) Stage {
	return Stage{
		Name: "generate_questions",
		Run: func(ctx context.Context, s *State) error {
			if !s.Accepted() || s.ApplicationID == 0 {
				return nil
			}
			if s.Profile == nil || s.MatchedRequirement == nil {
				return nil
			}

			questions, err := gen.Generate(ctx, *s.Profile, *s.MatchedRequirement)
			if err != nil {
				log.WithFields(log.Fields{
					"application_id": s.ApplicationID,
					"error":          err,
				}).Error("follow-up question generation failed")
				return nil
			}

			if err := repo.ReplaceForApplication(ctx, s.ApplicationID, questions); err != nil {
				log.WithFields(log.Fields{
					"application_id": s.ApplicationID,
					"error":          err,
				}).Error("storing follow-up questions failed")
				return nil
			}

			s.Questions = questions
			log.WithFields(log.Fields{
				"application_id": s.ApplicationID,
				"count":          len(questions),
			}).Info("follow-up questions stored")
			return nil
		},
	}
}
