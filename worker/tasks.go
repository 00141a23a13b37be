package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"recruitment-agent/domain"
	"recruitment-agent/pipeline"
	"recruitment-agent/repository"
	"recruitment-agent/scoring"
)

// Task kinds understood by the scheduler.
const (
	TaskProcessSubmission  = "process_submission"
	TaskApproveApplication = "approve_application"
)

type ProcessSubmissionPayload struct {
	DocumentPath  string `json:"document_path"`
	OverrideEmail string `json:"override_email,omitempty"`
	RequirementID uint   `json:"requirement_id,omitempty"`
	TargetTitle   string `json:"target_title,omitempty"`
	Username      string `json:"username,omitempty"`
}

type ApproveApplicationPayload struct {
	ApplicationID uint `json:"application_id"`
}

// Tasks bundles the collaborators the task handlers need. Repositories
// are built per attempt from the session the scheduler hands in.
type Tasks struct {
	extractor    domain.TextExtractor
	completer    domain.Completer
	engine       *scoring.Engine
	notifier     domain.Notifier
	generator    *pipeline.QuestionGenerator
	defaultEmail string
}

func NewTasks(
	extractor domain.TextExtractor,
	completer domain.Completer,
	engine *scoring.Engine,
	notifier domain.Notifier,
	generator *pipeline.QuestionGenerator,
	defaultEmail string,
) *Tasks {
	return &Tasks{
		extractor:    extractor,
		completer:    completer,
		engine:       engine,
		notifier:     notifier,
		generator:    generator,
		defaultEmail: defaultEmail,
	}
}

// RegisterAll wires every task kind into the scheduler.
func (t *Tasks) RegisterAll(s *Scheduler) {
	s.Register(TaskProcessSubmission, t.ProcessSubmission)
	s.Register(TaskApproveApplication, t.ApproveApplication)
}

// ProcessSubmission runs the matching graph for a submitted document,
// checks the deduplication guard, and persists a Pending record on a
// successful match. Business rejections and duplicates complete the
// task normally; only genuine failures surface for retry.
func (t *Tasks) ProcessSubmission(ctx context.Context, db *gorm.DB, payload json.RawMessage) error {
	var p ProcessSubmissionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	reqRepo := repository.NewRequirementRepository(db)
	appRepo := repository.NewApplicationRepository(db)

	graph := pipeline.BuildMatchingGraph(t.extractor, t.completer, reqRepo, t.engine)
	state := &pipeline.State{
		DocumentPath:  p.DocumentPath,
		OverrideEmail: p.OverrideEmail,
		RequirementID: p.RequirementID,
		TargetTitle:   p.TargetTitle,
		Username:      p.Username,
	}

	if err := graph.Run(ctx, state); err != nil {
		return err
	}

	if state.MatchedRequirement == nil || state.Match == nil {
		log.WithField("decision", state.Decision).Info("submission did not match, nothing persisted")
		return nil
	}

	email := state.OverrideEmail
	if email == "" && state.Profile != nil {
		email = state.Profile.Email
	}
	name := "Unknown Candidate"
	if state.Profile != nil && state.Profile.Name != "" {
		name = state.Profile.Name
	}

	guard := NewGuard(appRepo)
	dup, err := guard.IsDuplicate(ctx, name, email, state.MatchedRequirement.Title)
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}
	if dup {
		log.WithFields(log.Fields{
			"candidate": name,
			"title":     state.MatchedRequirement.Title,
		}).Info("submission already has an active application, skipping")
		return nil
	}

	app, err := buildApplicationRecord(state, name, email)
	if err != nil {
		return err
	}
	if err := appRepo.Insert(ctx, app); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	log.WithFields(log.Fields{
		"application_id": app.ID,
		"candidate":      name,
		"title":          app.MatchedTitle,
		"score":          app.MatchedScore,
	}).Info("application saved with status Pending")
	return nil
}

func buildApplicationRecord(state *pipeline.State, name, email string) (*domain.Application, error) {
	skillsJSON, err := json.Marshal(state.Profile.Skills)
	if err != nil {
		return nil, fmt.Errorf("marshal skills: %w", err)
	}
	matchedSkillsJSON, err := json.Marshal(state.MatchedRequirement.Skills)
	if err != nil {
		return nil, fmt.Errorf("marshal matched skills: %w", err)
	}
	profileJSON, err := json.Marshal(state.Profile)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}

	return &domain.Application{
		CandidateName:             name,
		Username:                  state.Username,
		Email:                     email,
		MatchedTitle:              state.MatchedRequirement.Title,
		Status:                    domain.StatusPending,
		SkillsJSON:                string(skillsJSON),
		MatchedSkillsJSON:         string(matchedSkillsJSON),
		ExperienceYears:           state.Profile.ExperienceYears,
		MatchedExperienceRequired: state.MatchedRequirement.ExperienceRequired,
		IsMatched:                 true,
		MatchedScore:              int(math.Round(state.Match.TotalScore)),
		Justification:             state.Match.Justification,
		ProfileJSON:               string(profileJSON),
		SubmittedAt:               time.Now(),
	}, nil
}

// ApproveApplication rebuilds pipeline state from a persisted Pending
// record, runs the approval graph, and writes the terminal status
// back.
func (t *Tasks) ApproveApplication(ctx context.Context, db *gorm.DB, payload json.RawMessage) error {
	var p ApproveApplicationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	appRepo := repository.NewApplicationRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	app, err := appRepo.GetByIDWithStatus(ctx, p.ApplicationID, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("load application id=%d: %w", p.ApplicationID, err)
	}
	if app == nil {
		return fmt.Errorf("pending application id=%d not found or already processed", p.ApplicationID)
	}

	state, err := stateFromRecord(app)
	if err != nil {
		return err
	}

	graph := pipeline.BuildApprovalGraph(t.notifier, t.defaultEmail, t.generator, questionRepo)
	if err := graph.Run(ctx, state); err != nil {
		return err
	}

	status := domain.StatusRejected
	if state.Accepted() {
		status = domain.StatusAccepted
	}
	if err := appRepo.UpdateStatus(ctx, app.ID, status, state.Decision); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}

	log.WithFields(log.Fields{
		"application_id": app.ID,
		"status":         status,
		"decision":       state.Decision,
	}).Info("application status updated")
	return nil
}

func stateFromRecord(app *domain.Application) (*pipeline.State, error) {
	var profile domain.CandidateProfile
	if strings.TrimSpace(app.ProfileJSON) != "" {
		if err := json.Unmarshal([]byte(app.ProfileJSON), &profile); err != nil {
			return nil, fmt.Errorf("decode stored profile for application id=%d: %w", app.ID, err)
		}
	} else {
		profile.Name = app.CandidateName
		profile.Email = app.Email
		profile.ExperienceYears = app.ExperienceYears
	}

	var matchedSkills []string
	if strings.TrimSpace(app.MatchedSkillsJSON) != "" {
		if err := json.Unmarshal([]byte(app.MatchedSkillsJSON), &matchedSkills); err != nil {
			return nil, fmt.Errorf("decode stored matched skills for application id=%d: %w", app.ID, err)
		}
	}

	matched := domain.Requirement{
		Title:              app.MatchedTitle,
		Skills:             matchedSkills,
		ExperienceRequired: app.MatchedExperienceRequired,
	}

	return &pipeline.State{
		ApplicationID:      app.ID,
		OverrideEmail:      app.Email,
		Profile:            &profile,
		MatchedRequirement: &matched,
	}, nil
}
