package interfaces

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"recruitment-agent/config"
	"recruitment-agent/domain"
	"recruitment-agent/pipeline"
	"recruitment-agent/worker"
)

type HTTPHandler struct {
	Requirements domain.RequirementRepository
	Applications domain.ApplicationRepository
	Questions    domain.QuestionRepository
	Scheduler    *worker.Scheduler
	Generator    *pipeline.QuestionGenerator
	UploadDir    string
}

func NewHTTPHandler(
	router *gin.Engine,
	requirements domain.RequirementRepository,
	applications domain.ApplicationRepository,
	questions domain.QuestionRepository,
	scheduler *worker.Scheduler,
	generator *pipeline.QuestionGenerator,
	uploadDir string,
) {
	h := &HTTPHandler{
		Requirements: requirements,
		Applications: applications,
		Questions:    questions,
		Scheduler:    scheduler,
		Generator:    generator,
		UploadDir:    uploadDir,
	}

	api := router.Group(config.APIPrefix)

	api.POST("/upload", h.UploadCV)

	api.POST("/requirements", h.UploadRequirements)
	api.GET("/requirements", h.ListRequirements)
	api.PUT("/requirements/:id", h.UpdateRequirement)
	api.DELETE("/requirements/:id", h.DeleteRequirement)
	api.DELETE("/requirements", h.DeleteAllRequirements)

	api.GET("/applications", h.ListApplications)
	api.GET("/applications/pending", h.ListPendingApplications)
	api.GET("/applications/approved", h.ListApprovedApplications)
	api.GET("/applications/user/:username", h.ListApplicationsByUser)
	api.GET("/applications/:id", h.GetApplication)
	api.PUT("/applications/:id", h.UpdateApplication)
	api.DELETE("/applications/:id", h.DeleteApplication)
	api.POST("/applications/:id/approve", h.ApproveApplication)

	api.GET("/applications/:id/questions", h.ListQuestions)
	api.POST("/applications/:id/questions/regenerate", h.RegenerateQuestions)
	api.PUT("/questions/:id", h.EditQuestion)
}

// UploadCV saves the submitted document and queues the matching
// pipeline. The response never waits for pipeline completion.
func (h *HTTPHandler) UploadCV(c *gin.Context) {
	fileHeader, err := c.FormFile("cv_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cv_file is required"})
		return
	}

	var requirementID uint
	if idStr := c.PostForm("requirement_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid requirement_id"})
			return
		}
		requirementID = uint(id)
	}
	targetTitle := c.PostForm("position")
	if requirementID == 0 && targetTitle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requirement_id or position is required"})
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare upload directory"})
		return
	}
	dst := filepath.Join(h.UploadDir, filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save uploaded file"})
		return
	}

	payload := worker.ProcessSubmissionPayload{
		DocumentPath:  dst,
		OverrideEmail: c.PostForm("email"),
		RequirementID: requirementID,
		TargetTitle:   targetTitle,
		Username:      c.PostForm("username"),
	}
	if err := h.Scheduler.Enqueue(c.Request.Context(), worker.TaskProcessSubmission, payload); err != nil {
		log.WithField("error", err).Error("failed to enqueue submission task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "CV received and is being processed."})
}

// UploadRequirements accepts a batch of requirement definitions,
// skipping invalid entries and exact duplicates by signature.
func (h *HTTPHandler) UploadRequirements(c *gin.Context) {
	var reqs []domain.Requirement
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, skipped := 0, 0
	for i := range reqs {
		req := reqs[i]
		req.ID = 0
		if strings.TrimSpace(req.Title) == "" || len(req.Skills) == 0 {
			skipped++
			continue
		}
		if req.Level == "" {
			req.Level = "Mid"
		}

		existing, err := h.Requirements.FindBySignature(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check existing requirements"})
			return
		}
		if existing != nil {
			skipped++
			continue
		}

		if err := h.Requirements.Create(c.Request.Context(), &req); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save requirement"})
			return
		}
		created++
	}

	c.JSON(http.StatusOK, gin.H{"message": "Requirements uploaded.", "created": created, "skipped": skipped})
}

func (h *HTTPHandler) ListRequirements(c *gin.Context) {
	reqs, err := h.Requirements.List(c.Request.Context(), c.Query("position"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requirements"})
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *HTTPHandler) UpdateRequirement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body struct {
		Title              *string   `json:"title"`
		Skills             *[]string `json:"skills"`
		ExperienceRequired *int      `json:"experience_required"`
		Level              *string   `json:"level"`
		Description        *string   `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if body.Title != nil {
		fields["title"] = *body.Title
	}
	if body.Skills != nil {
		raw, _ := json.Marshal(*body.Skills)
		fields["skills"] = string(raw)
	}
	if body.ExperienceRequired != nil {
		fields["experience_required"] = *body.ExperienceRequired
	}
	if body.Level != nil {
		fields["level"] = *body.Level
	}
	if body.Description != nil {
		fields["description"] = *body.Description
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	if err := h.Requirements.Update(c.Request.Context(), id, fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update requirement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Requirement updated."})
}

func (h *HTTPHandler) DeleteRequirement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Requirements.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete requirement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Requirement deleted."})
}

func (h *HTTPHandler) DeleteAllRequirements(c *gin.Context) {
	if err := h.Requirements.DeleteAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete requirements"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All requirements deleted."})
}

func (h *HTTPHandler) ListApplications(c *gin.Context) {
	apps, err := h.Applications.List(c.Request.Context(), c.Query("position"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}
	c.JSON(http.StatusOK, summaries(apps))
}

func (h *HTTPHandler) ListPendingApplications(c *gin.Context) {
	apps, err := h.Applications.ListByStatus(c.Request.Context(), domain.StatusPending, c.Query("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}
	c.JSON(http.StatusOK, summaries(apps))
}

func (h *HTTPHandler) ListApprovedApplications(c *gin.Context) {
	apps, err := h.Applications.ListByStatus(c.Request.Context(), domain.StatusAccepted, c.Query("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}
	c.JSON(http.StatusOK, summaries(apps))
}

func (h *HTTPHandler) ListApplicationsByUser(c *gin.Context) {
	apps, err := h.Applications.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}
	out := make([]gin.H, 0, len(apps))
	for i := range apps {
		out = append(out, detail(&apps[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *HTTPHandler) GetApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	app, err := h.Applications.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load application"})
		return
	}
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}
	c.JSON(http.StatusOK, detail(app))
}

func (h *HTTPHandler) UpdateApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body struct {
		CandidateName *string `json:"candidate_name"`
		Email         *string `json:"email"`
		Status        *string `json:"status"`
		Justification *string `json:"justification"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if body.CandidateName != nil {
		fields["candidate_name"] = *body.CandidateName
	}
	if body.Email != nil {
		fields["email"] = *body.Email
	}
	if body.Status != nil {
		switch *body.Status {
		case domain.StatusPending, domain.StatusAccepted, domain.StatusRejected:
			fields["status"] = *body.Status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
	}
	if body.Justification != nil {
		fields["justification"] = *body.Justification
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	if err := h.Applications.Update(c.Request.Context(), id, fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update application"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application updated."})
}

func (h *HTTPHandler) DeleteApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Applications.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete application"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application deleted."})
}

// ApproveApplication queues the approval pipeline for a Pending
// record. The terminal status lands asynchronously.
func (h *HTTPHandler) ApproveApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	app, err := h.Applications.GetByIDWithStatus(c.Request.Context(), id, domain.StatusPending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load application"})
		return
	}
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pending application not found"})
		return
	}

	payload := worker.ApproveApplicationPayload{ApplicationID: id}
	if err := h.Scheduler.Enqueue(c.Request.Context(), worker.TaskApproveApplication, payload); err != nil {
		log.WithField("error", err).Error("failed to enqueue approval task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue approval"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Approval queued."})
}

func (h *HTTPHandler) ListQuestions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	questions, err := h.Questions.ListByApplication(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list questions"})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// RegenerateQuestions replaces the stored question set for an
// application with a freshly generated one.
func (h *HTTPHandler) RegenerateQuestions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	app, err := h.Applications.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load application"})
		return
	}
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}

	var profile domain.CandidateProfile
	if app.ProfileJSON != "" {
		if err := json.Unmarshal([]byte(app.ProfileJSON), &profile); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "stored profile is corrupted"})
			return
		}
	}
	var matchedSkills []string
	if app.MatchedSkillsJSON != "" {
		_ = json.Unmarshal([]byte(app.MatchedSkillsJSON), &matchedSkills)
	}
	req := domain.Requirement{
		Title:              app.MatchedTitle,
		Skills:             matchedSkills,
		ExperienceRequired: app.MatchedExperienceRequired,
	}

	questions, err := h.Generator.Generate(c.Request.Context(), profile, req)
	if err != nil {
		log.WithFields(log.Fields{"application_id": id, "error": err}).Error("question regeneration failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate questions"})
		return
	}
	if err := h.Questions.ReplaceForApplication(c.Request.Context(), id, questions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store questions"})
		return
	}

	stored, err := h.Questions.ListByApplication(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list questions"})
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (h *HTTPHandler) EditQuestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body struct {
		Question string `json:"question" binding:"required"`
		EditedBy string `json:"edited_by"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := h.Questions.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load question"})
		return
	}
	if q == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}

	if err := h.Questions.Edit(c.Request.Context(), id, body.Question, body.EditedBy); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update question"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question updated."})
}

func parseID(c *gin.Context) (uint, bool) {
	idStr := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func summaries(apps []domain.Application) []gin.H {
	out := make([]gin.H, 0, len(apps))
	for i := range apps {
		app := &apps[i]
		out = append(out, gin.H{
			"id":             app.ID,
			"candidate_name": app.CandidateName,
			"email":          app.Email,
			"position":       app.MatchedTitle,
			"matched_score":  app.MatchedScore,
			"justification":  app.Justification,
			"status":         app.Status,
			"submitted_at":   app.SubmittedAt,
		})
	}
	return out
}

func detail(app *domain.Application) gin.H {
	var skills, matchedSkills []string
	if app.SkillsJSON != "" {
		_ = json.Unmarshal([]byte(app.SkillsJSON), &skills)
	}
	if app.MatchedSkillsJSON != "" {
		_ = json.Unmarshal([]byte(app.MatchedSkillsJSON), &matchedSkills)
	}
	var profile map[string]interface{}
	if app.ProfileJSON != "" {
		_ = json.Unmarshal([]byte(app.ProfileJSON), &profile)
	}

	return gin.H{
		"id":                          app.ID,
		"candidate_name":              app.CandidateName,
		"username":                    app.Username,
		"email":                       app.Email,
		"position":                    app.MatchedTitle,
		"experience_years":            app.ExperienceYears,
		"matched_experience_required": app.MatchedExperienceRequired,
		"skills":                      skills,
		"matched_skills":              matchedSkills,
		"is_matched":                  app.IsMatched,
		"matched_score":               app.MatchedScore,
		"justification":               app.Justification,
		"status":                      app.Status,
		"profile":                     profile,
		"submitted_at":                app.SubmittedAt,
	}
}
