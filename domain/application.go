package domain

import "time"

// Application statuses. A record is created Pending by the matching
// task and moved to Accepted or Rejected exactly once by the approval
// task (or by an explicit admin edit).
const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

// Application is the durable projection of a processed submission.
type Application struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CandidateName string `gorm:"size:255;not null" json:"candidate_name"`
	Username      string `gorm:"size:255" json:"username"`
	Email         string `gorm:"size:255" json:"email"`
	MatchedTitle  string `gorm:"size:255" json:"matched_title"`
	Status        string `gorm:"size:50;default:'Pending'" json:"status"`

	// Skill lists are stored as JSON strings, same as the rest of the
	// denormalized snapshot below.
	SkillsJSON        string `gorm:"column:skills;type:text" json:"-"`
	MatchedSkillsJSON string `gorm:"column:matched_skills;type:text" json:"-"`

	ExperienceYears           int `json:"experience_years"`
	MatchedExperienceRequired int `json:"matched_experience_required"`

	IsMatched     bool   `gorm:"default:false" json:"is_matched"`
	MatchedScore  int    `gorm:"not null;default:0" json:"matched_score"`
	Justification string `gorm:"type:text" json:"justification"`

	// Full parsed profile as a JSON string; the approval task rebuilds
	// its pipeline state from this snapshot.
	ProfileJSON string `gorm:"column:profile;type:text" json:"-"`

	SubmittedAt time.Time `json:"submitted_at"`
}
