package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Requirement is a posted hiring requirement that candidates are
// matched against. Uploaded by an admin, read-only to the pipeline.
type Requirement struct {
	ID                 uint     `gorm:"primaryKey" json:"id"`
	Title              string   `gorm:"size:255;not null" json:"title"`
	Skills             []string `gorm:"serializer:json;not null" json:"skills"`
	ExperienceRequired int      `gorm:"not null" json:"experience_required"`
	Level              string   `gorm:"size:50;default:'Mid'" json:"level"`

	Description      string `gorm:"type:text" json:"description"`
	Company          string `gorm:"type:text" json:"company"`
	Responsibilities string `gorm:"type:text" json:"responsibilities"`
	Qualifications   string `gorm:"type:text" json:"qualifications"`

	CreatedAt time.Time `json:"created_at"`
}

// Signature identifies a requirement up to (title, sorted skills,
// experience, level). Uploads and the fetch stage deduplicate on it.
func (r Requirement) Signature() string {
	skills := make([]string, len(r.Skills))
	for i, s := range r.Skills {
		skills[i] = strings.ToLower(strings.TrimSpace(s))
	}
	sort.Strings(skills)

	parts := []string{
		strings.ToLower(strings.TrimSpace(r.Title)),
		strings.Join(skills, ","),
		strconv.Itoa(r.ExperienceRequired),
		strings.ToLower(strings.TrimSpace(r.Level)),
	}
	return strings.Join(parts, "|")
}
