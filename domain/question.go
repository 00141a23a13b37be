package domain

import "time"

// Question is a follow-up question generated for an accepted
// application. Admins may edit the text (tracked with audit fields) or
// regenerate the whole set, which replaces all rows for the parent.
type Question struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ApplicationID uint `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"application_id"`

	QuestionText   string `gorm:"column:question;type:text;not null" json:"question"`
	Answer         string `gorm:"type:text" json:"answer"`
	EditedQuestion string `gorm:"type:text" json:"edited_question,omitempty"`
	IsEdited       bool   `gorm:"default:false" json:"is_edited"`

	Source    string     `gorm:"size:50" json:"source"`
	EditedBy  string     `gorm:"size:255" json:"edited_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
}
