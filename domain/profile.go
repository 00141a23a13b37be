package domain

import "strings"

// CEFR is the closed language-proficiency scale used on parsed
// profiles. Anything outside the known levels collapses to Unknown.
type CEFR string

const (
	CEFRA1      CEFR = "A1"
	CEFRA2      CEFR = "A2"
	CEFRB1      CEFR = "B1"
	CEFRB2      CEFR = "B2"
	CEFRC1      CEFR = "C1"
	CEFRC2      CEFR = "C2"
	CEFRUnknown CEFR = "Unknown"
)

// NormalizeCEFR maps free-form model output onto the closed enum.
func NormalizeCEFR(s string) CEFR {
	switch CEFR(strings.ToUpper(strings.TrimSpace(s))) {
	case CEFRA1, CEFRA2, CEFRB1, CEFRB2, CEFRC1, CEFRC2:
		return CEFR(strings.ToUpper(strings.TrimSpace(s)))
	default:
		return CEFRUnknown
	}
}

type Education struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	GPA         *float64 `json:"gpa,omitempty"`
	GPAScale    *float64 `json:"gpa_scale,omitempty"`
}

type LanguageProficiency struct {
	Language    string `json:"language"`
	Proficiency CEFR   `json:"proficiency_cefr"`
}

// CandidateProfile holds the structured fields extracted from a
// submitted document. Built once by the parse stage and treated as
// immutable afterwards, except for the denormalized CVFileName that
// points back to the uploaded document.
type CandidateProfile struct {
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	Skills          []string              `json:"skills"`
	ExperienceYears int                   `json:"experience_years"`
	Education       []Education           `json:"education"`
	Languages       []LanguageProficiency `json:"languages"`

	CVFileName string `json:"cv_file_name,omitempty"`
}
