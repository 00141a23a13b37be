package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"recruitment-agent/domain"
	"recruitment-agent/scoring"
)

const parsePromptTemplate = `You are an ATS parser. From the following CV text, extract:
- name (string)
- email (string)
- skills (list of strings)
- experience_years (integer)
- education (list of objects: institution, degree, gpa, gpa_scale)
- languages (list of objects: language, proficiency_cefr where proficiency_cefr is one of A1, A2, B1, B2, C1, C2, Unknown)

CV Content:
%s

Respond ONLY with the JSON object. No explanation, no comment.`

// NewParseStage extracts text from the submitted document and asks the
// completion collaborator for structured fields. Empty or undecodable
// model output fails the whole run; the task scheduler decides whether
// to retry.
func NewParseStage(extractor domain.TextExtractor, completer domain.Completer) Stage {
	return Stage{
		Name: "parse",
		Run: func(ctx context.Context, s *State) error {
			text, err := extractor.ExtractText(s.DocumentPath)
			if err != nil {
				return fmt.Errorf("extract document text: %w", err)
			}

			raw, err := completer.Complete(ctx, fmt.Sprintf(parsePromptTemplate, text))
			if err != nil {
				return fmt.Errorf("completion call: %w", err)
			}
			if strings.TrimSpace(raw) == "" {
				return fmt.Errorf("empty response from completion collaborator")
			}

			profile, err := parseProfile(raw)
			if err != nil {
				return err
			}

			profile.CVFileName = filepath.Base(s.DocumentPath)
			s.Profile = profile
			return nil
		},
	}
}

// parseProfile decodes the model output. The shape of every field is
// coerced rather than trusted: experience may arrive as a string or
// float, skills as a comma-joined string, and so on.
func parseProfile(raw string) (*domain.CandidateProfile, error) {
	cleaned := scoring.CleanJSONResponse(raw)

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON from completion after cleaning: %w", err)
	}

	profile := &domain.CandidateProfile{
		Name:            coerceString(obj["name"]),
		Email:           coerceString(obj["email"]),
		Skills:          coerceSkills(obj["skills"]),
		ExperienceYears: coerceExperience(obj["experience_years"]),
		Education:       coerceEducation(obj["education"]),
		Languages:       coerceLanguages(obj["languages"]),
	}
	return profile, nil
}

func coerceString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func coerceExperience(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return int(f)
	default:
		return 0
	}
}

func coerceSkills(v interface{}) []string {
	var out []string
	switch val := v.(type) {
	case []interface{}:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.FieldsFunc(val, func(r rune) bool {
			return r == ',' || r == ';' || r == '\n'
		}) {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func coerceEducation(v interface{}) []domain.Education {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []domain.Education
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		edu := domain.Education{
			Institution: coerceString(entry["institution"]),
			Degree:      coerceString(entry["degree"]),
		}
		if gpa, ok := coerceFloat(entry["gpa"]); ok {
			edu.GPA = &gpa
		}
		if scale, ok := coerceFloat(entry["gpa_scale"]); ok {
			edu.GPAScale = &scale
		}
		out = append(out, edu)
	}
	return out
}

func coerceLanguages(v interface{}) []domain.LanguageProficiency {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []domain.LanguageProficiency
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		lang := coerceString(entry["language"])
		if lang == "" {
			continue
		}
		out = append(out, domain.LanguageProficiency{
			Language:    lang,
			Proficiency: domain.NormalizeCEFR(coerceString(entry["proficiency_cefr"])),
		})
	}
	return out
}

func coerceFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(val), ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
