package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"recruitment-agent/domain"
)

const (
	maxMainScore  = 80.0
	maxExtraScore = 20.0
	maxTotalScore = 100.0

	// Reported totals further off than this from main+extra are
	// discarded and recomputed.
	totalTolerance = 0.5
)

// Engine computes a match score between a candidate profile and a
// requirement record. The skill overlap is deterministic; the score
// breakdown itself is judged by the completion collaborator and
// validated against the invariants on domain.MatchResult.
type Engine struct {
	completer domain.Completer
}

func NewEngine(completer domain.Completer) *Engine {
	return &Engine{completer: completer}
}

// SkillOverlap reports which required skills a candidate satisfies and
// the resulting percentage. A required skill counts as satisfied when
// it contains, or is contained in, any candidate skill
// (case-insensitive).
func SkillOverlap(candidate, required []string) (matched []string, pct float64) {
	if len(required) == 0 {
		return nil, 0
	}

	lowered := make([]string, 0, len(candidate))
	for _, s := range candidate {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			lowered = append(lowered, s)
		}
	}

	for _, req := range required {
		reqLower := strings.ToLower(strings.TrimSpace(req))
		if reqLower == "" {
			continue
		}
		for _, cand := range lowered {
			if strings.Contains(cand, reqLower) || strings.Contains(reqLower, cand) {
				matched = append(matched, req)
				break
			}
		}
	}

	pct = float64(len(matched)) / float64(len(required)) * 100
	return matched, pct
}

// Score evaluates one candidate/requirement pair. It never mutates its
// inputs. A failure to obtain or parse the judged breakdown is
// returned as an error; callers treat it as a soft failure and skip
// the pair.
func (e *Engine) Score(ctx context.Context, profile domain.CandidateProfile, req domain.Requirement) (domain.MatchResult, error) {
	matchedSkills, overlapPct := SkillOverlap(profile.Skills, req.Skills)

	prompt := buildScoringPrompt(profile, req, matchedSkills, overlapPct)

	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("completion call: %w", err)
	}

	result, err := parseMatchResult(raw)
	if err != nil {
		return domain.MatchResult{}, err
	}

	return clampResult(result), nil
}

// Best selects the result with the strictly highest total score. Ties
// keep the earliest index. Returns -1 when the slice is empty.
func Best(results []domain.MatchResult) int {
	best := -1
	bestScore := -1.0
	for i, r := range results {
		if r.TotalScore > bestScore {
			bestScore = r.TotalScore
			best = i
		}
	}
	return best
}

func buildScoringPrompt(profile domain.CandidateProfile, req domain.Requirement, matchedSkills []string, overlapPct float64) string {
	var b strings.Builder

	b.WriteString("You are a recruitment evaluator. Score how well the candidate fits the requirement.\n\n")

	fmt.Fprintf(&b, "Candidate skills: %s\n", strings.Join(profile.Skills, ", "))
	fmt.Fprintf(&b, "Candidate experience: %d years\n", profile.ExperienceYears)

	if len(profile.Education) > 0 {
		b.WriteString("Candidate education:\n")
		for _, edu := range profile.Education {
			fmt.Fprintf(&b, "- %s, %s", edu.Degree, edu.Institution)
			if edu.GPA != nil {
				fmt.Fprintf(&b, " (GPA %.2f", *edu.GPA)
				if edu.GPAScale != nil {
					fmt.Fprintf(&b, "/%.0f", *edu.GPAScale)
				}
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}
	if len(profile.Languages) > 0 {
		b.WriteString("Candidate languages:\n")
		for _, lang := range profile.Languages {
			fmt.Fprintf(&b, "- %s (%s)\n", lang.Language, lang.Proficiency)
		}
	}

	fmt.Fprintf(&b, "\nRequirement: %s (level %s)\n", req.Title, req.Level)
	fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(req.Skills, ", "))
	fmt.Fprintf(&b, "Required experience: %d years\n", req.ExperienceRequired)
	fmt.Fprintf(&b, "Deterministic skill overlap: %.1f%% (%s)\n", overlapPct, strings.Join(matchedSkills, ", "))

	b.WriteString(`
Score the fit:
- main_score: skill and experience fit, 0 to 80
- extra_score: education and language fit, 0 to 20
- total_score: main_score + extra_score

Return strict JSON only, no markdown, no explanation outside the JSON:
{"main_score": number, "extra_score": number, "total_score": number, "rationale": "short string", "justification": "1-3 sentences"}
`)

	return b.String()
}

func parseMatchResult(raw string) (domain.MatchResult, error) {
	cleaned := CleanJSONResponse(raw)

	var payload struct {
		MainScore     *float64 `json:"main_score"`
		ExtraScore    *float64 `json:"extra_score"`
		TotalScore    *float64 `json:"total_score"`
		Rationale     string   `json:"rationale"`
		Justification string   `json:"justification"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return domain.MatchResult{}, fmt.Errorf("parse score response: %w", err)
	}
	if payload.MainScore == nil && payload.ExtraScore == nil && payload.TotalScore == nil {
		return domain.MatchResult{}, fmt.Errorf("score response carries no scores: %s", cleaned)
	}

	result := domain.MatchResult{
		Rationale:     payload.Rationale,
		Justification: payload.Justification,
	}
	if payload.MainScore != nil {
		result.MainScore = *payload.MainScore
	}
	if payload.ExtraScore != nil {
		result.ExtraScore = *payload.ExtraScore
	}
	if payload.TotalScore != nil {
		result.TotalScore = *payload.TotalScore
	}
	return result, nil
}

func clampResult(r domain.MatchResult) domain.MatchResult {
	r.MainScore = clamp(r.MainScore, 0, maxMainScore)
	r.ExtraScore = clamp(r.ExtraScore, 0, maxExtraScore)

	sum := r.MainScore + r.ExtraScore
	if math.Abs(r.TotalScore-sum) > totalTolerance {
		r.TotalScore = sum
	}
	r.TotalScore = clamp(r.TotalScore, 0, maxTotalScore)
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
