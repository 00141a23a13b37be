package domain

// MatchResult is the scoring engine output for one candidate /
// requirement pair. MainScore covers deterministic skill-overlap fit
// (0-80), ExtraScore covers education and language fit (0-20), and
// TotalScore is their sum clamped to 0-100.
type MatchResult struct {
	MainScore     float64 `json:"main_score"`
	ExtraScore    float64 `json:"extra_score"`
	TotalScore    float64 `json:"total_score"`
	Rationale     string  `json:"rationale"`
	Justification string  `json:"justification"`
}
