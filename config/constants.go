package config

// MatchingScoreThreshold is the minimum total score (0-100) a
// requirement must reach for a candidate to be considered matched.
// The same threshold gates the skill-overlap percentage during approval.
const MatchingScoreThreshold = 70.0

// APIPrefix is the route prefix shared by all recruitment endpoints.
const APIPrefix = "/api/v1/recruitment"
