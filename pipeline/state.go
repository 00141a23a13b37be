package pipeline

import "recruitment-agent/domain"

// Terminal decision strings. The prefix (Accepted/Rejected) doubles as
// the persisted application status, the remainder is the
// human-readable reason.
const (
	DecisionRejectedNoMatch       = "Rejected: no matching requirement found"
	DecisionRejectedNoRequirement = "Rejected: no matching requirement"
	DecisionRejectedNotApproved   = "Rejected: candidate not approved"
	DecisionAccepted              = "Accepted: notification sent"
	DecisionAcceptedSendFailed    = "Accepted: notification send failed"
)

// State is the mutable bag threaded through one pipeline run. It is
// created fresh per run and discarded after persistence; the
// Application record is the durable projection.
type State struct {
	// Inputs.
	DocumentPath  string
	OverrideEmail string
	RequirementID uint
	TargetTitle   string
	Username      string

	// Set by the matching graph.
	Profile            *domain.CandidateProfile
	Requirements       []domain.Requirement
	Match              *domain.MatchResult
	MatchedRequirement *domain.Requirement

	// Set by the approval graph. ApplicationID references the
	// persisted record the graph operates on.
	ApplicationID uint
	Approved      *domain.CandidateProfile
	Questions     []domain.Question

	// Terminal signals.
	Decision     string
	StopPipeline bool
}

// Accepted reports whether the run reached an accepting decision.
func (s *State) Accepted() bool {
	return s.Decision == DecisionAccepted || s.Decision == DecisionAcceptedSendFailed
}
