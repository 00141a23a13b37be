package pipeline

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"recruitment-agent/domain"
)

// NewFinalizeStage turns the approval outcome into a terminal
// decision and, on acceptance, dispatches exactly one notification.
// A failed send never blocks acceptance; the decision only gains a
// sent-failed qualifier.
func NewFinalizeStage(notifier domain.Notifier, defaultRecipient string) Stage {
	return Stage{
		Name: "finalize",
		Run: func(ctx context.Context, s *State) error {
			if s.Profile == nil {
				return nil
			}

			if s.MatchedRequirement == nil {
				s.Decision = DecisionRejectedNoRequirement
				return nil
			}

			if s.Approved == nil {
				s.Decision = DecisionRejectedNotApproved
				return nil
			}

			recipient := s.OverrideEmail
			if recipient == "" {
				recipient = s.Profile.Email
			}
			if recipient == "" {
				recipient = defaultRecipient
			}

			if recipient == "" {
				log.Warn("no recipient address available for acceptance notification")
				s.Decision = DecisionAcceptedSendFailed
				return nil
			}

			subject := fmt.Sprintf("Offer for the %s position", s.MatchedRequirement.Title)
			body := acceptanceBody(s.Approved.Name, s.MatchedRequirement.Title)

			if err := notifier.Send(recipient, subject, body); err != nil {
				log.WithFields(log.Fields{
					"recipient": recipient,
					"error":     err,
				}).Error("acceptance notification failed to send")
				s.Decision = DecisionAcceptedSendFailed
				return nil
			}

			log.WithField("recipient", recipient).Info("acceptance notification sent")
			s.Decision = DecisionAccepted
			return nil
		},
	}
}

func acceptanceBody(name, title string) string {
	if name == "" {
		name = "Candidate"
	}
	return fmt.Sprintf(`Dear %s,

We are pleased to inform you that your application for the %s position has been accepted.

Details on the next steps will follow shortly.

Best regards,
The Recruitment Team`, name, title)
}
