package domain

import "context"

// Completer is the structured-completion collaborator. The return is
// always a plain string; callers do their own JSON extraction on it,
// no schema is enforced here.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TextExtractor turns a submitted document on disk into plain text.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// Notifier sends an outbound notification. Errors are logged by
// callers and never change an accept/reject decision.
type Notifier interface {
	Send(to, subject, body string) error
}
