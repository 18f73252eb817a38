// Package ai holds the optional generative fallback for general questions the
// knowledge base could not answer.
package ai

import "context"

// Question is an unanswered general question together with the conversation's
// language and audience.
type Question struct {
	Message  string
	Language string
	Audience string
}

// Responder produces a free-text answer. Callers fall back to a static response on
// any error.
type Responder interface {
	Respond(ctx context.Context, q Question) (string, error)
}
