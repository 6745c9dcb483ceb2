package intelligence

import (
	"context"
	"errors"

	"concierge/models"
)

// ErrRateLimited marks a model call rejected for quota reasons. The
// conversation engine replies with a distinct retry-soon message for it.
var ErrRateLimited = errors.New("language model rate limited")

// Interpreter turns one user utterance plus the session context into a
// directive: a tool call with arguments, or a clarification question.
type Interpreter interface {
	Interpret(ctx context.Context, sess *models.Session, utterance string) (*models.Directive, error)
}
