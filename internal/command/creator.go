package command

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrWritesDisabled is the policy answer to every create request.
var ErrWritesDisabled = errors.New("write operations are disabled")

// Creator performs GitHub writes. Dispatch only looks at the returned error,
// so enabling writes means wiring a different Creator.
type Creator interface {
	CreateRepo(ctx context.Context, name string) error
	CreateIssue(ctx context.Context, repo, title, body string) error
}

// DisabledCreator refuses every write.
type DisabledCreator struct {
	log *zap.SugaredLogger
}

func NewDisabledCreator(log *zap.SugaredLogger) DisabledCreator {
	return DisabledCreator{log: log}
}

func (c DisabledCreator) CreateRepo(_ context.Context, name string) error {
	c.log.Infow("create repo refused", "name", name, "reason", ErrWritesDisabled)
	return ErrWritesDisabled
}

func (c DisabledCreator) CreateIssue(_ context.Context, repo, title, _ string) error {
	c.log.Infow("create issue refused", "repo", repo, "title", title, "reason", ErrWritesDisabled)
	return ErrWritesDisabled
}
