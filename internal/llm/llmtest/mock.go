// Package llmtest provides a testify mock of llm.Completer.
package llmtest

import (
	"context"

	"github.com/kevinmichaelchen/gh-sms/internal/llm"
	"github.com/stretchr/testify/mock"
)

type Completer struct{ mock.Mock }

var _ llm.Completer = (*Completer)(nil)

func (m *Completer) Name() string { return "mock" }

func (m *Completer) Complete(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
