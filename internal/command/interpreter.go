// Package command maps an inbound text message to a reply. Handlers are tried
// in order; the first one that claims the message produces the reply.
package command

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Handler either handles a message, returning the reply, or passes.
type Handler interface {
	Name() string
	Handle(ctx context.Context, text string) (reply string, handled bool)
}

// Interpreter runs an ordered chain of handlers.
type Interpreter struct {
	handlers []Handler
	log      *zap.SugaredLogger
}

func NewInterpreter(log *zap.SugaredLogger, handlers ...Handler) *Interpreter {
	return &Interpreter{handlers: handlers, log: log}
}

// Reply always returns user-facing text; unmatched messages get MsgUnknown.
func (i *Interpreter) Reply(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	for _, h := range i.handlers {
		if reply, ok := h.Handle(ctx, text); ok {
			i.log.Debugw("message handled", "handler", h.Name())
			return reply
		}
	}
	i.log.Infow("message not recognized", "text", text)
	return MsgUnknown
}
