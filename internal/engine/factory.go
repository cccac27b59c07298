package engine

import (
	"time"

	"github.com/google/uuid"

	"trading-risk-assistant/internal/interfaces"
)

type Option func(*Engine)

// WithClock overrides the source of Decision.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides the source of Decision.ID.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

func New(rules interfaces.RulesProvider, opts ...Option) *Engine {
	e := &Engine{
		rules: rules,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
