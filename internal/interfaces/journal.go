package interfaces

import (
	"context"

	"trading-risk-assistant/internal/types"
)

// Journal is the append-only store of past decisions. Appends must be safe
// for concurrent callers.
type Journal interface {
	Append(ctx context.Context, entry types.JournalEntry) error
	// Recent returns up to n entries, oldest first.
	Recent(ctx context.Context, n int) ([]types.JournalEntry, error)
}
