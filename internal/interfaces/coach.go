package interfaces

import (
	"context"

	"trading-risk-assistant/internal/types"
)

type Coach interface {
	Insights(ctx context.Context) (types.Insights, error)
}
