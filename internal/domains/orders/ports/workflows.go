package ports

import (
	"context"

	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs the order commands, durably when a workflow engine is configured.
type WorkflowOrchestrator interface {
	SubmitOrder(ctx context.Context, input ordertypes.SubmitOrderInput) (*domain.Order, error)
	ResolveOrder(ctx context.Context, input ordertypes.SetStatusInput) (*domain.Order, error)
}
