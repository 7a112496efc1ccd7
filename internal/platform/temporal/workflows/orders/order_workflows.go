package orders

import (
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/platform/temporal/sequences"
)

const (
	// SubmissionWorkflowName is the public identifier for registering the submission workflow.
	SubmissionWorkflowName = "orders.workflows.Submission"
	// ResolutionWorkflowName is the public identifier for registering the resolution workflow.
	ResolutionWorkflowName = "orders.workflows.Resolution"
	// OrderProcessingTaskQueue is the queue consumed by the worker processing order workflows.
	OrderProcessingTaskQueue = "ORDER_PROCESSING"
)

// SubmissionWorkflowInput captures the payload required to submit an order.
type SubmissionWorkflowInput struct {
	Command ordertypes.SubmitOrderInput
	TraceID string
}

// ResolutionWorkflowInput captures a staff decision on a pending order.
type ResolutionWorkflowInput struct {
	Command ordertypes.SetStatusInput
	TraceID string
}

// SubmissionWorkflow turns a cart into a pending order. Commands without an
// idempotency key get the workflow id as key so activity retries stay safe.
func SubmissionWorkflow(ctx workflow.Context, input SubmissionWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	command := input.Command
	if command.IdempotencyKey == "" {
		command.IdempotencyKey = workflow.GetInfo(ctx).WorkflowExecution.ID
	}
	logger.Info("SubmissionWorkflow started", withTraceID(input.TraceID, "cartId", command.CartID)...)
	order, err := sequences.RunSubmissionSequence(ctx, command)
	if err != nil {
		logger.Error("SubmissionWorkflow failed", withTraceID(input.TraceID, "cartId", command.CartID, "error", err)...)
		return nil, err
	}
	logger.Info("SubmissionWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

// ResolutionWorkflow accepts or rejects an order and books delivery when needed.
func ResolutionWorkflow(ctx workflow.Context, input ResolutionWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ResolutionWorkflow started", withTraceID(input.TraceID, "orderId", input.Command.OrderID)...)
	order, err := sequences.RunResolutionSequence(ctx, input.Command)
	if err != nil {
		logger.Error("ResolutionWorkflow failed", withTraceID(input.TraceID, "orderId", input.Command.OrderID, "error", err)...)
		return nil, err
	}
	logger.Info("ResolutionWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID, "status", string(order.Status))...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
