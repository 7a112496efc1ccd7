package application

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
)

// BuildConsole partitions orders into pending and resolved at instant now.
// Both partitions keep the input order. The sales total covers every order.
func BuildConsole(orders []*domain.Order, now time.Time) ordertypes.ConsoleView {
	view := ordertypes.ConsoleView{
		GeneratedAt: now,
		Pending:     []ordertypes.PendingOrder{},
		Resolved:    []*domain.Order{},
		Stats:       ordertypes.ConsoleStats{SalesTotal: decimal.Zero},
	}
	for _, order := range orders {
		if order == nil {
			continue
		}
		view.Stats.SalesTotal = view.Stats.SalesTotal.Add(order.Total)
		switch order.Status {
		case domain.StatusPending:
			view.Stats.Pending++
			view.Pending = append(view.Pending, ordertypes.PendingOrder{
				Order:   order,
				Elapsed: Elapsed(order.CreatedAt, now),
			})
		case domain.StatusAccepted:
			view.Stats.Accepted++
			view.Resolved = append(view.Resolved, order)
		case domain.StatusRejected:
			view.Stats.Rejected++
			view.Resolved = append(view.Resolved, order)
		}
	}
	return view
}

// Elapsed is now - createdAt truncated to whole seconds, never negative.
func Elapsed(createdAt, now time.Time) time.Duration {
	elapsed := now.Sub(createdAt)
	if elapsed < 0 {
		return 0
	}
	return elapsed.Truncate(time.Second)
}

// FormatElapsed renders d as zero-padded mm:ss. Minutes are not capped at 59.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
