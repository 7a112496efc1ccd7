package orderingserver

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	orderports "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

// DefaultConsoleRefresh is how often the console stream pushes a new view.
const DefaultConsoleRefresh = time.Second

// ConsoleAPI serves the staff console.
type ConsoleAPI struct {
	service  orderports.Service
	interval time.Duration
}

// NewConsoleAPI creates a ConsoleAPI. A non-positive interval uses DefaultConsoleRefresh.
func NewConsoleAPI(service orderports.Service, interval time.Duration) ConsoleAPI {
	if interval <= 0 {
		interval = DefaultConsoleRefresh
	}
	return ConsoleAPI{service: service, interval: interval}
}

// Get /api/v1/console
// Returns pending and resolved orders with stats
func (api *ConsoleAPI) GetConsole(c *gin.Context) {
	view, err := api.service.Console(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromConsoleView(view))
}

// Get /api/v1/console/stream
// Streams the console view as server-sent "console" events until the client disconnects
func (api *ConsoleAPI) StreamConsole(c *gin.Context) {
	ctx := c.Request.Context()
	ticker := time.NewTicker(api.interval)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	first := true
	c.Stream(func(io.Writer) bool {
		if !first {
			select {
			case <-ctx.Done():
				return false
			case <-ticker.C:
			}
		}
		first = false
		view, err := api.service.Console(ctx)
		if err != nil {
			c.SSEvent("error", gin.H{"detail": err.Error()})
			return false
		}
		c.SSEvent("console", fromConsoleView(view))
		return true
	})
}
