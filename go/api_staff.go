package orderingserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	staffapp "github.com/Apurer/restaurant-ordering-api/internal/domains/staff/application"
	staffports "github.com/Apurer/restaurant-ordering-api/internal/domains/staff/ports"
)

// StaffContextKey holds the authenticated staff username on the gin context.
const StaffContextKey = "staff"

// StaffAPI handles staff sign-in.
type StaffAPI struct {
	service staffports.Service
}

func NewStaffAPI(service staffports.Service) StaffAPI {
	return StaffAPI{service: service}
}

// Post /api/v1/staff/login
// Exchanges staff credentials for a bearer token
func (api *StaffAPI) Login(c *gin.Context) {
	if api.service == nil {
		respondError(c, staffapp.ErrAuthentication)
		return
	}
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	token, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token.Value, TokenType: "Bearer", ExpiresAt: token.ExpiresAt})
}

// RequireStaff admits requests carrying a valid staff token, either as a
// Bearer Authorization header or as an access_token query parameter for
// EventSource clients that cannot set headers.
func RequireStaff(service staffports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = strings.TrimSpace(c.Query("access_token"))
		}
		username, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Header("WWW-Authenticate", `Bearer realm="staff"`)
			respondError(c, err)
			return
		}
		c.Set(StaffContextKey, username)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
