package orderingserver

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	cartapp "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/application"
	cartports "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/ports"
	catalogapp "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/ports"
	orderapp "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application"
	orderdomain "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
	staffapp "github.com/Apurer/restaurant-ordering-api/internal/domains/staff/application"
	apierrors "github.com/Apurer/restaurant-ordering-api/internal/shared/errors"
)

var responder = apierrors.NewResponder("", mapOrderError, mapCartError, mapCatalogError, mapStaffError)

// respondError maps any service error into a Problem Details response.
func respondError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

// respondBindingError reports request decoding failures. Validator failures
// list each offending field.
func respondBindingError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[lowerFirst(fe.Field())] = "failed on the '" + fe.Tag() + "' rule"
		}
		responder.Respond(c, apierrors.NewValidationProblem(fields).WithDetail("request body failed validation"))
		return
	}
	responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	var validation orderdomain.ValidationError
	switch {
	case errors.As(err, &validation):
		return apierrors.NewValidationProblem(map[string]string{validation.Field: validation.Message}).
			WithDetail(validation.Message).
			WithExtension("kind", string(validation.Kind)), true
	case errors.Is(err, orderapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, orderdomain.ErrAlreadyResolved):
		return apierrors.ErrAlreadyResolved.WithDetail("the order was already accepted or rejected"), true
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return apierrors.ErrIdempotencyConflict.WithDetail(err.Error()), true
	case errors.Is(err, orderports.ErrCartNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "cart"), true
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "order"), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCartError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, cartapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, cartports.ErrProductNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "product"), true
	case errors.Is(err, cartports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "cart"), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "product"), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapStaffError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, staffapp.ErrAuthentication):
		return apierrors.ErrUnauthorized.WithDetail("invalid or missing staff credentials"), true
	case errors.Is(err, staffapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
