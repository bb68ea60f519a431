package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	chargedomain "github.com/paylane/billing/internal/charge/domain"
	gatewaydomain "github.com/paylane/billing/internal/gateway/domain"
	invoicedomain "github.com/paylane/billing/internal/invoice/domain"
	paymentmethoddomain "github.com/paylane/billing/internal/paymentmethod/domain"
	userdomain "github.com/paylane/billing/internal/user/domain"
	"gorm.io/gorm"
)

var ErrInvalidRequest = errors.New("invalid_request")

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware renders the last handler error as a JSON body,
// mapped to a status through the domain sentinel taxonomy.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, invoicedomain.ErrInvalidTransition),
		errors.Is(err, paymentmethoddomain.ErrNoDefaultMethod):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "unprocessable",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, paymentmethoddomain.ErrDuplicateIntegration):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, invoicedomain.ErrCacheRead),
		errors.Is(err, gatewaydomain.ErrNoGateway):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: err.Error(),
		}
	case errors.Is(err, gatewaydomain.ErrChargeFailed),
		errors.Is(err, gatewaydomain.ErrCustomerCreation),
		errors.Is(err, gatewaydomain.ErrMethodCreation):
		return http.StatusBadGateway, errorPayload{
			Type:    "gateway_error",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, userdomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidItem),
		errors.Is(err, paymentmethoddomain.ErrInvalidID),
		errors.Is(err, paymentmethoddomain.ErrUnknownMethod),
		errors.Is(err, gatewaydomain.ErrUnknownMethod),
		errors.Is(err, chargedomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, chargedomain.ErrNotFound),
		errors.Is(err, paymentmethoddomain.ErrNoIntegration),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
