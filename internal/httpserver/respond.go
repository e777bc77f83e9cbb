package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"retail-console/internal/domain"
	"retail-console/internal/upstream"
)

// errorStatus maps the error taxonomy to HTTP statuses. Structured backend
// errors keep their original status; anything unrecognized is treated as an
// upstream failure.
func errorStatus(err error) int {
	var validationErr *domain.ValidationError
	var apiErr *upstream.APIError

	switch {
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrCredentialRejected):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrNoActiveCart):
		return http.StatusBadRequest
	case errors.As(err, &apiErr):
		return apiErr.Status
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"message": err.Error()})
}
