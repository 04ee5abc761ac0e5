package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gravity/internal/apierr"
	"gravity/internal/models"
	"gravity/internal/relay"
)

// classify maps domain errors onto the HTTP taxonomy.
func classify(err error) *apierr.Error {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return apierr.NotFound(err)
	case errors.Is(err, relay.ErrAuthRequired):
		return apierr.AuthRequired(err)
	case errors.As(err, &verr),
		errors.Is(err, relay.ErrInvalidInput),
		errors.Is(err, relay.ErrUnknownProvider):
		return apierr.Validation(err)
	case relay.IsUpstream(err):
		return apierr.Upstream(err)
	}
	return apierr.As(err)
}

// fail writes the error response. Nothing may have been written yet.
func (h *Handler) fail(c *gin.Context, err error) {
	e := classify(err)
	fields := map[string]interface{}{
		"path":   c.FullPath(),
		"status": e.Status,
		"code":   e.Code,
	}

	switch e.Status {
	case http.StatusUnauthorized:
		c.String(e.Status, relay.ErrAuthRequired.Error())
		return
	case http.StatusNotFound:
		c.JSON(e.Status, gin.H{"error": "Not found", "code": e.Code})
		return
	case http.StatusInternalServerError:
		h.log.WithError(err).Error("request failed", fields)
		c.JSON(e.Status, gin.H{"error": "internal server error", "code": e.Code})
		return
	case http.StatusBadGateway:
		h.log.WithError(err).Warn("upstream failure", fields)
	}
	c.JSON(e.Status, gin.H{"error": e.Error(), "code": e.Code})
}
