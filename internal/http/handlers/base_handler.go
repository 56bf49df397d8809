// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skyline/internal/modules/coverage"
	"skyline/internal/modules/elevation"
	"skyline/internal/modules/grid"
	"skyline/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeCoverageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, coverage.ErrInvalidRequest),
		errors.Is(err, grid.ErrInvalidLocator),
		errors.Is(err, types.ErrOutOfRange):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, elevation.ErrRateLimitExhausted),
		errors.Is(err, elevation.ErrProviderUnavailable):
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
