// README: Grid locator handlers (encode point, decode locator).
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skyline/internal/modules/grid"
	"skyline/internal/types"
)

type GridHandler struct{}

func NewGridHandler() *GridHandler {
	return &GridHandler{}
}

// Encode returns the locator for ?lat=&lng= at ?precision= (default 6).
func (h *GridHandler) Encode(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		writeError(c, http.StatusBadRequest, "lat and lng query parameters are required")
		return
	}
	precision := 6
	if v := c.Query("precision"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid precision")
			return
		}
		precision = p
	}

	locator, err := grid.Encode(types.Point{Lat: lat, Lng: lng}, precision)
	if err != nil {
		writeCoverageError(c, err)
		return
	}
	bounds, err := grid.Decode(locator)
	if err != nil {
		writeCoverageError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"locator": locator, "bounds": bounds})
}

// Decode returns the tile bounds of /:locator.
func (h *GridHandler) Decode(c *gin.Context) {
	bounds, err := grid.Decode(c.Param("locator"))
	if err != nil {
		writeCoverageError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, bounds)
}
