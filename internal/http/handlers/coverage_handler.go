// README: Coverage handlers: start/cancel/status plus result retention.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skyline/internal/modules/coverage"
	"skyline/internal/modules/grid"
	"skyline/internal/types"
)

type CoverageHandler struct {
	coverage *coverage.Service
	results  *coverage.Store
}

func NewCoverageHandler(svc *coverage.Service, results *coverage.Store) *CoverageHandler {
	return &CoverageHandler{coverage: svc, results: results}
}

type startRequest struct {
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	AntennaHeightM float64 `json:"antenna_height_m"`
	GridLabel      string  `json:"grid_label"`
}

// Start launches a coverage computation, superseding any in-flight one.
// When no grid label is supplied the observer's 6-character locator is used.
func (h *CoverageHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	observer := types.Point{Lat: req.Lat, Lng: req.Lng}
	label := req.GridLabel
	if label == "" {
		if loc, err := grid.Encode(observer, 6); err == nil {
			label = loc
		}
	}

	id, err := h.coverage.Start(coverage.Request{
		Observer:       observer,
		AntennaHeightM: req.AntennaHeightM,
		GridLabel:      label,
	})
	if err != nil {
		writeCoverageError(c, err)
		return
	}
	writeJSON(c, http.StatusAccepted, gin.H{"id": id})
}

func (h *CoverageHandler) Cancel(c *gin.Context) {
	h.coverage.Cancel()
	writeJSON(c, http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *CoverageHandler) Status(c *gin.Context) {
	status := gin.H{
		"state":        h.coverage.State(),
		"last_outcome": h.coverage.LastOutcome(),
		"progress":     h.coverage.Progress(),
	}
	if err := h.coverage.LastError(); err != nil {
		status["last_error"] = err.Error()
	}
	writeJSON(c, http.StatusOK, status)
}

func (h *CoverageHandler) GetResult(c *gin.Context) {
	id := types.ID(c.Param("id"))
	result, ok := h.results.Get(id)
	if !ok {
		writeError(c, http.StatusNotFound, "result not found")
		return
	}
	writeJSON(c, http.StatusOK, result)
}

type resultSummary struct {
	ID             types.ID    `json:"id"`
	Observer       types.Point `json:"observer"`
	AntennaHeightM float64     `json:"antenna_height_m"`
	GridLabel      string      `json:"grid_label,omitempty"`
	Rays           int         `json:"rays"`
	ComputedAt     string      `json:"computed_at"`
}

func (h *CoverageHandler) ListResults(c *gin.Context) {
	results := h.results.List()
	summaries := make([]resultSummary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, resultSummary{
			ID:             r.ID,
			Observer:       r.Observer,
			AntennaHeightM: r.AntennaHeightM,
			GridLabel:      r.GridLabel,
			Rays:           len(r.Rays),
			ComputedAt:     r.ComputedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(c, http.StatusOK, gin.H{"results": summaries})
}

func (h *CoverageHandler) DeleteResult(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if !h.results.Remove(id) {
		writeError(c, http.StatusNotFound, "result not found")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "removed"})
}
