package handlers

import (
	"net/http"

	"github.com/VincentGavrila07/Quizzy/internal/services"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStatistics godoc
// @Summary      Site statistics
// @Tags         stats
// @Produce      json
// @Success      200 {object} services.SiteStatistics
// @Failure      500 {object} ErrorResponse
// @Router       /api/v1/stats [get]
func (h *StatsHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statsService.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
