package v1

import (
	"net/http"

	"github.com/billflow/billflow/internal/logger"
	"github.com/billflow/billflow/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service service.DashboardService
	log     *logger.Logger
}

func NewDashboardHandler(service service.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, log: log}
}

// @Summary Get dashboard metrics
// @Description Get the aggregated revenue, subscription and invoice metrics
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.DashboardMetricsResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	resp, err := h.service.GetMetrics(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get dashboard metrics", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
