package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vlasovdm/resell-tracker/internal/api/middleware"
	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/service"
	"github.com/vlasovdm/resell-tracker/internal/timeutil"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetResellSummary сводка перекупа, period принимает day/week/month/all
func (h *StatsHandler) GetResellSummary(c *gin.Context) {
	userID := middleware.GetUserID(c)
	period := models.ParsePeriod(c.DefaultQuery("period", "all"))

	summary, err := h.statsService.Summary(c.Request.Context(), userID, period, timeutil.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetSales история продаж, time_filter только day/week/all
func (h *StatsHandler) GetSales(c *gin.Context) {
	userID := middleware.GetUserID(c)

	filter := models.ParseTimeFilter(c.DefaultQuery("time_filter", "all"))
	deal := models.ParseDealFilter(c.DefaultQuery("deal_filter", "all"))

	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	pageSize := 0
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 {
			pageSize = parsed
		}
	}

	report, err := h.statsService.SalesReport(c.Request.Context(), userID, filter, deal, page, pageSize, timeutil.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetRentalStats статистика автопарка с серией для графика
func (h *StatsHandler) GetRentalStats(c *gin.Context) {
	userID := middleware.GetUserID(c)
	filter := models.ParseTimeFilter(c.DefaultQuery("time_filter", "all"))

	report, err := h.statsService.RentalReport(c.Request.Context(), userID, filter, timeutil.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
