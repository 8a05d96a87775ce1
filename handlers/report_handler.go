package handlers

import (
	"context"
	"net/http"

	"traffic-report/be/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportFinder interface {
	FindReportsByUserID(ctx context.Context, userID int) ([]models.Report, error)
}

type ReportHandler struct {
	finder ReportFinder
	log    *zap.Logger
}

func NewReportHandler(finder ReportFinder, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		finder: finder,
		log:    log,
	}
}

// GetReports returns every report of the user as a JSON array, [] when none.
func (h *ReportHandler) GetReports(c *gin.Context) {
	userID, ok := intParam(c, "userId")
	if !ok {
		return
	}

	h.log.Info("report list requested", zap.Int("user_id", userID))

	reports, err := h.finder.FindReportsByUserID(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("failed to fetch reports", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}

	c.JSON(http.StatusOK, reports)
}
