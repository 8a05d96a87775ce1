package handlers

import (
	"context"
	"net/http"

	"traffic-report/be/metrics"
	"traffic-report/be/models"
	"traffic-report/be/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IncidentRecorder interface {
	RecordIncident(ctx context.Context, incident *models.IncidentLog) error
	IngestAnalysisResult(ctx context.Context, result models.AnalysisResult) (*models.IncidentLog, error)
}

type ViolationHandler struct {
	recorder IncidentRecorder
	log      *zap.Logger
}

func NewViolationHandler(recorder IncidentRecorder, log *zap.Logger) *ViolationHandler {
	return &ViolationHandler{
		recorder: recorder,
		log:      log,
	}
}

// CreateViolationRequest mirrors the incident log fields sent by the analysis
// service. An incidentLog id in the body is ignored.
type CreateViolationRequest struct {
	SerialNo      string `json:"serialNo" binding:"required"`
	VideoURL      string `json:"videoUrl"`
	IncidentDate  string `json:"incidentDate"`
	IncidentTime  string `json:"incidentTime"`
	ViolationType string `json:"violationType"`
	PlateNo       string `json:"plateNo"`
	AIDraft       string `json:"aiDraft"`
	Location      string `json:"location"`
}

func (h *ViolationHandler) CreateViolation(c *gin.Context) {
	var req CreateViolationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IngestTotal.WithLabelValues("http", metrics.ResultMalformed).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident := models.IncidentLog{
		SerialNo:      req.SerialNo,
		VideoURL:      req.VideoURL,
		IncidentDate:  req.IncidentDate,
		IncidentTime:  req.IncidentTime,
		ViolationType: req.ViolationType,
		PlateNo:       req.PlateNo,
		AIDraft:       req.AIDraft,
		Location:      req.Location,
	}
	if err := h.recorder.RecordIncident(c.Request.Context(), &incident); err != nil {
		h.countFailure(err)
		respondError(c, h.log, err, "Failed to store violation")
		return
	}

	metrics.IngestTotal.WithLabelValues("http", metrics.ResultStored).Inc()
	h.log.Info("violation stored",
		zap.Int("incident_log", incident.ID),
		zap.String("serial_no", incident.SerialNo),
		zap.String("violation_type", incident.ViolationType))

	c.JSON(http.StatusOK, incident)
}

// CreateAnalysisResult accepts the analysis service's own payload shape.
func (h *ViolationHandler) CreateAnalysisResult(c *gin.Context) {
	var result models.AnalysisResult
	if err := c.ShouldBindJSON(&result); err != nil {
		metrics.IngestTotal.WithLabelValues("http", metrics.ResultMalformed).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.recorder.IngestAnalysisResult(c.Request.Context(), result)
	if err != nil {
		h.countFailure(err)
		respondError(c, h.log, err, "Failed to store analysis result")
		return
	}

	metrics.IngestTotal.WithLabelValues("http", metrics.ResultStored).Inc()
	h.log.Info("analysis result stored",
		zap.Int("incident_log", incident.ID),
		zap.String("serial_no", incident.SerialNo),
		zap.Float64("prob", result.Prob))

	c.JSON(http.StatusOK, incident)
}

func (h *ViolationHandler) countFailure(err error) {
	result := metrics.ResultFailed
	if services.IsRejection(err) {
		result = metrics.ResultRejected
	}
	metrics.IngestTotal.WithLabelValues("http", result).Inc()
}
