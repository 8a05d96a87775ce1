package handlers

import (
	"context"
	"net/http"

	"traffic-report/be/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DeviceRegistry interface {
	RegisterDevice(ctx context.Context, serialNo string, historyID int) (*models.Device, error)
	ListDevices(ctx context.Context, historyID int) ([]models.Device, error)
}

type DeviceHandler struct {
	devices DeviceRegistry
	log     *zap.Logger
}

func NewDeviceHandler(devices DeviceRegistry, log *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		devices: devices,
		log:     log,
	}
}

type RegisterDeviceRequest struct {
	SerialNo  string `json:"serialNo" binding:"required"`
	HistoryID int    `json:"historyId" binding:"required"`
}

func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, err := h.devices.RegisterDevice(c.Request.Context(), req.SerialNo, req.HistoryID)
	if err != nil {
		respondError(c, h.log, err, "Failed to register device")
		return
	}

	h.log.Info("device registered", zap.String("serial_no", device.SerialNo), zap.Int("history_id", device.HistoryID))
	c.JSON(http.StatusCreated, device)
}

func (h *DeviceHandler) ListUserDevices(c *gin.Context) {
	userID, ok := intParam(c, "userId")
	if !ok {
		return
	}

	devices, err := h.devices.ListDevices(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch devices")
		return
	}
	if devices == nil {
		devices = []models.Device{}
	}

	c.JSON(http.StatusOK, devices)
}
