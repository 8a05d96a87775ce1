package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"traffic-report/be/models"
	"traffic-report/be/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRegistry struct {
	devices map[int][]models.Device
	err     error
}

func (f *fakeRegistry) RegisterDevice(ctx context.Context, serialNo string, historyID int) (*models.Device, error) {
	if f.err != nil {
		return nil, f.err
	}
	device := models.Device{DeviceID: len(f.devices[historyID]) + 1, SerialNo: serialNo, HistoryID: historyID}
	f.devices[historyID] = append(f.devices[historyID], device)
	return &device, nil
}

func (f *fakeRegistry) ListDevices(ctx context.Context, historyID int) ([]models.Device, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.devices[historyID], nil
}

func newDeviceRouter(registry DeviceRegistry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDeviceHandler(registry, zap.NewNop())
	router := gin.New()
	router.POST("/api/devices", h.RegisterDevice)
	router.GET("/api/devices/user/:userId", h.ListUserDevices)
	return router
}

func TestRegisterAndListDevices(t *testing.T) {
	router := newDeviceRouter(&fakeRegistry{devices: map[int][]models.Device{}})

	w := postJSON(router, "/api/devices", `{"serialNo":"DEV-001","historyId":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"deviceId":1,"serialNo":"DEV-001","historyId":2}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/devices/user/2", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"deviceId":1,"serialNo":"DEV-001","historyId":2}]`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/devices/user/7", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRegisterDeviceErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: 9", services.ErrUnknownUser), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: DEV-001", services.ErrDuplicateSerial), http.StatusConflict},
		{fmt.Errorf("lost connection"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := postJSON(newDeviceRouter(&fakeRegistry{err: tc.err}), "/api/devices", `{"serialNo":"DEV-001","historyId":9}`)
			assert.Equal(t, tc.want, w.Code)
		})
	}

	w := postJSON(newDeviceRouter(&fakeRegistry{devices: map[int][]models.Device{}}), "/api/devices", `{"serialNo":"DEV-001"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUserDevicesInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/devices/user/me", nil)
	w := httptest.NewRecorder()
	newDeviceRouter(&fakeRegistry{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
