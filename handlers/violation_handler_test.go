package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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

type fakeRecorder struct {
	recorded []models.IncidentLog
	analyses []models.AnalysisResult
	err      error
}

func (f *fakeRecorder) RecordIncident(ctx context.Context, incident *models.IncidentLog) error {
	if f.err != nil {
		return f.err
	}
	incident.ID = 500 + len(f.recorded)
	f.recorded = append(f.recorded, *incident)
	return nil
}

func (f *fakeRecorder) IngestAnalysisResult(ctx context.Context, result models.AnalysisResult) (*models.IncidentLog, error) {
	f.analyses = append(f.analyses, result)
	if f.err != nil {
		return nil, f.err
	}
	return &models.IncidentLog{ID: 900, SerialNo: result.SerialNo, VideoURL: result.VideoURL, ViolationType: result.Result}, nil
}

func newViolationRouter(recorder IncidentRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewViolationHandler(recorder, zap.NewNop())
	router := gin.New()
	router.POST("/api/violations", h.CreateViolation)
	router.POST("/api/analysis-results", h.CreateAnalysisResult)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateViolation(t *testing.T) {
	recorder := &fakeRecorder{}
	w := postJSON(newViolationRouter(recorder), "/api/violations", `{
		"incidentLog": 77,
		"serialNo": "DEV-001",
		"videoUrl": "https://bucket.example/v.mp4",
		"incidentDate": "2025-01-07",
		"incidentTime": "08:15:00",
		"violationType": "signal",
		"plateNo": "12가3456",
		"location": "Gangnam-daero",
		"aiDraft": "draft text"
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, recorder.recorded, 1)
	assert.Equal(t, "draft text", recorder.recorded[0].AIDraft)

	var got models.IncidentLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 500, got.ID)
	assert.Equal(t, "12가3456", got.PlateNo)
}

func TestCreateViolationValidation(t *testing.T) {
	recorder := &fakeRecorder{}
	router := newViolationRouter(recorder)

	assert.Equal(t, http.StatusBadRequest, postJSON(router, "/api/violations", `{"plateNo":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(router, "/api/violations", `not json`).Code)
	assert.Empty(t, recorder.recorded)
}

func TestCreateViolationErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: WEB_UPLOAD", services.ErrUnknownDevice), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: serialNo is required", services.ErrInvalidInput), http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := postJSON(newViolationRouter(&fakeRecorder{err: tc.err}), "/api/violations", `{"serialNo":"WEB_UPLOAD"}`)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestCreateAnalysisResult(t *testing.T) {
	recorder := &fakeRecorder{}
	w := postJSON(newViolationRouter(recorder), "/api/analysis-results",
		`{"serial_no":"DEV-002","result":"speeding","plate":"34나5678","location":"Olympic-ro",`+
			`"time":"2025-01-07 09:00:00","video_url":"https://bucket.example/v2.mp4","prob":0.81}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, recorder.analyses, 1)
	assert.Equal(t, "DEV-002", recorder.analyses[0].SerialNo)
	assert.Equal(t, "https://bucket.example/v2.mp4", recorder.analyses[0].VideoURL)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(900), got["incidentLog"])
	assert.Equal(t, "speeding", got["violationType"])
}

func TestCreateAnalysisResultRejected(t *testing.T) {
	recorder := &fakeRecorder{err: fmt.Errorf("%w: prob 3 outside [0,1]", services.ErrInvalidInput)}
	w := postJSON(newViolationRouter(recorder), "/api/analysis-results", `{"serial_no":"DEV-002","prob":3}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
