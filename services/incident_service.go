package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"traffic-report/be/models"

	"gorm.io/gorm"
)

const analysisTimeLayout = "2006-01-02 15:04:05"

type IncidentService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewIncidentService(db *gorm.DB) *IncidentService {
	return &IncidentService{db: db, now: time.Now}
}

// RecordIncident stores a new incident log. The id is always assigned by the
// database and the serial number must belong to a registered device.
func (s *IncidentService) RecordIncident(ctx context.Context, incident *models.IncidentLog) error {
	incident.ID = 0
	incident.SerialNo = strings.TrimSpace(incident.SerialNo)
	if incident.SerialNo == "" {
		return fmt.Errorf("%w: serialNo is required", ErrInvalidInput)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Device{}).Where("serial_no = ?", incident.SerialNo).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up device %s: %w", incident.SerialNo, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", ErrUnknownDevice, incident.SerialNo)
		}

		if err := tx.Create(incident).Error; err != nil {
			return fmt.Errorf("failed to store incident: %w", err)
		}
		return nil
	})
}

// IngestAnalysisResult converts an analysis payload and records it.
func (s *IncidentService) IngestAnalysisResult(ctx context.Context, result models.AnalysisResult) (*models.IncidentLog, error) {
	incident, err := IncidentFromAnalysis(result, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.RecordIncident(ctx, incident); err != nil {
		return nil, err
	}
	return incident, nil
}

// IncidentFromAnalysis maps the analysis producer's payload onto an incident
// log. A "YYYY-MM-DD HH:MM:SS" time is split into date and time; any other
// value is kept whole as the date. A blank time falls back to now.
func IncidentFromAnalysis(result models.AnalysisResult, now time.Time) (*models.IncidentLog, error) {
	serialNo := strings.TrimSpace(result.SerialNo)
	if serialNo == "" {
		return nil, fmt.Errorf("%w: serial_no is required", ErrInvalidInput)
	}
	if math.IsNaN(result.Prob) || result.Prob < 0 || result.Prob > 1 {
		return nil, fmt.Errorf("%w: prob %v outside [0,1]", ErrInvalidInput, result.Prob)
	}

	plate := strings.TrimSpace(result.Plate)
	if plate == "" {
		plate = "-"
	}

	incident := &models.IncidentLog{
		SerialNo:      serialNo,
		VideoURL:      result.VideoURL,
		ViolationType: result.Result,
		PlateNo:       plate,
		Location:      result.Location,
	}

	raw := strings.TrimSpace(result.Time)
	if raw == "" {
		raw = now.Format(analysisTimeLayout)
	}
	if ts, err := time.Parse(analysisTimeLayout, raw); err == nil {
		incident.IncidentDate = ts.Format("2006-01-02")
		incident.IncidentTime = ts.Format("15:04:05")
	} else {
		incident.IncidentDate = raw
	}

	return incident, nil
}

// IsRejection reports whether err came from bad input rather than the store.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUnknownDevice) || errors.Is(err, ErrUnknownUser)
}
