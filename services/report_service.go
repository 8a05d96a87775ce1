package services

import (
	"context"
	"fmt"

	"traffic-report/be/models"

	"gorm.io/gorm"
)

const reportColumns = "i.incident_log, i.serial_no, i.video_url, i.incident_date, i.incident_time, " +
	"i.violation_type, i.plate_no, i.ai_draft, i.location"

// ReportService resolves a user into the incident logs recorded by the
// devices bound to that user.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// FindReportsByUserID returns every report for userID, oldest incident first.
// An unknown user yields an empty slice.
func (s *ReportService) FindReportsByUserID(ctx context.Context, userID int) ([]models.Report, error) {
	reports := make([]models.Report, 0)
	err := s.db.WithContext(ctx).
		Table("incident_logs AS i").
		Select(reportColumns).
		Joins("JOIN devices AS d ON d.serial_no = i.serial_no").
		Where("d.history_id = ?", userID).
		Order("i.incident_log ASC").
		Scan(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find reports for user %d: %w", userID, err)
	}
	return reports, nil
}
