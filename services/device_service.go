package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"traffic-report/be/models"

	"gorm.io/gorm"
)

type DeviceService struct {
	db *gorm.DB
}

func NewDeviceService(db *gorm.DB) *DeviceService {
	return &DeviceService{db: db}
}

// RegisterDevice binds serialNo to an existing user.
func (s *DeviceService) RegisterDevice(ctx context.Context, serialNo string, historyID int) (*models.Device, error) {
	serialNo = strings.TrimSpace(serialNo)
	if serialNo == "" {
		return nil, fmt.Errorf("%w: serialNo is required", ErrInvalidInput)
	}

	device := models.Device{SerialNo: serialNo, HistoryID: historyID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("history_id = ?", historyID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up user %d: %w", historyID, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %d", ErrUnknownUser, historyID)
		}

		if err := tx.Model(&models.Device{}).Where("serial_no = ?", serialNo).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up device %s: %w", serialNo, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateSerial, serialNo)
		}

		if err := tx.Create(&device).Error; err != nil {
			// a concurrent registration won the unique index
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrDuplicateSerial, serialNo)
			}
			return fmt.Errorf("failed to register device: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (s *DeviceService) ListDevices(ctx context.Context, historyID int) ([]models.Device, error) {
	devices := make([]models.Device, 0)
	if err := s.db.WithContext(ctx).
		Where("history_id = ?", historyID).
		Order("device_id ASC").
		Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to list devices for user %d: %w", historyID, err)
	}
	return devices, nil
}
