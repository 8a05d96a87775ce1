package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"traffic-report/be/models"
	"traffic-report/be/utils"

	"gorm.io/gorm"
)

// SyncUserInput is a profile pushed by the login flow. Empty fields leave the
// stored value untouched on update.
type SyncUserInput struct {
	LoginSocialID  string
	UserName       string
	UserNumber     string
	Email          string
	SafetyPortalID string
	SafetyPortalPw string
}

type UserService struct {
	db  *gorm.DB
	box *utils.SecretBox
}

func NewUserService(db *gorm.DB, box *utils.SecretBox) *UserService {
	return &UserService{db: db, box: box}
}

// SyncUser creates the user for in.LoginSocialID or updates the existing one.
func (s *UserService) SyncUser(ctx context.Context, in SyncUserInput) (*models.User, error) {
	socialID := strings.TrimSpace(in.LoginSocialID)
	if socialID == "" {
		return nil, fmt.Errorf("%w: loginSocialId is required", ErrInvalidInput)
	}

	sealedPw := ""
	if in.SafetyPortalPw != "" {
		var err error
		if sealedPw, err = s.box.Seal(in.SafetyPortalPw); err != nil {
			return nil, fmt.Errorf("failed to seal portal credential: %w", err)
		}
	}

	user, err := s.upsert(ctx, socialID, in, sealedPw)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent first sync created the row; the retry updates it
		user, err = s.upsert(ctx, socialID, in, sealedPw)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) upsert(ctx context.Context, socialID string, in SyncUserInput, sealedPw string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("login_social_id = ?", socialID).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				LoginSocialID:  socialID,
				UserName:       in.UserName,
				UserNumber:     in.UserNumber,
				Email:          in.Email,
				SafetyPortalID: in.SafetyPortalID,
				SafetyPortalPw: sealedPw,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("failed to look up user %s: %w", socialID, err)
		}

		setIfPresent(&user.UserName, in.UserName)
		setIfPresent(&user.UserNumber, in.UserNumber)
		setIfPresent(&user.Email, in.Email)
		setIfPresent(&user.SafetyPortalID, in.SafetyPortalID)
		setIfPresent(&user.SafetyPortalPw, sealedPw)

		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to update user %d: %w", user.HistoryID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PortalCredentials returns the decrypted safety-portal login of a user.
func (s *UserService) PortalCredentials(ctx context.Context, historyID int) (string, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, historyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", fmt.Errorf("%w: %d", ErrUnknownUser, historyID)
		}
		return "", "", fmt.Errorf("failed to look up user %d: %w", historyID, err)
	}

	if user.SafetyPortalPw == "" {
		return user.SafetyPortalID, "", nil
	}
	password, err := s.box.Open(user.SafetyPortalPw)
	if err != nil {
		return "", "", fmt.Errorf("failed to open portal credential for user %d: %w", historyID, err)
	}
	return user.SafetyPortalID, password, nil
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
