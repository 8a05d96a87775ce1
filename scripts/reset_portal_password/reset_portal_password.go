package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"traffic-report/be/config"
	"traffic-report/be/database"
	"traffic-report/be/models"
	"traffic-report/be/services"
	"traffic-report/be/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Replaces the stored safety-portal password of one user, sealed with
// PORTAL_SECRET_KEY like passwords arriving through /api/user/sync.
func main() {
	var socialID, password string

	cmd := &cobra.Command{
		Use:   "reset_portal_password",
		Short: "Reset a user's safety-portal password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reset(cmd.Context(), socialID, password)
		},
	}
	cmd.Flags().StringVar(&socialID, "login-social-id", "", "login social id of the user")
	cmd.Flags().StringVar(&password, "password", "", "new safety-portal password")
	_ = cmd.MarkFlagRequired("login-social-id")
	_ = cmd.MarkFlagRequired("password")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func reset(ctx context.Context, socialID, password string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	box, err := utils.NewSecretBox(cfg.Crypto.PortalSecretKey)
	if err != nil {
		return err
	}

	var existing models.User
	if err := db.WithContext(ctx).Where("login_social_id = ?", socialID).First(&existing).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	users := services.NewUserService(db, box)
	user, err := users.SyncUser(ctx, services.SyncUserInput{
		LoginSocialID:  socialID,
		SafetyPortalPw: password,
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// read it back through the same key
	_, stored, err := users.PortalCredentials(ctx, user.HistoryID)
	if err := verifyStored(password, stored, err); err != nil {
		return err
	}

	fmt.Printf("Safety-portal password updated for historyId=%d\n", user.HistoryID)
	return nil
}

func verifyStored(want, stored string, openErr error) error {
	if openErr != nil {
		return fmt.Errorf("failed to read back stored password: %w", openErr)
	}
	if stored != want {
		return errors.New("stored password does not match the new password")
	}
	return nil
}
