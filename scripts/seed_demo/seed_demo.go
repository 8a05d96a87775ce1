package main

import (
	"fmt"
	"log"

	"traffic-report/be/config"
	"traffic-report/be/database"
	"traffic-report/be/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Seeds the demo account used by the front-end: user 2 with two devices and
// one violation on each.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("%v", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			HistoryID:     2,
			UserName:      "Demo User",
			Email:         "demo@traffic-report.local",
			LoginSocialID: "demo-social-2",
		}
		if err := tx.Where(models.User{HistoryID: user.HistoryID}).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("user: %w", err)
		}

		for _, serial := range []string{"DEV-001", "DEV-002"} {
			device := models.Device{SerialNo: serial, HistoryID: user.HistoryID}
			if err := tx.Where(models.Device{SerialNo: serial}).FirstOrCreate(&device).Error; err != nil {
				return fmt.Errorf("device %s: %w", serial, err)
			}
		}

		incidents := []models.IncidentLog{
			{
				ID:            101,
				SerialNo:      "DEV-001",
				VideoURL:      "https://cdn.example.com/videos/101.mp4",
				IncidentDate:  "2024-05-01",
				IncidentTime:  "08:15:00",
				ViolationType: "signal",
				PlateNo:       "12가3456",
				Location:      "Gangnam-daero 123",
			},
			{
				ID:            102,
				SerialNo:      "DEV-002",
				VideoURL:      "https://cdn.example.com/videos/102.mp4",
				IncidentDate:  "2024-05-02",
				IncidentTime:  "18:40:00",
				ViolationType: "speeding",
				PlateNo:       "34나5678",
				Location:      "Teheran-ro 45",
			},
		}
		for _, incident := range incidents {
			if err := tx.Where(models.IncidentLog{ID: incident.ID}).FirstOrCreate(&incident).Error; err != nil {
				return fmt.Errorf("incident %d: %w", incident.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	// the rows above carry explicit ids
	if err := database.ResetSequences(db, database.SeededSequences...); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println("Demo data ready: userId=2, devices DEV-001/DEV-002, incidents 101/102")
}
