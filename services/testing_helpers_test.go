package services

import (
	"fmt"
	"strings"
	"testing"

	"traffic-report/be/database"
	"traffic-report/be/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// seedScenario loads user 2 with two devices and one incident each, plus an
// unrelated user 3 with its own device and incident.
func seedScenario(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&[]models.User{
		{HistoryID: 2, UserName: "Kim", LoginSocialID: "kakao_2"},
		{HistoryID: 3, UserName: "Lee", LoginSocialID: "google_3"},
	}).Error)
	require.NoError(t, db.Create(&[]models.Device{
		{DeviceID: 1, SerialNo: "DEV-001", HistoryID: 2},
		{DeviceID: 2, SerialNo: "DEV-002", HistoryID: 2},
		{DeviceID: 3, SerialNo: "DEV-900", HistoryID: 3},
	}).Error)
	// inserted out of id order on purpose
	require.NoError(t, db.Create(&[]models.IncidentLog{
		{ID: 102, SerialNo: "DEV-002", PlateNo: "34나5678", ViolationType: "speeding",
			IncidentDate: "2025-01-07", IncidentTime: "09:00:00", VideoURL: "v102.mp4", AIDraft: "draft 102", Location: "Olympic-ro"},
		{ID: 101, SerialNo: "DEV-001", PlateNo: "12가3456", ViolationType: "signal",
			IncidentDate: "2025-01-07", IncidentTime: "08:15:00", VideoURL: "v101.mp4", AIDraft: "draft 101", Location: "Gangnam-daero"},
		{ID: 103, SerialNo: "DEV-900", PlateNo: "56다7890", ViolationType: "lane"},
	}).Error)
}
