package models

// Device is a reporting unit (an in-car camera) bound to exactly one user.
type Device struct {
	DeviceID  int    `json:"deviceId" gorm:"column:device_id;primaryKey;autoIncrement"`
	SerialNo  string `json:"serialNo" gorm:"column:serial_no;uniqueIndex;size:64;not null"`
	HistoryID int    `json:"historyId" gorm:"column:history_id;index;not null"`
}

func (Device) TableName() string {
	return "devices"
}
