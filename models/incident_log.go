package models

// IncidentLog is a detected violation captured by a device. Rows are written
// once by ingestion and never updated or deleted by this service.
type IncidentLog struct {
	ID            int    `json:"incidentLog" gorm:"column:incident_log;primaryKey;autoIncrement"`
	SerialNo      string `json:"serialNo" gorm:"column:serial_no;index;size:64;not null"`
	VideoURL      string `json:"videoUrl" gorm:"column:video_url"`
	IncidentDate  string `json:"incidentDate" gorm:"column:incident_date"`
	IncidentTime  string `json:"incidentTime" gorm:"column:incident_time"`
	ViolationType string `json:"violationType" gorm:"column:violation_type"`
	PlateNo       string `json:"plateNo" gorm:"column:plate_no"`
	AIDraft       string `json:"aiDraft" gorm:"column:ai_draft;type:text"`
	Location      string `json:"location" gorm:"column:location"`
}

func (IncidentLog) TableName() string {
	return "incident_logs"
}
