package models

// Report is the client-facing view of an incident log row.
type Report struct {
	IncidentLog   int    `json:"incidentLog" gorm:"column:incident_log"`
	SerialNo      string `json:"serialNo" gorm:"column:serial_no"`
	VideoURL      string `json:"videoUrl" gorm:"column:video_url"`
	IncidentDate  string `json:"incidentDate" gorm:"column:incident_date"`
	IncidentTime  string `json:"incidentTime" gorm:"column:incident_time"`
	ViolationType string `json:"violationType" gorm:"column:violation_type"`
	PlateNo       string `json:"plateNo" gorm:"column:plate_no"`
	AIDraft       string `json:"aiDraft" gorm:"column:ai_draft"`
	Location      string `json:"location" gorm:"column:location"`
}
