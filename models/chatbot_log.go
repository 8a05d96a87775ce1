package models

import "time"

// ChatbotLog is one question/answer exchange produced by the analysis
// service's legal assistant.
type ChatbotLog struct {
	ID        int       `json:"chatbotLog" gorm:"column:chatbot_log;primaryKey;autoIncrement"`
	Question  string    `json:"question" gorm:"column:question;type:text;not null"`
	Answer    string    `json:"answer" gorm:"column:answer;type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (ChatbotLog) TableName() string {
	return "chatbot_logs"
}
