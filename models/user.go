package models

// User is a registered account. SafetyPortalPw holds the sealed safety-portal
// credential and never leaves the service in a response body.
type User struct {
	HistoryID      int    `json:"historyId" gorm:"column:history_id;primaryKey;autoIncrement"`
	UserName       string `json:"userName" gorm:"column:user_name"`
	UserNumber     string `json:"userNumber" gorm:"column:user_number"`
	Email          string `json:"email" gorm:"column:email"`
	LoginSocialID  string `json:"loginSocialId" gorm:"column:login_social_id;uniqueIndex;size:191"`
	SafetyPortalID string `json:"safetyPortalId" gorm:"column:safety_portal_id"`
	SafetyPortalPw string `json:"-" gorm:"column:safety_portal_pw"`
}

func (User) TableName() string {
	return "users"
}
