package handlers

import (
	"context"
	"net/http"

	"traffic-report/be/models"
	"traffic-report/be/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserSyncer interface {
	SyncUser(ctx context.Context, in services.SyncUserInput) (*models.User, error)
}

type UserHandler struct {
	users UserSyncer
	log   *zap.Logger
}

func NewUserHandler(users UserSyncer, log *zap.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

type SyncUserRequest struct {
	LoginSocialID  string `json:"loginSocialId" binding:"required"`
	UserName       string `json:"userName"`
	UserNumber     string `json:"userNumber"`
	Email          string `json:"email"`
	SafetyPortalID string `json:"safetyPortalId"`
	SafetyPortalPw string `json:"safetyPortalPw"`
}

// SyncUser upserts the profile pushed after a social login and returns the
// stored user. The portal password is never echoed back.
func (h *UserHandler) SyncUser(c *gin.Context) {
	var req SyncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.SyncUser(c.Request.Context(), services.SyncUserInput{
		LoginSocialID:  req.LoginSocialID,
		UserName:       req.UserName,
		UserNumber:     req.UserNumber,
		Email:          req.Email,
		SafetyPortalID: req.SafetyPortalID,
		SafetyPortalPw: req.SafetyPortalPw,
	})
	if err != nil {
		respondError(c, h.log, err, "Failed to sync user")
		return
	}

	h.log.Info("user synced", zap.Int("history_id", user.HistoryID), zap.String("login_social_id", user.LoginSocialID))
	c.JSON(http.StatusOK, user)
}
