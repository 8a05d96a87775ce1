package handlers

import (
	"context"
	"net/http"

	"traffic-report/be/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatbotRecorder interface {
	Record(ctx context.Context, question, answer string) (*models.ChatbotLog, error)
}

type ChatbotHandler struct {
	recorder ChatbotRecorder
	log      *zap.Logger
}

func NewChatbotHandler(recorder ChatbotRecorder, log *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		recorder: recorder,
		log:      log,
	}
}

type ChatbotResponseRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer"`
}

// CreateChatbotResponse stores an exchange pushed by the analysis service.
func (h *ChatbotHandler) CreateChatbotResponse(c *gin.Context) {
	var req ChatbotResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.recorder.Record(c.Request.Context(), req.Question, req.Answer)
	if err != nil {
		respondError(c, h.log, err, "Failed to store chatbot response")
		return
	}

	h.log.Info("chatbot response stored",
		zap.Int("chatbot_log", entry.ID),
		zap.Int("answer_length", len(entry.Answer)))

	c.JSON(http.StatusOK, entry)
}
