package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"traffic-report/be/models"

	"gorm.io/gorm"
)

type ChatbotService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewChatbotService(db *gorm.DB) *ChatbotService {
	return &ChatbotService{db: db, now: time.Now}
}

// Record stores one assistant exchange. The question is required, the answer
// may be empty when the model produced nothing.
func (s *ChatbotService) Record(ctx context.Context, question, answer string) (*models.ChatbotLog, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}

	entry := models.ChatbotLog{
		Question:  question,
		Answer:    answer,
		CreatedAt: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to store chatbot response: %w", err)
	}
	return &entry, nil
}
