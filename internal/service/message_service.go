package service

import (
	"fmt"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/repository"
)

type MessageService interface {
	// History returns the group's messages with sender names, oldest
	// first. The order matches what was broadcast live.
	History(groupID uint) ([]entity.GroupMessage, error)
}

type messageService struct {
	messages repository.MessageRepository
}

func NewMessageService(messages repository.MessageRepository) MessageService {
	return &messageService{messages: messages}
}

func (m *messageService) History(groupID uint) ([]entity.GroupMessage, error) {
	history, err := m.messages.GetByGroup(groupID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return history, nil
}
