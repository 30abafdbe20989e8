package repository

import (
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *entity.Message) error

	// GetByGroup returns the group's history joined with sender names,
	// oldest first, in commit order.
	GetByGroup(groupID uint) ([]entity.GroupMessage, error)
}

type MySQLMessageRepository struct {
	db *gorm.DB
}

func NewMySQLMessageRepository(db *gorm.DB) MessageRepository {
	return &MySQLMessageRepository{db}
}

func (repo *MySQLMessageRepository) Create(message *entity.Message) error {
	return repo.db.Create(message).Error
}

func (repo *MySQLMessageRepository) GetByGroup(groupID uint) ([]entity.GroupMessage, error) {
	var messages []entity.GroupMessage
	err := repo.db.Model(&entity.Message{}).
		Select("messages.id, messages.group_id, messages.user_id, messages.content, messages.updated_at, users.name AS sender_name").
		Joins("JOIN users ON users.id = messages.user_id").
		Where("messages.group_id = ?", groupID).
		Order("messages.updated_at ASC, messages.id ASC").
		Scan(&messages).Error
	return messages, err
}
