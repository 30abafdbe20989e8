package repository

import (
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"

	"gorm.io/gorm"
)

type GroupRepository interface {
	Create(group *entity.ChatGroup) error

	GetByID(id uint) (*entity.ChatGroup, error)
	List() ([]entity.ChatGroup, error)
	SearchByTitle(q string) ([]entity.GroupSummary, error)
}

type MySQLGroupRepository struct {
	db *gorm.DB
}

func NewMySQLGroupRepository(db *gorm.DB) GroupRepository {
	return &MySQLGroupRepository{db}
}

func (repo *MySQLGroupRepository) Create(group *entity.ChatGroup) error {
	return repo.db.Create(group).Error
}

func (repo *MySQLGroupRepository) GetByID(id uint) (*entity.ChatGroup, error) {
	var group entity.ChatGroup
	if err := repo.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (repo *MySQLGroupRepository) List() ([]entity.ChatGroup, error) {
	var groups []entity.ChatGroup
	err := repo.db.Order("id").Find(&groups).Error
	return groups, err
}

func (repo *MySQLGroupRepository) SearchByTitle(q string) ([]entity.GroupSummary, error) {
	var groups []entity.GroupSummary
	err := repo.db.Model(&entity.ChatGroup{}).
		Select("id, title, isprivate").
		Where("title LIKE ?", "%"+q+"%").
		Find(&groups).Error
	return groups, err
}
