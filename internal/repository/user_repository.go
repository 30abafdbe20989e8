package repository

import (
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *entity.User) error

	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	EmailTaken(email string) (bool, error)
}

type MySQLUserRepository struct {
	db *gorm.DB
}

func NewMySQLUserRepository(db *gorm.DB) UserRepository {
	return &MySQLUserRepository{db}
}

func (repo *MySQLUserRepository) Create(user *entity.User) error {
	return repo.db.Create(user).Error
}

func (repo *MySQLUserRepository) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := repo.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *MySQLUserRepository) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := repo.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *MySQLUserRepository) EmailTaken(email string) (bool, error) {
	var count int64
	err := repo.db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
