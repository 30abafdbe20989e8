package repository

import (
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository interface {
	// Create is duplicate-tolerant: inserting an existing (group, user)
	// pair is not an error.
	Create(membership *entity.GroupMembership) error

	// Delete is a no-op when the row does not exist.
	Delete(groupID, userID uint) error

	Exists(groupID, userID uint) (bool, error)
	ListMembers(groupID uint) ([]entity.Member, error)
}

type MySQLMembershipRepository struct {
	db *gorm.DB
}

func NewMySQLMembershipRepository(db *gorm.DB) MembershipRepository {
	return &MySQLMembershipRepository{db}
}

func (repo *MySQLMembershipRepository) Create(membership *entity.GroupMembership) error {
	return repo.db.Clauses(clause.OnConflict{DoNothing: true}).Create(membership).Error
}

func (repo *MySQLMembershipRepository) Delete(groupID, userID uint) error {
	return repo.db.
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&entity.GroupMembership{}).Error
}

func (repo *MySQLMembershipRepository) Exists(groupID, userID uint) (bool, error) {
	var count int64
	err := repo.db.Model(&entity.GroupMembership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

func (repo *MySQLMembershipRepository) ListMembers(groupID uint) ([]entity.Member, error) {
	var members []entity.Member
	err := repo.db.Model(&entity.GroupMembership{}).
		Select("users.id, users.name").
		Joins("JOIN users ON users.id = group_membership.user_id").
		Where("group_membership.group_id = ?", groupID).
		Order("users.id").
		Scan(&members).Error
	return members, err
}
