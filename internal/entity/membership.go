package entity

import "time"

// GroupMembership records that a user has joined a group, independent of
// any live connection. Unique per (group, user) pair.
type GroupMembership struct {
	GroupID   uint      `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `json:"joined-at"`
}

func (GroupMembership) TableName() string { return "group_membership" }
