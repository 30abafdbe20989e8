package entity

import "time"

// Message is append-only; rows are never updated after creation, so
// UpdatedAt equals CreatedAt and history ordered by it matches the order
// messages were committed.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `gorm:"not null" json:"created-at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated-at"`
}

// GroupMessage is a message joined with its sender's display name, as
// rendered in room history.
type GroupMessage struct {
	ID         uint      `json:"id"`
	GroupID    uint      `json:"group_id"`
	UserID     uint      `json:"user_id"`
	Content    string    `json:"content"`
	SenderName string    `json:"sender_name"`
	UpdatedAt  time.Time `json:"updated-at"`
}
