package entity

import "time"

// ChatGroup is a chat room's durable metadata. AccessCode is set if and
// only if IsPrivate is true.
type ChatGroup struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null;index" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url"`
	IsPrivate   bool      `gorm:"column:isprivate;not null;default:false" json:"isprivate"`
	AccessCode  *string   `gorm:"column:access_code" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"created-at"`

	Members []User `gorm:"many2many:group_membership;" json:"members,omitempty"`
}

func (ChatGroup) TableName() string { return "chat_groups" }

// GroupSummary is the projection served by the group search endpoint.
type GroupSummary struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	IsPrivate bool   `gorm:"column:isprivate" json:"isprivate"`
}
