package entity

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"not null;default:user" json:"role"`
	CreatedAt time.Time `gorm:"not null" json:"created-at"`
}

// Member is the projection used by member listings: one row per durable
// membership, joined with the user's display name.
type Member struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
