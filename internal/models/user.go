package models

import "time"

// User is the local record of an authenticated login
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Login     string    `gorm:"size:100;not null;uniqueIndex" json:"login"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
