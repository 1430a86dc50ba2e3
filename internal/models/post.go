package models

import "time"

// Post is published by a profile and collects comments
type Post struct {
	ID               uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Image            Blob       `json:"image"`
	ImageContentType *string    `gorm:"size:255" json:"imageContentType"`
	Description      *string    `gorm:"type:text" json:"description"`
	Time             *time.Time `json:"time"`
	ProfileID        *uint64    `gorm:"index" json:"-"`
	Profile          *Profile   `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
	Comments         []Comment  `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// TableName overrides the table name for Post
func (Post) TableName() string {
	return "posts"
}

// Comment attaches a message (its parent) to a post
type Comment struct {
	ID        uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	ParentID  *uint64  `gorm:"uniqueIndex" json:"-"`
	Parent    *Message `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	PostID    *uint64  `gorm:"index" json:"-"`
	Post      *Post    `gorm:"foreignKey:PostID" json:"post,omitempty"`
	ProfileID *uint64  `gorm:"index" json:"-"`
	Profile   *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

// TableName overrides the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
