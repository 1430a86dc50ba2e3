package models

import "time"

// Chat is a conversation between profiles. A chat created by a friend request
// stays unaccepted until the requested profile accepts it.
type Chat struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	InitiatorName *string   `gorm:"size:255" json:"initiatorName"`
	Accepted      *bool     `json:"accepted"`
	Messages      []Message `gorm:"foreignKey:ChatID" json:"chats,omitempty"`
	Profiles      []Profile `gorm:"-" json:"profiles,omitempty"`
}

// TableName overrides the table name for Chat
func (Chat) TableName() string {
	return "chats"
}

// Message is a line of text in a chat, or the text of a comment
type Message struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderName *string    `gorm:"size:255" json:"senderName"`
	Content    *string    `gorm:"type:text" json:"content"`
	Time       *time.Time `json:"time"`
	ChatID     *uint64    `gorm:"index" json:"-"`
	Chat       *Chat      `gorm:"foreignKey:ChatID" json:"chat,omitempty"`
	Comment    *Comment   `gorm:"foreignKey:ParentID" json:"comment,omitempty"`
}

// TableName overrides the table name for Message
func (Message) TableName() string {
	return "messages"
}
