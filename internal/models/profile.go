package models

// Profile is the root record of the social graph.
//
// Others and Chats are the owning sides of the rel_profile__other and rel_profile__chat
// join tables. They are nil until loaded and never loaded together in one query.
// Profiles is the inverse of Others and is filled by an explicit query, gorm ignores it.
type Profile struct {
	ID                 uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Status             *string   `gorm:"size:255" json:"status"`
	Picture            Blob      `json:"picture"`
	PictureContentType *string   `gorm:"size:255" json:"pictureContentType"`
	UserID             *uint64   `gorm:"index" json:"-"`
	User               *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Posts              []Post    `gorm:"foreignKey:ProfileID" json:"posts,omitempty"`
	Comments           []Comment `gorm:"foreignKey:ProfileID" json:"comments,omitempty"`
	Others             []Profile `gorm:"many2many:rel_profile__other;joinForeignKey:profile_id;joinReferences:other_id" json:"others"`
	Chats              []Chat    `gorm:"many2many:rel_profile__chat;joinForeignKey:profile_id;joinReferences:chat_id" json:"chats"`
	Profiles           []Profile `gorm:"-" json:"profiles,omitempty"`
}

// TableName overrides the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}

// ProfileOther is a row of the friendship join table, ProfileID lists OtherID among its others.
type ProfileOther struct {
	ProfileID uint64 `gorm:"primaryKey;autoIncrement:false"`
	OtherID   uint64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName overrides the table name for ProfileOther
func (ProfileOther) TableName() string {
	return "rel_profile__other"
}

// ProfileChat is a row of the chat participation join table.
type ProfileChat struct {
	ProfileID uint64 `gorm:"primaryKey;autoIncrement:false"`
	ChatID    uint64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName overrides the table name for ProfileChat
func (ProfileChat) TableName() string {
	return "rel_profile__chat"
}

// IDs returns the primary keys of profiles in order
func IDs(profiles []Profile) []uint64 {
	ids := make([]uint64, len(profiles))
	for i := range profiles {
		ids[i] = profiles[i].ID
	}
	return ids
}
