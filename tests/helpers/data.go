// data.go
//
// A social network data service: profiles, friendships, chats and posts
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of socialnetwork.
// socialnetwork is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// socialnetwork is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with socialnetwork.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package helpers

import (
	"testing"
	"time"

	"github.com/localnerve/socialnetwork/internal/models"
	"gorm.io/gorm"
)

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// CreateTestUser creates a user with login
func CreateTestUser(t *testing.T, db *gorm.DB, login string) *models.User {
	t.Helper()
	user := models.User{Login: login}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", login, err)
	}
	return &user
}

// CreateTestProfile creates a profile with status, owned by user when not nil
func CreateTestProfile(t *testing.T, db *gorm.DB, status string, user *models.User) *models.Profile {
	t.Helper()
	profile := models.Profile{Status: Ptr(status)}
	if user != nil {
		profile.UserID = Ptr(user.ID)
	}
	if err := db.Omit("User").Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create profile %s: %v", status, err)
	}
	return &profile
}

// CreateTestChat creates a chat started by initiator
func CreateTestChat(t *testing.T, db *gorm.DB, initiator string, accepted bool) *models.Chat {
	t.Helper()
	chat := models.Chat{InitiatorName: Ptr(initiator), Accepted: Ptr(accepted)}
	if err := db.Create(&chat).Error; err != nil {
		t.Fatalf("Failed to create chat: %v", err)
	}
	return &chat
}

// CreateTestMessage creates a message in chat, or outside any chat when chat is nil
func CreateTestMessage(t *testing.T, db *gorm.DB, sender, content string, chat *models.Chat) *models.Message {
	t.Helper()
	message := models.Message{
		SenderName: Ptr(sender),
		Content:    Ptr(content),
		Time:       Ptr(time.Now().UTC().Truncate(time.Second)),
	}
	if chat != nil {
		message.ChatID = Ptr(chat.ID)
	}
	if err := db.Omit("Chat", "Comment").Create(&message).Error; err != nil {
		t.Fatalf("Failed to create message: %v", err)
	}
	return &message
}

// CreateTestPost creates a post by profile
func CreateTestPost(t *testing.T, db *gorm.DB, description string, profile *models.Profile) *models.Post {
	t.Helper()
	post := models.Post{
		Description: Ptr(description),
		Time:        Ptr(time.Now().UTC().Truncate(time.Second)),
	}
	if profile != nil {
		post.ProfileID = Ptr(profile.ID)
	}
	if err := db.Omit("Profile", "Comments").Create(&post).Error; err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	return &post
}

// LinkOthers adds friendship rows profile -> each of others
func LinkOthers(t *testing.T, db *gorm.DB, profile *models.Profile, others ...*models.Profile) {
	t.Helper()
	for _, other := range others {
		if err := db.Create(&models.ProfileOther{ProfileID: profile.ID, OtherID: other.ID}).Error; err != nil {
			t.Fatalf("Failed to link profile %d to %d: %v", profile.ID, other.ID, err)
		}
	}
}

// LinkChats adds participation rows profile -> each of chats
func LinkChats(t *testing.T, db *gorm.DB, profile *models.Profile, chats ...*models.Chat) {
	t.Helper()
	for _, chat := range chats {
		if err := db.Create(&models.ProfileChat{ProfileID: profile.ID, ChatID: chat.ID}).Error; err != nil {
			t.Fatalf("Failed to link profile %d to chat %d: %v", profile.ID, chat.ID, err)
		}
	}
}
