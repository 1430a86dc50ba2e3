package repository

import (
	"context"
	"errors"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository holds the chat queries
type ChatRepository struct {
	*Repository[models.Chat]
}

// NewChatRepository creates a ChatRepository
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{Repository: New[models.Chat](db)}
}

func orderedMessages(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// FindWithMessages returns chat id with its messages and participants
func (r *ChatRepository) FindWithMessages(ctx context.Context, id uint64) (*models.Chat, error) {
	chat, err := r.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if chat.Profiles, err = r.Participants(ctx, id); err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *ChatRepository) findByID(ctx context.Context, id uint64) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.WithContext(ctx).Preload("Messages", orderedMessages).First(&chat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// FindAllByLogin returns the chats in which a profile of the user login participates.
func (r *ChatRepository) FindAllByLogin(ctx context.Context, login string) ([]models.Chat, error) {
	participating := r.db.Table("rel_profile__chat AS pc").
		Select("pc.chat_id").
		Joins("JOIN profiles p ON p.id = pc.profile_id").
		Joins("JOIN users u ON u.id = p.user_id").
		Where("u.login = ?", login)

	var chats []models.Chat
	err := r.db.WithContext(ctx).
		Preload("Messages", orderedMessages).
		Where("id IN (?)", participating).
		Order("id").
		Find(&chats).Error
	return chats, err
}

// Participants returns the profiles that have chat id among their chats
func (r *ChatRepository) Participants(ctx context.Context, id uint64) ([]models.Profile, error) {
	profiles := []models.Profile{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id IN (?)", r.db.Model(&models.ProfileChat{}).Select("profile_id").Where("chat_id = ?", id)).
		Order("id").
		Find(&profiles).Error
	return profiles, err
}

// AddParticipant links profile profileID to chat id. An existing link is kept as is.
func (r *ChatRepository) AddParticipant(ctx context.Context, id, profileID uint64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProfileChat{ProfileID: profileID, ChatID: id}).Error
}

// Delete removes chat id and its participant rows, and detaches its messages.
func (r *ChatRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&models.ProfileChat{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Message{}).Where("chat_id = ?", id).Update("chat_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Chat{}, id).Error
	})
}
