package repository

import (
	"context"

	"github.com/localnerve/socialnetwork/internal/models"
	"gorm.io/gorm"
)

// MessageRepository holds the message queries
type MessageRepository struct {
	*Repository[models.Message]
}

// NewMessageRepository creates a MessageRepository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{Repository: New[models.Message](db)}
}

// FindWithoutComment returns the messages that are not the parent of any comment
func (r *MessageRepository) FindWithoutComment(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM comments c WHERE c.parent_id = messages.id)").
		Order("id").
		Find(&messages).Error
	return messages, err
}

// Delete removes message id and detaches the comment it carries
func (r *MessageRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Comment{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, id).Error
	})
}
