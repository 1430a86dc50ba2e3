package services

import (
	"context"
	"fmt"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/repository"
	"github.com/localnerve/socialnetwork/internal/types"
	"gorm.io/gorm"
)

// FilterCommentIsNull selects the messages that carry no comment
const FilterCommentIsNull = "comment-is-null"

// ListMessages returns all messages, or those matching filter
func ListMessages(ctx context.Context, db *gorm.DB, filter string) ([]models.Message, error) {
	repo := repository.NewMessageRepository(db)

	var (
		messages []models.Message
		err      error
	)
	switch filter {
	case "":
		messages, err = repo.FindAll(ctx)
	case FilterCommentIsNull:
		messages, err = repo.FindWithoutComment(ctx)
	default:
		return nil, types.NewValidationError(EntityMessage, fmt.Sprintf("Unknown filter %q", filter), "filterinvalid")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// GetMessage returns message id with its chat and comment
func GetMessage(ctx context.Context, db *gorm.DB, id uint64) (*models.Message, error) {
	message, err := repository.NewMessageRepository(db).FindByIDPreload(ctx, id, "Chat", "Comment")
	if err != nil {
		return nil, notFound(err, EntityMessage, "Message not found")
	}
	return message, nil
}

// CreateMessage inserts a message sent by login now
func CreateMessage(ctx context.Context, db *gorm.DB, login string, in *models.Message) (*models.Message, error) {
	if err := checkCreateID(EntityMessage, in.ID); err != nil {
		return nil, err
	}

	message := newMessage(login, in.Content)
	if login == "" {
		message.SenderName = in.SenderName
	}
	if in.Chat != nil {
		if err := requireExisting(ctx, repository.New[models.Chat](db), EntityChat, in.Chat.ID); err != nil {
			return nil, err
		}
		message.ChatID = &in.Chat.ID
	}

	if err := repository.NewMessageRepository(db).Create(ctx, &message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &message, nil
}

// UpdateMessage overwrites every field of message id. The chat is replaced only
// when the body carries one.
func UpdateMessage(ctx context.Context, db *gorm.DB, id uint64, in *models.Message) (*models.Message, error) {
	return saveMessage(ctx, db, id, in, func(dst *models.Message) {
		dst.SenderName = in.SenderName
		dst.Content = in.Content
		dst.Time = in.Time
	})
}

// PatchMessage overwrites the fields of message id that are set in the body
func PatchMessage(ctx context.Context, db *gorm.DB, id uint64, in *models.Message) (*models.Message, error) {
	return saveMessage(ctx, db, id, in, func(dst *models.Message) {
		if in.SenderName != nil {
			dst.SenderName = in.SenderName
		}
		if in.Content != nil {
			dst.Content = in.Content
		}
		if in.Time != nil {
			dst.Time = in.Time
		}
	})
}

func saveMessage(ctx context.Context, db *gorm.DB, id uint64, in *models.Message, apply func(*models.Message)) (*models.Message, error) {
	repo := repository.NewMessageRepository(db)
	if err := checkUpdateID(ctx, repo.Repository, EntityMessage, id, in.ID); err != nil {
		return nil, err
	}
	message, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load message %d: %w", id, err)
	}
	apply(message)
	if in.Chat != nil {
		if err := requireExisting(ctx, repository.New[models.Chat](db), EntityChat, in.Chat.ID); err != nil {
			return nil, err
		}
		message.ChatID = &in.Chat.ID
	}
	if err := repo.Save(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to save message %d: %w", id, err)
	}
	return message, nil
}

// DeleteMessage removes message id. A missing message is not an error.
func DeleteMessage(ctx context.Context, db *gorm.DB, id uint64) error {
	if err := repository.NewMessageRepository(db).Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete message %d: %w", id, err)
	}
	return nil
}
