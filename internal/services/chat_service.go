package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/repository"
	"github.com/localnerve/socialnetwork/internal/types"
	"gorm.io/gorm"
)

// ListChats returns the chats in which the profile of login participates
func ListChats(ctx context.Context, db *gorm.DB, login string) ([]models.Chat, error) {
	chats, err := repository.NewChatRepository(db).FindAllByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats of %s: %w", login, err)
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	return chats, nil
}

// GetChat returns chat id with its messages and participants
func GetChat(ctx context.Context, db *gorm.DB, id uint64) (*models.Chat, error) {
	chat, err := repository.NewChatRepository(db).FindWithMessages(ctx, id)
	if err != nil {
		return nil, notFound(err, EntityChat, "Chat not found")
	}
	return chat, nil
}

// CreateChat inserts a new chat
func CreateChat(ctx context.Context, db *gorm.DB, in *models.Chat) (*models.Chat, error) {
	if err := checkCreateID(EntityChat, in.ID); err != nil {
		return nil, err
	}
	chat := models.Chat{InitiatorName: in.InitiatorName, Accepted: in.Accepted}
	if err := repository.NewChatRepository(db).Create(ctx, &chat); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return &chat, nil
}

// UpdateChat overwrites every field of chat id
func UpdateChat(ctx context.Context, db *gorm.DB, id uint64, in *models.Chat) (*models.Chat, error) {
	return saveChat(ctx, db, id, in, func(dst *models.Chat) {
		dst.InitiatorName = in.InitiatorName
		dst.Accepted = in.Accepted
	})
}

// PatchChat overwrites the fields of chat id that are set in the body
func PatchChat(ctx context.Context, db *gorm.DB, id uint64, in *models.Chat) (*models.Chat, error) {
	return saveChat(ctx, db, id, in, func(dst *models.Chat) {
		if in.InitiatorName != nil {
			dst.InitiatorName = in.InitiatorName
		}
		if in.Accepted != nil {
			dst.Accepted = in.Accepted
		}
	})
}

func saveChat(ctx context.Context, db *gorm.DB, id uint64, in *models.Chat, apply func(*models.Chat)) (*models.Chat, error) {
	repo := repository.NewChatRepository(db)
	if err := checkUpdateID(ctx, repo.Repository, EntityChat, id, in.ID); err != nil {
		return nil, err
	}
	chat, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat %d: %w", id, err)
	}
	apply(chat)
	if err := repo.Save(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to save chat %d: %w", id, err)
	}
	return chat, nil
}

// DeleteChat removes chat id. A missing chat is not an error.
func DeleteChat(ctx context.Context, db *gorm.DB, id uint64) error {
	if err := repository.NewChatRepository(db).Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete chat %d: %w", id, err)
	}
	return nil
}

// currentProfile resolves the profile of login for the social flows
func currentProfile(ctx context.Context, db *gorm.DB, login string) (*models.Profile, error) {
	if login == "" {
		return nil, types.NewValidationError(EntityProfile, "Current user login not found", KeyCurrentLoginFail)
	}
	profile, err := repository.NewProfileRepository(db).FindByUserLogin(ctx, login)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewValidationError(EntityProfile, "Current user has no profile", KeyProfileNotFound)
		}
		return nil, fmt.Errorf("failed to find profile of %s: %w", login, err)
	}
	return profile, nil
}

func newMessage(login string, content *string) models.Message {
	stamp := now()
	return models.Message{
		SenderName: &login,
		Content:    content,
		Time:       &stamp,
	}
}

// RequestChatWithProfile opens a chat from login to profile id, seeded with the
// chat request message, with both profiles as participants.
func RequestChatWithProfile(ctx context.Context, db *gorm.DB, login string, id uint64) (*models.Chat, error) {
	var chatID uint64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := currentProfile(ctx, tx, login)
		if err != nil {
			return err
		}
		if err := requireExisting(ctx, repository.New[models.Profile](tx), EntityProfile, id); err != nil {
			return err
		}

		chats := repository.NewChatRepository(tx)
		chat := models.Chat{InitiatorName: &login, Accepted: new(bool)}
		if err := chats.Create(ctx, &chat); err != nil {
			return fmt.Errorf("failed to create chat: %w", err)
		}
		chatID = chat.ID

		text := ChatRequestText
		message := newMessage(login, &text)
		message.ChatID = &chat.ID
		if err := repository.NewMessageRepository(tx).Create(ctx, &message); err != nil {
			return fmt.Errorf("failed to create chat request message: %w", err)
		}

		for _, participant := range []uint64{current.ID, id} {
			if err := chats.AddParticipant(ctx, chat.ID, participant); err != nil {
				return fmt.Errorf("failed to add profile %d to chat %d: %w", participant, chat.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetChat(ctx, db, chatID)
}

// AcceptChat marks chat id accepted and makes the chat initiator a friend of
// the profile of login. It returns the profile of login with its relationships.
func AcceptChat(ctx context.Context, db *gorm.DB, login string, id uint64, concurrent bool) (*models.Profile, error) {
	var profileID uint64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chats := repository.NewChatRepository(tx)
		chat, err := chats.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return types.NewValidationError(EntityChat, "Entity not found", KeyIDNotFound)
			}
			return fmt.Errorf("failed to load chat %d: %w", id, err)
		}

		current, err := currentProfile(ctx, tx, login)
		if err != nil {
			return err
		}
		profileID = current.ID

		accepted := true
		chat.Accepted = &accepted
		if err := chats.Save(ctx, chat); err != nil {
			return fmt.Errorf("failed to accept chat %d: %w", id, err)
		}

		if chat.InitiatorName == nil || *chat.InitiatorName == login {
			return nil
		}
		initiator, err := repository.NewProfileRepository(tx).FindByUserLogin(ctx, *chat.InitiatorName)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return types.NewValidationError(EntityProfile, "Chat initiator has no profile", KeyProfileNotFound)
			}
			return fmt.Errorf("failed to find profile of %s: %w", *chat.InitiatorName, err)
		}
		if _, err := repository.NewProfileRepository(tx).Befriend(ctx, current.ID, initiator.ID); err != nil {
			return fmt.Errorf("failed to befriend profile %d: %w", initiator.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetProfile(ctx, db, profileID, concurrent)
}

// MessageInChat adds a message from login to chat id
func MessageInChat(ctx context.Context, db *gorm.DB, login string, id uint64, in *models.Message) (*models.Message, error) {
	if err := checkCreateID(EntityMessage, in.ID); err != nil {
		return nil, err
	}
	exists, err := repository.NewChatRepository(db).ExistsByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check chat %d: %w", id, err)
	}
	if !exists {
		return nil, types.NewValidationError(EntityChat, "Entity not found", KeyIDNotFound)
	}

	message := newMessage(login, in.Content)
	message.ChatID = &id
	if err := repository.NewMessageRepository(db).Create(ctx, &message); err != nil {
		return nil, fmt.Errorf("failed to create message in chat %d: %w", id, err)
	}
	return &message, nil
}
