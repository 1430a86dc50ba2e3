package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/socialnetwork/internal/repository"
	"github.com/localnerve/socialnetwork/internal/types"
)

// Entity names used in errors and alert headers
const (
	EntityProfile = "profile"
	EntityChat    = "chat"
	EntityMessage = "message"
	EntityPost    = "post"
	EntityComment = "comment"
)

// Error keys
const (
	KeyIDExists         = "idexists"
	KeyIDNull           = "idnull"
	KeyIDInvalid        = "idinvalid"
	KeyIDNotFound       = "idnotfound"
	KeyCurrentLoginFail = "currentLoginFail"
	KeyProfileNotFound  = "profilenotfound"
)

// ChatRequestText is the first message of a chat requested through RequestChatWithProfile
const ChatRequestText = "I would like to chat"

// now is replaced in tests
var now = func() time.Time {
	return time.Now().UTC()
}

func checkCreateID(entity string, id uint64) error {
	if id != 0 {
		return types.NewValidationError(entity, fmt.Sprintf("A new %s cannot already have an ID", entity), KeyIDExists)
	}
	return nil
}

// checkUpdateID runs the id checks shared by full and partial updates.
func checkUpdateID[T any](ctx context.Context, repo *repository.Repository[T], entity string, pathID, bodyID uint64) error {
	if bodyID == 0 {
		return types.NewValidationError(entity, "Invalid id", KeyIDNull)
	}
	if bodyID != pathID {
		return types.NewValidationError(entity, "Invalid ID", KeyIDInvalid)
	}
	exists, err := repo.ExistsByID(ctx, pathID)
	if err != nil {
		return fmt.Errorf("failed to check %s %d: %w", entity, pathID, err)
	}
	if !exists {
		return types.NewValidationError(entity, "Entity not found", KeyIDNotFound)
	}
	return nil
}

// requireExisting turns a missing referenced record into a validation error.
func requireExisting[T any](ctx context.Context, repo *repository.Repository[T], entity string, id uint64) error {
	exists, err := repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check %s %d: %w", entity, id, err)
	}
	if !exists {
		return types.NewValidationError(entity, fmt.Sprintf("No %s with id %d", entity, id), KeyIDNotFound)
	}
	return nil
}

// notFound maps types.ErrNotFound from a repository to the entity's not-found error.
func notFound(err error, entity, message string) error {
	if errors.Is(err, types.ErrNotFound) {
		return types.NewNotFoundError(entity, message)
	}
	return err
}
