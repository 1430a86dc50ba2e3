package services

import (
	"context"
	"fmt"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/repository"
	"gorm.io/gorm"
)

// ListComments returns all comments with their parent message and author
func ListComments(ctx context.Context, db *gorm.DB) ([]models.Comment, error) {
	comments, err := repository.NewCommentRepository(db).FindAll(ctx, "Parent", "Profile")
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// GetComment returns comment id with its parent message, post and author
func GetComment(ctx context.Context, db *gorm.DB, id uint64) (*models.Comment, error) {
	comment, err := repository.NewCommentRepository(db).FindDetailed(ctx, id)
	if err != nil {
		return nil, notFound(err, EntityComment, "Comment not found")
	}
	return comment, nil
}

// CreateComment inserts a comment linking the referenced message, post and profile
func CreateComment(ctx context.Context, db *gorm.DB, in *models.Comment) (*models.Comment, error) {
	if err := checkCreateID(EntityComment, in.ID); err != nil {
		return nil, err
	}
	var comment models.Comment
	if err := linkComment(ctx, db, &comment, in); err != nil {
		return nil, err
	}
	if err := repository.NewCommentRepository(db).Create(ctx, &comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return GetComment(ctx, db, comment.ID)
}

// UpdateComment replaces the references of comment id carried by the body.
// A comment has no scalar fields, so full and partial updates coincide.
func UpdateComment(ctx context.Context, db *gorm.DB, id uint64, in *models.Comment) (*models.Comment, error) {
	repo := repository.NewCommentRepository(db)
	if err := checkUpdateID(ctx, repo.Repository, EntityComment, id, in.ID); err != nil {
		return nil, err
	}
	comment, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment %d: %w", id, err)
	}
	if err := linkComment(ctx, db, comment, in); err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment %d: %w", id, err)
	}
	return GetComment(ctx, db, id)
}

// PatchComment is UpdateComment
func PatchComment(ctx context.Context, db *gorm.DB, id uint64, in *models.Comment) (*models.Comment, error) {
	return UpdateComment(ctx, db, id, in)
}

// DeleteComment removes comment id. A missing comment is not an error.
func DeleteComment(ctx context.Context, db *gorm.DB, id uint64) error {
	if err := repository.NewCommentRepository(db).Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return nil
}

func linkComment(ctx context.Context, db *gorm.DB, dst, in *models.Comment) error {
	if in.Parent != nil {
		if err := requireExisting(ctx, repository.New[models.Message](db), EntityMessage, in.Parent.ID); err != nil {
			return err
		}
		dst.ParentID = &in.Parent.ID
	}
	if in.Post != nil {
		if err := requireExisting(ctx, repository.New[models.Post](db), EntityPost, in.Post.ID); err != nil {
			return err
		}
		dst.PostID = &in.Post.ID
	}
	if in.Profile != nil {
		if err := requireExisting(ctx, repository.New[models.Profile](db), EntityProfile, in.Profile.ID); err != nil {
			return err
		}
		dst.ProfileID = &in.Profile.ID
	}
	return nil
}
