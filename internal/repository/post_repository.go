package repository

import (
	"context"

	"github.com/localnerve/socialnetwork/internal/models"
	"gorm.io/gorm"
)

// PostRepository holds the post queries
type PostRepository struct {
	*Repository[models.Post]
}

// NewPostRepository creates a PostRepository
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{Repository: New[models.Post](db)}
}

// FindDetailed returns post id with its profile and its comments, each with
// parent message and author profile.
func (r *PostRepository) FindDetailed(ctx context.Context, id uint64) (*models.Post, error) {
	return r.FindByIDPreload(ctx, id, "Profile", "Comments", "Comments.Parent", "Comments.Profile")
}

// Delete removes post id and detaches its comments
func (r *PostRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).Update("post_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// CommentRepository holds the comment queries
type CommentRepository struct {
	*Repository[models.Comment]
}

// NewCommentRepository creates a CommentRepository
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{Repository: New[models.Comment](db)}
}

// FindDetailed returns comment id with its parent message, post and profile
func (r *CommentRepository) FindDetailed(ctx context.Context, id uint64) (*models.Comment, error) {
	return r.FindByIDPreload(ctx, id, "Parent", "Post", "Profile")
}

// Delete removes comment id
func (r *CommentRepository) Delete(ctx context.Context, id uint64) error {
	return r.DeleteByID(ctx, id)
}
