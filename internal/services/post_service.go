package services

import (
	"context"
	"fmt"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/repository"
	"github.com/localnerve/socialnetwork/internal/types"
	"gorm.io/gorm"
)

// ListPosts returns all posts with their authors
func ListPosts(ctx context.Context, db *gorm.DB) ([]models.Post, error) {
	posts, err := repository.NewPostRepository(db).FindAll(ctx, "Profile")
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// GetPost returns post id with its author and comments
func GetPost(ctx context.Context, db *gorm.DB, id uint64) (*models.Post, error) {
	post, err := repository.NewPostRepository(db).FindDetailed(ctx, id)
	if err != nil {
		return nil, notFound(err, EntityPost, "Post not found")
	}
	return post, nil
}

// CreatePost inserts a post by the profile of login, stamped now
func CreatePost(ctx context.Context, db *gorm.DB, login string, in *models.Post) (*models.Post, error) {
	if err := checkCreateID(EntityPost, in.ID); err != nil {
		return nil, err
	}
	author, err := currentProfile(ctx, db, login)
	if err != nil {
		return nil, err
	}

	stamp := now()
	post := models.Post{
		Image:            in.Image,
		ImageContentType: in.ImageContentType,
		Description:      in.Description,
		Time:             &stamp,
		ProfileID:        &author.ID,
	}
	if err := repository.NewPostRepository(db).Create(ctx, &post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return GetPost(ctx, db, post.ID)
}

// UpdatePost overwrites every field of post id. The author is replaced only when
// the body carries one.
func UpdatePost(ctx context.Context, db *gorm.DB, id uint64, in *models.Post) (*models.Post, error) {
	return savePost(ctx, db, id, in, func(dst *models.Post) {
		dst.Image = in.Image
		dst.ImageContentType = in.ImageContentType
		dst.Description = in.Description
		dst.Time = in.Time
	})
}

// PatchPost overwrites the fields of post id that are set in the body
func PatchPost(ctx context.Context, db *gorm.DB, id uint64, in *models.Post) (*models.Post, error) {
	return savePost(ctx, db, id, in, func(dst *models.Post) {
		if in.Image != nil {
			dst.Image = in.Image
		}
		if in.ImageContentType != nil {
			dst.ImageContentType = in.ImageContentType
		}
		if in.Description != nil {
			dst.Description = in.Description
		}
		if in.Time != nil {
			dst.Time = in.Time
		}
	})
}

func savePost(ctx context.Context, db *gorm.DB, id uint64, in *models.Post, apply func(*models.Post)) (*models.Post, error) {
	repo := repository.NewPostRepository(db)
	if err := checkUpdateID(ctx, repo.Repository, EntityPost, id, in.ID); err != nil {
		return nil, err
	}
	post, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load post %d: %w", id, err)
	}
	apply(post)
	if in.Profile != nil {
		if err := requireExisting(ctx, repository.New[models.Profile](db), EntityProfile, in.Profile.ID); err != nil {
			return nil, err
		}
		post.ProfileID = &in.Profile.ID
	}
	if err := repo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post %d: %w", id, err)
	}
	return GetPost(ctx, db, id)
}

// DeletePost removes post id. A missing post is not an error.
func DeletePost(ctx context.Context, db *gorm.DB, id uint64) error {
	if err := repository.NewPostRepository(db).Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	return nil
}

// CommentOnPost stores in as a message from login and attaches it to post id as a
// comment by the profile of login. It returns the post with its comments.
func CommentOnPost(ctx context.Context, db *gorm.DB, login string, id uint64, in *models.Message) (*models.Post, error) {
	if err := checkCreateID(EntityMessage, in.ID); err != nil {
		return nil, err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := repository.NewPostRepository(tx).ExistsByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check post %d: %w", id, err)
		}
		if !exists {
			return types.NewValidationError(EntityPost, "Entity not found", KeyIDNotFound)
		}
		author, err := currentProfile(ctx, tx, login)
		if err != nil {
			return err
		}

		message := newMessage(login, in.Content)
		if err := repository.NewMessageRepository(tx).Create(ctx, &message); err != nil {
			return fmt.Errorf("failed to create comment message: %w", err)
		}
		comment := models.Comment{ParentID: &message.ID, PostID: &id, ProfileID: &author.ID}
		if err := repository.NewCommentRepository(tx).Create(ctx, &comment); err != nil {
			return fmt.Errorf("failed to create comment on post %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetPost(ctx, db, id)
}
