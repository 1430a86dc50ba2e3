package services

import (
	"context"
	"fmt"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/repository"
	"github.com/localnerve/socialnetwork/internal/types"
	"gorm.io/gorm"
)

// ListOptions controls profile listing
type ListOptions struct {
	// Eager loads the others and chats associations
	Eager bool
	// Paged limits the result to Page (zero based) of Size records
	Paged bool
	Page  int
	Size  int
	// Concurrent runs the association queries in parallel
	Concurrent bool
}

func newFetcher(db *gorm.DB, concurrent bool) *repository.BagRelationshipFetcher {
	return repository.NewBagRelationshipFetcher(
		repository.NewProfileRepository(db),
		repository.WithConcurrentQueries(concurrent),
	)
}

// ListProfiles returns profiles ordered by id and the total number of profiles.
func ListProfiles(ctx context.Context, db *gorm.DB, opts ListOptions) ([]models.Profile, int64, error) {
	repo := repository.NewProfileRepository(db)

	var (
		profiles []models.Profile
		total    int64
		err      error
	)
	if opts.Paged {
		profiles, total, err = repo.FindPage(ctx, opts.Page, opts.Size)
	} else {
		profiles, err = repo.FindAll(ctx)
		total = int64(len(profiles))
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	if opts.Eager {
		if profiles, err = newFetcher(db, opts.Concurrent).FetchMany(ctx, profiles); err != nil {
			return nil, 0, fmt.Errorf("failed to load profile relationships: %w", err)
		}
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return profiles, total, nil
}

// GetProfile returns profile id with its others and chats
func GetProfile(ctx context.Context, db *gorm.DB, id uint64, concurrent bool) (*models.Profile, error) {
	profile, err := newFetcher(db, concurrent).FetchOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %d: %w", id, err)
	}
	if profile == nil {
		return nil, types.NewNotFoundError(EntityProfile, "Profile not found")
	}
	return profile, nil
}

// GetCurrentUserProfile returns the profile of login with its others, chats and
// the profiles that list it among their others.
func GetCurrentUserProfile(ctx context.Context, db *gorm.DB, login string, concurrent bool) (*models.Profile, error) {
	repo := repository.NewProfileRepository(db)
	owned, err := repo.FindByUserLogin(ctx, login)
	if err != nil {
		return nil, notFound(err, EntityProfile, "Current user has no profile")
	}

	profile, err := GetProfile(ctx, db, owned.ID, concurrent)
	if err != nil {
		return nil, err
	}
	profile.User = owned.User

	if profile.Profiles, err = repo.FindFollowers(ctx, profile.ID); err != nil {
		return nil, fmt.Errorf("failed to load followers of profile %d: %w", profile.ID, err)
	}
	return profile, nil
}

// CreateProfile inserts a new profile owned by the given user, or by login when
// the body names no user, and links the others and chats it lists.
func CreateProfile(ctx context.Context, db *gorm.DB, login string, in *models.Profile) (*models.Profile, error) {
	if err := checkCreateID(EntityProfile, in.ID); err != nil {
		return nil, err
	}

	var id uint64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := models.Profile{
			Status:             in.Status,
			Picture:            in.Picture,
			PictureContentType: in.PictureContentType,
		}
		if err := assignOwner(ctx, tx, &profile, in.User, login); err != nil {
			return err
		}

		repo := repository.NewProfileRepository(tx)
		if err := repo.Create(ctx, &profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		id = profile.ID
		return replaceBags(ctx, tx, id, in)
	})
	if err != nil {
		return nil, err
	}
	return GetProfile(ctx, db, id, false)
}

// UpdateProfile overwrites every field of profile id. User, others and chats are
// replaced only when the body carries them.
func UpdateProfile(ctx context.Context, db *gorm.DB, id uint64, in *models.Profile) (*models.Profile, error) {
	return saveProfile(ctx, db, id, in, func(dst *models.Profile) {
		dst.Status = in.Status
		dst.Picture = in.Picture
		dst.PictureContentType = in.PictureContentType
	})
}

// PatchProfile overwrites the fields of profile id that are set in the body.
func PatchProfile(ctx context.Context, db *gorm.DB, id uint64, in *models.Profile) (*models.Profile, error) {
	return saveProfile(ctx, db, id, in, func(dst *models.Profile) {
		if in.Status != nil {
			dst.Status = in.Status
		}
		if in.Picture != nil {
			dst.Picture = in.Picture
		}
		if in.PictureContentType != nil {
			dst.PictureContentType = in.PictureContentType
		}
	})
}

func saveProfile(ctx context.Context, db *gorm.DB, id uint64, in *models.Profile, apply func(*models.Profile)) (*models.Profile, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewProfileRepository(tx)
		if err := checkUpdateID(ctx, repo.Repository, EntityProfile, id, in.ID); err != nil {
			return err
		}

		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load profile %d: %w", id, err)
		}
		apply(existing)
		if in.User != nil {
			if err := assignOwner(ctx, tx, existing, in.User, ""); err != nil {
				return err
			}
		}

		if err := repo.Save(ctx, existing); err != nil {
			return fmt.Errorf("failed to save profile %d: %w", id, err)
		}
		return replaceBags(ctx, tx, id, in)
	})
	if err != nil {
		return nil, err
	}
	return GetProfile(ctx, db, id, false)
}

// DeleteProfile removes profile id. A missing profile is not an error.
func DeleteProfile(ctx context.Context, db *gorm.DB, id uint64) error {
	if err := repository.NewProfileRepository(db).Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete profile %d: %w", id, err)
	}
	return nil
}

// assignOwner sets the owning user from the body, falling back to the user of login.
func assignOwner(ctx context.Context, tx *gorm.DB, profile *models.Profile, user *models.User, login string) error {
	users := repository.NewUserRepository(tx)
	switch {
	case user != nil && user.ID != 0:
		if err := requireExisting(ctx, users.Repository, "user", user.ID); err != nil {
			return err
		}
		profile.UserID = &user.ID
	case user != nil && user.Login != "":
		owner, err := users.EnsureLogin(ctx, user.Login)
		if err != nil {
			return fmt.Errorf("failed to provision user %s: %w", user.Login, err)
		}
		profile.UserID = &owner.ID
	case login != "":
		owner, err := users.EnsureLogin(ctx, login)
		if err != nil {
			return fmt.Errorf("failed to provision user %s: %w", login, err)
		}
		profile.UserID = &owner.ID
	}
	return nil
}

// replaceBags writes the others and chats listed in the body, leaving absent ones alone.
func replaceBags(ctx context.Context, tx *gorm.DB, id uint64, in *models.Profile) error {
	repo := repository.NewProfileRepository(tx)

	if in.Others != nil {
		otherIDs := models.IDs(in.Others)
		if err := requireAll(ctx, repo.Repository, EntityProfile, otherIDs); err != nil {
			return err
		}
		if err := repo.ReplaceOthers(ctx, id, otherIDs); err != nil {
			return fmt.Errorf("failed to link others of profile %d: %w", id, err)
		}
	}

	if in.Chats != nil {
		chatIDs := make([]uint64, len(in.Chats))
		for i := range in.Chats {
			chatIDs[i] = in.Chats[i].ID
		}
		if err := requireAll(ctx, repository.New[models.Chat](tx), EntityChat, chatIDs); err != nil {
			return err
		}
		if err := repo.ReplaceChats(ctx, id, chatIDs); err != nil {
			return fmt.Errorf("failed to link chats of profile %d: %w", id, err)
		}
	}
	return nil
}

func requireAll[T any](ctx context.Context, repo *repository.Repository[T], entity string, ids []uint64) error {
	ok, err := repo.ExistAll(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check %s references: %w", entity, err)
	}
	if !ok {
		return types.NewValidationError(entity, fmt.Sprintf("Unknown %s reference", entity), KeyIDNotFound)
	}
	return nil
}
