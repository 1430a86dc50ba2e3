package repository

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Association names as declared on models.Profile
const (
	AssociationOthers = "Others"
	AssociationChats  = "Chats"
)

// ProfileRepository holds the profile queries, including the single-association
// queries used by BagRelationshipFetcher.
type ProfileRepository struct {
	*Repository[models.Profile]
}

// NewProfileRepository creates a ProfileRepository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{Repository: New[models.Profile](db)}
}

// FetchOthers loads the profiles with ids and their "others" association only.
func (r *ProfileRepository) FetchOthers(ctx context.Context, ids []uint64) ([]models.Profile, error) {
	return r.fetchAssociation(ctx, AssociationOthers, ids)
}

// FetchChats loads the profiles with ids and their "chats" association only.
func (r *ProfileRepository) FetchChats(ctx context.Context, ids []uint64) ([]models.Profile, error) {
	return r.fetchAssociation(ctx, AssociationChats, ids)
}

func (r *ProfileRepository) fetchAssociation(ctx context.Context, association string, ids []uint64) ([]models.Profile, error) {
	var rows []models.Profile
	err := r.db.WithContext(ctx).
		Clauses(hints.CommentBefore("SELECT", "bag:"+association)).
		Preload(association).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		switch association {
		case AssociationOthers:
			slices.SortFunc(rows[i].Others, func(a, b models.Profile) int { return cmp.Compare(a.ID, b.ID) })
		case AssociationChats:
			slices.SortFunc(rows[i].Chats, func(a, b models.Chat) int { return cmp.Compare(a.ID, b.ID) })
		}
	}
	return rows, nil
}

// FindByUserLogin returns the first profile owned by the user with login
func (r *ProfileRepository) FindByUserLogin(ctx context.Context, login string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.login = ?", login).
		Order("profiles.id").
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindFollowers returns the profiles that list id among their others.
func (r *ProfileRepository) FindFollowers(ctx context.Context, id uint64) ([]models.Profile, error) {
	var followers []models.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id IN (?)", r.db.Model(&models.ProfileOther{}).Select("profile_id").Where("other_id = ?", id)).
		Order("id").
		Find(&followers).Error
	return followers, err
}

// Befriend adds the edge profileID -> otherID unless an edge exists in either direction.
// It reports whether a row was inserted.
func (r *ProfileRepository) Befriend(ctx context.Context, profileID, otherID uint64) (bool, error) {
	if profileID == otherID {
		return false, nil
	}

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ProfileOther{}).
			Where("(profile_id = ? AND other_id = ?) OR (profile_id = ? AND other_id = ?)",
				profileID, otherID, otherID, profileID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(&models.ProfileOther{ProfileID: profileID, OtherID: otherID}).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// ReplaceOthers sets the "others" of profile id to exactly otherIDs
func (r *ProfileRepository) ReplaceOthers(ctx context.Context, id uint64, otherIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&models.ProfileOther{}).Error; err != nil {
			return err
		}
		rows := make([]models.ProfileOther, 0, len(otherIDs))
		for _, otherID := range uniqueIDs(otherIDs) {
			rows = append(rows, models.ProfileOther{ProfileID: id, OtherID: otherID})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// ReplaceChats sets the chats of profile id to exactly chatIDs
func (r *ProfileRepository) ReplaceChats(ctx context.Context, id uint64, chatIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&models.ProfileChat{}).Error; err != nil {
			return err
		}
		rows := make([]models.ProfileChat, 0, len(chatIDs))
		for _, chatID := range uniqueIDs(chatIDs) {
			rows = append(rows, models.ProfileChat{ProfileID: id, ChatID: chatID})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// Delete removes profile id, its friendship and chat rows, and detaches its posts and comments.
func (r *ProfileRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ? OR other_id = ?", id, id).Delete(&models.ProfileOther{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", id).Delete(&models.ProfileChat{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("profile_id = ?", id).Update("profile_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Comment{}).Where("profile_id = ?", id).Update("profile_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Profile{}, id).Error
	})
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
