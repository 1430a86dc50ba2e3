// Package repository is the persistence layer: a generic CRUD repository over gorm,
// per-entity queries, and the profile bag relationship fetcher.
package repository

import (
	"context"
	"errors"

	"github.com/localnerve/socialnetwork/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides find/save/delete by primary key for the model T.
// Saves never cascade into associations, relationships are written explicitly.
type Repository[T any] struct {
	db *gorm.DB
}

// New creates a repository for the model T
func New[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// DB returns the underlying handle bound to ctx
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// FindByID returns the record with the primary key id, or types.ErrNotFound.
func (r *Repository[T]) FindByID(ctx context.Context, id uint64) (*T, error) {
	return r.FindByIDPreload(ctx, id)
}

// FindByIDPreload is FindByID with the named associations preloaded.
func (r *Repository[T]) FindByIDPreload(ctx context.Context, id uint64, preloads ...string) (*T, error) {
	var entity T
	query := r.db.WithContext(ctx)
	for _, p := range preloads {
		query = query.Preload(p)
	}
	if err := query.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindAll returns every record ordered by primary key
func (r *Repository[T]) FindAll(ctx context.Context, preloads ...string) ([]T, error) {
	var entities []T
	query := r.db.WithContext(ctx)
	for _, p := range preloads {
		query = query.Preload(p)
	}
	if err := query.Order("id").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// FindPage returns one page of records ordered by primary key, and the total count.
func (r *Repository[T]) FindPage(ctx context.Context, page, size int) ([]T, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	var entities []T
	if err := r.db.WithContext(ctx).
		Order("id").
		Offset(page * size).
		Limit(size).
		Find(&entities).Error; err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

// Count returns the number of records
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&count).Error
	return count, err
}

// ExistsByID reports whether a record with the primary key id exists
func (r *Repository[T]) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistAll reports whether every id in ids has a record
func (r *Repository[T]) ExistAll(ctx context.Context, ids []uint64) (bool, error) {
	unique := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return true, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(unique)), nil
}

// Create inserts entity and sets its primary key
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
}

// Save writes every column of entity, inserting it when it has no primary key
func (r *Repository[T]) Save(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error
}

// DeleteByID removes the record with the primary key id. A missing record is not an error.
func (r *Repository[T]) DeleteByID(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(new(T), id).Error
}
