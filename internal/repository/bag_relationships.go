// bag_relationships.go
//
// A social network data service: profiles, friendships, chats and posts
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of socialnetwork.
// socialnetwork is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// socialnetwork is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with socialnetwork.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package repository

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/localnerve/socialnetwork/internal/metrics"
	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/types"
	"golang.org/x/sync/errgroup"
)

// BagQuerier runs the profile queries behind BagRelationshipFetcher.
// FetchOthers and FetchChats each populate exactly one association and return
// rows in no particular order. ProfileRepository is the gorm implementation.
type BagQuerier interface {
	FindByID(ctx context.Context, id uint64) (*models.Profile, error)
	FetchOthers(ctx context.Context, ids []uint64) ([]models.Profile, error)
	FetchChats(ctx context.Context, ids []uint64) ([]models.Profile, error)
}

// BagRelationshipFetcher loads the "others" and "chats" associations of profiles
// with one query per association, never both in a single joined query, and
// returns the profiles in the order they were given.
type BagRelationshipFetcher struct {
	querier    BagQuerier
	concurrent bool
}

// FetcherOption configures a BagRelationshipFetcher
type FetcherOption func(*BagRelationshipFetcher)

// WithConcurrentQueries runs the two association queries in parallel when enabled.
func WithConcurrentQueries(enabled bool) FetcherOption {
	return func(f *BagRelationshipFetcher) {
		f.concurrent = enabled
	}
}

// NewBagRelationshipFetcher creates a fetcher over querier
func NewBagRelationshipFetcher(querier BagQuerier, opts ...FetcherOption) *BagRelationshipFetcher {
	f := &BagRelationshipFetcher{querier: querier}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type bag struct {
	name   string
	query  func(ctx context.Context, ids []uint64) ([]models.Profile, error)
	assign func(dst *models.Profile, src *models.Profile)
}

func (f *BagRelationshipFetcher) bags() (others bag, chats bag) {
	others = bag{
		name:  "others",
		query: f.querier.FetchOthers,
		assign: func(dst, src *models.Profile) {
			dst.Others = src.Others
			if dst.Others == nil {
				dst.Others = []models.Profile{}
			}
		},
	}
	chats = bag{
		name:  "chats",
		query: f.querier.FetchChats,
		assign: func(dst, src *models.Profile) {
			dst.Chats = src.Chats
			if dst.Chats == nil {
				dst.Chats = []models.Chat{}
			}
		},
	}
	return others, chats
}

// FetchOne returns profile id with both associations populated.
// A missing profile yields (nil, nil).
func (f *BagRelationshipFetcher) FetchOne(ctx context.Context, id uint64) (*models.Profile, error) {
	profile, err := f.querier.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	enriched, err := f.FetchMany(ctx, []models.Profile{*profile})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// FetchMany returns copies of profiles, in the same order, with both associations
// populated. An empty input is returned as is without querying. Ids are not checked
// for existence; a profile the queries do not return gets empty associations.
// Any query error fails the whole call.
func (f *BagRelationshipFetcher) FetchMany(ctx context.Context, profiles []models.Profile) ([]models.Profile, error) {
	if len(profiles) == 0 {
		return profiles, nil
	}

	order := make(map[uint64]int, len(profiles))
	for i := range profiles {
		if _, seen := order[profiles[i].ID]; !seen {
			order[profiles[i].ID] = i
		}
	}
	ids := models.IDs(profiles)
	others, chats := f.bags()

	var otherRows, chatRows []models.Profile
	if f.concurrent {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			otherRows, err = f.fetch(gctx, others, ids, order)
			return err
		})
		g.Go(func() (err error) {
			chatRows, err = f.fetch(gctx, chats, ids, order)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if otherRows, err = f.fetch(ctx, others, ids, order); err != nil {
			return nil, err
		}
		if chatRows, err = f.fetch(ctx, chats, ids, order); err != nil {
			return nil, err
		}
	}

	result := slices.Clone(profiles)
	merge(result, otherRows, others)
	merge(result, chatRows, chats)
	return result, nil
}

// fetch runs one association query and sorts its rows into caller order.
func (f *BagRelationshipFetcher) fetch(ctx context.Context, b bag, ids []uint64, order map[uint64]int) ([]models.Profile, error) {
	metrics.BagFetchQueries.WithLabelValues(b.name).Inc()
	rows, err := b.query(ctx, ids)
	if err != nil {
		metrics.BagFetchErrors.WithLabelValues(b.name).Inc()
		return nil, err
	}

	position := func(id uint64) int {
		if i, ok := order[id]; ok {
			return i
		}
		return len(order)
	}
	slices.SortStableFunc(rows, func(a, b models.Profile) int {
		return cmp.Compare(position(a.ID), position(b.ID))
	})
	return rows, nil
}

func merge(result []models.Profile, rows []models.Profile, b bag) {
	byID := make(map[uint64]*models.Profile, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	for i := range result {
		src, ok := byID[result[i].ID]
		if !ok {
			src = &models.Profile{}
		}
		b.assign(&result[i], src)
	}
}
