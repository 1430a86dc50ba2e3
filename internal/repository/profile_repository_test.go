package repository_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/repository"
	"github.com/localnerve/socialnetwork/internal/types"
	"github.com/localnerve/socialnetwork/tests/helpers"
)

func TestProfileRepositoryBagQueries(t *testing.T) {
	db := helpers.SetupTestDB(t)
	ctx := context.Background()

	p1 := helpers.CreateTestProfile(t, db, "one", nil)
	p2 := helpers.CreateTestProfile(t, db, "two", nil)
	p3 := helpers.CreateTestProfile(t, db, "three", nil)
	chat := helpers.CreateTestChat(t, db, "alice", true)
	helpers.LinkOthers(t, db, p1, p3, p2)
	helpers.LinkOthers(t, db, p2, p1)
	helpers.LinkChats(t, db, p3, chat)

	repo := repository.NewProfileRepository(db)

	others, err := repo.FetchOthers(ctx, []uint64{p1.ID, p2.ID, p3.ID})
	if err != nil {
		t.Fatalf("FetchOthers failed: %v", err)
	}
	if len(others) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(others))
	}
	for _, row := range others {
		if row.Chats != nil {
			t.Errorf("Profile %d: chats should not be loaded by the others query", row.ID)
		}
		if row.ID == p1.ID && !reflect.DeepEqual(models.IDs(row.Others), []uint64{p2.ID, p3.ID}) {
			t.Errorf("Expected others of p1 to be [%d %d], got %v", p2.ID, p3.ID, models.IDs(row.Others))
		}
	}

	chats, err := repo.FetchChats(ctx, []uint64{p3.ID})
	if err != nil {
		t.Fatalf("FetchChats failed: %v", err)
	}
	if len(chats) != 1 || len(chats[0].Chats) != 1 || chats[0].Chats[0].ID != chat.ID {
		t.Errorf("Expected p3 with chat %d, got %+v", chat.ID, chats)
	}
	if chats[0].Others != nil {
		t.Errorf("Others should not be loaded by the chats query")
	}
}

func TestBagRelationshipFetcherOverDatabase(t *testing.T) {
	db := helpers.SetupTestDB(t)
	ctx := context.Background()

	p1 := helpers.CreateTestProfile(t, db, "one", nil)
	p2 := helpers.CreateTestProfile(t, db, "two", nil)
	p3 := helpers.CreateTestProfile(t, db, "three", nil)
	c1 := helpers.CreateTestChat(t, db, "one", false)
	c2 := helpers.CreateTestChat(t, db, "three", true)
	helpers.LinkOthers(t, db, p2, p1, p3)
	helpers.LinkOthers(t, db, p3, p1)
	helpers.LinkChats(t, db, p1, c1)
	helpers.LinkChats(t, db, p3, c2, c1)

	for _, concurrent := range []bool{false, true} {
		fetcher := repository.NewBagRelationshipFetcher(repository.NewProfileRepository(db),
			repository.WithConcurrentQueries(concurrent))

		result, err := fetcher.FetchMany(ctx, []models.Profile{*p3, *p1, *p2})
		if err != nil {
			t.Fatalf("FetchMany failed: %v", err)
		}
		if got := models.IDs(result); !reflect.DeepEqual(got, []uint64{p3.ID, p1.ID, p2.ID}) {
			t.Fatalf("Expected input order, got %v", got)
		}
		if got := models.IDs(result[0].Others); !reflect.DeepEqual(got, []uint64{p1.ID}) {
			t.Errorf("p3 others: got %v", got)
		}
		if len(result[1].Others) != 0 || result[1].Others == nil {
			t.Errorf("p1 others: expected empty, got %v", result[1].Others)
		}
		if got := models.IDs(result[2].Others); !reflect.DeepEqual(got, []uint64{p1.ID, p3.ID}) {
			t.Errorf("p2 others: got %v", got)
		}
		if len(result[0].Chats) != 2 || result[0].Chats[0].ID != c1.ID || result[0].Chats[1].ID != c2.ID {
			t.Errorf("p3 chats: got %+v", result[0].Chats)
		}
		if len(result[2].Chats) != 0 || result[2].Chats == nil {
			t.Errorf("p2 chats: expected empty, got %+v", result[2].Chats)
		}
	}

	fetcher := repository.NewBagRelationshipFetcher(repository.NewProfileRepository(db))
	one, err := fetcher.FetchOne(ctx, p3.ID)
	if err != nil {
		t.Fatalf("FetchOne failed: %v", err)
	}
	if one == nil || len(one.Others) != 1 || len(one.Chats) != 2 {
		t.Errorf("Expected p3 with 1 other and 2 chats, got %+v", one)
	}

	missing, err := fetcher.FetchOne(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("Expected (nil, nil) for a missing profile, got (%v, %v)", missing, err)
	}
}

func TestProfileRepositoryBefriend(t *testing.T) {
	db := helpers.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewProfileRepository(db)

	a := helpers.CreateTestProfile(t, db, "a", nil)
	b := helpers.CreateTestProfile(t, db, "b", nil)

	created, err := repo.Befriend(ctx, a.ID, b.ID)
	if err != nil || !created {
		t.Fatalf("Expected first edge to be created, got (%v, %v)", created, err)
	}
	created, err = repo.Befriend(ctx, b.ID, a.ID)
	if err != nil || created {
		t.Errorf("Expected reverse edge to be skipped, got (%v, %v)", created, err)
	}
	created, err = repo.Befriend(ctx, a.ID, b.ID)
	if err != nil || created {
		t.Errorf("Expected duplicate edge to be skipped, got (%v, %v)", created, err)
	}

	var count int64
	db.Model(&models.ProfileOther{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly one friendship row, got %d", count)
	}

	followers, err := repo.FindFollowers(ctx, b.ID)
	if err != nil {
		t.Fatalf("FindFollowers failed: %v", err)
	}
	if len(followers) != 1 || followers[0].ID != a.ID {
		t.Errorf("Expected a to follow b, got %v", models.IDs(followers))
	}
}

func TestProfileRepositoryReplaceAndDelete(t *testing.T) {
	db := helpers.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewProfileRepository(db)

	user := helpers.CreateTestUser(t, db, "alice")
	a := helpers.CreateTestProfile(t, db, "a", user)
	b := helpers.CreateTestProfile(t, db, "b", nil)
	c := helpers.CreateTestProfile(t, db, "c", nil)
	chat := helpers.CreateTestChat(t, db, "alice", false)
	post := helpers.CreateTestPost(t, db, "hello", a)
	helpers.LinkOthers(t, db, c, a)

	if err := repo.ReplaceOthers(ctx, a.ID, []uint64{b.ID, c.ID, b.ID}); err != nil {
		t.Fatalf("ReplaceOthers failed: %v", err)
	}
	if err := repo.ReplaceChats(ctx, a.ID, []uint64{chat.ID}); err != nil {
		t.Fatalf("ReplaceChats failed: %v", err)
	}

	found, err := repo.FindByUserLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUserLogin failed: %v", err)
	}
	if found.ID != a.ID || found.User == nil || found.User.Login != "alice" {
		t.Errorf("Expected profile %d owned by alice, got %+v", a.ID, found)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, a.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	var edges, links int64
	db.Model(&models.ProfileOther{}).Where("profile_id = ? OR other_id = ?", a.ID, a.ID).Count(&edges)
	db.Model(&models.ProfileChat{}).Where("profile_id = ?", a.ID).Count(&links)
	if edges != 0 || links != 0 {
		t.Errorf("Expected join rows removed, got %d friendships and %d chat links", edges, links)
	}

	var detached models.Post
	db.First(&detached, post.ID)
	if detached.ProfileID != nil {
		t.Errorf("Expected post to be detached from the deleted profile")
	}

	if _, err := repo.FindByUserLogin(ctx, "nobody"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown login, got %v", err)
	}
}
