package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/services"
	"github.com/localnerve/socialnetwork/internal/types"
	"github.com/localnerve/socialnetwork/tests/helpers"
)

func assertErrorKey(t *testing.T, err error, code int, key string) {
	t.Helper()
	var ce *types.CustomError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected CustomError %s, got %v", key, err)
	}
	if ce.Code != code || ce.Type != key {
		t.Errorf("Expected %d %s, got %d %s", code, key, ce.Code, ce.Type)
	}
}

func TestCreateProfile(t *testing.T) {
	db := helpers.SetupTestDB(t)
	ctx := context.Background()

	friend := helpers.CreateTestProfile(t, db, "friend", nil)
	chat := helpers.CreateTestChat(t, db, "friend", true)

	created, err := services.CreateProfile(ctx, db, "alice", &models.Profile{
		Status: helpers.Ptr("hello"),
		Others: []models.Profile{{ID: friend.ID}},
		Chats:  []models.Chat{{ID: chat.ID}},
	})
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if created.ID == 0 || *created.Status != "hello" {
		t.Errorf("Unexpected profile: %+v", created)
	}
	if len(created.Others) != 1 || created.Others[0].ID != friend.ID {
		t.Errorf("Expected others [%d], got %v", friend.ID, models.IDs(created.Others))
	}
	if len(created.Chats) != 1 || created.Chats[0].ID != chat.ID {
		t.Errorf("Expected chats [%d], got %+v", chat.ID, created.Chats)
	}

	current, err := services.GetCurrentUserProfile(ctx, db, "alice", false)
	if err != nil {
		t.Fatalf("GetCurrentUserProfile failed: %v", err)
	}
	if current.ID != created.ID {
		t.Errorf("Expected created profile to belong to alice")
	}

	_, err = services.CreateProfile(ctx, db, "alice", &models.Profile{ID: 7})
	assertErrorKey(t, err, http.StatusBadRequest, services.KeyIDExists)

	_, err = services.CreateProfile(ctx, db, "alice", &models.Profile{Others: []models.Profile{{ID: 999}}})
	assertErrorKey(t, err, http.StatusBadRequest, services.KeyIDNotFound)
}

func TestUpdateProfileIDChecks(t *testing.T) {
	db := helpers.SetupTestDB(t)
	ctx := context.Background()
	p := helpers.CreateTestProfile(t, db, "a", nil)

	tests := []struct {
		name   string
		pathID uint64
		body   models.Profile
		key    string
	}{
		{"missing body id", p.ID, models.Profile{}, services.KeyIDNull},
		{"mismatched id", p.ID, models.Profile{ID: p.ID + 1}, services.KeyIDInvalid},
		{"unknown id", 999, models.Profile{ID: 999}, services.KeyIDNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.UpdateProfile(ctx, db, tt.pathID, &tt.body)
			assertErrorKey(t, err, http.StatusBadRequest, tt.key)
			_, err = services.PatchProfile(ctx, db, tt.pathID, &tt.body)
			assertErrorKey(t, err, http.StatusBadRequest, tt.key)
		})
	}
}

func TestUpdateAndPatchProfile(t *testing.T) {
	db := helpers.SetupTestDB(t)
	ctx := context.Background()

	p := helpers.CreateTestProfile(t, db, "original", nil)
	other := helpers.CreateTestProfile(t, db, "other", nil)
	helpers.LinkOthers(t, db, p, other)

	patched, err := services.PatchProfile(ctx, db, p.ID, &models.Profile{
		ID:                 p.ID,
		PictureContentType: helpers.Ptr("image/png"),
	})
	if err != nil {
		t.Fatalf("PatchProfile failed: %v", err)
	}
	if patched.Status == nil || *patched.Status != "original" {
		t.Errorf("Expected null status to leave the stored value, got %v", patched.Status)
	}
	if *patched.PictureContentType != "image/png" {
		t.Errorf("Expected patched content type")
	}
	if len(patched.Others) != 1 {
		t.Errorf("Expected others untouched by a patch without others, got %v", models.IDs(patched.Others))
	}

	updated, err := services.UpdateProfile(ctx, db, p.ID, &models.Profile{
		ID:     p.ID,
		Status: helpers.Ptr("replaced"),
		Others: []models.Profile{},
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if *updated.Status != "replaced" || updated.PictureContentType != nil {
		t.Errorf("Expected every scalar overwritten, got %+v", updated)
	}
	if len(updated.Others) != 0 {
		t.Errorf("Expected others cleared, got %v", models.IDs(updated.Others))
	}
}

func TestListProfiles(t *testing.T) {
	db := helpers.SetupTestDB(t)
	ctx := context.Background()

	a := helpers.CreateTestProfile(t, db, "a", nil)
	b := helpers.CreateTestProfile(t, db, "b", nil)
	helpers.CreateTestProfile(t, db, "c", nil)
	helpers.LinkOthers(t, db, a, b)

	plain, total, err := services.ListProfiles(ctx, db, services.ListOptions{})
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if total != 3 || len(plain) != 3 {
		t.Fatalf("Expected 3 profiles, got %d (total %d)", len(plain), total)
	}
	if plain[0].Others != nil {
		t.Errorf("Expected others not loaded without eager loading")
	}

	eager, _, err := services.ListProfiles(ctx, db, services.ListOptions{Eager: true, Concurrent: true})
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if len(eager[0].Others) != 1 || eager[0].Others[0].ID != b.ID {
		t.Errorf("Expected a -> b, got %v", models.IDs(eager[0].Others))
	}
	for _, p := range eager {
		if p.Others == nil || p.Chats == nil {
			t.Errorf("Profile %d: expected both associations loaded", p.ID)
		}
	}

	page, total, err := services.ListProfiles(ctx, db, services.ListOptions{Eager: true, Paged: true, Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if total != 3 || len(page) != 1 || *page[0].Status != "c" {
		t.Errorf("Expected last page [c] of 3, got %d profiles of %d", len(page), total)
	}
}

func TestGetAndDeleteProfile(t *testing.T) {
	db := helpers.SetupTestDB(t)
	ctx := context.Background()
	p := helpers.CreateTestProfile(t, db, "a", nil)

	if _, err := services.GetProfile(ctx, db, 999, false); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}

	if err := services.DeleteProfile(ctx, db, p.ID); err != nil {
		t.Fatalf("DeleteProfile failed: %v", err)
	}
	if _, err := services.GetProfile(ctx, db, p.ID, false); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
	if err := services.DeleteProfile(ctx, db, p.ID); err != nil {
		t.Errorf("Expected deleting twice to succeed, got %v", err)
	}

	if _, err := services.GetCurrentUserProfile(ctx, db, "ghost", false); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected not found for a login without profile, got %v", err)
	}
}
