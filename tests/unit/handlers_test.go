package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/tests/helpers"
)

const (
	alertHeader  = "X-" + helpers.TestAppName + "-alert"
	paramsHeader = "X-" + helpers.TestAppName + "-params"
	errorHeader  = "X-" + helpers.TestAppName + "-error"
)

// TestCreateProfile tests POST /api/profiles
func TestCreateProfile(t *testing.T) {
	db := helpers.SetupTestDB(t)
	app := helpers.NewTestApp(db, "alice")

	resp := helpers.Do(t, app, helpers.NewJSONRequest(t, "POST", "/api/profiles", map[string]any{
		"status":             "hello",
		"picture":            []byte{1, 2, 3},
		"pictureContentType": "image/png",
	}))
	helpers.AssertStatus(t, resp, http.StatusCreated)

	var result map[string]any
	helpers.ParseJSON(t, resp, &result)

	id := uint64(result["id"].(float64))
	helpers.AssertHeader(t, resp, "Location", fmt.Sprintf("/api/profiles/%d", id))
	helpers.AssertHeader(t, resp, alertHeader, "socialnetwork.profile.created")
	helpers.AssertHeader(t, resp, paramsHeader, fmt.Sprint(id))
	if result["picture"] != "AQID" {
		t.Errorf("Expected base64 picture, got %v", result["picture"])
	}

	// loaded bags are empty arrays, not null
	for _, bag := range []string{"others", "chats"} {
		values, ok := result[bag].([]any)
		if !ok || len(values) != 0 {
			t.Errorf("Expected empty %s array, got %#v", bag, result[bag])
		}
	}

	var profile models.Profile
	db.Preload("User").First(&profile, id)
	if profile.User == nil || profile.User.Login != "alice" {
		t.Errorf("Expected profile owned by alice, got %+v", profile.User)
	}
}

func TestCreateProfileWithID(t *testing.T) {
	db := helpers.SetupTestDB(t)
	app := helpers.NewTestApp(db, "alice")

	resp := helpers.Do(t, app, helpers.NewJSONRequest(t, "POST", "/api/profiles", map[string]any{"id": 7, "status": "x"}))
	helpers.AssertHeader(t, resp, errorHeader, "error.idexists")
	helpers.AssertErrorType(t, resp, http.StatusBadRequest, "idexists")
}

func TestCreateProfileInvalidBody(t *testing.T) {
	db := helpers.SetupTestDB(t)
	app := helpers.NewTestApp(db, "alice")

	req := helpers.NewJSONRequest(t, "POST", "/api/profiles", "not a profile")
	resp := helpers.Do(t, app, req)
	helpers.AssertStatus(t, resp, http.StatusBadRequest)
}

// TestGetAllProfiles tests GET /api/profiles with and without the relationships
func TestGetAllProfiles(t *testing.T) {
	db := helpers.SetupTestDB(t)
	app := helpers.NewTestApp(db, "alice")

	p1 := helpers.CreateTestProfile(t, db, "p1", nil)
	p2 := helpers.CreateTestProfile(t, db, "p2", nil)
	p3 := helpers.CreateTestProfile(t, db, "p3", nil)
	chat := helpers.CreateTestChat(t, db, "p2", true)
	helpers.LinkOthers(t, db, p1, p3, p2)
	helpers.LinkChats(t, db, p2, chat)

	t.Run("Eager", func(t *testing.T) {
		resp := helpers.Do(t, app, helpers.NewJSONRequest(t, "GET", "/api/profiles", nil))
		helpers.AssertStatus(t, resp, http.StatusOK)

		var profiles []models.Profile
		helpers.ParseJSON(t, resp, &profiles)
		if len(profiles) != 3 {
			t.Fatalf("Expected 3 profiles, got %d", len(profiles))
		}
		if got := models.IDs(profiles); got[0] != p1.ID || got[1] != p2.ID || got[2] != p3.ID {
			t.Errorf("Expected profiles in id order, got %v", got)
		}
		if others := models.IDs(profiles[0].Others); len(others) != 2 || others[0] != p2.ID || others[1] != p3.ID {
			t.Errorf("Expected p1 others [p2 p3], got %v", others)
		}
		if len(profiles[1].Chats) != 1 || profiles[1].Chats[0].ID != chat.ID {
			t.Errorf("Expected p2 in chat %d, got %+v", chat.ID, profiles[1].Chats)
		}
		if profiles[2].Others == nil || profiles[2].Chats == nil {
			t.Error("Expected loaded empty bags for p3")
		}
	})

	t.Run("Lazy", func(t *testing.T) {
		resp := helpers.Do(t, app, helpers.NewJSONRequest(t, "GET", "/api/profiles?eagerload=false", nil))
		helpers.AssertStatus(t, resp, http.StatusOK)

		var profiles []map[string]any
		helpers.ParseJSON(t, resp, &profiles)
		if len(profiles) != 3 {
			t.Fatalf("Expected 3 profiles, got %d", len(profiles))
		}
		if profiles[0]["others"] != nil || profiles[0]["chats"] != nil {
			t.Errorf("Expected null bags without eagerload, got %v", profiles[0])
		}
	})

	t.Run("Paged", func(t *testing.T) {
		resp := helpers.Do(t, app, helpers.NewJSONRequest(t, "GET", "/api/profiles?page=1&size=2", nil))
		helpers.AssertStatus(t, resp, http.StatusOK)
		helpers.AssertHeader(t, resp, "X-Total-Count", "3")

		var profiles []models.Profile
		helpers.ParseJSON(t, resp, &profiles)
		if len(profiles) != 1 || profiles[0].ID != p3.ID {
			t.Errorf("Expected only p3 on the second page, got %v", models.IDs(profiles))
		}
	})

	t.Run("BadPageSize", func(t *testing.T) {
		resp := helpers.Do(t, app, helpers.NewJSONRequest(t, "GET", "/api/profiles?size=0", nil))
		helpers.AssertStatus(t, resp, http.StatusBadRequest)
	})
}

// TestGetProfile tests GET /api/profiles/:id
func TestGetProfile(t *testing.T) {
	db := helpers.SetupTestDB(t)
	app := helpers.NewTestApp(db, "alice")

	p1 := helpers.CreateTestProfile(t, db, "p1", nil)
	p2 := helpers.CreateTestProfile(t, db, "p2", nil)
	helpers.LinkOthers(t, db, p1, p2)

	resp := helpers.Do(t, app, helpers.NewJSONRequest(t, "GET", fmt.Sprintf("/api/profiles/%d", p1.ID), nil))
	helpers.AssertStatus(t, resp, http.StatusOK)

	var profile models.Profile
	helpers.ParseJSON(t, resp, &profile)
	if profile.ID != p1.ID || *profile.Status != "p1" {
		t.Errorf("Expected p1, got %+v", profile)
	}
	if len(profile.Others) != 1 || profile.Others[0].ID != p2.ID {
		t.Errorf("Expected p1 others [p2], got %v", models.IDs(profile.Others))
	}

	resp = helpers.Do(t, app, helpers.NewJSONRequest(t, "GET", "/api/profiles/999", nil))
	helpers.AssertStatus(t, resp, http.StatusNotFound)

	resp = helpers.Do(t, app, helpers.NewJSONRequest(t, "GET", "/api/profiles/abc", nil))
	helpers.AssertStatus(t, resp, http.StatusBadRequest)
}

// TestUpdateProfile tests the id checks and overwrite of PUT /api/profiles/:id
func TestUpdateProfile(t *testing.T) {
	db := helpers.SetupTestDB(t)
	app := helpers.NewTestApp(db, "alice")

	p1 := helpers.CreateTestProfile(t, db, "p1", nil)
	p2 := helpers.CreateTestProfile(t, db, "p2", nil)
	path := fmt.Sprintf("/api/profiles/%d", p1.ID)

	tests := []struct {
		name string
		path string
		body map[string]any
		key  string
	}{
		{"MissingID", path, map[string]any{"status": "x"}, "idnull"},
		{"MismatchedID", path, map[string]any{"id": p2.ID, "status": "x"}, "idinvalid"},
		{"UnknownID", "/api/profiles/999", map[string]any{"id": 999, "status": "x"}, "idnotfound"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := helpers.Do(t, app, helpers.NewJSONRequest(t, "PUT", tt.path, tt.body))
			helpers.AssertErrorType(t, resp, http.StatusBadRequest, tt.key)
		})
	}

	resp := helpers.Do(t, app, helpers.NewJSONRequest(t, "PUT", path, map[string]any{
		"id":     p1.ID,
		"status": "updated",
		"others": []map[string]any{{"id": p2.ID}},
	}))
	helpers.AssertStatus(t, resp, http.StatusOK)
	if got := resp.Header.Get(alertHeader); got != "socialnetwork.profile.updated" {
		t.Errorf("Expected updated alert, got %q", got)
	}

	var profile models.Profile
	helpers.ParseJSON(t, resp, &profile)
	if *profile.Status != "updated" {
		t.Errorf("Expected status updated, got %v", *profile.Status)
	}
	if len(profile.Others) != 1 || profile.Others[0].ID != p2.ID {
		t.Errorf("Expected others replaced with [p2], got %v", models.IDs(profile.Others))
	}
}

// TestPatchProfile tests that a merge-patch leaves absent fields untouched
func TestPatchProfile(t *testing.T) {
	db := helpers.SetupTestDB(t)
	app := helpers.NewTestApp(db, "alice")

	p1 := helpers.CreateTestProfile(t, db, "keep me", nil)

	req := helpers.NewJSONRequest(t, "PATCH", fmt.Sprintf("/api/profiles/%d", p1.ID), map[string]any{
		"id":                 p1.ID,
		"pictureContentType": "image/jpeg",
	})
	req.Header.Set("Content-Type", "application/merge-patch+json")
	resp := helpers.Do(t, app, req)
	helpers.AssertStatus(t, resp, http.StatusOK)

	var profile models.Profile
	helpers.ParseJSON(t, resp, &profile)
	if profile.Status == nil || *profile.Status != "keep me" {
		t.Errorf("Expected status untouched, got %v", profile.Status)
	}
	if profile.PictureContentType == nil || *profile.PictureContentType != "image/jpeg" {
		t.Errorf("Expected patched content type, got %v", profile.PictureContentType)
	}
}

// TestDeleteProfile tests DELETE /api/profiles/:id
func TestDeleteProfile(t *testing.T) {
	db := helpers.SetupTestDB(t)
	app := helpers.NewTestApp(db, "alice")

	p1 := helpers.CreateTestProfile(t, db, "p1", nil)
	p2 := helpers.CreateTestProfile(t, db, "p2", nil)
	helpers.LinkOthers(t, db, p2, p1)
	path := fmt.Sprintf("/api/profiles/%d", p1.ID)

	resp := helpers.Do(t, app, helpers.NewJSONRequest(t, "DELETE", path, nil))
	helpers.AssertStatus(t, resp, http.StatusNoContent)
	helpers.AssertNoContent(t, resp)
	if got := resp.Header.Get(alertHeader); got != "socialnetwork.profile.deleted" {
		t.Errorf("Expected deleted alert, got %q", got)
	}

	resp = helpers.Do(t, app, helpers.NewJSONRequest(t, "GET", path, nil))
	helpers.AssertStatus(t, resp, http.StatusNotFound)

	var edges int64
	db.Model(&models.ProfileOther{}).Count(&edges)
	if edges != 0 {
		t.Errorf("Expected friendship rows removed, got %d", edges)
	}

	// deleting again is not an error
	resp = helpers.Do(t, app, helpers.NewJSONRequest(t, "DELETE", path, nil))
	helpers.AssertStatus(t, resp, http.StatusNoContent)
}

// TestCurrentUserProfile tests GET /api/profiles/current-user
func TestCurrentUserProfile(t *testing.T) {
	db := helpers.SetupTestDB(t)

	alice := helpers.CreateTestProfile(t, db, "alice", helpers.CreateTestUser(t, db, "alice"))
	bob := helpers.CreateTestProfile(t, db, "bob", helpers.CreateTestUser(t, db, "bob"))
	helpers.LinkOthers(t, db, bob, alice)

	resp := helpers.Do(t, helpers.NewTestApp(db, "alice"), helpers.NewJSONRequest(t, "GET", "/api/profiles/current-user", nil))
	helpers.AssertStatus(t, resp, http.StatusOK)

	var profile models.Profile
	helpers.ParseJSON(t, resp, &profile)
	if profile.ID != alice.ID {
		t.Fatalf("Expected alice's profile, got %d", profile.ID)
	}
	if profile.User == nil || profile.User.Login != "alice" {
		t.Errorf("Expected user alice, got %+v", profile.User)
	}
	if len(profile.Others) != 0 {
		t.Errorf("Expected alice to list no others, got %v", models.IDs(profile.Others))
	}
	if len(profile.Profiles) != 1 || profile.Profiles[0].ID != bob.ID {
		t.Errorf("Expected bob on the inverse side, got %v", models.IDs(profile.Profiles))
	}

	resp = helpers.Do(t, helpers.NewTestApp(db, "carol"), helpers.NewJSONRequest(t, "GET", "/api/profiles/current-user", nil))
	helpers.AssertStatus(t, resp, http.StatusNotFound)
}

// TestAPIVersion tests the X-Api-Version gate in front of /api
func TestAPIVersion(t *testing.T) {
	db := helpers.SetupTestDB(t)
	app := helpers.NewTestApp(db, "alice")

	for _, version := range []string{"", "1", "1.0", "1.2.0"} {
		req := helpers.NewJSONRequest(t, "GET", "/api/profiles", nil)
		if version != "" {
			req.Header.Set("X-Api-Version", version)
		}
		resp := helpers.Do(t, app, req)
		helpers.AssertStatus(t, resp, http.StatusOK)
		if got := resp.Header.Get("X-Api-Version"); got != "1.0.0" {
			t.Errorf("Expected X-Api-Version 1.0.0 for %q, got %q", version, got)
		}
	}

	req := helpers.NewJSONRequest(t, "GET", "/api/profiles", nil)
	req.Header.Set("X-Api-Version", "2.0.0")
	resp := helpers.Do(t, app, req)
	helpers.AssertErrorType(t, resp, http.StatusBadRequest, "versionunsupported")
}
