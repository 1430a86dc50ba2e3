package integration_test

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/localnerve/socialnetwork/internal/config"
	"github.com/localnerve/socialnetwork/internal/database"
	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/repository"
	"github.com/localnerve/socialnetwork/internal/services"
	"github.com/localnerve/socialnetwork/tests/helpers"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func imageOr(env, fallback string) string {
	if image := os.Getenv(env); image != "" {
		return image
	}
	return fallback
}

// startMariaDB starts a MariaDB container and returns a config pointing at it
func startMariaDB(t *testing.T) *config.Config {
	t.Helper()
	ctx := context.Background()

	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageOr("DB_IMAGE", "mariadb:11"),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	t.Cleanup(func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	})

	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Wait for database to be ready
	time.Sleep(5 * time.Second)

	return &config.Config{
		DBType:               "mysql",
		DBHost:               host,
		DBPort:               port.Port(),
		DBAppDatabase:        "testdb",
		DBAppUser:            "testuser",
		DBAppPassword:        "testpass",
		DBAppConnectionLimit: 5,
		DBLogLevel:           "warn",
	}
}

// connect opens and migrates the database described by cfg
func connect(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestWithMariaDB tests the service with a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := connect(t, startMariaDB(t))
	runSuite(t, db)
}

// TestWithPostgreSQL tests the service with a real PostgreSQL container
func TestWithPostgreSQL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageOr("POSTGRES_IMAGE", "postgres:17"),
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_USER":     "testuser",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	time.Sleep(2 * time.Second)

	db := connect(t, &config.Config{
		DBType:               "postgres",
		DBHost:               host,
		DBPort:               port.Port(),
		DBAppDatabase:        "testdb",
		DBAppUser:            "testuser",
		DBAppPassword:        "testpass",
		DBAppConnectionLimit: 5,
		DBLogLevel:           "warn",
	})
	runSuite(t, db)
}

func runSuite(t *testing.T, db *gorm.DB) {
	t.Run("BagFetchOrder", func(t *testing.T) {
		testBagFetchOrder(t, db)
	})

	t.Run("FriendRequestFlow", func(t *testing.T) {
		testFriendRequestFlow(t, db)
	})

	t.Run("DeleteProfile", func(t *testing.T) {
		testDeleteProfile(t, db)
	})
}

// testBagFetchOrder loads [p3, p1, p2] and expects both bags in caller order
func testBagFetchOrder(t *testing.T, db *gorm.DB) {
	ctx := context.Background()

	p1 := helpers.CreateTestProfile(t, db, "bag-p1", nil)
	p2 := helpers.CreateTestProfile(t, db, "bag-p2", nil)
	p3 := helpers.CreateTestProfile(t, db, "bag-p3", nil)
	c1 := helpers.CreateTestChat(t, db, "bag-p1", true)
	c2 := helpers.CreateTestChat(t, db, "bag-p2", false)

	helpers.LinkOthers(t, db, p1, p2)
	helpers.LinkOthers(t, db, p3, p1, p2)
	helpers.LinkChats(t, db, p2, c1, c2)
	helpers.LinkChats(t, db, p3, c2)

	input := []models.Profile{*p3, *p1, *p2}

	for _, concurrent := range []bool{false, true} {
		t.Run(fmt.Sprintf("concurrent=%v", concurrent), func(t *testing.T) {
			fetcher := repository.NewBagRelationshipFetcher(
				repository.NewProfileRepository(db),
				repository.WithConcurrentQueries(concurrent),
			)
			result, err := fetcher.FetchMany(ctx, input)
			if err != nil {
				t.Fatalf("FetchMany failed: %v", err)
			}

			if got := models.IDs(result); len(got) != 3 || got[0] != p3.ID || got[1] != p1.ID || got[2] != p2.ID {
				t.Fatalf("Expected caller order [p3 p1 p2], got %v", got)
			}
			if others := models.IDs(result[0].Others); len(others) != 2 {
				t.Errorf("Expected p3 with 2 others, got %v", others)
			}
			if len(result[0].Chats) != 1 || result[0].Chats[0].ID != c2.ID {
				t.Errorf("Expected p3 in chat %d, got %+v", c2.ID, result[0].Chats)
			}
			if len(result[1].Others) != 1 || len(result[1].Chats) != 0 || result[1].Chats == nil {
				t.Errorf("Expected p1 with 1 other and an empty chats bag, got %+v", result[1])
			}
			if len(result[2].Others) != 0 || len(result[2].Chats) != 2 {
				t.Errorf("Expected p2 with no others and 2 chats, got %+v", result[2])
			}
		})
	}

	one, err := repository.NewBagRelationshipFetcher(repository.NewProfileRepository(db)).FetchOne(ctx, p3.ID)
	if err != nil || one == nil {
		t.Fatalf("FetchOne failed: %v", err)
	}
	if len(one.Others) != 2 || len(one.Chats) != 1 {
		t.Errorf("Expected FetchOne to match FetchMany for p3, got %+v", one)
	}
}

// testFriendRequestFlow runs the chat request and accept endpoints against the real store
func testFriendRequestFlow(t *testing.T, db *gorm.DB) {
	alice := helpers.CreateTestProfile(t, db, "int-alice", helpers.CreateTestUser(t, db, "int-alice"))
	bob := helpers.CreateTestProfile(t, db, "int-bob", helpers.CreateTestUser(t, db, "int-bob"))

	resp := helpers.Do(t, helpers.NewTestApp(db, "int-alice"),
		helpers.NewJSONRequest(t, "POST", fmt.Sprintf("/api/chats/request-chat-with-profile/%d", bob.ID), nil))
	helpers.AssertStatus(t, resp, http.StatusCreated)
	var chat models.Chat
	helpers.ParseJSON(t, resp, &chat)

	asBob := helpers.NewTestApp(db, "int-bob")
	for i := 0; i < 2; i++ {
		resp = helpers.Do(t, asBob, helpers.NewJSONRequest(t, "PATCH", fmt.Sprintf("/api/chats/%d/accept", chat.ID), nil))
		helpers.AssertStatus(t, resp, http.StatusOK)
	}

	var edges int64
	db.Model(&models.ProfileOther{}).
		Where("(profile_id = ? AND other_id = ?) OR (profile_id = ? AND other_id = ?)", alice.ID, bob.ID, bob.ID, alice.ID).
		Count(&edges)
	if edges != 1 {
		t.Errorf("Expected exactly one friendship row, got %d", edges)
	}

	view, err := services.GetCurrentUserProfile(context.Background(), db, "int-alice", true)
	if err != nil {
		t.Fatalf("GetCurrentUserProfile failed: %v", err)
	}
	if len(view.Profiles) != 1 || view.Profiles[0].ID != bob.ID {
		t.Errorf("Expected bob on alice's inverse side, got %v", models.IDs(view.Profiles))
	}
}

func testDeleteProfile(t *testing.T, db *gorm.DB) {
	ctx := context.Background()

	author := helpers.CreateTestProfile(t, db, "int-author", nil)
	friend := helpers.CreateTestProfile(t, db, "int-friend", nil)
	chat := helpers.CreateTestChat(t, db, "int-author", true)
	post := helpers.CreateTestPost(t, db, "int-post", author)
	helpers.LinkOthers(t, db, friend, author)
	helpers.LinkChats(t, db, author, chat)

	if err := services.DeleteProfile(ctx, db, author.ID); err != nil {
		t.Fatalf("DeleteProfile failed: %v", err)
	}

	if _, err := services.GetProfile(ctx, db, author.ID, false); err == nil {
		t.Error("Expected the profile to be gone")
	}
	detached, err := services.GetPost(ctx, db, post.ID)
	if err != nil {
		t.Fatalf("Expected the post to survive: %v", err)
	}
	if detached.Profile != nil {
		t.Errorf("Expected the post detached from its author, got %+v", detached.Profile)
	}
	still, err := services.GetProfile(ctx, db, friend.ID, false)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if len(still.Others) != 0 {
		t.Errorf("Expected the friendship row removed, got %v", models.IDs(still.Others))
	}
}

// TestHealthCheck tests the health check functionality
func TestHealthCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := startMariaDB(t)
	cfg.AuthzURL = "http://localhost:9999" // Non-existent service

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	result := services.HealthCheck(context.Background(), cfg, db)

	if result.Database != "ok" {
		t.Errorf("Expected database to be ok, got: %s", result.Database)
	}
	if result.Authorizer != "unreachable" {
		t.Errorf("Expected authorizer to be unreachable, got: %s", result.Authorizer)
	}
	if result.Status != "unhealthy" {
		t.Errorf("Expected status to be unhealthy, got: %s", result.Status)
	}
}
