package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/auth"
	"github.com/hugh/linkstash/internal/database"
	"github.com/hugh/linkstash/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GuestDomain is the guest email domain used throughout the tests.
const GuestDomain = "guest.local"

// SetupTestDB creates an in-memory SQLite database with the full schema,
// including the partial unique indexes on bookmarks.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestUser creates a regular user with a unique email
func CreateTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base:         models.Base{ID: uuid.New()},
		Name:         name,
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestGuest creates a guest user on the guest email domain
func CreateTestGuest(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("guestpassword")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base:         models.Base{ID: uuid.New()},
		Name:         "Guest",
		Email:        "guest-" + uuid.New().String()[:8] + "@" + GuestDomain,
		PasswordHash: hash,
		IsGuest:      true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test guest: %v", err)
	}
	return user
}

// CreateTestGroup creates a group owned by the given user
func CreateTestGroup(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string, parentID *uuid.UUID) *models.Group {
	t.Helper()

	group := &models.Group{
		Base:     models.Base{ID: uuid.New()},
		Name:     name,
		ParentID: parentID,
		OwnerID:  ownerID,
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateTestTag creates a tag owned by the given user
func CreateTestTag(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string) *models.Tag {
	t.Helper()

	tag := &models.Tag{
		Base:    models.Base{ID: uuid.New()},
		Name:    name,
		Color:   models.DefaultTagColor,
		OwnerID: ownerID,
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// CreateTestBookmark creates a bookmark owned by the given user
func CreateTestBookmark(t *testing.T, db *gorm.DB, ownerID uuid.UUID, title, url string, isPublic bool, groupID *uuid.UUID) *models.Bookmark {
	t.Helper()

	bookmark := &models.Bookmark{
		Base:     models.Base{ID: uuid.New()},
		Title:    title,
		URL:      url,
		IsPublic: isPublic,
		GroupID:  groupID,
		OwnerID:  ownerID,
	}
	if err := db.Create(bookmark).Error; err != nil {
		t.Fatalf("failed to create test bookmark: %v", err)
	}
	return bookmark
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email, user.Name, user.GuestAccount(GuestDomain))
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}
