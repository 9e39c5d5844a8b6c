package bookmarks_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/bookmarks"
	"github.com/hugh/linkstash/internal/database/models"
	"github.com/stretchr/testify/assert"
)

const guestDomain = "guest.local"

func TestClassify(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()

	regularOwner := &models.User{Base: models.Base{ID: ownerID}, Email: "owner@example.com"}
	guestOwner := &models.User{Base: models.Base{ID: ownerID}, Email: "guest_1@" + guestDomain, IsGuest: true}
	legacyGuestOwner := &models.User{Base: models.Base{ID: ownerID}, Email: "guest_2@" + guestDomain}

	private := &models.Bookmark{OwnerID: ownerID, IsPublic: false}
	public := &models.Bookmark{OwnerID: ownerID, IsPublic: true}

	tests := []struct {
		name      string
		requester bookmarks.Identity
		bookmark  *models.Bookmark
		owner     *models.User
		want      bookmarks.Role
	}{
		{"owner of a private bookmark", bookmarks.Identity{ID: ownerID}, private, regularOwner, bookmarks.RoleOwner},
		{"owner of a public bookmark", bookmarks.Identity{ID: ownerID}, public, regularOwner, bookmarks.RoleOwner},
		{"stranger on a private bookmark", bookmarks.Identity{ID: otherID}, private, regularOwner, bookmarks.RoleNoAccess},
		{"stranger on a public bookmark", bookmarks.Identity{ID: otherID}, public, regularOwner, bookmarks.RoleForeignPublic},
		{"stranger on a guest bookmark", bookmarks.Identity{ID: otherID}, public, guestOwner, bookmarks.RoleGuestBookmark},
		{"guest domain without the flag still counts", bookmarks.Identity{ID: otherID}, public, legacyGuestOwner, bookmarks.RoleGuestBookmark},
		{"guest owns its own bookmark", bookmarks.Identity{ID: ownerID, IsGuest: true}, public, guestOwner, bookmarks.RoleOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bookmarks.Classify(tt.requester, tt.bookmark, tt.owner, guestDomain)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleCapabilities(t *testing.T) {
	t.Run("owner has full control", func(t *testing.T) {
		assert.True(t, bookmarks.RoleOwner.CanEditContent())
		assert.True(t, bookmarks.RoleOwner.CanDelete())
		assert.True(t, bookmarks.RoleOwner.CanAssignPersonal())
		assert.False(t, bookmarks.RoleOwner.VisibilityPinned())
	})

	t.Run("guest bookmarks are editable by anyone but pinned public", func(t *testing.T) {
		assert.True(t, bookmarks.RoleGuestBookmark.CanEditContent())
		assert.True(t, bookmarks.RoleGuestBookmark.CanDelete())
		assert.True(t, bookmarks.RoleGuestBookmark.VisibilityPinned())
	})

	t.Run("foreign public is assignment-only", func(t *testing.T) {
		assert.False(t, bookmarks.RoleForeignPublic.CanEditContent())
		assert.False(t, bookmarks.RoleForeignPublic.CanDelete())
		assert.True(t, bookmarks.RoleForeignPublic.CanAssignPersonal())
	})

	t.Run("no access can do nothing", func(t *testing.T) {
		assert.False(t, bookmarks.RoleNoAccess.CanEditContent())
		assert.False(t, bookmarks.RoleNoAccess.CanDelete())
		assert.False(t, bookmarks.RoleNoAccess.CanAssignPersonal())
	})
}
