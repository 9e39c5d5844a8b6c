package bookmarks

import (
	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/database/models"
)

// Identity is the authenticated requester as delivered by the transport
// layer. The engine never sees credentials.
type Identity struct {
	ID      uuid.UUID
	IsGuest bool
}

// Role classifies a requester's relationship to one bookmark. Every mutation
// path re-derives the role server-side and dispatches on it; a
// client-supplied role is never trusted.
type Role int

const (
	// RoleNoAccess: private bookmark of another user. The query planner's
	// base predicate keeps these out of every read, so mutations hitting
	// this role report not-found rather than confirming the row exists.
	RoleNoAccess Role = iota
	// RoleOwner: full read/write/delete, may toggle visibility.
	RoleOwner
	// RoleGuestBookmark: owned by a guest account. Any authenticated user
	// may edit or delete it; visibility is pinned public.
	RoleGuestBookmark
	// RoleForeignPublic: public bookmark of another (non-guest) user. Read
	// only, except for the requester's personal group/tag assignment.
	RoleForeignPublic
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleGuestBookmark:
		return "guest_bookmark"
	case RoleForeignPublic:
		return "foreign_public"
	default:
		return "no_access"
	}
}

// Classify resolves the requester's role on a bookmark. First match wins:
// owner, then guest-owned, then foreign public, else no access.
func Classify(requester Identity, b *models.Bookmark, owner *models.User, guestDomain string) Role {
	switch {
	case requester.ID == b.OwnerID:
		return RoleOwner
	case owner.GuestAccount(guestDomain):
		return RoleGuestBookmark
	case b.IsPublic:
		return RoleForeignPublic
	default:
		return RoleNoAccess
	}
}

// CanEditContent reports whether the role may change title, url,
// description, color or visibility.
func (r Role) CanEditContent() bool {
	return r == RoleOwner || r == RoleGuestBookmark
}

// CanDelete reports whether the role may delete the bookmark.
func (r Role) CanDelete() bool {
	return r == RoleOwner || r == RoleGuestBookmark
}

// CanAssignPersonal reports whether the role may attach a personal group or
// tag assignment without owning the row.
func (r Role) CanAssignPersonal() bool {
	return r != RoleNoAccess
}

// VisibilityPinned reports whether is_public is forced true regardless of
// what a writer asks for.
func (r Role) VisibilityPinned() bool {
	return r == RoleGuestBookmark
}
