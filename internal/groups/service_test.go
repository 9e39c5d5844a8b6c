package groups_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/apperr"
	"github.com/hugh/linkstash/internal/database/models"
	"github.com/hugh/linkstash/internal/groups"
	"github.com/hugh/linkstash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupGroupService(t *testing.T) (*groups.Service, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return groups.NewService(db, testutil.GuestDomain), db
}

func TestGroupService_Tree(t *testing.T) {
	svc, db := setupGroupService(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, "Alice")

	work := testutil.CreateTestGroup(t, db, user.ID, "Work", nil)
	sub := testutil.CreateTestGroup(t, db, user.ID, "Sub", &work.ID)

	testutil.CreateTestBookmark(t, db, user.ID, "a", "https://a.test", false, &work.ID)
	testutil.CreateTestBookmark(t, db, user.ID, "b", "https://b.test", false, &work.ID)
	testutil.CreateTestBookmark(t, db, user.ID, "c", "https://c.test", false, &work.ID)
	testutil.CreateTestBookmark(t, db, user.ID, "d", "https://d.test", false, &sub.ID)
	testutil.CreateTestBookmark(t, db, user.ID, "e", "https://e.test", false, &sub.ID)

	forest, err := svc.Tree(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, forest, 1)

	// 3 direct plus 2 rolled up from the child.
	assert.Equal(t, int64(5), forest[0].BookmarkCount)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, int64(2), forest[0].Children[0].BookmarkCount)
}

func TestGroupService_CountsFollowTheViewer(t *testing.T) {
	svc, db := setupGroupService(t)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, "Owner")
	viewer := testutil.CreateTestUser(t, db, "Viewer")
	guest := testutil.CreateTestGuest(t, db)

	viewerGroup := testutil.CreateTestGroup(t, db, viewer.ID, "Mine", nil)
	guestGroup := testutil.CreateTestGroup(t, db, viewer.ID, "FromGuest", nil)

	// A public bookmark the viewer filed into their own group.
	foreign := testutil.CreateTestBookmark(t, db, owner.ID, "foreign", "https://foreign.test", true, nil)
	require.NoError(t, db.Create(&models.BookmarkOverride{
		UserID:     viewer.ID,
		BookmarkID: foreign.ID,
		GroupID:    &viewerGroup.ID,
	}).Error)

	// A guest bookmark filed into one of the viewer's groups by the guest
	// itself; it defaults into that group for the viewer too.
	testutil.CreateTestBookmark(t, db, guest.ID, "shared", "https://shared.test", true, &guestGroup.ID)

	flat, err := svc.Flat(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, flat, 2)

	counts := map[string]int64{}
	for _, n := range flat {
		counts[n.Name] = n.BookmarkCount
	}
	assert.Equal(t, int64(1), counts["Mine"])
	assert.Equal(t, int64(1), counts["FromGuest"])
}

func TestGroupService_CountIgnoresOverriddenGuestDefault(t *testing.T) {
	svc, db := setupGroupService(t)
	ctx := context.Background()

	viewer := testutil.CreateTestUser(t, db, "Viewer")
	guest := testutil.CreateTestGuest(t, db)

	defaultGroup := testutil.CreateTestGroup(t, db, viewer.ID, "Default", nil)
	movedTo := testutil.CreateTestGroup(t, db, viewer.ID, "Moved", nil)

	shared := testutil.CreateTestBookmark(t, db, guest.ID, "shared", "https://shared.test", true, &defaultGroup.ID)
	require.NoError(t, db.Create(&models.BookmarkOverride{
		UserID:     viewer.ID,
		BookmarkID: shared.ID,
		GroupID:    &movedTo.ID,
	}).Error)

	flat, err := svc.Flat(ctx, viewer.ID)
	require.NoError(t, err)

	counts := map[string]int64{}
	for _, n := range flat {
		counts[n.Name] = n.BookmarkCount
	}
	// Once overridden, the guest default no longer counts.
	assert.Equal(t, int64(0), counts["Default"])
	assert.Equal(t, int64(1), counts["Moved"])
}

func TestGroupService_Create(t *testing.T) {
	svc, db := setupGroupService(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, "Alice")
	other := testutil.CreateTestUser(t, db, "Bob")

	t.Run("creates a root group", func(t *testing.T) {
		group, err := svc.Create(ctx, user.ID, groups.CreateInput{Name: "Reading"})
		require.NoError(t, err)
		assert.Equal(t, "Reading", group.Name)
		assert.Nil(t, group.ParentID)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := svc.Create(ctx, user.ID, groups.CreateInput{})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
	})

	t.Run("rejects a foreign parent", func(t *testing.T) {
		theirs := testutil.CreateTestGroup(t, db, other.ID, "Theirs", nil)
		_, err := svc.Create(ctx, user.ID, groups.CreateInput{Name: "Child", ParentID: &theirs.ID})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	})
}

func TestGroupService_Update(t *testing.T) {
	svc, db := setupGroupService(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, "Alice")

	t.Run("renames and reparents", func(t *testing.T) {
		a := testutil.CreateTestGroup(t, db, user.ID, "A", nil)
		b := testutil.CreateTestGroup(t, db, user.ID, "B", nil)

		updated, err := svc.Update(ctx, user.ID, b.ID, groups.UpdateInput{Name: "B2", ParentID: &a.ID, ParentSet: true})
		require.NoError(t, err)
		assert.Equal(t, "B2", updated.Name)
		require.NotNil(t, updated.ParentID)
		assert.Equal(t, a.ID, *updated.ParentID)
	})

	t.Run("rejects self as parent", func(t *testing.T) {
		g := testutil.CreateTestGroup(t, db, user.ID, "Self", nil)
		_, err := svc.Update(ctx, user.ID, g.ID, groups.UpdateInput{ParentID: &g.ID, ParentSet: true})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
	})

	t.Run("rejects moving under a direct child", func(t *testing.T) {
		parent := testutil.CreateTestGroup(t, db, user.ID, "P", nil)
		child := testutil.CreateTestGroup(t, db, user.ID, "C", &parent.ID)

		_, err := svc.Update(ctx, user.ID, parent.ID, groups.UpdateInput{ParentID: &child.ID, ParentSet: true})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
	})

	t.Run("rejects a multi-hop cycle", func(t *testing.T) {
		top := testutil.CreateTestGroup(t, db, user.ID, "Top", nil)
		mid := testutil.CreateTestGroup(t, db, user.ID, "Mid", &top.ID)
		deep := testutil.CreateTestGroup(t, db, user.ID, "Deep", &mid.ID)

		_, err := svc.Update(ctx, user.ID, top.ID, groups.UpdateInput{ParentID: &deep.ID, ParentSet: true})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
	})

	t.Run("rename-only update keeps the existing parent", func(t *testing.T) {
		parent := testutil.CreateTestGroup(t, db, user.ID, "Parent2", nil)
		child := testutil.CreateTestGroup(t, db, user.ID, "Child2", &parent.ID)

		updated, err := svc.Update(ctx, user.ID, child.ID, groups.UpdateInput{Name: "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		require.NotNil(t, updated.ParentID)
		assert.Equal(t, parent.ID, *updated.ParentID)
	})

	t.Run("an explicit null parent promotes to root", func(t *testing.T) {
		parent := testutil.CreateTestGroup(t, db, user.ID, "Parent3", nil)
		child := testutil.CreateTestGroup(t, db, user.ID, "Child3", &parent.ID)

		updated, err := svc.Update(ctx, user.ID, child.ID, groups.UpdateInput{ParentSet: true})
		require.NoError(t, err)
		assert.Nil(t, updated.ParentID)
	})
}

func TestGroupService_Delete(t *testing.T) {
	svc, db := setupGroupService(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, "Alice")

	grandparent := testutil.CreateTestGroup(t, db, user.ID, "Grandparent", nil)
	parent := testutil.CreateTestGroup(t, db, user.ID, "Parent", &grandparent.ID)
	child := testutil.CreateTestGroup(t, db, user.ID, "Child", &parent.ID)
	bookmark := testutil.CreateTestBookmark(t, db, user.ID, "b", "https://b.test", false, &parent.ID)

	viewer := testutil.CreateTestUser(t, db, "Viewer")
	shared := testutil.CreateTestBookmark(t, db, viewer.ID, "s", "https://s.test", true, nil)
	require.NoError(t, db.Create(&models.BookmarkOverride{
		UserID:     user.ID,
		BookmarkID: shared.ID,
		GroupID:    &parent.ID,
	}).Error)

	require.NoError(t, svc.Delete(ctx, user.ID, parent.ID))

	t.Run("children re-parent to the deleted node's parent", func(t *testing.T) {
		var reloaded models.Group
		require.NoError(t, db.First(&reloaded, "id = ?", child.ID).Error)
		require.NotNil(t, reloaded.ParentID)
		assert.Equal(t, grandparent.ID, *reloaded.ParentID)
	})

	t.Run("member bookmarks move to no group", func(t *testing.T) {
		var reloaded models.Bookmark
		require.NoError(t, db.First(&reloaded, "id = ?", bookmark.ID).Error)
		assert.Nil(t, reloaded.GroupID)
	})

	t.Run("overrides pointing at the group are cleared", func(t *testing.T) {
		var override models.BookmarkOverride
		require.NoError(t, db.First(&override, "bookmark_id = ?", shared.ID).Error)
		assert.Nil(t, override.GroupID)
	})

	t.Run("deleting a missing group is not found", func(t *testing.T) {
		err := svc.Delete(ctx, user.ID, uuid.New())
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	})
}
