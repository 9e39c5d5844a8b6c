package transfer_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/hugh/linkstash/internal/bookmarks"
	"github.com/hugh/linkstash/internal/database/models"
	"github.com/hugh/linkstash/internal/groups"
	"github.com/hugh/linkstash/internal/testutil"
	"github.com/hugh/linkstash/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTransferService(t *testing.T) (*transfer.Service, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	groupService := groups.NewService(db, testutil.GuestDomain)
	bookmarkService := bookmarks.NewService(db, groupService, logger, testutil.GuestDomain)
	return transfer.NewService(db, bookmarkService), db
}

func ident(u *models.User) bookmarks.Identity {
	return bookmarks.Identity{ID: u.ID, IsGuest: u.GuestAccount(testutil.GuestDomain)}
}

const netscapeSample = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
  <DT><A HREF="https://one.test" ADD_DATE="1700000000">First &amp; Foremost</A>
  <DD>The first entry
  <DT><A HREF="https://two.test">Second</A>
  <DT><A HREF="">No URL</A>
</DL><p>
`

func TestParseNetscape(t *testing.T) {
	records, err := transfer.ParseNetscape(strings.NewReader(netscapeSample))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "First & Foremost", records[0].Title)
	assert.Equal(t, "https://one.test", records[0].URL)
	assert.Equal(t, "The first entry", records[0].Description)

	assert.Equal(t, "Second", records[1].Title)
	assert.Empty(t, records[1].Description)
}

func TestImportRecords(t *testing.T) {
	svc, db := setupTransferService(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, db, "Alice")

	t.Run("imports and counts failures", func(t *testing.T) {
		result := svc.ImportRecords(ctx, ident(alice), []transfer.ImportRecord{
			{Title: "Good", URL: "https://good.test"},
			{Title: "", URL: "https://missing-title.test"},
			{Title: "No URL"},
		})
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 2, result.Failed)
	})

	t.Run("duplicate urls fail without aborting the batch", func(t *testing.T) {
		result := svc.ImportRecords(ctx, ident(alice), []transfer.ImportRecord{
			{Title: "Again", URL: "https://good.test"},
			{Title: "Fresh", URL: "https://fresh.test"},
		})
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("imported rows are private for regular users", func(t *testing.T) {
		var row models.Bookmark
		require.NoError(t, db.First(&row, "url = ?", "https://good.test").Error)
		assert.False(t, row.IsPublic)
		assert.Equal(t, alice.ID, row.OwnerID)
	})

	t.Run("guest imports come out public", func(t *testing.T) {
		guest := testutil.CreateTestGuest(t, db)
		result := svc.ImportRecords(ctx, ident(guest), []transfer.ImportRecord{
			{Title: "Guest", URL: "https://guest-import.test"},
		})
		require.Equal(t, 1, result.Imported)

		var row models.Bookmark
		require.NoError(t, db.First(&row, "url = ?", "https://guest-import.test").Error)
		assert.True(t, row.IsPublic)
	})
}

func TestImportNetscape(t *testing.T) {
	svc, db := setupTransferService(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, db, "Alice")

	result, err := svc.ImportNetscape(ctx, ident(alice), strings.NewReader(netscapeSample))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	var count int64
	db.Model(&models.Bookmark{}).Where("owner_id = ?", alice.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestExportJSON(t *testing.T) {
	svc, db := setupTransferService(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, db, "Alice")
	bob := testutil.CreateTestUser(t, db, "Bob")

	b := testutil.CreateTestBookmark(t, db, alice.ID, "Mine", "https://mine.test", false, nil)
	testutil.CreateTestBookmark(t, db, bob.ID, "Bob's", "https://bobs.test", true, nil)

	tag := testutil.CreateTestTag(t, db, alice.ID, "kept")
	require.NoError(t, db.Create(&models.BookmarkTag{BookmarkID: b.ID, TagID: tag.ID}).Error)

	records, err := svc.ExportJSON(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "Mine", records[0].Title)
	require.Len(t, records[0].Tags, 1)
	assert.Equal(t, "kept", records[0].Tags[0].Name)
}

func TestExportHTML(t *testing.T) {
	svc, db := setupTransferService(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, db, "Alice")

	b := testutil.CreateTestBookmark(t, db, alice.ID, "Docs & Co", "https://docs.test", false, nil)
	require.NoError(t, db.Model(b).Update("description", "with <angle> brackets").Error)

	doc, err := svc.ExportHTML(ctx, alice.ID)
	require.NoError(t, err)

	assert.Contains(t, doc, "<!DOCTYPE NETSCAPE-Bookmark-file-1>")
	assert.Contains(t, doc, `HREF="https://docs.test"`)
	assert.Contains(t, doc, "Docs &amp; Co")
	assert.Contains(t, doc, "with &lt;angle&gt; brackets")
}

func TestNetscapeRoundtrip(t *testing.T) {
	svc, db := setupTransferService(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, db, "Alice")
	bob := testutil.CreateTestUser(t, db, "Bob")

	testutil.CreateTestBookmark(t, db, alice.ID, "Round", "https://round.test", false, nil)

	doc, err := svc.ExportHTML(ctx, alice.ID)
	require.NoError(t, err)

	result, err := svc.ImportNetscape(ctx, ident(bob), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	var row models.Bookmark
	require.NoError(t, db.First(&row, "owner_id = ?", bob.ID).Error)
	assert.Equal(t, "Round", row.Title)
	assert.Equal(t, "https://round.test", row.URL)
}
