package bookmarks

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/apperr"
	"github.com/hugh/linkstash/internal/database/models"
	"github.com/hugh/linkstash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A concurrent writer can land between the uniqueness probe and the insert;
// the partial unique index is what actually closes that window.
func TestPublicURLIndexClosesProbeRace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	alice := testutil.CreateTestUser(t, db, "Alice")
	bob := testutil.CreateTestUser(t, db, "Bob")

	testutil.CreateTestBookmark(t, db, alice.ID, "First", "https://race.test", true, nil)

	// A second public row with the same URL, written straight past the probe.
	dup := models.Bookmark{
		Base:     models.Base{ID: uuid.New()},
		Title:    "Second",
		URL:      "https://race.test",
		IsPublic: true,
		OwnerID:  bob.ID,
	}
	err := db.Create(&dup).Error
	require.Error(t, err)

	translated := conflictFromDB(err)
	var appErr *apperr.Error
	require.ErrorAs(t, translated, &appErr)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)

	// The private partition is independent: the same URL inserts cleanly.
	private := models.Bookmark{
		Base:     models.Base{ID: uuid.New()},
		Title:    "Private copy",
		URL:      "https://race.test",
		IsPublic: false,
		OwnerID:  bob.ID,
	}
	require.NoError(t, db.Create(&private).Error)
}

func TestConflictFromDB(t *testing.T) {
	assert.NoError(t, conflictFromDB(nil))

	wrapped := conflictFromDB(assert.AnError)
	var appErr *apperr.Error
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, apperr.KindInternal, appErr.Kind)
}
