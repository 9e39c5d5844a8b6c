package bookmarks

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/apperr"
	"github.com/hugh/linkstash/internal/database/models"
	"gorm.io/gorm"
)

// ensureURLUnique probes the visibility partition a write is about to land
// in: public URLs are globally unique, private URLs are unique per owner.
// excludeID skips the row being updated. The probe exists for a friendly
// error; the partial unique indexes remain the authoritative race closer, so
// callers must still translate constraint violations (see conflictFromDB).
func ensureURLUnique(ctx context.Context, tx *gorm.DB, url string, isPublic bool, ownerID, excludeID uuid.UUID) error {
	q := tx.WithContext(ctx).Model(&models.Bookmark{}).Where("url = ?", url)
	if isPublic {
		q = q.Where("is_public")
	} else {
		q = q.Where("NOT is_public AND owner_id = ?", ownerID)
	}
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperr.Internal("failed to check url uniqueness", err)
	}
	if count > 0 {
		return apperr.Conflict("a bookmark with this URL already exists with the same visibility")
	}
	return nil
}

// conflictFromDB maps a unique-index violation raised by the store into the
// same conflict the probe reports, covering the window between probe and
// insert under concurrent writers.
func conflictFromDB(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key") {
		return apperr.Conflict("a bookmark with this URL already exists with the same visibility")
	}
	return apperr.Internal("failed to save bookmark", err)
}
