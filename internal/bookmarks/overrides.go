package bookmarks

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/apperr"
	"github.com/hugh/linkstash/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetGroup upserts the requester's personal group assignment for a bookmark
// they do not own. The group, when non-nil, must belong to the requester;
// the bookmark owner's filing is never touched.
func (s *Service) SetGroup(ctx context.Context, tx *gorm.DB, requesterID, bookmarkID uuid.UUID, groupID *uuid.UUID) error {
	if groupID != nil {
		var group models.Group
		if err := tx.WithContext(ctx).
			Where("id = ? AND owner_id = ?", *groupID, requesterID).
			First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("group not found")
			}
			return apperr.Internal("failed to look up group", err)
		}
	}

	override := models.BookmarkOverride{
		UserID:     requesterID,
		BookmarkID: bookmarkID,
		GroupID:    groupID,
	}
	err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "bookmark_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"group_id"}),
	}).Create(&override).Error
	if err != nil {
		return apperr.Internal("failed to save group assignment", err)
	}
	return nil
}

// SetTags replaces the requester's tag memberships on a bookmark. Only rows
// whose tag belongs to the requester are deleted or inserted, so two users
// tagging the same shared bookmark never clobber each other and the owner's
// tags survive a foreign write.
func (s *Service) SetTags(ctx context.Context, tx *gorm.DB, requesterID, bookmarkID uuid.UUID, tagIDs []uuid.UUID) error {
	if err := tx.WithContext(ctx).
		Where("bookmark_id = ? AND tag_id IN (?)",
			bookmarkID,
			tx.Model(&models.Tag{}).Select("id").Where("owner_id = ?", requesterID),
		).
		Delete(&models.BookmarkTag{}).Error; err != nil {
		return apperr.Internal("failed to clear tags", err)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	// Silently drop ids that do not resolve to a tag the requester owns;
	// foreign tag ids must not create cross-owner memberships.
	var owned []uuid.UUID
	if err := tx.WithContext(ctx).
		Model(&models.Tag{}).
		Where("id IN ? AND owner_id = ?", tagIDs, requesterID).
		Pluck("id", &owned).Error; err != nil {
		return apperr.Internal("failed to resolve tags", err)
	}

	memberships := make([]models.BookmarkTag, 0, len(owned))
	for _, tagID := range owned {
		memberships = append(memberships, models.BookmarkTag{
			BookmarkID: bookmarkID,
			TagID:      tagID,
		})
	}
	if len(memberships) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&memberships).Error; err != nil {
		return apperr.Internal("failed to save tags", err)
	}
	return nil
}

// EffectiveGroup returns the requester's override group when one exists,
// falling back to the bookmark's own group. The fallback is what files a
// never-overridden public or guest bookmark under the owner's group for
// every viewer.
func (s *Service) EffectiveGroup(ctx context.Context, requesterID uuid.UUID, b *models.Bookmark) (*uuid.UUID, error) {
	var override models.BookmarkOverride
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND bookmark_id = ?", requesterID, b.ID).
		First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.GroupID, nil
		}
		return nil, apperr.Internal("failed to load group assignment", err)
	}
	return override.GroupID, nil
}
