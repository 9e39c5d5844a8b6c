package bookmarks

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/apperr"
	"github.com/hugh/linkstash/internal/database/models"
	"github.com/hugh/linkstash/internal/groups"
	"gorm.io/gorm"
)

// Service is the bookmark engine: visibility classification, query planning,
// per-requester overrides and uniqueness enforcement. The store handle is
// injected so tests can run against an isolated database.
type Service struct {
	db          *gorm.DB
	groups      *groups.Service
	logger      *slog.Logger
	guestDomain string
}

func NewService(db *gorm.DB, groupService *groups.Service, logger *slog.Logger, guestDomain string) *Service {
	return &Service{
		db:          db,
		groups:      groupService,
		logger:      logger,
		guestDomain: guestDomain,
	}
}

// loadWithOwner fetches a bookmark and its owner row. The owner is needed by
// every classification.
func (s *Service) loadWithOwner(ctx context.Context, id uuid.UUID) (*models.Bookmark, *models.User, error) {
	var bookmark models.Bookmark
	if err := s.db.WithContext(ctx).First(&bookmark, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("bookmark not found")
		}
		return nil, nil, apperr.Internal("failed to load bookmark", err)
	}
	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, "id = ?", bookmark.OwnerID).Error; err != nil {
		return nil, nil, apperr.Internal("failed to load bookmark owner", err)
	}
	return &bookmark, &owner, nil
}

// Get returns one bookmark as seen by the requester. Private bookmarks of
// other users surface as not-found, never as a permission error.
func (s *Service) Get(ctx context.Context, requester Identity, id uuid.UUID) (*Row, error) {
	bookmark, owner, err := s.loadWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	role := Classify(requester, bookmark, owner, s.guestDomain)
	if role == RoleNoAccess {
		return nil, apperr.NotFound("bookmark not found")
	}

	row := Row{Bookmark: *bookmark, OwnerName: owner.Name}
	if role != RoleOwner {
		effective, err := s.EffectiveGroup(ctx, requester.ID, bookmark)
		if err != nil {
			return nil, err
		}
		if !sameGroupID(effective, bookmark.GroupID) {
			row.OverrideGroupID = effective
		}
	}

	rows := []Row{row}
	if err := s.annotateTags(ctx, rows, requester.ID); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

type CreateInput struct {
	Title       string
	URL         string
	Description string
	IsPublic    bool
	BgColor     *string
	GroupID     *uuid.UUID
	TagIDs      []uuid.UUID
}

// Create inserts a bookmark for the requester. Guest writers always produce
// public bookmarks, so the private uniqueness partition is unreachable for
// them.
func (s *Service) Create(ctx context.Context, requester Identity, input CreateInput) (*Row, error) {
	if input.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if input.URL == "" {
		return nil, apperr.Validation("url is required")
	}

	isPublic := input.IsPublic
	if requester.IsGuest {
		isPublic = true
	}

	if input.GroupID != nil {
		var group models.Group
		if err := s.db.WithContext(ctx).
			Where("id = ? AND owner_id = ?", *input.GroupID, requester.ID).
			First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("group not found")
			}
			return nil, apperr.Internal("failed to look up group", err)
		}
	}

	bookmark := models.Bookmark{
		Title:       input.Title,
		URL:         input.URL,
		Description: input.Description,
		IsPublic:    isPublic,
		BgColor:     input.BgColor,
		GroupID:     input.GroupID,
		OwnerID:     requester.ID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureURLUnique(ctx, tx, input.URL, isPublic, requester.ID, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(&bookmark).Error; err != nil {
			return conflictFromDB(err)
		}
		if len(input.TagIDs) > 0 {
			return s.SetTags(ctx, tx, requester.ID, bookmark.ID, input.TagIDs)
		}
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("failed to create bookmark", err)
	}

	s.logger.Info("bookmark created",
		"bookmark_id", bookmark.ID,
		"owner_id", requester.ID,
		"is_public", isPublic,
	)
	return s.Get(ctx, requester, bookmark.ID)
}

type UpdateInput struct {
	Title       string  // empty keeps the existing title
	URL         string  // empty keeps the existing url
	Description *string // nil keeps the existing description
	IsPublic    *bool
	BgColor     *string
	BgColorSet  bool
	GroupID     *uuid.UUID
	GroupSet    bool
	TagIDs      []uuid.UUID // nil keeps the existing memberships
}

// Update re-derives the requester's role and dispatches on it. Owners and
// guest-bookmark editors get a full content update; foreign viewers of a
// public bookmark may only move their personal group/tag assignment; private
// bookmarks of other users behave as if they do not exist.
func (s *Service) Update(ctx context.Context, requester Identity, id uuid.UUID, input UpdateInput) (*Row, error) {
	bookmark, owner, err := s.loadWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	role := Classify(requester, bookmark, owner, s.guestDomain)
	switch {
	case role == RoleNoAccess:
		return nil, apperr.NotFound("bookmark not found")
	case role.CanEditContent():
		if err := s.updateContent(ctx, requester, bookmark, role, input); err != nil {
			return nil, err
		}
	default: // RoleForeignPublic
		if err := s.updateAssignment(ctx, requester, bookmark, input); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, requester, id)
}

func (s *Service) updateContent(ctx context.Context, requester Identity, bookmark *models.Bookmark, role Role, input UpdateInput) error {
	if input.Title != "" {
		bookmark.Title = input.Title
	}
	if input.URL != "" {
		bookmark.URL = input.URL
	}
	if input.Description != nil {
		bookmark.Description = *input.Description
	}
	if input.BgColorSet {
		bookmark.BgColor = input.BgColor
	}

	wasPublic := bookmark.IsPublic
	if input.IsPublic != nil {
		bookmark.IsPublic = *input.IsPublic
	}
	if role.VisibilityPinned() {
		bookmark.IsPublic = true
	}

	if input.GroupSet {
		if input.GroupID != nil {
			var group models.Group
			if err := s.db.WithContext(ctx).
				Where("id = ? AND owner_id = ?", *input.GroupID, requester.ID).
				First(&group).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("group not found")
				}
				return apperr.Internal("failed to look up group", err)
			}
		}
		bookmark.GroupID = input.GroupID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Changing the url or flipping visibility moves the row to a new
		// uniqueness partition; re-probe under the new pair.
		if input.URL != "" || bookmark.IsPublic != wasPublic {
			if err := ensureURLUnique(ctx, tx, bookmark.URL, bookmark.IsPublic, bookmark.OwnerID, bookmark.ID); err != nil {
				return err
			}
		}
		if err := tx.Save(bookmark).Error; err != nil {
			return conflictFromDB(err)
		}
		if input.TagIDs != nil {
			return s.SetTags(ctx, tx, requester.ID, bookmark.ID, input.TagIDs)
		}
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperr.Internal("failed to update bookmark", err)
	}
	return nil
}

// updateAssignment applies the personal-only slice of an update for a
// requester who may not touch the bookmark's content. Content fields in the
// request are rejected rather than ignored.
func (s *Service) updateAssignment(ctx context.Context, requester Identity, bookmark *models.Bookmark, input UpdateInput) error {
	if input.Title != "" || input.URL != "" || input.Description != nil ||
		input.IsPublic != nil || input.BgColorSet {
		return apperr.Permission("only the personal group and tag assignment can be changed on this bookmark")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.GroupSet {
			if err := s.SetGroup(ctx, tx, requester.ID, bookmark.ID, input.GroupID); err != nil {
				return err
			}
		}
		if input.TagIDs != nil {
			return s.SetTags(ctx, tx, requester.ID, bookmark.ID, input.TagIDs)
		}
		return nil
	})
}

// Delete removes a bookmark together with its tag memberships and overrides.
// Owners and guest-bookmark editors may delete; a foreign public viewer may
// not.
func (s *Service) Delete(ctx context.Context, requester Identity, id uuid.UUID) error {
	bookmark, owner, err := s.loadWithOwner(ctx, id)
	if err != nil {
		return err
	}

	role := Classify(requester, bookmark, owner, s.guestDomain)
	switch {
	case role == RoleNoAccess:
		return apperr.NotFound("bookmark not found")
	case !role.CanDelete():
		return apperr.Permission("not allowed to delete this bookmark")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.BookmarkTag{}, "bookmark_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.BookmarkOverride{}, "bookmark_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Bookmark{}, "id = ?", id).Error
	})
	if err != nil {
		return apperr.Internal("failed to delete bookmark", err)
	}

	s.logger.Info("bookmark deleted", "bookmark_id", id, "deleted_by", requester.ID, "role", role.String())
	return nil
}
