package tags

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/apperr"
	"github.com/hugh/linkstash/internal/database/models"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// TagWithCount is a tag annotated with how many bookmarks carry it.
type TagWithCount struct {
	models.Tag
	BookmarkCount int64 `json:"bookmark_count"`
}

// List returns the owner's tags with usage counts, name ascending. A user
// only ever sees their own tag taxonomy.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]TagWithCount, error) {
	var tags []TagWithCount
	err := s.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.*, COUNT(bt.bookmark_id) AS bookmark_count").
		Joins("LEFT JOIN bookmark_tags bt ON bt.tag_id = tags.id").
		Where("tags.owner_id = ?", ownerID).
		Group("tags.id").
		Order("LOWER(tags.name) ASC").
		Scan(&tags).Error
	if err != nil {
		return nil, apperr.Internal("failed to list tags", err)
	}
	if tags == nil {
		tags = []TagWithCount{}
	}
	return tags, nil
}

type CreateInput struct {
	Name  string
	Color string
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*models.Tag, error) {
	if input.Name == "" {
		return nil, apperr.Validation("tag name is required")
	}
	color := input.Color
	if color == "" {
		color = models.DefaultTagColor
	}

	tag := models.Tag{
		Name:    input.Name,
		Color:   color,
		OwnerID: ownerID,
	}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("tag already exists")
		}
		return nil, apperr.Internal("failed to create tag", err)
	}
	return &tag, nil
}

type UpdateInput struct {
	Name  string // empty keeps the existing name
	Color string // empty keeps the existing color
}

func (s *Service) Update(ctx context.Context, ownerID, tagID uuid.UUID, input UpdateInput) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", tagID, ownerID).
		First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tag not found")
		}
		return nil, apperr.Internal("failed to look up tag", err)
	}

	if input.Name != "" {
		tag.Name = input.Name
	}
	if input.Color != "" {
		tag.Color = input.Color
	}

	if err := s.db.WithContext(ctx).Save(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("tag already exists")
		}
		return nil, apperr.Internal("failed to update tag", err)
	}
	return &tag, nil
}

// Delete removes a tag and its memberships. Bookmarks carrying the tag are
// never deleted.
func (s *Service) Delete(ctx context.Context, ownerID, tagID uuid.UUID) error {
	var tag models.Tag
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", tagID, ownerID).
		First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("tag not found")
		}
		return apperr.Internal("failed to look up tag", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.BookmarkTag{}, "tag_id = ?", tagID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, "id = ?", tagID).Error
	})
	if err != nil {
		return apperr.Internal("failed to delete tag", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
