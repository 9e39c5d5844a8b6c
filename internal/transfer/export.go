// Package transfer moves bookmarks in and out of the service as JSON or
// Netscape bookmark-file HTML. Imports go through the same create path as
// interactive writes, so uniqueness and guest rules are never bypassed.
package transfer

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/apperr"
	"github.com/hugh/linkstash/internal/bookmarks"
	"github.com/hugh/linkstash/internal/database/models"
	"gorm.io/gorm"
)

type Service struct {
	db        *gorm.DB
	bookmarks *bookmarks.Service
}

func NewService(db *gorm.DB, bookmarkService *bookmarks.Service) *Service {
	return &Service{db: db, bookmarks: bookmarkService}
}

type ExportedTag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ExportRecord struct {
	Title       string        `json:"title"`
	URL         string        `json:"url"`
	Description string        `json:"description,omitempty"`
	IsPublic    bool          `json:"is_public"`
	BgColor     *string       `json:"bg_color,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Tags        []ExportedTag `json:"tags"`
}

// ExportJSON returns the owner's bookmarks, newest first, with the owner's
// own tags attached.
func (s *Service) ExportJSON(ctx context.Context, ownerID uuid.UUID) ([]ExportRecord, error) {
	var rows []models.Bookmark
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperr.Internal("failed to load bookmarks", err)
	}

	records := make([]ExportRecord, 0, len(rows))
	for _, b := range rows {
		var tags []models.Tag
		if err := s.db.WithContext(ctx).
			Model(&models.Tag{}).
			Joins("JOIN bookmark_tags bt ON bt.tag_id = tags.id").
			Where("bt.bookmark_id = ? AND tags.owner_id = ?", b.ID, ownerID).
			Find(&tags).Error; err != nil {
			return nil, apperr.Internal("failed to load tags", err)
		}

		exported := make([]ExportedTag, 0, len(tags))
		for _, t := range tags {
			exported = append(exported, ExportedTag{Name: t.Name, Color: t.Color})
		}
		records = append(records, ExportRecord{
			Title:       b.Title,
			URL:         b.URL,
			Description: b.Description,
			IsPublic:    b.IsPublic,
			BgColor:     b.BgColor,
			CreatedAt:   b.CreatedAt,
			Tags:        exported,
		})
	}
	return records, nil
}

// ExportHTML renders the owner's bookmarks in the Netscape bookmark-file
// format understood by browser importers.
func (s *Service) ExportHTML(ctx context.Context, ownerID uuid.UUID) (string, error) {
	var rows []models.Bookmark
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return "", apperr.Internal("failed to load bookmarks", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	sb.WriteString(`<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">` + "\n")
	sb.WriteString("<TITLE>Bookmarks</TITLE>\n<H1>Bookmarks</H1>\n<DL><p>\n")
	for _, b := range rows {
		fmt.Fprintf(&sb, "  <DT><A HREF=%q ADD_DATE=%q>%s</A>\n",
			b.URL, fmt.Sprint(b.CreatedAt.Unix()), html.EscapeString(b.Title))
		if b.Description != "" {
			fmt.Fprintf(&sb, "  <DD>%s\n", html.EscapeString(b.Description))
		}
	}
	sb.WriteString("</DL><p>\n")
	return sb.String(), nil
}
