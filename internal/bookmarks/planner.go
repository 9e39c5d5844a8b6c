package bookmarks

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/apperr"
	"github.com/hugh/linkstash/internal/database/models"
	"gorm.io/gorm"
)

// Scope selects the base visibility predicate of a list query.
type Scope int

const (
	// ScopeAllVisible: requester's own bookmarks plus everyone's public ones.
	ScopeAllVisible Scope = iota
	// ScopeMineOnly: bookmarks the requester owns, public or private.
	ScopeMineOnly
	// ScopePrivateOnly: the requester's private bookmarks.
	ScopePrivateOnly
	// ScopePublicOnly: all public bookmarks, any owner. Works without an
	// identity; an identity only adds the viewer's tag annotations.
	ScopePublicOnly
)

type ListOptions struct {
	Scope   Scope
	GroupID *uuid.UUID
	TagID   *uuid.UUID
	Search  string
	Page    int
	Limit   int
}

// Row is one bookmark as seen by a specific requester: owner display name,
// the requester's override group when one exists, and only the requester's
// own tags.
type Row struct {
	models.Bookmark
	OwnerName       string       `json:"owner_name"`
	OverrideGroupID *uuid.UUID   `json:"override_group_id,omitempty"`
	Tags            []models.Tag `gorm:"-" json:"tags"`
}

// EffectiveGroupID is the group this bookmark files under for the viewer:
// the viewer's override when present, otherwise the owner's own group.
func (r *Row) EffectiveGroupID() *uuid.UUID {
	if r.OverrideGroupID != nil {
		return r.OverrideGroupID
	}
	return r.GroupID
}

// escapeLike neutralizes LIKE wildcards in user-supplied search text so "%"
// and "_" match themselves.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// sameGroupID compares two optional group references by value.
func sameGroupID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type ListResult struct {
	Bookmarks []Row `json:"bookmarks"`
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
}

const defaultMaxCardCount = 100000

// maxCardCount is the administrative ceiling on a single page, read from the
// settings table on every call so it can be retuned without a restart.
func (s *Service) maxCardCount(ctx context.Context) int {
	var setting models.Setting
	if err := s.db.WithContext(ctx).
		First(&setting, "key = ?", models.SettingMaxCardCount).Error; err != nil {
		return defaultMaxCardCount
	}
	n, err := strconv.Atoi(setting.Value)
	if err != nil || n <= 0 {
		return defaultMaxCardCount
	}
	return n
}

// List runs one read query plus an identically-predicated count query.
// requester is nil for anonymous access, which is only meaningful with
// ScopePublicOnly.
func (s *Service) List(ctx context.Context, requester *Identity, opts ListOptions) (*ListResult, error) {
	ceiling := s.maxCardCount(ctx)

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 || limit > ceiling {
		limit = ceiling
	}
	offset := (page - 1) * limit

	if requester == nil && opts.Scope != ScopePublicOnly {
		return nil, apperr.Permission("authentication required")
	}

	build := func() (*gorm.DB, error) {
		q := s.db.WithContext(ctx).
			Model(&models.Bookmark{}).
			Joins("JOIN users u ON u.id = bookmarks.owner_id")

		// For anonymous requests the join key is the nil UUID, which never
		// matches an override row.
		requesterID := uuid.Nil
		if requester != nil {
			requesterID = requester.ID
		}
		q = q.Joins(
			"LEFT JOIN bookmark_overrides o ON o.bookmark_id = bookmarks.id AND o.user_id = ?",
			requesterID,
		)

		switch opts.Scope {
		case ScopePublicOnly:
			q = q.Where("bookmarks.is_public")
		case ScopeMineOnly:
			q = q.Where("bookmarks.owner_id = ?", requester.ID)
		case ScopePrivateOnly:
			q = q.Where("bookmarks.owner_id = ? AND NOT bookmarks.is_public", requester.ID)
		default:
			q = q.Where("bookmarks.owner_id = ? OR bookmarks.is_public", requester.ID)
		}

		if opts.Search != "" {
			pattern := "%" + escapeLike(strings.ToLower(opts.Search)) + "%"
			q = q.Where(
				`LOWER(bookmarks.title) LIKE ? ESCAPE '\' OR LOWER(bookmarks.url) LIKE ? ESCAPE '\' OR LOWER(bookmarks.description) LIKE ? ESCAPE '\'`,
				pattern, pattern, pattern,
			)
		}

		if opts.TagID != nil && requester != nil {
			q = q.Joins("JOIN bookmark_tags bt ON bt.bookmark_id = bookmarks.id").
				Where("bt.tag_id = ?", *opts.TagID)
		}

		if opts.GroupID != nil && requester != nil {
			ids, err := s.groups.DescendantIDs(ctx, requester.ID, *opts.GroupID)
			if err != nil {
				return nil, err
			}
			// A bookmark matches on its effective group: the owner's own
			// filing for own rows, the requester's override (falling back to
			// the owner's group) for foreign rows.
			q = q.Where(
				"(CASE WHEN bookmarks.owner_id = ? THEN bookmarks.group_id ELSE COALESCE(o.group_id, bookmarks.group_id) END) IN ?",
				requester.ID, ids,
			)
		}

		return q, nil
	}

	countQ, err := build()
	if err != nil {
		return nil, err
	}
	var total int64
	if err := countQ.Distinct("bookmarks.id").Count(&total).Error; err != nil {
		return nil, apperr.Internal("failed to count bookmarks", err)
	}

	readQ, err := build()
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := readQ.
		// title_sort rides in the select list because SELECT DISTINCT
		// cannot order by an expression that is not selected.
		Distinct(
			"bookmarks.*",
			"u.name AS owner_name",
			"o.group_id AS override_group_id",
			"LOWER(bookmarks.title) AS title_sort",
		).
		Order("title_sort ASC, bookmarks.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, apperr.Internal("failed to list bookmarks", err)
	}

	// An override that matches the owner's own filing is not worth surfacing.
	for i := range rows {
		if sameGroupID(rows[i].OverrideGroupID, rows[i].GroupID) {
			rows[i].OverrideGroupID = nil
		}
	}

	if requester != nil {
		if err := s.annotateTags(ctx, rows, requester.ID); err != nil {
			return nil, err
		}
	} else {
		for i := range rows {
			rows[i].Tags = []models.Tag{}
		}
	}

	return &ListResult{
		Bookmarks: rows,
		Total:     total,
		Page:      page,
		Limit:     limit,
	}, nil
}

// annotateTags attaches requester-owned tags to each row. Other users' tags
// on the same bookmark are never exposed.
func (s *Service) annotateTags(ctx context.Context, rows []Row, requesterID uuid.UUID) error {
	for i := range rows {
		rows[i].Tags = []models.Tag{}
	}
	if len(rows) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(rows))
	index := make(map[uuid.UUID]int, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
		index[rows[i].ID] = i
	}

	type taggedRow struct {
		models.Tag
		BookmarkID uuid.UUID
	}
	var tagged []taggedRow
	if err := s.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.*, bt.bookmark_id AS bookmark_id").
		Joins("JOIN bookmark_tags bt ON bt.tag_id = tags.id").
		Where("bt.bookmark_id IN ? AND tags.owner_id = ?", ids, requesterID).
		Order("LOWER(tags.name) ASC").
		Scan(&tagged).Error; err != nil {
		return apperr.Internal("failed to load tags", err)
	}

	for _, t := range tagged {
		if i, ok := index[t.BookmarkID]; ok {
			rows[i].Tags = append(rows[i].Tags, t.Tag)
		}
	}
	return nil
}
