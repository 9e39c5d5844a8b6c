package models

import "github.com/google/uuid"

// Bookmark URL uniqueness is partitioned by visibility: public URLs are
// globally unique, private URLs are unique per owner. The partial unique
// indexes enforcing this live in database.Migrate, not in struct tags.
type Bookmark struct {
	Base
	Title       string     `gorm:"not null" json:"title"`
	URL         string     `gorm:"not null;index" json:"url"`
	Description string     `gorm:"default:''" json:"description"`
	IsPublic    bool       `gorm:"default:false;index" json:"is_public"`
	BgColor     *string    `json:"bg_color,omitempty"`
	GroupID     *uuid.UUID `gorm:"type:uuid;index" json:"group_id,omitempty"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"owner_id"`

	// Relationships
	Owner *User  `gorm:"foreignKey:OwnerID" json:"-"`
	Group *Group `gorm:"foreignKey:GroupID" json:"-"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

// BookmarkTag links a bookmark to a tag. Membership rows from different tag
// owners coexist on the same bookmark; views filter by tag owner.
type BookmarkTag struct {
	BookmarkID uuid.UUID `gorm:"type:uuid;primaryKey" json:"bookmark_id"`
	TagID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"tag_id"`

	Bookmark *Bookmark `gorm:"foreignKey:BookmarkID" json:"-"`
	Tag      *Tag      `gorm:"foreignKey:TagID" json:"-"`
}

func (BookmarkTag) TableName() string {
	return "bookmark_tags"
}
