package models

import "github.com/google/uuid"

// BookmarkOverride is a requester-private group assignment layered on a
// bookmark the requester does not own. At most one row per (user, bookmark);
// writes upsert.
type BookmarkOverride struct {
	UserID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	BookmarkID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"bookmark_id"`
	GroupID    *uuid.UUID `gorm:"type:uuid;index" json:"group_id,omitempty"`

	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	Bookmark *Bookmark `gorm:"foreignKey:BookmarkID" json:"-"`
	Group    *Group    `gorm:"foreignKey:GroupID" json:"-"`
}

func (BookmarkOverride) TableName() string {
	return "bookmark_overrides"
}
