package models

import "github.com/google/uuid"

const DefaultTagColor = "#6366f1"

// Tag names are unique per owner; two users may hold identically-named tags.
type Tag struct {
	Base
	Name    string    `gorm:"not null;uniqueIndex:idx_tags_name_owner" json:"name"`
	Color   string    `gorm:"default:'#6366f1'" json:"color"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tags_name_owner" json:"owner_id"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}
