package models

import "github.com/google/uuid"

// Group is one node of a per-user filing forest. ParentID, when set, must
// reference another group owned by the same user.
type Group struct {
	Base
	Name      string     `gorm:"not null" json:"name"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"owner_id"`
	SortOrder int        `gorm:"default:0" json:"sort_order"`

	// Relationships
	Owner    *User   `gorm:"foreignKey:OwnerID" json:"-"`
	Parent   *Group  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Group `gorm:"foreignKey:ParentID" json:"-"`
}

func (Group) TableName() string {
	return "groups"
}
