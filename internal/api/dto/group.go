package dto

import "github.com/google/uuid"

type CreateGroupRequest struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func (r CreateGroupRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	} else if len(r.Name) > 100 {
		errors["name"] = "Name must be at most 100 characters"
	}

	return errors
}

// UpdateGroupRequest distinguishes an absent parent_id (keep the current
// parent) from an explicit null (move to root).
type UpdateGroupRequest struct {
	Name     string       `json:"name"`
	ParentID NullableUUID `json:"parent_id"`
}

func (r UpdateGroupRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if len(r.Name) > 100 {
		errors["name"] = "Name must be at most 100 characters"
	}

	return errors
}
