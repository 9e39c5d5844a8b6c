package dto

import (
	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/api/validation"
)

type CreateBookmarkRequest struct {
	Title       string      `json:"title"`
	URL         string      `json:"url"`
	Description string      `json:"description"`
	IsPublic    bool        `json:"is_public"`
	BgColor     *string     `json:"bg_color"`
	GroupID     *uuid.UUID  `json:"group_id"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
}

func (r CreateBookmarkRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.URL == "" {
		errors["url"] = "URL is required"
	} else if !validation.IsValidURL(r.URL) {
		errors["url"] = "URL must be a valid http(s) address"
	}
	if r.BgColor != nil && *r.BgColor != "" && !validation.IsValidHexColor(*r.BgColor) {
		errors["bg_color"] = "Color must be a hex value like #1a2b3c"
	}

	return errors
}

// UpdateBookmarkRequest distinguishes absent fields (keep) from explicit
// nulls (clear) for the nullable ones. A nil TagIDs keeps the current tags,
// an empty array clears them.
type UpdateBookmarkRequest struct {
	Title       string         `json:"title"`
	URL         string         `json:"url"`
	Description *string        `json:"description"`
	IsPublic    *bool          `json:"is_public"`
	BgColor     NullableString `json:"bg_color"`
	GroupID     NullableUUID   `json:"group_id"`
	TagIDs      []uuid.UUID    `json:"tag_ids"`
}

func (r UpdateBookmarkRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.URL != "" && !validation.IsValidURL(r.URL) {
		errors["url"] = "URL must be a valid http(s) address"
	}
	if r.BgColor.Set && r.BgColor.Value != nil && !validation.IsValidHexColor(*r.BgColor.Value) {
		errors["bg_color"] = "Color must be a hex value like #1a2b3c"
	}

	return errors
}
