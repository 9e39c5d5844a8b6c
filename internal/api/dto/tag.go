package dto

import "github.com/hugh/linkstash/internal/api/validation"

type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (r CreateTagRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	} else if len(r.Name) > 50 {
		errors["name"] = "Name must be at most 50 characters"
	}
	if r.Color != "" && !validation.IsValidHexColor(r.Color) {
		errors["color"] = "Color must be a hex value like #1a2b3c"
	}

	return errors
}

type UpdateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (r UpdateTagRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if len(r.Name) > 50 {
		errors["name"] = "Name must be at most 50 characters"
	}
	if r.Color != "" && !validation.IsValidHexColor(r.Color) {
		errors["color"] = "Color must be a hex value like #1a2b3c"
	}

	return errors
}
