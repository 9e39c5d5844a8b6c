package validation

import (
	"net/url"
	"regexp"
)

var (
	// EmailRegex validates email format
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// HexColorRegex validates #rgb and #rrggbb display hints
	hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidURL checks that the string parses as an absolute http(s) URL
func IsValidURL(raw string) bool {
	if raw == "" || len(raw) > 2048 {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidHexColor checks the #rgb / #rrggbb display-hint format
func IsValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// IsValidPassword enforces the minimum password length
func IsValidPassword(password string) bool {
	return len(password) >= 6
}
