package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hugh/linkstash/internal/api/dto"
	"github.com/hugh/linkstash/internal/api/middleware"
	"github.com/hugh/linkstash/internal/apperr"
	"github.com/hugh/linkstash/internal/bookmarks"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP status codes.
// Unexpected errors come out as a generic 500 without storage detail.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	status := http.StatusInternalServerError
	message := appErr.Message
	switch appErr.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindPermission:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	default:
		message = "Internal server error"
	}

	writeJSON(w, status, dto.ErrorResponse{Error: message, Kind: appErr.Kind.String()})
}

func requesterFrom(r *http.Request) bookmarks.Identity {
	return bookmarks.Identity{
		ID:      middleware.GetUserID(r.Context()),
		IsGuest: middleware.IsGuest(r.Context()),
	}
}
