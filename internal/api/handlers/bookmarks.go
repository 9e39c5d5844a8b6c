package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/api/dto"
	"github.com/hugh/linkstash/internal/bookmarks"
)

type BookmarkHandler struct {
	bookmarks *bookmarks.Service
}

func NewBookmarkHandler(bookmarkService *bookmarks.Service) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarkService}
}

func parseScope(raw string) (bookmarks.Scope, bool) {
	switch raw {
	case "", "mine":
		return bookmarks.ScopeMineOnly, true
	case "all":
		return bookmarks.ScopeAllVisible, true
	case "private":
		return bookmarks.ScopePrivateOnly, true
	case "public":
		return bookmarks.ScopePublicOnly, true
	default:
		return 0, false
	}
}

func parseListOptions(r *http.Request) (bookmarks.ListOptions, map[string]string) {
	errors := make(map[string]string)
	opts := bookmarks.ListOptions{
		Search: r.URL.Query().Get("search"),
	}

	scope, ok := parseScope(r.URL.Query().Get("scope"))
	if !ok {
		errors["scope"] = "Scope must be one of: all, mine, private, public"
	}
	opts.Scope = scope

	if raw := r.URL.Query().Get("group_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errors["group_id"] = "Invalid group id"
		} else {
			opts.GroupID = &id
		}
	}
	if raw := r.URL.Query().Get("tag_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errors["tag_id"] = "Invalid tag id"
		} else {
			opts.TagID = &id
		}
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		opts.Page, _ = strconv.Atoi(raw)
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		opts.Limit, _ = strconv.Atoi(raw)
	}

	return opts, errors
}

// List serves the authenticated listing. The default scope is the requester's
// own bookmarks; scope=all folds in other users' public ones.
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, errs := parseListOptions(r)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	requester := requesterFrom(r)
	result, err := h.bookmarks.List(r.Context(), &requester, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Public serves the anonymous-friendly listing. Authentication is optional;
// when present the requester's tags and overrides annotate the rows.
func (h *BookmarkHandler) Public(w http.ResponseWriter, r *http.Request) {
	opts, errs := parseListOptions(r)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}
	opts.Scope = bookmarks.ScopePublicOnly

	var requester *bookmarks.Identity
	if identity := requesterFrom(r); identity.ID != uuid.Nil {
		requester = &identity
	}

	result, err := h.bookmarks.List(r.Context(), requester, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *BookmarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid bookmark id"})
		return
	}

	row, err := h.bookmarks.Get(r.Context(), requesterFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	row, err := h.bookmarks.Create(r.Context(), requesterFrom(r), bookmarks.CreateInput{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		BgColor:     req.BgColor,
		GroupID:     req.GroupID,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (h *BookmarkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid bookmark id"})
		return
	}

	var req dto.UpdateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	row, err := h.bookmarks.Update(r.Context(), requesterFrom(r), id, bookmarks.UpdateInput{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		BgColor:     req.BgColor.Value,
		BgColorSet:  req.BgColor.Set,
		GroupID:     req.GroupID.ID,
		GroupSet:    req.GroupID.Set,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid bookmark id"})
		return
	}

	if err := h.bookmarks.Delete(r.Context(), requesterFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Bookmark deleted"})
}
