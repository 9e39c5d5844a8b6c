package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/api/dto"
	"github.com/hugh/linkstash/internal/api/middleware"
	"github.com/hugh/linkstash/internal/tags"
)

type TagHandler struct {
	tags *tags.Service
}

func NewTagHandler(tagService *tags.Service) *TagHandler {
	return &TagHandler{tags: tagService}
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.tags.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	tag, err := h.tags.Create(r.Context(), middleware.GetUserID(r.Context()), tags.CreateInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid tag id"})
		return
	}

	var req dto.UpdateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	tag, err := h.tags.Update(r.Context(), middleware.GetUserID(r.Context()), id, tags.UpdateInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid tag id"})
		return
	}

	if err := h.tags.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Tag deleted"})
}
