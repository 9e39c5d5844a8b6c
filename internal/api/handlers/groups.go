package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/api/dto"
	"github.com/hugh/linkstash/internal/api/middleware"
	"github.com/hugh/linkstash/internal/groups"
)

type GroupHandler struct {
	groups *groups.Service
}

func NewGroupHandler(groupService *groups.Service) *GroupHandler {
	return &GroupHandler{groups: groupService}
}

// List returns the requester's groups as a forest with rolled-up counts.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	forest, err := h.groups.Tree(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forest)
}

// Flat returns the same groups as an ordered flat list with direct counts.
func (h *GroupHandler) Flat(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.groups.Flat(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	group, err := h.groups.Create(r.Context(), middleware.GetUserID(r.Context()), groups.CreateInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid group id"})
		return
	}

	var req dto.UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	group, err := h.groups.Update(r.Context(), middleware.GetUserID(r.Context()), id, groups.UpdateInput{
		Name:      req.Name,
		ParentID:  req.ParentID.ID,
		ParentSet: req.ParentID.Set,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid group id"})
		return
	}

	if err := h.groups.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Group deleted"})
}
