package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hugh/linkstash/internal/api/dto"
	"github.com/hugh/linkstash/internal/settings"
)

type SettingsHandler struct {
	settings *settings.Service
}

func NewSettingsHandler(settingsService *settings.Service) *SettingsHandler {
	return &SettingsHandler{settings: settingsService}
}

func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.settings.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

type updateSettingsRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Key == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Setting key is required"})
		return
	}

	if err := h.settings.Set(r.Context(), req.Key, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Setting updated"})
}
