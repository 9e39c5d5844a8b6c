package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hugh/linkstash/internal/api/dto"
	"github.com/hugh/linkstash/internal/api/middleware"
	"github.com/hugh/linkstash/internal/transfer"
)

type TransferHandler struct {
	transfer *transfer.Service
}

func NewTransferHandler(transferService *transfer.Service) *TransferHandler {
	return &TransferHandler{transfer: transferService}
}

func (h *TransferHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	records, err := h.transfer.ExportJSON(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="bookmarks.json"`)
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookmarks": records})
}

func (h *TransferHandler) ExportHTML(w http.ResponseWriter, r *http.Request) {
	doc, err := h.transfer.ExportHTML(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bookmarks.html"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

type importJSONRequest struct {
	Bookmarks []transfer.ImportRecord `json:"bookmarks"`
}

func (h *TransferHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	var req importJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if len(req.Bookmarks) == 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "No bookmarks to import"})
		return
	}

	result := h.transfer.ImportRecords(r.Context(), requesterFrom(r), req.Bookmarks)
	writeJSON(w, http.StatusOK, result)
}

// ImportHTML accepts a Netscape bookmark file as the raw request body.
func (h *TransferHandler) ImportHTML(w http.ResponseWriter, r *http.Request) {
	result, err := h.transfer.ImportNetscape(r.Context(), requesterFrom(r), r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid bookmark file"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
