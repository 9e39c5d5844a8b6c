package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hugh/linkstash/internal/api/dto"
	"github.com/hugh/linkstash/internal/api/middleware"
	"github.com/hugh/linkstash/internal/auth"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func userDTO(resp *auth.AuthResponse) dto.UserDTO {
	return dto.UserDTO{
		ID:      resp.User.ID.String(),
		Name:    resp.User.Name,
		Email:   resp.User.Email,
		IsGuest: resp.User.IsGuest,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	resp, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})

	if err != nil {
		switch err {
		case auth.ErrUserExists:
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Email already registered"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Registration failed"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthResponse{Token: resp.Token, User: userDTO(resp)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})

	if err != nil {
		switch err {
		case auth.ErrInvalidCredentials:
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid email or password"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Login failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{Token: resp.Token, User: userDTO(resp)})
}

// Guest starts or resumes an anonymous session. A still-valid guest token in
// the Authorization header resumes that guest account instead of minting a
// new row.
func (h *AuthHandler) Guest(w http.ResponseWriter, r *http.Request) {
	var resumeToken string
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		resumeToken = strings.TrimPrefix(authHeader, "Bearer ")
	}

	resp, err := h.authService.GuestLogin(r.Context(), resumeToken)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Guest login failed"})
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthResponse{Token: resp.Token, User: userDTO(resp)})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.GetUserByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.UserDTO{
		ID:      user.ID.String(),
		Name:    user.Name,
		Email:   user.Email,
		IsGuest: user.IsGuest,
	})
}
