package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/clarity/clarity/internal/handler/dto"
	"github.com/clarity/clarity/internal/service"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var weak *service.WeakPasswordError
		switch {
		case errors.As(err, &weak):
			writeRuleError(w, http.StatusBadRequest, "Password does not meet requirements", weak.Rules)
		case errors.Is(err, service.ErrMissingRegistrationFields):
			writeError(w, http.StatusBadRequest, "Name, email, and password are required")
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "Email is already registered")
		default:
			h.logger.Error("registration failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.ToAuthResponse(user, token))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			writeError(w, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			// Same status and body for unknown email and wrong password
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.logger.Error("login failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.ToAuthResponse(user, token))
}
