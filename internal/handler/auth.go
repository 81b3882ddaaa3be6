package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/coursetrack/coursetrack-go/internal/middleware"
	"github.com/coursetrack/coursetrack-go/internal/model"
	"github.com/coursetrack/coursetrack-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication and account flows.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleRegister handles POST /register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Register(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired),
			errors.Is(err, service.ErrEmailRequired),
			errors.Is(err, service.ErrInvalidPassword),
			errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "User registered successfully"})
}

// HandleLogin handles POST /login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGetUser handles GET /user/{id} requests. Only the caller's own
// profile is served; any other id is forbidden.
func (h *AuthHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid user id"))
		return
	}

	if id != callerID {
		writeJSON(w, http.StatusForbidden, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleForgotPassword handles POST /forgot-password requests.
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse(service.ErrEmailRequired.Error()))
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrMailTransport):
			// Distinct from an unknown address: the token was issued but
			// could not be delivered.
			writeJSON(w, http.StatusBadGateway, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Password reset link sent"})
}

// HandleResetPassword handles POST /reset-password requests.
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("token is required"))
		return
	}

	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidResetToken):
			writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Password updated successfully"})
}
