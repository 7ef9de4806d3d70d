package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/snakegame/internal/api/middleware"
	"github.com/mcoot/snakegame/internal/api/request"
	"github.com/mcoot/snakegame/internal/api/response"
	"github.com/mcoot/snakegame/internal/services/auth"
)

// Messages returned in success:false payloads
const (
	MessageUserExists         = "User exists"
	MessageInvalidCredentials = "Invalid credentials"
)

// AuthHandler handles signup, login, logout and the current user
type AuthHandler struct {
	authService auth.ServiceInterface
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService auth.ServiceInterface, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

func readCredentials(r *http.Request) (request.CredentialsRequest, error) {
	var req request.CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}
	if req.Username == "" {
		return req, NewValidationError("username is required")
	}
	if req.Password == "" {
		return req, NewValidationError("password is required")
	}
	return req, nil
}

// Signup handles POST /api/v1/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := readCredentials(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if _, err := h.authService.Signup(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrUsernameExists) {
			response.JSON(w, http.StatusOK, response.Success{Success: false, Error: MessageUserExists})
			return
		}
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Success{Success: true})
}

// Login handles POST /api/v1/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := readCredentials(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	sess, user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.JSON(w, http.StatusOK, response.Login{Success: false, Error: MessageInvalidCredentials})
			return
		}
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Login{
		Success:  true,
		Token:    sess.Token,
		Username: user.Username,
	})
}

// User handles GET /api/v1/user
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// Logout handles POST /api/v1/logout. It reports success even for unknown tokens.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.Token(r)); err != nil {
		h.logger.Warn("logout failed", slog.String("error", err.Error()))
	}
	response.JSON(w, http.StatusOK, response.Success{Success: true})
}
