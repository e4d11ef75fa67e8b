package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/usecase"
)

// RegistrationHandler exposes the signup and activation endpoints.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
	cookies      *SessionCookies
}

// NewRegistrationHandler builds a registration handler.
func NewRegistrationHandler(registration *usecase.RegistrationService, cookies *SessionCookies) *RegistrationHandler {
	return &RegistrationHandler{registration: registration, cookies: cookies}
}

// Register validates the signup, mails a 6-digit code, and returns the
// activation token the client presents back together with that code.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	token, err := h.registration.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email already registered"))
		case errors.Is(err, usecase.ErrWeakPassword), errors.Is(err, usecase.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to register"))
		}
		return
	}

	c.JSON(http.StatusOK, RegisterResponse{
		Message:         "activation code sent",
		ActivationToken: token,
	})
}

// Activate consumes the token/code pair, creates the account, and opens a
// session.
func (h *RegistrationHandler) Activate(c *gin.Context) {
	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid activation payload"))
		return
	}

	account, access, refresh, err := h.registration.Activate(c.Request.Context(), req.Token, req.Code)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrActivationCodeMismatch, Status: http.StatusBadRequest, Message: "activation code does not match"},
			{Err: usecase.ErrInvalidActivationToken, Status: http.StatusBadRequest, Message: "invalid or expired activation token"},
			{Err: usecase.ErrEmailAlreadyExists, Status: http.StatusConflict, Message: "email already registered"},
		}, http.StatusInternalServerError, "failed to activate account")
		return
	}

	h.cookies.Set(c, access, refresh)

	c.JSON(http.StatusOK, AuthResponse{
		User:        newAccountResponse(account),
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.cookies.AccessTTL().Seconds()),
	})
}
