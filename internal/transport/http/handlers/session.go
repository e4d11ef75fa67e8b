package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/usecase"
)

// SessionHandler exposes login, logout, refresh, and social auth.
type SessionHandler struct {
	auth    *usecase.AuthService
	cookies *SessionCookies
}

// NewSessionHandler builds a session handler.
func NewSessionHandler(auth *usecase.AuthService, cookies *SessionCookies) *SessionHandler {
	return &SessionHandler{auth: auth, cookies: cookies}
}

// Login verifies credentials and sets the session cookies.
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and password are required"))
		return
	}

	account, access, refresh, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid email or password"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to log in"))
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

// Logout clears the session cookies. Tokens are stateless; the cookies are
// the only thing to revoke.
func (h *SessionHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Refresh rotates the token pair using the refresh cookie.
func (h *SessionHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshTokenCookie)
	if err != nil || strings.TrimSpace(token) == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "missing refresh token"))
		return
	}

	access, refresh, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRefreshToken) {
			h.cookies.Clear(c)
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid or expired refresh token"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to refresh session"))
		return
	}

	h.cookies.Set(c, access, refresh)

	c.JSON(http.StatusOK, gin.H{
		"access_token": access,
		"token_type":   "Bearer",
		"expires_in":   int(h.cookies.AccessTTL().Seconds()),
	})
}

// SocialAuth upserts an account from a verified social profile and opens a
// session. The identity provider exchange happens upstream; this endpoint
// trusts the gateway-verified profile.
func (h *SessionHandler) SocialAuth(c *gin.Context) {
	var req SocialAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid social auth payload"))
		return
	}

	account, access, refresh, err := h.auth.SocialAuth(c.Request.Context(), usecase.SocialProfile{
		Email:     req.Email,
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to authenticate"))
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
