package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/config"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// SessionCookies writes and clears the http-only cookies carrying the token
// pair. Attributes come from configuration so deployments behind different
// domains and schemes stay correct.
type SessionCookies struct {
	cfg        config.CookieSettings
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewSessionCookies constructs the cookie writer for the session token pair.
func NewSessionCookies(cfg config.CookieSettings, accessTTL, refreshTTL time.Duration) *SessionCookies {
	return &SessionCookies{cfg: cfg, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Set writes both token cookies on the response.
func (sc *SessionCookies) Set(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(sc.sameSite())
	c.SetCookie(accessTokenCookie, accessToken, int(sc.accessTTL.Seconds()), sc.path(), sc.cfg.Domain, sc.cfg.Secure, sc.cfg.HTTPOnly)
	c.SetCookie(refreshTokenCookie, refreshToken, int(sc.refreshTTL.Seconds()), sc.path(), sc.cfg.Domain, sc.cfg.Secure, sc.cfg.HTTPOnly)
}

// Clear expires both token cookies.
func (sc *SessionCookies) Clear(c *gin.Context) {
	c.SetSameSite(sc.sameSite())
	c.SetCookie(accessTokenCookie, "", -1, sc.path(), sc.cfg.Domain, sc.cfg.Secure, sc.cfg.HTTPOnly)
	c.SetCookie(refreshTokenCookie, "", -1, sc.path(), sc.cfg.Domain, sc.cfg.Secure, sc.cfg.HTTPOnly)
}

// AccessTTL exposes the access token lifetime for expires_in payload fields.
func (sc *SessionCookies) AccessTTL() time.Duration {
	return sc.accessTTL
}

func (sc *SessionCookies) path() string {
	if sc.cfg.Path == "" {
		return "/"
	}
	return sc.cfg.Path
}

func (sc *SessionCookies) sameSite() http.SameSite {
	switch strings.ToLower(sc.cfg.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
