package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/usecase"
)

// AccessTokenCookie is the name of the cookie carrying the access token.
const AccessTokenCookie = "access_token"

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth resolves the session from the access token cookie, falling back
// to the Authorization header, and attaches the account to the request.
func RequireAuth(authService *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractAccessToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newErrorResponse(c, err.Error()))
			return
		}

		account, err := authService.VerifyAccess(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidAccessToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "invalid or expired access token"))
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authentication failed"))
			}
			return
		}

		c.Set(AccountKey, account)
		c.Set(UserIDKey, account.ID)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = account.ID
		}

		c.Next()
	}
}

func extractAccessToken(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("missing session cookie or authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization format: expected 'Bearer <token>'")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("missing access token")
	}

	return token, nil
}

// RequireRole checks whether the authenticated account holds any of the roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := GetAuthenticatedAccount(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if !domain.RoleAllowed(account.Role, roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "insufficient permissions"))
			return
		}

		c.Next()
	}
}

// GetAuthenticatedAccount retrieves the account attached by RequireAuth.
func GetAuthenticatedAccount(c *gin.Context) (*domain.Account, bool) {
	value, exists := c.Get(AccountKey)
	if !exists {
		return nil, false
	}

	account, ok := value.(*domain.Account)
	if !ok || account == nil {
		return nil, false
	}

	return account, true
}

// GetAuthenticatedUserID retrieves the account ID from context (helper for handlers)
func GetAuthenticatedUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}

	if id, ok := userID.(string); ok {
		return id, true
	}

	return "", false
}
