package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/transport/http/middleware"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/usecase"
)

// AccountHandler exposes the authenticated profile endpoints.
type AccountHandler struct {
	accounts *usecase.AccountService
}

// NewAccountHandler builds an account handler.
func NewAccountHandler(accounts *usecase.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Me returns the authenticated account.
func (h *AccountHandler) Me(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	c.JSON(http.StatusOK, newAccountResponse(*account))
}

// UpdateInfo applies a partial profile update to the authenticated account.
func (h *AccountHandler) UpdateInfo(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdateInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	updated, err := h.accounts.UpdateInfo(c.Request.Context(), account.ID, usecase.UpdateProfileInput{
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
		Interests: req.Interests,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest, Message: err.Error()},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusCreated, newAccountResponse(updated))
}

// UpdatePassword verifies the current password and stores a new one.
func (h *AccountHandler) UpdatePassword(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "current and new passwords are required"))
		return
	}

	err := h.accounts.UpdatePassword(c.Request.Context(), account.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPasswordMismatch, Status: http.StatusBadRequest, Message: "current password is incorrect"},
			{Err: usecase.ErrNoPasswordSet, Status: http.StatusBadRequest, Message: "account has no password set"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: err.Error()},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to update password")
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "password updated"})
}

// ListAll returns every account. Admin only.
func (h *AccountHandler) ListAll(c *gin.Context) {
	actor, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	accounts, err := h.accounts.ListAll(c.Request.Context(), *actor)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "admin role required"},
		}, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, newAccountResponse(account))
	}

	c.JSON(http.StatusOK, out)
}

// UpdateRole changes another account's role. Admin only.
func (h *AccountHandler) UpdateRole(c *gin.Context) {
	actor, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "account id and role are required"))
		return
	}

	updated, err := h.accounts.UpdateRole(c.Request.Context(), *actor, req.UserID, domain.Role(req.Role))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidRole, Status: http.StatusBadRequest, Message: err.Error()},
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "cannot change this account's role"},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to update role")
		return
	}

	c.JSON(http.StatusOK, newAccountResponse(updated))
}

// Delete removes an account. Admin only.
func (h *AccountHandler) Delete(c *gin.Context) {
	actor, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), *actor, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "cannot delete this account"},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to delete account")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "account deleted"})
}
