package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/transport/http/middleware"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/usecase"
)

// MatchHandler exposes match creation, lifecycle, and mutual discovery.
type MatchHandler struct {
	matches *usecase.MatchService
}

// NewMatchHandler builds a match handler.
func NewMatchHandler(matches *usecase.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

var matchErrorCases = []ErrorCase{
	{Err: usecase.ErrMatchNotFound, Status: http.StatusNotFound, Message: "match not found"},
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "not a participant of this match"},
	{Err: usecase.ErrInvalidTransition, Status: http.StatusConflict, Message: "match is not pending"},
}

// Create opens a pending match between the caller and another account.
func (h *MatchHandler) Create(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "user_id is required"))
		return
	}

	match, err := h.matches.Create(c.Request.Context(), *account, req.UserID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSelfMatch, Status: http.StatusBadRequest, Message: "cannot match with yourself"},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrMatchExists, Status: http.StatusConflict, Message: "match already exists"},
		}, http.StatusInternalServerError, "failed to create match")
		return
	}

	c.JSON(http.StatusCreated, newMatchResponse(match))
}

// ListByUser returns every match of the given account.
func (h *MatchHandler) ListByUser(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	matches, err := h.matches.ListByUser(c.Request.Context(), *account, c.Param("userId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "cannot read another account's matches"},
		}, http.StatusInternalServerError, "failed to load matches")
		return
	}

	c.JSON(http.StatusOK, newMatchResponses(matches))
}

// Accept transitions a pending match to accepted.
func (h *MatchHandler) Accept(c *gin.Context) {
	h.transition(c, h.matches.Accept)
}

// Reject transitions a pending match to rejected.
func (h *MatchHandler) Reject(c *gin.Context) {
	h.transition(c, h.matches.Reject)
}

func (h *MatchHandler) transition(c *gin.Context, op func(context.Context, domain.Account, string) (domain.Match, error)) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	match, err := op(c.Request.Context(), *account, c.Param("matchId"))
	if err != nil {
		RespondWithMappedError(c, err, matchErrorCases, http.StatusInternalServerError, "failed to update match")
		return
	}

	c.JSON(http.StatusOK, newMatchResponse(match))
}

// Delete removes a match.
func (h *MatchHandler) Delete(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.matches.Delete(c.Request.Context(), *account, c.Param("matchId")); err != nil {
		RespondWithMappedError(c, err, matchErrorCases, http.StatusInternalServerError, "failed to delete match")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "match deleted"})
}

// Mutual lists accounts holding accepted matches with both the caller and the
// given account.
func (h *MatchHandler) Mutual(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	refs, err := h.matches.Mutual(c.Request.Context(), *account, c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load mutual matches"))
		return
	}

	c.JSON(http.StatusOK, newAccountRefResponses(refs))
}
