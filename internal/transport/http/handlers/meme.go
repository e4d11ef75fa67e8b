package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/transport/http/middleware"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/usecase"
)

// MemeHandler exposes the meme feed, posting, likes, and comments.
type MemeHandler struct {
	memes *usecase.MemeService
}

// NewMemeHandler builds a meme handler.
func NewMemeHandler(memes *usecase.MemeService) *MemeHandler {
	return &MemeHandler{memes: memes}
}

// Create posts a new meme owned by the caller.
func (h *MemeHandler) Create(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CreateMemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "image_url is required"))
		return
	}

	meme, err := h.memes.Create(c.Request.Context(), *account, usecase.CreateMemeInput{
		ImageURL: req.ImageURL,
		Caption:  req.Caption,
		Tags:     req.Tags,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, newMemeResponse(meme))
}

// List returns the public meme feed, newest first. Supports tag, limit, and
// offset query parameters.
func (h *MemeHandler) List(c *gin.Context) {
	filter := port.MemeFilter{
		Tag:    c.Query("tag"),
		Limit:  intQuery(c, "limit"),
		Offset: intQuery(c, "offset"),
	}

	memes, err := h.memes.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load memes"))
		return
	}

	c.JSON(http.StatusOK, newMemeResponses(memes))
}

// ListByUser returns every meme posted by the given account.
func (h *MemeHandler) ListByUser(c *gin.Context) {
	filter := port.MemeFilter{
		CreatorID: c.Param("userId"),
		Limit:     intQuery(c, "limit"),
		Offset:    intQuery(c, "offset"),
	}

	memes, err := h.memes.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load memes"))
		return
	}

	c.JSON(http.StatusOK, newMemeResponses(memes))
}

// Get returns a single meme aggregate.
func (h *MemeHandler) Get(c *gin.Context) {
	meme, err := h.memes.Get(c.Request.Context(), c.Param("memeId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemeNotFound, Status: http.StatusNotFound, Message: "meme not found"},
		}, http.StatusInternalServerError, "failed to load meme")
		return
	}

	c.JSON(http.StatusOK, newMemeResponse(meme))
}

// Update edits a meme's caption or tags. Creator or admin only.
func (h *MemeHandler) Update(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdateMemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid meme payload"))
		return
	}

	meme, err := h.memes.Update(c.Request.Context(), *account, c.Param("memeId"), usecase.UpdateMemeInput{
		Caption: req.Caption,
		Tags:    req.Tags,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemeNotFound, Status: http.StatusNotFound, Message: "meme not found"},
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "only the creator may edit this meme"},
		}, http.StatusInternalServerError, "failed to update meme")
		return
	}

	c.JSON(http.StatusOK, newMemeResponse(meme))
}

// Delete removes a meme. Creator or admin only.
func (h *MemeHandler) Delete(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.memes.Delete(c.Request.Context(), *account, c.Param("memeId")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemeNotFound, Status: http.StatusNotFound, Message: "meme not found"},
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "only the creator may delete this meme"},
		}, http.StatusInternalServerError, "failed to delete meme")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "meme deleted"})
}

// ToggleLike flips the caller's like on a meme.
func (h *MemeHandler) ToggleLike(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	liked, meme, err := h.memes.ToggleLike(c.Request.Context(), *account, c.Param("memeId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemeNotFound, Status: http.StatusNotFound, Message: "meme not found"},
		}, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	c.JSON(http.StatusOK, ToggleLikeResponse{Liked: liked, Meme: newMemeResponse(meme)})
}

// AddComment appends a comment by the caller.
func (h *MemeHandler) AddComment(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "text is required"))
		return
	}

	comment, err := h.memes.AddComment(c.Request.Context(), *account, c.Param("memeId"), req.Text)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemeNotFound, Status: http.StatusNotFound, Message: "meme not found"},
		}, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, newCommentResponse(comment))
}

// DeleteComment removes a comment. Author, meme creator, or admin only.
func (h *MemeHandler) DeleteComment(c *gin.Context) {
	account, ok := middleware.GetAuthenticatedAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	err := h.memes.DeleteComment(c.Request.Context(), *account, c.Param("memeId"), c.Param("commentId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemeNotFound, Status: http.StatusNotFound, Message: "meme not found"},
			{Err: usecase.ErrCommentNotFound, Status: http.StatusNotFound, Message: "comment not found"},
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "not allowed to delete this comment"},
		}, http.StatusInternalServerError, "failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "comment deleted"})
}

func intQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
