package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/utils"
)

// SaveInput is the body of POST /saves.
type SaveInput struct {
	QuestionID string `json:"questionID" binding:"required"`
	UserEmail  string `json:"userEmail" binding:"required,email"`
}

// ToggleSave saves the question for the user, or unsaves it when already saved.
func (h *Handler) ToggleSave(c *gin.Context) {
	var input SaveInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := h.store.ToggleSave(c.Request.Context(), input.QuestionID, input.UserEmail)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListSaves returns every bookmark.
func (h *Handler) ListSaves(c *gin.Context) {
	saves, err := h.store.ListSaves(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saves)
}

// SavesByUser lists the bookmarks of the path email.
func (h *Handler) SavesByUser(c *gin.Context) {
	saves, err := h.store.ListSavesByUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saves)
}
