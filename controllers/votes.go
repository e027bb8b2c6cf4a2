package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/store"
	"github.com/developersajeeb/code-stack-server/utils"
)

// VoteInput is the voter of POST and DELETE /vote/:id, read from the JSON
// body or from ?email.
type VoteInput struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

// Vote adds the voter to the question's vote set. A repeat vote is a 400,
// an unknown question a 404.
func (h *Handler) Vote(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	email, ok := voterEmail(c)
	if !ok {
		return
	}
	if err := h.store.AddVote(c.Request.Context(), id, email); err != nil {
		failVote(c, err, "already voted")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "voted", "modifiedCount": 1})
}

// Unvote removes the voter from the question's vote set.
func (h *Handler) Unvote(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	email, ok := voterEmail(c)
	if !ok {
		return
	}
	if err := h.store.RemoveVote(c.Request.Context(), id, email); err != nil {
		failVote(c, err, "vote not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vote removed", "modifiedCount": 1})
}

// voterEmail validates the voter email. ?email wins when present so DELETE
// clients that cannot send a body still pass the same check.
func voterEmail(c *gin.Context) (string, bool) {
	var input VoteInput
	bind := c.ShouldBindJSON
	if c.Query("email") != "" {
		bind = c.ShouldBindQuery
	}
	if err := bind(&input); err != nil {
		badRequest(c, err)
		return "", false
	}
	return input.Email, true
}

func failVote(c *gin.Context, err error, noChange string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.FailWith(c, err, "question not found")
	case errors.Is(err, store.ErrNoChange):
		utils.FailWith(c, err, noChange)
	default:
		utils.Fail(c, err)
	}
}
