package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/store"
	"github.com/developersajeeb/code-stack-server/utils"
)

// IssueToken signs a token for the email in the body. Every other body field
// except password becomes a claim. When the user exists with a password, the
// password must match.
func (h *Handler) IssueToken(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	email, _ := body["email"].(string)
	email = strings.TrimSpace(email)
	if email == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "email is required")
		return
	}
	password, _ := body["password"].(string)
	delete(body, "password")
	delete(body, "email")

	user, err := h.store.GetUserByEmail(c.Request.Context(), email)
	switch {
	case err == nil:
		if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
	case !errors.Is(err, store.ErrNotFound):
		utils.Fail(c, err)
		return
	}

	token, err := h.tokens.Issue(email, body)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
