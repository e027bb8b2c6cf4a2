package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/aggregate"
	"github.com/developersajeeb/code-stack-server/models"
	"github.com/developersajeeb/code-stack-server/store"
	"github.com/developersajeeb/code-stack-server/utils"
)

const msgUserExists = "User already exists"

// CreateUserInput is the body of POST /users. Role is not accepted here; new
// users are always normal users.
type CreateUserInput struct {
	Email        string   `json:"email" binding:"required,email"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	ImgURL       string   `json:"imgURL"`
	Selected     []string `json:"selected"`
	AboutMe      string   `json:"aboutMe"`
	PortfolioURL string   `json:"portfolioURL"`
	Password     string   `json:"password"`
}

// RoleInput is the body of the role change routes.
type RoleInput struct {
	Role models.Role `json:"role" binding:"required"`
}

// ListUsers returns every user. With ?limit or ?skip it returns one page
// together with the total count.
func (h *Handler) ListUsers(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	users, err := h.store.ListUsers(c.Request.Context(), page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if c.Query("limit") == "" && c.Query("skip") == "" {
		c.JSON(http.StatusOK, users)
		return
	}

	total, err := h.store.CountUsers(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

// CreateUser inserts a user unless the email is already registered. The
// unique index on email closes the race between the check and the insert.
func (h *Handler) CreateUser(c *gin.Context) {
	var input CreateUserInput
	if !bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()

	_, err := h.store.GetUserByEmail(ctx, input.Email)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"message": msgUserExists})
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		utils.Fail(c, err)
		return
	}

	username := strings.TrimSpace(input.Username)
	if username != "" {
		if _, err := h.store.GetUserByUsername(ctx, username); err == nil {
			utils.ErrorResponse(c, http.StatusConflict, "Username already exists!")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			utils.Fail(c, err)
			return
		}
	}

	user := models.User{
		Email:        input.Email,
		Username:     username,
		Name:         input.Name,
		ImgURL:       input.ImgURL,
		Selected:     input.Selected,
		AboutMe:      input.AboutMe,
		PortfolioURL: input.PortfolioURL,
		Role:         models.RoleNormalUser,
		CreatedAt:    time.Now().UTC(),
	}
	if input.Password != "" {
		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		user.PasswordHash = hash
	}

	id, err := h.store.CreateUser(ctx, &user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusOK, gin.H{"message": msgUserExists})
			return
		}
		utils.Fail(c, err)
		return
	}
	inserted(c, id)
}

// CheckAdmin reports whether the caller is an admin. Requires Auth. Asking
// about another email always answers false.
func (h *Handler) CheckAdmin(c *gin.Context) {
	email := c.Param("email")
	if c.GetString(utils.EmailKey) != email {
		c.JSON(http.StatusOK, gin.H{"admin": false})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": err == nil && user.Role == models.RoleAdmin})
}

// ChangeRole sets the role of the user with the given id.
func (h *Handler) ChangeRole(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var input RoleInput
	if !bindJSON(c, &input) {
		return
	}
	if !input.Role.Valid() {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid role")
		return
	}

	res, err := h.store.SetUserRole(c.Request.Context(), id, input.Role)
	if err != nil {
		utils.FailWith(c, err, "user not found")
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetUser looks a user up by ?email. A missing user yields null.
func (h *Handler) GetUser(c *gin.Context) {
	email, ok := requiredQuery(c, "email")
	if !ok {
		return
	}
	user, err := h.store.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile upserts the profile fields of the user with the given email.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var input models.Profile
	if !bindJSON(c, &input) {
		return
	}
	if input.IsEmpty() {
		utils.ErrorResponse(c, http.StatusBadRequest, "no fields to update")
		return
	}

	res, err := h.store.UpsertProfile(c.Request.Context(), c.Param("email"), input)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CheckUsername tells whether ?username is still free.
func (h *Handler) CheckUsername(c *gin.Context) {
	username, ok := requiredQuery(c, "username")
	if !ok {
		return
	}
	_, err := h.store.GetUserByUsername(c.Request.Context(), username)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Username already exists!", "available": false})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusOK, gin.H{"message": "You can take it!", "available": true})
	default:
		utils.Fail(c, err)
	}
}

// GetLevel reports the milestone state of ?email. It never writes.
func (h *Handler) GetLevel(c *gin.Context) {
	email, ok := requiredQuery(c, "email")
	if !ok {
		return
	}
	state, _, ok := h.milestone(c, email)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, state)
}

// UpdateLevel applies the milestone transition: the flag is set while the
// question count sits on a milestone and cleared once it moves off.
func (h *Handler) UpdateLevel(c *gin.Context) {
	email := c.Param("email")
	state, user, ok := h.milestone(c, email)
	if !ok {
		return
	}

	next := state.NextFlag()
	if next != user.ManualLevelUpdate {
		if _, err := h.store.SetLevelFlag(c.Request.Context(), email, next); err != nil {
			utils.FailWith(c, err, "user not found")
			return
		}
	}
	c.JSON(http.StatusOK, aggregate.Milestone(state.QuestionCount, next))
}

func (h *Handler) milestone(c *gin.Context, email string) (aggregate.MilestoneState, models.User, bool) {
	ctx := c.Request.Context()
	user, err := h.store.GetUserByEmail(ctx, email)
	if err != nil {
		utils.FailWith(c, err, "user not found")
		return aggregate.MilestoneState{}, models.User{}, false
	}
	count, err := h.store.CountQuestionsByAuthor(ctx, email)
	if err != nil {
		utils.Fail(c, err)
		return aggregate.MilestoneState{}, models.User{}, false
	}
	return aggregate.Milestone(count, user.ManualLevelUpdate), user, true
}
