package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/models"
	"github.com/developersajeeb/code-stack-server/utils"
)

// CreateAnswerInput is the body of POST /answers.
type CreateAnswerInput struct {
	Body       string `json:"body" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	QuestionID string `json:"questionID" binding:"required"`
	UserName   string `json:"userName"`
	UserImage  string `json:"userImage"`
}

// CreateAnswer stores an answer to the question named by questionID.
func (h *Handler) CreateAnswer(c *gin.Context) {
	var input CreateAnswerInput
	if !bindJSON(c, &input) {
		return
	}
	a := models.Answer{
		Body:       input.Body,
		Email:      input.Email,
		QuestionID: input.QuestionID,
		UserName:   input.UserName,
		UserImage:  input.UserImage,
		CreatedAt:  time.Now().UTC(),
	}
	id, err := h.store.CreateAnswer(c.Request.Context(), &a)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	inserted(c, id)
}

// ListAnswers returns every answer.
func (h *Handler) ListAnswers(c *gin.Context) {
	answers, err := h.store.ListAnswers(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

// AnswersForQuestion lists the answers whose questionID is the path id.
func (h *Handler) AnswersForQuestion(c *gin.Context) {
	answers, err := h.store.ListAnswersByQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

// AnswersByAuthor lists the answers written by the path email.
func (h *Handler) AnswersByAuthor(c *gin.Context) {
	answers, err := h.store.ListAnswersByAuthor(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

// UpdateAnswer replaces the body and author display fields of an answer.
func (h *Handler) UpdateAnswer(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var edit models.AnswerEdit
	if !bindJSON(c, &edit) {
		return
	}
	res, err := h.store.UpdateAnswer(c.Request.Context(), id, edit)
	if err != nil {
		utils.FailWith(c, err, "answer not found")
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteAnswer removes an answer by id.
func (h *Handler) DeleteAnswer(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteAnswer(c.Request.Context(), id); err != nil {
		utils.FailWith(c, err, "answer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "deletedCount": 1})
}
