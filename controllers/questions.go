package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/models"
	"github.com/developersajeeb/code-stack-server/utils"
)

// CreateQuestionInput is the request body for creating a question.
type CreateQuestionInput struct {
	Title         string   `json:"title" binding:"required"`
	Body          string   `json:"body" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	UserName      string   `json:"userName"`
	UserImage     string   `json:"userImage"`
	Selected      []string `json:"selected"`
	ProblemImages []string `json:"problemImages"`
}

// AnswerLinkInput is the body of PATCH /question/:id.
type AnswerLinkInput struct {
	AnswersID string `json:"answersId" binding:"required"`
}

// CreateQuestion stores a new question. Tags default to an empty list.
func (h *Handler) CreateQuestion(c *gin.Context) {
	var input CreateQuestionInput
	if !bindJSON(c, &input) {
		return
	}

	q := models.Question{
		Title:         input.Title,
		Body:          input.Body,
		Email:         input.Email,
		UserName:      input.UserName,
		UserImage:     input.UserImage,
		Selected:      input.Selected,
		ProblemImages: input.ProblemImages,
		CreatedAt:     time.Now().UTC(),
	}
	if q.Selected == nil {
		q.Selected = []string{}
	}
	id, err := h.store.CreateQuestion(c.Request.Context(), &q)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	inserted(c, id)
}

// ListQuestions returns questions in creation order, paged by ?skip and ?limit.
func (h *Handler) ListQuestions(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	questions, err := h.store.ListQuestions(c.Request.Context(), page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// QuestionsByAuthor lists the questions posted by the path email.
func (h *Handler) QuestionsByAuthor(c *gin.Context) {
	questions, err := h.store.ListQuestionsByAuthor(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// QuestionDetails returns one question by id.
func (h *Handler) QuestionDetails(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	q, err := h.store.GetQuestion(c.Request.Context(), id)
	if err != nil {
		utils.FailWith(c, err, "question not found")
		return
	}
	c.JSON(http.StatusOK, q)
}

// QuestionsByTag matches ?tag case-insensitively against whole tags.
func (h *Handler) QuestionsByTag(c *gin.Context) {
	tag, ok := requiredQuery(c, "tag")
	if !ok {
		return
	}
	questions, err := h.store.ListQuestionsByTag(c.Request.Context(), tag)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// UpdateQuestion replaces the editable fields, creating the question when the
// id is unknown.
func (h *Handler) UpdateQuestion(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var edit models.QuestionEdit
	if !bindJSON(c, &edit) {
		return
	}
	res, err := h.store.UpsertQuestion(c.Request.Context(), id, edit)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// LinkAnswer records the accepted answer id on a question.
func (h *Handler) LinkAnswer(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var input AnswerLinkInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := h.store.SetAnswerLink(c.Request.Context(), id, input.AnswersID)
	if err != nil {
		utils.FailWith(c, err, "question not found")
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteQuestion removes a question by id.
func (h *Handler) DeleteQuestion(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteQuestion(c.Request.Context(), id); err != nil {
		utils.FailWith(c, err, "question not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "deletedCount": 1})
}

// IncrementView adds one to the question's view count.
func (h *Handler) IncrementView(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.IncrementViews(c.Request.Context(), id); err != nil {
		utils.FailWith(c, err, "question not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "view count updated"})
}

// Search matches ?query literally against title, body and tags.
func (h *Handler) Search(c *gin.Context) {
	query, ok := requiredQuery(c, "query")
	if !ok {
		return
	}
	questions, err := h.store.SearchQuestions(c.Request.Context(), query)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}
