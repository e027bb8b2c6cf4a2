package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/aggregate"
	"github.com/developersajeeb/code-stack-server/models"
	"github.com/developersajeeb/code-stack-server/store"
	"github.com/developersajeeb/code-stack-server/utils"
)

const topN = 5

// Tags returns the tag histogram in first-seen order.
func (h *Handler) Tags(c *gin.Context) {
	questions, ok := h.allQuestions(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, aggregate.TagHistogram(questions))
}

// TopTags returns the five most used tags, most used first.
func (h *Handler) TopTags(c *gin.Context) {
	questions, ok := h.allQuestions(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, aggregate.TopTags(questions, topN))
}

// HotQuestions returns the five most voted questions.
func (h *Handler) HotQuestions(c *gin.Context) {
	questions, ok := h.allQuestions(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, aggregate.HotQuestions(questions, topN))
}

// Statistics returns the user, question and answer counts. Admin only.
func (h *Handler) Statistics(c *gin.Context) {
	counts, err := aggregate.Counts(c.Request.Context(), h.store)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *Handler) allQuestions(c *gin.Context) ([]models.Question, bool) {
	questions, err := h.store.ListQuestions(c.Request.Context(), store.Page{})
	if err != nil {
		utils.Fail(c, err)
		return nil, false
	}
	return questions, true
}
