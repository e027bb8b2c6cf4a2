// Package routes binds every HTTP path to its handler and guards.
package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/config"
	"github.com/developersajeeb/code-stack-server/controllers"
	"github.com/developersajeeb/code-stack-server/middleware"
	"github.com/developersajeeb/code-stack-server/rate"
)

// Deps are the collaborators the route table needs.
type Deps struct {
	Handler *controllers.Handler
	Tokens  middleware.TokenVerifier
	Users   middleware.UserLookup
	Limiter rate.Limiter
	Limits  config.RateLimits

	// TrustedProxies feed gin's client IP resolution. Nil trusts no proxy.
	TrustedProxies []string
}

// NewRouter builds the engine with recovery, request logging and every route.
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), middleware.RequestID())
	Register(r, d)
	return r, nil
}

// Register adds every route and its guards to r.
func Register(r *gin.Engine, d Deps) {
	h := d.Handler
	auth := middleware.Auth(d.Tokens)
	admin := middleware.RequireAdmin(d.Users)

	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.POST("/jwt", middleware.RateLimit(d.Limiter, rate.PerMinute("jwt", d.Limits.TokenPerMinute)), h.IssueToken)

	userRoutes(r, h, auth)
	questionRoutes(r, h)
	answerRoutes(r, h)

	voteLimit := middleware.RateLimit(d.Limiter, rate.PerMinute("vote", d.Limits.VotePerMinute))
	r.POST("/vote/:id", voteLimit, h.Vote)
	r.DELETE("/vote/:id", voteLimit, h.Unvote)

	r.POST("/saves", middleware.RateLimit(d.Limiter, rate.PerMinute("save", d.Limits.SavePerMinute)), h.ToggleSave)
	r.GET("/saves", h.ListSaves)
	r.GET("/save/:email", h.SavesByUser)

	r.GET("/tags", h.Tags)
	r.GET("/top-tags", h.TopTags)
	r.GET("/hot-questions", h.HotQuestions)
	r.GET("/statistics", auth, admin, h.Statistics)
}

func userRoutes(r *gin.Engine, h *controllers.Handler, auth gin.HandlerFunc) {
	r.GET("/users", h.ListUsers)
	r.POST("/users", h.CreateUser)
	r.GET("/users/admin/:email", auth, h.CheckAdmin)
	r.PATCH("/users/admin/:id", h.ChangeRole)
	r.PATCH("/users/normalUser/:id", h.ChangeRole)

	r.GET("/user", h.GetUser)
	r.PUT("/user/:email", h.UpdateProfile)
	r.GET("/check-username", h.CheckUsername)
	r.GET("/user-level", h.GetLevel)
	r.PATCH("/update-level/:email", h.UpdateLevel)
}

func questionRoutes(r *gin.Engine, h *controllers.Handler) {
	r.POST("/questions", h.CreateQuestion)
	r.GET("/questions", h.ListQuestions)
	r.GET("/questions/:email", h.QuestionsByAuthor)
	r.PATCH("/questions/:id/increment-view", h.IncrementView)
	r.GET("/question-details/:id", h.QuestionDetails)
	r.GET("/questions-by-tag", h.QuestionsByTag)
	r.PUT("/update-question/:id", h.UpdateQuestion)
	r.PATCH("/question/:id", h.LinkAnswer)
	r.DELETE("/delete-question/:id", h.DeleteQuestion)
	r.GET("/search", h.Search)
}

func answerRoutes(r *gin.Engine, h *controllers.Handler) {
	r.POST("/answers", h.CreateAnswer)
	r.GET("/answers", h.ListAnswers)
	r.GET("/answers/:email", h.AnswersByAuthor)
	r.GET("/answer/:id", h.AnswersForQuestion)
	r.PUT("/answers/:id", h.UpdateAnswer)
	r.DELETE("/delete-answer/:id", h.DeleteAnswer)
}
