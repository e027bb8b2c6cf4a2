// Package store defines the persistence contract for the four CodeStack
// collections. Implementations live in mongostore and memstore.
package store

import (
	"context"
	"errors"

	"github.com/developersajeeb/code-stack-server/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors returned, wrapped, by every Store implementation.
var (
	// ErrNotFound means no document matched the id or key.
	ErrNotFound  = errors.New("not found")
	// ErrNoChange means the document matched but the write left it as it was.
	ErrNoChange  = errors.New("no change")
	// ErrDuplicate means a unique index rejected the write.
	ErrDuplicate = errors.New("duplicate key")
)

// Page limits a listing. Zero Limit means no limit.
type Page struct {
	Skip  int64
	Limit int64
}

// UpdateResult mirrors the counts reported by the document store.
type UpdateResult struct {
	MatchedCount  int64               `json:"matchedCount"`
	ModifiedCount int64               `json:"modifiedCount"`
	UpsertedID    *primitive.ObjectID `json:"upsertedId,omitempty"`
}

// SaveToggle reports the outcome of toggling a bookmark.
type SaveToggle struct {
	Saved   bool   `json:"saved"`
	Message string `json:"message"`
}

// Store is the full persistence surface used by the handlers.
type Store interface {
	UserStore
	QuestionStore
	AnswerStore
	SaveStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// UserStore covers the users collection.
type UserStore interface {
	// CreateUser inserts u. ErrDuplicate when the email or username is taken.
	CreateUser(ctx context.Context, u *models.User) (primitive.ObjectID, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context, page Page) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	SetUserRole(ctx context.Context, id primitive.ObjectID, role models.Role) (UpdateResult, error)
	UpsertProfile(ctx context.Context, email string, p models.Profile) (UpdateResult, error)
	SetLevelFlag(ctx context.Context, email string, acknowledged bool) (UpdateResult, error)
}

// QuestionStore covers the questions collection. Listings are ordered by id.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, q *models.Question) (primitive.ObjectID, error)
	GetQuestion(ctx context.Context, id primitive.ObjectID) (models.Question, error)
	ListQuestions(ctx context.Context, page Page) ([]models.Question, error)
	ListQuestionsByAuthor(ctx context.Context, email string) ([]models.Question, error)
	// ListQuestionsByTag matches tag case-insensitively against whole tags.
	ListQuestionsByTag(ctx context.Context, tag string) ([]models.Question, error)
	// SearchQuestions matches query literally and case-insensitively against
	// title, body and tags.
	SearchQuestions(ctx context.Context, query string) ([]models.Question, error)
	CountQuestions(ctx context.Context) (int64, error)
	CountQuestionsByAuthor(ctx context.Context, email string) (int64, error)
	// UpsertQuestion sets the editable fields, inserting under id when absent.
	UpsertQuestion(ctx context.Context, id primitive.ObjectID, edit models.QuestionEdit) (UpdateResult, error)
	SetAnswerLink(ctx context.Context, id primitive.ObjectID, answersID string) (UpdateResult, error)
	DeleteQuestion(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	// AddVote adds email to the question's vote set. ErrNotFound when the
	// question is missing, ErrNoChange when email already voted.
	AddVote(ctx context.Context, id primitive.ObjectID, email string) error
	// RemoveVote is the inverse of AddVote with the same error policy.
	RemoveVote(ctx context.Context, id primitive.ObjectID, email string) error
}

// AnswerStore covers the answers collection.
type AnswerStore interface {
	CreateAnswer(ctx context.Context, a *models.Answer) (primitive.ObjectID, error)
	ListAnswers(ctx context.Context) ([]models.Answer, error)
	ListAnswersByQuestion(ctx context.Context, questionID string) ([]models.Answer, error)
	ListAnswersByAuthor(ctx context.Context, email string) ([]models.Answer, error)
	CountAnswers(ctx context.Context) (int64, error)
	UpdateAnswer(ctx context.Context, id primitive.ObjectID, edit models.AnswerEdit) (UpdateResult, error)
	DeleteAnswer(ctx context.Context, id primitive.ObjectID) error
}

// SaveStore covers the saves collection.
type SaveStore interface {
	// ToggleSave deletes the (questionID, email) bookmark if present, else creates it.
	ToggleSave(ctx context.Context, questionID, email string) (SaveToggle, error)
	ListSaves(ctx context.Context) ([]models.Save, error)
	ListSavesByUser(ctx context.Context, email string) ([]models.Save, error)
}
