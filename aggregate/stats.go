package aggregate

import (
	"context"
	"fmt"
)

// Counter is the slice of the store the statistics need.
type Counter interface {
	CountUsers(ctx context.Context) (int64, error)
	CountQuestions(ctx context.Context) (int64, error)
	CountAnswers(ctx context.Context) (int64, error)
}

// EntityCounts is the body of the statistics route.
type EntityCounts struct {
	UsersCount     int64 `json:"usersCount"`
	QuestionsCount int64 `json:"questionsCount"`
	AnswersCount   int64 `json:"answersCount"`
}

// Counts reads the three collection sizes independently.
func Counts(ctx context.Context, c Counter) (EntityCounts, error) {
	var out EntityCounts
	var err error
	if out.UsersCount, err = c.CountUsers(ctx); err != nil {
		return EntityCounts{}, fmt.Errorf("count users: %w", err)
	}
	if out.QuestionsCount, err = c.CountQuestions(ctx); err != nil {
		return EntityCounts{}, fmt.Errorf("count questions: %w", err)
	}
	if out.AnswersCount, err = c.CountAnswers(ctx); err != nil {
		return EntityCounts{}, fmt.Errorf("count answers: %w", err)
	}
	return out, nil
}
