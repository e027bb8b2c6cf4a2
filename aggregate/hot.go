package aggregate

import (
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/developersajeeb/code-stack-server/models"
)

// HotQuestion is the projection returned by the hot-questions route.
type HotQuestion struct {
	ID        primitive.ObjectID `json:"_id"`
	Title     string             `json:"title"`
	LikeCount int                `json:"likeCount"`
}

// HotQuestions ranks questions by vote count, highest first, and returns at
// most n. Ties are broken by ascending id, which for ObjectIDs is creation order.
func HotQuestions(questions []models.Question, n int) []HotQuestion {
	out := make([]HotQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, HotQuestion{ID: q.ID, Title: q.Title, LikeCount: len(q.QuestionsVote)})
	}
	slices.SortFunc(out, func(a, b HotQuestion) int {
		if a.LikeCount != b.LikeCount {
			return b.LikeCount - a.LikeCount
		}
		return strings.Compare(a.ID.Hex(), b.ID.Hex())
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
