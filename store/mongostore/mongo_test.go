package mongostore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/developersajeeb/code-stack-server/models"
	"github.com/developersajeeb/code-stack-server/store"
)

// newTestStore connects to MONGO_TEST_URI and hands out a throwaway database.
// Tests are skipped when the variable is unset.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	st := New(client, fmt.Sprintf("codestack_test_%d", time.Now().UnixNano()), 5*time.Second)
	if err := st.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = st.db.Drop(ctx)
		_ = st.Close(ctx)
	})
	return st
}

func TestMongoUserUniqueness(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.CreateUser(ctx, &models.User{Email: "a@x.com", Role: models.RoleNormalUser}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := st.CreateUser(ctx, &models.User{Email: "a@x.com"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Users without a username must not collide on the sparse index.
	if _, err := st.CreateUser(ctx, &models.User{Email: "b@x.com"}); err != nil {
		t.Fatalf("create second user: %v", err)
	}
	if n, err := st.CountUsers(ctx); err != nil || n != 2 {
		t.Fatalf("expected 2 users, got %d (%v)", n, err)
	}
}

func TestMongoVoteSetSemantics(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.CreateQuestion(ctx, &models.Question{Title: "q", Selected: []string{"go"}})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}

	if err := st.AddVote(ctx, id, "a@x.com"); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := st.AddVote(ctx, id, "a@x.com"); !errors.Is(err, store.ErrNoChange) {
		t.Fatalf("expected ErrNoChange, got %v", err)
	}
	q, err := st.GetQuestion(ctx, id)
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if len(q.QuestionsVote) != 1 {
		t.Fatalf("unexpected votes %v", q.QuestionsVote)
	}

	if err := st.RemoveVote(ctx, id, "a@x.com"); err != nil {
		t.Fatalf("remove vote: %v", err)
	}
	if err := st.RemoveVote(ctx, id, "a@x.com"); !errors.Is(err, store.ErrNoChange) {
		t.Fatalf("expected ErrNoChange, got %v", err)
	}
}

func TestMongoToggleSaveAndTagLookup(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first, err := st.ToggleSave(ctx, "q1", "a@x.com")
	if err != nil || !first.Saved {
		t.Fatalf("expected saved, got %+v %v", first, err)
	}
	second, err := st.ToggleSave(ctx, "q1", "a@x.com")
	if err != nil || second.Saved {
		t.Fatalf("expected unsaved, got %+v %v", second, err)
	}

	if _, err := st.CreateQuestion(ctx, &models.Question{Title: "a", Selected: []string{" Go "}}); err != nil {
		t.Fatalf("create question: %v", err)
	}
	if _, err := st.CreateQuestion(ctx, &models.Question{Title: "b", Selected: []string{"golang"}}); err != nil {
		t.Fatalf("create question: %v", err)
	}
	byTag, err := st.ListQuestionsByTag(ctx, "go")
	if err != nil {
		t.Fatalf("by tag: %v", err)
	}
	if len(byTag) != 1 || byTag[0].Title != "a" {
		t.Fatalf("unexpected tag matches %+v", byTag)
	}
}

func TestMongoVoteOnNullVoteList(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id := primitive.NewObjectID()
	if _, err := st.questions().InsertOne(ctx, bson.M{"_id": id, "title": "legacy", "QuestionsVote": nil}); err != nil {
		t.Fatalf("insert legacy question: %v", err)
	}

	if err := st.RemoveVote(ctx, id, "a@x.com"); !errors.Is(err, store.ErrNoChange) {
		t.Fatalf("expected ErrNoChange removing from a null list, got %v", err)
	}
	if err := st.AddVote(ctx, id, "a@x.com"); err != nil {
		t.Fatalf("vote on null list: %v", err)
	}
	q, err := st.GetQuestion(ctx, id)
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if len(q.QuestionsVote) != 1 || q.QuestionsVote[0] != "a@x.com" {
		t.Fatalf("unexpected votes %v", q.QuestionsVote)
	}
	if err := st.RemoveVote(ctx, primitive.NewObjectID(), "a@x.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
