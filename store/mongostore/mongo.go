// Package mongostore implements store.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/developersajeeb/code-stack-server/models"
	"github.com/developersajeeb/code-stack-server/store"
)

const (
	usersCollection     = "users"
	questionsCollection = "questions"
	answersCollection   = "answers"
	savesCollection     = "saves"

	defaultTimeout = 5 * time.Second
)

// Store implements store.Store on one MongoDB database.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

var _ store.Store = (*Store)(nil)

// New wraps an already connected client. The Store owns the client from here
// on and disconnects it in Close.
func New(client *mongo.Client, dbName string, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{client: client, db: client.Database(dbName), timeout: timeout}
}

func (s *Store) users() *mongo.Collection     { return s.db.Collection(usersCollection) }
func (s *Store) questions() *mongo.Collection { return s.db.Collection(questionsCollection) }
func (s *Store) answers() *mongo.Collection   { return s.db.Collection(answersCollection) }
func (s *Store) saves() *mongo.Collection     { return s.db.Collection(savesCollection) }

func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// EnsureIndexes creates the uniqueness constraints the application relies on
// plus the lookup indexes used by the by-author and by-question listings.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.users().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	_, err = s.questions().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "selected", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("questions indexes: %w", err)
	}
	_, err = s.answers().Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "questionID", Value: 1}}})
	if err != nil {
		return fmt.Errorf("answers indexes: %w", err)
	}
	_, err = s.saves().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "questionID", Value: 1}, {Key: "userEmail", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("saves indexes: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if _, err := s.users().InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("create user %s: %w", u.Email, store.ErrDuplicate)
		}
		return primitive.NilObjectID, fmt.Errorf("create user: %w", err)
	}
	return u.ID, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var u models.User
	if err := s.users().FindOne(ctx, filter).Decode(&u); err != nil {
		return models.User{}, notFound(err, "find user")
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, page store.Page) ([]models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	cursor, err := s.users().Find(ctx, bson.M{}, pageOptions(page))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return decodeAll[models.User](ctx, cursor)
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, s.users(), bson.M{})
}

func (s *Store) SetUserRole(ctx context.Context, id primitive.ObjectID, role models.Role) (store.UpdateResult, error) {
	if !role.Valid() {
		return store.UpdateResult{}, fmt.Errorf("invalid role %q", role)
	}
	return s.update(ctx, s.users(), bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}}, false)
}

func (s *Store) UpsertProfile(ctx context.Context, email string, p models.Profile) (store.UpdateResult, error) {
	update := bson.M{
		"$set": p,
		"$setOnInsert": bson.M{
			"role":              models.RoleNormalUser,
			"manualLevelUpdate": false,
			"createdAt":         time.Now().UTC(),
		},
	}
	return s.update(ctx, s.users(), bson.M{"email": email}, update, true)
}

func (s *Store) SetLevelFlag(ctx context.Context, email string, acknowledged bool) (store.UpdateResult, error) {
	return s.update(ctx, s.users(), bson.M{"email": email}, bson.M{"$set": bson.M{"manualLevelUpdate": acknowledged}}, false)
}

// --- questions ---

func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) (primitive.ObjectID, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if _, err := s.questions().InsertOne(ctx, q); err != nil {
		return primitive.NilObjectID, fmt.Errorf("create question: %w", err)
	}
	return q.ID, nil
}

func (s *Store) GetQuestion(ctx context.Context, id primitive.ObjectID) (models.Question, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var q models.Question
	if err := s.questions().FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return models.Question{}, notFound(err, "find question")
	}
	return q, nil
}

func (s *Store) ListQuestions(ctx context.Context, page store.Page) ([]models.Question, error) {
	return s.findQuestions(ctx, bson.M{}, pageOptions(page))
}

func (s *Store) ListQuestionsByAuthor(ctx context.Context, email string) ([]models.Question, error) {
	return s.findQuestions(ctx, bson.M{"email": email})
}

func (s *Store) ListQuestionsByTag(ctx context.Context, tag string) ([]models.Question, error) {
	pattern := `^\s*` + regexp.QuoteMeta(tag) + `\s*$`
	return s.findQuestions(ctx, bson.M{"selected": primitive.Regex{Pattern: pattern, Options: "i"}})
}

func (s *Store) SearchQuestions(ctx context.Context, query string) ([]models.Question, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"title": re},
		bson.M{"body": re},
		bson.M{"selected": re},
	}}
	return s.findQuestions(ctx, filter)
}

func (s *Store) findQuestions(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Question, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	opts = append([]*options.FindOptions{byID()}, opts...)
	cursor, err := s.questions().Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	return decodeAll[models.Question](ctx, cursor)
}

func (s *Store) CountQuestions(ctx context.Context) (int64, error) {
	return s.count(ctx, s.questions(), bson.M{})
}

func (s *Store) CountQuestionsByAuthor(ctx context.Context, email string) (int64, error) {
	return s.count(ctx, s.questions(), bson.M{"email": email})
}

func (s *Store) UpsertQuestion(ctx context.Context, id primitive.ObjectID, edit models.QuestionEdit) (store.UpdateResult, error) {
	update := bson.M{
		"$set": edit,
		"$setOnInsert": bson.M{
			"views":     0,
			"createdAt": time.Now().UTC(),
		},
	}
	return s.update(ctx, s.questions(), bson.M{"_id": id}, update, true)
}

func (s *Store) SetAnswerLink(ctx context.Context, id primitive.ObjectID, answersID string) (store.UpdateResult, error) {
	return s.update(ctx, s.questions(), bson.M{"_id": id}, bson.M{"$set": bson.M{"answersId": answersID}}, false)
}

func (s *Store) DeleteQuestion(ctx context.Context, id primitive.ObjectID) error {
	return s.deleteByID(ctx, s.questions(), id)
}

func (s *Store) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.update(ctx, s.questions(), bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}}, false)
	return err
}

// AddVote appends email to QuestionsVote. The update is a pipeline so a
// missing or null vote list is treated as empty.
func (s *Store) AddVote(ctx context.Context, id primitive.ObjectID, email string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	// The $ne guard makes a repeat vote match nothing, so it can be told apart
	// from a successful add in one round trip.
	filter := bson.M{"_id": id, "QuestionsVote": bson.M{"$ne": email}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "QuestionsVote", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$QuestionsVote", bson.A{}}}},
			bson.A{bson.D{{Key: "$literal", Value: email}}},
		}}}}}}},
	}
	res, err := s.questions().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("add vote: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	return s.voteMiss(ctx, id, fmt.Errorf("add vote by %s: %w", email, store.ErrNoChange))
}

// RemoveVote pulls email from QuestionsVote. Filtering on the email keeps
// $pull away from documents whose vote list is null.
func (s *Store) RemoveVote(ctx context.Context, id primitive.ObjectID, email string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{"_id": id, "QuestionsVote": email}
	res, err := s.questions().UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"QuestionsVote": email}})
	if err != nil {
		return fmt.Errorf("remove vote: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	return s.voteMiss(ctx, id, fmt.Errorf("remove vote by %s: %w", email, store.ErrNoChange))
}

// voteMiss decides why a vote update matched nothing: the question is gone,
// or the vote set already had the wanted shape.
func (s *Store) voteMiss(ctx context.Context, id primitive.ObjectID, noChange error) error {
	n, err := s.questions().CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("vote lookup: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("vote on %s: %w", id.Hex(), store.ErrNotFound)
	}
	return noChange
}

// --- answers ---

func (s *Store) CreateAnswer(ctx context.Context, a *models.Answer) (primitive.ObjectID, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if _, err := s.answers().InsertOne(ctx, a); err != nil {
		return primitive.NilObjectID, fmt.Errorf("create answer: %w", err)
	}
	return a.ID, nil
}

func (s *Store) ListAnswers(ctx context.Context) ([]models.Answer, error) {
	return s.findAnswers(ctx, bson.M{})
}

func (s *Store) ListAnswersByQuestion(ctx context.Context, questionID string) ([]models.Answer, error) {
	return s.findAnswers(ctx, bson.M{"questionID": questionID})
}

func (s *Store) ListAnswersByAuthor(ctx context.Context, email string) ([]models.Answer, error) {
	return s.findAnswers(ctx, bson.M{"email": email})
}

func (s *Store) findAnswers(ctx context.Context, filter bson.M) ([]models.Answer, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	cursor, err := s.answers().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find answers: %w", err)
	}
	return decodeAll[models.Answer](ctx, cursor)
}

func (s *Store) CountAnswers(ctx context.Context) (int64, error) {
	return s.count(ctx, s.answers(), bson.M{})
}

func (s *Store) UpdateAnswer(ctx context.Context, id primitive.ObjectID, edit models.AnswerEdit) (store.UpdateResult, error) {
	return s.update(ctx, s.answers(), bson.M{"_id": id}, bson.M{"$set": edit}, false)
}

func (s *Store) DeleteAnswer(ctx context.Context, id primitive.ObjectID) error {
	return s.deleteByID(ctx, s.answers(), id)
}

// --- saves ---

func (s *Store) ToggleSave(ctx context.Context, questionID, email string) (store.SaveToggle, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{"questionID": questionID, "userEmail": email}
	err := s.saves().FindOneAndDelete(ctx, filter).Err()
	switch {
	case err == nil:
		return store.SaveToggle{Saved: false, Message: "unsaved"}, nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return store.SaveToggle{}, fmt.Errorf("toggle save: %w", err)
	}

	save := models.Save{
		ID:         primitive.NewObjectID(),
		QuestionID: questionID,
		UserEmail:  email,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.saves().InsertOne(ctx, save); err != nil && !mongo.IsDuplicateKeyError(err) {
		return store.SaveToggle{}, fmt.Errorf("toggle save: %w", err)
	}
	// A duplicate key means a concurrent request saved the same pair first.
	return store.SaveToggle{Saved: true, Message: "saved"}, nil
}

func (s *Store) ListSaves(ctx context.Context) ([]models.Save, error) {
	return s.findSaves(ctx, bson.M{})
}

func (s *Store) ListSavesByUser(ctx context.Context, email string) ([]models.Save, error) {
	return s.findSaves(ctx, bson.M{"userEmail": email})
}

func (s *Store) findSaves(ctx context.Context, filter bson.M) ([]models.Save, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	cursor, err := s.saves().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find saves: %w", err)
	}
	return decodeAll[models.Save](ctx, cursor)
}

// --- helpers ---

func (s *Store) update(ctx context.Context, coll *mongo.Collection, filter, update bson.M, upsert bool) (store.UpdateResult, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(upsert))
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("update %s: %w", coll.Name(), err)
	}
	out := store.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = &oid
	}
	if !upsert && res.MatchedCount == 0 {
		return out, fmt.Errorf("update %s: %w", coll.Name(), store.ErrNotFound)
	}
	return out, nil
}

func (s *Store) deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete %s from %s: %w", id.Hex(), coll.Name(), store.ErrNotFound)
	}
	return nil
}

func (s *Store) count(ctx context.Context, coll *mongo.Collection, filter bson.M) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	return n, nil
}

func byID() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

func pageOptions(page store.Page) *options.FindOptions {
	opts := byID()
	if page.Skip > 0 {
		opts.SetSkip(page.Skip)
	}
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}
	return opts
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)

	out := []T{}
	for cursor.Next(ctx) {
		var v T
		if err := cursor.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		out = append(out, v)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}
	return out, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
