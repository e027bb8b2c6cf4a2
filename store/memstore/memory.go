// Package memstore is an in-process store.Store used by tests and by the
// server's -memory flag. Questions are kept sorted by id like the Mongo
// listings; other collections keep insertion order.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/developersajeeb/code-stack-server/models"
	"github.com/developersajeeb/code-stack-server/store"
)

// Store keeps every collection in a slice guarded by one lock.
type Store struct {
	mu        sync.RWMutex
	users     []models.User
	questions []models.Question
	answers   []models.Answer
	saves     []models.Save
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{}
}

func (s *Store) Ping(ctx context.Context) error  { return ctx.Err() }
func (s *Store) Close(ctx context.Context) error { return nil }

// --- users ---

func (s *Store) CreateUser(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email || (u.Username != "" && existing.Username == u.Username) {
			return primitive.NilObjectID, fmt.Errorf("create user %s: %w", u.Email, store.ErrDuplicate)
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users = append(s.users, cloneUser(*u))
	return u.ID, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Email == email })
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Username == username })
}

func (s *Store) findUser(match func(models.User) bool) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return models.User{}, fmt.Errorf("find user: %w", store.ErrNotFound)
}

func (s *Store) ListUsers(ctx context.Context, page store.Page) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.User{}
	for _, u := range paginate(s.users, page) {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func (s *Store) SetUserRole(ctx context.Context, id primitive.ObjectID, role models.Role) (store.UpdateResult, error) {
	if !role.Valid() {
		return store.UpdateResult{}, fmt.Errorf("invalid role %q", role)
	}
	return s.updateUser(func(u models.User) bool { return u.ID == id }, func(u *models.User) bool {
		changed := u.Role != role
		u.Role = role
		return changed
	})
}

func (s *Store) UpsertProfile(ctx context.Context, email string, p models.Profile) (store.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Email == email {
			before := cloneUser(s.users[i])
			p.Apply(&s.users[i])
			res := store.UpdateResult{MatchedCount: 1}
			if !reflect.DeepEqual(before, s.users[i]) {
				res.ModifiedCount = 1
			}
			return res, nil
		}
	}

	u := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Role:      models.RoleNormalUser,
		CreatedAt: time.Now().UTC(),
	}
	p.Apply(&u)
	s.users = append(s.users, u)
	return store.UpdateResult{UpsertedID: &u.ID}, nil
}

func (s *Store) SetLevelFlag(ctx context.Context, email string, acknowledged bool) (store.UpdateResult, error) {
	return s.updateUser(func(u models.User) bool { return u.Email == email }, func(u *models.User) bool {
		changed := u.ManualLevelUpdate != acknowledged
		u.ManualLevelUpdate = acknowledged
		return changed
	})
}

func (s *Store) updateUser(match func(models.User) bool, mutate func(*models.User) bool) (store.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if match(s.users[i]) {
			res := store.UpdateResult{MatchedCount: 1}
			if mutate(&s.users[i]) {
				res.ModifiedCount = 1
			}
			return res, nil
		}
	}
	return store.UpdateResult{}, fmt.Errorf("update users: %w", store.ErrNotFound)
}

// --- questions ---

func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	s.insertQuestion(cloneQuestion(*q))
	return q.ID, nil
}

func (s *Store) GetQuestion(ctx context.Context, id primitive.ObjectID) (models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.questionIndex(id); i >= 0 {
		return cloneQuestion(s.questions[i]), nil
	}
	return models.Question{}, fmt.Errorf("find question: %w", store.ErrNotFound)
}

func (s *Store) ListQuestions(ctx context.Context, page store.Page) ([]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Question{}
	for _, q := range paginate(s.questions, page) {
		out = append(out, cloneQuestion(q))
	}
	return out, nil
}

func (s *Store) ListQuestionsByAuthor(ctx context.Context, email string) ([]models.Question, error) {
	return s.filterQuestions(func(q models.Question) bool { return q.Email == email }), nil
}

func (s *Store) ListQuestionsByTag(ctx context.Context, tag string) ([]models.Question, error) {
	want := strings.ToLower(strings.TrimSpace(tag))
	return s.filterQuestions(func(q models.Question) bool {
		return slices.ContainsFunc(q.Selected, func(t string) bool {
			return strings.ToLower(strings.TrimSpace(t)) == want
		})
	}), nil
}

func (s *Store) SearchQuestions(ctx context.Context, query string) ([]models.Question, error) {
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}
	return s.filterQuestions(func(q models.Question) bool {
		return re.MatchString(q.Title) || re.MatchString(q.Body) || slices.ContainsFunc(q.Selected, re.MatchString)
	}), nil
}

func (s *Store) filterQuestions(match func(models.Question) bool) []models.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Question{}
	for _, q := range s.questions {
		if match(q) {
			out = append(out, cloneQuestion(q))
		}
	}
	return out
}

func (s *Store) CountQuestions(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.questions)), nil
}

func (s *Store) CountQuestionsByAuthor(ctx context.Context, email string) (int64, error) {
	return int64(len(s.filterQuestions(func(q models.Question) bool { return q.Email == email }))), nil
}

func (s *Store) UpsertQuestion(ctx context.Context, id primitive.ObjectID, edit models.QuestionEdit) (store.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.questionIndex(id); i >= 0 {
		q := &s.questions[i]
		changed := q.Title != edit.Title || q.Body != edit.Body ||
			!slices.Equal(q.Selected, edit.Selected) || !slices.Equal(q.ProblemImages, edit.ProblemImages)
		q.Title, q.Body = edit.Title, edit.Body
		q.Selected = slices.Clone(edit.Selected)
		q.ProblemImages = slices.Clone(edit.ProblemImages)
		res := store.UpdateResult{MatchedCount: 1}
		if changed {
			res.ModifiedCount = 1
		}
		return res, nil
	}

	s.insertQuestion(models.Question{
		ID:            id,
		Title:         edit.Title,
		Body:          edit.Body,
		Selected:      slices.Clone(edit.Selected),
		ProblemImages: slices.Clone(edit.ProblemImages),
		CreatedAt:     time.Now().UTC(),
	})
	return store.UpdateResult{UpsertedID: &id}, nil
}

func (s *Store) SetAnswerLink(ctx context.Context, id primitive.ObjectID, answersID string) (store.UpdateResult, error) {
	return s.updateQuestion(id, func(q *models.Question) bool {
		changed := q.AnswersID != answersID
		q.AnswersID = answersID
		return changed
	})
}

func (s *Store) DeleteQuestion(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.questionIndex(id)
	if i < 0 {
		return fmt.Errorf("delete question %s: %w", id.Hex(), store.ErrNotFound)
	}
	s.questions = slices.Delete(s.questions, i, i+1)
	return nil
}

func (s *Store) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.updateQuestion(id, func(q *models.Question) bool {
		q.Views++
		return true
	})
	return err
}

func (s *Store) AddVote(ctx context.Context, id primitive.ObjectID, email string) error {
	res, err := s.updateQuestion(id, func(q *models.Question) bool {
		if slices.Contains(q.QuestionsVote, email) {
			return false
		}
		q.QuestionsVote = append(q.QuestionsVote, email)
		return true
	})
	if err != nil {
		return fmt.Errorf("add vote: %w", err)
	}
	if res.ModifiedCount == 0 {
		return fmt.Errorf("add vote by %s: %w", email, store.ErrNoChange)
	}
	return nil
}

func (s *Store) RemoveVote(ctx context.Context, id primitive.ObjectID, email string) error {
	res, err := s.updateQuestion(id, func(q *models.Question) bool {
		i := slices.Index(q.QuestionsVote, email)
		if i < 0 {
			return false
		}
		q.QuestionsVote = slices.Delete(q.QuestionsVote, i, i+1)
		return true
	})
	if err != nil {
		return fmt.Errorf("remove vote: %w", err)
	}
	if res.ModifiedCount == 0 {
		return fmt.Errorf("remove vote by %s: %w", email, store.ErrNoChange)
	}
	return nil
}

func (s *Store) updateQuestion(id primitive.ObjectID, mutate func(*models.Question) bool) (store.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.questionIndex(id)
	if i < 0 {
		return store.UpdateResult{}, fmt.Errorf("update question %s: %w", id.Hex(), store.ErrNotFound)
	}
	res := store.UpdateResult{MatchedCount: 1}
	if mutate(&s.questions[i]) {
		res.ModifiedCount = 1
	}
	return res, nil
}

// insertQuestion keeps questions sorted by id, the order every listing
// uses. Must be called with mu held.
func (s *Store) insertQuestion(q models.Question) {
	i, _ := slices.BinarySearchFunc(s.questions, q.ID, func(e models.Question, id primitive.ObjectID) int {
		return bytes.Compare(e.ID[:], id[:])
	})
	s.questions = slices.Insert(s.questions, i, q)
}

// questionIndex must be called with mu held.
func (s *Store) questionIndex(id primitive.ObjectID) int {
	return slices.IndexFunc(s.questions, func(q models.Question) bool { return q.ID == id })
}

// --- answers ---

func (s *Store) CreateAnswer(ctx context.Context, a *models.Answer) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	s.answers = append(s.answers, *a)
	return a.ID, nil
}

func (s *Store) ListAnswers(ctx context.Context) ([]models.Answer, error) {
	return s.filterAnswers(func(models.Answer) bool { return true }), nil
}

func (s *Store) ListAnswersByQuestion(ctx context.Context, questionID string) ([]models.Answer, error) {
	return s.filterAnswers(func(a models.Answer) bool { return a.QuestionID == questionID }), nil
}

func (s *Store) ListAnswersByAuthor(ctx context.Context, email string) ([]models.Answer, error) {
	return s.filterAnswers(func(a models.Answer) bool { return a.Email == email }), nil
}

func (s *Store) filterAnswers(match func(models.Answer) bool) []models.Answer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Answer{}
	for _, a := range s.answers {
		if match(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) CountAnswers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.answers)), nil
}

func (s *Store) UpdateAnswer(ctx context.Context, id primitive.ObjectID, edit models.AnswerEdit) (store.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.answers, func(x models.Answer) bool { return x.ID == id })
	if i < 0 {
		return store.UpdateResult{}, fmt.Errorf("update answer %s: %w", id.Hex(), store.ErrNotFound)
	}
	a := &s.answers[i]
	res := store.UpdateResult{MatchedCount: 1}
	if a.Body != edit.Body || a.UserName != edit.UserName || a.UserImage != edit.UserImage {
		res.ModifiedCount = 1
	}
	a.Body, a.UserName, a.UserImage = edit.Body, edit.UserName, edit.UserImage
	return res, nil
}

func (s *Store) DeleteAnswer(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.answers, func(x models.Answer) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("delete answer %s: %w", id.Hex(), store.ErrNotFound)
	}
	s.answers = slices.Delete(s.answers, i, i+1)
	return nil
}

// --- saves ---

func (s *Store) ToggleSave(ctx context.Context, questionID, email string) (store.SaveToggle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.saves, func(sv models.Save) bool {
		return sv.QuestionID == questionID && sv.UserEmail == email
	})
	if i >= 0 {
		s.saves = slices.Delete(s.saves, i, i+1)
		return store.SaveToggle{Saved: false, Message: "unsaved"}, nil
	}
	s.saves = append(s.saves, models.Save{
		ID:         primitive.NewObjectID(),
		QuestionID: questionID,
		UserEmail:  email,
		CreatedAt:  time.Now().UTC(),
	})
	return store.SaveToggle{Saved: true, Message: "saved"}, nil
}

func (s *Store) ListSaves(ctx context.Context) ([]models.Save, error) {
	return s.filterSaves(func(models.Save) bool { return true }), nil
}

func (s *Store) ListSavesByUser(ctx context.Context, email string) ([]models.Save, error) {
	return s.filterSaves(func(sv models.Save) bool { return sv.UserEmail == email }), nil
}

func (s *Store) filterSaves(match func(models.Save) bool) []models.Save {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Save{}
	for _, sv := range s.saves {
		if match(sv) {
			out = append(out, sv)
		}
	}
	return out
}

// --- helpers ---

func paginate[T any](all []T, page store.Page) []T {
	if page.Skip >= int64(len(all)) {
		return nil
	}
	out := all[page.Skip:]
	if page.Limit > 0 && page.Limit < int64(len(out)) {
		out = out[:page.Limit]
	}
	return out
}

func cloneUser(u models.User) models.User {
	u.Selected = slices.Clone(u.Selected)
	return u
}

func cloneQuestion(q models.Question) models.Question {
	q.Selected = slices.Clone(q.Selected)
	q.ProblemImages = slices.Clone(q.ProblemImages)
	q.QuestionsVote = slices.Clone(q.QuestionsVote)
	return q
}

