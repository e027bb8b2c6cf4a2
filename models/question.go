package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is a posted question. Selected holds its tags and QuestionsVote the
// emails of the users who voted for it.
type Question struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Body          string             `bson:"body" json:"body"`
	Email         string             `bson:"email" json:"email"` // author
	UserName      string             `bson:"userName,omitempty" json:"userName,omitempty"`
	UserImage     string             `bson:"userImage,omitempty" json:"userImage,omitempty"`
	Selected      []string           `bson:"selected" json:"selected"` // tags
	ProblemImages []string           `bson:"problemImages,omitempty" json:"problemImages,omitempty"`
	QuestionsVote []string           `bson:"QuestionsVote,omitempty" json:"QuestionsVote,omitempty"` // voter emails
	Views         int64              `bson:"views" json:"views"`
	AnswersID     string             `bson:"answersId,omitempty" json:"answersId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// QuestionEdit is the editable part of a question.
type QuestionEdit struct {
	Title         string   `bson:"title" json:"title"`
	Body          string   `bson:"body" json:"body"`
	Selected      []string `bson:"selected" json:"selected"`
	ProblemImages []string `bson:"problemImages" json:"problemImages"`
}
