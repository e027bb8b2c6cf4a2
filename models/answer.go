package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer is a reply to a question. QuestionID holds the question id as hex.
type Answer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Body       string             `bson:"body" json:"body"`
	Email      string             `bson:"email" json:"email"`
	UserName   string             `bson:"userName,omitempty" json:"userName,omitempty"`
	UserImage  string             `bson:"userImage,omitempty" json:"userImage,omitempty"`
	QuestionID string             `bson:"questionID" json:"questionID"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// AnswerEdit is the editable part of an answer. Author and question stay fixed.
type AnswerEdit struct {
	Body      string `bson:"body" json:"body" binding:"required"`
	UserName  string `bson:"userName,omitempty" json:"userName,omitempty"`
	UserImage string `bson:"userImage,omitempty" json:"userImage,omitempty"`
}
