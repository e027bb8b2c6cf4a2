package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Save is a bookmark of a question by a user. At most one per (QuestionID, UserEmail).
type Save struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	QuestionID string             `bson:"questionID" json:"questionID"`
	UserEmail  string             `bson:"userEmail" json:"userEmail"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
