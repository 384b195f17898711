package entities

import (
	"time"

	"facegate.io/application/utils"
)

// User is a registered identity. Password holds an argon2 verifier and
// FaceEmbedding the codec encoded descriptor; neither is ever serialised
// to clients.
type User struct {
	FirstName     string `bson:"firstName" json:"firstName"`
	LastName      string `bson:"lastName" json:"lastName"`
	Email         string `bson:"email" json:"email"`
	Password      string `bson:"password" json:"-"`
	Role          string `bson:"role" json:"role"`
	FaceEmbedding string `bson:"faceEmbedding" json:"-"`
	UserAgent     string `bson:"userAgent" json:"-"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model User) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateUULDString()
		}
	}
	model.UpdatedAt = now
	return &model
}
