package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Account represents a member account. Local registrations carry a password
// hash; Google sign-ins carry a Google id instead. VerificationCode and
// VerificationCodeExpiresAt are either both set or both cleared.
type Account struct {
	ID                        bson.ObjectID `bson:"_id,omitempty"`
	FirstName                 string        `bson:"first_name"`
	LastName                  string        `bson:"last_name"`
	Email                     string        `bson:"email"`
	Phone                     string        `bson:"phone,omitempty"`
	PasswordHash              string        `bson:"password_hash,omitempty"`
	GoogleID                  string        `bson:"google_id,omitempty"`
	Verified                  bool          `bson:"verified"`
	VerificationCode          string        `bson:"verification_code,omitempty"`
	VerificationCodeExpiresAt time.Time     `bson:"verification_code_expires_at,omitempty"`
	CreatedAt                 time.Time     `bson:"created_at"`
	UpdatedAt                 time.Time     `bson:"updated_at"`
}
