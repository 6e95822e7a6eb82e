package domain

import (
	"errors"
	"time"
)

var ErrEmailExists = errors.New("email already registered")
var ErrUsernameExists = errors.New("username already taken")
var ErrWeakPassword = errors.New("password must be at least 6 characters")
var ErrEmailNotFound = errors.New("email not found")
var ErrInvalidPassword = errors.New("invalid password")
var ErrUserNotFound = errors.New("user not found")

// User models a registered patient. Email and username are each globally
// unique. The password hash is never serialized.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	FirstName    string    `json:"first_name" bson:"first_name"`
	LastName     string    `json:"last_name" bson:"last_name"`
	DateOfBirth  time.Time `json:"date_of_birth" bson:"date_of_birth"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
