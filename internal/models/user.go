package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model     `json:"-"`
	ID             uint   `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"uniqueIndex"`
	Email          string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
	Role           string `json:"role" gorm:"type:varchar(20);default:'user'"` // "user" or "admin"
	Password       string `json:"-"`                                           // Store hashed password, ignore for JSON serialization
	FirebaseUID    string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`   // Link to Firebase User UID
}

// UserCompact is the summary shape embedded in follower lists, comments
// and notification payloads.
type UserCompact struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
	Bio            string `json:"bio,omitempty"`
}

// ToCompact strips a user down to its embeddable summary
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
	}
}

// IsAdmin reports whether the user carries the elevated role
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

type CreateLocalUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Username       string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
	Bio            string `json:"bio,omitempty" validate:"omitempty,max=300"`
	ProfilePicture string `json:"profile_picture,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
