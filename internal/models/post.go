package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. Like and comment
// counts are not stored on the document; they are computed from the
// authoritative relational sets when a post is rendered.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	Title     string             `json:"title" bson:"title"`
	Body      string             `json:"body" bson:"body"`
	Tags      []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Image     string             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// PostView is a post enriched for rendering with counts derived from the
// like and comment sets plus the caller's own like state.
type PostView struct {
	Post
	Author        UserCompact `json:"author"`
	LikesCount    int64       `json:"likes_count"`
	CommentsCount int64       `json:"comments_count"`
	IsLiked       bool        `json:"is_liked"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title string   `json:"title" validate:"required,min=1,max=200"`
	Body  string   `json:"body" validate:"required,min=1,max=10000"`
	Tags  []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=30"`
	Image string   `json:"image,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Body  string   `json:"body,omitempty" validate:"omitempty,min=1,max=10000"`
	Tags  []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=30"`
	Image string   `json:"image,omitempty" validate:"omitempty,url"`
}
