// Package events publishes domain events after successful writes.
package events

import (
	"context"
	"time"
)

// Subjects published by the application.
const (
	SubjectPostCreated   = "yatube.posts.created"
	SubjectPostUpdated   = "yatube.posts.updated"
	SubjectCommentAdded  = "yatube.comments.created"
	SubjectFollowCreated = "yatube.follows.created"
	SubjectFollowDeleted = "yatube.follows.deleted"
)

// Publisher delivers events. Publishing is best effort: callers log a
// failure and carry on, since the write itself already succeeded.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// PostEvent describes a created or updated post.
type PostEvent struct {
	ID       int64     `json:"id"`
	AuthorID int64     `json:"author_id"`
	GroupID  *int64    `json:"group_id,omitempty"`
	HasImage bool      `json:"has_image"`
	PubDate  time.Time `json:"pub_date"`
}

// CommentEvent describes a new comment.
type CommentEvent struct {
	ID       int64 `json:"id"`
	PostID   int64 `json:"post_id"`
	AuthorID int64 `json:"author_id"`
}

// FollowEvent describes a follow edge change.
type FollowEvent struct {
	UserID   int64 `json:"user_id"`
	AuthorID int64 `json:"author_id"`
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
