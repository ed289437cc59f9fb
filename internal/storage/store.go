// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/aimerkz/yatube/internal/models"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an insert violates a uniqueness rule.
	ErrConflict = errors.New("already exists")
	// ErrConstraint is returned when a write violates a check or
	// foreign key rule.
	ErrConstraint = errors.New("constraint violation")
)

// FeedKind selects which posts a feed query returns.
type FeedKind int

const (
	FeedAll FeedKind = iota
	FeedGroup
	FeedAuthor
	FeedFollowing
)

// FeedFilter describes one feed query. Only the field matching Kind is used.
type FeedFilter struct {
	Kind       FeedKind
	GroupSlug  string
	Username   string
	FollowerID int64
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts the user and populates user.ID.
	// Returns ErrConflict if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// DeleteUser removes the user together with their posts, comments
	// and follow edges.
	DeleteUser(ctx context.Context, id int64) error
}

// GroupStore persists groups.
type GroupStore interface {
	// CreateGroup inserts the group and populates group.ID.
	// Returns ErrConflict if the slug is taken.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id int64) (*models.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	// DeleteGroup removes the group. Posts in the group are kept with no group.
	DeleteGroup(ctx context.Context, id int64) error
}

// PostStore persists posts.
type PostStore interface {
	// CreatePost inserts the post and populates post.ID.
	CreatePost(ctx context.Context, post *models.Post) error
	// GetPost returns the post with Author and Group hydrated.
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	// UpdatePost writes text, group and image. The publication date is
	// never changed.
	UpdatePost(ctx context.Context, post *models.Post) error
	// DeletePost removes the post and its comments.
	DeletePost(ctx context.Context, id int64) error
}

// CommentStore persists comments.
type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	// ListComments returns the comments of a post, oldest first.
	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)
	CountComments(ctx context.Context, postID int64) (int, error)
}

// FollowStore persists follow edges.
type FollowStore interface {
	// CreateFollow inserts the edge. Returns ErrConflict for a duplicate
	// pair and ErrConstraint for a self-follow.
	CreateFollow(ctx context.Context, follow *models.Follow) error
	// DeleteFollow removes the edge and reports whether a row existed.
	DeleteFollow(ctx context.Context, userID, authorID int64) (bool, error)
	IsFollowing(ctx context.Context, userID, authorID int64) (bool, error)
	CountFollowers(ctx context.Context, authorID int64) (int, error)
	CountFollowing(ctx context.Context, userID int64) (int, error)
}

// FeedStore runs paginated post queries.
type FeedStore interface {
	// CountPosts returns the number of posts matching the filter.
	CountPosts(ctx context.Context, filter FeedFilter) (int, error)
	// ListPosts returns one window of matching posts, newest first.
	ListPosts(ctx context.Context, filter FeedFilter, limit, offset int) ([]*models.Post, error)
}

// Store defines every storage operation the application needs.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	UserStore
	GroupStore
	PostStore
	CommentStore
	FollowStore
	FeedStore

	// Close releases any resources held by the store.
	Close() error
}
