package models

import "time"

// Post is a single published entry.
type Post struct {
	ID   int64
	Text string

	// AuthorID owns the post. Deleting the author deletes the post.
	AuthorID int64

	// GroupID is nil when the post is not tagged with a group.
	GroupID *int64

	// Image is the media-relative path of the attached image, or empty.
	Image string

	// Created holds the publication date.
	Created

	// Author and Group are filled in by read queries.
	Author *User
	Group  *Group
}

// PubDate returns the publication date of the post.
func (p *Post) PubDate() time.Time {
	return p.CreatedAt
}

// IsAuthor reports whether the given user owns the post.
func (p *Post) IsAuthor(userID int64) bool {
	return userID != 0 && p.AuthorID == userID
}
