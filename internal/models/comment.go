package models

// Comment is a reply to a post. Comments are deleted together with
// their post or their author.
type Comment struct {
	ID       int64
	PostID   int64
	AuthorID int64
	Text     string

	Created

	Author *User
}
