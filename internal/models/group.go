package models

// Group is a named community posts can be tagged with.
// Deleting a group keeps its posts; their GroupID becomes nil.
type Group struct {
	ID int64

	Title string

	// Slug is unique and used as the external key in group URLs.
	Slug string

	Description string
}
