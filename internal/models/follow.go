package models

// Follow is a directed edge: UserID follows AuthorID.
// A pair appears at most once and UserID never equals AuthorID.
type Follow struct {
	ID       int64
	UserID   int64
	AuthorID int64
}
