package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/aimerkz/yatube/internal/models"
)

// CreateComment persists a new comment.
func (s *SQLiteStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.Stamp(time.Now())

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO comments (post_id, author_id, text, created) VALUES (?, ?, ?, ?)",
		comment.PostID, comment.AuthorID, comment.Text, toUnix(comment.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", mapErr(err))
	}

	comment.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read comment id: %w", err)
	}
	return nil
}

// ListComments returns the comments of a post, oldest first.
func (s *SQLiteStore) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.text, c.created,
		       u.id, u.username, u.first_name, u.last_name
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created ASC, c.id ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{Author: &models.User{}}
		var created int64
		if err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.Text, &created,
			&comment.Author.ID, &comment.Author.Username, &comment.Author.FirstName, &comment.Author.LastName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comment.CreatedAt = fromUnix(created)
		comment.AuthorID = comment.Author.ID
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}

// CountComments returns the number of comments on a post.
func (s *SQLiteStore) CountComments(ctx context.Context, postID int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM comments WHERE post_id = ?", postID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return n, nil
}
