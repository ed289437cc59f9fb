package sqlite

import (
	"context"
	"fmt"

	"github.com/aimerkz/yatube/internal/models"
)

// CreateFollow inserts a follow edge. The schema rejects duplicates and
// self-follows.
func (s *SQLiteStore) CreateFollow(ctx context.Context, follow *models.Follow) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO follows (user_id, author_id) VALUES (?, ?)",
		follow.UserID, follow.AuthorID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert follow: %w", mapErr(err))
	}

	follow.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read follow id: %w", err)
	}
	return nil
}

// DeleteFollow removes the edge if it exists.
func (s *SQLiteStore) DeleteFollow(ctx context.Context, userID, authorID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM follows WHERE user_id = ? AND author_id = ?",
		userID, authorID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// IsFollowing reports whether userID follows authorID.
func (s *SQLiteStore) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM follows WHERE user_id = ? AND author_id = ?)",
		userID, authorID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

// CountFollowers returns how many users follow the author.
func (s *SQLiteStore) CountFollowers(ctx context.Context, authorID int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM follows WHERE author_id = ?", authorID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return n, nil
}

// CountFollowing returns how many authors the user follows.
func (s *SQLiteStore) CountFollowing(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM follows WHERE user_id = ?", userID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count following: %w", err)
	}
	return n, nil
}
