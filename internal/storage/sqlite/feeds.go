package sqlite

import (
	"context"
	"fmt"

	"github.com/aimerkz/yatube/internal/models"
	"github.com/aimerkz/yatube/internal/storage"
)

// feedWhere builds the WHERE clause for a feed filter. An unknown group
// or author simply matches nothing.
func feedWhere(filter storage.FeedFilter) (string, []any, error) {
	switch filter.Kind {
	case storage.FeedAll:
		return "", nil, nil
	case storage.FeedGroup:
		return " WHERE g.slug = ?", []any{filter.GroupSlug}, nil
	case storage.FeedAuthor:
		return " WHERE u.username = ?", []any{filter.Username}, nil
	case storage.FeedFollowing:
		return " WHERE p.author_id IN (SELECT author_id FROM follows WHERE user_id = ?)",
			[]any{filter.FollowerID}, nil
	default:
		return "", nil, fmt.Errorf("unknown feed kind %d", filter.Kind)
	}
}

// CountPosts returns the number of posts the filter matches.
func (s *SQLiteStore) CountPosts(ctx context.Context, filter storage.FeedFilter) (int, error) {
	where, args, err := feedWhere(filter)
	if err != nil {
		return 0, err
	}

	var n int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id`+where,
		args...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// ListPosts returns one page of matching posts, newest first. Posts
// published at the same instant fall back to the newest row first.
func (s *SQLiteStore) ListPosts(ctx context.Context, filter storage.FeedFilter, limit, offset int) ([]*models.Post, error) {
	where, args, err := feedWhere(filter)
	if err != nil {
		return nil, err
	}
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx,
		postSelect+where+" ORDER BY p.pub_date DESC, p.id DESC LIMIT ? OFFSET ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}
