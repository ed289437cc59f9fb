package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aimerkz/yatube/internal/models"
)

// postSelect joins the author and the optional group so a single row
// hydrates a full post.
const postSelect = `
	SELECT p.id, p.text, p.pub_date, p.image,
	       u.id, u.username, u.first_name, u.last_name,
	       g.id, g.title, g.slug, g.description
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

// CreatePost persists a new post. The publication date is stamped here
// unless the caller already set it.
func (s *SQLiteStore) CreatePost(ctx context.Context, post *models.Post) error {
	post.Stamp(time.Now())

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (text, pub_date, author_id, group_id, image) VALUES (?, ?, ?, ?, ?)",
		post.Text, toUnix(post.CreatedAt), post.AuthorID, nullInt(post.GroupID), post.Image,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", mapErr(err))
	}

	post.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read post id: %w", err)
	}
	return nil
}

// GetPost retrieves a post with its author and group.
func (s *SQLiteStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, postSelect+" WHERE p.id = ?", id)
	post, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", notFound(err, "post"))
	}
	return post, nil
}

// UpdatePost rewrites the mutable fields of a post. pub_date and
// author_id are left untouched.
func (s *SQLiteStore) UpdatePost(ctx context.Context, post *models.Post) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE posts SET text = ?, group_id = ?, image = ? WHERE id = ?",
		post.Text, nullInt(post.GroupID), post.Image, post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", mapErr(err))
	}
	return requireAffected(res, "post")
}

// DeletePost removes a post and, through the schema, its comments.
func (s *SQLiteStore) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return requireAffected(res, "post")
}

func scanPost(row scanner) (*models.Post, error) {
	post := &models.Post{Author: &models.User{}}
	var (
		pubDate   int64
		groupID   sql.NullInt64
		groupName sql.NullString
		groupSlug sql.NullString
		groupDesc sql.NullString
	)
	if err := row.Scan(
		&post.ID, &post.Text, &pubDate, &post.Image,
		&post.Author.ID, &post.Author.Username, &post.Author.FirstName, &post.Author.LastName,
		&groupID, &groupName, &groupSlug, &groupDesc,
	); err != nil {
		return nil, err
	}

	post.CreatedAt = fromUnix(pubDate)
	post.AuthorID = post.Author.ID
	if groupID.Valid {
		id := groupID.Int64
		post.GroupID = &id
		post.Group = &models.Group{
			ID:          id,
			Title:       groupName.String,
			Slug:        groupSlug.String,
			Description: groupDesc.String,
		}
	}
	return post, nil
}
