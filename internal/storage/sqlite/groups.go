package sqlite

import (
	"context"
	"fmt"

	"github.com/aimerkz/yatube/internal/models"
)

// CreateGroup inserts a new group.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO groups (title, slug, description) VALUES (?, ?, ?)",
		group.Title, group.Slug, group.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", mapErr(err))
	}

	group.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read group id: %w", err)
	}
	return nil
}

// GetGroupByID retrieves a group by ID.
func (s *SQLiteStore) GetGroupByID(ctx context.Context, id int64) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, slug, description FROM groups WHERE id = ?", id,
	).Scan(&group.ID, &group.Title, &group.Slug, &group.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", notFound(err, "group"))
	}
	return group, nil
}

// GetGroupBySlug retrieves a group by its slug.
func (s *SQLiteStore) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, slug, description FROM groups WHERE slug = ?", slug,
	).Scan(&group.ID, &group.Title, &group.Slug, &group.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", notFound(err, "group"))
	}
	return group, nil
}

// ListGroups returns all groups ordered by title.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, slug, description FROM groups ORDER BY title, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// DeleteGroup removes a group. Its posts stay, with group_id set to NULL.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return requireAffected(res, "group")
}
