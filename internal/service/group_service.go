package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aimerkz/yatube/internal/models"
	"github.com/aimerkz/yatube/internal/storage"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// GroupService manages groups. Groups are created by operators, not
// through the web UI.
type GroupService struct {
	store  storage.GroupStore
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.GroupStore, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

// CreateGroup validates and stores a new group.
func (s *GroupService) CreateGroup(ctx context.Context, title, slug, description string) (*models.Group, error) {
	s.logger.Info("CreateGroup request received", "slug", slug)

	group := &models.Group{
		Title:       strings.TrimSpace(title),
		Slug:        strings.TrimSpace(slug),
		Description: strings.TrimSpace(description),
	}

	verr := &ValidationError{}
	if group.Title == "" {
		verr.Add("title", msgRequired)
	} else if len(group.Title) > 200 {
		verr.Add("title", "Ensure this value has at most 200 characters.")
	}
	if group.Slug == "" {
		verr.Add("slug", msgRequired)
	} else if len(group.Slug) > 50 {
		verr.Add("slug", "Ensure this value has at most 50 characters.")
	} else if !slugPattern.MatchString(group.Slug) {
		verr.Add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			verr.Add("slug", "Group with this slug already exists.")
			return nil, verr
		}
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info("Group created", "group_id", group.ID, "slug", group.Slug)
	return group, nil
}

// GetGroup retrieves a group by slug.
func (s *GroupService) GetGroup(ctx context.Context, slug string) (*models.Group, error) {
	return s.store.GetGroupBySlug(ctx, slug)
}

// ListGroups returns every group, for the post form's group choices.
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}
