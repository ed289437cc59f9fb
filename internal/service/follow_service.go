package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aimerkz/yatube/internal/events"
	"github.com/aimerkz/yatube/internal/models"
	"github.com/aimerkz/yatube/internal/storage"
)

// Profile is an author page header.
type Profile struct {
	Author     *models.User
	PostCount  int
	Followers  int
	Following  int
	IsFollowed bool // whether the viewer follows Author
	IsSelf     bool
}

// FollowService manages the follow graph.
type FollowService struct {
	store  storage.Store
	events events.Publisher
	logger *slog.Logger
}

// NewFollowService creates a new FollowService.
func NewFollowService(store storage.Store, publisher events.Publisher, logger *slog.Logger) *FollowService {
	return &FollowService{store: store, events: publisher, logger: logger}
}

// Follow makes caller follow the user named username and returns that user.
// Following yourself returns ErrSelfFollow and following twice returns
// ErrAlreadyFollowing; neither writes a row.
func (s *FollowService) Follow(ctx context.Context, caller *models.User, username string) (*models.User, error) {
	if caller == nil {
		return nil, ErrLoginRequired
	}

	author, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if author.ID == caller.ID {
		return author, ErrSelfFollow
	}

	following, err := s.store.IsFollowing(ctx, caller.ID, author.ID)
	if err != nil {
		return nil, err
	}
	if following {
		return author, ErrAlreadyFollowing
	}

	err = s.store.CreateFollow(ctx, &models.Follow{UserID: caller.ID, AuthorID: author.ID})
	switch {
	case errors.Is(err, storage.ErrConflict):
		// A concurrent request inserted the same edge first.
		return author, ErrAlreadyFollowing
	case errors.Is(err, storage.ErrConstraint):
		return author, ErrSelfFollow
	case err != nil:
		s.logger.Error("Follow failed", "user", caller.Username, "author", username, "error", err)
		return nil, fmt.Errorf("failed to follow: %w", err)
	}

	s.publish(ctx, events.SubjectFollowCreated, caller.ID, author.ID)
	s.logger.Info("Follow created", "user", caller.Username, "author", author.Username)
	return author, nil
}

// Unfollow removes the edge from caller to username. A missing edge is
// not an error.
func (s *FollowService) Unfollow(ctx context.Context, caller *models.User, username string) (*models.User, error) {
	if caller == nil {
		return nil, ErrLoginRequired
	}

	author, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	removed, err := s.store.DeleteFollow(ctx, caller.ID, author.ID)
	if err != nil {
		s.logger.Error("Unfollow failed", "user", caller.Username, "author", username, "error", err)
		return nil, fmt.Errorf("failed to unfollow: %w", err)
	}

	if removed {
		s.publish(ctx, events.SubjectFollowDeleted, caller.ID, author.ID)
		s.logger.Info("Follow deleted", "user", caller.Username, "author", author.Username)
	}
	return author, nil
}

// Profile loads the author page header as seen by viewer, who may be nil.
func (s *FollowService) Profile(ctx context.Context, viewer *models.User, username string) (*Profile, error) {
	author, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	p := &Profile{Author: author}
	if p.PostCount, err = s.store.CountPosts(ctx, storage.FeedFilter{Kind: storage.FeedAuthor, Username: username}); err != nil {
		return nil, err
	}
	if p.Followers, err = s.store.CountFollowers(ctx, author.ID); err != nil {
		return nil, err
	}
	if p.Following, err = s.store.CountFollowing(ctx, author.ID); err != nil {
		return nil, err
	}

	if viewer != nil {
		p.IsSelf = viewer.ID == author.ID
		if !p.IsSelf {
			if p.IsFollowed, err = s.store.IsFollowing(ctx, viewer.ID, author.ID); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func (s *FollowService) publish(ctx context.Context, subject string, userID, authorID int64) {
	if err := s.events.Publish(ctx, subject, events.FollowEvent{UserID: userID, AuthorID: authorID}); err != nil {
		s.logger.Warn("Event publish failed", "subject", subject, "error", err)
	}
}
