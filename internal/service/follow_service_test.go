package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aimerkz/yatube/internal/events"
)

func TestFollow(t *testing.T) {
	store := setupStore(t)
	pub := &recordingPublisher{}
	svc := NewFollowService(store, pub, discardLogger())
	ctx := context.Background()

	reader := createUser(t, store, "reader")
	writer := createUser(t, store, "writer")

	t.Run("following twice adds one edge", func(t *testing.T) {
		if _, err := svc.Follow(ctx, reader, "writer"); err != nil {
			t.Fatalf("Follow failed: %v", err)
		}
		if _, err := svc.Follow(ctx, reader, "writer"); !errors.Is(err, ErrAlreadyFollowing) {
			t.Errorf("Expected ErrAlreadyFollowing, got %v", err)
		}
		n, _ := store.CountFollowers(ctx, writer.ID)
		if n != 1 {
			t.Errorf("Followers = %d, want 1", n)
		}
		if pub.count(events.SubjectFollowCreated) != 1 {
			t.Errorf("Expected one %s event", events.SubjectFollowCreated)
		}
	})

	t.Run("self follow is blocked", func(t *testing.T) {
		if _, err := svc.Follow(ctx, reader, "reader"); !errors.Is(err, ErrSelfFollow) {
			t.Errorf("Expected ErrSelfFollow, got %v", err)
		}
		n, _ := store.CountFollowers(ctx, reader.ID)
		if n != 0 {
			t.Errorf("Followers = %d, want 0", n)
		}
	})

	t.Run("unknown author", func(t *testing.T) {
		if _, err := svc.Follow(ctx, reader, "ghost"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("guest", func(t *testing.T) {
		if _, err := svc.Follow(ctx, nil, "writer"); !errors.Is(err, ErrLoginRequired) {
			t.Errorf("Expected ErrLoginRequired, got %v", err)
		}
	})

	t.Run("profile reflects follow", func(t *testing.T) {
		p, err := svc.Profile(ctx, reader, "writer")
		if err != nil {
			t.Fatalf("Profile failed: %v", err)
		}
		if !p.IsFollowed || p.IsSelf || p.Followers != 1 {
			t.Errorf("Profile = %+v", p)
		}

		own, err := svc.Profile(ctx, writer, "writer")
		if err != nil {
			t.Fatalf("Profile failed: %v", err)
		}
		if !own.IsSelf || own.IsFollowed {
			t.Errorf("Own profile = %+v", own)
		}
	})

	t.Run("unfollow", func(t *testing.T) {
		if _, err := svc.Unfollow(ctx, reader, "writer"); err != nil {
			t.Fatalf("Unfollow failed: %v", err)
		}
		following, _ := store.IsFollowing(ctx, reader.ID, writer.ID)
		if following {
			t.Error("Expected edge removed")
		}

		// Absent edge is a silent no-op.
		if _, err := svc.Unfollow(ctx, reader, "writer"); err != nil {
			t.Errorf("Second Unfollow failed: %v", err)
		}
		if pub.count(events.SubjectFollowDeleted) != 1 {
			t.Errorf("Expected one %s event", events.SubjectFollowDeleted)
		}
	})
}
