package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aimerkz/yatube/internal/models"
	"github.com/aimerkz/yatube/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "yatube-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustUser(t *testing.T, store *SQLiteStore, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, "", "", username+"@example.com", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return user
}

func mustGroup(t *testing.T, store *SQLiteStore, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup(%s) failed: %v", slug, err)
	}
	return group
}

func mustPost(t *testing.T, store *SQLiteStore, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		post.GroupID = &group.ID
	}
	if err := store.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	return post
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser assigns ID and timestamp", func(t *testing.T) {
		user := mustUser(t, store, "leo")
		if user.ID == 0 {
			t.Error("Expected user ID to be assigned")
		}
		if user.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetUserByUsername(ctx, "leo")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("ID mismatch: got %d, want %d", got.ID, user.ID)
		}
	})

	t.Run("Duplicate username is a conflict", func(t *testing.T) {
		mustUser(t, store, "twice")
		err := store.CreateUser(ctx, models.NewUser("twice", "", "", "", "hash"))
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("Unknown lookups return ErrNotFound", func(t *testing.T) {
		if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByUsername: expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetPost(ctx, 9999); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetPost: expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetGroupBySlug(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetGroupBySlug: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetPost hydrates author and group", func(t *testing.T) {
		author := mustUser(t, store, "hydrated")
		group := mustGroup(t, store, "hydrated-group")
		post := mustPost(t, store, author, group, "with group")

		got, err := store.GetPost(ctx, post.ID)
		if err != nil {
			t.Fatalf("GetPost failed: %v", err)
		}
		if got.Author == nil || got.Author.Username != "hydrated" {
			t.Errorf("Expected author hydrated, got %+v", got.Author)
		}
		if got.Group == nil || got.Group.Slug != "hydrated-group" {
			t.Errorf("Expected group hydrated, got %+v", got.Group)
		}
		if !got.CreatedAt.Equal(post.CreatedAt) {
			t.Errorf("pub_date mismatch: got %v, want %v", got.CreatedAt, post.CreatedAt)
		}
	})

	t.Run("UpdatePost keeps pub_date", func(t *testing.T) {
		author := mustUser(t, store, "editor")
		post := mustPost(t, store, author, nil, "before")
		original := post.CreatedAt

		post.Text = "after"
		post.CreatedAt = original.Add(time.Hour)
		if err := store.UpdatePost(ctx, post); err != nil {
			t.Fatalf("UpdatePost failed: %v", err)
		}

		got, err := store.GetPost(ctx, post.ID)
		if err != nil {
			t.Fatalf("GetPost failed: %v", err)
		}
		if got.Text != "after" {
			t.Errorf("Text mismatch: got %q, want %q", got.Text, "after")
		}
		if !got.CreatedAt.Equal(original) {
			t.Errorf("pub_date changed: got %v, want %v", got.CreatedAt, original)
		}
	})

	t.Run("Post with unknown group is rejected", func(t *testing.T) {
		author := mustUser(t, store, "lost")
		missing := int64(424242)
		err := store.CreatePost(ctx, &models.Post{Text: "x", AuthorID: author.ID, GroupID: &missing})
		if !errors.Is(err, storage.ErrConstraint) {
			t.Errorf("Expected ErrConstraint, got %v", err)
		}
	})
}

func TestDeleteRules(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Deleting a group keeps its posts", func(t *testing.T) {
		author := mustUser(t, store, "grouped")
		group := mustGroup(t, store, "doomed")
		var ids []int64
		for i := 0; i < 3; i++ {
			ids = append(ids, mustPost(t, store, author, group, fmt.Sprintf("post %d", i)).ID)
		}

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}

		for _, id := range ids {
			post, err := store.GetPost(ctx, id)
			if err != nil {
				t.Fatalf("GetPost(%d) failed after group delete: %v", id, err)
			}
			if post.GroupID != nil || post.Group != nil {
				t.Errorf("Expected post %d to have no group, got %v", id, post.GroupID)
			}
		}
	})

	t.Run("Deleting a post deletes its comments", func(t *testing.T) {
		author := mustUser(t, store, "commented")
		post := mustPost(t, store, author, nil, "discussed")
		for i := 0; i < 2; i++ {
			c := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "hi"}
			if err := store.CreateComment(ctx, c); err != nil {
				t.Fatalf("CreateComment failed: %v", err)
			}
		}

		if err := store.DeletePost(ctx, post.ID); err != nil {
			t.Fatalf("DeletePost failed: %v", err)
		}
		n, err := store.CountComments(ctx, post.ID)
		if err != nil {
			t.Fatalf("CountComments failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected 0 comments after post delete, got %d", n)
		}
	})

	t.Run("Deleting a user cascades", func(t *testing.T) {
		gone := mustUser(t, store, "gone")
		other := mustUser(t, store, "stays")
		post := mustPost(t, store, gone, nil, "bye")
		if err := store.CreateFollow(ctx, &models.Follow{UserID: other.ID, AuthorID: gone.ID}); err != nil {
			t.Fatalf("CreateFollow failed: %v", err)
		}
		if err := store.CreateFollow(ctx, &models.Follow{UserID: gone.ID, AuthorID: other.ID}); err != nil {
			t.Fatalf("CreateFollow failed: %v", err)
		}

		if err := store.DeleteUser(ctx, gone.ID); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}

		if _, err := store.GetPost(ctx, post.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected post removed, got %v", err)
		}
		following, _ := store.CountFollowing(ctx, other.ID)
		followers, _ := store.CountFollowers(ctx, other.ID)
		if following != 0 || followers != 0 {
			t.Errorf("Expected follow edges removed, got following=%d followers=%d", following, followers)
		}
	})
}

func TestFollowConstraints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	reader := mustUser(t, store, "reader")
	writer := mustUser(t, store, "writer")

	if err := store.CreateFollow(ctx, &models.Follow{UserID: reader.ID, AuthorID: writer.ID}); err != nil {
		t.Fatalf("CreateFollow failed: %v", err)
	}

	t.Run("Duplicate pair is rejected", func(t *testing.T) {
		err := store.CreateFollow(ctx, &models.Follow{UserID: reader.ID, AuthorID: writer.ID})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
		n, _ := store.CountFollowers(ctx, writer.ID)
		if n != 1 {
			t.Errorf("Expected 1 follower, got %d", n)
		}
	})

	t.Run("Self follow is rejected", func(t *testing.T) {
		err := store.CreateFollow(ctx, &models.Follow{UserID: reader.ID, AuthorID: reader.ID})
		if !errors.Is(err, storage.ErrConstraint) {
			t.Errorf("Expected ErrConstraint, got %v", err)
		}
	})

	t.Run("DeleteFollow reports missing edge", func(t *testing.T) {
		removed, err := store.DeleteFollow(ctx, writer.ID, reader.ID)
		if err != nil {
			t.Fatalf("DeleteFollow failed: %v", err)
		}
		if removed {
			t.Error("Expected no row removed for absent edge")
		}

		removed, err = store.DeleteFollow(ctx, reader.ID, writer.ID)
		if err != nil {
			t.Fatalf("DeleteFollow failed: %v", err)
		}
		if !removed {
			t.Error("Expected existing edge removed")
		}
		following, _ := store.IsFollowing(ctx, reader.ID, writer.ID)
		if following {
			t.Error("Expected IsFollowing to be false after delete")
		}
	})
}

func TestFeeds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	author := mustUser(t, store, "prolific")
	other := mustUser(t, store, "quiet")
	reader := mustUser(t, store, "fan")
	group := mustGroup(t, store, "thirteen")

	// pub_date descends while ids ascend, so order must follow pub_date.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		post := &models.Post{Text: fmt.Sprintf("post %d", i), AuthorID: author.ID, GroupID: &group.ID}
		post.CreatedAt = base.Add(-time.Duration(i) * time.Minute)
		if err := store.CreatePost(ctx, post); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
	}
	mustPost(t, store, other, nil, "ungrouped")

	if err := store.CreateFollow(ctx, &models.Follow{UserID: reader.ID, AuthorID: other.ID}); err != nil {
		t.Fatalf("CreateFollow failed: %v", err)
	}

	tests := []struct {
		name   string
		filter storage.FeedFilter
		want   int
	}{
		{"all", storage.FeedFilter{Kind: storage.FeedAll}, 14},
		{"group", storage.FeedFilter{Kind: storage.FeedGroup, GroupSlug: "thirteen"}, 13},
		{"unknown group", storage.FeedFilter{Kind: storage.FeedGroup, GroupSlug: "nope"}, 0},
		{"author", storage.FeedFilter{Kind: storage.FeedAuthor, Username: "quiet"}, 1},
		{"unknown author", storage.FeedFilter{Kind: storage.FeedAuthor, Username: "ghost"}, 0},
		{"following", storage.FeedFilter{Kind: storage.FeedFollowing, FollowerID: reader.ID}, 1},
		{"following nobody", storage.FeedFilter{Kind: storage.FeedFollowing, FollowerID: author.ID}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := store.CountPosts(ctx, tt.filter)
			if err != nil {
				t.Fatalf("CountPosts failed: %v", err)
			}
			if n != tt.want {
				t.Errorf("CountPosts = %d, want %d", n, tt.want)
			}
		})
	}

	t.Run("group pages split 10 and 3", func(t *testing.T) {
		filter := storage.FeedFilter{Kind: storage.FeedGroup, GroupSlug: "thirteen"}
		first, err := store.ListPosts(ctx, filter, 10, 0)
		if err != nil {
			t.Fatalf("ListPosts failed: %v", err)
		}
		second, err := store.ListPosts(ctx, filter, 10, 10)
		if err != nil {
			t.Fatalf("ListPosts failed: %v", err)
		}
		if len(first) != 10 || len(second) != 3 {
			t.Fatalf("Expected 10 and 3 posts, got %d and %d", len(first), len(second))
		}
		if first[0].Text != "post 0" {
			t.Errorf("Expected newest first, got %q", first[0].Text)
		}
		for i := 1; i < len(first); i++ {
			if first[i].CreatedAt.After(first[i-1].CreatedAt) {
				t.Errorf("Posts out of order at %d", i)
			}
		}
	})
}

func TestCommentsOldestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, store, "talker")
	post := mustPost(t, store, author, nil, "topic")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"first", "second", "third"} {
		c := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: text}
		c.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := store.CreateComment(ctx, c); err != nil {
			t.Fatalf("CreateComment failed: %v", err)
		}
	}

	comments, err := store.ListComments(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("Expected 3 comments, got %d", len(comments))
	}
	if comments[0].Text != "first" || comments[2].Text != "third" {
		t.Errorf("Expected oldest first, got %q..%q", comments[0].Text, comments[2].Text)
	}
	if comments[0].Author == nil || comments[0].Author.Username != "talker" {
		t.Errorf("Expected comment author hydrated")
	}
}
