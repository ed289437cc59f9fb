package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aimerkz/yatube/internal/events"
	"github.com/aimerkz/yatube/internal/models"
	"github.com/aimerkz/yatube/internal/storage"
)

// PostInput is the post form as submitted.
type PostInput struct {
	Text string
	// Group is the raw group id from the form; empty means no group.
	Group string
	// Image is the stored media name of a new upload. Empty keeps the
	// current image on edit.
	Image string
}

// PostDetail is a post with everything its page shows.
type PostDetail struct {
	Post            *models.Post
	Comments        []*models.Comment
	AuthorPostCount int
}

// PostService handles post and comment writes and the post detail read.
type PostService struct {
	store  storage.Store
	events events.Publisher
	logger *slog.Logger
}

// NewPostService creates a new PostService.
func NewPostService(store storage.Store, publisher events.Publisher, logger *slog.Logger) *PostService {
	return &PostService{store: store, events: publisher, logger: logger}
}

// CreatePost publishes a new post for author. pub_date is set by the store.
func (s *PostService) CreatePost(ctx context.Context, author *models.User, in PostInput) (*models.Post, error) {
	if author == nil {
		return nil, ErrLoginRequired
	}
	s.logger.Info("CreatePost request received", "author", author.Username)

	post := &models.Post{AuthorID: author.ID, Image: in.Image}
	if err := s.applyInput(ctx, post, in); err != nil {
		return nil, err
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		s.logger.Error("CreatePost failed", "author", author.Username, "error", err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	post.Author = author

	s.publish(ctx, events.SubjectPostCreated, postEvent(post))
	s.logger.Info("Post created", "post_id", post.ID, "author", author.Username)
	return post, nil
}

// EditPost updates text, group and image of a post. Only the author may do
// this: anyone else gets the stored post back with ErrPermissionDenied and
// nothing is written.
func (s *PostService) EditPost(ctx context.Context, caller *models.User, postID int64, in PostInput) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if caller == nil || !post.IsAuthor(caller.ID) {
		s.logger.Warn("EditPost denied", "post_id", postID, "caller", username(caller))
		return post, ErrPermissionDenied
	}

	updated := *post
	if in.Image != "" {
		updated.Image = in.Image
	}
	if err := s.applyInput(ctx, &updated, in); err != nil {
		return post, err
	}

	if err := s.store.UpdatePost(ctx, &updated); err != nil {
		s.logger.Error("EditPost failed", "post_id", postID, "error", err)
		return post, fmt.Errorf("failed to update post: %w", err)
	}

	s.publish(ctx, events.SubjectPostUpdated, postEvent(&updated))
	s.logger.Info("Post updated", "post_id", postID)
	return &updated, nil
}

// GetPost returns a post with its comments, oldest first.
func (s *PostService) GetPost(ctx context.Context, postID int64) (*PostDetail, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	count, err := s.store.CountPosts(ctx, storage.FeedFilter{
		Kind:     storage.FeedAuthor,
		Username: post.Author.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count author posts: %w", err)
	}

	return &PostDetail{Post: post, Comments: comments, AuthorPostCount: count}, nil
}

// AddComment stores a comment by caller on a post. Guests get
// ErrLoginRequired and nothing is saved.
func (s *PostService) AddComment(ctx context.Context, caller *models.User, postID int64, text string) (*models.Comment, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, ErrLoginRequired
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: caller.ID,
		Text:     strings.TrimSpace(text),
		Author:   caller,
	}
	if comment.Text == "" {
		verr := &ValidationError{}
		verr.Add("text", msgRequired)
		return nil, verr
	}

	if err := s.store.CreateComment(ctx, comment); err != nil {
		s.logger.Error("AddComment failed", "post_id", postID, "error", err)
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.publish(ctx, events.SubjectCommentAdded, events.CommentEvent{
		ID:       comment.ID,
		PostID:   postID,
		AuthorID: caller.ID,
	})
	s.logger.Info("Comment added", "comment_id", comment.ID, "post_id", postID)
	return comment, nil
}

// applyInput validates in and copies it onto post.
func (s *PostService) applyInput(ctx context.Context, post *models.Post, in PostInput) error {
	verr := &ValidationError{}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		verr.Add("text", msgRequired)
	}

	var group *models.Group
	if raw := strings.TrimSpace(in.Group); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			verr.Add("group", msgInvalidChoice)
		} else {
			group, err = s.store.GetGroupByID(ctx, id)
			if errors.Is(err, storage.ErrNotFound) {
				verr.Add("group", msgInvalidChoice)
			} else if err != nil {
				return fmt.Errorf("failed to look up group: %w", err)
			}
		}
	}

	if err := verr.Err(); err != nil {
		return err
	}

	post.Text = text
	post.Group = group
	post.GroupID = nil
	if group != nil {
		post.GroupID = &group.ID
	}
	return nil
}

func (s *PostService) publish(ctx context.Context, subject string, payload any) {
	if err := s.events.Publish(ctx, subject, payload); err != nil {
		s.logger.Warn("Event publish failed", "subject", subject, "error", err)
	}
}

func postEvent(post *models.Post) events.PostEvent {
	return events.PostEvent{
		ID:       post.ID,
		AuthorID: post.AuthorID,
		GroupID:  post.GroupID,
		HasImage: post.Image != "",
		PubDate:  post.CreatedAt,
	}
}

func username(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
