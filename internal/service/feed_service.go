package service

import (
	"context"
	"fmt"

	"github.com/aimerkz/yatube/internal/models"
	"github.com/aimerkz/yatube/internal/paging"
	"github.com/aimerkz/yatube/internal/storage"
)

// Feed is a lazy, restartable paginated list of posts. Building a Feed
// runs no query; every Page call counts and fetches one window afresh.
type Feed struct {
	store  storage.FeedStore
	filter storage.FeedFilter
	empty  bool
}

// Page returns page number of the feed, newest first. Numbers outside the
// valid range are clamped to the first or last page.
func (f Feed) Page(ctx context.Context, number int) (paging.Page[*models.Post], error) {
	if f.empty {
		return paging.New[*models.Post](nil, 1, 0, paging.PageSize), nil
	}

	total, err := f.store.CountPosts(ctx, f.filter)
	if err != nil {
		return paging.Page[*models.Post]{}, fmt.Errorf("failed to count feed: %w", err)
	}

	number = paging.Clamp(number, total, paging.PageSize)
	posts, err := f.store.ListPosts(ctx, f.filter, paging.PageSize, paging.Offset(number, paging.PageSize))
	if err != nil {
		return paging.Page[*models.Post]{}, fmt.Errorf("failed to load feed: %w", err)
	}

	return paging.New(posts, number, total, paging.PageSize), nil
}

// FeedService builds the four post feeds.
type FeedService struct {
	store storage.FeedStore
}

// NewFeedService creates a new FeedService.
func NewFeedService(store storage.FeedStore) *FeedService {
	return &FeedService{store: store}
}

// Global returns every post.
func (s *FeedService) Global() Feed {
	return Feed{store: s.store, filter: storage.FeedFilter{Kind: storage.FeedAll}}
}

// Group returns the posts of one group. An unknown slug yields no posts.
func (s *FeedService) Group(slug string) Feed {
	return Feed{store: s.store, filter: storage.FeedFilter{Kind: storage.FeedGroup, GroupSlug: slug}}
}

// Author returns the posts of one user. An unknown username yields no posts.
func (s *FeedService) Author(username string) Feed {
	return Feed{store: s.store, filter: storage.FeedFilter{Kind: storage.FeedAuthor, Username: username}}
}

// Following returns posts by the authors caller follows. A guest gets an
// empty feed.
func (s *FeedService) Following(caller *models.User) Feed {
	if caller == nil {
		return Feed{empty: true}
	}
	return Feed{store: s.store, filter: storage.FeedFilter{Kind: storage.FeedFollowing, FollowerID: caller.ID}}
}
