package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aimerkz/yatube/internal/middleware"
	"github.com/aimerkz/yatube/internal/paging"
	"github.com/aimerkz/yatube/internal/service"
)

// followIndex lists posts by the authors the user follows.
func (s *Server) followIndex(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	page, err := s.feeds.Following(user).Page(r.Context(), paging.ParsePage(r))
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.page(w, r, http.StatusOK, "follow.html", "Following", struct {
		Feed feedView
	}{feedView{Page: page, BaseURL: r.URL.Path}})
}

func (s *Server) profileFollow(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	_, err := s.follows.Follow(r.Context(), middleware.CurrentUser(r.Context()), username)
	switch {
	case errors.Is(err, service.ErrNotFound):
		s.notFound(w, r)
		return
	case errors.Is(err, service.ErrSelfFollow), errors.Is(err, service.ErrAlreadyFollowing):
		s.flashes.Add(w, r, err.Error())
	case err != nil:
		s.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, profileURL(username), http.StatusFound)
}

// profileUnfollow removes the follow edge. Unfollowing someone you do not
// follow still redirects to their profile.
func (s *Server) profileUnfollow(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	_, err := s.follows.Unfollow(r.Context(), middleware.CurrentUser(r.Context()), username)
	if errors.Is(err, service.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, profileURL(username), http.StatusFound)
}
