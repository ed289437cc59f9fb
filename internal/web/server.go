// Package web is the HTML surface of yatube: routing, handlers and
// templates.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aimerkz/yatube/internal/cache"
	"github.com/aimerkz/yatube/internal/media"
	"github.com/aimerkz/yatube/internal/metrics"
	"github.com/aimerkz/yatube/internal/middleware"
	"github.com/aimerkz/yatube/internal/service"
)

const loginURL = "/auth/login/"

// Deps are the collaborators a Server is built from.
type Deps struct {
	Posts   *service.PostService
	Follows *service.FollowService
	Feeds   *service.FeedService
	Groups  *service.GroupService
	Auth    *service.AuthService
	Cache   cache.Cache
	Media   *media.Store
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	SessionSecret string
	// SecureCookies marks auth and flash cookies Secure.
	SecureCookies bool
}

// Server serves every yatube page.
type Server struct {
	posts   *service.PostService
	follows *service.FollowService
	feeds   *service.FeedService
	groups  *service.GroupService
	auth    *service.AuthService
	cache   cache.Cache
	media   *media.Store
	metrics *metrics.Metrics
	logger  *slog.Logger

	renderer *Renderer
	flashes  *Flashes
	secure   bool
}

// NewServer parses the templates and assembles a Server.
func NewServer(d Deps) (*Server, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	return &Server{
		posts:    d.Posts,
		follows:  d.Follows,
		feeds:    d.Feeds,
		groups:   d.Groups,
		auth:     d.Auth,
		cache:    d.Cache,
		media:    d.Media,
		metrics:  d.Metrics,
		logger:   d.Logger,
		renderer: renderer,
		flashes:  NewFlashes(d.SessionSecret, d.SecureCookies, d.Logger),
		secure:   d.SecureCookies,
	}, nil
}

// Routes returns the application router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoadUser(s.auth))
	r.Use(middleware.RequestLogger(s.logger))
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
	}
	r.Use(chimw.Recoverer)

	r.NotFound(s.notFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	// Feeds and detail pages
	r.Get("/", s.index)
	r.Get("/group/{slug}/", s.groupPosts)
	r.Get("/profile/{username}/", s.profile)
	r.Get("/posts/{postID}/", s.postDetail)
	r.Post("/posts/{postID}/comment/", s.addComment)

	// Authenticated pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(loginURL))

		r.Get("/create/", s.postCreateForm)
		r.Post("/create/", s.postCreate)
		r.Get("/posts/{postID}/edit/", s.postEditForm)
		r.Post("/posts/{postID}/edit/", s.postEdit)

		r.Get("/follow/", s.followIndex)
		r.Get("/profile/{username}/follow/", s.profileFollow)
		r.Post("/profile/{username}/follow/", s.profileFollow)
		r.Get("/profile/{username}/unfollow/", s.profileUnfollow)
		r.Post("/profile/{username}/unfollow/", s.profileUnfollow)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/signup/", s.signupForm)
		r.Post("/signup/", s.signup)
		r.Get("/login/", s.loginForm)
		r.Post("/login/", s.login)
		r.Get("/logout/", s.logout)
		r.Post("/logout/", s.logout)
	})

	r.Get("/about/author/", s.aboutAuthor)
	r.Get("/about/tech/", s.aboutTech)

	if s.media != nil {
		r.Handle("/media/*", http.StripPrefix("/media/", s.media.Handler()))
	}
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	r.Get("/healthz", s.healthz)

	return r
}
