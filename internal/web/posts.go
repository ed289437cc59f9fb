package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aimerkz/yatube/internal/cache"
	"github.com/aimerkz/yatube/internal/media"
	"github.com/aimerkz/yatube/internal/middleware"
	"github.com/aimerkz/yatube/internal/models"
	"github.com/aimerkz/yatube/internal/paging"
	"github.com/aimerkz/yatube/internal/service"
)

// feedView feeds the "feed" include.
type feedView struct {
	Page    paging.Page[*models.Post]
	BaseURL string
}

type postDetailView struct {
	Detail        *service.PostDetail
	CanEdit       bool
	Notice        string
	CommentText   string
	CommentErrors map[string]string
}

type postFormView struct {
	IsEdit bool
	PostID int64
	Text   string
	Group  string
	Groups []*models.Group
	Errors map[string]string
}

// index serves the global feed. The feed section is cached per page
// number, so new posts show up only once the entry expires.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	number := paging.ParsePage(r)

	fragment, err := cache.Remember(r.Context(), s.cache, s.logger, cache.IndexPageKey(number), func(ctx context.Context) ([]byte, error) {
		page, err := s.feeds.Global().Page(ctx, number)
		if err != nil {
			return nil, err
		}
		return s.renderer.Fragment("feed", feedView{Page: page, BaseURL: "/"})
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.page(w, r, http.StatusOK, "index.html", "Latest updates", struct {
		Feed template.HTML
	}{template.HTML(fragment)})
}

// groupPosts lists the posts of one group. An unknown slug renders an
// empty list rather than a 404.
func (s *Server) groupPosts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	group, err := s.groups.GetGroup(r.Context(), slug)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}

	page, err := s.feeds.Group(slug).Page(r.Context(), paging.ParsePage(r))
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	title := slug
	if group != nil {
		title = group.Title
	}
	s.page(w, r, http.StatusOK, "group_list.html", title, struct {
		Group *models.Group
		Slug  string
		Feed  feedView
	}{group, slug, feedView{Page: page, BaseURL: r.URL.Path}})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewer := middleware.CurrentUser(r.Context())

	profile, err := s.follows.Profile(r.Context(), viewer, username)
	if errors.Is(err, service.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	page, err := s.feeds.Author(username).Page(r.Context(), paging.ParsePage(r))
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.page(w, r, http.StatusOK, "profile.html", "Profile of "+profile.Author.FullName(), struct {
		Profile *service.Profile
		Feed    feedView
	}{profile, feedView{Page: page, BaseURL: r.URL.Path}})
}

func (s *Server) postDetail(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDParam(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	s.renderDetail(w, r, postID, postDetailView{})
}

// renderDetail loads the post and renders its page with v merged in.
func (s *Server) renderDetail(w http.ResponseWriter, r *http.Request, postID int64, v postDetailView) {
	detail, err := s.posts.GetPost(r.Context(), postID)
	if errors.Is(err, service.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	v.Detail = detail
	if user := middleware.CurrentUser(r.Context()); user != nil {
		v.CanEdit = detail.Post.IsAuthor(user.ID)
	}

	s.page(w, r, http.StatusOK, "post_detail.html", truncate(detail.Post.Text, 30), v)
}

// addComment stores a comment. A guest gets the detail page back and
// nothing is saved.
func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDParam(r)
	if !ok {
		s.notFound(w, r)
		return
	}

	text := r.PostFormValue("text")
	_, err := s.posts.AddComment(r.Context(), middleware.CurrentUser(r.Context()), postID, text)
	switch {
	case errors.Is(err, service.ErrNotFound):
		s.notFound(w, r)
	case errors.Is(err, service.ErrLoginRequired):
		s.renderDetail(w, r, postID, postDetailView{Notice: "Log in to leave a comment."})
	case service.FieldErrors(err) != nil:
		s.renderDetail(w, r, postID, postDetailView{CommentText: text, CommentErrors: service.FieldErrors(err)})
	case err != nil:
		s.serverError(w, r, err)
	default:
		http.Redirect(w, r, postURL(postID), http.StatusFound)
	}
}

func (s *Server) postCreateForm(w http.ResponseWriter, r *http.Request) {
	s.renderPostForm(w, r, http.StatusOK, postFormView{})
}

func (s *Server) postCreate(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	in, form, ok := s.readPostForm(w, r)
	if !ok {
		s.renderPostForm(w, r, http.StatusOK, form)
		return
	}

	_, err := s.posts.CreatePost(r.Context(), user, in)
	if fields := service.FieldErrors(err); fields != nil {
		s.discardImage(in.Image)
		form.Errors = fields
		s.renderPostForm(w, r, http.StatusOK, form)
		return
	}
	if err != nil {
		s.discardImage(in.Image)
		s.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
}

func (s *Server) postEditForm(w http.ResponseWriter, r *http.Request) {
	post, ok := s.editablePost(w, r)
	if !ok {
		return
	}

	form := postFormView{IsEdit: true, PostID: post.ID, Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatInt(*post.GroupID, 10)
	}
	s.renderPostForm(w, r, http.StatusOK, form)
}

func (s *Server) postEdit(w http.ResponseWriter, r *http.Request) {
	post, ok := s.editablePost(w, r)
	if !ok {
		return
	}

	in, form, ok := s.readPostForm(w, r)
	form.IsEdit = true
	form.PostID = post.ID
	if !ok {
		s.renderPostForm(w, r, http.StatusOK, form)
		return
	}

	_, err := s.posts.EditPost(r.Context(), middleware.CurrentUser(r.Context()), post.ID, in)
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		s.discardImage(in.Image)
		s.renderDetail(w, r, post.ID, postDetailView{})
	case service.FieldErrors(err) != nil:
		s.discardImage(in.Image)
		form.Errors = service.FieldErrors(err)
		s.renderPostForm(w, r, http.StatusOK, form)
	case err != nil:
		s.discardImage(in.Image)
		s.serverError(w, r, err)
	default:
		http.Redirect(w, r, postURL(post.ID), http.StatusFound)
	}
}

// editablePost loads the post named in the URL. When the caller is not
// its author the read-only detail page is rendered instead and ok is false.
func (s *Server) editablePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	postID, ok := postIDParam(r)
	if !ok {
		s.notFound(w, r)
		return nil, false
	}

	detail, err := s.posts.GetPost(r.Context(), postID)
	if errors.Is(err, service.ErrNotFound) {
		s.notFound(w, r)
		return nil, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil, false
	}

	if !detail.Post.IsAuthor(middleware.GetUserID(r.Context())) {
		s.renderDetail(w, r, postID, postDetailView{})
		return nil, false
	}
	return detail.Post, true
}

// readPostForm parses the multipart post form and stores an attached
// image. ok is false when the upload itself was rejected.
func (s *Server) readPostForm(w http.ResponseWriter, r *http.Request) (service.PostInput, postFormView, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(media.MaxImageSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return service.PostInput{}, postFormView{Errors: map[string]string{"image": media.ErrTooLarge.Error()}}, false
	}

	in := service.PostInput{
		Text:  r.FormValue("text"),
		Group: r.FormValue("group"),
	}
	form := postFormView{Text: in.Text, Group: in.Group}

	file, _, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		form.Errors = map[string]string{"image": err.Error()}
		return in, form, false
	default:
		defer file.Close()
		name, err := s.media.SaveImage(file)
		if err != nil {
			form.Errors = map[string]string{"image": err.Error()}
			return in, form, false
		}
		in.Image = name
	}
	return in, form, true
}

func (s *Server) discardImage(name string) {
	if name == "" {
		return
	}
	if err := s.media.Remove(name); err != nil {
		s.logger.Warn("Failed to remove unused upload", "image", name, "error", err)
	}
}

func (s *Server) renderPostForm(w http.ResponseWriter, r *http.Request, status int, form postFormView) {
	groups, err := s.groups.ListGroups(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	form.Groups = groups

	title := "New post"
	if form.IsEdit {
		title = "Edit post"
	}
	s.page(w, r, status, "create_post.html", title, form)
}

func postIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func postURL(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

// truncate shortens s to n runes for page titles.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
