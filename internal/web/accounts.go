package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aimerkz/yatube/internal/auth"
	"github.com/aimerkz/yatube/internal/middleware"
	"github.com/aimerkz/yatube/internal/service"
)

type signupView struct {
	Form   service.SignupInput
	Errors map[string]string
}

type loginView struct {
	Next     string
	Username string
	Error    string
}

func (s *Server) signupForm(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "signup.html", "Sign up", signupView{})
}

// signup creates the account, logs the new user in and sends them home.
func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	in := service.SignupInput{
		Username:  r.PostFormValue("username"),
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Email:     r.PostFormValue("email"),
		Password1: r.PostFormValue("password1"),
		Password2: r.PostFormValue("password2"),
	}

	_, token, err := s.auth.Signup(r.Context(), in)
	if fields := service.FieldErrors(err); fields != nil {
		in.Password1, in.Password2 = "", ""
		s.page(w, r, http.StatusOK, "signup.html", "Sign up", signupView{Form: in, Errors: fields})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	auth.SetTokenCookie(w, token, s.auth.TokenTTL(), s.secure)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "login.html", "Log in", loginView{Next: r.URL.Query().Get("next")})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	next := r.PostFormValue("next")

	_, token, err := s.auth.Login(r.Context(), username, r.PostFormValue("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.page(w, r, http.StatusOK, "login.html", "Log in", loginView{
			Next:     next,
			Username: username,
			Error:    "Please enter a correct username and password. Note that both fields may be case-sensitive.",
		})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	auth.SetTokenCookie(w, token, s.auth.TokenTTL(), s.secure)
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

// logout clears the session cookie and confirms on a page of its own.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w, s.secure)
	// The request still carries the old cookie.
	r = r.WithContext(middleware.WithUser(r.Context(), nil))
	s.page(w, r, http.StatusOK, "logged_out.html", "Logged out", nil)
}

// safeNext accepts only local absolute paths as a post-login target.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
