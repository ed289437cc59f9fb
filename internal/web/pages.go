package web

import "net/http"

func (s *Server) aboutAuthor(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "about_author.html", "About the author", nil)
}

func (s *Server) aboutTech(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "about_tech.html", "Technologies", nil)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
