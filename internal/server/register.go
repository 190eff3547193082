package server

import (
	"net/http"
)

// Server serves the mailboxes stored under a base directory.
type Server struct {
	basePath string
	editMode bool
}

// New returns a read-only server rooted at path.
func New(path string) *Server {
	return &Server{basePath: path}
}

// SetEditMode enables or disables composing new messages.
func (s *Server) SetEditMode(v bool) {
	s.editMode = v
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/mailboxes/", s.handleMailboxRoutes)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	})
	return mux
}

// ListenAndServe is a thin wrapper to allow main to call server.ListenAndServe
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}
