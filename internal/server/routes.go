package server

import (
	"log"
	"net/http"
	"strings"
)

func (s *Server) handleMailboxRoutes(w http.ResponseWriter, r *http.Request) {
	log.Println(r.Method + " " + r.URL.Path)

	// Guard POST methods for edit mode
	if r.Method == http.MethodPost && !s.editMode {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/mailboxes/"), "/")
	segmentCount := len(parts)

	if segmentCount == 1 && parts[0] == "" {
		s.mailboxesHandler(w, r)
		return
	}

	if segmentCount >= 2 && parts[1] == "messages" {
		mboxName := parts[0]
		switch {
		case segmentCount == 2 && r.Method == http.MethodGet:
			s.listMessagesHandler(w, r, mboxName)
		case segmentCount == 2 && r.Method == http.MethodPost:
			s.composeHandler(w, r, mboxName)
		case segmentCount == 3 && r.Method == http.MethodGet:
			s.messagePartsHandler(w, r, mboxName, parts[2])
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	http.NotFound(w, r)
}
