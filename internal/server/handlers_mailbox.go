package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"path/filepath"
	"strconv"
	"time"

	"github.com/emurenMRz/mpbody/internal/inspect"
	"github.com/emurenMRz/mpbody/internal/mailbox"
	"github.com/emurenMRz/mpbody/internal/mpbody"
)

const maxComposeBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func (s *Server) mailboxesHandler(w http.ResponseWriter, _ *http.Request) {
	mailboxes, err := mailbox.List(s.basePath)
	if err != nil {
		http.Error(w, "Failed to read directory", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, mailboxes)
}

func (s *Server) listMessagesHandler(w http.ResponseWriter, r *http.Request, mailboxName string) {
	summaries, err := mailbox.Messages(s.basePath, mailboxName)
	if errors.Is(err, mailbox.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("Error reading mailbox %s: %v", mailboxName, err)
		http.Error(w, "Error reading mbox", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) messagePartsHandler(w http.ResponseWriter, r *http.Request, mailboxName string, idStr string) {
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 0 {
		http.Error(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	msg, err := mailbox.Open(s.basePath, mailboxName, id)
	if errors.Is(err, mailbox.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("Error reading message %d in %s: %v", id, mailboxName, err)
		http.Error(w, "Error reading mbox", http.StatusInternalServerError)
		return
	}

	parts, err := inspect.ParseMessage(msg)
	if err != nil {
		log.Printf("Error parsing message %d in %s: %v", id, mailboxName, err)
		http.Error(w, "Error parsing message", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

func (s *Server) composeHandler(w http.ResponseWriter, r *http.Request, mailboxName string) {
	var req ComposeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxComposeBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	m, err := s.compose(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	env := mailbox.Envelope{From: req.From, To: req.To, Subject: req.Subject, Date: time.Now()}
	messageID, err := mailbox.Append(s.basePath, mailboxName, env, m)
	switch {
	case errors.Is(err, mailbox.ErrInvalidHeader):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, mpbody.ErrFileNotReadable):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Printf("Error appending to %s: %v", mailboxName, err)
		http.Error(w, "Error updating mbox", http.StatusInternalServerError)
		return
	}

	size, _ := strconv.Atoi(m.HTTPHeader().Get("Content-Length"))
	log.Printf("Appended %s to %s (%d bytes)", messageID, mailboxName, size)
	writeJSON(w, http.StatusCreated, ComposeResponse{MessageID: messageID, Size: size})
}

// compose turns a request into a message. File paths are resolved inside
// the base directory.
func (s *Server) compose(req ComposeRequest) (*mpbody.Message, error) {
	if _, err := mail.ParseAddress(req.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", req.From, err)
	}
	m, err := mpbody.NewWithType(req.Type)
	if err != nil {
		return nil, err
	}
	if req.Boundary != "" {
		if err := m.SetBoundary(req.Boundary); err != nil {
			return nil, err
		}
	}
	for _, h := range req.Headers {
		if err := m.AddHeader(h.Name, h.Value); err != nil {
			return nil, err
		}
	}

	for i, p := range req.Parts {
		switch p.Kind {
		case "field":
			if err := m.AddField(p.Name, p.Value); err != nil {
				return nil, err
			}
		case "data":
			m.AddData(p.Value)
		case "file":
			if !filepath.IsLocal(p.Path) {
				return nil, fmt.Errorf("part %d: path must be relative to the mailbox directory", i)
			}
			filename := p.Filename
			if filename == "" {
				filename = filepath.Base(p.Path)
			}
			m.AddFile(p.Name, filepath.Join(s.basePath, p.Path), p.MIMEType, filename)
		default:
			return nil, fmt.Errorf("part %d: unknown kind %q", i, p.Kind)
		}
	}
	return m, nil
}
