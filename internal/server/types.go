package server

import "github.com/emurenMRz/mpbody/internal/mpbody"

// PartRequest describes one part of a message to compose.
type PartRequest struct {
	Kind     string `json:"kind"` // "field", "data" or "file"
	Name     string `json:"name,omitempty"`
	Value    string `json:"value,omitempty"`
	Path     string `json:"path,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// ComposeRequest is the body of POST /api/mailboxes/{name}/messages.
type ComposeRequest struct {
	Type     string          `json:"type"`
	Boundary string          `json:"boundary,omitempty"`
	From     string          `json:"from"`
	To       []string        `json:"to,omitempty"`
	Subject  string          `json:"subject,omitempty"`
	Headers  []mpbody.Header `json:"headers,omitempty"`
	Parts    []PartRequest   `json:"parts"`
}

type ComposeResponse struct {
	MessageID string `json:"messageId"`
	Size      int    `json:"size"`
}
