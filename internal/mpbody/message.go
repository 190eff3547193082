package mpbody

import (
	"fmt"
	"net/http"
	"strings"
)

// Message assembles a multipart body from an ordered list of parts.
// A Message is owned by its creator and is not safe for concurrent use.
type Message struct {
	boundary string
	subtype  string
	headers  []Header
	parts    []Part
}

// New returns an empty message with a fresh boundary and no subtype.
func New() *Message {
	return &Message{boundary: NewBoundary()}
}

// NewWithType returns a message already configured with subtype.
func NewWithType(subtype string) (*Message, error) {
	m := New()
	if err := m.SetType(subtype); err != nil {
		return nil, err
	}
	return m, nil
}

// SetType fixes the multipart subtype. Setting the same subtype again is a no-op.
func (m *Message) SetType(subtype string) error {
	if !allowedSubtypes[subtype] {
		return fmt.Errorf("%w: %q", ErrInvalidSubtype, subtype)
	}
	if m.subtype != "" && m.subtype != subtype {
		return fmt.Errorf("%w: already set to %q", ErrInvalidSubtype, m.subtype)
	}
	m.subtype = subtype
	return nil
}

// Type returns the configured subtype, or "" before SetType.
func (m *Message) Type() string {
	return m.subtype
}

// Boundary returns the boundary token.
func (m *Message) Boundary() string {
	return m.boundary
}

// SetBoundary replaces the boundary token.
func (m *Message) SetBoundary(token string) error {
	if token == "" {
		return fmt.Errorf("%w: boundary", ErrEmptyValue)
	}
	m.boundary = token
	return nil
}

// AddHeader appends a header. Content-Type and Content-Length are overwritten by Build.
func (m *Message) AddHeader(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: header name", ErrEmptyValue)
	}
	m.headers = append(m.headers, Header{Name: name, Value: value})
	return nil
}

// AddField appends a form field. Only valid for form-data messages.
func (m *Message) AddField(name, value string) error {
	if m.subtype != FormData {
		return fmt.Errorf("%w: field %q in %q", ErrUnsupportedInSubtype, name, m.subtype)
	}
	m.parts = append(m.parts, Part{Kind: KindField, Name: name, Value: value})
	return nil
}

// AddData appends a raw part. The caller supplies any part headers inside value.
func (m *Message) AddData(value string) {
	m.parts = append(m.parts, Part{Kind: KindData, Value: value})
}

// AddFile appends a file attachment. The path is read when the body is built.
func (m *Message) AddFile(name, path, mimeType, remoteFilename string) {
	m.parts = append(m.parts, Part{
		Kind:           KindFile,
		Name:           name,
		Path:           path,
		MIMEType:       mimeType,
		RemoteFilename: remoteFilename,
	})
}

// Parts returns a copy of the parts in insertion order.
func (m *Message) Parts() []Part {
	return append([]Part(nil), m.parts...)
}

// Headers returns a copy of the current headers.
func (m *Message) Headers() []Header {
	return append([]Header(nil), m.headers...)
}

// HTTPHeader converts the current headers for use on an outbound request.
func (m *Message) HTTPHeader() http.Header {
	h := make(http.Header, len(m.headers))
	for _, hdr := range m.headers {
		h.Add(hdr.Name, hdr.Value)
	}
	return h
}

// setHeader overwrites the first header matching name (case-insensitive)
// and drops any later duplicates, or appends a new one.
func (m *Message) setHeader(name, value string) {
	found := false
	kept := m.headers[:0]
	for _, h := range m.headers {
		if strings.EqualFold(h.Name, name) {
			if found {
				continue
			}
			h = Header{Name: name, Value: value}
			found = true
		}
		kept = append(kept, h)
	}
	m.headers = kept
	if !found {
		m.headers = append(m.headers, Header{Name: name, Value: value})
	}
}
