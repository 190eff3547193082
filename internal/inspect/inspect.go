package inspect

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// ErrNotMultipart is returned when the content type is not multipart/*.
var ErrNotMultipart = errors.New("not a multipart content type")

// Part is a decoded leaf entity of a multipart body.
type Part struct {
	Name        string `json:"name,omitempty"`
	FileName    string `json:"filename,omitempty"`
	ContentType string `json:"contentType"`
	Body        string `json:"body"`
	Size        int    `json:"size"`
}

type header interface{ Get(string) string }

// Parse splits a multipart body into its leaf parts, descending into nested
// multiparts and undoing transfer and charset encodings.
func Parse(body []byte, contentType string) ([]Part, error) {
	ctype, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("parse content type: %w", err)
	}
	if !strings.HasPrefix(ctype, "multipart/") {
		return nil, fmt.Errorf("%w: %s", ErrNotMultipart, ctype)
	}
	var parts []Part
	if err := walk(&parts, bytes.NewReader(body), params["boundary"]); err != nil {
		return nil, err
	}
	return parts, nil
}

// ParseMessage decodes the body of a mail message. A non-multipart message
// yields a single part.
func ParseMessage(msg *mail.Message) ([]Part, error) {
	var parts []Part
	if err := entity(&parts, msg.Header, msg.Body); err != nil {
		return nil, err
	}
	return parts, nil
}

func walk(parts *[]Part, body io.Reader, boundary string) error {
	if boundary == "" {
		return errors.New("multipart boundary missing")
	}
	mr := multipart.NewReader(body, boundary)
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read multipart body: %w", err)
		}
		if err := entity(parts, p.Header, p); err != nil {
			return err
		}
	}
}

func entity(parts *[]Part, h header, body io.Reader) error {
	ctype, params, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		ctype = "text/plain"
		params = map[string]string{}
	}

	if strings.HasPrefix(ctype, "multipart/") {
		return walk(parts, body, params["boundary"])
	}

	part := Part{ContentType: ctype}
	if _, dispParams, err := mime.ParseMediaType(h.Get("Content-Disposition")); err == nil {
		part.Name = dispParams["name"]
		part.FileName = dispParams["filename"]
	}

	reader := body
	cte := strings.ToLower(strings.TrimSpace(h.Get("Content-Transfer-Encoding")))
	switch cte {
	case "base64":
		reader = base64.NewDecoder(base64.StdEncoding, body)
	case "quoted-printable":
		reader = quotedprintable.NewReader(body)
	default:
		// 7bit, 8bit, binary -> no wrapper
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read part %q: %w", part.Name, err)
	}

	// file parts are written as bare base64 without a transfer encoding header
	if cte == "" && part.FileName != "" {
		if decoded, err := base64.StdEncoding.DecodeString(string(data)); err == nil {
			data = decoded
		}
	}

	if strings.HasPrefix(ctype, "text/") {
		data = decodeCharset(data, params["charset"])
	}

	part.Body = string(data)
	part.Size = len(data)
	*parts = append(*parts, part)
	return nil
}

func decodeCharset(data []byte, charset string) []byte {
	if charset == "" || strings.EqualFold(charset, "utf-8") {
		return data
	}
	enc, err := ianaindex.IANA.Encoding(strings.ToLower(charset))
	if err != nil || enc == nil {
		return data
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return decoded
}
