package mpbody

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// ContentType returns the Content-Type value Build will set: the subtype
// prefixed with "multipart/", followed by the boundary parameter.
func (m *Message) ContentType() string {
	return "multipart/" + m.subtype + "; boundary=" + m.boundary
}

// Build renders every part in insertion order and recomputes the
// Content-Type and Content-Length headers. On error no body is returned
// and the message is left unchanged.
func (m *Message) Build() ([]byte, []Header, error) {
	if m.subtype == "" {
		return nil, nil, fmt.Errorf("%w: subtype not set", ErrInvalidSubtype)
	}

	var body bytes.Buffer
	for i, part := range m.parts {
		if i > 0 {
			body.WriteString(CRLF)
		}
		body.WriteString("--" + m.boundary + CRLF)

		switch part.Kind {
		case KindField:
			body.WriteString(Normalize(fieldHeader(part.Name)+CRLF+part.Value, CRLF))
		case KindData:
			body.WriteString(part.Value)
		case KindFile:
			data, err := os.ReadFile(part.Path)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s: %v", ErrFileNotReadable, part.Path, err)
			}
			body.WriteString(Normalize(fileHeader(part)+CRLF, CRLF))
			// base64 without line wrapping
			body.WriteString(base64.StdEncoding.EncodeToString(data))
		default:
			return nil, nil, fmt.Errorf("unknown part kind %d", part.Kind)
		}
	}
	body.WriteString(CRLF + "--" + m.boundary + "--")

	m.setHeader("Content-Type", m.ContentType())
	m.setHeader("Content-Length", strconv.Itoa(body.Len()))

	return body.Bytes(), m.Headers(), nil
}

// Quotes and backslashes in names are escaped. Line breaks are not: they
// are rewritten by Normalize and split the header, so callers must not
// pass them in names or filenames.
func fieldHeader(name string) string {
	return `content-disposition: form-data; name="` + escapeQuotes(name) + `"` + CRLF
}

func fileHeader(p Part) string {
	return `content-disposition: form-data; name="` + escapeQuotes(p.Name) + `"; filename="` + escapeQuotes(p.RemoteFilename) + `"` + CRLF +
		"content-type: " + p.MIMEType + CRLF
}
