package inspect

import (
	"errors"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emurenMRz/mpbody/internal/mpbody"
)

func build(t *testing.T, m *mpbody.Message) ([]byte, string) {
	t.Helper()
	body, _, err := m.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return body, m.ContentType()
}

func TestParseFormData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("file contents"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := mpbody.NewWithType(mpbody.FormData)
	if err != nil {
		t.Fatalf("NewWithType: %v", err)
	}
	if err := m.AddField("first", "Jo"); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	if err := m.AddField("multi", "a\nb"); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	m.AddFile("upload", path, "text/plain", "note.txt")

	parts, err := Parse(build(t, m))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[0].Name != "first" || parts[0].Body != "Jo" {
		t.Fatalf("unexpected first part %+v", parts[0])
	}
	if parts[1].Body != "a\r\nb" {
		t.Fatalf("expected normalized line break, got %q", parts[1].Body)
	}
	if parts[2].FileName != "note.txt" || parts[2].Body != "file contents" {
		t.Fatalf("unexpected file part %+v", parts[2])
	}
}

func TestParseNestedAndCharset(t *testing.T) {
	inner, err := mpbody.NewWithType(mpbody.Related)
	if err != nil {
		t.Fatalf("NewWithType: %v", err)
	}
	if err := inner.SetBoundary("inner"); err != nil {
		t.Fatalf("SetBoundary: %v", err)
	}
	inner.AddData("Content-Type: text/plain; charset=iso-8859-1\r\n\r\ncaf\xe9")
	innerBody, innerType := build(t, inner)

	outer, err := mpbody.NewWithType(mpbody.Mixed)
	if err != nil {
		t.Fatalf("NewWithType: %v", err)
	}
	if err := outer.SetBoundary("outer"); err != nil {
		t.Fatalf("SetBoundary: %v", err)
	}
	outer.AddData("Content-Type: text/html\r\n\r\n<p>hi</p>")
	outer.AddData("Content-Type: " + innerType + "\r\n\r\n" + string(innerBody))

	parts, err := Parse(build(t, outer))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("expected 2 leaf parts, got %+v", parts)
	}
	if parts[0].ContentType != "text/html" || parts[0].Body != "<p>hi</p>" {
		t.Fatalf("unexpected html part %+v", parts[0])
	}
	if parts[1].Body != "café" {
		t.Fatalf("expected charset decoding, got %q", parts[1].Body)
	}
}

func TestParseTransferEncoding(t *testing.T) {
	m, err := mpbody.NewWithType(mpbody.Mixed)
	if err != nil {
		t.Fatalf("NewWithType: %v", err)
	}
	m.AddData("Content-Type: text/plain\r\nContent-Transfer-Encoding: base64\r\n\r\naGVsbG8=")
	m.AddData("Content-Type: text/plain\r\nContent-Transfer-Encoding: quoted-printable\r\n\r\na=3Db")

	parts, err := Parse(build(t, m))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parts[0].Body != "hello" || parts[1].Body != "a=b" {
		t.Fatalf("unexpected decoded bodies %q %q", parts[0].Body, parts[1].Body)
	}
}

func TestParseNotMultipart(t *testing.T) {
	if _, err := Parse([]byte("x"), "text/plain"); !errors.Is(err, ErrNotMultipart) {
		t.Fatalf("expected ErrNotMultipart, got %v", err)
	}
}

func TestParseMessageSinglePart(t *testing.T) {
	raw := "From: a@example.com\r\nContent-Type: text/plain\r\n\r\nhello"
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	parts, err := ParseMessage(msg)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if len(parts) != 1 || parts[0].Body != "hello" {
		t.Fatalf("unexpected parts %+v", parts)
	}
}
