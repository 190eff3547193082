package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/emurenMRz/mpbody/internal/mpbody"
)

func TestPostFormData(t *testing.T) {
	type received struct {
		name   string
		city   string
		length int64
		trace  string
	}
	got := make(chan received, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		got <- received{
			name:   r.FormValue("name"),
			city:   r.FormValue("city"),
			length: r.ContentLength,
			trace:  r.Header.Get("X-Trace"),
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	m, err := mpbody.NewWithType(mpbody.FormData)
	if err != nil {
		t.Fatalf("NewWithType: %v", err)
	}
	if err := m.AddHeader("X-Trace", "t-1"); err != nil {
		t.Fatalf("AddHeader: %v", err)
	}
	if err := m.AddField("name", "Jo"); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	if err := m.AddField("city", "Zürich"); err != nil {
		t.Fatalf("AddField: %v", err)
	}

	resp, err := Post(context.Background(), srv.Client(), srv.URL, m)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	r := <-got
	if r.name != "Jo" || r.city != "Zürich" {
		t.Fatalf("unexpected form values %+v", r)
	}
	if r.trace != "t-1" {
		t.Fatalf("expected custom header, got %q", r.trace)
	}
	want, _ := strconv.ParseInt(m.HTTPHeader().Get("Content-Length"), 10, 64)
	if r.length != want {
		t.Fatalf("Content-Length %d, want %d", r.length, want)
	}
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestPostBuildError(t *testing.T) {
	called := false
	client := doerFunc(func(*http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("unexpected")
	})
	_, err := Post(context.Background(), client, "http://example.invalid", mpbody.New())
	if !errors.Is(err, mpbody.ErrInvalidSubtype) {
		t.Fatalf("expected ErrInvalidSubtype, got %v", err)
	}
	if called {
		t.Fatalf("client should not be called when the build fails")
	}
}

func TestNewRequestBody(t *testing.T) {
	m, err := mpbody.NewWithType(mpbody.Related)
	if err != nil {
		t.Fatalf("NewWithType: %v", err)
	}
	if err := m.SetBoundary("rel"); err != nil {
		t.Fatalf("SetBoundary: %v", err)
	}
	m.AddData("x")

	req, err := NewRequest(context.Background(), "http://example.test/upload", m)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(body) != "--rel\r\nx\r\n--rel--" {
		t.Fatalf("unexpected body %q", body)
	}
	if req.Header.Get("Content-Type") != "multipart/related; boundary=rel" {
		t.Fatalf("unexpected Content-Type %q", req.Header.Get("Content-Type"))
	}
}
