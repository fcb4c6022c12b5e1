package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestPageHandler(t *testing.T) {
	pages := fstest.MapFS{
		"login.html":     {Data: []byte("<h1>login</h1>")},
		"register.html":  {Data: []byte("<h1>register</h1>")},
		"dashboard.html": {Data: []byte("<h1>dashboard</h1>")},
	}
	h := NewPageHandler(pages)

	tests := []struct {
		name     string
		serve    http.HandlerFunc
		wantBody string
	}{
		{"login", h.Login, "login"},
		{"register", h.Register, "register"},
		{"dashboard", h.Dashboard, "dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.serve(w, httptest.NewRequest("GET", "/"+tt.name, nil))

			if w.Code != http.StatusOK {
				t.Errorf("got status %v, want %v", w.Code, http.StatusOK)
			}
			if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
				t.Errorf("got content type %q", w.Header().Get("Content-Type"))
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("got body %q", w.Body.String())
			}
		})
	}

	w := httptest.NewRecorder()
	h.Root(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != LoginPath {
		t.Errorf("root: got %v %q, want redirect to %s", w.Code, w.Header().Get("Location"), LoginPath)
	}
}
