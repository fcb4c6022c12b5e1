package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiter(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		requests       int
		wantStatusCode int
	}{
		{
			name:           "within limit",
			requests:       5,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "at limit",
			requests:       10,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "exceed limit",
			requests:       15,
			wantStatusCode: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// a fresh limiter per case keeps counters independent
			limiter := RateLimiter(StrictRateLimit)(handler)

			var last *httptest.ResponseRecorder
			for i := 0; i < tt.requests; i++ {
				req := httptest.NewRequest("GET", "/test", nil)
				req.RemoteAddr = "127.0.0.1:12345"
				last = httptest.NewRecorder()
				limiter.ServeHTTP(last, req)
			}

			if last.Code != tt.wantStatusCode {
				t.Errorf("got status %v, want %v", last.Code, tt.wantStatusCode)
			}
			if last.Code == http.StatusTooManyRequests {
				var body map[string]string
				json.NewDecoder(last.Body).Decode(&body)
				if body["error"] == "" {
					t.Error("expected JSON error body")
				}
			}
		})
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	limiter := RateLimiter(StrictRateLimit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 11; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		limiter.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	w := httptest.NewRecorder()
	limiter.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other IP got status %v, want %v", w.Code, http.StatusOK)
	}
}
