package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Stewz00/go-student-portal/internal/captcha"
	"github.com/Stewz00/go-student-portal/internal/handler"
	"github.com/Stewz00/go-student-portal/internal/service"
	"github.com/Stewz00/go-student-portal/internal/session"
	"github.com/Stewz00/go-student-portal/internal/test"
)

func newTestRouter(t *testing.T, deps Deps) http.Handler {
	t.Helper()
	logs := zap.NewNop().Sugar()
	users := test.NewMockUserRepository()
	sessions := session.NewMemoryStore(time.Hour)
	cookies := session.NewCookieCodec("secret", false, time.Hour)

	auth, err := service.NewAuthService(users, sessions, bcrypt.MinCost)
	require.NoError(t, err)

	deps.Logger = logs
	deps.Sessions = sessions
	deps.Cookies = cookies
	deps.Auth = handler.NewAuthHandler(auth, service.NewCaptchaService(sessions, captcha.NewGenerator(4)), cookies, logs)
	deps.Profile = handler.NewProfileHandler(service.NewProfileService(users, sessions, test.NewMockBlobStore()), 1<<20, logs)
	deps.Pages = handler.NewPageHandler(fstest.MapFS{"login.html": {Data: []byte("login")}})
	deps.Static = fstest.MapFS{"css/style.css": {Data: []byte("body{}")}}
	return NewRouter(deps)
}

func TestRouter_CORS(t *testing.T) {
	r := newTestRouter(t, Deps{CORSAllowedOrigins: []string{"http://portal.test"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://portal.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://portal.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_AuthRateLimit(t *testing.T) {
	r := newTestRouter(t, Deps{AuthRateLimit: 2})

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/register", nil)
		req.RemoteAddr = "10.1.1.1:1000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// login shares the budget with register
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "10.1.1.1:1000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRouter_StaticAndHealth(t *testing.T) {
	r := newTestRouter(t, Deps{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/css/style.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "OK", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/x", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "uploads are not served without a local dir")
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv := New("0", http.NotFoundHandler(), zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
