package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Stewz00/go-student-portal/internal/middleware"
	"github.com/Stewz00/go-student-portal/internal/model"
	"github.com/Stewz00/go-student-portal/internal/service"
	"github.com/Stewz00/go-student-portal/internal/session"
	"github.com/Stewz00/go-student-portal/internal/test"
)

type profileFixture struct {
	handler *ProfileHandler
	repo    *test.MockUserRepository
	blobs   *test.MockBlobStore
	sess    *model.Session
	user    *model.User
}

func newProfileFixture(t *testing.T, maxUpload int64) *profileFixture {
	t.Helper()
	ctx := context.Background()

	repo := test.NewMockUserRepository()
	blobs := test.NewMockBlobStore()
	sessions := session.NewMemoryStore(time.Hour)

	user, err := repo.CreateUser(ctx, &model.User{
		FirstName: "Ana", LastName: "Lee", Username: "ana", Email: "ana@x.com",
		Password: "hash", Grades: model.DefaultGrades(),
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if _, err := repo.CreateUser(ctx, &model.User{Username: "bob", Email: "bob@x.com"}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	sess, _ := sessions.Create(ctx)
	sess.User = &model.SessionUser{ID: user.ID, Username: user.Username}
	sessions.Save(ctx, sess)

	svc := service.NewProfileService(repo, sessions, blobs)
	return &profileFixture{
		handler: NewProfileHandler(svc, maxUpload, zap.NewNop().Sugar()),
		repo:    repo,
		blobs:   blobs,
		sess:    sess,
		user:    user,
	}
}

func withSession(req *http.Request, sess *model.Session) *http.Request {
	return req.WithContext(middleware.WithSession(req.Context(), sess))
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	for field, content := range files {
		part, err := mw.CreateFormFile(field, field+".pdf")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		part.Write([]byte(content))
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/update-profile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestProfileHandler_UserData(t *testing.T) {
	f := newProfileFixture(t, 1<<20)

	w := httptest.NewRecorder()
	f.handler.UserData(w, withSession(httptest.NewRequest("GET", "/api/user-data", nil), f.sess))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %v, want %v", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{`"username":"ana"`, `"email":"ana@x.com"`, `"subject":"Operating Systems"`, `"grade":"B+"`} {
		if !strings.Contains(body, want) {
			t.Errorf("response %s missing %s", body, want)
		}
	}
	if strings.Contains(body, "hash") || strings.Contains(body, "password") {
		t.Errorf("response leaks password: %s", body)
	}

	w = httptest.NewRecorder()
	f.handler.UserData(w, withSession(httptest.NewRequest("GET", "/api/user-data", nil), &model.Session{ID: "anon"}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got status %v, want %v", w.Code, http.StatusUnauthorized)
	}
}

func TestProfileHandler_UpdateProfile(t *testing.T) {
	tests := []struct {
		name           string
		fields         map[string]string
		files          map[string]string
		wantStatusCode int
		wantUsername   string
		wantEmail      string
		wantResume     bool
	}{
		{
			name:           "email only",
			fields:         map[string]string{"username": "", "email": "ana@new.com"},
			wantStatusCode: http.StatusFound,
			wantUsername:   "ana",
			wantEmail:      "ana@new.com",
		},
		{
			name:           "resume upload",
			files:          map[string]string{"resume": "%PDF-1.4"},
			wantStatusCode: http.StatusFound,
			wantUsername:   "ana",
			wantEmail:      "ana@x.com",
			wantResume:     true,
		},
		{
			name:           "username taken",
			fields:         map[string]string{"username": "bob"},
			wantStatusCode: http.StatusConflict,
			wantUsername:   "ana",
			wantEmail:      "ana@x.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProfileFixture(t, 1<<20)

			w := httptest.NewRecorder()
			f.handler.UpdateProfile(w, withSession(multipartRequest(t, tt.fields, tt.files), f.sess))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %v, want %v: %s", w.Code, tt.wantStatusCode, w.Body.String())
			}
			if w.Code == http.StatusFound && w.Header().Get("Location") != DashboardPath {
				t.Errorf("got redirect %q, want %q", w.Header().Get("Location"), DashboardPath)
			}
			if w.Code == http.StatusConflict && !strings.Contains(w.Body.String(), service.MsgProfileConflict) {
				t.Errorf("got body %s, want conflict message", w.Body.String())
			}

			got, _ := f.repo.GetUserByID(context.Background(), f.user.ID)
			if got.Username != tt.wantUsername || got.Email != tt.wantEmail {
				t.Errorf("got %s/%s, want %s/%s", got.Username, got.Email, tt.wantUsername, tt.wantEmail)
			}
			if tt.wantResume != (got.Resume != "") {
				t.Errorf("got resume %q, want set=%v", got.Resume, tt.wantResume)
			}
			if tt.wantResume && !strings.HasPrefix(got.Resume, "/uploads/"+f.user.ID+"-resume-") {
				t.Errorf("unexpected resume path %q", got.Resume)
			}
		})
	}
}

func TestProfileHandler_UpdateProfileURLEncoded(t *testing.T) {
	f := newProfileFixture(t, 1<<20)

	form := url.Values{"email": {"ana@form.com"}}
	req := httptest.NewRequest("POST", "/api/update-profile", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.handler.UpdateProfile(w, withSession(req, f.sess))

	if w.Code != http.StatusFound {
		t.Fatalf("got status %v, want %v", w.Code, http.StatusFound)
	}
	got, _ := f.repo.GetUserByID(context.Background(), f.user.ID)
	if got.Email != "ana@form.com" {
		t.Errorf("got email %q, want ana@form.com", got.Email)
	}
	if len(f.blobs.Keys()) != 0 {
		t.Errorf("urlencoded update stored files: %v", f.blobs.Keys())
	}
}

func TestProfileHandler_UploadTooLarge(t *testing.T) {
	f := newProfileFixture(t, 512)

	w := httptest.NewRecorder()
	req := multipartRequest(t, nil, map[string]string{"resume": strings.Repeat("x", 4096)})
	f.handler.UpdateProfile(w, withSession(req, f.sess))

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %v, want %v", w.Code, http.StatusBadRequest)
	}
	if len(f.blobs.Keys()) != 0 {
		t.Error("oversized upload was stored")
	}
}
