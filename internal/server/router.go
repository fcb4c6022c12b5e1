// Package server wires handlers and middleware into the HTTP router.
package server

import (
	"io/fs"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Stewz00/go-student-portal/internal/handler"
	"github.com/Stewz00/go-student-portal/internal/interfaces"
	"github.com/Stewz00/go-student-portal/internal/middleware"
	"github.com/Stewz00/go-student-portal/internal/session"
)

type Deps struct {
	Logger   *zap.SugaredLogger
	Sessions interfaces.SessionStore
	Cookies  *session.CookieCodec

	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Pages   *handler.PageHandler
	Static  fs.FS

	// UploadDir is served under /uploads/ when set.
	UploadDir string

	RateLimit          int
	AuthRateLimit      int
	CORSAllowedOrigins []string
}

func NewRouter(d Deps) http.Handler {
	if d.RateLimit == 0 {
		d.RateLimit = middleware.DefaultRateLimit
	}
	if d.AuthRateLimit == 0 {
		d.AuthRateLimit = middleware.StrictRateLimit
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RateLimiter(d.RateLimit))

	if len(d.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(d.Static)))
	if d.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", uploadServer(d.UploadDir)))
	}

	r.Get("/", d.Pages.Root)
	r.Get(handler.LoginPath, d.Pages.Login)
	r.Get("/register", d.Pages.Register)

	strict := middleware.RateLimiter(d.AuthRateLimit)
	r.With(strict).Post("/api/register", d.Auth.Register)
	r.Get("/api/logout", d.Auth.Logout)

	// routes that read or write session state
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(d.Sessions, d.Cookies, d.Logger))

		r.Get("/captcha", d.Auth.Captcha)
		r.With(strict).Post("/api/login", d.Auth.Login)
		r.With(middleware.RequireAuthPage(handler.LoginPath)).Get(handler.DashboardPath, d.Pages.Dashboard)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/api/user-data", d.Profile.UserData)
			r.Post("/api/update-profile", d.Profile.UpdateProfile)
		})
	})

	return r
}

// uploadServer serves uploaded files without directory listings. Uploaded
// content is never rendered as active content in the portal's origin.
func uploadServer(dir string) http.Handler {
	files := http.FileServerFS(filesOnly{os.DirFS(dir)})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "sandbox")
		files.ServeHTTP(w, r)
	})
}

type filesOnly struct {
	fs.FS
}

func (f filesOnly) Open(name string) (fs.File, error) {
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
