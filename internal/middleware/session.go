package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Stewz00/go-student-portal/internal/apperror"
	"github.com/Stewz00/go-student-portal/internal/interfaces"
	"github.com/Stewz00/go-student-portal/internal/model"
	"github.com/Stewz00/go-student-portal/internal/repository"
	"github.com/Stewz00/go-student-portal/internal/session"
)

type sessionCtxKey struct{}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess *model.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sess)
}

// SessionFromContext returns the session loaded by the Session middleware, or nil.
func SessionFromContext(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(sessionCtxKey{}).(*model.Session)
	return sess
}

// Session loads the session named by the request cookie. A missing, forged
// or expired cookie starts a new session and sets a fresh cookie.
func Session(store interfaces.SessionStore, codec *session.CookieCodec, logs *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var sess *model.Session
			if id, err := codec.Read(r); err == nil {
				sess, err = store.Get(ctx, id)
				if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
					logs.Errorw("failed to load session", "error", err, "path", r.URL.Path)
					writeError(w, apperror.NewInternalError("Internal server error", err))
					return
				}
			}

			if sess == nil {
				var err error
				sess, err = store.Create(ctx)
				if err != nil {
					logs.Errorw("failed to create session", "error", err, "path", r.URL.Path)
					writeError(w, apperror.NewInternalError("Internal server error", err))
					return
				}
				if err := codec.Write(w, sess.ID); err != nil {
					logs.Errorw("failed to write session cookie", "error", err)
					writeError(w, apperror.NewInternalError("Internal server error", err))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}
