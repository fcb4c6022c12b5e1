package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Stewz00/go-student-portal/internal/apperror"
	"github.com/Stewz00/go-student-portal/internal/middleware"
	"github.com/Stewz00/go-student-portal/internal/model"
	"github.com/Stewz00/go-student-portal/internal/payload"
	"github.com/Stewz00/go-student-portal/internal/service"
	"github.com/Stewz00/go-student-portal/internal/session"
)

type AuthHandler struct {
	authService    *service.AuthService
	captchaService *service.CaptchaService
	cookies        *session.CookieCodec
	logs           *zap.SugaredLogger
}

func NewAuthHandler(
	authService *service.AuthService,
	captchaService *service.CaptchaService,
	cookies *session.CookieCodec,
	logs *zap.SugaredLogger,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		captchaService: captchaService,
		cookies:        cookies,
		logs:           logs,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := payload.DecodeAndValidate(w, r, &req); err != nil {
		WriteError(w, r, h.logs, apperror.NewValidationError(service.MsgRegisterFailed, err))
		return
	}

	user := model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
	}
	if _, err := h.authService.Register(r.Context(), user, req.Password); err != nil {
		WriteError(w, r, h.logs, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Login checks the captcha and credentials and authenticates the session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := payload.DecodeAndValidate(w, r, &req); err != nil {
		WriteError(w, r, h.logs, apperror.NewValidationError("Invalid request body", err))
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	authed, err := h.authService.Login(r.Context(), sess, req.Username, req.Password, req.Captcha)
	if err != nil {
		WriteError(w, r, h.logs, err)
		return
	}

	if err := h.cookies.Write(w, authed.ID); err != nil {
		WriteError(w, r, h.logs, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Logout destroys the session named by the cookie, if any, and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, err := h.cookies.Read(r)
	if err == nil {
		if err := h.authService.Logout(r.Context(), id); err != nil {
			WriteError(w, r, h.logs, err)
			return
		}
	}

	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Captcha issues a new challenge image and remembers its answer in the session.
func (h *AuthHandler) Captcha(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	challenge, err := h.captchaService.Issue(r.Context(), sess)
	if err != nil {
		WriteError(w, r, h.logs, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := challenge.WriteTo(w); err != nil {
		h.logs.Errorw("failed to write captcha image", "error", err)
	}
}
