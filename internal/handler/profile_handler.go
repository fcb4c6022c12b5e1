package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/Stewz00/go-student-portal/internal/apperror"
	"github.com/Stewz00/go-student-portal/internal/middleware"
	"github.com/Stewz00/go-student-portal/internal/model"
	"github.com/Stewz00/go-student-portal/internal/service"
)

// DashboardPath is where a successful profile update sends the browser.
const DashboardPath = "/dashboard"

// multipartMemory is how much of a form is held in memory before spilling to temp files.
const multipartMemory = 1 << 20

type ProfileHandler struct {
	profileService *service.ProfileService
	maxUploadBytes int64
	logs           *zap.SugaredLogger
}

func NewProfileHandler(profileService *service.ProfileService, maxUploadBytes int64, logs *zap.SugaredLogger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		maxUploadBytes: maxUploadBytes,
		logs:           logs,
	}
}

type userDataResponse struct {
	User   *model.User   `json:"user"`
	Grades []model.Grade `json:"grades"`
}

// UserData returns the profile and grades of the logged-in user.
func (h *ProfileHandler) UserData(w http.ResponseWriter, r *http.Request) {
	user, err := h.profileService.GetProfile(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		WriteError(w, r, h.logs, err)
		return
	}

	writeJSON(w, http.StatusOK, userDataResponse{User: user, Grades: user.Grades})
}

// UpdateProfile accepts a multipart form with optional username, email,
// resume and cover_letter parts and redirects to the dashboard.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	err := r.ParseMultipartForm(multipartMemory)
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		err = r.ParseForm()
	case err == nil:
		defer r.MultipartForm.RemoveAll()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, r, h.logs, apperror.NewValidationError("Upload too large", err))
			return
		}
		WriteError(w, r, h.logs, apperror.NewValidationError("Invalid form data", err))
		return
	}

	var uploads []service.Upload
	// urlencoded bodies carry no files
	if r.MultipartForm != nil {
		for _, field := range []string{service.FieldResume, service.FieldCoverLetter} {
			file, header, err := r.FormFile(field)
			if err != nil {
				if errors.Is(err, http.ErrMissingFile) {
					continue
				}
				WriteError(w, r, h.logs, apperror.NewValidationError("Invalid form data", err))
				return
			}
			defer file.Close()

			if header.Filename == "" && header.Size == 0 {
				continue
			}
			uploads = append(uploads, upload(field, file, header))
		}
	}

	err = h.profileService.UpdateProfile(r.Context(), middleware.SessionFromContext(r.Context()),
		r.FormValue("username"), r.FormValue("email"), uploads)
	if err != nil {
		WriteError(w, r, h.logs, err)
		return
	}

	http.Redirect(w, r, DashboardPath, http.StatusFound)
}

func upload(field string, file multipart.File, header *multipart.FileHeader) service.Upload {
	return service.Upload{
		Field:       field,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
}
