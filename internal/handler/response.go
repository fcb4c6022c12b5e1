package handler

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Stewz00/go-student-portal/internal/apperror"
	"github.com/Stewz00/go-student-portal/internal/service"
)

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError sends err as {"error": message}. Errors that are not an
// *apperror.AppError become a generic 500; the cause is only logged.
func WriteError(w http.ResponseWriter, r *http.Request, logs *zap.SugaredLogger, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError(service.MsgInternal, err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logs.Errorw(appErr.Message,
			"error", err,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	} else if appErr.Err != nil {
		logs.Debugw(appErr.Message, "error", appErr.Err, "path", r.URL.Path)
	}

	writeJSON(w, status, appErr.ToResponse())
}
