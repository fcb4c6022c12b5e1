package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/Stewz00/go-student-portal/internal/apperror"
)

func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	_ = json.NewEncoder(w).Encode(appErr.ToResponse())
}
