package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/csvdrop/internal/common"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", common.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps service errors to HTTP status codes. storageStatus is used
// for object-storage failures, which differ between signing and writing.
func statusFor(err error, storageStatus int) int {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrAuth), errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrDisabled), errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrStorage):
		return storageStatus
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as {"error": msg}. Unclassified errors are logged
// by the caller and reported without detail.
func writeError(w http.ResponseWriter, err error, storageStatus int) int {
	status := statusFor(err, storageStatus)
	msg := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, common.ErrStorage) {
		msg = "internal server error"
	}
	writeMessage(w, status, msg)
	return status
}
