package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/csvdrop/internal/server/uploads"
)

// Upload modes reported to metrics.
const (
	modeInline  = "inline"
	modePresign = "presign"
	modeInputs  = "inputs"
)

// UploadURL issues a presigned PUT URL. Signing failures are 500.
func (h *Handler) UploadURL(w http.ResponseWriter, r *http.Request) {
	u, err := h.uploads.Presign(r.Context(), uploads.PresignInput{FileName: r.URL.Query().Get("fileName")})
	h.metrics.RecordUpload(modePresign, outcome(err), 0)
	if err != nil {
		h.fail(w, r, "presign", err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, uploadURLResponse{
		UploadURL: u.URL,
		Key:       u.Key,
		Headers:   u.Headers,
		ExpiresAt: u.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// InlineUpload stores the CSV carried in the body. Storage failures are 502.
func (h *Handler) InlineUpload(w http.ResponseWriter, r *http.Request) {
	var req inlineUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "inline_upload", err, http.StatusBadGateway)
		return
	}

	in := req.toInput()
	f, err := h.uploads.Put(r.Context(), in)
	h.metrics.RecordUpload(modeInline, outcome(err), writtenBytes(err, len(in.FileContent)))
	if err != nil {
		h.fail(w, r, "inline_upload", err, http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, inlineUploadResponse{
		Message:   "File stored",
		Key:       f.Key,
		S3Bucket:  f.Bucket,
		S3Key:     f.Key,
		SubjectID: in.SubjectID,
		FileName:  in.FileName,
	})
}

func (h *Handler) SaveInputs(w http.ResponseWriter, r *http.Request) {
	var req uploads.Inputs
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "inputs", err, http.StatusBadGateway)
		return
	}

	s, err := h.uploads.SaveInputs(r.Context(), req)
	h.metrics.RecordUpload(modeInputs, outcome(err), 0)
	if err != nil {
		h.fail(w, r, "inputs", err, http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, inputsResponse{
		Message:  "Inputs stored",
		S3Bucket: s.Bucket,
		S3Key:    s.Key,
		Data:     s.Data,
	})
}

func writtenBytes(err error, n int) int {
	if err != nil {
		return 0
	}
	return n
}
