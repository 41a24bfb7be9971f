package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/csvdrop/internal/logging"
	"github.com/dmitrijs2005/csvdrop/internal/server/accounts"
	"github.com/dmitrijs2005/csvdrop/internal/server/metrics"
	"github.com/dmitrijs2005/csvdrop/internal/server/uploads"
)

type AccountService interface {
	Register(ctx context.Context, in accounts.RegisterInput) (*accounts.Session, error)
	Login(ctx context.Context, in accounts.LoginInput) (*accounts.Session, error)
	GetProfile(ctx context.Context, token string) (*accounts.Profile, error)
	UpdateProfile(ctx context.Context, token string, upd accounts.ProfileUpdate) (*accounts.Profile, error)
	Logout(ctx context.Context, token string) error
}

type UploadService interface {
	Put(ctx context.Context, in uploads.InlineUpload) (*uploads.StoredFile, error)
	Presign(ctx context.Context, in uploads.PresignInput) (*uploads.UploadURL, error)
	SaveInputs(ctx context.Context, in uploads.Inputs) (*uploads.StoredInputs, error)
}

type Handler struct {
	accounts AccountService
	uploads  UploadService
	metrics  metrics.Recorder
	logger   logging.Logger
}

func NewHandler(as AccountService, us UploadService, m metrics.Recorder, l logging.Logger) *Handler {
	if m == nil {
		m = metrics.Nop{}
	}
	return &Handler{
		accounts: as,
		uploads:  us,
		metrics:  m,
		logger:   l.With("module", "rest"),
	}
}

// fail writes err and logs it at a level matching the resulting status.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error, storageStatus int) {
	status := writeError(w, err, storageStatus)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "op", op, "status", status, "error", err)
		return
	}
	h.logger.Debug(r.Context(), "request rejected", "op", op, "status", status, "error", err)
}

func outcome(err error) string {
	if err != nil {
		return metrics.OutcomeFailure
	}
	return metrics.OutcomeSuccess
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
