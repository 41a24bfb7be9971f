package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/csvdrop/internal/common"
	"github.com/dmitrijs2005/csvdrop/internal/server/accounts"
	"github.com/dmitrijs2005/csvdrop/internal/server/uploads"
)

// maxBodyBytes bounds request bodies; inline uploads carry the whole file.
const maxBodyBytes = 8 << 20

var errInvalidBody = fmt.Errorf("%w: invalid JSON body", common.ErrValidation)

// decodeJSON reads the request body into v. An empty body leaves v as is.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: request body exceeds %d bytes", common.ErrValidation, tooLarge.Limit)
	}
	return errInvalidBody
}

// tokenFromRequest accepts both a raw token and a bearer credential.
func tokenFromRequest(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get(common.AuthorizationHeaderName))
	if len(v) >= len(common.BearerPrefix) && strings.EqualFold(v[:len(common.BearerPrefix)], common.BearerPrefix) {
		v = strings.TrimSpace(v[len(common.BearerPrefix):])
	}
	return v
}

type credentialsRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type sessionResponse struct {
	SessionToken string `json:"sessionToken"`
	UserName     string `json:"username"`
	Role         string `json:"role"`
}

func newSessionResponse(s *accounts.Session) sessionResponse {
	return sessionResponse{SessionToken: s.Token, UserName: s.UserName, Role: s.Role}
}

type profileResponse struct {
	UserName string `json:"username"`
	Role     string `json:"role"`
}

type updateProfileResponse struct {
	Success  bool   `json:"success"`
	UserName string `json:"username"`
	Role     string `json:"role"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// inlineUploadRequest also accepts the fileName/content names used by older
// form versions.
type inlineUploadRequest struct {
	SubjectID   string  `json:"subjectId"`
	FileName    string  `json:"filename"`
	FileContent *string `json:"fileContent"`

	LegacyFileName string  `json:"fileName"`
	LegacyContent  *string `json:"content"`
}

func (p inlineUploadRequest) toInput() uploads.InlineUpload {
	in := uploads.InlineUpload{
		SubjectID: strings.TrimSpace(p.SubjectID),
		FileName:  strings.TrimSpace(p.FileName),
	}
	if in.FileName == "" {
		in.FileName = strings.TrimSpace(p.LegacyFileName)
	}
	switch {
	case p.FileContent != nil:
		in.FileContent = *p.FileContent
	case p.LegacyContent != nil:
		in.FileContent = *p.LegacyContent
	}
	return in
}

type inlineUploadResponse struct {
	Message   string `json:"message"`
	Key       string `json:"key"`
	S3Bucket  string `json:"s3Bucket"`
	S3Key     string `json:"s3Key"`
	SubjectID string `json:"subjectId"`
	FileName  string `json:"fileName"`
}

type uploadURLResponse struct {
	UploadURL string            `json:"uploadURL"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt string            `json:"expiresAt"`
}

type inputsResponse struct {
	Message  string         `json:"message"`
	S3Bucket string         `json:"s3Bucket"`
	S3Key    string         `json:"s3Key"`
	Data     uploads.Inputs `json:"data"`
}
