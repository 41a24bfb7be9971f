// Package uploads is the upload gateway: it validates upload requests and
// hands them to object storage, either as a direct write or as a presigned
// URL for the client to PUT to.
package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jellydator/validation"

	"github.com/dmitrijs2005/csvdrop/internal/common"
	"github.com/dmitrijs2005/csvdrop/internal/logging"
	"github.com/dmitrijs2005/csvdrop/internal/server/config"
	"github.com/dmitrijs2005/csvdrop/internal/server/storage"
)

var errPathSeparator = validation.NewError("validation_path_separator", "must not contain path separators")

// noSeparators rejects values that would turn an object name into a path.
var noSeparators = validation.By(func(v interface{}) error {
	s, _ := v.(string)
	if strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return errPathSeparator
	}
	return nil
})

type InlineUpload struct {
	SubjectID   string `json:"subjectId"`
	FileName    string `json:"filename"`
	FileContent string `json:"fileContent"`
}

func (in InlineUpload) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.SubjectID, validation.Required, noSeparators),
		validation.Field(&in.FileName, validation.Required, noSeparators),
		validation.Field(&in.FileContent, validation.Required),
	)
}

type PresignInput struct {
	FileName string `json:"fileName"`
}

func (in PresignInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FileName, validation.Required, noSeparators),
	)
}

// Inputs is an analysis request record submitted alongside uploads.
type Inputs struct {
	Role      string `json:"role"`
	SubjectID string `json:"subjectId"`
	Range     string `json:"range"`
	Note      string `json:"note"`
	Timestamp string `json:"timestamp"`
}

func (in Inputs) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Role, validation.Required, noSeparators),
		validation.Field(&in.SubjectID, validation.Required, noSeparators),
	)
}

type StoredFile struct {
	Bucket string
	Key    string
}

type UploadURL struct {
	URL       string
	Key       string
	Headers   map[string]string
	ExpiresAt time.Time
}

type StoredInputs struct {
	Bucket string
	Key    string
	Data   Inputs
}

type Service struct {
	store              storage.ObjectStore
	logger             logging.Logger
	bucket             string
	inputsBucket       string
	presignExpiry      time.Duration
	inlineEnabled      bool
	namespaceBySubject bool
	now                func() time.Time
}

func NewService(store storage.ObjectStore, cfg *config.Config, l logging.Logger) *Service {
	return &Service{
		store:              store,
		logger:             l.With("module", "uploads"),
		bucket:             cfg.S3Bucket,
		inputsBucket:       cfg.S3InputsBucket,
		presignExpiry:      cfg.PresignExpiry,
		inlineEnabled:      cfg.InlineUploads,
		namespaceBySubject: cfg.NamespaceBySubject,
		now:                time.Now,
	}
}

// Put writes the file content as a CSV object and returns its key. The key
// is the file name, prefixed by the subject id when namespacing is on.
func (s *Service) Put(ctx context.Context, in InlineUpload) (*StoredFile, error) {
	if !s.inlineEnabled {
		return nil, fmt.Errorf("%w: inline uploads are disabled, request an upload URL instead", common.ErrDisabled)
	}

	in.SubjectID = strings.TrimSpace(in.SubjectID)
	in.FileName = strings.TrimSpace(in.FileName)
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	key := in.FileName
	if s.namespaceBySubject {
		key = in.SubjectID + "/" + in.FileName
	}

	err := s.store.PutObject(ctx, storage.Object{
		Bucket:      s.bucket,
		Key:         key,
		Body:        []byte(in.FileContent),
		ContentType: common.ContentTypeCSV,
	})
	if err != nil {
		return nil, storageErr(err)
	}

	s.logger.Info(ctx, "file stored", "subject_id", in.SubjectID, "bucket", s.bucket, "key", key, "bytes", len(in.FileContent))

	return &StoredFile{Bucket: s.bucket, Key: key}, nil
}

// Presign issues a time-limited PUT URL for fileName. The gateway does not
// see the upload that follows.
func (s *Service) Presign(ctx context.Context, in PresignInput) (*UploadURL, error) {
	in.FileName = strings.TrimSpace(in.FileName)
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	up, err := s.store.PresignPut(ctx, storage.PresignRequest{
		Bucket:      s.bucket,
		Key:         in.FileName,
		ContentType: common.ContentTypeCSV,
		Expires:     s.presignExpiry,
	})
	if err != nil {
		return nil, storageErr(err)
	}

	headers := make(map[string]string, len(up.Headers))
	for name := range up.Headers {
		// Host is implied by the URL.
		if strings.EqualFold(name, "Host") {
			continue
		}
		headers[name] = up.Headers.Get(name)
	}

	s.logger.Info(ctx, "upload url issued", "bucket", s.bucket, "key", in.FileName, "expires_at", up.ExpiresAt)

	return &UploadURL{URL: up.URL, Key: in.FileName, Headers: headers, ExpiresAt: up.ExpiresAt}, nil
}

// SaveInputs stores an analysis request as JSON under
// inputs/{role}/{subjectId}/{timestamp}.json.
func (s *Service) SaveInputs(ctx context.Context, in Inputs) (*StoredInputs, error) {
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.SubjectID = strings.TrimSpace(in.SubjectID)
	in.Range = strings.TrimSpace(in.Range)
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	in.Timestamp = s.now().UTC().Format(time.RFC3339Nano)
	key := fmt.Sprintf("inputs/%s/%s/%s.json", in.Role, in.SubjectID, in.Timestamp)

	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding inputs: %v", common.ErrInternal, err)
	}

	err = s.store.PutObject(ctx, storage.Object{
		Bucket:      s.inputsBucket,
		Key:         key,
		Body:        body,
		ContentType: common.ContentTypeJSON,
	})
	if err != nil {
		return nil, storageErr(err)
	}

	s.logger.Info(ctx, "inputs stored", "subject_id", in.SubjectID, "role", in.Role, "key", key)

	return &StoredInputs{Bucket: s.inputsBucket, Key: key, Data: in}, nil
}

func storageErr(err error) error {
	if errors.Is(err, common.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrStorage, err)
}
