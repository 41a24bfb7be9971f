// Package storage talks to S3-compatible object storage: direct writes and
// presigned PUT URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/csvdrop/internal/common"
)

// ObjectStore is the capability the upload gateway needs from storage.
type ObjectStore interface {
	PutObject(ctx context.Context, obj Object) error
	PresignPut(ctx context.Context, req PresignRequest) (*PresignedUpload, error)
}

type Object struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
}

type PresignRequest struct {
	Bucket      string
	Key         string
	ContentType string
	Expires     time.Duration
}

// PresignedUpload describes a signed PUT. Headers lists the headers the
// uploader must send unchanged, Content-Type included.
type PresignedUpload struct {
	URL       string
	Method    string
	Headers   http.Header
	ExpiresAt time.Time
}

// Error describes a failed storage call. It matches common.ErrStorage with
// errors.Is.
type Error struct {
	Op         string
	Bucket     string
	Key        string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s/%s failed: %d %s: %s", e.Op, e.Bucket, e.Key, e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("%s %s/%s failed: %s", e.Op, e.Bucket, e.Key, msg)
}

func (e *Error) Unwrap() []error {
	return []error{common.ErrStorage, e.Err}
}

func newError(op, bucket, key string, err error) *Error {
	e := &Error{Op: op, Bucket: bucket, Key: key, Err: err}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		e.Code = apiErr.ErrorCode()
		e.Message = apiErr.ErrorMessage()
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		e.StatusCode = respErr.HTTPStatusCode()
	}

	return e
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
