// Package form is the upload form state machine shared by the CLI:
//
//	Idle → Uploading → Success | Error
//
// A submit from Success or Error starts over. Nothing is retried
// automatically.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

type State int

const (
	Idle State = iota
	Uploading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Uploading:
		return "uploading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrorLabel prefixes every failure shown to the user.
const ErrorLabel = "Error uploading file"

var (
	ErrSubjectRequired = errors.New("subject ID is required")
	ErrFileRequired    = errors.New("a file must be selected")
	ErrBusy            = errors.New("an upload is already in progress")
)

// Uploader stores content and returns the storage key.
type Uploader interface {
	Upload(ctx context.Context, subjectID, fileName string, content []byte) (string, error)
}

// File is the user's selection. A nil *File means nothing was selected.
type File struct {
	Name    string
	Content []byte
}

// Status is a snapshot of the form.
type Status struct {
	State   State
	Key     string
	Message string
}

type Form struct {
	uploader Uploader

	mu     sync.Mutex
	status Status
}

func New(u Uploader) *Form {
	return &Form{uploader: u}
}

func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Submit validates the input locally and, if it passes, runs one upload.
// Local validation failures and ErrBusy leave the state unchanged.
func (f *Form) Submit(ctx context.Context, subjectID string, file *File) (Status, error) {
	subjectID = strings.TrimSpace(subjectID)
	switch {
	case subjectID == "":
		return f.Status(), ErrSubjectRequired
	case file == nil || file.Name == "":
		return f.Status(), ErrFileRequired
	}

	f.mu.Lock()
	if f.status.State == Uploading {
		f.mu.Unlock()
		return f.Status(), ErrBusy
	}
	f.status = Status{State: Uploading, Message: "Uploading..."}
	f.mu.Unlock()

	key, err := f.uploader.Upload(ctx, subjectID, file.Name, file.Content)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.status = Status{State: Error, Message: fmt.Sprintf("%s: %v", ErrorLabel, err)}
		return f.status, err
	}
	f.status = Status{State: Success, Key: key, Message: "Uploaded: " + key}
	return f.status, nil
}
