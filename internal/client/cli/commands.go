package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/csvdrop/internal/client/client"
	"github.com/dmitrijs2005/csvdrop/internal/client/form"
	"github.com/dmitrijs2005/csvdrop/internal/common"
	"github.com/dmitrijs2005/csvdrop/internal/filex"
)

const loginErrorLabel = "Invalid Login"

var errNotLoggedIn = errors.New("not logged in")

func (a *App) readCredentials() (string, []byte, error) {
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

func (a *App) startSession(s *client.Session) {
	a.mu.Lock()
	a.userName = s.UserName
	a.mu.Unlock()
	printlnFn(fmt.Sprintf("Logged in as %s (%s)", s.UserName, s.Role))
}

func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	defer common.WipeByteArray(password)

	role, err := GetSimpleText(a.reader, "Enter role", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	s, err := a.api.Register(ctx, userName, string(password), role)
	if err != nil {
		printlnFn("Registration failed:", err)
		return err
	}
	a.startSession(s)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.api.Login(ctx, userName, string(password))
	if err != nil {
		printlnFn(fmt.Sprintf("%s: %v", loginErrorLabel, err))
		return err
	}
	a.startSession(s)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn(errNotLoggedIn)
		return errNotLoggedIn
	}

	err := a.api.Logout(ctx)

	a.mu.Lock()
	a.userName = ""
	a.mu.Unlock()

	if err != nil {
		printlnFn("Logout failed:", err)
		return err
	}
	printlnFn("Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	p, err := a.api.Profile(ctx)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Username: %s\nRole: %s", p.UserName, p.Role))
	return nil
}

// UpdateProfile asks for a new username and role; blank answers keep the
// current values.
func (a *App) UpdateProfile(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "New username (blank to keep)", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	role, err := GetSimpleText(a.reader, "New role (blank to keep)", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	p, err := a.api.UpdateProfile(ctx, userName, role)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	a.mu.Lock()
	a.userName = p.UserName
	a.mu.Unlock()

	printlnFn(fmt.Sprintf("Profile updated: %s (%s)", p.UserName, p.Role))
	return nil
}

// Upload drives the form: prompt, validate locally, upload once, report.
func (a *App) Upload(ctx context.Context) error {
	subjectID, err := GetSimpleText(a.reader, "Subject ID", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	path, err := GetSimpleText(a.reader, "Path to CSV file", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	var file *form.File
	f, err := filex.ReadUploadFile(path)
	switch {
	case errors.Is(err, filex.ErrNoFile):
	case err != nil:
		printlnFn(fmt.Sprintf("%s: %v", form.ErrorLabel, err))
		return err
	default:
		file = &form.File{Name: f.Name, Content: f.Content}
	}

	st, err := a.form.Submit(ctx, subjectID, file)
	if errors.Is(err, form.ErrSubjectRequired) || errors.Is(err, form.ErrFileRequired) || errors.Is(err, form.ErrBusy) {
		printlnFn(err)
		return err
	}
	printlnFn(st.Message)
	return err
}

func (a *App) Inputs(ctx context.Context) error {
	var in client.Inputs
	var err error

	prompts := []struct {
		text string
		dst  *string
	}{
		{"Role", &in.Role},
		{"Subject ID", &in.SubjectID},
		{"Range (optional)", &in.Range},
	}
	for _, p := range prompts {
		if *p.dst, err = GetSimpleText(a.reader, p.text, a.out); err != nil {
			printlnFn("error:", err)
			return err
		}
	}
	if in.Note, err = GetMultiline(a.reader, "Note (optional)", a.out); err != nil {
		printlnFn("error:", err)
		return err
	}

	s, err := a.api.SaveInputs(ctx, in)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	printlnFn(fmt.Sprintf("%s: %s/%s", s.Message, s.S3Bucket, s.S3Key))
	return nil
}

// Status prints the form state and the last result.
func (a *App) Status(ctx context.Context) error {
	st := a.form.Status()
	if st.Message == "" {
		printlnFn("Upload form:", st.State)
		return nil
	}
	printlnFn(fmt.Sprintf("Upload form: %s\n%s", st.State, st.Message))
	return nil
}
