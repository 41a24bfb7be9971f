package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/csvdrop/internal/client/client"
	"github.com/dmitrijs2005/csvdrop/internal/client/config"
	"github.com/dmitrijs2005/csvdrop/internal/client/form"
)

type fakeAPI struct {
	token    string
	pingErr  error
	loginErr error
	uploads  []string
	inputs   []client.Inputs
	uploadFn func(subjectID, fileName string) (string, error)
}

func (f *fakeAPI) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeAPI) Token() string                  { return f.token }

func (f *fakeAPI) Register(ctx context.Context, userName, password, role string) (*client.Session, error) {
	f.token = "t-" + userName
	return &client.Session{SessionToken: f.token, UserName: userName, Role: role}, nil
}

func (f *fakeAPI) Login(ctx context.Context, userName, password string) (*client.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.token = "t-" + userName
	return &client.Session{SessionToken: f.token, UserName: userName, Role: "analyst"}, nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.token = ""
	return nil
}

func (f *fakeAPI) Profile(ctx context.Context) (*client.Profile, error) {
	if f.token == "" {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Message: "unauthorized: not logged in"}
	}
	return &client.Profile{UserName: "alice", Role: "analyst"}, nil
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, userName, role string) (*client.Profile, error) {
	if userName == "" {
		userName = "alice"
	}
	return &client.Profile{UserName: userName, Role: role}, nil
}

func (f *fakeAPI) SaveInputs(ctx context.Context, in client.Inputs) (*client.StoredInputs, error) {
	f.inputs = append(f.inputs, in)
	return &client.StoredInputs{Message: "Inputs stored", S3Bucket: "inputs", S3Key: "inputs/" + in.Role + "/" + in.SubjectID + "/t.json"}, nil
}

func (f *fakeAPI) Upload(ctx context.Context, subjectID, fileName string, content []byte) (string, error) {
	f.uploads = append(f.uploads, subjectID+":"+fileName+":"+string(content))
	if f.uploadFn != nil {
		return f.uploadFn(subjectID, fileName)
	}
	return fileName, nil
}

func newTestApp(t *testing.T, api *fakeAPI, input string) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return newApp(cfg, api, form.New(api), strings.NewReader(input), &bytes.Buffer{})
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoginAndLogout(t *testing.T) {
	out := captureOutput(t)
	stubPassword(t, "pw")

	api := &fakeAPI{}
	a := newTestApp(t, api, "alice\n")

	require.NoError(t, a.Login(context.Background()))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "alice", a.getStatus())
	assert.Contains(t, *out, "Logged in as alice (analyst)")

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.ErrorIs(t, a.Logout(context.Background()), errNotLoggedIn)
}

func TestLoginFailureLabel(t *testing.T) {
	out := captureOutput(t)
	stubPassword(t, "bad")

	api := &fakeAPI{loginErr: &client.APIError{StatusCode: http.StatusUnauthorized, Message: "unauthorized: invalid credentials"}}
	a := newTestApp(t, api, "alice\n")

	assert.Error(t, a.Login(context.Background()))
	assert.Contains(t, *out, "Invalid Login: unauthorized: invalid credentials")
}

func TestRegisterAndUpdateProfile(t *testing.T) {
	out := captureOutput(t)
	stubPassword(t, "pw")

	api := &fakeAPI{}
	a := newTestApp(t, api, "bob\ncoach\n\nscout\n")

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, "t-bob", api.token)

	require.NoError(t, a.UpdateProfile(context.Background()))
	assert.Contains(t, *out, "Profile updated: alice (scout)")
}

func TestUploadCommand(t *testing.T) {
	path := writeCSV(t, "games.csv", "a,b\n1,2\n")

	t.Run("success", func(t *testing.T) {
		out := captureOutput(t)
		api := &fakeAPI{}
		a := newTestApp(t, api, "s1\n"+path+"\n")

		require.NoError(t, a.Upload(context.Background()))
		assert.Equal(t, []string{"s1:games.csv:a,b\n1,2\n"}, api.uploads)
		assert.Equal(t, form.Success, a.form.Status().State)
		assert.Contains(t, *out, "Uploaded: games.csv")
	})

	t.Run("server error", func(t *testing.T) {
		out := captureOutput(t)
		api := &fakeAPI{uploadFn: func(string, string) (string, error) {
			return "", &client.APIError{StatusCode: http.StatusBadGateway, Message: "storage error: AccessDenied"}
		}}
		a := newTestApp(t, api, "s1\n"+path+"\n")

		assert.Error(t, a.Upload(context.Background()))
		assert.Equal(t, form.Error, a.form.Status().State)
		assert.Contains(t, *out, "Error uploading file: storage error: AccessDenied")
	})

	t.Run("no file selected", func(t *testing.T) {
		captureOutput(t)
		api := &fakeAPI{}
		a := newTestApp(t, api, "s1\n\n")

		assert.ErrorIs(t, a.Upload(context.Background()), form.ErrFileRequired)
		assert.Empty(t, api.uploads)
		assert.Equal(t, form.Idle, a.form.Status().State)
	})

	t.Run("missing subject", func(t *testing.T) {
		captureOutput(t)
		api := &fakeAPI{}
		a := newTestApp(t, api, "\n"+path+"\n")

		assert.ErrorIs(t, a.Upload(context.Background()), form.ErrSubjectRequired)
		assert.Empty(t, api.uploads)
	})

	t.Run("unreadable file", func(t *testing.T) {
		out := captureOutput(t)
		api := &fakeAPI{}
		a := newTestApp(t, api, "s1\n"+filepath.Join(t.TempDir(), "missing.csv")+"\n")

		assert.Error(t, a.Upload(context.Background()))
		assert.Empty(t, api.uploads)
		require.NotEmpty(t, *out)
		assert.True(t, strings.HasPrefix((*out)[len(*out)-1], "Error uploading file: "))
	})
}

func TestInputsCommand(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api, "coach\np7\nlast-10\nwatch the left side\n\n")

	require.NoError(t, a.Inputs(context.Background()))
	assert.Equal(t, []client.Inputs{{Role: "coach", SubjectID: "p7", Range: "last-10", Note: "watch the left side"}}, api.inputs)
	assert.Contains(t, *out, "Inputs stored: inputs/inputs/coach/p7/t.json")
}

func TestProfileAndStatus(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api, "")

	assert.Error(t, a.Profile(context.Background()))

	api.token = "t"
	require.NoError(t, a.Profile(context.Background()))
	assert.Contains(t, *out, "Username: alice\nRole: analyst")

	require.NoError(t, a.Status(context.Background()))
	assert.Contains(t, *out, "Upload form: idle")
}

func TestOnlineWatcher(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{pingErr: errors.New("down")}
	a := newTestApp(t, api, "")

	a.checkOnline(context.Background())
	assert.Equal(t, "offline", a.getStatus())

	api.pingErr = nil
	a.checkOnline(context.Background())
	assert.Equal(t, "online", a.getStatus())

	assert.Equal(t, []string{"Server is offline", "Server is online"}, *out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, time.Hour)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
