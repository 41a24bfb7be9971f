package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/csvdrop/internal/common"
	"github.com/dmitrijs2005/csvdrop/internal/netx"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	inline     bool

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the server at baseURL. With inline set,
// Upload sends file content through the server.
func NewHTTPClient(baseURL string, timeout time.Duration, inline bool) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		inline:     inline,
	}
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) setToken(t string) {
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, userName, password, role string) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, "/register", nil, credentials{userName, password, role}, &s); err != nil {
		return nil, err
	}
	c.setToken(s.SessionToken)
	return &s, nil
}

func (c *HTTPClient) Login(ctx context.Context, userName, password string) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, "/login", nil, credentials{UserName: userName, Password: password}, &s); err != nil {
		return nil, err
	}
	c.setToken(s.SessionToken)
	return &s, nil
}

// Logout forgets the local token even when the server call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	defer c.setToken("")
	return c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
}

func (c *HTTPClient) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/profile", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, userName, role string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodPost, "/update-profile", nil, profileUpdate{userName, role}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) RequestUploadURL(ctx context.Context, fileName string) (*UploadGrant, error) {
	var g UploadGrant
	if err := c.do(ctx, http.MethodGet, "/upload", url.Values{"fileName": {fileName}}, nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// UploadPresigned asks for an upload URL and PUTs content to it. The key is
// the file name.
func (c *HTTPClient) UploadPresigned(ctx context.Context, fileName string, content []byte) (string, error) {
	g, err := c.RequestUploadURL(ctx, fileName)
	if err != nil {
		return "", err
	}
	if err := netx.UploadToPresignedURL(ctx, c.httpClient, g.UploadURL, g.Headers, content); err != nil {
		return "", err
	}
	if g.Key == "" {
		return fileName, nil
	}
	return g.Key, nil
}

func (c *HTTPClient) UploadInline(ctx context.Context, subjectID, fileName string, content []byte) (string, error) {
	var f storedFile
	err := c.do(ctx, http.MethodPost, "/upload", nil, inlineUpload{subjectID, fileName, string(content)}, &f)
	if err != nil {
		return "", err
	}
	return f.Key, nil
}

// Upload stores content using the configured mode and returns the key.
func (c *HTTPClient) Upload(ctx context.Context, subjectID, fileName string, content []byte) (string, error) {
	if c.inline {
		return c.UploadInline(ctx, subjectID, fileName, content)
	}
	return c.UploadPresigned(ctx, fileName, content)
}

func (c *HTTPClient) SaveInputs(ctx context.Context, in Inputs) (*StoredInputs, error) {
	var s StoredInputs
	if err := c.do(ctx, http.MethodPost, "/inputs", nil, in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", common.ContentTypeJSON)
	}
	if t := c.Token(); t != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+t)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
