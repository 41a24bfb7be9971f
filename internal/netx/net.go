// Package netx performs the direct-to-storage transfer for presigned URLs.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/csvdrop/internal/common"
)

// maxErrorBody caps how much of a failed response is quoted in the error.
const maxErrorBody = 1 << 10

// UploadToPresignedURL PUTs body to url. headers are the ones the URL was
// signed with; Content-Type defaults to text/csv when absent. Any 2xx
// response is success.
func UploadToPresignedURL(ctx context.Context, client *http.Client, url string, headers map[string]string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", common.ContentTypeCSV)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
