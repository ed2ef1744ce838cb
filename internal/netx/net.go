// Package netx holds small HTTP helpers for moving attachment bytes.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Download streams the object at url into path. A non-200 answer is an
// error that includes a prefix of the response body. A partial file is
// removed on failure.
func Download(ctx context.Context, client *http.Client, url, path string) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	_, err = io.Copy(f, resp.Body)
	return err
}
