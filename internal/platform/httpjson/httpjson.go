package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Do sends body (JSON-encoded when non-nil) and decodes the response into T.
// The crawl-side endpoints answer 200 with {"success": false, ...} for
// refusals, so any 2xx or 4xx body that parses is returned to the caller;
// only 5xx, transport and decoding problems are errors.
func Do[T any](ctx context.Context, client *http.Client, method, endpoint string, body any) (T, error) {
	var zero T
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return Send[T](client, req)
}

// Send executes a prepared request and decodes the JSON response into T.
func Send[T any](client *http.Client, req *http.Request) (T, error) {
	var zero T
	resp, err := client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return zero, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, truncate(raw))
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return out, nil
}

func truncate(raw []byte) string {
	const limit = 256
	if len(raw) > limit {
		return string(raw[:limit]) + "…"
	}
	return string(raw)
}
