package out

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	listmodeout "crawlprep/internal/modules/listmode/port/out"
	"crawlprep/internal/platform/httpjson"
)

const defaultTimeout = 30 * time.Second

type classifyRequest struct {
	URLText string `json:"urlText"`
}

type listStats struct {
	UniqueDomains int `json:"unique_domains"`
}

type listResponse struct {
	Success     bool      `json:"success"`
	ValidURLs   []string  `json:"validUrls"`
	InvalidURLs []string  `json:"invalidUrls"`
	Stats       listStats `json:"stats"`
	Error       string    `json:"error"`
}

// HTTPURLListClient talks to the URL List service: a JSON parse endpoint for
// pasted text and a multipart upload endpoint for files.
type HTTPURLListClient struct {
	parseURL   string
	uploadURL  string
	httpClient *http.Client
}

type ClientOption func(*HTTPURLListClient)

// WithHTTPClient uses a copy of c, so later options never touch the caller's
// client. A nil client keeps the default.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPURLListClient) {
		if c == nil {
			return
		}
		cp := *c
		h.httpClient = &cp
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(h *HTTPURLListClient) {
		if timeout <= 0 {
			return
		}
		cp := *h.httpClient
		cp.Timeout = timeout
		h.httpClient = &cp
	}
}

func NewHTTPURLListClient(parseURL, uploadURL string, opts ...ClientOption) listmodeout.URLListService {
	c := &HTTPURLListClient{
		parseURL:   parseURL,
		uploadURL:  uploadURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPURLListClient) Classify(ctx context.Context, text string) (listmodeout.ClassifyResult, error) {
	resp, err := httpjson.Do[listResponse](ctx, c.httpClient, http.MethodPost, c.parseURL, classifyRequest{URLText: text})
	if err != nil {
		return listmodeout.ClassifyResult{}, fmt.Errorf("parse url list: %w", err)
	}
	return listmodeout.ClassifyResult{
		Success:       resp.Success,
		Valid:         orEmpty(resp.ValidURLs),
		Invalid:       orEmpty(resp.InvalidURLs),
		UniqueDomains: resp.Stats.UniqueDomains,
		Error:         resp.Error,
	}, nil
}

func (c *HTTPURLListClient) Upload(ctx context.Context, fileName string, content io.Reader) (listmodeout.UploadResult, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", fileName)
	if err != nil {
		return listmodeout.UploadResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return listmodeout.UploadResult{}, fmt.Errorf("copy upload content: %w", err)
	}
	if err := form.Close(); err != nil {
		return listmodeout.UploadResult{}, fmt.Errorf("close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return listmodeout.UploadResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := httpjson.Send[listResponse](c.httpClient, req)
	if err != nil {
		return listmodeout.UploadResult{}, fmt.Errorf("upload url list: %w", err)
	}
	return listmodeout.UploadResult{
		Success: resp.Success,
		Valid:   orEmpty(resp.ValidURLs),
		Invalid: orEmpty(resp.InvalidURLs),
		Error:   resp.Error,
	}, nil
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
