package out

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"crawlprep/internal/modules/crawl/domain"
	crawlout "crawlprep/internal/modules/crawl/port/out"
	"crawlprep/internal/platform/httpjson"
)

type startRequest struct {
	URL     *string  `json:"url"`
	URLList []string `json:"urlList"`
}

type startResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type HTTPCrawlClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPCrawlClient(endpoint string, timeout time.Duration) crawlout.CrawlStarter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPCrawlClient{endpoint: endpoint, httpClient: &http.Client{Timeout: timeout}}
}

// Start posts {"url": seed} or {"urlList": [...]}; the unused field is null.
func (c *HTTPCrawlClient) Start(ctx context.Context, req domain.Request) (domain.Result, error) {
	body := startRequest{URLList: req.URLList}
	if req.URL != "" {
		seed := req.URL
		body.URL = &seed
	}
	resp, err := httpjson.Do[startResponse](ctx, c.httpClient, http.MethodPost, c.endpoint, body)
	if err != nil {
		return domain.Result{}, fmt.Errorf("start crawl request: %w", err)
	}
	msg := resp.Message
	if !resp.Success && resp.Error != "" {
		msg = resp.Error
	}
	return domain.Result{Accepted: resp.Success, Message: msg}, nil
}
