package domain

import (
	"errors"
	"fmt"
	"strings"

	apperrors "crawlprep/internal/platform/errors"
)

var ErrCrawlRejected = errors.New("crawl start rejected")

type Mode string

const (
	ModeStandard Mode = "standard"
	ModeList     Mode = "list"
)

// Targets is what the ingestion panel currently offers to a crawl.
type Targets struct {
	Mode    Mode
	SeedURL string
	URLList []string
}

// Request is the body of a crawl start. Exactly one of URL and URLList is set.
type Request struct {
	URL     string
	URLList []string
}

type Result struct {
	Accepted bool
	Message  string
	Size     int
}

// BuildRequest picks the crawl input that belongs to the current mode.
func BuildRequest(t Targets) (Request, error) {
	if t.Mode == ModeStandard {
		seed := strings.TrimSpace(t.SeedURL)
		if seed == "" {
			return Request{}, fmt.Errorf("%w: seed url is required", apperrors.ErrInvalidInput)
		}
		return Request{URL: seed}, nil
	}
	if len(t.URLList) == 0 {
		return Request{}, apperrors.ErrEmptyURLList
	}
	list := make([]string, len(t.URLList))
	copy(list, t.URLList)
	return Request{URLList: list}, nil
}

func (r Request) Size() int {
	if r.URL != "" {
		return 1
	}
	return len(r.URLList)
}
