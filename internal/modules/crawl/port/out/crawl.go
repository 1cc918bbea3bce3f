package out

import (
	"context"

	"crawlprep/internal/modules/crawl/domain"
)

type CrawlStarter interface {
	Start(ctx context.Context, req domain.Request) (domain.Result, error)
}

type TargetSource interface {
	Targets(ctx context.Context) domain.Targets
}

// PanelCollapser folds the ingestion panel once a crawl is running.
type PanelCollapser interface {
	Collapse(ctx context.Context) error
}
