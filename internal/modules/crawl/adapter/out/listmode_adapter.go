package out

import (
	"context"

	"crawlprep/internal/modules/crawl/domain"
	crawlout "crawlprep/internal/modules/crawl/port/out"
	listmodein "crawlprep/internal/modules/listmode/port/in"
)

// ListModeAdapter reads crawl targets from the ingestion panel and folds it
// when a crawl begins.
type ListModeAdapter struct {
	listmode listmodein.Usecase
}

func NewListModeAdapter(listmode listmodein.Usecase) *ListModeAdapter {
	return &ListModeAdapter{listmode: listmode}
}

var (
	_ crawlout.TargetSource   = (*ListModeAdapter)(nil)
	_ crawlout.PanelCollapser = (*ListModeAdapter)(nil)
)

func (a *ListModeAdapter) Targets(ctx context.Context) domain.Targets {
	snap := a.listmode.Snapshot(ctx)
	mode := domain.ModeList
	if snap.Mode == string(domain.ModeStandard) {
		mode = domain.ModeStandard
	}
	return domain.Targets{Mode: mode, SeedURL: snap.SeedURL, URLList: snap.ValidURLs}
}

func (a *ListModeAdapter) Collapse(ctx context.Context) error {
	_, err := a.listmode.Collapse(ctx)
	return err
}
