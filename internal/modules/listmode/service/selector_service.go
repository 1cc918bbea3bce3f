package service

import (
	"context"

	"crawlprep/internal/modules/listmode/domain"
)

// SelectorService covers the two presentation switches: crawl mode and the
// paste/upload source tab. Neither touches the URL lists.
type SelectorService struct {
	state *StateService
}

func NewSelectorService(state *StateService) *SelectorService {
	return &SelectorService{state: state}
}

func (s *SelectorService) SwitchCrawlMode(ctx context.Context, mode domain.CrawlMode) (domain.Snapshot, error) {
	if mode != domain.CrawlModeStandard {
		mode = domain.CrawlModeList
	}
	return s.state.Dispatch(ctx, domain.WithMode(mode))
}

func (s *SelectorService) SwitchListTab(ctx context.Context, tab domain.ListTab) (domain.Snapshot, error) {
	if tab != domain.ListTabPaste {
		tab = domain.ListTabUpload
	}
	return s.state.Dispatch(ctx, domain.WithTab(tab))
}

func (s *SelectorService) SetSeedURL(ctx context.Context, seed string) (domain.Snapshot, error) {
	return s.state.Dispatch(ctx, domain.WithSeedURL(seed))
}

func (s *SelectorService) SetPasteText(ctx context.Context, text string) (domain.Snapshot, error) {
	return s.state.Dispatch(ctx, domain.WithPasteText(text))
}
