package service

import (
	"context"

	"crawlprep/internal/modules/listmode/domain"
)

// CollapseService drives the expanded/collapsed presentation of the list
// panel. It reads the valid list but never changes it.
type CollapseService struct {
	state *StateService
}

func NewCollapseService(state *StateService) *CollapseService {
	return &CollapseService{state: state}
}

func (s *CollapseService) Toggle(ctx context.Context) (domain.Snapshot, error) {
	return s.state.Dispatch(ctx, domain.ToggleCollapse())
}

// Collapse is what a crawl start calls; it is idempotent.
func (s *CollapseService) Collapse(ctx context.Context) (domain.Snapshot, error) {
	return s.state.Dispatch(ctx, domain.CollapsePanel())
}

func (s *CollapseService) Expand(ctx context.Context) (domain.Snapshot, error) {
	return s.state.Dispatch(ctx, domain.ExpandPanel())
}

func (s *CollapseService) Refresh(ctx context.Context) (domain.Snapshot, error) {
	return s.state.Dispatch(ctx, domain.WithCountRefreshed())
}

// RefreshCount satisfies the ingestion service's optional count refresher.
func (s *CollapseService) RefreshCount(ctx context.Context) {
	_, _ = s.Refresh(ctx)
}
