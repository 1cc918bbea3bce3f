package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"crawlprep/internal/modules/crawl/domain"
	crawlout "crawlprep/internal/modules/crawl/port/out"
	"crawlprep/internal/platform/logging"
)

type CrawlService struct {
	targets   crawlout.TargetSource
	starter   crawlout.CrawlStarter
	collapser crawlout.PanelCollapser
	log       *log.Logger
}

func NewCrawlService(targets crawlout.TargetSource, starter crawlout.CrawlStarter, collapser crawlout.PanelCollapser, logger *log.Logger) *CrawlService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CrawlService{targets: targets, starter: starter, collapser: collapser, log: logger}
}

// Start sends the current targets to the crawl API. Missing targets fail
// before any request. An accepted start collapses the ingestion panel.
func (s *CrawlService) Start(ctx context.Context) (domain.Targets, domain.Result, error) {
	targets := s.targets.Targets(ctx)
	req, err := domain.BuildRequest(targets)
	if err != nil {
		return targets, domain.Result{}, err
	}
	res, err := s.starter.Start(ctx, req)
	if err != nil {
		s.log.Error("start crawl", "mode", targets.Mode, "err", err)
		return targets, domain.Result{}, fmt.Errorf("start crawl: %w", err)
	}
	res.Size = req.Size()
	if !res.Accepted {
		if strings.TrimSpace(res.Message) == "" {
			return targets, res, domain.ErrCrawlRejected
		}
		return targets, res, fmt.Errorf("%w: %s", domain.ErrCrawlRejected, res.Message)
	}
	s.log.Info("crawl started", "mode", targets.Mode, "targets", res.Size)
	if s.collapser != nil {
		if err := s.collapser.Collapse(ctx); err != nil {
			return targets, res, fmt.Errorf("collapse list panel: %w", err)
		}
	}
	return targets, res, nil
}
