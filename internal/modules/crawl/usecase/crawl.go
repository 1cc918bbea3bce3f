package usecase

import (
	"context"

	"crawlprep/internal/modules/crawl/dto"
	crawlin "crawlprep/internal/modules/crawl/port/in"
	"crawlprep/internal/modules/crawl/service"
)

type Interactor struct {
	svc *service.CrawlService
}

func NewInteractor(svc *service.CrawlService) crawlin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) StartCrawl(ctx context.Context) (dto.StartOutput, error) {
	targets, res, err := i.svc.Start(ctx)
	return dto.StartOutput{
		Mode:      string(targets.Mode),
		Accepted:  res.Accepted,
		Message:   res.Message,
		Size:      res.Size,
		Collapsed: err == nil && res.Accepted,
	}, err
}
