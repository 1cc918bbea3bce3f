package in

import (
	"context"

	"crawlprep/internal/modules/crawl/dto"
)

type Usecase interface {
	StartCrawl(ctx context.Context) (dto.StartOutput, error)
}
