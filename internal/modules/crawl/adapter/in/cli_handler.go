package in

import (
	"context"

	"crawlprep/internal/modules/crawl/dto"
	crawlin "crawlprep/internal/modules/crawl/port/in"
)

type CLIHandler struct {
	usecase crawlin.Usecase
}

func NewCLIHandler(usecase crawlin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context) (dto.StartOutput, error) {
	return h.usecase.StartCrawl(ctx)
}
