package in

import (
	"context"

	"crawlprep/internal/modules/listmode/dto"
	listmodein "crawlprep/internal/modules/listmode/port/in"
)

type CLIHandler struct {
	usecase listmodein.Usecase
}

func NewCLIHandler(usecase listmodein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SwitchMode(ctx context.Context, mode string) (dto.SnapshotOutput, error) {
	return h.usecase.SwitchCrawlMode(ctx, dto.SwitchModeInput{Mode: mode})
}

func (h CLIHandler) SwitchTab(ctx context.Context, tab string) (dto.SnapshotOutput, error) {
	return h.usecase.SwitchListTab(ctx, dto.SwitchTabInput{Tab: tab})
}

func (h CLIHandler) SetSeed(ctx context.Context, url string) (dto.SnapshotOutput, error) {
	return h.usecase.SetSeedURL(ctx, dto.SetSeedInput{URL: url})
}

// Validate stores text as the paste input and classifies it in one step.
func (h CLIHandler) Validate(ctx context.Context, text string) (dto.ValidateOutput, error) {
	if _, err := h.usecase.SetPasteText(ctx, dto.SetPasteTextInput{Text: text}); err != nil {
		return dto.ValidateOutput{}, err
	}
	return h.usecase.ValidateURLList(ctx), nil
}

// Revalidate classifies the paste input as it is currently stored.
func (h CLIHandler) Revalidate(ctx context.Context) dto.ValidateOutput {
	return h.usecase.ValidateURLList(ctx)
}

func (h CLIHandler) Upload(ctx context.Context, path string) dto.UploadOutput {
	return h.usecase.HandleFileUpload(ctx, dto.UploadFileInput{Path: path})
}

func (h CLIHandler) ClearFile(ctx context.Context) (dto.SnapshotOutput, error) {
	return h.usecase.ClearFile(ctx)
}

func (h CLIHandler) Collapse(ctx context.Context, action string) (dto.SnapshotOutput, error) {
	switch action {
	case "collapse":
		return h.usecase.Collapse(ctx)
	case "expand":
		return h.usecase.Expand(ctx)
	case "refresh":
		return h.usecase.RefreshCount(ctx)
	default:
		return h.usecase.ToggleCollapse(ctx)
	}
}

func (h CLIHandler) Show(ctx context.Context) dto.SnapshotOutput {
	return h.usecase.Snapshot(ctx)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]dto.HistoryEntryOutput, error) {
	return h.usecase.History(ctx, limit)
}
