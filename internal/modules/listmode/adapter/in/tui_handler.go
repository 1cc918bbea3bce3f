package in

import (
	"context"

	"crawlprep/internal/modules/listmode/dto"
	listmodein "crawlprep/internal/modules/listmode/port/in"
)

// TUIHandler exposes list-mode operations in the shape the terminal UI uses:
// every call hands back the snapshot to render next.
type TUIHandler struct {
	usecase listmodein.Usecase
}

func NewTUIHandler(usecase listmodein.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Snapshot(ctx context.Context) dto.SnapshotOutput {
	return h.usecase.Snapshot(ctx)
}

func (h TUIHandler) SwitchMode(ctx context.Context, mode string) (dto.SnapshotOutput, error) {
	return h.usecase.SwitchCrawlMode(ctx, dto.SwitchModeInput{Mode: mode})
}

func (h TUIHandler) SwitchTab(ctx context.Context, tab string) (dto.SnapshotOutput, error) {
	return h.usecase.SwitchListTab(ctx, dto.SwitchTabInput{Tab: tab})
}

func (h TUIHandler) SetSeed(ctx context.Context, url string) (dto.SnapshotOutput, error) {
	return h.usecase.SetSeedURL(ctx, dto.SetSeedInput{URL: url})
}

func (h TUIHandler) SetPasteText(ctx context.Context, text string) (dto.SnapshotOutput, error) {
	return h.usecase.SetPasteText(ctx, dto.SetPasteTextInput{Text: text})
}

func (h TUIHandler) Validate(ctx context.Context) dto.ValidateOutput {
	return h.usecase.ValidateURLList(ctx)
}

func (h TUIHandler) Upload(ctx context.Context, path string) dto.UploadOutput {
	return h.usecase.HandleFileUpload(ctx, dto.UploadFileInput{Path: path})
}

func (h TUIHandler) ClearFile(ctx context.Context) (dto.SnapshotOutput, error) {
	return h.usecase.ClearFile(ctx)
}

func (h TUIHandler) ToggleCollapse(ctx context.Context) (dto.SnapshotOutput, error) {
	return h.usecase.ToggleCollapse(ctx)
}

func (h TUIHandler) Collapse(ctx context.Context) (dto.SnapshotOutput, error) {
	return h.usecase.Collapse(ctx)
}

func (h TUIHandler) Expand(ctx context.Context) (dto.SnapshotOutput, error) {
	return h.usecase.Expand(ctx)
}

func (h TUIHandler) History(ctx context.Context, limit int) ([]dto.HistoryEntryOutput, error) {
	return h.usecase.History(ctx, limit)
}
