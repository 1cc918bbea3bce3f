package in

import (
	"context"

	"crawlprep/internal/modules/listmode/dto"
)

type Usecase interface {
	SwitchCrawlMode(ctx context.Context, input dto.SwitchModeInput) (dto.SnapshotOutput, error)
	SwitchListTab(ctx context.Context, input dto.SwitchTabInput) (dto.SnapshotOutput, error)
	SetSeedURL(ctx context.Context, input dto.SetSeedInput) (dto.SnapshotOutput, error)
	SetPasteText(ctx context.Context, input dto.SetPasteTextInput) (dto.SnapshotOutput, error)

	ValidateURLList(ctx context.Context) dto.ValidateOutput
	HandleFileUpload(ctx context.Context, input dto.UploadFileInput) dto.UploadOutput
	ClearFile(ctx context.Context) (dto.SnapshotOutput, error)

	ToggleCollapse(ctx context.Context) (dto.SnapshotOutput, error)
	Collapse(ctx context.Context) (dto.SnapshotOutput, error)
	Expand(ctx context.Context) (dto.SnapshotOutput, error)
	RefreshCount(ctx context.Context) (dto.SnapshotOutput, error)

	CurrentMode(ctx context.Context) string
	ValidURLs(ctx context.Context) []string
	InvalidURLs(ctx context.Context) []string
	Snapshot(ctx context.Context) dto.SnapshotOutput
	History(ctx context.Context, limit int) ([]dto.HistoryEntryOutput, error)
}
