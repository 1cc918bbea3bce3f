package usecase

import (
	"context"

	"crawlprep/internal/modules/listmode/domain"
	"crawlprep/internal/modules/listmode/dto"
	listmodein "crawlprep/internal/modules/listmode/port/in"
	"crawlprep/internal/modules/listmode/service"
)

type Interactor struct {
	state     *service.StateService
	selectors *service.SelectorService
	ingestion *service.IngestionService
	collapse  *service.CollapseService
}

func NewInteractor(
	state *service.StateService,
	selectors *service.SelectorService,
	ingestion *service.IngestionService,
	collapse *service.CollapseService,
) listmodein.Usecase {
	return &Interactor{state: state, selectors: selectors, ingestion: ingestion, collapse: collapse}
}

func (i *Interactor) SwitchCrawlMode(ctx context.Context, input dto.SwitchModeInput) (dto.SnapshotOutput, error) {
	return toOutput(i.selectors.SwitchCrawlMode(ctx, domain.ParseCrawlMode(input.Mode)))
}

func (i *Interactor) SwitchListTab(ctx context.Context, input dto.SwitchTabInput) (dto.SnapshotOutput, error) {
	return toOutput(i.selectors.SwitchListTab(ctx, domain.ParseListTab(input.Tab)))
}

func (i *Interactor) SetSeedURL(ctx context.Context, input dto.SetSeedInput) (dto.SnapshotOutput, error) {
	return toOutput(i.selectors.SetSeedURL(ctx, input.URL))
}

func (i *Interactor) SetPasteText(ctx context.Context, input dto.SetPasteTextInput) (dto.SnapshotOutput, error) {
	return toOutput(i.selectors.SetPasteText(ctx, input.Text))
}

func (i *Interactor) ValidateURLList(ctx context.Context) dto.ValidateOutput {
	res := i.ingestion.ValidateURLList(ctx)
	return dto.ValidateOutput{
		Skipped:  res.Skipped,
		Applied:  res.Applied,
		Stale:    res.Stale,
		Err:      res.Err,
		Snapshot: snapshotOutput(res.Snapshot),
	}
}

func (i *Interactor) HandleFileUpload(ctx context.Context, input dto.UploadFileInput) dto.UploadOutput {
	res := i.ingestion.HandleFileUpload(ctx, input.Path)
	return dto.UploadOutput{
		NoFile:       res.NoFile,
		Applied:      res.Applied,
		Stale:        res.Stale,
		Notification: res.Notification,
		Err:          res.Err,
		Snapshot:     snapshotOutput(res.Snapshot),
	}
}

func (i *Interactor) ClearFile(ctx context.Context) (dto.SnapshotOutput, error) {
	return toOutput(i.ingestion.ClearFile(ctx))
}

func (i *Interactor) ToggleCollapse(ctx context.Context) (dto.SnapshotOutput, error) {
	return toOutput(i.collapse.Toggle(ctx))
}

func (i *Interactor) Collapse(ctx context.Context) (dto.SnapshotOutput, error) {
	return toOutput(i.collapse.Collapse(ctx))
}

func (i *Interactor) Expand(ctx context.Context) (dto.SnapshotOutput, error) {
	return toOutput(i.collapse.Expand(ctx))
}

func (i *Interactor) RefreshCount(ctx context.Context) (dto.SnapshotOutput, error) {
	return toOutput(i.collapse.Refresh(ctx))
}

func (i *Interactor) CurrentMode(context.Context) string {
	return string(i.state.Snapshot().Mode)
}

func (i *Interactor) ValidURLs(context.Context) []string {
	return i.state.Snapshot().Valid
}

func (i *Interactor) InvalidURLs(context.Context) []string {
	return i.state.Snapshot().Invalid
}

func (i *Interactor) Snapshot(context.Context) dto.SnapshotOutput {
	return snapshotOutput(i.state.Snapshot())
}

func (i *Interactor) History(ctx context.Context, limit int) ([]dto.HistoryEntryOutput, error) {
	entries, err := i.ingestion.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryEntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.HistoryEntryOutput{
			ID:            e.ID,
			Source:        string(e.Source),
			FileName:      e.FileName,
			ValidCount:    e.ValidCount,
			InvalidCount:  e.InvalidCount,
			UniqueDomains: e.UniqueDomains,
			CreatedAt:     e.CreatedAt,
		})
	}
	return out, nil
}

func toOutput(snapshot domain.Snapshot, err error) (dto.SnapshotOutput, error) {
	return snapshotOutput(snapshot), err
}

func snapshotOutput(s domain.Snapshot) dto.SnapshotOutput {
	out := dto.SnapshotOutput{
		Mode:                 string(s.Mode),
		Tab:                  string(s.Tab),
		SeedURL:              s.SeedURL,
		PasteText:            s.PasteText,
		ValidURLs:            s.Valid,
		InvalidURLs:          s.Invalid,
		Stats:                dto.StatsOutput{ValidCount: s.Stats.ValidCount, InvalidCount: s.Stats.InvalidCount, UniqueDomains: s.Stats.UniqueDomains},
		StatsVisible:         s.StatsVisible,
		InvalidBadgeVisible:  s.InvalidBadgeVisible,
		FileInfoVisible:      s.FileInfoVisible,
		Collapsed:            s.Collapsed,
		CollapseLabel:        s.CollapseLabel,
		StandardPanelVisible: s.StandardPanelVisible(),
		ListPanelVisible:     s.ListPanelVisible(),
		PastePanelVisible:    s.PastePanelVisible(),
		UploadPanelVisible:   s.UploadPanelVisible(),
		Revision:             s.Revision,
	}
	if s.File != nil {
		out.FileName = s.File.Name
	}
	return out
}
