package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"crawlprep/internal/modules/listmode/domain"
	listmodeout "crawlprep/internal/modules/listmode/port/out"
	"crawlprep/internal/platform/clock"
	"crawlprep/internal/platform/id"
	"crawlprep/internal/platform/logging"
)

const (
	uploadFailedMessage = "Failed to upload file"
	uploadErrorMessage  = "Error uploading file"
)

// ValidateResult describes one paste validation round trip.
type ValidateResult struct {
	Skipped  bool
	Applied  bool
	Stale    bool
	Err      error
	Snapshot domain.Snapshot
}

// UploadResult describes one file upload, including the follow-up
// validation that re-derives stats from the rewritten paste text.
type UploadResult struct {
	NoFile       bool
	Applied      bool
	Stale        bool
	Notification string
	Err          error
	Revalidation ValidateResult
	Snapshot     domain.Snapshot
}

// IngestionService turns pasted text or an uploaded file into the
// valid/invalid URL lists. Server verdicts always replace both lists as a
// pair, and a response is only applied if no newer request was issued since.
type IngestionService struct {
	state     *StateService
	client    listmodeout.URLListService
	files     listmodeout.FileOpener
	notifier  listmodeout.Notifier
	refresher listmodeout.CountRefresher
	history   listmodeout.HistoryProjector
	clock     clock.Clock
	ids       id.Generator
	log       *log.Logger
	tokens    domain.Tokens
}

type Option func(*IngestionService)

func WithNotifier(n listmodeout.Notifier) Option {
	return func(s *IngestionService) { s.notifier = n }
}

func WithCountRefresher(r listmodeout.CountRefresher) Option {
	return func(s *IngestionService) { s.refresher = r }
}

func WithHistory(h listmodeout.HistoryProjector, clk clock.Clock, ids id.Generator) Option {
	return func(s *IngestionService) {
		s.history = h
		s.clock = clk
		s.ids = ids
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *IngestionService) {
		if l != nil {
			s.log = l
		}
	}
}

func NewIngestionService(state *StateService, client listmodeout.URLListService, files listmodeout.FileOpener, opts ...Option) *IngestionService {
	s := &IngestionService{
		state:  state,
		client: client,
		files:  files,
		clock:  clock.SystemClock{},
		ids:    id.UUID{},
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateURLList classifies the current paste text. Blank text hides the
// stats panel without a request. Failures keep the last applied lists.
func (s *IngestionService) ValidateURLList(ctx context.Context) ValidateResult {
	return s.validate(ctx, domain.SourcePaste, "")
}

func (s *IngestionService) validate(ctx context.Context, source domain.IngestionSource, fileName string) ValidateResult {
	text := strings.TrimSpace(s.state.Snapshot().PasteText)
	if text == "" {
		snapshot, err := s.state.Dispatch(ctx, domain.WithStatsHidden())
		return ValidateResult{Skipped: true, Err: err, Snapshot: snapshot}
	}

	token := s.tokens.Issue()
	res, err := s.client.Classify(ctx, text)
	if err != nil {
		s.log.Error("validate url list", "err", err)
		return ValidateResult{Err: fmt.Errorf("classify url list: %w", err), Snapshot: s.state.Snapshot()}
	}
	if !res.Success {
		s.log.Debug("url list service rejected text", "error", res.Error)
		return ValidateResult{Err: rejected(res.Error), Snapshot: s.state.Snapshot()}
	}

	snapshot, applied, err := s.state.DispatchIf(ctx, func() bool { return s.tokens.IsLatest(token) }, domain.WithClassification(domain.Classification{
		Valid:         res.Valid,
		Invalid:       res.Invalid,
		UniqueDomains: res.UniqueDomains,
	}))
	if !applied {
		s.log.Debug("discarding stale classification", "token", token)
		return ValidateResult{Stale: true, Err: domain.ErrStaleResponse, Snapshot: snapshot}
	}
	s.record(ctx, source, fileName, snapshot.Stats)
	if s.refresher != nil {
		s.refresher.RefreshCount(ctx)
		snapshot = s.state.Snapshot()
	}
	return ValidateResult{Applied: true, Err: err, Snapshot: snapshot}
}

// HandleFileUpload sends the file at path to the upload endpoint. On success
// the paste text becomes the newline-joined valid list, the paste tab is
// brought forward and a second validation pass refreshes stats. An empty path
// means no file was picked and is a no-op.
func (s *IngestionService) HandleFileUpload(ctx context.Context, path string) UploadResult {
	if strings.TrimSpace(path) == "" {
		return UploadResult{NoFile: true, Snapshot: s.state.Snapshot()}
	}

	name, content, err := s.files.Open(ctx, path)
	if err != nil {
		s.log.Error("open upload file", "path", path, "err", err)
		return s.uploadFailed(ctx, uploadErrorMessage, fmt.Errorf("open upload file: %w", err))
	}
	defer content.Close()

	token := s.tokens.Issue()
	res, err := s.client.Upload(ctx, name, content)
	if err != nil {
		s.log.Error("upload url list", "file", name, "err", err)
		return s.uploadFailed(ctx, uploadErrorMessage, fmt.Errorf("upload url list: %w", err))
	}
	if !res.Success {
		msg := res.Error
		if strings.TrimSpace(msg) == "" {
			msg = uploadFailedMessage
		}
		return s.uploadFailed(ctx, msg, rejected(res.Error))
	}

	snapshot, applied, persistErr := s.state.DispatchIf(ctx, func() bool { return s.tokens.IsLatest(token) }, domain.Chain(
		domain.WithLists(res.Valid, res.Invalid),
		badgeFromInvalid(),
		domain.WithFile(name),
		domain.WithPasteText(domain.JoinURLs(res.Valid)),
		domain.WithTab(domain.ListTabPaste),
	))
	if !applied {
		s.log.Debug("discarding stale upload", "file", name, "token", token)
		return UploadResult{Stale: true, Err: domain.ErrStaleResponse, Snapshot: snapshot}
	}

	revalidation := s.validate(ctx, domain.SourceUpload, name)
	snapshot = s.state.Snapshot()
	msg := fmt.Sprintf("Loaded %d valid URLs from %s", len(snapshot.Valid), name)
	s.notify(ctx, msg, domain.NotifySuccess)
	return UploadResult{
		Applied:      true,
		Notification: msg,
		Err:          persistErr,
		Revalidation: revalidation,
		Snapshot:     snapshot,
	}
}

// ClearFile forgets the uploaded file and empties both lists. Requests still
// in flight are retired so they cannot repopulate the lists afterwards.
func (s *IngestionService) ClearFile(ctx context.Context) (domain.Snapshot, error) {
	s.tokens.Invalidate()
	return s.state.Dispatch(ctx, domain.WithFileCleared())
}

func (s *IngestionService) History(ctx context.Context, limit int) ([]listmodeout.HistoryEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.history.Recent(ctx, limit)
}

func (s *IngestionService) uploadFailed(ctx context.Context, msg string, err error) UploadResult {
	s.notify(ctx, msg, domain.NotifyError)
	return UploadResult{Notification: msg, Err: err, Snapshot: s.state.Snapshot()}
}

func (s *IngestionService) notify(ctx context.Context, msg string, kind domain.NotificationKind) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, msg, kind)
	}
}

func (s *IngestionService) record(ctx context.Context, source domain.IngestionSource, fileName string, stats domain.IngestionStats) {
	if s.history == nil {
		return
	}
	entry := listmodeout.HistoryEntry{
		ID:            s.ids.New(),
		Source:        source,
		FileName:      fileName,
		ValidCount:    stats.ValidCount,
		InvalidCount:  stats.InvalidCount,
		UniqueDomains: stats.UniqueDomains,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.log.Warn("record ingestion history", "source", source, "err", err)
	}
}

func badgeFromInvalid() domain.Reducer {
	return func(snap domain.Snapshot) domain.Snapshot {
		snap.InvalidBadgeVisible = len(snap.Invalid) > 0
		return snap
	}
}

func rejected(msg string) error {
	if strings.TrimSpace(msg) == "" {
		return domain.ErrServiceRejected
	}
	return fmt.Errorf("%w: %s", domain.ErrServiceRejected, msg)
}
