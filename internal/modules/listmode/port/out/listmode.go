package out

import (
	"context"
	"io"
	"time"

	"crawlprep/internal/modules/listmode/domain"
)

// ClassifyResult is the URL List service's answer to a text classification.
// Success=false means the service refused; Error may carry its message.
type ClassifyResult struct {
	Success       bool
	Valid         []string
	Invalid       []string
	UniqueDomains int
	Error         string
}

type UploadResult struct {
	Success bool
	Valid   []string
	Invalid []string
	Error   string
}

type URLListService interface {
	Classify(ctx context.Context, text string) (ClassifyResult, error)
	Upload(ctx context.Context, fileName string, content io.Reader) (UploadResult, error)
}

type FileOpener interface {
	Open(ctx context.Context, path string) (string, io.ReadCloser, error)
}

type Notifier interface {
	Notify(ctx context.Context, message string, kind domain.NotificationKind)
}

type CountRefresher interface {
	RefreshCount(ctx context.Context)
}

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Load(ctx context.Context) (domain.Snapshot, error)
}

type HistoryEntry struct {
	ID            string
	Source        domain.IngestionSource
	FileName      string
	ValidCount    int
	InvalidCount  int
	UniqueDomains int
	CreatedAt     time.Time
}

type HistoryProjector interface {
	Record(ctx context.Context, entry HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)
}
