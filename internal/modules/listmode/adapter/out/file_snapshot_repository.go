package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"crawlprep/internal/modules/listmode/domain"
	listmodeout "crawlprep/internal/modules/listmode/port/out"
	apperrors "crawlprep/internal/platform/errors"
)

const snapshotSchemaVersion = 1

type snapshotFile struct {
	SchemaVersion int             `json:"schema_version"`
	Snapshot      domain.Snapshot `json:"snapshot"`
}

type FileSnapshotRepository struct {
	path string
}

func NewFileSnapshotRepository(path string) listmodeout.SnapshotRepository {
	return &FileSnapshotRepository{path: path}
}

func (r *FileSnapshotRepository) Save(_ context.Context, snapshot domain.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	payload, err := json.MarshalIndent(snapshotFile{SchemaVersion: snapshotSchemaVersion, Snapshot: snapshot}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (r *FileSnapshotRepository) Load(_ context.Context) (domain.Snapshot, error) {
	payload, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{}, apperrors.ErrNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	file := snapshotFile{}
	if err := json.Unmarshal(payload, &file); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if file.SchemaVersion != snapshotSchemaVersion {
		return domain.Snapshot{}, fmt.Errorf("unsupported snapshot schema %d", file.SchemaVersion)
	}
	s := file.Snapshot
	if s.Mode == "" {
		s.Mode = domain.CrawlModeStandard
	}
	if s.Tab == "" {
		s.Tab = domain.ListTabPaste
	}
	if s.Valid == nil {
		s.Valid = []string{}
	}
	if s.Invalid == nil {
		s.Invalid = []string{}
	}
	return s, nil
}
