package out_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listmodeoutadapter "crawlprep/internal/modules/listmode/adapter/out"
	"crawlprep/internal/modules/listmode/domain"
	listmodeout "crawlprep/internal/modules/listmode/port/out"
	apperrors "crawlprep/internal/platform/errors"
	"crawlprep/internal/platform/logging"
)

func TestFileSnapshotRepositoryRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".crawlprep", "state.json")
	repo := listmodeoutadapter.NewFileSnapshotRepository(path)
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.True(t, errors.Is(err, apperrors.ErrNotFound))

	want := domain.Chain(
		domain.WithMode(domain.CrawlModeList),
		domain.WithClassification(domain.Classification{Valid: []string{"http://a.com"}, Invalid: []string{"x"}, UniqueDomains: 1}),
		domain.WithFile("urls.txt"),
		domain.CollapsePanel(),
	)(domain.Initial())
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Mode, got.Mode)
	assert.Equal(t, want.Valid, got.Valid)
	assert.Equal(t, want.Invalid, got.Invalid)
	assert.Equal(t, "urls.txt", got.File.Name)
	assert.True(t, got.Collapsed)
	assert.Equal(t, "1 URLs", got.CollapseLabel)
}

func TestFileSnapshotRepositoryRejectsGarbage(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := listmodeoutadapter.NewFileSnapshotRepository(path).Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestSQLiteHistoryProjectorOrdersNewestFirst(t *testing.T) {
	t.Parallel()
	projector, err := listmodeoutadapter.NewSQLiteHistoryProjector(filepath.Join(t.TempDir(), "db", "crawlprep.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = projector.Close() })
	ctx := context.Background()
	base := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)

	require.NoError(t, projector.Record(ctx, listmodeout.HistoryEntry{ID: "1", Source: domain.SourcePaste, ValidCount: 2, InvalidCount: 1, UniqueDomains: 2, CreatedAt: base}))
	require.NoError(t, projector.Record(ctx, listmodeout.HistoryEntry{ID: "2", Source: domain.SourceUpload, FileName: "urls.txt", ValidCount: 5, CreatedAt: base.Add(time.Minute)}))

	entries, err := projector.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2", entries[0].ID)
	assert.Equal(t, domain.SourceUpload, entries[0].Source)
	assert.Equal(t, "urls.txt", entries[0].FileName)
	assert.True(t, entries[1].CreatedAt.Equal(base))

	entries, err = projector.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSQLiteHistoryProjectorOrdersWithinOneSecond(t *testing.T) {
	t.Parallel()
	projector, err := listmodeoutadapter.NewSQLiteHistoryProjector(filepath.Join(t.TempDir(), "crawlprep.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = projector.Close() })
	ctx := context.Background()
	base := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)

	for _, e := range []listmodeout.HistoryEntry{
		{ID: "whole", Source: domain.SourcePaste, CreatedAt: base},
		{ID: "older", Source: domain.SourcePaste, CreatedAt: base.Add(120 * time.Millisecond)},
		{ID: "newer", Source: domain.SourcePaste, CreatedAt: base.Add(123 * time.Millisecond)},
	} {
		require.NoError(t, projector.Record(ctx, e))
	}

	entries, err := projector.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "newer", entries[0].ID)
	assert.Equal(t, "older", entries[1].ID)
	assert.Equal(t, "whole", entries[2].ID)
	assert.True(t, entries[0].CreatedAt.Equal(base.Add(123*time.Millisecond)))
}

func TestLocalFileOpener(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("http://a.com\n"), 0o644))

	name, rc, err := listmodeoutadapter.NewLocalFileOpener().Open(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "urls.txt", name)
	assert.Equal(t, "http://a.com\n", string(raw))

	_, _, err = listmodeoutadapter.NewLocalFileOpener().Open(context.Background(), dir)
	require.Error(t, err)
	_, _, err = listmodeoutadapter.NewLocalFileOpener().Open(context.Background(), filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}

func TestNotifiers(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	listmodeoutadapter.NewWriterNotifier(&out).Notify(context.Background(), "Loaded 2 valid URLs from urls.txt", domain.NotifySuccess)
	listmodeoutadapter.NewWriterNotifier(&out).Notify(context.Background(), "Error uploading file", domain.NotifyError)
	assert.Contains(t, out.String(), "Loaded 2 valid URLs from urls.txt")
	assert.Contains(t, out.String(), "Error uploading file")

	var logs bytes.Buffer
	listmodeoutadapter.NewLogNotifier(logging.New(&logs, "info")).Notify(context.Background(), "Failed to upload file", domain.NotifyError)
	assert.Contains(t, logs.String(), "Failed to upload file")
}
