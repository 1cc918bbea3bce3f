package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"crawlprep/internal/modules/listmode/domain"
	listmodeout "crawlprep/internal/modules/listmode/port/out"
	"crawlprep/internal/modules/listmode/service"
	"crawlprep/internal/platform/clock"
)

type fakeURLList struct {
	classify     func(text string) (listmodeout.ClassifyResult, error)
	upload       func(name string, body string) (listmodeout.UploadResult, error)
	classifyCall int
	uploadCall   int
	lastText     string
}

func (f *fakeURLList) Classify(_ context.Context, text string) (listmodeout.ClassifyResult, error) {
	f.classifyCall++
	f.lastText = text
	return f.classify(text)
}

func (f *fakeURLList) Upload(_ context.Context, name string, content io.Reader) (listmodeout.UploadResult, error) {
	f.uploadCall++
	raw, _ := io.ReadAll(content)
	return f.upload(name, string(raw))
}

type fakeFiles struct {
	content string
	err     error
}

func (f fakeFiles) Open(_ context.Context, path string) (string, io.ReadCloser, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return path, io.NopCloser(strings.NewReader(f.content)), nil
}

type notice struct {
	msg  string
	kind domain.NotificationKind
}

type fakeNotifier struct{ got []notice }

func (f *fakeNotifier) Notify(_ context.Context, msg string, kind domain.NotificationKind) {
	f.got = append(f.got, notice{msg: msg, kind: kind})
}

type fakeRefresher struct{ calls int }

func (f *fakeRefresher) RefreshCount(context.Context) { f.calls++ }

type fakeHistory struct{ entries []listmodeout.HistoryEntry }

func (f *fakeHistory) Record(_ context.Context, e listmodeout.HistoryEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]listmodeout.HistoryEntry, error) {
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

type fakeIDs struct{}

func (fakeIDs) New() string { return "entry-1" }

// splitClassifier treats anything starting with http as valid.
func splitClassifier(text string) (listmodeout.ClassifyResult, error) {
	res := listmodeout.ClassifyResult{Success: true, Valid: []string{}, Invalid: []string{}}
	domains := map[string]struct{}{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "http") {
			res.Valid = append(res.Valid, line)
			domains[strings.SplitN(strings.TrimPrefix(strings.TrimPrefix(line, "https://"), "http://"), "/", 2)[0]] = struct{}{}
		} else {
			res.Invalid = append(res.Invalid, line)
		}
	}
	res.UniqueDomains = len(domains)
	return res, nil
}

type harness struct {
	state     *service.StateService
	selectors *service.SelectorService
	collapse  *service.CollapseService
	ingestion *service.IngestionService
	client    *fakeURLList
	notifier  *fakeNotifier
}

func newHarness(client *fakeURLList, files listmodeout.FileOpener, opts ...service.Option) harness {
	state := service.NewStateService(domain.NewStore(domain.Initial()), nil, nil)
	collapse := service.NewCollapseService(state)
	notifier := &fakeNotifier{}
	opts = append([]service.Option{service.WithNotifier(notifier), service.WithCountRefresher(collapse)}, opts...)
	return harness{
		state:     state,
		selectors: service.NewSelectorService(state),
		collapse:  collapse,
		ingestion: service.NewIngestionService(state, client, files, opts...),
		client:    client,
		notifier:  notifier,
	}
}

func TestValidateScenarioShowsCountsAndBadge(t *testing.T) {
	t.Parallel()
	h := newHarness(&fakeURLList{classify: splitClassifier}, fakeFiles{})
	ctx := context.Background()
	if _, err := h.selectors.SetPasteText(ctx, "http://a.com\nnot a url\nhttp://b.com"); err != nil {
		t.Fatalf("set paste text: %v", err)
	}

	res := h.ingestion.ValidateURLList(ctx)
	if !res.Applied || res.Err != nil {
		t.Fatalf("expected applied validation, got %+v", res)
	}
	s := res.Snapshot
	if s.Stats != (domain.IngestionStats{ValidCount: 2, InvalidCount: 1, UniqueDomains: 2}) {
		t.Fatalf("unexpected stats %+v", s.Stats)
	}
	if !s.StatsVisible || !s.InvalidBadgeVisible {
		t.Fatalf("stats panel and invalid badge should be visible: %+v", s)
	}
	if strings.Join(s.Valid, ",") != "http://a.com,http://b.com" || strings.Join(s.Invalid, ",") != "not a url" {
		t.Fatalf("unexpected lists %v / %v", s.Valid, s.Invalid)
	}
}

func TestValidateReplacesInsteadOfMerging(t *testing.T) {
	t.Parallel()
	h := newHarness(&fakeURLList{classify: splitClassifier}, fakeFiles{})
	ctx := context.Background()
	_, _ = h.selectors.SetPasteText(ctx, "http://a.com\njunk")
	h.ingestion.ValidateURLList(ctx)
	_, _ = h.selectors.SetPasteText(ctx, "http://c.com")
	res := h.ingestion.ValidateURLList(ctx)

	if len(res.Snapshot.Valid) != 1 || res.Snapshot.Valid[0] != "http://c.com" {
		t.Fatalf("valid list should be exactly the latest verdict, got %v", res.Snapshot.Valid)
	}
	if len(res.Snapshot.Invalid) != 0 || res.Snapshot.InvalidBadgeVisible {
		t.Fatalf("invalid list should be replaced by the empty verdict")
	}
}

func TestValidateBlankTextSkipsNetwork(t *testing.T) {
	t.Parallel()
	client := &fakeURLList{classify: splitClassifier}
	h := newHarness(client, fakeFiles{})
	ctx := context.Background()
	_, _ = h.selectors.SetPasteText(ctx, "http://a.com")
	h.ingestion.ValidateURLList(ctx)

	for _, blank := range []string{"", "   ", "\n\t \n"} {
		_, _ = h.selectors.SetPasteText(ctx, blank)
		res := h.ingestion.ValidateURLList(ctx)
		if !res.Skipped {
			t.Fatalf("blank text %q should skip", blank)
		}
		if res.Snapshot.StatsVisible {
			t.Fatalf("stats panel should be hidden for %q", blank)
		}
	}
	if client.classifyCall != 1 {
		t.Fatalf("expected exactly one classify call, got %d", client.classifyCall)
	}
}

func TestValidateFailureKeepsLastKnownGood(t *testing.T) {
	t.Parallel()
	fail := false
	client := &fakeURLList{classify: func(text string) (listmodeout.ClassifyResult, error) {
		if fail {
			return listmodeout.ClassifyResult{}, errors.New("connection refused")
		}
		return splitClassifier(text)
	}}
	h := newHarness(client, fakeFiles{})
	ctx := context.Background()
	_, _ = h.selectors.SetPasteText(ctx, "http://a.com")
	h.ingestion.ValidateURLList(ctx)

	fail = true
	_, _ = h.selectors.SetPasteText(ctx, "http://z.com")
	res := h.ingestion.ValidateURLList(ctx)
	if res.Err == nil || res.Applied {
		t.Fatalf("transport failure should be reported, got %+v", res)
	}
	if got := h.state.Snapshot().Valid; len(got) != 1 || got[0] != "http://a.com" {
		t.Fatalf("lists should be untouched after failure, got %v", got)
	}
	if len(h.notifier.got) != 0 {
		t.Fatalf("paste failures must not notify, got %+v", h.notifier.got)
	}
}

func TestValidateRejectedKeepsState(t *testing.T) {
	t.Parallel()
	client := &fakeURLList{classify: func(string) (listmodeout.ClassifyResult, error) {
		return listmodeout.ClassifyResult{Success: false, Error: "URL text is required"}, nil
	}}
	h := newHarness(client, fakeFiles{})
	ctx := context.Background()
	_, _ = h.selectors.SetPasteText(ctx, "anything")
	res := h.ingestion.ValidateURLList(ctx)
	if !errors.Is(res.Err, domain.ErrServiceRejected) {
		t.Fatalf("expected rejection error, got %v", res.Err)
	}
	if res.Snapshot.StatsVisible || len(res.Snapshot.Valid) != 0 {
		t.Fatalf("rejected verdict must not change state: %+v", res.Snapshot)
	}
}

func TestValidateRefreshesCollapsedCount(t *testing.T) {
	t.Parallel()
	refresher := &fakeRefresher{}
	h := newHarness(&fakeURLList{classify: splitClassifier}, fakeFiles{}, service.WithCountRefresher(refresher))
	ctx := context.Background()
	_, _ = h.selectors.SetPasteText(ctx, "http://a.com\nhttp://b.com")
	h.ingestion.ValidateURLList(ctx)
	if refresher.calls != 1 {
		t.Fatalf("expected one count refresh, got %d", refresher.calls)
	}
}

func TestValidateWithoutRefresherIsTolerated(t *testing.T) {
	t.Parallel()
	state := service.NewStateService(domain.NewStore(domain.Initial()), nil, nil)
	svc := service.NewIngestionService(state, &fakeURLList{classify: splitClassifier}, fakeFiles{})
	_, _ = service.NewSelectorService(state).SetPasteText(context.Background(), "http://a.com")
	if res := svc.ValidateURLList(context.Background()); !res.Applied {
		t.Fatalf("validation should apply without optional collaborators: %+v", res)
	}
}

func TestCollapsedLabelFollowsValidation(t *testing.T) {
	t.Parallel()
	h := newHarness(&fakeURLList{classify: splitClassifier}, fakeFiles{})
	ctx := context.Background()
	if _, err := h.collapse.Collapse(ctx); err != nil {
		t.Fatalf("collapse: %v", err)
	}
	_, _ = h.selectors.SetPasteText(ctx, "http://1.com\nhttp://2.com\nhttp://3.com\nhttp://4.com\nhttp://5.com")
	res := h.ingestion.ValidateURLList(ctx)
	if res.Snapshot.CollapseLabel != "5 URLs" {
		t.Fatalf("expected collapsed label to track validation, got %q", res.Snapshot.CollapseLabel)
	}
}

func TestUploadRewritesPasteTextAndSwitchesTab(t *testing.T) {
	t.Parallel()
	client := &fakeURLList{
		classify: splitClassifier,
		upload: func(name, body string) (listmodeout.UploadResult, error) {
			res, _ := splitClassifier(body)
			return listmodeout.UploadResult{Success: true, Valid: res.Valid, Invalid: res.Invalid}, nil
		},
	}
	history := &fakeHistory{}
	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	h := newHarness(client, fakeFiles{content: "http://a.com\nhttp://b.com/x\nbroken"}, service.WithHistory(history, clock.Fixed{At: at}, fakeIDs{}))
	ctx := context.Background()
	_, _ = h.selectors.SwitchCrawlMode(ctx, domain.CrawlModeList)
	_, _ = h.selectors.SwitchListTab(ctx, domain.ListTabUpload)

	res := h.ingestion.HandleFileUpload(ctx, "urls.txt")
	if !res.Applied || res.Err != nil {
		t.Fatalf("expected applied upload, got %+v", res)
	}
	s := res.Snapshot
	if s.PasteText != domain.JoinURLs(s.Valid) || s.PasteText != "http://a.com\nhttp://b.com/x" {
		t.Fatalf("paste text should be the newline-joined valid list, got %q", s.PasteText)
	}
	if s.Tab != domain.ListTabPaste {
		t.Fatalf("upload should bring the paste tab forward, got %s", s.Tab)
	}
	if s.File == nil || s.File.Name != "urls.txt" || !s.FileInfoVisible {
		t.Fatalf("file info should be recorded: %+v", s.File)
	}
	if client.uploadCall != 1 || client.classifyCall != 1 {
		t.Fatalf("expected upload then one re-validation, got upload=%d classify=%d", client.uploadCall, client.classifyCall)
	}
	if !s.StatsVisible || s.Stats.ValidCount != 2 || s.Stats.UniqueDomains != 2 {
		t.Fatalf("stats should come from the re-validation pass: %+v", s.Stats)
	}
	if len(h.notifier.got) != 1 || h.notifier.got[0].kind != domain.NotifySuccess || h.notifier.got[0].msg != "Loaded 2 valid URLs from urls.txt" {
		t.Fatalf("unexpected notifications %+v", h.notifier.got)
	}
	if len(history.entries) != 1 || history.entries[0].Source != domain.SourceUpload || history.entries[0].FileName != "urls.txt" || !history.entries[0].CreatedAt.Equal(at) {
		t.Fatalf("unexpected history %+v", history.entries)
	}
}

func TestUploadOfCleanFileHidesStaleBadge(t *testing.T) {
	t.Parallel()
	client := &fakeURLList{
		classify: splitClassifier,
		upload: func(string, string) (listmodeout.UploadResult, error) {
			return listmodeout.UploadResult{Success: true, Valid: []string{"http://ok.com"}, Invalid: []string{}}, nil
		},
	}
	h := newHarness(client, fakeFiles{content: "http://ok.com"})
	ctx := context.Background()
	_, _ = h.selectors.SetPasteText(ctx, "http://a.com\nnope")
	if !h.ingestion.ValidateURLList(ctx).Snapshot.InvalidBadgeVisible {
		t.Fatalf("precondition: badge should be visible after a dirty paste")
	}
	res := h.ingestion.HandleFileUpload(ctx, "clean.txt")
	if res.Snapshot.InvalidBadgeVisible || len(res.Snapshot.Invalid) != 0 {
		t.Fatalf("clean upload must supersede the old badge: %+v", res.Snapshot)
	}
}

func TestUploadWithoutFileIsNoop(t *testing.T) {
	t.Parallel()
	client := &fakeURLList{classify: splitClassifier}
	h := newHarness(client, fakeFiles{})
	res := h.ingestion.HandleFileUpload(context.Background(), "  ")
	if !res.NoFile || client.uploadCall != 0 || len(h.notifier.got) != 0 {
		t.Fatalf("missing file should be ignored silently: %+v", res)
	}
}

func TestUploadFailuresNotifyAndKeepState(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		upload func(string, string) (listmodeout.UploadResult, error)
		files  fakeFiles
		want   string
	}{
		{
			name:   "server message",
			upload: func(string, string) (listmodeout.UploadResult, error) { return listmodeout.UploadResult{Error: "Only .txt files are supported"}, nil },
			want:   "Only .txt files are supported",
		},
		{
			name:   "fallback message",
			upload: func(string, string) (listmodeout.UploadResult, error) { return listmodeout.UploadResult{}, nil },
			want:   "Failed to upload file",
		},
		{
			name:   "transport",
			upload: func(string, string) (listmodeout.UploadResult, error) { return listmodeout.UploadResult{}, errors.New("EOF") },
			want:   "Error uploading file",
		},
		{
			name:  "unreadable file",
			files: fakeFiles{err: errors.New("permission denied")},
			want:  "Error uploading file",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := &fakeURLList{classify: splitClassifier, upload: tc.upload}
			h := newHarness(client, tc.files)
			ctx := context.Background()
			_, _ = h.selectors.SetPasteText(ctx, "http://keep.com")
			h.ingestion.ValidateURLList(ctx)
			_, _ = h.selectors.SwitchListTab(ctx, domain.ListTabUpload)

			res := h.ingestion.HandleFileUpload(ctx, "urls.txt")
			if res.Err == nil || res.Applied {
				t.Fatalf("expected failure, got %+v", res)
			}
			if len(h.notifier.got) != 1 || h.notifier.got[0].msg != tc.want || h.notifier.got[0].kind != domain.NotifyError {
				t.Fatalf("unexpected notifications %+v", h.notifier.got)
			}
			s := h.state.Snapshot()
			if len(s.Valid) != 1 || s.Valid[0] != "http://keep.com" || s.Tab != domain.ListTabUpload || s.FileInfoVisible {
				t.Fatalf("failed upload must not change state: %+v", s)
			}
		})
	}
}

func TestClearFileEmptiesLists(t *testing.T) {
	t.Parallel()
	client := &fakeURLList{
		classify: splitClassifier,
		upload: func(string, string) (listmodeout.UploadResult, error) {
			return listmodeout.UploadResult{Success: true, Valid: []string{"http://a.com"}, Invalid: []string{"bad"}}, nil
		},
	}
	h := newHarness(client, fakeFiles{content: "x"})
	ctx := context.Background()
	h.ingestion.HandleFileUpload(ctx, "urls.txt")

	s, err := h.ingestion.ClearFile(ctx)
	if err != nil {
		t.Fatalf("clear file: %v", err)
	}
	if len(s.Valid) != 0 || len(s.Invalid) != 0 || s.FileInfoVisible || s.File != nil {
		t.Fatalf("clear file should reset lists and file info: %+v", s)
	}

	s, _ = h.ingestion.ClearFile(ctx)
	if len(s.Valid) != 0 || s.FileInfoVisible {
		t.Fatalf("clear file on empty state should stay empty")
	}
}

func TestStaleClassificationIsDiscarded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var h harness
	nested := false
	client := &fakeURLList{}
	client.classify = func(text string) (listmodeout.ClassifyResult, error) {
		if !nested {
			nested = true
			// A newer request is issued and resolves before this one returns.
			_, _ = h.selectors.SetPasteText(ctx, "http://newer.com")
			h.ingestion.ValidateURLList(ctx)
		}
		return splitClassifier(text)
	}
	h = newHarness(client, fakeFiles{})
	_, _ = h.selectors.SetPasteText(ctx, "http://older.com")

	res := h.ingestion.ValidateURLList(ctx)
	if !res.Stale || !errors.Is(res.Err, domain.ErrStaleResponse) {
		t.Fatalf("older response should be stale, got %+v", res)
	}
	if got := h.state.Snapshot().Valid; len(got) != 1 || got[0] != "http://newer.com" {
		t.Fatalf("newest verdict must win, got %v", got)
	}
}

func TestClearFileRetiresInFlightUpload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var h harness
	client := &fakeURLList{classify: splitClassifier}
	client.upload = func(string, string) (listmodeout.UploadResult, error) {
		_, _ = h.ingestion.ClearFile(ctx)
		return listmodeout.UploadResult{Success: true, Valid: []string{"http://late.com"}}, nil
	}
	h = newHarness(client, fakeFiles{content: "http://late.com"})

	res := h.ingestion.HandleFileUpload(ctx, "urls.txt")
	if !res.Stale {
		t.Fatalf("upload resolved after clear should be stale: %+v", res)
	}
	if len(h.state.Snapshot().Valid) != 0 {
		t.Fatalf("cleared lists must stay empty")
	}
}
