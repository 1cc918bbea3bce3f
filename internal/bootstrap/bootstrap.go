package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	crawlinadapter "crawlprep/internal/modules/crawl/adapter/in"
	crawloutadapter "crawlprep/internal/modules/crawl/adapter/out"
	crawlservice "crawlprep/internal/modules/crawl/service"
	crawlusecase "crawlprep/internal/modules/crawl/usecase"
	listmodeinadapter "crawlprep/internal/modules/listmode/adapter/in"
	listmodeoutadapter "crawlprep/internal/modules/listmode/adapter/out"
	"crawlprep/internal/modules/listmode/domain"
	listmodeout "crawlprep/internal/modules/listmode/port/out"
	listmodeservice "crawlprep/internal/modules/listmode/service"
	listmodeusecase "crawlprep/internal/modules/listmode/usecase"
	"crawlprep/internal/platform/clock"
	"crawlprep/internal/platform/config"
	"crawlprep/internal/platform/id"
	"crawlprep/internal/platform/logging"
	uiapp "crawlprep/internal/ui/app"
)

type Options struct {
	Logger *log.Logger
	// NotifyTo receives operator notifications as styled lines. When nil they
	// go to the logger instead.
	NotifyTo io.Writer
}

type App struct {
	ListModeCLI listmodeinadapter.CLIHandler
	ListModeTUI listmodeinadapter.TUIHandler
	CrawlCLI    crawlinadapter.CLIHandler
	ServerURL   string

	closers []io.Closer
}

func New(cfg config.Config, opts Options) (*App, error) {
	ctx := context.Background()
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	state := listmodeservice.NewStateService(
		domain.NewStore(domain.Initial()),
		listmodeoutadapter.NewFileSnapshotRepository(cfg.StatePath),
		logger,
	)
	if err := state.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore list mode state: %w", err)
	}

	history, err := listmodeoutadapter.NewSQLiteHistoryProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new history projector: %w", err)
	}

	var notifier listmodeout.Notifier
	if opts.NotifyTo != nil {
		notifier = listmodeoutadapter.NewWriterNotifier(opts.NotifyTo)
	} else {
		notifier = listmodeoutadapter.NewLogNotifier(logger)
	}

	collapse := listmodeservice.NewCollapseService(state)
	ingestion := listmodeservice.NewIngestionService(
		state,
		listmodeoutadapter.NewHTTPURLListClient(
			cfg.Endpoint(cfg.Server.ParsePath),
			cfg.Endpoint(cfg.Server.UploadPath),
			listmodeoutadapter.WithTimeout(cfg.Server.Timeout),
		),
		listmodeoutadapter.NewLocalFileOpener(),
		listmodeservice.WithNotifier(notifier),
		listmodeservice.WithCountRefresher(collapse),
		listmodeservice.WithHistory(history, clock.SystemClock{}, id.UUID{}),
		listmodeservice.WithLogger(logger),
	)
	listModeUC := listmodeusecase.NewInteractor(state, listmodeservice.NewSelectorService(state), ingestion, collapse)

	panel := crawloutadapter.NewListModeAdapter(listModeUC)
	crawlUC := crawlusecase.NewInteractor(crawlservice.NewCrawlService(
		panel,
		crawloutadapter.NewHTTPCrawlClient(cfg.Endpoint(cfg.Server.StartCrawlPath), cfg.Server.Timeout),
		panel,
		logger,
	))

	return &App{
		ListModeCLI: listmodeinadapter.NewCLIHandler(listModeUC),
		ListModeTUI: listmodeinadapter.NewTUIHandler(listModeUC),
		CrawlCLI:    crawlinadapter.NewCLIHandler(crawlUC),
		ServerURL:   cfg.Server.BaseURL,
		closers:     []io.Closer{history},
	}, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.ServerURL, app.ListModeTUI, app.CrawlCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
