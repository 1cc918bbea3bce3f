package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"crawlprep/internal/bootstrap"
	listmodedto "crawlprep/internal/modules/listmode/dto"
	"crawlprep/internal/platform/config"
	apperrors "crawlprep/internal/platform/errors"
	"crawlprep/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	workDir   string
	serverURL string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "crawlprep",
		Short:         "Prepare crawl targets: classify URL lists and hand them to the crawler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.workDir, "workdir", ".", "directory holding .crawlprep state")
	root.PersistentFlags().StringVar(&flags.serverURL, "server", "", "crawler server base URL (overrides config)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newModeCmd(flags))
	root.AddCommand(newTabCmd(flags))
	root.AddCommand(newSeedCmd(flags))
	root.AddCommand(newListCmd(flags))
	root.AddCommand(newPanelCmds(flags)...)
	root.AddCommand(newCrawlCmd(flags))
	return root
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.New(flags.workDir)
	if err != nil {
		return config.Config{}, err
	}
	if s := strings.TrimSpace(flags.serverURL); s != "" {
		cfg.Server.BaseURL = strings.TrimRight(s, "/")
	}
	if l := strings.TrimSpace(flags.logLevel); l != "" {
		cfg.LogLevel = l
	}
	return cfg, nil
}

// loadApp wires the CLI flavour: logs on stderr, notifications on out.
func loadApp(flags *rootFlags, out io.Writer) (*bootstrap.App, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, bootstrap.Options{
		Logger:   logging.New(os.Stderr, cfg.LogLevel),
		NotifyTo: out,
	})
}

func withApp(flags *rootFlags, fn func(cmd *cobra.Command, args []string, app *bootstrap.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(flags, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd, args, app)
	}
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the crawlprep terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger, closer, err := logging.NewFile(cfg.LogPath, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer closer.Close()
			app, err := bootstrap.New(cfg, bootstrap.Options{Logger: logger})
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newModeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "mode <standard|list>",
		Short:     "Select the crawl mode",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"standard", "list"},
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.ListModeCLI.SwitchMode(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mode=%s\n", out.Mode)
			return nil
		}),
	}
}

func newTabCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "tab <paste|upload>",
		Short:     "Select the list input tab",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"paste", "upload"},
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.ListModeCLI.SwitchTab(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tab=%s\n", out.Tab)
			return nil
		}),
	}
}

func newSeedCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <url>",
		Short: "Set the standard-mode seed URL",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.ListModeCLI.SetSeed(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seed=%s\n", out.SeedURL)
			return nil
		}),
	}
}

func newListCmd(flags *rootFlags) *cobra.Command {
	list := &cobra.Command{Use: "list", Short: "URL list ingestion"}

	var fromStdin bool
	validate := &cobra.Command{
		Use:   "validate [url...]",
		Short: "Classify pasted URLs (one per argument, --stdin, or the stored paste text)",
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			var res listmodedto.ValidateOutput
			if len(args) == 0 && !fromStdin {
				// No new input: classify whatever the paste field already holds.
				res = app.ListModeCLI.Revalidate(context.Background())
			} else {
				text := strings.Join(args, "\n")
				if fromStdin {
					raw, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
					text = string(raw)
				}
				var err error
				res, err = app.ListModeCLI.Validate(context.Background(), text)
				if err != nil {
					return err
				}
			}
			if res.Skipped {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing to validate")
				return nil
			}
			if res.Err != nil {
				return res.Err
			}
			printStats(cmd.OutOrStdout(), res.Snapshot)
			return nil
		}),
	}
	validate.Flags().BoolVar(&fromStdin, "stdin", false, "read the URL list from stdin")

	upload := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a .txt URL list file",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			res := app.ListModeCLI.Upload(context.Background(), path)
			if res.NoFile {
				return apperrors.ErrNoFileChosen
			}
			if !res.Applied {
				return res.Err
			}
			printStats(cmd.OutOrStdout(), res.Snapshot)
			return nil
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the uploaded file and empty both lists",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if _, err := app.ListModeCLI.ClearFile(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cleared")
			return nil
		}),
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current ingestion state",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			snap := app.ListModeCLI.Show(context.Background())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		}),
	}
	show.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recent applied classifications",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			entries, err := app.ListModeCLI.History(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no ingestions")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tvalid=%d invalid=%d domains=%d\t%s\n",
					e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), e.Source, e.FileName, e.ValidCount, e.InvalidCount, e.UniqueDomains, e.ID)
			}
			return nil
		}),
	}
	history.Flags().IntVar(&limit, "limit", 20, "maximum entries")

	list.AddCommand(validate, upload, clearCmd, show, history)
	return list
}

// newPanelCmds builds collapse, expand and toggle for the list panel.
func newPanelCmds(flags *rootFlags) []*cobra.Command {
	var cmds []*cobra.Command
	for _, action := range []string{"collapse", "expand", "toggle"} {
		cmds = append(cmds, &cobra.Command{
			Use:   action,
			Short: strings.ToUpper(action[:1]) + action[1:] + " the list panel",
			RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
				out, err := app.ListModeCLI.Collapse(context.Background(), action)
				if err != nil {
					return err
				}
				if out.Collapsed {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "collapsed %s\n", out.CollapseLabel)
				} else {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "expanded")
				}
				return nil
			}),
		})
	}
	return cmds
}

func newCrawlCmd(flags *rootFlags) *cobra.Command {
	crawl := &cobra.Command{Use: "crawl", Short: "Crawl handoff"}
	crawl.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start a crawl from the seed URL or the validated list",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out, err := app.CrawlCLI.Start(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "crawl started mode=%s targets=%d %s\n", out.Mode, out.Size, out.Message)
			return nil
		}),
	})
	return crawl
}

func printStats(w io.Writer, s listmodedto.SnapshotOutput) {
	_, _ = fmt.Fprintf(w, "valid=%d invalid=%d domains=%d\n", s.Stats.ValidCount, s.Stats.InvalidCount, s.Stats.UniqueDomains)
	if s.InvalidBadgeVisible {
		for _, u := range s.InvalidURLs {
			_, _ = fmt.Fprintf(w, "invalid: %s\n", u)
		}
	}
}

func printSnapshot(w io.Writer, s listmodedto.SnapshotOutput) {
	_, _ = fmt.Fprintf(w, "mode: %s\n", s.Mode)
	if s.StandardPanelVisible {
		_, _ = fmt.Fprintf(w, "seed: %s\n", s.SeedURL)
		return
	}
	if s.Collapsed {
		_, _ = fmt.Fprintf(w, "panel: collapsed (%s)\n", s.CollapseLabel)
	} else {
		_, _ = fmt.Fprintf(w, "tab: %s\n", s.Tab)
	}
	if s.FileInfoVisible {
		_, _ = fmt.Fprintf(w, "file: %s\n", s.FileName)
	}
	if s.StatsVisible {
		printStats(w, s)
	}
	for _, u := range s.ValidURLs {
		_, _ = fmt.Fprintln(w, u)
	}
}
