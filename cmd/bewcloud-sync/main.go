// Command bewcloud-sync pairs bewCloud folders with local folders and keeps
// them in sync through rclone bisync.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/discovery"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/rclone"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/storage"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/ui"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/ui/views"
)

const logFileName = "bewcloud-sync.log"

type cli struct {
	DataDir     string `help:"Directory holding config.json (default: the user config directory)" env:"BEWCLOUD_SYNC_DATA_DIR" type:"path"`
	LogFile     string `help:"Log file (default: <data-dir>/bewcloud-sync.log)" env:"BEWCLOUD_SYNC_LOG_FILE" type:"path"`
	Rclone      string `help:"rclone binary to run" env:"BEWCLOUD_SYNC_RCLONE" default:"rclone"`
	RcloneFlags string `help:"Extra flags appended to every bisync run, shell quoted" env:"BEWCLOUD_SYNC_RCLONE_FLAGS"`

	UI   uiCmd   `cmd:"" default:"1" help:"Open the terminal UI"`
	Sync syncCmd `cmd:"" help:"Sync every configured account and exit"`
	List listCmd `cmd:"" help:"List configured accounts"`
}

type environment struct {
	repo *storage.LocalRepository
	host *rclone.Host
}

func (c *cli) setup() (*environment, error) {
	repo, err := storage.NewLocalRepository(c.DataDir)
	if err != nil {
		return nil, err
	}

	logPath := c.LogFile
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(repo.Path()), logFileName)
	}
	if err := logger.Init(logPath); err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	flags, err := rclone.ParseFlags(c.RcloneFlags)
	if err != nil {
		return nil, err
	}

	host := rclone.NewHost(repo,
		rclone.WithBinary(c.Rclone),
		rclone.WithBisyncFlags(flags),
	)

	return &environment{repo: repo, host: host}, nil
}

type uiCmd struct{}

func (uiCmd) Run(env *environment) error {
	alerts := ui.NewAlertQueue()
	client := discovery.NewClient(discovery.WithAlerter(alerts))

	deps := ui.Dependencies{
		Repository:   env.repo,
		Host:         env.host,
		Discoverer:   client,
		Alerts:       alerts,
		SyncEvents:   env.host.SyncEvents(),
		SettingsPath: env.repo.Path(),
	}

	watcher, err := storage.NewWatcher(env.repo.Path())
	if err != nil {
		logger.LogError("WATCH", env.repo.Path(), err)
	} else {
		defer watcher.Close()
		deps.Changes = watcher.Changes()
	}

	p := tea.NewProgram(ui.NewModel(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if env.host.IsSyncing() {
		fmt.Println("Waiting for the running sync to finish...")
	}
	env.host.Wait()
	return nil
}

type syncCmd struct{}

func (syncCmd) Run(env *environment) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	config, err := env.repo.Load()
	if err != nil {
		return err
	}
	if config.IsEmpty() {
		fmt.Println("No configured accounts found.")
		return nil
	}

	fmt.Printf("Syncing %d accounts...\n", len(config.Accounts))
	if err := env.host.RunSyncAndWait(ctx); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	fmt.Println("Sync finished.")
	return nil
}

type listCmd struct{}

func (listCmd) Run(env *environment) error {
	config, err := env.repo.Load()
	if err != nil {
		return err
	}
	if config.IsEmpty() {
		fmt.Println("No configured accounts found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLOCAL DIRECTORY\tREMOTE DIRECTORIES\tLAST SYNC")
	for _, account := range config.Accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			account.RemoteName,
			account.LocalDirectory,
			strings.Join(account.RemoteDirectories, ", "),
			views.FormatLastSync(account.LastSyncTime),
		)
	}
	return w.Flush()
}

func main() {
	var params cli
	kctx := kong.Parse(&params,
		kong.Name("bewcloud-sync"),
		kong.Description("Sync bewCloud folders with local folders using rclone."),
		kong.UsageOnError(),
	)

	env, err := params.setup()
	kctx.FatalIfErrorf(err)

	err = kctx.Run(env)
	logger.Close()
	kctx.FatalIfErrorf(err)
}
