package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/plannerd/internal/config"
	"github.com/sandeepkv93/plannerd/internal/grid"
	"github.com/sandeepkv93/plannerd/internal/logging"
	"github.com/sandeepkv93/plannerd/internal/materialize"
	"github.com/sandeepkv93/plannerd/internal/scheduler"
	"github.com/sandeepkv93/plannerd/internal/storage"
	"github.com/sandeepkv93/plannerd/internal/update"
)

const defaultConfigPath = "plannerd.yaml"

// App carries the persistent flags shared by every subcommand.
type App struct {
	ConfigPath string
	DBPath     string
	Now        func() time.Time
}

// session is everything a command needs once config is loaded.
type session struct {
	cfg     *config.Config
	log     *slog.Logger
	repo    *storage.SQLiteRepository
	planner *materialize.Materializer
	loc     *time.Location
	closers []io.Closer
}

func (r *session) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func NewRootCmd() *cobra.Command {
	app := &App{Now: time.Now}

	cmd := &cobra.Command{
		Use:          "plannerd",
		Short:        "Drag-and-drop planner for tasks and calendar events",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive planner
  plannerd

  # Serve the HTTP API
  plannerd serve --listen 127.0.0.1:8080

  # Export this week as an iCalendar file
  plannerd export ics --view week --dir ./out
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("PLANNERD_CONFIG", defaultConfigPath), "config file path")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", "", "sqlite database path (overrides config)")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newMigrateCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newOrphansCmd(app))
	return cmd
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "plannerd: %v\n", err)
		return 1
	}
	return 0
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

// loadConfig reads the config file and applies flag overrides.
func (a *App) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if a.DBPath != "" {
		cfg.DBPath = a.DBPath
	}
	return cfg, nil
}

// open loads config, opens the store and builds the planner. Migrations run
// unless the caller manages them itself.
func (a *App) open(stderrLogs, migrate bool) (*session, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	rt := &session{cfg: cfg}

	logPath := cfg.LogFile
	var logger *slog.Logger
	if logPath == "" && stderrLogs {
		logger = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	} else {
		var closer io.Closer
		logger, closer, err = logging.Open(cfg.LogLevel, cfg.LogFormat, logPath)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		rt.closers = append(rt.closers, closer)
	}
	rt.log = logger

	if rt.loc, err = cfg.Location(); err != nil {
		_ = rt.Close()
		return nil, err
	}

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	rt.repo = repo
	rt.closers = append(rt.closers, repo)
	if migrate {
		if err := storage.MigrateUp(repo.DB()); err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	rt.planner, err = materialize.New(repo, materialize.Options{
		OwnerID:  cfg.OwnerID,
		Location: rt.loc,
		Logger:   logger,
		Now:      a.Now,
	})
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	logger.Debug("planner opened", "db", cfg.DBPath, "owner", cfg.OwnerID, "tz", rt.loc.String())
	return rt, nil
}

func runTUI(ctx context.Context, app *App) error {
	rt, err := app.open(false, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	var engine *scheduler.Engine
	if rt.cfg.Alerts {
		engine = scheduler.NewEngine(rt.cfg.SchedulerBuffer)
		engine.Start()
		defer engine.Stop()
	}

	m := update.NewModel(update.Options{
		Planner:      rt.planner,
		Scheduler:    engine,
		Logger:       rt.log,
		View:         grid.ViewWeek,
		WeekStart:    grid.ParseWeekStart(rt.cfg.WeekStart),
		RowsPerHour:  rt.cfg.HourHeight,
		DayStartHour: rt.cfg.DayStartHour,
		DayEndHour:   rt.cfg.DayEndHour,
		ExportLabel:  rt.cfg.ExportLabel,
		AlertLead:    rt.cfg.AlertLead(),
		Now:          app.Now,
	})
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if ctx != nil {
		opts = append(opts, tea.WithContext(ctx))
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
