// Package cmd implements the CLI command structure for taskboard.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/datadir"
	"github.com/nibzard/taskboard/internal/kv"
	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/todo"
	"github.com/nibzard/taskboard/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskboard CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

// app carries what every subcommand needs.
type app struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	a := &app{cws: cws, cfg: cws.Config, stdout: stdout, stderr: stderr}
	if *showVersion {
		return a.versionCommand()
	}

	// Determine the subcommand
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	// Execute the subcommand
	switch subcommand {
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "ls", "list":
		return a.lsCommand(remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "toggle":
		return a.toggleCommand(remainingArgs)
	case "rm", "remove":
		return a.removeCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "logs":
		return a.logsCommand(remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// logOptions returns logger options from the loaded config.
func (a *app) logOptions() logging.Options {
	return logging.OptionsFromConfig(a.cfg.LogLevel, a.cfg.LogFormat, a.cfg.LogTimestamps, a.cfg.LogCaller)
}

// board is an open Store together with the storage behind it.
type board struct {
	store   *todo.Store
	storage kv.Storage
}

func (b *board) Close() error {
	return b.storage.Close()
}

// openBoard opens the configured storage backend and hydrates a Store from
// the configured slot.
func (a *app) openBoard(logger *log.Logger) (*board, error) {
	storage, err := kv.Open(a.cfg.Storage, a.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	slot, err := todo.NewSlotPersistence(storage, a.cfg.Slot)
	if err != nil {
		storage.Close()
		return nil, err
	}
	logger.Debug("Opened storage", "backend", a.cfg.Storage, "location", kv.Location(a.cfg.Storage, a.cfg.DataDir), "slot", slot.Key())
	store := todo.New(slot, todo.WithLogger(logger))
	return &board{store: store, storage: storage}, nil
}

// tuiCommand launches the interactive board. Logs go to a session file since
// the terminal belongs to the UI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskboard tui", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	filter := fs.String("filter", a.cfg.Filter, "Initial filter (all, active, completed)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	mode, err := todo.ParseFilterMode(*filter)
	if err != nil {
		return err
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY (try 'taskboard ls')")
	}

	session, err := logging.OpenSession(datadir.LogsPath(a.cfg.DataDir), a.logOptions())
	if err != nil {
		return fmt.Errorf("opening session log: %w", err)
	}
	defer session.Close()
	session.Logger.Info("Starting TUI", "storage", a.cfg.Storage, "slot", a.cfg.Slot, "filter", mode)

	b, err := a.openBoard(session.Logger)
	if err != nil {
		return err
	}
	defer b.Close()

	err = ui.RunTUI(ctx, b.store, ui.WithFilter(mode))
	if err != nil {
		session.Logger.Error("TUI exited", "err", err)
		return err
	}
	session.Logger.Info("TUI exited", "tasks", b.store.Len())
	return nil
}

// lsCommand prints the visible rows under a filter.
func (a *app) lsCommand(args []string) error {
	fs := flag.NewFlagSet("taskboard ls", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	filter := fs.String("filter", a.cfg.Filter, "Filter (all, active, completed)")
	asJSON := fs.Bool("json", false, "Print the visible tasks as a JSON array")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		*filter = remaining[0]
	}
	mode, err := todo.ParseFilterMode(*filter)
	if err != nil {
		return err
	}

	b, err := a.openBoard(logging.New(a.stderr, a.logOptions()))
	if err != nil {
		return err
	}
	defer b.Close()

	visible := todo.Visible(b.store.Tasks(), mode)
	if *asJSON {
		data, err := todo.Encode(visible)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(data))
		return nil
	}

	if len(visible) == 0 {
		fmt.Fprintln(a.stdout, "No tasks.")
		return nil
	}
	for _, t := range visible {
		fmt.Fprintln(a.stdout, formatTask(t))
	}
	counts := todo.CountTasks(b.store.Tasks())
	fmt.Fprintf(a.stdout, "\n%d shown (%d active, %d completed)\n", len(visible), counts.Active, counts.Completed)
	return nil
}

// addCommand adds one task. A rejected task is not an error.
func (a *app) addCommand(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: taskboard add <text> <date>")
	}

	logger := logging.New(a.stderr, a.logOptions())
	b, err := a.openBoard(logger)
	if err != nil {
		return err
	}
	defer b.Close()

	t, ok := b.store.Add(args[0], args[1])
	if !ok {
		logger.Info("Task not added: text and date must both be non-empty")
		return nil
	}
	fmt.Fprintf(a.stdout, "Added %d\n", t.ID)
	return nil
}

// toggleCommand flips the completed flag of one task.
func (a *app) toggleCommand(args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	logger := logging.New(a.stderr, a.logOptions())
	b, err := a.openBoard(logger)
	if err != nil {
		return err
	}
	defer b.Close()

	if !b.store.ToggleComplete(id) {
		logger.Debug("No task with id", "id", id)
		return nil
	}
	t, _ := b.store.Get(id)
	fmt.Fprintln(a.stdout, formatTask(t))
	return nil
}

// removeCommand deletes one task.
func (a *app) removeCommand(args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	logger := logging.New(a.stderr, a.logOptions())
	b, err := a.openBoard(logger)
	if err != nil {
		return err
	}
	defer b.Close()

	if !b.store.Remove(id) {
		logger.Debug("No task with id", "id", id)
		return nil
	}
	fmt.Fprintf(a.stdout, "Removed %d\n", id)
	return nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one task id")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

// doctorCommand reports configuration, storage and slot health.
func (a *app) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("taskboard doctor", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := a.stdout
	fmt.Fprintln(w, "TaskBoard Doctor")
	fmt.Fprintln(w, "================")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	if file := a.cws.GetConfigFile(); file != "" {
		fmt.Fprintf(w, "  File: %s\n", file)
	} else {
		fmt.Fprintln(w, "  File: (none)")
	}
	values := map[string]string{
		"data_dir":       a.cfg.DataDir,
		"slot":           a.cfg.Slot,
		"storage":        a.cfg.Storage,
		"filter":         a.cfg.Filter,
		"log_level":      a.cfg.LogLevel,
		"log_format":     a.cfg.LogFormat,
		"log_timestamps": strconv.FormatBool(a.cfg.LogTimestamps),
		"log_caller":     strconv.FormatBool(a.cfg.LogCaller),
	}
	for _, field := range config.ConfigFields() {
		fmt.Fprintf(w, "  %-15s %-30s (%s)\n", field, values[field], a.cws.Source(field))
	}
	fmt.Fprintln(w)

	// Storage
	fmt.Fprintf(w, "Storage: %s at %s\n", a.cfg.Storage, kv.Location(a.cfg.Storage, a.cfg.DataDir))
	storage, err := kv.Open(a.cfg.Storage, a.cfg.DataDir)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "⚠️  Some checks failed.")
		return fmt.Errorf("doctor checks failed")
	}
	defer storage.Close()
	fmt.Fprintln(w, "  ✅ OK")
	fmt.Fprintln(w)

	// Slot
	slot, err := todo.NewSlotPersistence(storage, a.cfg.Slot)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Slot: %s\n", slot.Key())
	raw, present, err := slot.Raw()
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case !present:
		fmt.Fprintln(w, "  ⚠️  Not found (starts empty, created on first change)")
	default:
		result := todo.Validate([]byte(raw))
		if result.Valid {
			tasks, _ := todo.Decode([]byte(raw))
			counts := todo.CountTasks(tasks)
			fmt.Fprintf(w, "  ✅ Valid: %d tasks (%d active, %d completed)\n", counts.All, counts.Active, counts.Completed)
			if *verbose {
				for _, t := range tasks {
					fmt.Fprintln(w, "  "+formatTask(t))
				}
			}
		} else {
			fmt.Fprintln(w, "  ❌ Invalid (the board will start empty and overwrite it on the next change):")
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			allOK = false
		}
	}
	fmt.Fprintln(w)

	// Logs
	logDir := datadir.LogsPath(a.cfg.DataDir)
	fmt.Fprintf(w, "Log directory: %s\n", logDir)
	if _, err := os.Stat(logDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (created by the first TUI session)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// logsCommand prints the tail of the most recent session log.
func (a *app) logsCommand(args []string) error {
	fs := flag.NewFlagSet("taskboard logs", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	n := fs.Int("n", 50, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatestLog(datadir.LogsPath(a.cfg.DataDir))
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(a.stdout, "No log files found.")
		return nil
	}
	fmt.Fprintf(a.stdout, "Log: %s\n\n", logPath)
	return logging.TailLog(a.stdout, logPath, *n)
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "taskboard version %s\n", Version)
	return nil
}

func formatTask(t todo.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	return fmt.Sprintf("%s %d  %s  (%s)", box, t.ID, t.Text, t.Date)
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "TaskBoard - a small task list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskboard [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                  Interactive board (default command)")
	fmt.Fprintln(w, "  ls [filter]          List tasks (--filter all|active|completed, --json)")
	fmt.Fprintln(w, "  add <text> <date>    Add a task")
	fmt.Fprintln(w, "  toggle <id>          Mark a task completed or active")
	fmt.Fprintln(w, "  rm <id>              Remove a task")
	fmt.Fprintln(w, "  doctor               Check config, storage and the stored slot")
	fmt.Fprintln(w, "  logs [-n N]          Show the latest TUI session log")
	fmt.Fprintln(w, "  version              Show version")
	fmt.Fprintln(w, "  help                 Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  TASKBOARD_CONFIG     Explicit config file")
	fmt.Fprintln(w, "  TASKBOARD_DATA_DIR, TASKBOARD_SLOT, TASKBOARD_STORAGE, TASKBOARD_FILTER")
	fmt.Fprintln(w, "  TASKBOARD_LOG_LEVEL, TASKBOARD_LOG_FORMAT, TASKBOARD_LOG_TIMESTAMPS, TASKBOARD_LOG_CALLER")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Example config:")
	fmt.Fprint(w, indent(config.ExampleConfig(), "  "))
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(prefix + line)
	}
	return b.String()
}
