// Package cli wires the application together and executes subcommands.
package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clipvault/clipvault/internal/assetstore"
	"github.com/clipvault/clipvault/internal/clipboard"
	"github.com/clipvault/clipvault/internal/clipboard/sysboard"
	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/history"
	"github.com/clipvault/clipvault/internal/record"
	"github.com/clipvault/clipvault/internal/recordlog"
	"github.com/clipvault/clipvault/internal/tui"
	"github.com/clipvault/clipvault/internal/watcher"
)

// CLI handles the command-line interface
type CLI struct {
	cfg        *config.Config
	cfgManager *config.ConfigManager
	service    *history.Service
	watcher    *watcher.Watcher
	clipboard  clipboard.Clipboard
	logger     *slog.Logger
}

// New creates a new CLI instance with default arguments.
func New() (*CLI, error) {
	return NewWithArgs(nil)
}

// NewWithArgs creates a CLI instance, resolving the config file and data
// directory from flags, environment, or defaults in that order.
func NewWithArgs(args *Args) (*CLI, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	var cfgManager *config.ConfigManager
	if args != nil && args.ConfigPath != nil {
		cfgManager = config.NewConfigManagerWithPath(*args.ConfigPath)
	} else {
		var err error
		cfgManager, err = config.NewConfigManager()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := cfgManager.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if args != nil && args.DataDir != nil {
		cfg.DataLocation = *args.DataDir
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}

	log := recordlog.New(filepath.Join(dataDir, cfg.HistoryFileName), logger)
	assets := assetstore.New(filepath.Join(dataDir, cfg.ImagesFolderName), assetstore.Options{
		FilePrefix:         cfg.FilePrefix,
		ThumbnailMaxWidth:  cfg.ThumbnailMaxWidth,
		ThumbnailMaxHeight: cfg.ThumbnailMaxHeight,
		KeepAspectRatio:    cfg.ThumbnailKeepAspectRatio,
	}, logger)

	clip := sysboard.New()

	dedup := history.NewDedupPolicy(cfg.EnableDeduplication, log, assets, logger)
	ingestor := history.NewIngestor(log, assets, dedup, history.IngestOptions{
		TextPreviewMaxLength: cfg.TextPreviewMaxLength,
		SensitiveKeywords:    cfg.SensitiveKeywords,
	}, logger)
	service := history.NewService(log, assets, clip, dedup, ingestor, history.RetentionOptions{
		MaxRecords:     cfg.MaxRecords,
		ExpirationDays: cfg.DataExpirationDays,
	}, logger)

	interval := time.Duration(cfg.PollingIntervalMS) * time.Millisecond
	w := watcher.New(clip, service, interval, logger)
	service.SetOnClear(w.ResetHistory)

	return &CLI{
		cfg:        cfg,
		cfgManager: cfgManager,
		service:    service,
		watcher:    w,
		clipboard:  clip,
		logger:     logger,
	}, nil
}

// Service exposes the history service (used by the TUI).
func (c *CLI) Service() *history.Service {
	return c.service
}

// Execute runs the CLI command based on parsed arguments
func (c *CLI) Execute(args *Args) error {
	if err := args.Validate(); err != nil {
		return err
	}

	switch {
	case args.Watch != nil:
		return c.executeWatch(args.Watch)
	case args.Add != nil:
		return c.executeAdd(args.Add)
	case args.List != nil:
		return c.executeList(args.List)
	case args.Search != nil:
		return c.executeSearch(args.Search)
	case args.Get != nil:
		return c.executeGet(args.Get)
	case args.Copy != nil:
		return c.executeCopy(args.Copy)
	case args.Delete != nil:
		return c.executeDelete(args.Delete)
	case args.Clear != nil:
		return c.executeClear(args.Clear)
	case args.Config != nil:
		return c.executeConfig(args.Config)
	default:
		return c.launchTUI()
	}
}

// executeWatch runs the polling watcher until interrupted.
func (c *CLI) executeWatch(cmd *WatchCmd) error {
	w := c.watcher
	if cmd.Interval != nil {
		w = watcher.New(c.clipboard, c.service, time.Duration(*cmd.Interval)*time.Millisecond, c.logger)
		c.service.SetOnClear(w.ResetHistory)
	}

	w.Notify = func(rec *record.Record) {
		c.logger.Info("recorded clipboard change", "id", rec.ID, "kind", rec.Kind, "preview", rec.Preview)
	}

	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	w.Stop()
	return nil
}

// executeAdd stores a payload given on the command line. Image files go
// through the same data-URL decoding the clipboard boundary applies, so a
// file holding a base64 data URL is stored as its decoded bytes.
func (c *CLI) executeAdd(cmd *AddCmd) error {
	if cmd.Text != "" {
		rec, err := c.service.IngestText(cmd.Text)
		if err != nil {
			return fmt.Errorf("failed to add text: %w", err)
		}
		if rec == nil {
			fmt.Println("Skipped: text matches a sensitive keyword.")
			return nil
		}
		fmt.Printf("Added: %s\n", rec.ID)
		return nil
	}

	payload, err := os.ReadFile(cmd.Image)
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}
	raw, err := clipboard.DecodeImagePayload(payload)
	if err != nil {
		return fmt.Errorf("failed to decode image payload: %w", err)
	}
	rec, err := c.service.IngestImage(raw)
	if err != nil {
		return fmt.Errorf("failed to add image: %w", err)
	}
	fmt.Printf("Added: %s\n", rec.ID)
	return nil
}

// executeList prints a record listing.
func (c *CLI) executeList(cmd *ListCmd) error {
	order := history.OrderDesc
	if cmd.Asc {
		order = history.OrderAsc
	}
	records, err := c.service.QueryRecords(history.QueryOptions{
		Kind:   record.Kind(cmd.Kind),
		Limit:  cmd.Limit,
		Offset: cmd.Offset,
		Order:  order,
	})
	if err != nil {
		return fmt.Errorf("failed to query records: %w", err)
	}
	printRecords(records)
	return nil
}

// executeSearch prints records matching a keyword.
func (c *CLI) executeSearch(cmd *SearchCmd) error {
	records, err := c.service.SearchRecords(cmd.Keyword)
	if err != nil {
		return fmt.Errorf("failed to search records: %w", err)
	}
	printRecords(records)
	return nil
}

// executeGet prints one record's content to stdout.
func (c *CLI) executeGet(cmd *GetCmd) error {
	rec, err := c.service.GetRecord(cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("record not found: %s", cmd.ID)
	}

	if rec.IsImage() {
		data, err := c.service.GetFullImage(rec.OriginalPath)
		if err != nil {
			return fmt.Errorf("failed to load image: %w", err)
		}
		fmt.Println(data)
		return nil
	}
	fmt.Print(rec.Content)
	return nil
}

// executeCopy writes a record back to the system clipboard.
func (c *CLI) executeCopy(cmd *CopyCmd) error {
	rec, err := c.service.GetRecord(cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("record not found: %s", cmd.ID)
	}

	var ok bool
	if rec.IsImage() {
		ok = c.service.CopyFullImage(rec.OriginalPath)
	} else {
		ok = c.service.CopyText(rec.Content)
	}
	if !ok {
		return fmt.Errorf("failed to copy record to clipboard")
	}
	fmt.Printf("Copied: %s\n", rec.Preview)
	return nil
}

// executeDelete removes a record and its assets.
func (c *CLI) executeDelete(cmd *DeleteCmd) error {
	if !c.service.DeleteRecord(cmd.ID) {
		return fmt.Errorf("record not found: %s", cmd.ID)
	}
	fmt.Printf("Deleted: %s\n", cmd.ID)
	return nil
}

// executeClear wipes all records, their assets and the live clipboard.
func (c *CLI) executeClear(cmd *ClearCmd) error {
	if !cmd.Force {
		fmt.Print("Delete all clipboard history and images? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if !c.service.ClearAll() {
		return fmt.Errorf("failed to clear history")
	}
	fmt.Println("History cleared.")
	return nil
}

// executeConfig handles the config get/set/list subcommands.
func (c *CLI) executeConfig(cmd *ConfigCmd) error {
	switch {
	case cmd.Get != nil:
		value, err := c.cfgManager.Get(cmd.Get.Key)
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	case cmd.Set != nil:
		if err := c.cfgManager.Update(cmd.Set.Key, cmd.Set.Value); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", cmd.Set.Key, cmd.Set.Value)
		return nil
	case cmd.List != nil:
		values, err := c.cfgManager.List()
		if err != nil {
			return err
		}
		for key, value := range values {
			fmt.Printf("%s = %s\n", key, value)
		}
		return nil
	}
	return fmt.Errorf("config requires a get, set or list subcommand")
}

// maybeAutoStart starts the background watcher when the configuration
// enables monitoring at launch. Reports whether it started, so the caller
// knows to stop it.
func (c *CLI) maybeAutoStart() (bool, error) {
	if !c.cfg.AutoStartMonitoring {
		return false, nil
	}
	if err := c.watcher.Start(); err != nil {
		return false, err
	}
	return true, nil
}

// launchTUI opens the interactive history browser. With auto-start enabled
// the watcher records clipboard changes in the background while browsing.
func (c *CLI) launchTUI() error {
	started, err := c.maybeAutoStart()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	if started {
		defer c.watcher.Stop()
	}

	model := tui.NewAppModel(c.service)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// printRecords writes a plain-text record table to stdout.
func printRecords(records []*record.Record) {
	if len(records) == 0 {
		fmt.Println("No records.")
		return
	}
	for _, rec := range records {
		created := rec.CreatedTime().Format("2006-01-02 15:04:05")
		fmt.Printf("%-36s  %-5s  %s  %s\n", rec.ID, rec.Kind, created, rec.Preview)
	}
}
