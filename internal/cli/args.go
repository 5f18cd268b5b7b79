package cli

import (
	"fmt"
)

// Args represents the top-level command structure
type Args struct {
	Watch  *WatchCmd  `arg:"subcommand:watch" help:"Run the clipboard watcher daemon"`
	Add    *AddCmd    `arg:"subcommand:add" help:"Store a text or image payload directly"`
	List   *ListCmd   `arg:"subcommand:list" help:"List clipboard history records"`
	Search *SearchCmd `arg:"subcommand:search" help:"Search history by keyword"`
	Get    *GetCmd    `arg:"subcommand:get" help:"Print one record by id"`
	Copy   *CopyCmd   `arg:"subcommand:copy" help:"Copy a record back to the clipboard"`
	Delete *DeleteCmd `arg:"subcommand:delete" help:"Delete a record and its assets"`
	Clear  *ClearCmd  `arg:"subcommand:clear" help:"Delete all records, assets and the live clipboard"`
	Config *ConfigCmd `arg:"subcommand:config" help:"Get or set configuration values"`

	ConfigPath *string `arg:"--config,env:CLIPVAULT_CONFIG" help:"Path to config file"`
	DataDir    *string `arg:"--data-dir,env:CLIPVAULT_DATA" help:"Override the data directory"`
}

// WatchCmd runs the polling watcher until interrupted.
type WatchCmd struct {
	Interval *int `arg:"-i,--interval" help:"Polling interval in milliseconds (overrides config)"`
}

// AddCmd stores a payload supplied on the command line instead of polled
// from the clipboard. Image files may hold raw bytes or a base64 data URL.
type AddCmd struct {
	Text  string `arg:"-t,--text" help:"Text to store"`
	Image string `arg:"--image" help:"Path to an image file (raw bytes or data URL)"`
}

// ListCmd lists records, newest first.
type ListCmd struct {
	Kind   string `arg:"-k,--kind" help:"Filter by kind (text|image|file)"`
	Limit  int    `arg:"-n,--limit" default:"20" help:"Maximum records to show"`
	Offset int    `arg:"--offset" help:"Records to skip"`
	Asc    bool   `arg:"--asc" help:"Oldest first instead of newest first"`
}

// SearchCmd searches content, preview and tags.
type SearchCmd struct {
	Keyword string `arg:"positional,required" help:"Case-insensitive substring to search for"`
}

// GetCmd prints a record's content to stdout.
type GetCmd struct {
	ID string `arg:"positional,required" help:"Record id"`
}

// CopyCmd writes a record back to the system clipboard.
type CopyCmd struct {
	ID string `arg:"positional,required" help:"Record id"`
}

// DeleteCmd deletes a record by id.
type DeleteCmd struct {
	ID string `arg:"positional,required" help:"Record id"`
}

// ClearCmd wipes the history, image assets and the live clipboard.
type ClearCmd struct {
	Force bool `arg:"-f,--force" help:"Skip the confirmation prompt"`
}

// ConfigCmd gets, sets or lists configuration values.
type ConfigCmd struct {
	Get  *ConfigGetCmd  `arg:"subcommand:get" help:"Print one configuration value"`
	Set  *ConfigSetCmd  `arg:"subcommand:set" help:"Update one configuration value"`
	List *ConfigListCmd `arg:"subcommand:list" help:"Print all configuration values"`
}

// ConfigGetCmd prints one configuration value.
type ConfigGetCmd struct {
	Key string `arg:"positional,required" help:"Configuration key"`
}

// ConfigSetCmd updates one configuration value.
type ConfigSetCmd struct {
	Key   string `arg:"positional,required" help:"Configuration key"`
	Value string `arg:"positional,required" help:"New value"`
}

// ConfigListCmd prints all configuration values.
type ConfigListCmd struct{}

// Description returns the program description
func (Args) Description() string {
	return "clipvault - clipboard history daemon with deduplicated, searchable storage"
}

// Version returns the program version
func (Args) Version() string {
	return "clipvault 0.1.0"
}

// Epilogue returns additional help text
func (Args) Epilogue() string {
	return `Examples:
  clipvault watch                  # Run the polling daemon
  clipvault                        # Interactive TUI browser
  clipvault add -t "note to self"  # Store text without touching the clipboard
  clipvault list -k image          # List stored images, newest first
  clipvault search "error"         # Find records containing "error"
  clipvault copy text_01J...       # Put a record back on the clipboard
  clipvault clear -f               # Wipe history without confirmation

For more information, visit: https://github.com/clipvault/clipvault`
}

// Validate performs validation on the parsed arguments
func (args *Args) Validate() error {
	if args.Watch != nil {
		return args.Watch.Validate()
	}
	if args.Add != nil {
		return args.Add.Validate()
	}
	if args.List != nil {
		return args.List.Validate()
	}
	if args.Config != nil {
		return args.Config.Validate()
	}
	return nil
}

// Validate validates watch command arguments
func (w *WatchCmd) Validate() error {
	if w.Interval != nil && *w.Interval < 50 {
		return fmt.Errorf("interval must be at least 50ms")
	}
	return nil
}

// Validate validates add command arguments
func (a *AddCmd) Validate() error {
	if (a.Text == "") == (a.Image == "") {
		return fmt.Errorf("add requires exactly one of --text or --image")
	}
	return nil
}

// Validate validates list command arguments
func (l *ListCmd) Validate() error {
	if l.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	if l.Offset < 0 {
		return fmt.Errorf("offset must be non-negative")
	}
	switch l.Kind {
	case "", "text", "image", "file":
		return nil
	}
	return fmt.Errorf("kind must be one of text, image, file")
}

// Validate validates config command arguments
func (c *ConfigCmd) Validate() error {
	if c.Get == nil && c.Set == nil && c.List == nil {
		return fmt.Errorf("config requires a get, set or list subcommand")
	}
	return nil
}
