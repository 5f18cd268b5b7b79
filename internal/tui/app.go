// Package tui implements the interactive clipboard history browser.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clipvault/clipvault/internal/history"
	"github.com/clipvault/clipvault/internal/record"
)

// UIMode represents the current modal state of the application
type UIMode int

const (
	NormalMode UIMode = iota
	SearchMode
	DeleteMode
)

// recordsLoadedMsg carries the result of an async record load.
type recordsLoadedMsg struct {
	records []*record.Record
	err     error
}

// flashExpiredMsg clears a temporary status message.
type flashExpiredMsg struct{}

// AppModel is the bubbletea model for the history browser.
type AppModel struct {
	service *history.Service

	Width  int
	Height int

	Items       []*record.Record
	Cursor      int
	CurrentMode UIMode

	SearchInput string

	FlashMessage string
	FlashExpiry  time.Time

	err error
}

// NewAppModel creates the browser model over a history service.
func NewAppModel(service *history.Service) AppModel {
	return AppModel{
		service: service,
		Width:   100,
		Height:  30,
	}
}

// Init triggers the initial record load.
func (a AppModel) Init() tea.Cmd {
	return a.loadRecords("")
}

// loadRecords returns a command that queries or searches the service.
func (a AppModel) loadRecords(keyword string) tea.Cmd {
	service := a.service
	return func() tea.Msg {
		var (
			records []*record.Record
			err     error
		)
		if keyword == "" {
			records, err = service.QueryRecords(history.QueryOptions{})
		} else {
			records, err = service.SearchRecords(keyword)
		}
		return recordsLoadedMsg{records: records, err: err}
	}
}

// Update handles messages and key presses.
func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.Width = m.Width
		a.Height = m.Height
		return a, nil

	case recordsLoadedMsg:
		a.err = m.err
		a.Items = m.records
		if a.Cursor >= len(a.Items) {
			a.Cursor = max(0, len(a.Items)-1)
		}
		return a, nil

	case flashExpiredMsg:
		if time.Now().After(a.FlashExpiry) {
			a.FlashMessage = ""
		}
		return a, nil

	case tea.KeyMsg:
		switch a.CurrentMode {
		case SearchMode:
			return a.updateSearch(m)
		case DeleteMode:
			return a.updateDelete(m)
		default:
			return a.updateNormal(m)
		}
	}
	return a, nil
}

// updateNormal handles keys in the default browsing mode.
func (a AppModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "j", "down":
		if a.Cursor < len(a.Items)-1 {
			a.Cursor++
		}
	case "k", "up":
		if a.Cursor > 0 {
			a.Cursor--
		}
	case "g":
		a.Cursor = 0
	case "G":
		a.Cursor = max(0, len(a.Items)-1)

	case "r":
		return a, a.loadRecords(a.SearchInput)

	case "/":
		a.CurrentMode = SearchMode
		a.SearchInput = ""

	case "d":
		if len(a.Items) > 0 {
			a.CurrentMode = DeleteMode
		}

	case "enter":
		return a.copySelected()
	}
	return a, nil
}

// updateSearch handles keys while typing a search query.
func (a AppModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.CurrentMode = NormalMode
		a.SearchInput = ""
		return a, a.loadRecords("")
	case "enter":
		a.CurrentMode = NormalMode
		a.Cursor = 0
		return a, a.loadRecords(a.SearchInput)
	case "backspace":
		if len(a.SearchInput) > 0 {
			runes := []rune(a.SearchInput)
			a.SearchInput = string(runes[:len(runes)-1])
		}
	default:
		if msg.Type == tea.KeyRunes {
			a.SearchInput += string(msg.Runes)
		}
	}
	return a, nil
}

// updateDelete handles the delete confirmation prompt.
func (a AppModel) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		a.CurrentMode = NormalMode
		if a.Cursor < len(a.Items) {
			rec := a.Items[a.Cursor]
			if a.service.DeleteRecord(rec.ID) {
				return a.flash("Deleted "+rec.Preview, a.loadRecords(a.SearchInput))
			}
			return a.flash("Delete failed", nil)
		}
	default:
		a.CurrentMode = NormalMode
	}
	return a, nil
}

// copySelected writes the selected record back to the clipboard.
func (a AppModel) copySelected() (tea.Model, tea.Cmd) {
	if a.Cursor >= len(a.Items) {
		return a, nil
	}
	rec := a.Items[a.Cursor]

	var ok bool
	if rec.IsImage() {
		ok = a.service.CopyFullImage(rec.OriginalPath)
	} else {
		ok = a.service.CopyText(rec.Content)
	}
	if ok {
		return a.flash("Copied "+rec.Preview, nil)
	}
	return a.flash("Copy failed", nil)
}

// flash shows a temporary status message for two seconds.
func (a AppModel) flash(message string, extra tea.Cmd) (tea.Model, tea.Cmd) {
	a.FlashMessage = message
	a.FlashExpiry = time.Now().Add(2 * time.Second)
	expire := tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return flashExpiredMsg{}
	})
	if extra != nil {
		return a, tea.Batch(expire, extra)
	}
	return a, expire
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Width(6)

	ageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	flashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

// View renders the browser.
func (a AppModel) View() string {
	header := titleStyle.Render("clipvault") + "  " +
		ageStyle.Render(fmt.Sprintf("%d records", len(a.Items)))

	listHeight := max(1, a.Height-4)
	rows := a.renderRows(listHeight)

	var status string
	switch a.CurrentMode {
	case SearchMode:
		status = "/" + a.SearchInput + "▌"
	case DeleteMode:
		status = "Delete selected record? [y/N]"
	default:
		if a.FlashMessage != "" && time.Now().Before(a.FlashExpiry) {
			status = flashStyle.Render(a.FlashMessage)
		} else if a.err != nil {
			status = "Error: " + a.err.Error()
		} else {
			status = "j/k move · enter copy · d delete · / search · r reload · q quit"
		}
	}

	return header + "\n\n" + rows + "\n" + statusStyle.Width(max(0, a.Width)).Render(status)
}

// renderRows renders the visible window of the record list.
func (a AppModel) renderRows(height int) string {
	if len(a.Items) == 0 {
		return ageStyle.Render("  (no records)")
	}

	start := 0
	if a.Cursor >= height {
		start = a.Cursor - height + 1
	}
	end := min(len(a.Items), start+height)

	out := ""
	for i := start; i < end; i++ {
		rec := a.Items[i]
		line := fmt.Sprintf("%s %s %s",
			kindStyle.Render(string(rec.Kind)),
			truncate(rec.Preview, max(10, a.Width-30)),
			ageStyle.Render(age(rec.CreatedTime())),
		)
		if i == a.Cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		out += line + "\n"
	}
	return out
}

// truncate bounds a string for single-line display.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

// age formats a creation time as a relative duration.
func age(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
