// Package tui provides a Bubble Tea terminal user interface for deckrepo-manager.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/deckrepo/deckrepo-manager/internal/config"
	"github.com/deckrepo/deckrepo-manager/internal/download"
	"github.com/deckrepo/deckrepo-manager/internal/install"
	"github.com/deckrepo/deckrepo-manager/internal/model"
	"github.com/deckrepo/deckrepo-manager/internal/repo"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

// Tab identifies the active screen.
type Tab int

const (
	TabCatalog Tab = iota
	TabLibrary
)

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

// maxVisibleRows caps how many list rows render at once.
const maxVisibleRows = 12

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state State
	tab   Tab

	spinner     spinner.Model
	progressBar progress.Model
	search      textinput.Model
	searching   bool

	settings  *config.Settings
	catalog   *repo.Client
	installer *install.Installer
	orch      *download.Orchestrator

	// events carries orchestrator notifications into the update loop.
	events chan tea.Msg

	snapshot model.CatalogSnapshot
	kind     model.VideoKind
	filtered []model.CatalogItem
	cursor   int

	library    []model.InstalledEntry
	libraryCur int

	// installing maps item id to last reported percent (-1 = unknown).
	installing map[string]int
	statusLine string
	err        error

	width  int
	height int
}

// NewModel creates a new TUI model around the given settings.
func NewModel(settings *config.Settings) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	ti := textinput.New()
	ti.Placeholder = "search titles"
	ti.CharLimit = 100
	ti.Width = 30

	events := make(chan tea.Msg, 64)

	ins := install.New(settings.ResolveInstallRoot(), settings.ThumbnailMaxSize)
	orch := download.NewOrchestrator(ins, channelSink{ch: events}, settings.MaxConcurrentInstalls)

	return Model{
		state:       StateLoading,
		tab:         TabCatalog,
		spinner:     sp,
		progressBar: prog,
		search:      ti,
		settings:    settings,
		catalog:     repo.NewClient(settings),
		installer:   ins,
		orch:        orch,
		events:      events,
		kind:        model.KindBoot,
		installing:  make(map[string]int),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCatalog(false), m.waitEvent())
}

// Message types
type (
	// CatalogMsg carries the result of a catalog fetch.
	CatalogMsg struct {
		Snapshot model.CatalogSnapshot
		Err      error
	}

	// LibraryMsg carries a fresh install-root scan.
	LibraryMsg struct {
		Entries []model.InstalledEntry
		Err     error
	}

	// InstallProgressMsg reports download progress for one item.
	InstallProgressMsg struct {
		ItemID  string
		Percent int
	}

	// InstallDoneMsg reports the terminal result for one item.
	InstallDoneMsg struct {
		ItemID string
		Result install.Result
	}

	// DeleteDoneMsg reports the outcome of removing an installed entry.
	DeleteDoneMsg struct {
		Filename string
		Err      error
	}
)

// channelSink forwards orchestrator notifications into the event channel.
// Progress is dropped when the channel is full; terminal results block so
// they are never lost.
type channelSink struct {
	ch chan tea.Msg
}

func (s channelSink) OnProgress(itemID string, percent int) {
	select {
	case s.ch <- InstallProgressMsg{ItemID: itemID, Percent: percent}:
	default:
	}
}

func (s channelSink) OnDone(itemID string, result install.Result) {
	s.ch <- InstallDoneMsg{ItemID: itemID, Result: result}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = msg.Width - 30
		if m.progressBar.Width > 60 {
			m.progressBar.Width = 60
		}
		if m.progressBar.Width < 20 {
			m.progressBar.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case CatalogMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateReady
			m.err = nil
			m.snapshot = msg.Snapshot
			m.refilter()
			if msg.Snapshot.Source == model.SourceCache {
				m.statusLine = "Showing cached catalog (network unavailable)"
			} else {
				m.statusLine = fmt.Sprintf("Loaded %d videos", msg.Snapshot.Len())
			}
		}

	case LibraryMsg:
		if msg.Err != nil {
			m.statusLine = "Cannot read install directory: " + msg.Err.Error()
		} else {
			m.library = msg.Entries
			if m.libraryCur >= len(m.library) {
				m.libraryCur = max(0, len(m.library)-1)
			}
		}

	case InstallProgressMsg:
		if _, ok := m.installing[msg.ItemID]; ok {
			m.installing[msg.ItemID] = msg.Percent
		}
		cmds = append(cmds, m.waitEvent())

	case InstallDoneMsg:
		delete(m.installing, msg.ItemID)
		if msg.Result.OK {
			m.statusLine = successStyle.Render(msg.Result.Message)
		} else {
			m.statusLine = errorStyle.Render(msg.Result.Message)
		}
		cmds = append(cmds, m.waitEvent(), m.loadLibrary())

	case DeleteDoneMsg:
		if msg.Err != nil {
			m.statusLine = errorStyle.Render("Delete failed: " + msg.Err.Error())
		} else {
			m.statusLine = successStyle.Render("Deleted " + msg.Filename)
		}
		cmds = append(cmds, m.loadLibrary())

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateSearch handles key input while the search field is focused.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.refilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refilter()
	return m, cmd
}

// updateKeys handles key input in browse mode.
func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		if m.tab == TabCatalog {
			m.tab = TabLibrary
			return m, m.loadLibrary()
		}
		m.tab = TabCatalog

	case "b":
		if m.tab == TabCatalog {
			m.kind = model.KindBoot
			m.refilter()
		}

	case "s":
		if m.tab == TabCatalog {
			m.kind = model.KindSuspend
			m.refilter()
		}

	case "/":
		if m.tab == TabCatalog && m.state == StateReady {
			m.searching = true
			m.search.Focus()
			return m, textinput.Blink
		}

	case "up", "k":
		m.moveCursor(-1)

	case "down", "j":
		m.moveCursor(1)

	case "enter":
		if m.tab == TabCatalog && m.state == StateReady && m.cursor < len(m.filtered) {
			return m, m.installItem(m.filtered[m.cursor])
		}

	case "r":
		if m.tab == TabCatalog {
			m.state = StateLoading
			return m, tea.Batch(m.fetchCatalog(true), m.spinner.Tick)
		}
		return m, m.loadLibrary()

	case "x":
		if m.tab == TabLibrary && m.libraryCur < len(m.library) {
			return m, m.deleteEntry(m.library[m.libraryCur].Filename)
		}
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.tab == TabCatalog {
		m.cursor = clamp(m.cursor+delta, 0, max(0, len(m.filtered)-1))
		return
	}
	m.libraryCur = clamp(m.libraryCur+delta, 0, max(0, len(m.library)-1))
}

// refilter recomputes the visible catalog slice from the snapshot.
func (m *Model) refilter() {
	m.filtered = model.FilterItems(m.snapshot.Items, m.kind, m.search.Value())
	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
}

// waitEvent returns a command that delivers the next orchestrator event.
func (m Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// fetchCatalog loads the catalog off the update loop.
func (m Model) fetchCatalog(force bool) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.catalog.FetchPosts(context.Background(), force)
		return CatalogMsg{Snapshot: snap, Err: err}
	}
}

// loadLibrary rescans the install root.
func (m Model) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.installer.ListInstalled()
		return LibraryMsg{Entries: entries, Err: err}
	}
}

// installItem starts a download session for the item. A second request
// while one is active is ignored by the orchestrator.
func (m *Model) installItem(item model.CatalogItem) tea.Cmd {
	if !m.orch.Start(context.Background(), item) {
		m.statusLine = "Already installing " + item.Title
		return nil
	}
	m.installing[item.ID] = -1
	m.statusLine = "Installing " + item.Title
	return nil
}

// deleteEntry removes an installed entry off the update loop.
func (m Model) deleteEntry(filename string) tea.Cmd {
	return func() tea.Msg {
		return DeleteDoneMsg{Filename: filename, Err: m.installer.Delete(filename)}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎮 Deck Repo Manager"))
	b.WriteString("\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	switch {
	case m.state == StateLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(infoStyle.Render("Fetching catalog..."))
		b.WriteString("\n")
	case m.state == StateError:
		b.WriteString(errorStyle.Render("❌ " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("r: retry • q: quit"))
		return b.String()
	case m.tab == TabCatalog:
		b.WriteString(m.viewCatalog())
	default:
		b.WriteString(m.viewLibrary())
	}

	b.WriteString(m.viewInstalls())

	if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(m.statusLine)
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewTabs() string {
	catalog := tabStyle.Render("Catalog")
	library := tabStyle.Render("Library")
	if m.tab == TabCatalog {
		catalog = activeTabStyle.Render("Catalog")
	} else {
		library = activeTabStyle.Render("Library")
	}
	return catalog + dimStyle.Render(" │ ") + library
}

func (m Model) viewCatalog() string {
	var b strings.Builder

	bootTab := tabStyle.Render("boot")
	suspendTab := tabStyle.Render("suspend")
	if m.kind == model.KindBoot {
		bootTab = activeTabStyle.Render("boot")
	} else {
		suspendTab = activeTabStyle.Render("suspend")
	}
	b.WriteString(bootTab + dimStyle.Render(" / ") + suspendTab)

	if m.searching || m.search.Value() != "" {
		b.WriteString("   ")
		b.WriteString(m.search.View())
	}
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  No videos match."))
		b.WriteString("\n")
		return b.String()
	}

	start, end := window(m.cursor, len(m.filtered))
	for i := start; i < end; i++ {
		it := m.filtered[i]
		line := fmt.Sprintf("%s  by %s  (♥ %d, ↓ %d)", it.Title, it.DisplayAuthor(), it.Likes, it.Downloads)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if it := m.selectedItem(); it != nil && it.Description != "" {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(truncate(it.Description, 200)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewLibrary() string {
	var b strings.Builder

	b.WriteString(dimStyle.Render("Install root: " + m.installer.Root()))
	b.WriteString("\n\n")

	if len(m.library) == 0 {
		b.WriteString(dimStyle.Render("  Nothing installed yet."))
		b.WriteString("\n")
		return b.String()
	}

	start, end := window(m.libraryCur, len(m.library))
	for i := start; i < end; i++ {
		e := m.library[i]
		kind := "boot"
		if e.Kind == model.KindSuspend {
			kind = "suspend"
		}
		line := fmt.Sprintf("%s  [%s]  %.2f MB", e.DisplayTitle(), kind, e.SizeMB())
		if i == m.libraryCur {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// viewInstalls renders one progress line per active download session.
func (m Model) viewInstalls() string {
	if len(m.installing) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, it := range m.snapshot.Items {
		pct, ok := m.installing[it.ID]
		if !ok {
			continue
		}
		b.WriteString(infoStyle.Render(truncate(it.Title, 30)))
		b.WriteString(" ")
		if pct < 0 {
			b.WriteString(m.spinner.View())
		} else {
			b.WriteString(m.progressBar.ViewAs(float64(pct) / 100))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) selectedItem() *model.CatalogItem {
	if m.cursor >= len(m.filtered) {
		return nil
	}
	return &m.filtered[m.cursor]
}

func (m Model) getHelpText() string {
	if m.searching {
		return "enter: apply • esc: clear"
	}
	if m.tab == TabLibrary {
		return "tab: catalog • ↑/↓: move • x: delete • r: rescan • q: quit"
	}
	return "tab: library • ↑/↓: move • enter: install • b/s: kind • /: search • r: refresh • q: quit"
}

// window returns the visible slice bounds keeping the cursor in view.
func window(cursor, total int) (start, end int) {
	if total <= maxVisibleRows {
		return 0, total
	}
	start = cursor - maxVisibleRows/2
	start = clamp(start, 0, total-maxVisibleRows)
	return start, start + maxVisibleRows
}

// truncate shortens s to at most n runes plus an ellipsis. Titles are
// user-submitted and often multi-byte, so slicing happens on rune
// boundaries.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
