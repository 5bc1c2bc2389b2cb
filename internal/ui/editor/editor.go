// Package editor implements the interactive shortcut editor: a command list
// with per-platform bindings, a capture overlay driven by the session state
// machine, and inline validation feedback.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/whisprhq/keybind/internal/capture"
	"github.com/whisprhq/keybind/internal/catalog"
	"github.com/whisprhq/keybind/internal/format"
	"github.com/whisprhq/keybind/internal/keys"
	"github.com/whisprhq/keybind/internal/log"
	"github.com/whisprhq/keybind/internal/platform"
	"github.com/whisprhq/keybind/internal/service"
	"github.com/whisprhq/keybind/internal/ui/styles"
	"github.com/whisprhq/keybind/internal/validate"
)

// ReloadMsg asks the editor to re-read persisted settings, typically after
// the settings file changed on disk.
type ReloadMsg struct{}

// Options configures editor presentation.
type Options struct {
	ShowDescriptions bool
	ShowCategories   bool
}

// row is one line in the command list: either a category header or a command.
type row struct {
	header  string
	command catalog.Command
}

func (r row) isHeader() bool { return r.header != "" }

// Model is the editor's Bubble Tea model.
type Model struct {
	svc        *service.Service
	controller *capture.Controller
	keymap     keys.KeyMap
	help       help.Model
	opts       Options

	platform platform.Platform
	rows     []row
	cursor   int

	width  int
	height int

	// preview feedback for the active session
	previewErr     string
	previewWarning string

	// transient status line after a save/reset
	status   string
	statusOK bool

	reload <-chan struct{}

	// debug log tail, toggled in the browse state
	logs     *log.LogListener
	logLines []string
	showLogs bool

	quitting bool
}

// maxLogLines bounds the in-memory log tail.
const maxLogLines = 8

// New creates the editor model.
func New(svc *service.Service, controller *capture.Controller, opts Options) Model {
	m := Model{
		svc:        svc,
		controller: controller,
		keymap:     keys.DefaultKeyMap(),
		help:       help.New(),
		opts:       opts,
		platform:   svc.ActivePlatform(),
	}
	m.rows = buildRows(svc.Registry().Commands(), opts.ShowCategories)
	m.cursor = firstCommandRow(m.rows)
	return m
}

// WithReload attaches a channel that triggers settings reloads, typically
// from the file watcher.
func (m Model) WithReload(ch <-chan struct{}) Model {
	m.reload = ch
	return m
}

// WithLogTail attaches a log listener so the editor can show a tail of the
// debug log, toggled with ctrl+l.
func (m Model) WithLogTail(l *log.LogListener) Model {
	m.logs = l
	return m
}

// buildRows flattens the catalog into display rows, grouping by category in
// order of first appearance when headers are enabled.
func buildRows(commands []catalog.Command, withHeaders bool) []row {
	if !withHeaders {
		rows := make([]row, 0, len(commands))
		for _, c := range commands {
			rows = append(rows, row{command: c})
		}
		return rows
	}

	grouped := make(map[catalog.Category][]catalog.Command)
	var order []catalog.Category
	for _, c := range commands {
		if _, seen := grouped[c.Category]; !seen {
			order = append(order, c.Category)
		}
		grouped[c.Category] = append(grouped[c.Category], c)
	}

	var rows []row
	for _, cat := range order {
		rows = append(rows, row{header: categoryTitle(cat)})
		for _, c := range grouped[cat] {
			rows = append(rows, row{command: c})
		}
	}
	return rows
}

func categoryTitle(c catalog.Category) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func firstCommandRow(rows []row) int {
	for i, r := range rows {
		if !r.isHeader() {
			return i
		}
	}
	return 0
}

// Selected returns the command under the cursor.
func (m Model) Selected() (catalog.Command, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) || m.rows[m.cursor].isHeader() {
		return catalog.Command{}, false
	}
	return m.rows[m.cursor].command, true
}

// Platform returns the platform column currently being edited.
func (m Model) Platform() platform.Platform {
	return m.platform
}

// Init starts the reload and log listeners when attached.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.reload != nil {
		cmds = append(cmds, waitForReload(m.reload))
	}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

func waitForReload(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ReloadMsg{}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ReloadMsg:
		if err := m.svc.Load(context.Background()); err != nil {
			m.setStatus(fmt.Sprintf("reload failed: %v", err), false)
		} else {
			m.setStatus("settings reloaded", true)
		}
		log.Debug(log.CatUI, "editor reloaded settings")
		if m.reload != nil {
			return m, waitForReload(m.reload)
		}
		return m, nil

	case log.LogEvent:
		m.logLines = append(m.logLines, strings.TrimRight(msg.Payload, "\n"))
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		if m.logs != nil {
			return m, m.logs.Listen()
		}
		return m, nil

	case tea.KeyMsg:
		if session := m.controller.Active(); session != nil {
			return m.updateCapture(session, msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

// updateBrowse handles keys while no capture session is active.
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Logs):
		m.showLogs = !m.showLogs
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.cursor = prevCommandRow(m.rows, m.cursor)
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.cursor = nextCommandRow(m.rows, m.cursor)
		return m, nil

	case key.Matches(msg, m.keymap.TogglePlatform):
		if m.platform == platform.Mac {
			m.platform = platform.Windows
		} else {
			m.platform = platform.Mac
		}
		return m, nil

	case key.Matches(msg, m.keymap.Record):
		if cmd, ok := m.Selected(); ok {
			m.previewErr = ""
			m.previewWarning = ""
			m.controller.Start(cmd.Key)
		}
		return m, nil

	case key.Matches(msg, m.keymap.ResetAll):
		result, err := m.svc.ResetAll(context.Background())
		if err != nil {
			m.setStatus(err.Error(), false)
			return m, nil
		}
		m.setStatus(resetStatus("all shortcuts reset", result), true)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		cmd, ok := m.Selected()
		if !ok {
			return m, nil
		}
		if !m.svc.Registry().HasOverride(cmd.Key) {
			m.setStatus("already using the default", true)
			return m, nil
		}
		result, err := m.svc.ResetOne(context.Background(), cmd.Key)
		if err != nil {
			m.setStatus(err.Error(), false)
			return m, nil
		}
		m.setStatus(resetStatus(fmt.Sprintf("%s reset to default", cmd.Title), result), true)
		return m, nil
	}

	return m, nil
}

// updateCapture handles keys while a session is listening or previewing.
func (m Model) updateCapture(session *capture.Session, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch session.State() {
	case capture.StateListening:
		// Escape backs out; everything else is raw input for the session.
		if msg.String() == "esc" {
			session.Cancel()
			return m, nil
		}
		raw, ok := RawFromKeyMsg(msg)
		if !ok {
			return m, nil
		}
		m.controller.Dispatch(raw)
		if session.State() == capture.StatePreview {
			m = m.evaluatePreview(session)
		}
		return m, nil

	case capture.StatePreview:
		switch {
		case key.Matches(msg, m.keymap.Escape):
			session.Cancel()
			return m, nil

		case key.Matches(msg, m.keymap.Retry):
			m.previewErr = ""
			m.previewWarning = ""
			session.Retry()
			return m, nil

		case key.Matches(msg, m.keymap.Save):
			if m.previewErr != "" {
				return m, nil
			}
			result, err := m.svc.SaveBinding(context.Background(), session.CommandKey(), m.platform, session.Combination())
			if err != nil {
				var verr *validate.ValidationError
				if errors.As(err, &verr) {
					m.previewErr = verr.Message
					return m, nil
				}
				session.Cancel()
				m.setStatus(err.Error(), false)
				return m, nil
			}
			session.Finish()
			status := fmt.Sprintf("saved %s", result.Formatted)
			if result.RefreshErr != nil {
				status += " (hotkey refresh failed)"
			}
			m.setStatus(status, true)
			return m, nil
		}
		return m, nil
	}

	return m, nil
}

// evaluatePreview runs validation and the conflict gate for the freshly
// captured combination so the preview shows feedback before any save attempt.
func (m Model) evaluatePreview(session *capture.Session) Model {
	m.previewErr = ""
	m.previewWarning = ""

	result := validate.Check(session.Combination(), m.platform)
	if result.Err != nil {
		m.previewErr = result.Err.Message
		return m
	}
	m.previewWarning = result.Warning

	formatted := format.Format(session.Combination(), m.platform)
	if verr := validate.Conflict(m.svc.Registry(), session.CommandKey(), formatted, m.platform); verr != nil {
		m.previewErr = verr.Message
	}
	return m
}

func (m *Model) setStatus(msg string, ok bool) {
	m.status = msg
	m.statusOK = ok
}

func resetStatus(msg string, result service.SaveResult) string {
	if result.RefreshErr != nil {
		return msg + " (hotkey refresh failed)"
	}
	return msg
}

func prevCommandRow(rows []row, cur int) int {
	for i := cur - 1; i >= 0; i-- {
		if !rows[i].isHeader() {
			return i
		}
	}
	return cur
}

func nextCommandRow(rows []row, cur int) int {
	for i := cur + 1; i < len(rows); i++ {
		if !rows[i].isHeader() {
			return i
		}
	}
	return cur
}

// View renders the editor.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("Keyboard Shortcuts · %s", platformLabel(m.platform))
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	for i, r := range m.rows {
		if r.isHeader() {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(styles.CategoryHeaderStyle.Render(r.header))
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderCommandRow(r.command, i == m.cursor))
	}

	if session := m.controller.Active(); session != nil {
		b.WriteString("\n")
		b.WriteString(m.renderCaptureBox(session))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusOK {
			b.WriteString(styles.StatusStyle.Render(m.status))
		} else {
			b.WriteString(styles.ErrorStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	if m.showLogs {
		b.WriteString("\n")
		b.WriteString(m.renderLogTail())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))

	out := b.String()
	if m.width > 0 {
		out = wordwrap.String(out, m.width)
	}
	return out
}

func (m Model) renderCommandRow(cmd catalog.Command, selected bool) string {
	var b strings.Builder

	prefix := "  "
	if selected {
		prefix = styles.SelectionIndicatorStyle.Render("> ")
	}

	bindingStr, _ := m.svc.Registry().EffectiveBinding(cmd.Key, m.platform)
	binding := styles.BindingStyle.Render(bindingStr)
	if m.svc.Registry().HasOverride(cmd.Key) {
		binding += styles.OverrideMarkStyle.Render(" •")
	}

	title := cmd.Title
	if selected {
		title = lipgloss.NewStyle().Bold(true).Render(title)
	}

	b.WriteString(fmt.Sprintf("%s%-28s %s\n", prefix, title, binding))
	if m.opts.ShowDescriptions && selected {
		b.WriteString(styles.DescriptionStyle.Render("    " + cmd.Description))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCaptureBox(session *capture.Session) string {
	cmd, err := m.svc.Registry().Command(session.CommandKey())
	title := session.CommandKey()
	if err == nil {
		title = cmd.Title
	}

	var body string
	switch session.State() {
	case capture.StateListening:
		body = fmt.Sprintf("Recording shortcut for %s\n\nHold modifiers, then press a key.\nEsc to cancel.", title)

	case capture.StatePreview:
		formatted := format.Format(session.Combination(), m.platform)
		body = fmt.Sprintf("Recording shortcut for %s\n\n%s", title, styles.BindingStyle.Render(formatted))
		if m.previewErr != "" {
			body += "\n\n" + styles.ErrorStyle.Render(m.previewErr)
			body += "\n" + styles.StatusStyle.Render("r to record again · esc to cancel")
		} else {
			if m.previewWarning != "" {
				body += "\n\n" + styles.WarningStyle.Render(m.previewWarning)
			}
			body += "\n\n" + styles.StatusStyle.Render("enter to save · r to record again · esc to cancel")
		}
	}

	return styles.OverlayBoxStyle.Render(body)
}

func (m Model) renderLogTail() string {
	header := styles.CategoryHeaderStyle.Render("Log")
	if len(m.logLines) == 0 {
		return styles.OverlayBoxStyle.Render(header + "\n" + styles.DescriptionStyle.Render("no entries yet"))
	}
	return styles.OverlayBoxStyle.Render(header + "\n" + strings.Join(m.logLines, "\n"))
}

func platformLabel(p platform.Platform) string {
	if p == platform.Mac {
		return "macOS"
	}
	return "Windows"
}
