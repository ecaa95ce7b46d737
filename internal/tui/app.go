// Package tui is the interactive todo list: a bubbletea widget with
// list, detail, and two-step add modes over the issue gateway.
package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ghtodo/internal/model"
	"ghtodo/internal/notes"
)

// — state ———————————————————————————————————————————————————————————————————

type viewState int

const (
	stateList viewState = iota
	stateAddTitle
	stateAddBody
	stateDetail
)

// Gateway is the slice of the gh client the widget needs.
type Gateway interface {
	ListIssues(ctx context.Context, includeClosed bool) ([]model.Issue, error)
	CreateIssue(ctx context.Context, title, body string) (model.Issue, error)
	CloseIssue(ctx context.Context, number int) (model.Issue, error)
	ReopenIssue(ctx context.Context, number int) (model.Issue, error)
}

// — styles ——————————————————————————————————————————————————————————————————

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	dimStyle  = lipgloss.NewStyle().Faint(true)
	boldStyle = lipgloss.NewStyle().Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	helpStyle = lipgloss.NewStyle().
			Faint(true).
			PaddingLeft(2)

	detailHeadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 3).
			Width(58)
)

// — messages ————————————————————————————————————————————————————————————————

type issuesLoadedMsg struct {
	issues []model.Issue
	err    error
}

type issueMutatedMsg struct {
	err error
}

// — list item ———————————————————————————————————————————————————————————————

type todoItem struct {
	issue model.Issue
}

func (i todoItem) Title() string {
	marker := "○"
	if !i.issue.Open() {
		marker = "✓"
	}
	return fmt.Sprintf("%s #%d %s", marker, i.issue.Number, i.issue.Title)
}

func (i todoItem) Description() string {
	if user := notes.ExtractUserContent(i.issue.Body); user != "" {
		return firstLine(user)
	}
	return dimStyle.Render("no description")
}

func (i todoItem) FilterValue() string { return i.issue.Title }

// — model ———————————————————————————————————————————————————————————————————

const gatewayTimeout = 30 * time.Second

type Model struct {
	gw      Gateway
	list    list.Model
	issues  []model.Issue // last listed, overwritten wholesale on refresh
	width   int
	height  int
	loading bool
	err     error
	status  string

	state      viewState
	titleInput textinput.Model
	bodyInput  textarea.Model
	draftTitle string

	onClose func()
}

// New builds the widget. onClose runs when the user quits the list.
func New(gw Gateway, onClose func()) Model {
	delegate := list.NewDefaultDelegate()

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Todo"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle

	ti := textinput.New()
	ti.Placeholder = "issue title"
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "issue body (optional)"

	return Model{
		gw:         gw,
		list:       l,
		loading:    true,
		titleInput: ti,
		bodyInput:  ta,
		onClose:    onClose,
	}
}

// — commands ————————————————————————————————————————————————————————————————

func (m Model) fetchIssues() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
	defer cancel()
	issues, err := m.gw.ListIssues(ctx, false)
	return issuesLoadedMsg{issues: issues, err: err}
}

func (m Model) addIssueCmd(title, body string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		_, err := m.gw.CreateIssue(ctx, title, body)
		return issueMutatedMsg{err: err}
	}
}

func (m Model) closeIssueCmd(number int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		_, err := m.gw.CloseIssue(ctx, number)
		return issueMutatedMsg{err: err}
	}
}

func (m Model) reopenIssueCmd(number int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		_, err := m.gw.ReopenIssue(ctx, number)
		return issueMutatedMsg{err: err}
	}
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		cmd.Run()
		return nil
	}
}

// setIssues rebuilds the list items and clamps the selection.
func (m *Model) setIssues(issues []model.Issue) {
	m.issues = issues
	items := make([]list.Item, len(issues))
	for i, issue := range issues {
		items[i] = todoItem{issue: issue}
	}
	m.list.SetItems(items)
	if idx := m.list.Index(); idx >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

// — tea.Model ———————————————————————————————————————————————————————————————

func (m Model) Init() tea.Cmd {
	return m.fetchIssues
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		m.bodyInput.SetWidth(50)
		return m, nil

	case issuesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setIssues(msg.issues)
		return m, nil

	case issueMutatedMsg:
		if msg.err != nil {
			m.loading = false
			m.status = errStyle.Render(msg.err.Error())
			return m, nil
		}
		m.status = ""
		m.loading = true
		return m, m.fetchIssues
	}

	switch m.state {
	case stateAddTitle:
		return m.updateAddTitle(msg)
	case stateAddBody:
		return m.updateAddBody(msg)
	case stateDetail:
		return m.updateDetail(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.onClose != nil {
				m.onClose()
			}
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.fetchIssues
		case "a":
			m.state = stateAddTitle
			m.status = ""
			m.titleInput.Reset()
			m.titleInput.Focus()
			return m, textinput.Blink
		case "c":
			if issue := m.selectedIssue(); issue != nil && issue.Open() {
				m.loading = true
				return m, m.closeIssueCmd(issue.Number)
			}
			return m, nil
		case "u":
			if issue := m.selectedIssue(); issue != nil && !issue.Open() {
				m.loading = true
				return m, m.reopenIssueCmd(issue.Number)
			}
			return m, nil
		case "o":
			if issue := m.selectedIssue(); issue != nil && issue.URL != "" {
				return m, openURLCmd(issue.URL)
			}
			return m, nil
		case "enter":
			if m.selectedIssue() != nil {
				m.state = stateDetail
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAddTitle(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.state = stateList
			m.status = ""
			m.titleInput.Blur()
			return m, nil
		case "enter":
			title := strings.TrimSpace(m.titleInput.Value())
			if title == "" {
				m.status = errStyle.Render("title cannot be empty")
				return m, nil
			}
			m.draftTitle = title
			m.status = ""
			m.titleInput.Blur()
			m.state = stateAddBody
			m.bodyInput.Reset()
			m.bodyInput.Focus()
			return m, textarea.Blink
		}
	}
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m Model) updateAddBody(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.state = stateList
			m.bodyInput.Blur()
			m.draftTitle = ""
			return m, nil
		case "ctrl+s":
			body := strings.TrimSpace(m.bodyInput.Value())
			title := m.draftTitle
			m.state = stateList
			m.bodyInput.Blur()
			m.draftTitle = ""
			// loading now, so the list never flashes empty while the
			// create round-trips
			m.loading = true
			return m, m.addIssueCmd(title, body)
		}
	}
	var cmd tea.Cmd
	m.bodyInput, cmd = m.bodyInput.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "esc":
			m.state = stateList
		}
	}
	return m, nil
}

// — view ————————————————————————————————————————————————————————————————————

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.loading {
		return lipgloss.NewStyle().Padding(1, 2).Render("Loading todo issues…")
	}
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit.", m.err),
		)
	}

	var body string
	if len(m.issues) == 0 {
		body = lipgloss.NewStyle().Padding(1, 2).Render(dimStyle.Render("No todo issues found"))
	} else {
		body = m.list.View()
	}
	base := lipgloss.JoinVertical(lipgloss.Left, body, m.renderHelp())

	switch m.state {
	case stateAddTitle, stateAddBody:
		return m.renderAddModal(base)
	case stateDetail:
		return m.renderDetail()
	}
	return base
}

func (m Model) renderHelp() string {
	var text string
	switch m.state {
	case stateAddTitle:
		text = "Enter next   Esc cancel"
	case stateAddBody:
		text = "Ctrl+S create   Esc cancel"
	case stateDetail:
		text = "Enter/Esc back"
	default:
		text = "↑/↓ navigate   Enter view   a add   c close   u reopen   o open   r refresh   q quit"
	}
	width := m.width
	if width < 1 {
		width = 1
	}
	sep := dimStyle.Render(strings.Repeat("─", width))
	out := sep + "\n" + helpStyle.Render(text)
	if m.status != "" {
		out += "   " + m.status
	}
	return out
}

func (m Model) renderAddModal(base string) string {
	var b strings.Builder
	b.WriteString(boldStyle.Render("New Todo") + "\n\n")
	if m.state == stateAddTitle {
		b.WriteString("Title\n")
		b.WriteString(m.titleInput.View() + "\n")
	} else {
		b.WriteString(dimStyle.Render(m.draftTitle) + "\n\n")
		b.WriteString("Body\n")
		b.WriteString(m.bodyInput.View() + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	hint := "Enter → body · Esc cancel"
	if m.state == stateAddBody {
		hint = "Ctrl+S create · Esc cancel"
	}
	b.WriteString("\n" + dimStyle.Render(hint))

	modal := modalStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceBackground(lipgloss.Color("0")),
	)
}

func (m Model) renderDetail() string {
	issue := m.selectedIssue()
	if issue == nil {
		return dimStyle.Render("No issue selected")
	}

	var b strings.Builder
	b.WriteString(detailHeadStyle.Render(fmt.Sprintf("#%d %s", issue.Number, issue.Title)) + "\n\n")

	stateStr := okStyle.Render("open")
	if !issue.Open() {
		stateStr = dimStyle.Render("closed")
	}
	b.WriteString(dimStyle.Render("State    ") + stateStr + "\n")
	if len(issue.Assignees) > 0 {
		b.WriteString(dimStyle.Render("Assigned ") + strings.Join(issue.Assignees, ", ") + "\n")
	}
	b.WriteString(dimStyle.Render("URL      ") + issue.URL + "\n\n")

	if user := notes.ExtractUserContent(issue.Body); user != "" {
		b.WriteString(truncateLines(user, m.height/2) + "\n")
	}
	if sec, ok := notes.ExtractSection(issue.Body); ok {
		b.WriteString("\n" + boldStyle.Render("Agent notes") + "\n")
		b.WriteString(dimStyle.Render(truncateLines(sec, m.height/3)) + "\n")
	}
	b.WriteString("\n" + m.renderHelp())

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) selectedIssue() *model.Issue {
	if len(m.issues) == 0 {
		return nil
	}
	idx := m.list.Index()
	if idx < 0 || idx >= len(m.issues) {
		return nil
	}
	return &m.issues[idx]
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	if len(line) > 80 {
		cut := 79
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		line = line[:cut] + "…"
	}
	return line
}

func truncateLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if n > 0 && len(lines) > n {
		lines = append(lines[:n], dimStyle.Render("…"))
	}
	return strings.Join(lines, "\n")
}
