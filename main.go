//go:build !gui

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metcalfc/wrr/internal/control"
	"github.com/metcalfc/wrr/internal/playback"
	"github.com/metcalfc/wrr/internal/reader"
)

var (
	erpStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	wordBeforeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	wordAfterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true).
			Padding(0, 1)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

type inputFocus int

const (
	focusReader inputFocus = iota
	focusURL
	focusRate
)

type keyMap struct {
	Play      key.Binding
	Reset     key.Binding
	Prev      key.Binding
	Next      key.Binding
	Fetch     key.Binding
	NextField key.Binding
	Blur      key.Binding
	Quit      key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Reset, k.Prev, k.Next, k.NextField, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Fetch, k.Blur}}
}

var keys = keyMap{
	Play:      key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
	Reset:     key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "reset")),
	Prev:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev sentence")),
	Next:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next sentence")),
	Fetch:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fetch")),
	NextField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "url/wpm")),
	Blur:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to reader")),
	Quit:      key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type model struct {
	ctrl      *control.Controller
	urlInput  textinput.Model
	rateInput textinput.Model
	progress  progress.Model
	help      help.Model

	frame    playback.Frame
	focus    inputFocus
	fetching bool
	quitting bool
	width    int
	height   int
}

// frameMsg carries a frame published by the playback engine.
type frameMsg playback.Frame

type fetchDoneMsg struct{ err error }

// programSurface forwards frames into the bubbletea event loop. Send blocks
// until Update accepts the message, and Update itself calls into the engine,
// so frames are sent from a separate goroutine.
type programSurface struct {
	program *tea.Program
}

func (s *programSurface) Render(f playback.Frame) {
	if s.program == nil {
		return
	}
	go s.program.Send(frameMsg(f))
}

func newModel(ctrl *control.Controller, url, rate string) model {
	urlInput := textinput.New()
	urlInput.Prompt = "URL: "
	urlInput.Placeholder = "https://example.com/article"
	urlInput.CharLimit = 2048
	urlInput.SetValue(url)

	rateInput := textinput.New()
	rateInput.Prompt = "WPM: "
	rateInput.CharLimit = 6
	rateInput.Width = 6
	rateInput.SetValue(rate)

	m := model{
		ctrl:      ctrl,
		urlInput:  urlInput,
		rateInput: rateInput,
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:      help.New(),
		frame:     ctrl.Snapshot(),
		fetching:  url != "",
		width:     80,
		height:    24,
	}
	m.setWidth(m.width)
	if url == "" {
		m.setFocus(focusURL)
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.fetching {
		return fetchCmd(m.ctrl, m.urlInput.Value())
	}
	return textinput.Blink
}

func fetchCmd(ctrl *control.Controller, url string) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{err: ctrl.Fetch(context.Background(), url)}
	}
}

func (m *model) startFetch() tea.Cmd {
	if m.fetching {
		return nil
	}
	m.fetching = true
	return fetchCmd(m.ctrl, strings.TrimSpace(m.urlInput.Value()))
}

func (m *model) setFocus(f inputFocus) {
	m.focus = f
	m.urlInput.Blur()
	m.rateInput.Blur()
	switch f {
	case focusURL:
		m.urlInput.Focus()
	case focusRate:
		m.rateInput.Focus()
	}
}

func (m *model) setWidth(width int) {
	m.width = width
	m.help.Width = width
	m.urlInput.Width = max(width-len(m.urlInput.Prompt)-2, 10)
	m.progress.Width = min(max(width-4, 10), 120)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.focus != focusReader {
			return m.updateInput(msg)
		}
		return m.updateReader(msg)

	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.setWidth(msg.Width)
		return m, nil

	case frameMsg:
		f := playback.Frame(msg)
		if f.Seq <= m.frame.Seq {
			return m, nil
		}
		m.frame = f
		if f.RateText != "" {
			m.rateInput.SetValue(f.RateText)
		}
		return m, nil

	case fetchDoneMsg:
		m.fetching = false
		return m, nil
	}

	var urlCmd, rateCmd tea.Cmd
	m.urlInput, urlCmd = m.urlInput.Update(msg)
	m.rateInput, rateCmd = m.rateInput.Update(msg)
	return m, tea.Batch(urlCmd, rateCmd)
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Blur):
		m.setFocus(focusReader)
		return m, nil

	case key.Matches(msg, keys.NextField):
		if m.focus == focusURL {
			m.setFocus(focusRate)
		} else {
			m.setFocus(focusURL)
		}
		return m, nil

	case key.Matches(msg, keys.Fetch):
		fromURL := m.focus == focusURL
		m.setFocus(focusReader)
		if fromURL {
			return m, m.startFetch()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusURL {
		m.urlInput, cmd = m.urlInput.Update(msg)
	} else {
		m.rateInput, cmd = m.rateInput.Update(msg)
	}
	return m, cmd
}

func (m model) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Play):
		if m.ctrl.TogglePlay(m.rateInput.Value()) {
			m.rateInput.SetValue(correctedRate(m.rateInput.Value(), m.ctrl.Snapshot().WPM))
		}
	case key.Matches(msg, keys.Reset):
		m.ctrl.Reset()
	case key.Matches(msg, keys.Prev):
		m.ctrl.PrevSentence()
	case key.Matches(msg, keys.Next):
		m.ctrl.NextSentence()
	case key.Matches(msg, keys.NextField):
		m.setFocus(focusURL)
	case key.Matches(msg, keys.Fetch):
		return m, m.startFetch()
	}
	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.ctrl.Close()
	return m, tea.Quit
}

func (m model) View() string {
	if m.quitting {
		if m.frame.State == playback.StateFinished {
			return completeStyle.Render("\n  Reading complete!\n")
		}
		return ""
	}

	state := ""
	switch m.frame.State {
	case playback.StateIdle:
		state = pausedStyle.Render(" [PAUSED]")
	case playback.StateFinished:
		state = completeStyle.Render(" [DONE]")
	}
	if m.fetching {
		state += pausedStyle.Render(" [FETCHING]")
	}
	status := statusStyle.Render(
		fmt.Sprintf("Word %d/%d | %d WPM%s",
			m.frame.Position,
			m.frame.Total,
			m.frame.WPM,
			state,
		),
	)

	var word string
	if m.frame.Placeholder {
		word = placeholderStyle.Render(m.frame.Word)
		word = strings.Repeat(" ", max(m.width/2-len([]rune(m.frame.Word))/2, 0)) + word
	} else {
		word = anchorORPText(formatWord(m.frame.Word), m.frame.Word, m.width)
	}

	// Reserve 7 lines: status, url, rate, notice, progress, help and a gap
	avail := m.height - 7
	if avail < 1 {
		avail = 1
	}
	vPad := avail / 2

	var sb strings.Builder

	sb.WriteString(status)
	sb.WriteString("\n")
	sb.WriteString(m.urlInput.View())
	sb.WriteString("\n")
	sb.WriteString(m.rateInput.View())
	sb.WriteString("\n")

	for i := 0; i < vPad; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(word)

	remaining := avail - vPad
	for i := 0; i < remaining; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(noticeStyle.Render(m.frame.Notice))
	sb.WriteString("\n")
	sb.WriteString(" " + m.progress.ViewAs(m.frame.Percent/100))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(keys))

	return sb.String()
}

func formatWord(word string) string {
	before, focus, after := reader.SplitORP(word)

	return wordBeforeStyle.Render(before) +
		erpStyle.Render(focus) +
		wordAfterStyle.Render(after)
}

func anchorORPText(text string, word string, width int) string {
	anchor := width / 2
	orp := reader.GetORPPosition(word)
	pad := anchor - orp
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + text
}

func run(opts *options) error {
	cfg, closer, err := setup(opts)
	if err != nil {
		return err
	}
	defer closer.Close()

	surface := &programSurface{}
	ctrl := control.New(newFetcher(cfg), surface)
	defer ctrl.Close()

	p := tea.NewProgram(newModel(ctrl, opts.URL, opts.Rate), tea.WithAltScreen())
	surface.program = p

	_, err = p.Run()
	return err
}

func main() {
	opts, err := parseOptions("wrr", "Wrr - Web Rapid Reader. Fetches a page and flashes its paragraphs one word at a time.", os.Args[1:])
	if err != nil {
		exitOnError(err)
	}

	if err := run(opts); err != nil {
		exitOnError(err)
	}
}
