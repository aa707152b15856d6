package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/go-mpv/layout"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateEdit modelState = iota
	stateShowResult
)

type inputMode int

const (
	modeNode inputMode = iota
	modeArgv
)

type interactiveModel struct {
	err    error
	result string
	target string
	guest  string
	model  layout.Model
	input  textinput.Model
	mode   inputMode
	state  modelState
}

type resultMsg struct {
	err    error
	result string
}

func newInteractiveModel(target string, model layout.Model, guest string) *interactiveModel {
	ti := textinput.New()
	ti.Width = 60
	ti.Focus()
	m := &interactiveModel{
		target: target,
		guest:  guest,
		model:  model,
		input:  ti,
		state:  stateEdit,
	}
	m.setMode(modeNode)
	return m
}

func (m *interactiveModel) setMode(mode inputMode) {
	m.mode = mode
	switch mode {
	case modeNode:
		m.input.Prompt = "node> "
		m.input.Placeholder = `{pause: true, volume: 72.5, chapters: [intro, outro]}`
	case modeArgv:
		m.input.Prompt = "argv> "
		m.input.Placeholder = "loadfile,/tmp/a.mkv,append-play"
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateShowResult {
				return m, tea.Quit
			}

		case "enter":
			switch m.state {
			case stateEdit:
				return m, m.encode
			case stateShowResult:
				m.state = stateEdit
				m.result = ""
				m.err = nil
				return m, nil
			}

		case "tab":
			if m.state == stateEdit && m.target == targetArena {
				if m.model == layout.LP64 {
					m.model = layout.Wasm32
				} else {
					m.model = layout.LP64
				}
				return m, nil
			}

		case "ctrl+a":
			if m.state == stateEdit {
				if m.mode == modeNode {
					m.setMode(modeArgv)
				} else {
					m.setMode(modeNode)
				}
				return m, nil
			}

		case "esc":
			switch m.state {
			case stateEdit:
				m.input.SetValue("")
			case stateShowResult:
				m.state = stateEdit
				m.result = ""
				m.err = nil
			}
			return m, nil
		}

	case resultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) encode() tea.Msg {
	ctx := context.Background()
	b, err := newBackend(ctx, m.target, m.model, m.guest)
	if err != nil {
		return resultMsg{err: err}
	}
	defer b.close()

	if m.mode == modeArgv {
		text, err := dumpArgv(b, strings.Split(m.input.Value(), ","))
		return resultMsg{result: text, err: err}
	}

	n, err := parseDocument([]byte(m.input.Value()))
	if err != nil {
		return resultMsg{err: err}
	}
	r, err := encodeNode(b, n)
	if err != nil {
		return resultMsg{err: err}
	}
	return resultMsg{result: r.String()}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mpv_node dump"))
	b.WriteString(" ")
	b.WriteString(modeStyle.Render(m.target + "/" + m.model.Name))
	b.WriteString("\n\n")

	switch m.state {
	case stateEdit:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		help := "enter encode • ctrl+a node/argv • esc clear • ctrl+c quit"
		if m.target == targetArena {
			help = "enter encode • tab lp64/wasm32 • ctrl+a node/argv • esc clear • ctrl+c quit"
		}
		b.WriteString(helpStyle.Render(help))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(target string, model layout.Model, guest string) error {
	p := tea.NewProgram(newInteractiveModel(target, model, guest), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
