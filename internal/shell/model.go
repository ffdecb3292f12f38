package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"
)

// viewLines bounds how much of the transcript View redraws.
const viewLines = 200

type (
	// prompt is one question of a step. def replaces an empty answer.
	prompt struct {
		label string
		def   string
	}

	// step asks its prompts in order, then runs with the answers.
	step struct {
		prompts []prompt
		run     func(ctx context.Context, answers []string) (outcome, error)
	}

	// outcome is what a finished step prints, and optionally the step that
	// follows it.
	outcome struct {
		text string
		next *step
	}

	stepDoneMsg struct {
		action string
		out    outcome
		err    error
	}
)

// runStepCmd runs a step off the update loop and reports back with a
// stepDoneMsg.
func runStepCmd(ctx context.Context, action string, st *step, answers []string) tea.Cmd {
	return func() tea.Msg {
		out, err := st.run(ctx, answers)
		return stepDoneMsg{action: action, out: out, err: err}
	}
}

// model is the Bubble Tea model of the menu. Submitted lines are queued
// while a step is running and consumed once it is done.
type model struct {
	ctx   context.Context
	shell *Shell

	lines   []string
	label   string
	input   []rune
	pending []string

	action  string
	step    *step
	answers []string

	busy bool
	eof  bool
	done bool
}

func newModel(ctx context.Context, s *Shell) *model {
	m := &model{ctx: ctx, shell: s}
	m.write("Welcome to the Personal Expense Tracker!\nPress Ctrl+C at any time to exit.\n")
	m.showMenu()
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case stepDoneMsg:
		m.busy = false
		if cmd := m.finish(msg); cmd != nil {
			return m, cmd
		}
		return m, m.drain()
	}
	return m, nil
}

func (m *model) View() string {
	lines := m.lines
	if len(lines) > viewLines {
		lines = lines[len(lines)-viewLines:]
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if !m.done && !m.busy {
		b.WriteString(m.label)
		b.WriteString(string(m.input))
	}
	return b.String()
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.write("\n\nInterrupted by user. Exiting the program. Goodbye!\n")
		return m.quit()
	case tea.KeyCtrlD:
		if len(m.input) > 0 {
			m.pending = append(m.pending, string(m.input))
			m.input = m.input[:0]
		}
		m.eof = true
		return m.drain()
	case tea.KeyEnter, tea.KeyCtrlJ:
		m.pending = append(m.pending, string(m.input))
		m.input = m.input[:0]
		return m.drain()
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return nil
}

// drain consumes queued lines until a step starts running or the program
// quits. End of input quits once the queue is empty.
func (m *model) drain() tea.Cmd {
	for !m.busy && !m.done && len(m.pending) > 0 {
		line := m.pending[0]
		m.pending = m.pending[1:]
		if cmd := m.submit(line); cmd != nil {
			return cmd
		}
	}
	if m.eof && !m.busy && !m.done {
		m.write("\nGoodbye!\n")
		return m.quit()
	}
	return nil
}

func (m *model) submit(raw string) tea.Cmd {
	line := strings.TrimSpace(raw)
	m.lines = append(m.lines, m.label+line)

	if m.step == nil {
		return m.choose(line)
	}
	if line == "" {
		line = m.step.prompts[len(m.answers)].def
	}
	m.answers = append(m.answers, line)
	return m.advance()
}

func (m *model) choose(line string) tea.Cmd {
	exit := len(m.shell.menu) + 1
	n, err := strconv.Atoi(line)
	switch {
	case err != nil || n < 1 || n > exit:
		m.write(fmt.Sprintf("Invalid choice, please enter a number between 1 and %d.\n", exit))
		m.showMenu()
		return nil
	case n == exit:
		m.write("Goodbye!\n")
		return m.quit()
	}

	item := m.shell.menu[n-1]
	m.shell.logger.DebugContext(m.ctx, "Menu option selected", log.FieldMenuChoice, n)
	m.action = item.action
	if item.title != "" {
		m.write(fmt.Sprintf("\n=== %s ===\n", item.title))
	}
	return m.begin(item.start())
}

func (m *model) begin(st *step) tea.Cmd {
	m.step = st
	m.answers = nil
	return m.advance()
}

// advance asks the next prompt of the current step, or runs the step once
// every answer is in.
func (m *model) advance() tea.Cmd {
	if len(m.answers) < len(m.step.prompts) {
		m.label = m.step.prompts[len(m.answers)].label
		return nil
	}
	m.busy = true
	m.label = ""
	return runStepCmd(m.ctx, m.action, m.step, m.answers)
}

func (m *model) finish(msg stepDoneMsg) tea.Cmd {
	m.write(msg.out.text)
	if msg.err != nil {
		m.report(msg.action, msg.err)
	} else if msg.out.next != nil {
		return m.begin(msg.out.next)
	}
	m.showMenu()
	return nil
}

func (m *model) showMenu() {
	m.step = nil
	m.answers = nil

	var b strings.Builder
	b.WriteString("\n=== Personal Expense Tracker ===\n")
	for i, item := range m.shell.menu {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.label)
	}
	fmt.Fprintf(&b, "%d. Exit\n", len(m.shell.menu)+1)
	m.write(b.String())
	m.label = fmt.Sprintf("Choose an option (1-%d): ", len(m.shell.menu)+1)
}

// report prints a failed step. Validation errors name the rejected field
// and rule; anything else is shown as an unexpected error.
func (m *model) report(action string, err error) {
	logger := m.shell.logger

	var verr *core.ValidationError
	if errors.As(err, &verr) {
		m.write(fmt.Sprintf("Invalid %s: %s.\n", verr.Field, verr.Reason))
		logger.Debug("Input rejected", log.NewFields().
			WithErrorType(log.ErrorTypeValidation).
			WithError(err).ToSlice()...)
		return
	}

	m.write(fmt.Sprintf("An error happened while %s: %v\n", action, err))
	logger.Error("Operation failed", log.NewFields().
		WithErrorType(log.ErrorTypeDatabase).
		WithOperation(action).
		WithError(err).ToSlice()...)
}

func (m *model) quit() tea.Cmd {
	m.done = true
	m.label = ""
	return tea.Quit
}

// write appends text to the transcript, one entry per line.
func (m *model) write(text string) {
	if text == "" {
		return
	}
	m.lines = append(m.lines, strings.Split(strings.TrimSuffix(text, "\n"), "\n")...)
}

func (m *model) transcript() string {
	return strings.Join(m.lines, "\n")
}
