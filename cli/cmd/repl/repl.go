package repl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/bdl/lang"
	"github.com/ardnew/bdl/lang/ast"
	"github.com/ardnew/bdl/lang/lexer"
	"github.com/ardnew/bdl/lang/token"
	"github.com/ardnew/bdl/log"
)

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")
)

// editDoneMsg is sent when the external editor returns a source that parses.
type editDoneMsg struct{}

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a syntax
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails for any other reason.
type editErrorMsg struct{ err error }

const (
	definePrompt = "➜ "
	contPrompt   = "… "
	ctrlPrompt   = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this message
  list     List defined blocks
  tree     Print the session outline
  json     Print the session as JSON
  source   Print the session source
  edit     Edit the session source in $EDITOR
  reset    Discard every definition
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a definition such as  port = 8080  to add it to the session
  An unclosed '{' continues a definition on the next lines until it is closed
  Start a line with '?' to query the session, e.g.  ? len(blocks)
  Press Tab / Shift-Tab to cycle through completions
  Use Up/Down arrows for history, Shift+Up/Down within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit
`
}

// inputMode is the current input mode.
type inputMode int

const (
	modeDefine inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *Session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	pending      []string      // lines of a definition with unclosed braces
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	defineText   string
	defineCursor int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL. The session starts with the definitions in source.
func Run(
	ctx context.Context,
	source string,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("source_bytes", len(source)),
	)

	session, err := NewSession(ctx, source, logger)
	if err != nil {
		return err
	}

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, session, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(definePrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeDefine,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(definePrompt) - 2

		return m, nil

	case editDoneMsg:
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("blocks", len(m.session.Root().Blocks)),
		)

		return m, tea.Println(resultStyle.Render("session updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "" && len(m.pending) > 0:
		b.WriteString(hintStyle.Render("Close the block with '}', or press Ctrl+C to discard it"))

	case strings.TrimSpace(input) == "":
		hint := "Type a definition, ?query, or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.pending = nil
		m.input.Prompt = promptStyle.Render(definePrompt)
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyStep(-1, false)

	case tea.KeyDown:
		return m.historyStep(1, false)

	case tea.KeyShiftUp:
		return m.historyStep(-1, true)

	case tea.KeyShiftDown:
		return m.historyStep(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeDefine {
			return m.switchToMode(modeCtrl)
		}

		return m.switchToMode(modeDefine)

	case tea.KeyRunes:
		// Space ends tab-cycling and keeps the candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key edits or moves without auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping around.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word with replacement and moves
// the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes completions for the current input. With
// autoConfirm, a word that already equals its only candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := m.input.Value()
	input := strings.TrimSpace(raw)

	m.input.SetValue("")
	m.defineText, m.defineCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		if input == "" {
			return m, nil
		}

		m.remember(input, modeCtrl)

		return m.executeCommand(input)
	}

	// A definition with unclosed braces collects lines until they balance.
	if len(m.pending) > 0 {
		if input == "" {
			return m, nil
		}

		m.pending = append(m.pending, strings.TrimRight(raw, " \t"))
		echo := tea.Println(promptStyle.Render(contPrompt) + inputStyle.Render(raw))

		block := strings.Join(m.pending, "\n")
		if openBraces(block) > 0 {
			return m, echo
		}

		m.pending = nil
		m.input.Prompt = promptStyle.Render(definePrompt)

		return m, tea.Sequence(echo, m.define(block))
	}

	if input == "" {
		return m, nil
	}

	m.remember(input, modeDefine)

	echo := tea.Println(promptStyle.Render(definePrompt) + inputStyle.Render(input))

	if q, ok := strings.CutPrefix(input, queryPrefix); ok {
		return m, tea.Sequence(echo, m.query(q))
	}

	if openBraces(input) > 0 {
		m.pending = []string{input}
		m.input.Prompt = promptStyle.Render(contPrompt)

		return m, echo
	}

	return m, tea.Sequence(echo, m.define(input))
}

// openBraces returns the number of '{' in src not yet matched by '}'.
// Braces inside strings and comments are not counted.
func openBraces(src string) int {
	depth := 0

	for lex := lexer.NewString(src); ; {
		tok := lex.Next()

		switch {
		case tok.Kind == token.EOF:
			return depth

		case tok.Is(token.Op, "{"):
			depth++

		case tok.Is(token.Op, "}"):
			depth--
		}
	}
}

func (m model) remember(input string, mode inputMode) {
	if err := m.history.Add(input, mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed", slog.Any("error", err))
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl input",
		slog.String("input", input),
		slog.Int("mode", int(mode)),
	)
}

// define adds src to the session and prints the outline of what it added.
func (m model) define(src string) tea.Cmd {
	added, err := m.session.Define(m.ctxFunc(), src)
	if err != nil {
		return tea.Println(renderError(err))
	}

	var b strings.Builder

	for _, n := range added {
		ast.Inspect(n, func(n ast.Node, depth int) bool {
			b.WriteString(strings.Repeat("  ", depth) + lang.Describe(n) + "\n")

			return true
		})
	}

	return tea.Println(resultStyle.Render(strings.TrimRight(b.String(), "\n")))
}

// query evaluates q over the session and prints the result as JSON.
func (m model) query(q string) tea.Cmd {
	result, err := m.session.Query(m.ctxFunc(), strings.TrimSpace(q))
	if err != nil {
		return tea.Println(renderError(err))
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	return tea.Println(resultStyle.Render(string(data)))
}

// renderError renders err, with the source snippet for syntax errors.
func renderError(err error) string {
	if se, ok := lang.SyntaxError(err); ok {
		return errorStyle.Render(se.Error()) + "\n" + hintStyle.Render(strings.TrimRight(se.Snippet(), "\n"))
	}

	return errorStyle.Render("error: " + err.Error())
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listBlocks()))

	case "t", "tree":
		return m, tea.Sequence(echo, m.export(lang.Tree))

	case "j", "json":
		return m, tea.Sequence(echo, m.export(lang.JSON))

	case "s", "source":
		return m, tea.Sequence(echo, tea.Println(m.session.Source()))

	case "r", "reset":
		m.session.Reset()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("session cleared")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) export(format lang.Format) tea.Cmd {
	var buf bytes.Buffer

	if err := lang.Export(m.ctxFunc(), &buf, m.session.Root(), format, 2); err != nil {
		return tea.Println(renderError(err))
	}

	return tea.Println(strings.TrimRight(buf.String(), "\n"))
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case !cmd.changed:
			return editCancelledMsg{}
		}

		return editDoneMsg{}
	})
}

func (m model) listBlocks() string {
	var b strings.Builder

	for _, n := range m.session.Root().Blocks {
		name, _ := ast.BlockName(n)
		pos := n.Provenance().Start

		b.WriteString(fmt.Sprintf("  %s %s\n", name,
			hintStyle.Render(string(n.Type())+" @ "+pos.String())))
	}

	return strings.TrimRight(b.String(), "\n")
}

// historyStep moves through history by step. With sameMode, entries of the
// other mode are skipped; otherwise the mode follows the entry.
func (m model) historyStep(step int, sameMode bool) (model, tea.Cmd) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m, _ = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m, nil
	}

	// Moving past the newest entry returns to an empty line.
	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// switchToMode switches to mode, keeping each mode's unsubmitted input.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeDefine {
		m.defineText, m.defineCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	if mode == modeDefine {
		m.input.Prompt = promptStyle.Render(definePrompt)
		m.input.SetValue(m.defineText)
		m.input.SetCursor(m.defineCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
