// Package ui is the interactive terminal interface: browse the Backend calls
// found in a file, build new ones, preview their prompts and hand them to
// the consumer command.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"promptbox/db"
	"promptbox/model"
	"promptbox/parser"
	"promptbox/render"
	"promptbox/runner"
	"promptbox/templates"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"
)

type mode int

const (
	modeNormal mode = iota
	modeBuild
	modeHistory
	modeClear
	modeParam
)

// Deps is what the App needs from the rest of the program.
type Deps struct {
	Renderer *render.Renderer
	Registry *templates.Registry
	Archive  *db.DB // nil disables saving
	Context  *model.ProjectContext
	Format   render.Format
	Consumer string
	Source   string // file the calls are read from; empty for builder only
	Logger   *zap.Logger
}

type App struct {
	deps     Deps
	matches  []parser.Match
	filtered []parser.Match
	history  []model.RenderedPrompt

	// UI state
	mode   mode
	cursor int
	width  int
	height int
	err    string
	status string

	// Search
	searchInput textinput.Model

	// Preview
	output      viewport.Model
	outputLines []string
	running     bool
	outputChan  chan runner.OutputMsg
	cancelRun   context.CancelFunc
	current     *model.RenderedPrompt
	md          *glamour.TermRenderer

	// Builder form
	formInputs []textinput.Model
	formFocus  int
	formHint   string
	prevMode   mode

	// Param input
	paramNames  []string
	paramValues map[string]string
	paramIndex  int
	paramInput  textinput.Model
	pendingLine string
}

func NewApp(deps Deps) (*App, error) {
	if deps.Renderer == nil {
		return nil, fmt.Errorf("ui: renderer is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Format == "" {
		deps.Format = render.FormatMarkdown
	}

	search := textinput.New()
	search.Placeholder = "Search calls..."
	search.Focus()

	app := &App{
		deps:        deps,
		searchInput: search,
		output:      viewport.New(80, 10),
		paramValues: make(map[string]string),
	}
	if err := app.loadSource(); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

type outputMsg runner.OutputMsg

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width - 4   // account for app padding
		a.height = msg.Height - 2 // account for app padding
		a.output.Width = a.width - 4
		a.output.Height = a.height / 2
		if md, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(a.output.Width)); err == nil {
			a.md = md
		}
		if a.current != nil && !a.running {
			a.show(*a.current)
		}
		return a, nil

	case outputMsg:
		if msg.Done {
			a.running = false
			a.outputChan = nil
			if a.cancelRun != nil {
				a.cancelRun()
				a.cancelRun = nil
			}
			if msg.ErrMsg != "" {
				a.outputLines = append(a.outputLines, errorStyle.Render("Error: "+msg.ErrMsg))
				a.deps.Logger.Warn("Consumer command failed", zap.String("error", msg.ErrMsg))
			}
			a.output.SetContent(strings.Join(a.outputLines, "\n"))
			a.output.GotoBottom()
			return a, nil
		}
		line := msg.Line
		if msg.IsErr {
			line = errorStyle.Render(line)
		}
		a.outputLines = append(a.outputLines, line)
		a.output.SetContent(strings.Join(a.outputLines, "\n"))
		a.output.GotoBottom()
		return a, waitForOutput(a.outputChan)

	case tea.KeyMsg:
		a.err = ""
		a.status = ""

		switch msg.String() {
		case "pgup", "pgdown":
			var cmd tea.Cmd
			a.output, cmd = a.output.Update(msg)
			return a, cmd
		}

		switch a.mode {
		case modeNormal, modeHistory:
			return a.updateList(msg)
		case modeBuild:
			return a.updateForm(msg)
		case modeClear:
			return a.updateClear(msg)
		case modeParam:
			return a.updateParam(msg)
		}
	}

	return a, nil
}

// updateList handles both the call list and the history list. Plain keys
// go to the search box, so commands are bound to ctrl chords.
func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if a.cancelRun != nil {
			a.cancelRun()
		}
		return a, tea.Quit

	case "up":
		if a.cursor > 0 {
			a.cursor--
		}

	case "down":
		if a.cursor < a.listLen()-1 {
			a.cursor++
		}

	case "enter":
		if a.mode == modeHistory {
			if len(a.history) > 0 {
				a.show(a.history[a.cursor])
			}
			return a, nil
		}
		if len(a.filtered) > 0 {
			a.renderCommand(a.filtered[a.cursor].Command)
		}

	case "tab":
		if a.mode == modeHistory {
			a.mode = modeNormal
		} else {
			a.mode = modeHistory
		}
		a.cursor = 0
		a.searchInput.SetValue("")
		a.filter()

	case "ctrl+n":
		a.prevMode = a.mode
		a.mode = modeBuild
		a.initForm()
		return a, nil

	case "ctrl+s":
		return a.sendCurrent()

	case "ctrl+a":
		a.archiveCurrent()

	case "ctrl+r":
		if err := a.loadSource(); err != nil {
			a.err = err.Error()
		} else if a.deps.Source != "" {
			a.status = fmt.Sprintf("Reloaded %d calls", len(a.matches))
		}

	case "ctrl+x":
		if a.mode == modeHistory && a.deps.Renderer.History().Len() > 0 {
			a.mode = modeClear
		}
		return a, nil

	case "esc":
		a.searchInput.SetValue("")
		a.filter()

	default:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		a.filter()
		return a, cmd
	}

	return a, nil
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.mode = a.prevMode
		a.searchInput.Focus()
		return a, nil

	case "tab", "down":
		a.formFocus = (a.formFocus + 1) % len(a.formInputs)
		return a, a.focusFormInput()

	case "shift+tab", "up":
		a.formFocus--
		if a.formFocus < 0 {
			a.formFocus = len(a.formInputs) - 1
		}
		return a, a.focusFormInput()

	case "enter":
		return a.submitForm()

	default:
		var cmd tea.Cmd
		a.formInputs[a.formFocus], cmd = a.formInputs[a.formFocus].Update(msg)
		if a.formFocus == 0 {
			a.labelArgs()
		}
		return a, cmd
	}
}

func (a *App) updateClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		n := a.deps.Renderer.History().Len()
		a.deps.Renderer.History().Clear()
		a.deps.Logger.Info("History cleared", zap.Int("entries", n))
		a.status = fmt.Sprintf("Cleared %d prompts", n)
		a.cursor = 0
		a.mode = modeHistory
		a.filter()
		return a, nil

	case "n", "N", "esc":
		a.mode = modeHistory
		return a, nil
	}

	return a, nil
}

func (a *App) updateParam(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.mode = modeNormal
		a.searchInput.Focus()
		return a, nil

	case "enter":
		a.paramValues[a.paramNames[a.paramIndex]] = a.paramInput.Value()
		a.paramIndex++

		if a.paramIndex >= len(a.paramNames) {
			return a.executeConsumer()
		}

		a.paramInput.SetValue("")
		a.paramInput.Placeholder = a.paramNames[a.paramIndex]
		return a, nil

	default:
		var cmd tea.Cmd
		a.paramInput, cmd = a.paramInput.Update(msg)
		return a, cmd
	}
}

// renderCommand renders cmd into a new prompt and previews it.
func (a *App) renderCommand(cmd model.Command) {
	p, doc, err := a.deps.Renderer.RenderMarkdown(cmd, a.deps.Context)
	if err != nil {
		a.err = err.Error()
		return
	}
	a.display(p, doc)
	a.status = "Rendered " + cmd.Action.Call()
}

// show previews an already rendered prompt.
func (a *App) show(p model.RenderedPrompt) {
	a.display(p, render.Wrap(p))
}

func (a *App) display(p model.RenderedPrompt, text string) {
	a.current = &p
	if a.md != nil {
		if out, err := a.md.Render(text); err == nil {
			text = out
		}
	}
	a.outputLines = strings.Split(strings.TrimRight(text, "\n"), "\n")
	a.output.SetContent(text)
	a.output.GotoTop()
}

func (a *App) sendCurrent() (tea.Model, tea.Cmd) {
	switch {
	case a.current == nil:
		a.err = "Render a prompt first"
		return a, nil
	case a.deps.Consumer == "":
		a.err = "No consumer command configured"
		return a, nil
	case a.running:
		a.err = "Consumer is still running"
		return a, nil
	}

	line := runner.SubstituteParams(a.deps.Consumer, runner.PromptParams(*a.current))
	a.pendingLine = line
	a.paramValues = make(map[string]string)

	if params := runner.ExtractParams(line); len(params) > 0 {
		a.mode = modeParam
		a.paramNames = params
		a.paramIndex = 0
		a.paramInput = textinput.New()
		a.paramInput.Placeholder = params[0]
		a.paramInput.Focus()
		return a, nil
	}
	return a.executeConsumer()
}

func (a *App) executeConsumer() (tea.Model, tea.Cmd) {
	line := runner.SubstituteParams(a.pendingLine, a.paramValues)
	input, err := render.Export(*a.current, a.deps.Format)
	if err != nil {
		a.err = err.Error()
		a.mode = modeNormal
		return a, nil
	}

	a.deps.Logger.Info("Sending prompt to consumer",
		zap.String("command", line),
		zap.String("prompt", a.current.ID))

	a.running = true
	a.outputLines = []string{callStyle.Render("$ " + line), ""}
	a.output.SetContent(strings.Join(a.outputLines, "\n"))

	a.mode = modeNormal
	a.searchInput.Focus()

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelRun = cancel
	a.outputChan = make(chan runner.OutputMsg)
	go runner.Run(ctx, line, input, a.outputChan)

	return a, waitForOutput(a.outputChan)
}

func waitForOutput(ch chan runner.OutputMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return outputMsg{Done: true}
		}
		return outputMsg(msg)
	}
}

func (a *App) archiveCurrent() {
	switch {
	case a.current == nil:
		a.err = "Render a prompt first"
	case a.deps.Archive == nil:
		a.err = "History archive is not available"
	default:
		if err := a.deps.Archive.Save(*a.current, a.deps.Source); err != nil {
			a.err = err.Error()
			return
		}
		a.deps.Logger.Debug("Prompt archived", zap.String("id", a.current.ID))
		a.status = "Saved!"
	}
}

// initForm lays out the action field followed by one field per argument of
// the widest schema.
func (a *App) initForm() {
	width := 0
	for _, act := range model.Actions {
		width = max(width, len(parser.Schema(act)))
	}
	a.formInputs = make([]textinput.Model, width+1)

	actionInput := textinput.New()
	actionInput.Placeholder = "crear, obtener, actualizar, eliminar, ejecutar, crearTabla"
	actionInput.Focus()
	a.formInputs[0] = actionInput

	for i := 1; i <= width; i++ {
		a.formInputs[i] = textinput.New()
	}
	a.formFocus = 0
	a.labelArgs()
}

// labelArgs names the argument fields after the slots of the typed action.
func (a *App) labelArgs() {
	action, ok := model.ParseAction(strings.TrimSpace(a.formInputs[0].Value()))
	var slots []model.Slot
	a.formHint = ""
	if ok {
		slots = parser.Schema(action)
		a.formHint = templates.Snippet(action)
		if a.deps.Registry != nil {
			if t, found := a.deps.Registry.Get(action); found {
				a.formHint = t.Description + "\n" + a.formHint
			}
		}
	}
	for i := 1; i < len(a.formInputs); i++ {
		switch {
		case i-1 < len(slots):
			a.formInputs[i].Placeholder = slots[i-1].String()
		case ok:
			a.formInputs[i].Placeholder = "(unused)"
		default:
			a.formInputs[i].Placeholder = fmt.Sprintf("argument %d", i)
		}
	}
}

func (a *App) focusFormInput() tea.Cmd {
	for i := range a.formInputs {
		a.formInputs[i].Blur()
	}
	return a.formInputs[a.formFocus].Focus()
}

func (a *App) submitForm() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(a.formInputs[0].Value())
	action, ok := model.ParseAction(name)
	if !ok {
		a.err = fmt.Sprintf("Unknown action %q", name)
		if a.deps.Registry != nil {
			a.err += " (try " + joinActions(a.deps.Registry.Actions()) + ")"
		}
		return a, nil
	}

	answers := make([]string, 0, len(a.formInputs)-1)
	for _, in := range a.formInputs[1:] {
		answers = append(answers, in.Value())
	}
	a.renderCommand(parser.Build(action, answers...))
	if a.err != "" {
		return a, nil
	}

	a.mode = a.prevMode
	a.filter()
	a.searchInput.Focus()
	return a, nil
}

// loadSource rereads the source file and refreshes the call list.
func (a *App) loadSource() error {
	if a.deps.Source == "" {
		return nil
	}
	data, err := os.ReadFile(a.deps.Source)
	if err != nil {
		return err
	}
	a.matches = parser.FindAll(string(data))
	a.deps.Logger.Debug("Loaded calls",
		zap.String("source", a.deps.Source),
		zap.Int("calls", len(a.matches)))
	a.filter()
	return nil
}

func (a *App) listLen() int {
	if a.mode == modeHistory || a.mode == modeClear {
		return len(a.history)
	}
	return len(a.filtered)
}

func (a *App) filter() {
	query := a.searchInput.Value()

	if a.mode == modeHistory || a.mode == modeClear {
		entries := a.deps.Renderer.History().Entries()
		if query == "" {
			a.history = entries
		} else {
			targets := make([]string, len(entries))
			for i, p := range entries {
				targets[i] = parser.Format(p.Command)
			}
			found := fuzzy.Find(query, targets)
			a.history = make([]model.RenderedPrompt, len(found))
			for i, m := range found {
				a.history[i] = entries[m.Index]
			}
		}
	} else if query == "" {
		a.filtered = a.matches
	} else {
		targets := make([]string, len(a.matches))
		for i, m := range a.matches {
			targets[i] = m.Text
		}
		found := fuzzy.Find(query, targets)
		a.filtered = make([]parser.Match, len(found))
		for i, m := range found {
			a.filtered[i] = a.matches[m.Index]
		}
	}

	if a.cursor >= a.listLen() {
		a.cursor = max(0, a.listLen()-1)
	}
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("promptbox"))
	b.WriteString("  ")
	b.WriteString(a.renderContext())
	if last, ok := a.deps.Renderer.History().Last(); ok {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  last %s at %s", last.Command.Action, last.CreatedAt.Format("15:04:05"))))
	}
	b.WriteString("\n\n")

	b.WriteString(a.searchInput.View())
	b.WriteString("\n\n")

	listHeight := (a.height - a.output.Height - 12) / 2
	if listHeight < 3 {
		listHeight = 3
	}

	switch a.mode {
	case modeBuild:
		b.WriteString(a.renderForm())
	case modeHistory, modeClear:
		b.WriteString(a.renderHistory(listHeight))
	default:
		b.WriteString(a.renderCalls(listHeight))
	}

	if a.mode == modeClear {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("Clear %d prompts from history? (y/n)", a.deps.Renderer.History().Len())))
		b.WriteString("\n")
	}

	if a.mode == modeParam {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("Enter value for {{%s}}: ", a.paramNames[a.paramIndex])))
		b.WriteString(a.paramInput.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	title := "PREVIEW"
	if a.running {
		title = "CONSUMER"
	}
	b.WriteString(previewTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(borderStyle.Width(a.width - 4).Render(a.output.View()))
	b.WriteString("\n")

	if a.err != "" {
		b.WriteString(errorStyle.Render("Error: " + a.err))
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(successStyle.Render(a.status))
		b.WriteString("\n")
	}

	b.WriteString(a.renderHelp())

	return appStyle.Render(b.String())
}

func (a *App) renderContext() string {
	pc := a.deps.Context
	switch {
	case pc == nil:
		return mutedStyle.Render("no project context")
	case pc.Recognized():
		return contextStyle.Render(fmt.Sprintf("Génesis · %d entidades · %d modelos · %d repositorios",
			len(pc.Entities), len(pc.Models), len(pc.Repositories)))
	default:
		return mutedStyle.Render("generic project")
	}
}

func (a *App) renderCalls(height int) string {
	if len(a.filtered) == 0 {
		if a.deps.Source == "" {
			return mutedStyle.Render("No file loaded. Press ctrl+n to build a call.\n")
		}
		return mutedStyle.Render("No Backend calls found. Press ctrl+n to build one.\n")
	}

	start, end := window(a.cursor, height, len(a.filtered))
	var lines []string
	for i := start; i < end; i++ {
		m := a.filtered[i]
		prefix := "  "
		style := normalStyle
		if i == a.cursor {
			prefix = "▸ "
			style = selectedStyle
		}

		head := style.Render(prefix) + actionBadge(m.Command.Action) + " " + style.Render(m.Command.Resource)
		call := callStyle.Render(fmt.Sprintf("  %d: %s", m.Line+1, truncate(oneLine(m.Text), a.width-16)))
		lines = append(lines, head, call)
	}

	return strings.Join(lines, "\n") + "\n"
}

func (a *App) renderHistory(height int) string {
	if len(a.history) == 0 {
		return mutedStyle.Render("No prompts rendered yet.\n")
	}

	start, end := window(a.cursor, height, len(a.history))
	var lines []string
	for i := start; i < end; i++ {
		p := a.history[i]
		prefix := "  "
		style := normalStyle
		if i == a.cursor {
			prefix = "▸ "
			style = selectedStyle
		}

		head := style.Render(prefix+p.CreatedAt.Format("15:04:05")+"  ") + actionBadge(p.Command.Action) + " " + style.Render(p.Command.Resource)
		call := callStyle.Render("  " + truncate(parser.Format(p.Command), a.width-10))
		lines = append(lines, head, call)
	}

	return strings.Join(lines, "\n") + "\n"
}

func (a *App) renderForm() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Build Call"))
	b.WriteString("\n\n")

	for i, input := range a.formInputs {
		label := "Action"
		if i > 0 {
			label = fmt.Sprintf("Arg %d", i)
		}
		b.WriteString(labelStyle.Render(label + ": "))
		style := inputStyle
		if i == a.formFocus {
			style = focusedInputStyle
		}
		b.WriteString(style.Width(a.width - 20).Render(input.View()))
		b.WriteString("\n\n")
	}

	if a.formHint != "" {
		b.WriteString(callStyle.Render(a.formHint))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("tab: next field • enter: render • esc: cancel"))
	b.WriteString("\n")

	return b.String()
}

func (a *App) renderHelp() string {
	var keys []struct{ key, desc string }
	switch a.mode {
	case modeNormal:
		keys = []struct{ key, desc string }{
			{"enter", "render"},
			{"tab", "history"},
			{"ctrl+n", "build"},
			{"ctrl+s", "send"},
			{"ctrl+a", "save"},
			{"ctrl+r", "reload"},
			{"ctrl+c", "quit"},
		}
	case modeHistory:
		keys = []struct{ key, desc string }{
			{"enter", "show"},
			{"tab", "calls"},
			{"ctrl+s", "send"},
			{"ctrl+a", "save"},
			{"ctrl+x", "clear"},
			{"ctrl+c", "quit"},
		}
	default:
		return ""
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, helpKeyStyle.Render(k.key)+" "+helpStyle.Render(k.desc))
	}

	return strings.Join(parts, "  ")
}

// window returns the visible [start, end) range that keeps cursor on screen.
func window(cursor, height, n int) (int, int) {
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	return start, min(start+height, n)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if max < 4 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func joinActions(actions []model.Action) string {
	names := make([]string, len(actions))
	for i, act := range actions {
		names[i] = string(act)
	}
	return strings.Join(names, ", ")
}
