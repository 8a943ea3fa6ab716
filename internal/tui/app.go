// Package tui provides the interactive terminal UI for studyplan.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fentz26/studyplan/internal/export"
	"github.com/fentz26/studyplan/internal/models"
	"github.com/fentz26/studyplan/internal/planner"
	"github.com/fentz26/studyplan/internal/store"
)

// Backend is the service surface the TUI drives.
type Backend interface {
	Now() time.Time
	ListTasks(f store.Filter) ([]models.Task, error)
	CreateTask(t models.Task) (*models.Task, error)
	SetProgress(id string, percent float64) (*models.Task, error)
	DeleteTask(id string) error
	GeneratePlan(override planner.Capacity) (*planner.Result, error)
	CurrentPlan() (*planner.Result, error)
	ExportPlan(dir string) (*export.Result, error)
}

type mode int

const (
	modeList mode = iota
	modePlan
)

// App is the main TUI application model.
type App struct {
	backend     Backend
	tasks       []models.Task
	selectedIdx int
	input       textinput.Model
	viewport    viewport.Model
	width       int
	height      int
	mode        mode
	plan        *planner.Result
	message     string
	incomplete  bool
}

// New creates a new TUI application.
func New(backend Backend) *App {
	ti := textinput.New()
	ti.Placeholder = "Type: add <title> days=N | progress <pct> | done | del | gen [Mon=3] | export"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 80

	a := &App{
		backend:  backend,
		input:    ti,
		viewport: viewport.New(80, 20),
	}
	if res, err := backend.CurrentPlan(); err == nil {
		a.plan = res
	}
	return a
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.fetchTasks(),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit

		case "esc":
			if a.mode == modePlan {
				a.mode = modeList
				return a, nil
			}

		case "tab":
			a.toggleMode()
			return a, nil

		case "ctrl+g":
			return a, a.generatePlan(nil)

		case "ctrl+e":
			return a, a.exportPlan()

		case "ctrl+f":
			a.incomplete = !a.incomplete
			return a, a.fetchTasks()

		case "up":
			if a.mode == modeList && a.selectedIdx > 0 {
				a.selectedIdx--
			} else if a.mode == modePlan {
				a.viewport.LineUp(1)
			}
			return a, nil

		case "down":
			if a.mode == modeList && a.selectedIdx < len(a.tasks)-1 {
				a.selectedIdx++
			} else if a.mode == modePlan {
				a.viewport.LineDown(1)
			}
			return a, nil

		case "pgup", "pgdown":
			if a.mode == modePlan {
				var cmd tea.Cmd
				a.viewport, cmd = a.viewport.Update(msg)
				return a, cmd
			}

		case "enter":
			input := strings.TrimSpace(a.input.Value())
			if input != "" {
				a.input.SetValue("")
				return a, a.executeCommand(input)
			}
			if a.mode == modeList && a.plan != nil {
				a.toggleMode()
			}
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 4
		a.viewport.Width = msg.Width
		a.viewport.Height = max(5, msg.Height-8)

	case tasksLoadedMsg:
		a.tasks = msg.tasks
		if a.selectedIdx >= len(a.tasks) {
			a.selectedIdx = max(0, len(a.tasks)-1)
		}

	case planGeneratedMsg:
		a.plan = msg.result
		a.mode = modePlan
		a.viewport.SetContent(renderPlan(a.plan))
		a.viewport.GotoTop()
		a.message = fmt.Sprintf("Plan generated: %d sessions, %.1fh", msg.result.Plan.SessionCount(), msg.result.Plan.TotalHours())

	case commandResultMsg:
		a.message = msg.message
		return a, a.fetchTasks()

	case errMsg:
		a.message = "Error: " + msg.err.Error()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

func (a *App) toggleMode() {
	if a.mode == modeList {
		a.mode = modePlan
		a.viewport.SetContent(renderPlan(a.plan))
	} else {
		a.mode = modeList
	}
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("STUDYPLAN")
	if a.mode == modePlan {
		header += "  " + dayStyle.Render("weekly plan")
	} else if a.incomplete {
		header += "  " + mutedStyle.Render("[incomplete only]")
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", a.width) + "\n")

	contentHeight := a.height - 8
	if contentHeight < 5 {
		contentHeight = 5
	}

	switch a.mode {
	case modeList:
		b.WriteString(renderTaskList(a.tasks, a.selectedIdx, contentHeight, a.backend.Now()))
	case modePlan:
		b.WriteString(a.viewport.View())
	}

	// Message bar
	if a.message != "" {
		style := messageStyle
		if strings.HasPrefix(a.message, "Error") {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(a.message))
	} else {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(a.input.View()))
	b.WriteString("\n")

	var status string
	switch a.mode {
	case modeList:
		status = fmt.Sprintf(" Tasks: %d | up/down:nav | Tab:plan | ctrl+g:generate | ctrl+e:export | ctrl+f:filter | ctrl+c:quit", len(a.tasks))
	case modePlan:
		status = " up/down/pgup/pgdown:scroll | Tab/Esc:tasks | ctrl+g:regenerate | ctrl+e:export | ctrl+c:quit"
	}
	b.WriteString(statusBarStyle.Width(a.width).Render(status))

	return b.String()
}

func (a *App) fetchTasks() tea.Cmd {
	filter := store.Filter{IncompleteOnly: a.incomplete}
	return func() tea.Msg {
		tasks, err := a.backend.ListTasks(filter)
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks}
	}
}

func (a *App) generatePlan(override planner.Capacity) tea.Cmd {
	return func() tea.Msg {
		res, err := a.backend.GeneratePlan(override)
		if err != nil {
			return errMsg{err}
		}
		return planGeneratedMsg{res}
	}
}

func (a *App) exportPlan() tea.Cmd {
	return func() tea.Msg {
		res, err := a.backend.ExportPlan("")
		if res == nil {
			return errMsg{err}
		}
		if err != nil {
			return commandResultMsg{fmt.Sprintf("Error: exported %d of %d files: %v", len(res.Paths()), len(res.Artifacts), err)}
		}
		return commandResultMsg{"Exported " + strings.Join(res.Paths(), ", ")}
	}
}

func (a *App) selectedTask() (models.Task, bool) {
	if len(a.tasks) == 0 || a.selectedIdx >= len(a.tasks) {
		return models.Task{}, false
	}
	return a.tasks[a.selectedIdx], true
}

func (a *App) executeCommand(input string) tea.Cmd {
	cmd, ok := parseCommand(input)
	if !ok {
		return nil
	}
	selected, hasSelection := a.selectedTask()

	switch cmd.name {
	case "gen", "generate":
		override, err := parseCapacityArgs(cmd.args)
		if err != nil {
			return func() tea.Msg { return errMsg{err} }
		}
		return a.generatePlan(override)
	case "export":
		return a.exportPlan()
	case "plan":
		a.mode = modePlan
		a.viewport.SetContent(renderPlan(a.plan))
		return nil
	case "list", "tasks":
		a.mode = modeList
		return a.fetchTasks()
	}

	return func() tea.Msg {
		switch cmd.name {
		case "add":
			task, err := parseAddCommand(cmd.args, a.backend.Now())
			if err != nil {
				return commandResultMsg{"Error: " + err.Error()}
			}
			created, err := a.backend.CreateTask(task)
			if err != nil {
				return commandResultMsg{"Error: " + err.Error()}
			}
			return commandResultMsg{fmt.Sprintf("Created task: %s", created.Title)}

		case "progress":
			if !hasSelection {
				return commandResultMsg{"No task selected"}
			}
			if len(cmd.args) != 1 {
				return commandResultMsg{"Usage: progress <percent>"}
			}
			pct, err := parsePercent(cmd.args[0])
			if err != nil {
				return commandResultMsg{"Error: " + err.Error()}
			}
			t, err := a.backend.SetProgress(selected.ID, pct)
			if err != nil {
				return commandResultMsg{"Error: " + err.Error()}
			}
			return commandResultMsg{fmt.Sprintf("%s: %.0f%% complete", t.Title, t.CompletionStatus*100)}

		case "done":
			if !hasSelection {
				return commandResultMsg{"No task selected"}
			}
			if _, err := a.backend.SetProgress(selected.ID, 100); err != nil {
				return commandResultMsg{"Error: " + err.Error()}
			}
			return commandResultMsg{fmt.Sprintf("Completed: %s", selected.Title)}

		case "del", "delete":
			if !hasSelection {
				return commandResultMsg{"No task selected"}
			}
			if err := a.backend.DeleteTask(selected.ID); err != nil {
				return commandResultMsg{"Error: " + err.Error()}
			}
			return commandResultMsg{fmt.Sprintf("Deleted: %s", selected.Title)}

		default:
			return commandResultMsg{fmt.Sprintf("Unknown: %s (try: add, progress, done, del, gen, export)", cmd.name)}
		}
	}
}

type commandResultMsg struct {
	message string
}

type errMsg struct {
	err error
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

type planGeneratedMsg struct {
	result *planner.Result
}
