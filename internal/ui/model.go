package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"filesorter/internal/config"
	"filesorter/internal/services"
	"filesorter/internal/state"
)

type Model struct {
	state   *state.State
	sorter  services.Sorter
	keys    KeyMap
	input   textinput.Model
	bar     progress.Model
	events  chan tea.Msg
	reply   chan<- bool
	cancel  context.CancelFunc
	editing bool
	help    bool
	status  string
	width   int
	height  int
}

type ConfigProvider interface {
	ApplyTo(cfg config.Config) config.Config
}

func NewModel(appState *state.State, sorter services.Sorter) Model {
	input := textinput.New()
	input.Placeholder = "folder to sort"
	input.Prompt = "> "
	input.CharLimit = 4096
	input.SetValue(appState.Folder)

	return Model{
		state:  appState,
		sorter: sorter,
		keys:   DefaultKeyMap(),
		input:  input,
		bar:    progress.New(progress.WithDefaultGradient()),
		status: "Ready - press s to sort, e to change folder",
		width:  100,
		height: 30,
	}
}

func (model Model) WithStatus(message string) Model {
	if message != "" {
		model.status = message
	}
	return model
}

func (model Model) ApplyTo(cfg config.Config) config.Config {
	return model.state.Apply(cfg)
}

func (model Model) Init() tea.Cmd {
	return nil
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return model.handleKey(typed)
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.bar.Width = maxInt(minInt(typed.Width-4, 60), 10)
		return model, nil
	case sortPhaseMsg:
		model.state.SetPhase(typed.phase)
		if typed.phase == services.PhaseScanning {
			model.status = fmt.Sprintf("Scanning %s", model.state.Folder)
		}
		return model, model.listenCmd()
	case confirmRequestMsg:
		model.state.AwaitConfirmation(typed.scan)
		model.reply = typed.reply
		model.status = confirmPrompt(typed.scan)
		return model, nil
	case sortProgressMsg:
		if !model.state.Running() {
			return model, model.listenCmd()
		}
		model.state.Advance(typed.index, typed.total, typed.outcome)
		model.status = fmt.Sprintf("Moving %d/%d", typed.index, typed.total)
		return model, tea.Batch(model.bar.SetPercent(model.state.Fraction()), model.listenCmd())
	case sortResultMsg:
		model.state.Finish(typed.summary, typed.err)
		model.reply = nil
		if model.cancel != nil {
			model.cancel()
			model.cancel = nil
		}
		model.status = resultStatus(typed.summary, typed.err)
		if typed.err != nil {
			return model, nil
		}
		return model, model.bar.SetPercent(model.state.Fraction())
	case sortEventsClosedMsg:
		model.events = nil
		return model, nil
	case progress.FrameMsg:
		updated, cmd := model.bar.Update(typed)
		if bar, ok := updated.(progress.Model); ok {
			model.bar = bar
		}
		return model, cmd
	default:
		return model, nil
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.editing {
		return model.handleInput(msg)
	}
	switch {
	case key.Matches(msg, model.keys.Quit):
		if model.state.Phase == services.PhaseMoving {
			model.status = "Sorting in progress - wait for it to finish"
			return model, nil
		}
		if model.reply != nil {
			model = model.answer(false)
		}
		if model.cancel != nil {
			model.cancel()
			model.cancel = nil
		}
		return model, tea.Quit
	case key.Matches(msg, model.keys.Help):
		model.help = !model.help
		return model, nil
	case model.reply != nil && key.Matches(msg, model.keys.Confirm):
		model = model.answer(true)
		model.status = "Moving files"
		return model, model.listenCmd()
	case model.reply != nil && key.Matches(msg, model.keys.Cancel):
		model = model.answer(false)
		model.status = "Cancelling"
		return model, model.listenCmd()
	case model.state.Running():
		return model, nil
	case key.Matches(msg, model.keys.Edit):
		model.editing = true
		model.input.SetValue(model.state.Folder)
		model.input.CursorEnd()
		model.status = "Type a folder path, enter to apply, esc to cancel"
		return model, model.input.Focus()
	case key.Matches(msg, model.keys.Start):
		return model.beginSort()
	case key.Matches(msg, model.keys.Recursive):
		model.state.ToggleRecursive()
		return model, nil
	case key.Matches(msg, model.keys.Categories):
		model.state.ToggleCategories()
		return model, nil
	case key.Matches(msg, model.keys.Language):
		model.state.CycleLocale()
		return model, nil
	case key.Matches(msg, model.keys.Hidden):
		model.state.ToggleShowHidden()
		return model, nil
	default:
		return model, nil
	}
}

func (model Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		model.editing = false
		model.input.Blur()
		model.status = "Folder unchanged"
		return model, nil
	case tea.KeyEnter:
		model.editing = false
		model.input.Blur()
		model.state.Folder = strings.TrimSpace(model.input.Value())
		model.status = fmt.Sprintf("Folder: %s", model.state.Folder)
		return model, nil
	case tea.KeyCtrlC:
		return model, tea.Quit
	}
	var cmd tea.Cmd
	model.input, cmd = model.input.Update(msg)
	return model, cmd
}

func (model Model) answer(confirmed bool) Model {
	if model.reply == nil {
		return model
	}
	model.reply <- confirmed
	model.reply = nil
	model.state.Answered(confirmed)
	return model
}

// beginSort runs the sorter in a command goroutine. Confirmation travels to
// the model as a request carrying its reply channel; phase and progress
// updates are dropped rather than blocking the sort when the UI lags.
func (model Model) beginSort() (tea.Model, tea.Cmd) {
	if model.sorter == nil {
		model.status = "Sorter unavailable"
		return model, nil
	}
	request := model.state.Request()
	if request.Folder == "" {
		model.status = "Choose a folder first - press e"
		return model, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg, 64)
	request.Phase = func(phase services.Phase) {
		sendNonBlocking(events, sortPhaseMsg{phase: phase})
	}
	request.Progress = func(index, total int, outcome services.MoveOutcome) {
		sendNonBlocking(events, sortProgressMsg{index: index, total: total, outcome: outcome})
	}
	request.Confirm = func(scan services.ScanResult) bool {
		reply := make(chan bool, 1)
		select {
		case events <- confirmRequestMsg{scan: scan, reply: reply}:
		case <-ctx.Done():
			return false
		}
		select {
		case confirmed := <-reply:
			return confirmed
		case <-ctx.Done():
			return false
		}
	}

	model.state.Begin()
	model.events = events
	model.cancel = cancel
	model.reply = nil
	model.status = fmt.Sprintf("Scanning %s", request.Folder)
	sorter := model.sorter
	sortCmd := func() tea.Msg {
		defer close(events)
		summary, err := sorter.Sort(ctx, request)
		return sortResultMsg{summary: summary, err: err}
	}
	return model, tea.Batch(sortCmd, model.listenCmd(), model.bar.SetPercent(0))
}

func (model Model) listenCmd() tea.Cmd {
	events := model.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return sortEventsClosedMsg{}
		}
		return msg
	}
}

func sendNonBlocking(ch chan<- tea.Msg, msg tea.Msg) {
	select {
	case ch <- msg:
	default:
	}
}

func confirmPrompt(scan services.ScanResult) string {
	return fmt.Sprintf("Move %d files (%s) in %s? (y/n)", len(scan.Files), formatSize(scan.TotalBytes), scan.Root)
}

func resultStatus(summary services.Summary, err error) string {
	switch {
	case errors.Is(err, services.ErrCancelled):
		return "Sort cancelled - nothing was moved"
	case errors.Is(err, services.ErrNotFound):
		return fmt.Sprintf("Error: %v", err)
	case err != nil:
		return fmt.Sprintf("Sort error: %v", err)
	case summary.Total == 0:
		return "No files to sort"
	default:
		return fmt.Sprintf("Sort complete (%d moved, %d failed, %d skipped)", summary.Moved, summary.Errors, summary.Skipped)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
