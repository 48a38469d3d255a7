package state

import (
	"errors"
	"path/filepath"
	"strings"

	"filesorter/internal/config"
	"filesorter/internal/domain"
	"filesorter/internal/services"
)

const maxRecent = 6

type Preferences struct {
	Recursive     bool
	UseCategories bool
	ShowHidden    bool
	Locale        domain.Locale
	Theme         string
}

// State is the sort session shown by the terminal UI.
type State struct {
	Folder   string
	Prefs    Preferences
	Phase    services.Phase
	Pending  *services.ScanResult
	Index    int
	Total    int
	Recent   []string
	Summary  *services.Summary
	Failures []services.MoveFailure
	Err      error
}

func NewState(cfg config.Config) *State {
	folder := cfg.LastFolder
	if folder == "" {
		folder = cfg.Path
	}
	return &State{
		Folder: folder,
		Prefs: Preferences{
			Recursive:     cfg.Recursive,
			UseCategories: cfg.UseCategories,
			ShowHidden:    cfg.ShowHidden,
			Locale:        config.ResolveLocale(cfg.Language),
			Theme:         cfg.Theme,
		},
		Phase: services.PhaseIdle,
	}
}

// Request builds a sort request from the current folder and preferences.
// Callbacks are left for the caller to attach.
func (appState *State) Request() services.SortRequest {
	return services.SortRequest{
		Folder:     strings.TrimSpace(appState.Folder),
		Recursive:  appState.Prefs.Recursive,
		SkipHidden: !appState.Prefs.ShowHidden,
		Mode:       domain.ModeFor(appState.Prefs.UseCategories),
		Locale:     appState.Prefs.Locale,
	}
}

func (appState *State) Running() bool {
	return appState.Phase != services.PhaseIdle && !appState.Phase.Terminal()
}

// Begin clears the previous run.
func (appState *State) Begin() {
	appState.Phase = services.PhaseScanning
	appState.Pending = nil
	appState.Index = 0
	appState.Total = 0
	appState.Recent = nil
	appState.Summary = nil
	appState.Failures = nil
	appState.Err = nil
}

// SetPhase follows progress reported by the sorter. Terminal phases are only
// entered through Finish so the result is never missed.
func (appState *State) SetPhase(phase services.Phase) {
	if phase.Terminal() || appState.Phase.Terminal() {
		return
	}
	appState.Phase = phase
}

func (appState *State) AwaitConfirmation(scan services.ScanResult) {
	appState.Phase = services.PhaseAwaitingConfirmation
	appState.Pending = &scan
	appState.Total = len(scan.Files)
}

func (appState *State) Answered(confirmed bool) {
	appState.Pending = nil
	if confirmed {
		appState.Phase = services.PhaseMoving
	}
}

func (appState *State) Advance(index, total int, outcome services.MoveOutcome) {
	if index > appState.Index {
		appState.Index = index
	}
	appState.Total = total
	switch {
	case outcome.Err != nil:
		appState.Failures = append(appState.Failures, services.MoveFailure{
			Name:   filepath.Base(outcome.Source),
			Path:   outcome.Source,
			Reason: outcome.Err.Error(),
		})
	case outcome.Unchanged:
	default:
		appState.Recent = append(appState.Recent, filepath.Base(outcome.Source)+" -> "+outcome.Destination)
		if len(appState.Recent) > maxRecent {
			appState.Recent = appState.Recent[len(appState.Recent)-maxRecent:]
		}
	}
}

// Finish records the outcome of a run.
func (appState *State) Finish(summary services.Summary, err error) {
	appState.Pending = nil
	switch {
	case errors.Is(err, services.ErrCancelled):
		appState.Phase = services.PhaseCancelled
	case err != nil:
		appState.Phase = services.PhaseFailed
		appState.Err = err
	default:
		appState.Phase = services.PhaseDone
		appState.Summary = &summary
		appState.Failures = summary.Failures
		appState.Index = summary.Total
		appState.Total = summary.Total
	}
}

func (appState *State) Fraction() float64 {
	if appState.Total == 0 {
		if appState.Phase == services.PhaseDone {
			return 1
		}
		return 0
	}
	return float64(appState.Index) / float64(appState.Total)
}

func (appState *State) ToggleRecursive() {
	appState.Prefs.Recursive = !appState.Prefs.Recursive
}

func (appState *State) ToggleCategories() {
	appState.Prefs.UseCategories = !appState.Prefs.UseCategories
}

func (appState *State) ToggleShowHidden() {
	appState.Prefs.ShowHidden = !appState.Prefs.ShowHidden
}

func (appState *State) CycleLocale() {
	for index, locale := range domain.SupportedLocales {
		if locale == appState.Prefs.Locale {
			appState.Prefs.Locale = domain.SupportedLocales[(index+1)%len(domain.SupportedLocales)]
			return
		}
	}
	appState.Prefs.Locale = domain.SupportedLocales[0]
}

// Apply writes the session preferences back onto cfg for persistence.
func (appState *State) Apply(cfg config.Config) config.Config {
	cfg.Recursive = appState.Prefs.Recursive
	cfg.UseCategories = appState.Prefs.UseCategories
	cfg.ShowHidden = appState.Prefs.ShowHidden
	cfg.Language = string(appState.Prefs.Locale)
	cfg.LastFolder = strings.TrimSpace(appState.Folder)
	return cfg
}
