package services

import (
	"time"

	"filesorter/internal/domain"
)

type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseScanning             Phase = "scanning"
	PhaseAwaitingConfirmation Phase = "awaiting-confirmation"
	PhaseMoving               Phase = "moving"
	PhaseDone                 Phase = "done"
	PhaseCancelled            Phase = "cancelled"
	PhaseFailed               Phase = "failed"
)

func (phase Phase) Terminal() bool {
	switch phase {
	case PhaseDone, PhaseCancelled, PhaseFailed:
		return true
	default:
		return false
	}
}

type RunInfo struct {
	ID        string
	Folder    string
	Recursive bool
	Mode      domain.Mode
	Locale    domain.Locale
	StartedAt time.Time
}
