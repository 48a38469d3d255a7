package ui

import "filesorter/internal/services"

type sortPhaseMsg struct {
	phase services.Phase
}

type confirmRequestMsg struct {
	scan  services.ScanResult
	reply chan<- bool
}

type sortProgressMsg struct {
	index   int
	total   int
	outcome services.MoveOutcome
}

type sortResultMsg struct {
	summary services.Summary
	err     error
}

type sortEventsClosedMsg struct{}
