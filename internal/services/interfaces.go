package services

import "context"

type Scanner interface {
	Scan(ctx context.Context, req ScanRequest) (ScanResult, error)
}

type Mover interface {
	MoveFile(source, destinationFolder string) MoveOutcome
}

type Sorter interface {
	Sort(ctx context.Context, req SortRequest) (Summary, error)
}

// Journal records completed moves so a run can be listed and undone.
type Journal interface {
	BeginRun(ctx context.Context, run RunInfo) error
	RecordMove(ctx context.Context, runID string, outcome MoveOutcome) error
	FinishRun(ctx context.Context, summary Summary) error
}
