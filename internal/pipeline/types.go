package pipeline

import "time"

// Stage describes one step of the lint state machine.
type Stage string

const (
	// StageExtract pulls text out of the document container.
	StageExtract Stage = "extract"
	// StageSyntax parses the whole text.
	StageSyntax Stage = "syntax"
	// StageTagMatch pairs block openers with closers.
	StageTagMatch Stage = "tag_match"
	// StageStructure checks nesting depth.
	StageStructure Stage = "structure"
	// StageQuality runs the style heuristics.
	StageQuality Stage = "quality"
	// StageScore computes the completeness score.
	StageScore Stage = "score"
	// StageAssemble builds the final result.
	StageAssemble Stage = "assemble"
)

// Stages returns the stages in execution order.
func Stages() []Stage {
	return []Stage{
		StageExtract, StageSyntax, StageTagMatch, StageStructure,
		StageQuality, StageScore, StageAssemble,
	}
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusSkipped indicates the stage was disabled or short-circuited.
	StatusSkipped Status = "skipped"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}
