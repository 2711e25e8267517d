package meeting

// Stage is the transcription pipeline stage of a meeting.
// Transitions: pending -> processing -> {completed | failed}.
// completed and failed are terminal.
type Stage string

const (
	StagePending    Stage = "pending"
	StageProcessing Stage = "processing"
	StageCompleted  Stage = "completed"
	StageFailed     Stage = "failed"
)

// Terminal reports whether no transition may leave this stage.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// CanTransition reports whether moving from s to next is a legal stage change.
func (s Stage) CanTransition(next Stage) bool {
	switch s {
	case StagePending:
		return next == StageProcessing || next == StageFailed
	case StageProcessing:
		return next == StageCompleted || next == StageFailed
	default:
		return false
	}
}

// StatusProcessing returns the status written when transcription starts.
func StatusProcessing() ProcessingStatus {
	return ProcessingStatus{CurrentStage: StageProcessing}
}

// StatusCompleted returns the terminal success status.
func StatusCompleted() ProcessingStatus {
	return ProcessingStatus{CurrentStage: StageCompleted}
}

// StatusFailed returns the terminal failure status carrying the reason.
func StatusFailed(msg string) ProcessingStatus {
	return ProcessingStatus{CurrentStage: StageFailed, ErrorMessage: msg}
}
