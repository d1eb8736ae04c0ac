package app

// State is a step of one launch run.
type State int

const (
	StateStart State = iota
	StatePathValidated
	StateConfigLoaded
	StateAppsFiltered
	StateTerminalChosen
	StateEditorChosen
	StateLaunched
	StateHistoryRecorded
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePathValidated:
		return "path-validated"
	case StateConfigLoaded:
		return "config-loaded"
	case StateAppsFiltered:
		return "apps-filtered"
	case StateTerminalChosen:
		return "terminal-chosen"
	case StateEditorChosen:
		return "editor-chosen"
	case StateLaunched:
		return "launched"
	case StateHistoryRecorded:
		return "history-recorded"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the run has finished.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}
