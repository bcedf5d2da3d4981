package driver

// Stage identifies a pipeline phase for progress reporting.
type Stage uint8

const (
	StageLex Stage = iota
	StageParse
	StageAnalyze
	StageEmit
)

// Status is the lifecycle state of one file within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is one progress notification from the compile pipeline. File is
// empty for unit-independent stage transitions.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

func emit(ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	ch <- ev
}
