package driver

import "time"

// Stage names a pipeline step.
type Stage string

const (
	StageExtract  Stage = "extract"
	StageAnalyze  Stage = "analyze"
	StageBaseline Stage = "baseline"
	StageReport   Stage = "report"
)

// Stages lists the steps in execution order.
var Stages = []Stage{StageExtract, StageAnalyze, StageBaseline, StageReport}

// Status captures progress within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Event reports progress of one stage. Done/Total count items when known.
type Event struct {
	Stage   Stage
	Status  Status
	Done    int
	Total   int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}

func emitQueued(sink ProgressSink) {
	for _, st := range Stages {
		emit(sink, Event{Stage: st, Status: StatusQueued})
	}
}
