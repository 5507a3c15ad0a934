package driver

// Stage names a step of compiling one model file.
type Stage string

const (
	StageLoad         Stage = "load"
	StageDeclarations Stage = "declarations"
	StageRuntime      Stage = "runtime"
)

// Status captures progress within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusCached  Status = "cached"
	StatusError   Status = "error"
)

// Event reports progress of one file. File is the path given to
// CompileFile; it is empty for programs compiled directly.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// ProgressSink receives progress events. Sinks are called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

func (o *Options) report(file string, stage Stage, status Status) {
	if o.Progress != nil {
		o.Progress.OnEvent(Event{File: file, Stage: stage, Status: status})
	}
}
