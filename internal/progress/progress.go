// Package progress defines the one-way event stream the pipeline emits at
// fixed checkpoints. Consumers own the mapping from stages to an overall
// progress percentage; events are fire-and-forget.
package progress

// Stage names a pipeline checkpoint.
type Stage string

const (
	StageOpening      Stage = "opening"
	StageSearching    Stage = "searching"
	StageWaiting      Stage = "waiting"
	StageScrolling    Stage = "scrolling"
	StageExtracting   Stage = "extracting"
	StageExtracted    Stage = "extracted"
	StagePrefiltering Stage = "prefiltering"
	StagePrefiltered  Stage = "prefiltered"
	StageDetails      Stage = "details"
	StageSaving       Stage = "saving"
	StageCompleted    Stage = "completed"
)

// Event is a single progress update. Current/Total/Percent are only set for
// stages that track within-stage completion (details rounds).
type Event struct {
	Stage   Stage  `json:"stage"`
	Current int    `json:"current,omitempty"`
	Total   int    `json:"total,omitempty"`
	Percent int    `json:"percent,omitempty"`
	Message string `json:"message"`
}

// Sink receives progress events. Implementations must not block the caller
// for long; emission is best-effort.
type Sink interface {
	Publish(Event)
}

// Reporter emits events to an optional sink. A nil Reporter or a Reporter
// with no sink drops every event, so callers never need nil checks.
type Reporter struct {
	sink Sink
}

// NewReporter creates a Reporter emitting to sink. sink may be nil.
func NewReporter(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// Report emits a plain stage event.
func (r *Reporter) Report(stage Stage, message string) {
	r.publish(Event{Stage: stage, Message: message})
}

// ReportCount emits a stage event with within-stage completion counters.
// Percent is rounded to the nearest whole number.
func (r *Reporter) ReportCount(stage Stage, current, total int, message string) {
	ev := Event{Stage: stage, Current: current, Total: total, Message: message}
	if total > 0 {
		ev.Percent = (current*100 + total/2) / total
	}
	r.publish(ev)
}

func (r *Reporter) publish(ev Event) {
	if r == nil || r.sink == nil {
		return
	}
	r.sink.Publish(ev)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Publish implements Sink.
func (f SinkFunc) Publish(ev Event) { f(ev) }
