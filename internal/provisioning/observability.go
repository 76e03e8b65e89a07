package provisioning

import (
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"
	"time"
)

// Logger is the printf surface phases log through.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer receives structured provisioning events.
type Observer interface {
	Logger

	Event(event Event)

	// Progress reports how many of a phase's units of work are done.
	Progress(phase string, current, total int)

	// WithFields returns an Observer that adds fields to every event.
	WithFields(fields map[string]string) Observer
}

// Event is one provisioning occurrence.
type Event struct {
	Type      EventType
	Phase     string
	Message   string
	Resource  string // name of the cloud resource, if any
	Timestamp time.Time
	Fields    map[string]string
}

// EventType classifies an Event.
type EventType string

// Phase lifecycle.
const (
	EventPhaseStarted   EventType = "phase.started"
	EventPhaseCompleted EventType = "phase.completed"
	EventPhaseFailed    EventType = "phase.failed"
)

// Cloud resource lifecycle.
const (
	EventResourceCreating EventType = "resource.creating"
	EventResourceCreated  EventType = "resource.created"
	EventResourceExists   EventType = "resource.exists"
	EventResourceFailed   EventType = "resource.failed"
)

// EventProgress reports partial completion of a phase.
const EventProgress EventType = "progress"

// ConsoleObserver writes events through the standard logger.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver returns an observer without context fields.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{contextFields: map[string]string{}}
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	log.Print(o.formatEvent(o.withContext(event)))
}

// Progress implements Observer.
func (o *ConsoleObserver) Progress(phase string, current, total int) {
	o.Event(Event{
		Type:    EventProgress,
		Phase:   phase,
		Message: progressMessage(current, total),
	})
}

func progressMessage(current, total int) string {
	if total <= 0 {
		return fmt.Sprintf("%d/%d", current, total)
	}
	return fmt.Sprintf("%d/%d (%d%%)", current, total, current*100/total)
}

// WithFields implements Observer. The receiver is not modified.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	merged := maps.Clone(o.contextFields)
	if merged == nil {
		merged = map[string]string{}
	}
	maps.Copy(merged, fields)
	return &ConsoleObserver{contextFields: merged}
}

// withContext stamps the event and adds context fields the event does not
// set itself.
func (o *ConsoleObserver) withContext(event Event) Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	fields := maps.Clone(o.contextFields)
	if fields == nil {
		fields = map[string]string{}
	}
	maps.Copy(fields, event.Fields)
	event.Fields = fields
	return event
}

// formatEvent renders "type [phase] resource=name message (k=v, ...)" with
// fields sorted by key.
func (o *ConsoleObserver) formatEvent(event Event) string {
	var b strings.Builder
	b.WriteString(string(event.Type))
	if event.Phase != "" {
		fmt.Fprintf(&b, " [%s]", event.Phase)
	}
	if event.Resource != "" {
		fmt.Fprintf(&b, " resource=%s", event.Resource)
	}
	b.WriteString(" ")
	b.WriteString(event.Message)

	if len(event.Fields) == 0 {
		return b.String()
	}
	pairs := make([]string, 0, len(event.Fields))
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		pairs = append(pairs, k+"="+event.Fields[k])
	}
	fmt.Fprintf(&b, " (%s)", strings.Join(pairs, ", "))
	return b.String()
}

// LogPhaseStart reports that phase began.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{Type: EventPhaseStarted, Phase: phase, Message: "starting"})
}

// LogPhaseComplete reports that phase finished after duration.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed reports that phase stopped with err.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{Type: EventPhaseFailed, Phase: phase, Message: fmt.Sprintf("failed: %v", err)})
}

// resourceEvent builds an event about a cloud resource. id is omitted when empty.
func resourceEvent(t EventType, phase, kind, name, id, message string) Event {
	fields := map[string]string{"type": kind}
	if id != "" {
		fields["id"] = id
	}
	return Event{Type: t, Phase: phase, Resource: name, Message: message, Fields: fields}
}

// LogResourceCreating reports that creation of a resource started.
func LogResourceCreating(observer Observer, phase, kind, name string) {
	observer.Event(resourceEvent(EventResourceCreating, phase, kind, name, "", "creating "+kind))
}

// LogResourceCreated reports a created resource.
func LogResourceCreated(observer Observer, phase, kind, name, id string) {
	observer.Event(resourceEvent(EventResourceCreated, phase, kind, name, id, kind+" created"))
}

// LogResourceExists reports a resource that was found and left as is.
func LogResourceExists(observer Observer, phase, kind, name, id string) {
	observer.Event(resourceEvent(EventResourceExists, phase, kind, name, id, kind+" already exists"))
}

// LogResourceFailed reports a failed resource operation.
func LogResourceFailed(observer Observer, phase, kind, name string, err error) {
	observer.Event(resourceEvent(EventResourceFailed, phase, kind, name, "", fmt.Sprintf("%s failed: %v", kind, err)))
}
