// Package notify provides the publish channel that settled file changes and
// watch status messages are delivered on.
//
// A Sink is anything that accepts named events. Bus is the in-process
// implementation: handlers subscribe to an event name and are invoked
// synchronously, in subscription order, on every Emit.
//
// Example usage:
//
//	bus := notify.NewBus(logger.Default())
//	unsubscribe := bus.Subscribe(notify.EventFileChanged, func(payload any) {
//	    changed := payload.(notify.FileChanged)
//	    fmt.Println("changed:", changed.Path)
//	})
//	defer unsubscribe()
package notify

// Event names published by a watch session.
const (
	// EventLog carries a Log payload.
	EventLog = "log"

	// EventFileChanged carries a FileChanged payload.
	EventFileChanged = "file:changed"
)

// Sink receives named events.
type Sink interface {
	Emit(event string, payload any)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event string, payload any)

// Emit calls f(event, payload).
func (f SinkFunc) Emit(event string, payload any) {
	f(event, payload)
}

// Log is the payload of EventLog.
type Log struct {
	// Msg is the display string.
	Msg string `json:"msg"`

	// Override asks the consumer to replace the previous status line
	// instead of appending a new one.
	Override bool `json:"override"`
}

// FileChanged is the payload of EventFileChanged.
type FileChanged struct {
	Path string `json:"path"`
}

// Handler is invoked with the payload of an event it subscribed to.
type Handler func(payload any)
