// Package sync bridges tracker change events into the Bubble Tea runtime
// so every open view re-reads after a committed write.
package sync

import (
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/studytrack/internal/events"
)

// ChangedMsg is a tea.Msg sent after a mutation commits.
type ChangedMsg struct {
	Topic  events.Topic
	TaskID string
	At     time.Time
}

// Status summarizes the watcher's activity for the status bar.
type Status struct {
	Changes    int
	Dropped    int
	LastChange time.Time
}

// Watcher subscribes to a bus and queues change messages for the UI.
type Watcher struct {
	bus         *events.Bus
	changeCh    chan ChangedMsg
	stopCh      chan struct{}
	unsubscribe func()
	now         func() time.Time

	mu      gosync.Mutex
	running bool
	status  Status
}

// New creates a Watcher for bus. It does nothing until Start.
func New(bus *events.Bus) *Watcher {
	return &Watcher{
		bus:      bus,
		changeCh: make(chan ChangedMsg, 16),
		now:      time.Now,
	}
}

// Start subscribes to every topic and returns a tea.Cmd that waits for
// the first change. A stopped watcher can be started again.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.unsubscribe = w.bus.SubscribeAll(w.handle)
	return w.waitFor(w.stopCh)
}

// Stop unsubscribes from the bus and releases any pending wait.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
	close(w.stopCh)
	w.running = false
}

// Status returns a copy of the current activity counters.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *Watcher) handle(e events.Event) {
	msg := ChangedMsg{Topic: e.Topic, TaskID: e.TaskID(), At: w.now()}

	w.mu.Lock()
	w.status.Changes++
	w.status.LastChange = msg.At
	w.mu.Unlock()

	select {
	case w.changeCh <- msg:
	default:
		// A queued change already triggers a full reload.
		w.mu.Lock()
		w.status.Dropped++
		w.mu.Unlock()
	}
}

// waitFor returns a tea.Cmd that blocks until the next change or until
// stop is closed, in which case it yields nil.
func (w *Watcher) waitFor(stop <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.changeCh:
			return msg
		case <-stop:
			return nil
		}
	}
}

// WaitForChange returns a tea.Cmd that waits for the next change. Call
// it after handling a ChangedMsg to keep listening. It yields nil at once
// when the watcher is not running.
func (w *Watcher) WaitForChange() tea.Cmd {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return func() tea.Msg { return nil }
	}
	return w.waitFor(w.stopCh)
}
