package events

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger registers bus hooks that log all event activity at
// debug level and subscriber panics at error level.
func RegisterDebugLogger(bus *Bus, logger zerolog.Logger) {
	bus.OnPublish(func(e Event) {
		ev := logger.Debug().Str("event", string(e.Topic))
		if id := e.TaskID(); id != "" {
			ev = ev.Str("task_id", id)
		}
		ev.Msg("event fired")
	})

	bus.OnPanic(func(e Event, recovered any) {
		logger.Error().
			Str("event", string(e.Topic)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}
