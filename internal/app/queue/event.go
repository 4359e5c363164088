package queue

import "github.com/moshpit-dev/moshpit/internal/domain/moment"

// EventType represents a queue event type.
type EventType int

const (
	EventItemEnqueued EventType = iota // Item appended to the queue
	EventItemRemoved                   // Item removed from the queue
	EventCurrentChanged                // Current item changed (playAt/advance/retreat/shuffle)
	EventQueueFinished                 // Advance ran past the last item
	EventQueueCleared                  // Queue emptied
	EventOrderChanged                  // Reorder or shuffle changed item order
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventItemEnqueued:
		return "item_enqueued"
	case EventItemRemoved:
		return "item_removed"
	case EventCurrentChanged:
		return "current_changed"
	case EventQueueFinished:
		return "queue_finished"
	case EventQueueCleared:
		return "queue_cleared"
	case EventOrderChanged:
		return "order_changed"
	default:
		return "unknown"
	}
}

// Event represents a committed queue mutation.
type Event struct {
	Type    EventType
	Item    *moment.Moment // Affected item (nil for clear/finished)
	Current *moment.Moment // Current item after the mutation (nil when none)
}
