package cart

import "time"

type EventType string

const (
	EventCreated EventType = "cart.created"
	EventUpdated EventType = "cart.updated"
	EventDeleted EventType = "cart.deleted"
	EventExpired EventType = "cart.expired"
)

type Event struct {
	Type       EventType `json:"type"`
	CartId     int64     `json:"cartId"`
	Lines      int       `json:"lines"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEvent(eventType EventType, c *Cart, at time.Time) Event {
	return Event{
		Type:       eventType,
		CartId:     c.Id,
		Lines:      len(c.Lines),
		OccurredAt: at,
	}
}
