// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "encoding/json"
    "fmt"
)

// EventCreatedQueue is the durable queue event.created messages travel on.
const EventCreatedQueue = "event.created"

// EventCreated is published when the federation creates a public event.  It
// carries everything the notification matcher needs so consumers do not
// have to re-read the event row.
type EventCreated struct {
    EventID     uint64 `json:"event_id"`
    Title       string `json:"title"`
    Description string `json:"description"`
    Category    string `json:"category"`
    EventDate   string `json:"event_date"`
    Venue       string `json:"venue"`
    CreatedAt   string `json:"created_at"`
}

// Decode parses a message body.  Messages without an event ID are rejected.
func Decode(body []byte) (EventCreated, error) {
    var ev EventCreated
    if err := json.Unmarshal(body, &ev); err != nil {
        return EventCreated{}, fmt.Errorf("unmarshal: %w", err)
    }
    if ev.EventID == 0 {
        return EventCreated{}, fmt.Errorf("missing event_id")
    }
    return ev, nil
}
