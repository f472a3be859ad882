package models

import "time"

// PresenceEvent is the telemetry message published to RabbitMQ whenever a user
// connects, disconnects or changes activity. Consumed by the analytics service;
// chat delivery never depends on it.
type PresenceEvent struct {
	UserID      string    `json:"user_id"`
	Action      string    `json:"action"`
	Activity    string    `json:"activity,omitempty"`
	ServiceName string    `json:"service_name"`
	Timestamp   time.Time `json:"timestamp"`
}

// Presence action constants
const (
	ActionConnected       = "connected"
	ActionDisconnected    = "disconnected"
	ActionActivityChanged = "activity_changed"
)

// Service name constants
const (
	ServiceRealtimeLifecycle = "realtime.lifecycle"
	ServiceRealtimeActivity  = "realtime.activity"
)

// PresenceSnapshot is the REST view of the in-memory registry.
type PresenceSnapshot struct {
	Count      int               `json:"count"`
	Online     []string          `json:"online"`
	Activities map[string]string `json:"activities"`
}

// UserPresence is the REST view of a single user's presence. LastSeen is only
// set for offline users and comes from the Redis last-seen record, so it may be
// zero when the record has expired.
type UserPresence struct {
	UserID   string     `json:"userId"`
	Online   bool       `json:"online"`
	Activity string     `json:"activity,omitempty"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}
