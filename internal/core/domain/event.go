package domain

import "time"

// EventType is a type that represents the type of an event
type EventType string

const (
	EventTypeSessionMerged EventType = "SessionMerged"
	EventTypeSessionPurged EventType = "SessionPurged"
)

// SessionMergedEvent is published after a close merged a session's chunks
// into its final artifact.
type SessionMergedEvent struct {
	SessionID int64     `json:"session_id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Location  string    `json:"location"`
	Operator  string    `json:"operator"`
	MergedAt  time.Time `json:"merged_at"`
}
