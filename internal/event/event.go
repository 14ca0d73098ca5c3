package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeNotification     Type = "ui.notification"
	TypeNavigation       Type = "ui.navigation"
	TypeStateChanged     Type = "screen.state_changed"
	TypeSignedIn         Type = "session.signed_in"
	TypeSignedOut        Type = "session.signed_out"
	TypeCandidateApplied Type = "candidate.applied"
	TypeCampaignCreated  Type = "campaign.created"
	TypeVoteCast         Type = "vote.cast"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	Screen    string      `json:"screen,omitempty"` // Which screen published it
}

// New stamps an event with an id and the current time.
func New(t Type, screen string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Screen:    screen,
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
