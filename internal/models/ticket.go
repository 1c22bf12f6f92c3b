package models

import (
	"time"

	"github.com/google/uuid"
)

type QueueState string

const (
	StateIdle    QueueState = "IDLE"
	StateQueued  QueueState = "QUEUED"
	StateMatched QueueState = "MATCHED"
)

type QueuePreferences struct {
	Playlist string `json:"playlist"`
	Region   string `json:"region,omitempty"`
}

type QueueTicket struct {
	TicketID    uuid.UUID        `json:"ticketId"`
	PlayerID    int64            `json:"playerId"`
	Preferences QueuePreferences `json:"preferences"`
	State       QueueState       `json:"state"`
	JoinedAt    time.Time        `json:"joinedAt"`
	MatchID     string           `json:"matchId,omitempty"`
}

// PendingMatch is emitted when the queue has grouped players but the game has
// not reported a result yet.
type PendingMatch struct {
	MatchID   string    `json:"matchId"`
	Playlist  string    `json:"playlist"`
	Region    string    `json:"region,omitempty"`
	PlayerIDs []int64   `json:"playerIds"`
	Widened   bool      `json:"widened"`
	CreatedAt time.Time `json:"createdAt"`
}
