package models

import "time"

// Account is a login identity. Hash is never serialized.
type Account struct {
	Username string `json:"username"`
	Hash     string `json:"-"`
	Role     Role   `json:"role"`
	PlayerID int64  `json:"playerId"`
}

type Session struct {
	Token     string    `json:"token"`
	Account   Account   `json:"account"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
