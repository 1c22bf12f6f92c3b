package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is a closed set of account roles.
type Role int

const (
	RoleGuest Role = iota
	RoleUser
	RolePlayer
	RoleAdmin
)

var roleNames = [...]string{
	RoleGuest:  "GUEST",
	RoleUser:   "USER",
	RolePlayer: "PLAYER",
	RoleAdmin:  "ADMIN",
}

// roleImplies[r] lists every role r satisfies. ADMIN satisfies all of them.
var roleImplies = [...][]Role{
	RoleGuest:  {RoleGuest},
	RoleUser:   {RoleUser, RoleGuest},
	RolePlayer: {RolePlayer, RoleUser, RoleGuest},
	RoleAdmin:  {RoleAdmin, RolePlayer, RoleUser, RoleGuest},
}

func (r Role) Valid() bool {
	return r >= RoleGuest && r <= RoleAdmin
}

func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// Satisfies reports whether an account holding r may act where required is needed.
func (r Role) Satisfies(required Role) bool {
	if !r.Valid() || !required.Valid() {
		return false
	}
	for _, implied := range roleImplies[r] {
		if implied == required {
			return true
		}
	}
	return false
}

func ParseRole(s string) (Role, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range roleNames {
		if name == up {
			return Role(i), nil
		}
	}
	return RoleGuest, fmt.Errorf("unknown role %q: %w", s, ErrValidation)
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
