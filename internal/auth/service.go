// internal/auth/service.go
package auth

import (
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/sirupsen/logrus"
)

// TokenBytes is the amount of randomness in a session token. Tokens are hex
// encoded, so they are twice as long on the wire.
const TokenBytes = 32

const DefaultSessionTTL = 24 * time.Hour

// AccountSeed describes an account to load at startup.
type AccountSeed struct {
	Username string
	Password string
	Role     models.Role
	PlayerID int64
}

// DefaultAccounts are the built-in logins, all with password "password".
func DefaultAccounts() []AccountSeed {
	return []AccountSeed{
		{Username: "admin", Password: "password", Role: models.RoleAdmin, PlayerID: 92668751},
		{Username: "player", Password: "password", Role: models.RolePlayer, PlayerID: 985752863},
		{Username: "user", Password: "password", Role: models.RoleUser, PlayerID: 3599307},
		{Username: "guest", Password: "password", Role: models.RoleGuest, PlayerID: 98708952},
	}
}

type Config struct {
	SessionTTL time.Duration
	Params     *HashParams
}

// Service authenticates accounts and tracks sessions. The account table never
// changes after NewService; sessions live in a sync.Map so lookups do not block.
type Service struct {
	accounts  map[string]models.Account
	dummyHash string
	sessions  sync.Map // token -> models.Session
	ttl       time.Duration
	now       func() time.Time
	logger    logrus.FieldLogger
}

func NewService(seeds []AccountSeed, cfg Config, logger logrus.FieldLogger) (*Service, error) {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.Params == nil {
		cfg.Params = DefaultParams
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Service{
		accounts: make(map[string]models.Account, len(seeds)),
		ttl:      cfg.SessionTTL,
		now:      time.Now,
		logger:   logger,
	}
	for _, seed := range seeds {
		if seed.Username == "" {
			return nil, fmt.Errorf("account without username: %w", models.ErrValidation)
		}
		if _, dup := s.accounts[seed.Username]; dup {
			return nil, fmt.Errorf("duplicate account %q: %w", seed.Username, models.ErrValidation)
		}
		if !seed.Role.Valid() {
			return nil, fmt.Errorf("account %q has invalid role: %w", seed.Username, models.ErrValidation)
		}
		hash, err := CreateHash(seed.Password, cfg.Params)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %q: %w", seed.Username, err)
		}
		s.accounts[seed.Username] = models.Account{
			Username: seed.Username,
			Hash:     hash,
			Role:     seed.Role,
			PlayerID: seed.PlayerID,
		}
	}

	// unknown usernames are checked against this so both failure paths do the same work
	dummy, err := CreateHash("not-a-real-password", cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to create dummy hash: %w", err)
	}
	s.dummyHash = dummy
	return s, nil
}

// Accounts lists the loaded accounts without their hashes.
func (s *Service) Accounts() []models.Account {
	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		a.Hash = ""
		out = append(out, a)
	}
	return out
}

// Login returns a new session. A missing account and a wrong password both
// produce ErrInvalidCredentials.
func (s *Service) Login(username, password string) (models.Session, error) {
	acct, found := s.accounts[username]
	hash := s.dummyHash
	if found {
		hash = acct.Hash
	}

	ok, err := ComparePasswordAndHash(password, hash)
	if err != nil {
		s.logger.WithError(err).WithField("username", username).Error("stored hash unreadable")
		return models.Session{}, models.ErrInvalidCredentials
	}
	if !ok || !found {
		return models.Session{}, models.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to generate session token: %w", err)
	}
	now := s.now()
	acct.Hash = ""
	sess := models.Session{
		Token:     token,
		Account:   acct,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions.Store(token, sess)

	s.logger.WithFields(logrus.Fields{
		"username": username,
		"role":     acct.Role.String(),
	}).Info("login")
	return sess, nil
}

// Validate resolves a token to its account.
func (s *Service) Validate(token string) (models.Account, error) {
	if token == "" {
		return models.Account{}, fmt.Errorf("missing token: %w", models.ErrUnauthenticated)
	}
	v, ok := s.sessions.Load(token)
	if !ok {
		return models.Account{}, fmt.Errorf("unknown token: %w", models.ErrUnauthenticated)
	}
	sess := v.(models.Session)
	if sess.Expired(s.now()) {
		s.sessions.Delete(token)
		return models.Account{}, fmt.Errorf("session expired: %w", models.ErrUnauthenticated)
	}
	return sess.Account, nil
}

// Authorize validates the token and checks the account role against required.
func (s *Service) Authorize(token string, required models.Role) (models.Account, error) {
	acct, err := s.Validate(token)
	if err != nil {
		return models.Account{}, err
	}
	if !acct.Role.Satisfies(required) {
		return acct, fmt.Errorf("%s role required, have %s: %w", required, acct.Role, models.ErrForbidden)
	}
	return acct, nil
}

// Logout drops the session. Unknown tokens are ignored.
func (s *Service) Logout(token string) {
	s.sessions.Delete(token)
}

// Sweep removes expired sessions and reports how many were dropped.
func (s *Service) Sweep() int {
	now := s.now()
	n := 0
	s.sessions.Range(func(k, v any) bool {
		if v.(models.Session).Expired(now) {
			s.sessions.Delete(k)
			n++
		}
		return true
	})
	return n
}

func newToken() (string, error) {
	b, err := generateRandomBytes(TokenBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
