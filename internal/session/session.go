package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKey is the fixed storage key the backend access token lives under
const TokenKey = "access_token"

// State tells whether a session can talk to the backend
type State int

const (
	Anonymous State = iota
	Authenticated
	Expired
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Session is the caller's view of their backend credentials.
// The token is only reachable through Token, which reports false unless authenticated.
type Session struct {
	ID    string
	state State
	token string
}

// NewAnonymous returns a session without a token
func NewAnonymous(id string) Session {
	return Session{ID: id, state: Anonymous}
}

// Resolve classifies a stored token. Tokens that look like JWTs are checked for
// an exp claim in the past; opaque tokens are taken as valid until the backend says otherwise.
// The signature is not verified, the backend does that.
func Resolve(id, token string, now time.Time) Session {
	if token == "" {
		return NewAnonymous(id)
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if claims.ExpiresAt != nil && !claims.ExpiresAt.Time.After(now) {
			return Session{ID: id, state: Expired}
		}
	}

	return Session{ID: id, state: Authenticated, token: token}
}

func (s Session) State() State {
	return s.state
}

// Token returns the bearer token if the session is authenticated
func (s Session) Token() (string, bool) {
	if s.state != Authenticated {
		return "", false
	}
	return s.token, true
}

func (s Session) IsAuthenticated() bool {
	return s.state == Authenticated
}
