// internal/app/system/confirm/confirm.go
//
// Package confirm gates destructive actions. The confirmation page issues a
// signed, expiring token bound to one record; the delete handler refuses to
// call the backend without a matching token.
package confirm

import (
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/securecookie"
)

// ErrInvalidToken is returned for missing, expired, tampered or mismatched
// tokens.
var ErrInvalidToken = errors.New("confirm: invalid or expired confirmation")

// DefaultTTL bounds how long a confirmation page stays usable.
const DefaultTTL = 10 * time.Minute

const tokenName = "confirm"

type claim struct {
	Resource string `json:"r"`
	ID       string `json:"i"`
}

// Issuer signs and checks confirmation tokens.
type Issuer struct {
	sc *securecookie.SecureCookie
}

// NewIssuer builds an Issuer from a signing key of at least 32 bytes.
func NewIssuer(key string, ttl time.Duration) (*Issuer, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("confirm: key must be at least 32 bytes, got %d", len(key))
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	sc := securecookie.New([]byte(key), nil)
	sc.MaxAge(int(ttl / time.Second))
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &Issuer{sc: sc}, nil
}

// Issue returns a token for deleting (resource, id).
func (i *Issuer) Issue(resource, id string) (string, error) {
	tok, err := i.sc.Encode(tokenName, claim{Resource: resource, ID: id})
	if err != nil {
		return "", fmt.Errorf("confirm: issue: %w", err)
	}
	return tok, nil
}

// Verify checks that token was issued for (resource, id) and has not expired.
func (i *Issuer) Verify(token, resource, id string) error {
	if token == "" {
		return ErrInvalidToken
	}
	var c claim
	if err := i.sc.Decode(tokenName, token, &c); err != nil {
		return ErrInvalidToken
	}
	if c.Resource != resource || c.ID != id {
		return ErrInvalidToken
	}
	return nil
}

// Detail is one labeled line on a confirmation page.
type Detail struct {
	Label string
	Value string
}

// View is what every confirmation page renders: what is about to happen,
// the record it happens to, and the two ways out.
type View struct {
	Title     string
	Message   string
	Details   []Detail
	Action    string // form action for the confirm button
	Token     string
	CancelURL string
	Error     string
}
