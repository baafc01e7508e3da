package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the console reads out of an access token. The token is
// not verified here; the backend verifies it on every call and the console
// only uses these values for display.
type Claims struct {
	Subject   string
	Name      string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// DecodeClaims parses a JWT without checking its signature. Opaque tokens
// return an error and zero Claims.
func DecodeClaims(token string) (Claims, error) {
	var c Claims
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return c, fmt.Errorf("auth: decode token: %w", err)
	}
	c.Subject, _ = mc.GetSubject()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	c.Name = claimString(mc, "name", "fullName", "username")
	c.Email = claimString(mc, "email")
	c.Role = claimString(mc, "role", "roleSlug")
	return c, nil
}

func claimString(mc jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := mc[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
