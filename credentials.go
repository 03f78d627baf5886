package zaptec

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials holds a bearer token together with its absolute expiry.
// Immutable once constructed.
type Credentials struct {
	AccessToken string
	ExpiresAt   time.Time
}

type credentialsRecord struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

func NewCredentials(accessToken string, expiresAt time.Time) *Credentials {
	return &Credentials{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}
}

// Expired reports whether the credentials are unusable at the given time.
// Credentials without a known expiry count as expired.
func (c *Credentials) Expired(at time.Time) bool {
	return c.ExpiresAt.IsZero() || !at.Before(c.ExpiresAt)
}

func (c *Credentials) Serialize() ([]byte, error) {
	return json.Marshal(credentialsRecord{
		AccessToken: c.AccessToken,
		ExpiresAt:   c.ExpiresAt.Unix(),
	})
}

func ParseCredentials(data []byte) (*Credentials, error) {
	var record credentialsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return NewCredentials(record.AccessToken, time.Unix(record.ExpiresAt, 0).UTC()), nil
}

// tokenExpiry computes the absolute expiry for a freshly issued token. The
// token endpoint reports expires_in seconds; when that is absent, fall back
// to the exp claim of the JWT access token itself.
func tokenExpiry(accessToken string, start time.Time, expiresIn float64) time.Time {
	if expiresIn > 0 {
		return start.Add(time.Duration(expiresIn * float64(time.Second)))
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil || parsed == nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time.UTC()
}
