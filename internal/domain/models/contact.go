// internal/domain/models/contact.go
package models

import (
	"strings"
	"time"
)

// Address is a postal address attached to a user.
type Address struct {
	ID         ID     `json:"id"`
	UserID     ID     `json:"userId"`
	Label      string `json:"label"`
	Recipient  string `json:"recipient,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	IsDefault  bool   `json:"isDefault"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Phone is a phone number attached to a user.
type Phone struct {
	ID          ID     `json:"id"`
	UserID      ID     `json:"userId"`
	CountryCode string `json:"countryCode"`
	Number      string `json:"number"`
	Label       string `json:"label,omitempty"`
	IsDefault   bool   `json:"isDefault"`
	IsVerified  bool   `json:"isVerified"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// E164 returns the number with its country code prefix.
func (p Phone) E164() string {
	if p.CountryCode == "" {
		return p.Number
	}
	return "+" + strings.TrimPrefix(p.CountryCode, "+") + p.Number
}

// AccessLog is one request recorded by the backend.
type AccessLog struct {
	ID         ID     `json:"id"`
	UserID     ID     `json:"userId,omitempty"`
	UserEmail  string `json:"userEmail,omitempty"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	StatusCode int    `json:"statusCode"`
	DurationMs int    `json:"durationMs"`
	IP         string `json:"ip,omitempty"`
	UserAgent  string `json:"userAgent,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// StatusClass returns "2xx", "4xx", etc.
func (l AccessLog) StatusClass() string {
	if l.StatusCode < 100 || l.StatusCode > 599 {
		return "other"
	}
	return string(rune('0'+l.StatusCode/100)) + "xx"
}

// TokenPair is what the refresh-token endpoint hands back.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int    `json:"expiresIn,omitempty"` // seconds
}
