// internal/domain/models/user.go
package models

import (
	"encoding/json"
	"time"
)

// User is an account managed by the access-control backend.
type User struct {
	ID          ID         `json:"id"`
	Name        string     `json:"name"`
	Username    string     `json:"username,omitempty"`
	Email       string     `json:"email"`
	Role        string     `json:"role"` // role slug
	IsActive    bool       `json:"isActive"`
	IsVerified  bool       `json:"isVerified"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) UnmarshalJSON(b []byte) error {
	type alias User
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if err := decodeActive(b, &a.IsActive); err != nil {
		return err
	}
	*u = User(a)
	return nil
}

// Role groups permissions that can be granted to users.
type Role struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	IsDefault   bool     `json:"isDefault"`
	IsActive    bool     `json:"isActive"`
	UserCount   int      `json:"userCount"`
	Permissions []string `json:"permissions,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Role) UnmarshalJSON(b []byte) error {
	type alias Role
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if err := decodeActive(b, &a.IsActive); err != nil {
		return err
	}
	*r = Role(a)
	return nil
}
