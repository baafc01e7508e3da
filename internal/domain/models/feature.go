// internal/domain/models/feature.go
package models

import (
	"encoding/json"
	"time"
)

// FeatureCategory groups features in the catalog.
type FeatureCategory struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	SortOrder   int    `json:"sortOrder"`
	IsActive    bool   `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *FeatureCategory) UnmarshalJSON(b []byte) error {
	type alias FeatureCategory
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if err := decodeActive(b, &a.IsActive); err != nil {
		return err
	}
	*c = FeatureCategory(a)
	return nil
}

// Feature is a toggleable capability. CategorySlug is not checked against
// the category list; a dangling slug leaves CategoryName empty.
type Feature struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	CategorySlug string `json:"categorySlug"`
	IsActive     bool   `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// CategoryName is looked up from the category list after fetching.
	CategoryName string `json:"-"`
}

func (f *Feature) UnmarshalJSON(b []byte) error {
	type alias Feature
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if err := decodeActive(b, &a.IsActive); err != nil {
		return err
	}
	*f = Feature(a)
	return nil
}

// RouteFeature binds an HTTP route on the backend to the feature that gates it.
type RouteFeature struct {
	ID          ID     `json:"id"`
	Path        string `json:"path"`
	Method      string `json:"method"`
	FeatureID   ID     `json:"featureId"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// FeatureName and FeatureSlug are looked up from the feature list
	// after fetching.
	FeatureName string `json:"-"`
	FeatureSlug string `json:"-"`
}

func (rf *RouteFeature) UnmarshalJSON(b []byte) error {
	type alias RouteFeature
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if err := decodeActive(b, &a.IsActive); err != nil {
		return err
	}
	*rf = RouteFeature(a)
	return nil
}
