package models

// Identity is the caller as asserted by the upstream identity provider.
// UserID is opaque to this service.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}
