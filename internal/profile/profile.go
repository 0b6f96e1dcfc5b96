// Package profile holds the shared account-identity data model: the
// Mojang/Yggdrasil-shaped Profile record produced by login and consumed by
// the one-time-code auth manager. Grounded on
// _examples/original_source/src/server/common.rs (Profile, ProfileProperty).
package profile

import "github.com/google/uuid"

// Property is a single signed or unsigned profile property, e.g. "textures".
type Property struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}

// Profile is the verified account identity returned by the session service.
type Profile struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Properties []Property `json:"properties,omitempty"`
}
