// Package claims defines the claim-lookup boundary type. The lookup
// itself is out of scope (spec.md §1's "claim-lookup stub"); this
// package exists so callers that need the shape of a Claim — an
// HTTP layer listing a player's claimed regions, say — have somewhere
// to import it from without pulling in the rest of the export stack.
//
// Grounded on _examples/original_source/src/claims.rs.
package claims

import "github.com/google/uuid"

// Claim is a rectangular claimed region, given in block coordinates.
type Claim struct {
	X1, Z1, X2, Z2 int32
	Timestamp      uint64
}

// GetClaims returns the fixed two-claim demo set the original
// implementation shipped as a placeholder. It ignores its argument
// deliberately; a real lookup is out of scope here.
func GetClaims(_ uuid.UUID) []Claim {
	return []Claim{
		{X1: 0, Z1: 13, X2: 17, Z2: 54, Timestamp: 0},
		{X1: -20, Z1: -30, X2: -4, Z2: -7, Timestamp: 0},
	}
}
