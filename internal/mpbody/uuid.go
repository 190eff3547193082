package mpbody

import "github.com/google/uuid"

// NewBoundary returns a random version 4 UUID for use as a boundary token.
func NewBoundary() string {
	return uuid.NewString()
}
