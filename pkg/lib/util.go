package lib

import (
	"github.com/google/uuid"
)

// NewID generates a UUID version 4 string (RFC 4122)
func NewID() string {
	return uuid.NewString()
}

// ShortID returns the first block of a generated ID, handy for log prefixes.
func ShortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
