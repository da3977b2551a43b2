package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 is not available
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// JobID identifies one generation batch
type JobID ID

func (id JobID) String() string { return ID(id).String() }

// ParseJobID parses a string into JobID. Job IDs are UUIDs; anything else
// is rejected before it reaches storage.
func ParseJobID(s string) (JobID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("job ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("job ID must be a UUID: %w", err)
	}
	return JobID(s), nil
}
