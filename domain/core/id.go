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
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
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

// Domain-specific ID types
type (
	UserID       ID
	SupplementID ID
	CanonicalID  ID
	ReportID     ID
	MetricKey    ID
)

// String conversions for domain IDs
func (id UserID) String() string       { return ID(id).String() }
func (id SupplementID) String() string { return ID(id).String() }
func (id CanonicalID) String() string  { return ID(id).String() }
func (id ReportID) String() string     { return ID(id).String() }
func (k MetricKey) String() string     { return ID(k).String() }

// ParseUserID parses a string into UserID
func ParseUserID(s string) (UserID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("user ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("user ID must be a UUID: %w", err)
	}
	return UserID(s), nil
}

// ParseSupplementID parses a string into SupplementID
func ParseSupplementID(s string) (SupplementID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("supplement ID cannot be empty")
	}
	return SupplementID(s), nil
}

// ParseMetricKey parses a string into MetricKey
func ParseMetricKey(s string) (MetricKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("metric key cannot be empty")
	}
	return MetricKey(strings.ToLower(strings.TrimSpace(s))), nil
}

// Tracked outcome metrics
const (
	MetricEnergy       MetricKey = "energy"
	MetricMood         MetricKey = "mood"
	MetricFocus        MetricKey = "focus"
	MetricSleepQuality MetricKey = "sleep_quality"
)
