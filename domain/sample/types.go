package sample

import (
	"strings"
	"time"

	"supptruth/domain/core"
)

// DaySample is one calendar day of evidence for a (user, supplement) pair.
// Taken is nil when no intake record decoded for that day; such samples never
// participate in statistics. Confounded samples are excluded from effect
// computation but are still counted for reporting.
type DaySample struct {
	Date             time.Time                   `json:"date"`
	MetricValue      *float64                    `json:"metric_value"`
	SecondaryMetrics map[core.MetricKey]*float64 `json:"secondary_metrics,omitempty"`
	Taken            *bool                       `json:"taken"`
	Confounded       bool                        `json:"confounded"`
	ConfoundTags     []string                    `json:"confound_tags,omitempty"`
}

// CheckinDay is the builder's view of one raw daily check-in row from the
// check-in feed. Metrics carries every tracked metric keyed by metric key;
// Intake carries the raw per-supplement intake markers keyed by whatever
// identifier the client logged them under.
type CheckinDay struct {
	Date    time.Time
	Metrics map[core.MetricKey]*float64
	Tags    []string
	Intake  map[string]interface{}
}

// Confound tags that disqualify a day from the clean statistical sample.
// Matching is case-insensitive.
var confoundTags = map[string]struct{}{
	"alcohol":          {},
	"travel":           {},
	"illness":          {},
	"high stress":      {},
	"poor sleep":       {},
	"intense exercise": {},
}

// IsConfoundTag reports whether a logged tag is one of the known noise tags
func IsConfoundTag(tag string) bool {
	_, ok := confoundTags[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// confoundsFor returns the noise tags present on a day, lowercased
func confoundsFor(tags []string) []string {
	var found []string
	for _, tag := range tags {
		if IsConfoundTag(tag) {
			found = append(found, strings.ToLower(strings.TrimSpace(tag)))
		}
	}
	return found
}

// NormalizeIntake decodes one raw intake marker into a tri-state:
// true = taken, false = skipped, nil = unknown encoding (day excluded).
// Clients have historically logged intake as strings, bools, and numbers, so
// every known encoding is handled here rather than with loose equality at
// call sites.
func NormalizeIntake(raw interface{}) *bool {
	switch v := raw.(type) {
	case bool:
		b := v
		return &b
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "taken", "on", "true", "1":
			t := true
			return &t
		case "off", "skipped", "skip", "false", "0":
			f := false
			return &f
		}
		return nil
	case float64:
		return normalizeIntakeNumber(v)
	case int:
		return normalizeIntakeNumber(float64(v))
	case int64:
		return normalizeIntakeNumber(float64(v))
	}
	return nil
}

func normalizeIntakeNumber(n float64) *bool {
	switch n {
	case 1:
		t := true
		return &t
	case 0:
		f := false
		return &f
	}
	return nil
}
