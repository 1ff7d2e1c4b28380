package models

import "time"

// FeedbackType marks a user's judgment on an app
type FeedbackType string

const (
	FeedbackTrusted FeedbackType = "TRUSTED"
	FeedbackFlagged FeedbackType = "FLAGGED"
)

// Valid reports whether the feedback type is one of the known values
func (t FeedbackType) Valid() bool {
	return t == FeedbackTrusted || t == FeedbackFlagged
}

// Defaults substituted for malformed or missing feedback fields. Parse
// failures are never fatal, see ParseLegacyFeedback.
const (
	DefaultFeedbackAdjustment = 25
	MinAdjustedScore          = 5
	MaxAdjustedScore          = 100
)

// FeedbackRecord is a user's TRUSTED/FLAGGED judgment for one package.
// At most one record exists per package; the latest write wins.
type FeedbackRecord struct {
	PackageName string       `json:"package_name"`
	Type        FeedbackType `json:"type"`
	Adjustment  int          `json:"adjustment"`  // score delta magnitude
	TrustScore  float64      `json:"trust_score"` // trust at the time of feedback
	RecordedAt  time.Time    `json:"recorded_at"`
}
