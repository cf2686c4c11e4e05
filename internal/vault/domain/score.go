package domain

import "time"

// Score status labels.
const (
	ScoreExcellent = "Excellent"
	ScoreGood      = "Good"
	ScoreFair      = "Fair"
	ScorePoor      = "Poor"
)

// ScoreWeights are the maximum penalty points per axis, applied in proportion to the
// share of credentials in violation.
type ScoreWeights struct {
	Compromised float64
	Reused      float64
	Missing2FA  float64
	OldPassword float64
}

// ScoreOptions configures the security score.
type ScoreOptions struct {
	Weights        ScoreWeights
	WeakThreshold  float64
	OldPasswordAge time.Duration
}

// DefaultScoreOptions returns the default weights and thresholds.
func DefaultScoreOptions() ScoreOptions {
	return ScoreOptions{
		Weights: ScoreWeights{
			Compromised: 40,
			Reused:      20,
			Missing2FA:  8,
			OldPassword: 5,
		},
		WeakThreshold:  40,
		OldPasswordAge: 365 * 24 * time.Hour,
	}
}

// ScoreStats are the counts over a user's active password-bearing credentials.
// AvgStrength is nil when no credential reports a strength.
type ScoreStats struct {
	Total        int
	Weak         int
	Reused       int
	Compromised  int
	Missing2FA   int
	OldPasswords int
	AvgStrength  *float64
}

// SecurityScore is the aggregated vault health of a user.
type SecurityScore struct {
	Score        int
	Pct          float64
	Status       string
	AvgStrength  float64
	Penalties    float64
	Total        int
	Weak         int
	Reused       int
	Compromised  int
	Missing2FA   int
	OldPasswords int
}
