package service

import (
	"math"
	"time"

	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// CollectScoreStats counts the score axes over the active password-bearing
// credentials in creds.
func CollectScoreStats(
	creds []*vaultDomain.Credential,
	opts vaultDomain.ScoreOptions,
	now time.Time,
) vaultDomain.ScoreStats {
	var stats vaultDomain.ScoreStats
	var strengthSum float64
	var strengthCount int

	for _, cred := range creds {
		if !cred.IsActive() || !cred.IsPasswordBearing() {
			continue
		}
		stats.Total++

		if cred.PasswordStrength != nil && validStrength(*cred.PasswordStrength) {
			strengthSum += *cred.PasswordStrength
			strengthCount++
			if *cred.PasswordStrength < opts.WeakThreshold {
				stats.Weak++
			}
		}
		if cred.Compromised {
			stats.Compromised++
		}
		if cred.PasswordReused {
			stats.Reused++
		}
		if !cred.Has2FA {
			stats.Missing2FA++
		}
		if cred.PasswordAge(now) > opts.OldPasswordAge {
			stats.OldPasswords++
		}
	}

	if strengthCount > 0 {
		avg := strengthSum / float64(strengthCount)
		stats.AvgStrength = &avg
	}
	return stats
}

// CalculateScore turns stats into a SecurityScore. An empty vault scores 100.
func CalculateScore(stats vaultDomain.ScoreStats, opts vaultDomain.ScoreOptions) *vaultDomain.SecurityScore {
	score := &vaultDomain.SecurityScore{
		Total:        stats.Total,
		Weak:         stats.Weak,
		Reused:       stats.Reused,
		Compromised:  stats.Compromised,
		Missing2FA:   stats.Missing2FA,
		OldPasswords: stats.OldPasswords,
	}
	if stats.Total == 0 {
		score.Score = 100
		score.Pct = 100
		score.AvgStrength = 100
		score.Status = scoreStatus(100)
		return score
	}

	avg := 100.0
	if stats.AvgStrength != nil {
		avg = round1(*stats.AvgStrength)
	}

	total := float64(stats.Total)
	w := opts.Weights
	penalties := float64(stats.Compromised)/total*w.Compromised +
		float64(stats.Reused)/total*w.Reused +
		float64(stats.Missing2FA)/total*w.Missing2FA +
		float64(stats.OldPasswords)/total*w.OldPassword

	value := math.Max(0, math.Min(100, avg-penalties))

	score.AvgStrength = avg
	score.Penalties = round1(penalties)
	score.Score = int(math.Round(value))
	score.Pct = round1(value)
	score.Status = scoreStatus(score.Score)
	return score
}

func scoreStatus(score int) string {
	switch {
	case score >= 85:
		return vaultDomain.ScoreExcellent
	case score >= 70:
		return vaultDomain.ScoreGood
	case score >= 50:
		return vaultDomain.ScoreFair
	default:
		return vaultDomain.ScorePoor
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
