package core

import (
	"math"
	"time"
)

// ExpiringSoonDays is the window in which a contract is flagged for renewal.
const ExpiringSoonDays = 30

// ExpiryState drives the badge shown next to a contract.
type ExpiryState string

const (
	ExpiryActive       ExpiryState = "active"
	ExpiryExpiringSoon ExpiryState = "expiring-soon"
	ExpiryExpired      ExpiryState = "expired"
)

// DaysUntil returns ceil((end − now) / 24h), negative once end has passed.
func DaysUntil(end, now time.Time) int {
	ms := float64(end.Sub(now).Milliseconds())
	return int(math.Ceil(ms / float64(24*time.Hour/time.Millisecond)))
}

// IsExpiringSoon reports 0 < days ≤ ExpiringSoonDays.
func IsExpiringSoon(days int) bool {
	return days > 0 && days <= ExpiringSoonDays
}

// Expiry classifies a contract end date relative to now.
func Expiry(end, now time.Time) ExpiryState {
	days := DaysUntil(end, now)
	switch {
	case days <= 0:
		return ExpiryExpired
	case IsExpiringSoon(days):
		return ExpiryExpiringSoon
	default:
		return ExpiryActive
	}
}

// AMCDefaults returns the start, end and renewal dates a new contract form
// is pre-filled with: today, one year on, and the end date again.
func AMCDefaults(now time.Time) (start, end, renewal Date) {
	start = NewDate(now)
	end = Date{start.AddDate(1, 0, 0)}
	return start, end, end
}
