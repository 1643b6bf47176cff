package engagement

import (
	"math"
	"time"

	"github.com/tutu-network/kudos/internal/domain"
	"go.uber.org/zap"
)

// daysSince returns whole days elapsed from the start of date to now,
// floored, in now's location. A future date yields a negative count.
func daysSince(date string, now time.Time) (int, error) {
	d, err := time.ParseInLocation(domain.DateLayout, date, now.Location())
	if err != nil {
		return 0, err
	}
	return int(math.Floor(now.Sub(d).Hours() / 24)), nil
}

// complimentCooldownElapsed reports whether a compliment may fire again.
// An unparsable date fails closed: the cooldown is treated as still running.
func (e *ComplimentEngine) complimentCooldownElapsed(last string) bool {
	if last == "" {
		return true
	}
	days, err := daysSince(last, e.now())
	if err != nil {
		e.logger.Warn("invalid last_compliment_generated, withholding compliment",
			zap.String("date", last), zap.Error(err))
		return false
	}
	return days >= e.tuning.ComplimentCooldownDays
}

// nudgeCooldownActive reports whether the per-user nudge cooldown blocks
// this evaluation. An unparsable date fails open: processing proceeds.
func (e *NudgeEngine) nudgeCooldownActive(last string) bool {
	if last == "" {
		return false
	}
	days, err := daysSince(last, e.now())
	if err != nil {
		e.logger.Debug("invalid last_buddy_nudge, ignoring cooldown",
			zap.String("date", last), zap.Error(err))
		return false
	}
	return days < e.tuning.NudgeCooldownDays
}
