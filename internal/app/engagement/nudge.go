package engagement

import (
	"slices"
	"strings"
	"time"

	"github.com/tutu-network/kudos/internal/domain"
	"github.com/tutu-network/kudos/internal/infra/metrics"
	"go.uber.org/zap"
)

// NudgeEngine decides which buddies a learner should be nudged about.
type NudgeEngine struct {
	tuning   domain.Tuning
	composer *Composer
	now      func() time.Time
	logger   *zap.Logger
}

// NewNudgeEngine creates a nudge engine.
func NewNudgeEngine(t domain.Tuning, c *Composer, logger *zap.Logger) *NudgeEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NudgeEngine{
		tuning:   t,
		composer: c,
		now:      time.Now,
		logger:   logger.Named("nudge"),
	}
}

// SetClock overrides the time source used for the cooldown check.
func (e *NudgeEngine) SetClock(now func() time.Time) { e.now = now }

// NudgeBatch is the nudge verdict for one learner.
type NudgeBatch struct {
	UserID string
	Nudges []domain.BuddyNudge
}

// Evaluate returns the nudges for userID's buddies, in input order unless
// the per-user cap applies. lastNudge is the "YYYY-MM-DD" date of the
// previous nudge, or empty.
func (e *NudgeEngine) Evaluate(userID string, buddies []domain.BuddyMetrics, lastNudge string) NudgeBatch {
	batch := NudgeBatch{UserID: userID, Nudges: []domain.BuddyNudge{}}

	if e.nudgeCooldownActive(lastNudge) {
		e.logger.Info("nudge cooldown active, skipping", zap.String("user_id", userID))
		metrics.NudgeCooldownHits.Inc()
		return batch
	}

	for _, b := range buddies {
		if n, ok := e.evaluateBuddy(b); ok {
			batch.Nudges = append(batch.Nudges, n)
		}
	}

	if len(batch.Nudges) > e.tuning.MaxNudgesPerUser {
		batch.Nudges = capNudges(batch.Nudges, e.tuning.MaxNudgesPerUser)
		metrics.NudgeCapApplied.Inc()
	}
	for _, n := range batch.Nudges {
		primary, _, _ := strings.Cut(n.Reason, ", ")
		metrics.NudgesIssued.WithLabelValues(primary, string(n.Priority)).Inc()
	}
	return batch
}

// Reasons returns the triggered reason codes for b in fixed order:
// idle days, karma drop, low score, few quizzes.
func (e *NudgeEngine) Reasons(b domain.BuddyMetrics) []domain.NudgeReason {
	var reasons []domain.NudgeReason
	if float64(b.LastInteractionDays) > e.tuning.IdleDaysThreshold {
		reasons = append(reasons, domain.ReasonIdle)
	}
	if float64(b.KarmaChange7d) < e.tuning.KarmaDropThreshold {
		reasons = append(reasons, domain.ReasonKarmaDrop)
	}
	if float64(b.Score()) < e.tuning.ScoreThreshold {
		reasons = append(reasons, domain.ReasonScore)
	}
	if float64(b.QuizzesAttempted) < e.tuning.QuizzesThreshold {
		reasons = append(reasons, domain.ReasonQuizzes)
	}
	return reasons
}

// InactivityScore is the weighted sum used to rank buddies for the cap.
// Signed, unclamped.
func (e *NudgeEngine) InactivityScore(b domain.BuddyMetrics) float64 {
	return float64(b.LastInteractionDays)*e.tuning.IdleDaysWeight +
		float64(b.KarmaChange7d)*e.tuning.KarmaWeight +
		float64(b.Score())*e.tuning.ScoreWeight
}

func (e *NudgeEngine) evaluateBuddy(b domain.BuddyMetrics) (domain.BuddyNudge, bool) {
	reasons := e.Reasons(b)
	if len(reasons) == 0 {
		return domain.BuddyNudge{}, false
	}

	codes := make([]string, len(reasons))
	for i, r := range reasons {
		codes[i] = string(r)
	}
	n := domain.BuddyNudge{
		BuddyID:         b.BuddyID,
		Reason:          strings.Join(codes, ", "),
		Message:         e.composer.Nudge(codes[0], b.BuddyID),
		Priority:        NudgePriority(reasons, b.Score(), e.tuning),
		InactivityScore: e.InactivityScore(b),
	}
	e.logger.Debug("buddy nudged", zap.String("buddy_id", b.BuddyID),
		zap.String("reason", n.Reason), zap.Float64("inactivity_score", n.InactivityScore))
	return n, true
}

// capNudges keeps limit nudges. The list is sorted by inactivity score,
// highest first (stable), then reversed, and the head is kept: the result
// holds the limit LOWEST scores in ascending order, equal scores in reverse
// input order.
//
// TODO: confirm with product whether the cap should keep the highest
// inactivity scores instead.
func capNudges(nudges []domain.BuddyNudge, limit int) []domain.BuddyNudge {
	if limit < 0 {
		limit = 0
	}
	sorted := slices.Clone(nudges)
	slices.SortStableFunc(sorted, func(a, b domain.BuddyNudge) int {
		switch {
		case a.InactivityScore > b.InactivityScore:
			return -1
		case a.InactivityScore < b.InactivityScore:
			return 1
		}
		return 0
	})
	slices.Reverse(sorted)
	return sorted[:limit]
}
