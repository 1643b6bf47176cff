package engagement

import (
	"slices"

	"github.com/tutu-network/kudos/internal/domain"
)

// strongMark is the multiple of average a feature must exceed to count
// towards a celebratory compliment.
const strongMark = 1.2

var strongFeatures = []domain.Feature{
	domain.FeatureKarmaGrowth,
	domain.FeatureUpvotes,
	domain.FeatureConsecutiveActiveDays,
	domain.FeatureQuizzesAttempted,
}

// ComplimentPriority picks the tone of a compliment. Checks run in order;
// the first match wins.
func ComplimentPriority(feature domain.Feature, m domain.SocialMetrics, matchedTags []string, improvement int, t domain.Tuning) domain.Priority {
	if (feature == domain.FeatureHelpfulAnswers || feature == domain.FeatureUpvotes) && len(matchedTags) > 0 {
		return domain.PriorityEmotional
	}
	if feature == domain.FeatureProfileCompleteness && improvement > 25 {
		return domain.PriorityCelebratory
	}
	if feature == domain.FeatureProfileCompleteness && improvement > 15 {
		return domain.PriorityGentle
	}

	strong := 0
	for _, f := range strongFeatures {
		if float64(m.Value(f)) > t.Average(f)*strongMark {
			strong++
		}
	}
	if strong >= 3 {
		return domain.PriorityCelebratory
	}
	return domain.PriorityGentle
}

// NudgePriority picks the urgency of a buddy nudge. Exactly three reasons
// is urgent; four is not, unless the score condition applies.
func NudgePriority(reasons []domain.NudgeReason, buddyScore int, t domain.Tuning) domain.Priority {
	if len(reasons) == 3 ||
		(slices.Contains(reasons, domain.ReasonScore) && float64(buddyScore) < t.ScoreThreshold-5) {
		return domain.PriorityUrgent
	}
	if len(reasons) == 2 || slices.Contains(reasons, domain.ReasonKarmaDrop) {
		return domain.PriorityModerate
	}
	return domain.PriorityGentle
}
