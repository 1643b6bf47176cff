package engagement

import "github.com/tutu-network/kudos/internal/domain"

// Low-signal marks for the positive path: a positive verdict is distrusted
// when three or more features sit below these fractions of their average.
var lowSignalMarks = map[domain.Feature]float64{
	domain.FeatureKarmaGrowth:           0.4,
	domain.FeatureHelpfulAnswers:        0.4,
	domain.FeatureQuizzesAttempted:      0.4,
	domain.FeatureUpvotes:               0.14,
	domain.FeatureConsecutiveActiveDays: 0.3,
}

const lowSignalLimit = 3

// featureValue is one entry of an ordered scoring input.
type featureValue struct {
	feature domain.Feature
	value   float64
}

// metricValues returns the five scored features in vector order.
func metricValues(m domain.SocialMetrics) []featureValue {
	out := make([]featureValue, 0, len(domain.ScoredFeatures))
	for _, f := range domain.ScoredFeatures {
		out = append(out, featureValue{feature: f, value: float64(m.Value(f))})
	}
	return out
}

// topFeature returns the feature with the highest significance score:
//
//	score = (value - average) / base_factor * importance
//
// Features below average*low_mark are not considered. A zero base factor
// scores zero. The first feature in input order wins a tie.
func topFeature(values []featureValue, t domain.Tuning) (domain.Feature, bool) {
	var (
		best      domain.Feature
		bestScore float64
		found     bool
	)
	for _, fv := range values {
		avg := t.Average(fv.feature)
		if fv.value < avg*t.LowMarks[fv.feature] {
			continue
		}
		var z float64
		if bf := t.BaseFactor(fv.feature); bf != 0 {
			z = (fv.value - avg) / bf
		}
		score := z * t.Importance(fv.feature)
		if !found || score > bestScore {
			best, bestScore, found = fv.feature, score, true
		}
	}
	return best, found
}

// highFeatureValues returns the features at or above average*high_mark,
// followed by every other scored feature with its value zeroed. The
// ordering matters for tie-breaks in topFeature.
func highFeatureValues(m domain.SocialMetrics, t domain.Tuning) ([]featureValue, bool) {
	var high, rest []featureValue
	for _, f := range domain.ScoredFeatures {
		v := float64(m.Value(f))
		if v >= t.Average(f)*t.HighMarks[f] {
			high = append(high, featureValue{feature: f, value: v})
		} else {
			rest = append(rest, featureValue{feature: f})
		}
	}
	if len(high) == 0 {
		return nil, false
	}
	return append(high, rest...), true
}

// lowFeatureCount counts features under their low-signal mark.
func lowFeatureCount(m domain.SocialMetrics, t domain.Tuning) int {
	n := 0
	for _, f := range domain.ScoredFeatures {
		if float64(m.Value(f)) < t.Average(f)*lowSignalMarks[f] {
			n++
		}
	}
	return n
}
