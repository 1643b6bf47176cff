// Package engagement implements the kudos decision engines.
// The compliment engine rewards a learner's own progress; the nudge engine
// points them at buddies who have gone quiet. Both are stateless: history
// arrives with every request and nothing is written back.
package engagement

import (
	"strconv"
	"time"

	"github.com/tutu-network/kudos/internal/domain"
	"github.com/tutu-network/kudos/internal/infra/metrics"
	"go.uber.org/zap"
)

// Reasons attached to compliments that are not named after a feature.
const (
	ReasonProfileImprovement          = "profile improvement"
	ReasonProfileImprovementLowSignal = "Profile improvement"
	ReasonHelpfulTagMatch             = "helpful_answers + tag match"
)

// profile improvement thresholds, in completeness points
const (
	profileImprovementMin   = 10
	profileImprovementForce = 40
)

// ComplimentEngine decides whether a learner gets a compliment and which one.
type ComplimentEngine struct {
	tuning    domain.Tuning
	predictor domain.Predictor
	composer  *Composer
	now       func() time.Time
	logger    *zap.Logger
}

// NewComplimentEngine creates a compliment engine.
func NewComplimentEngine(t domain.Tuning, p domain.Predictor, c *Composer, logger *zap.Logger) *ComplimentEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplimentEngine{
		tuning:    t,
		predictor: p,
		composer:  c,
		now:       time.Now,
		logger:    logger.Named("compliment"),
	}
}

// SetClock overrides the time source used for cooldown checks.
func (e *ComplimentEngine) SetClock(now func() time.Time) { e.now = now }

// complimentEval is the per-request state the rules read.
type complimentEval struct {
	metrics     domain.SocialMetrics
	tags        domain.PopularTags
	matched     []string
	improvement int
	elapsed     bool
}

// complimentRule is one guard in the decision table. It returns ok=false
// when it does not apply; the next rule is then tried. A rule that applies
// but withholds the compliment returns an empty Compliment and a cause.
type complimentRule struct {
	name  string
	apply func(e *ComplimentEngine, s *complimentEval) (c domain.Compliment, cause string, ok bool)
}

// Rules for a negative classifier verdict, in evaluation order.
var negativeRules = []complimentRule{
	{"high_feature_override", (*ComplimentEngine).ruleHighFeatureOverride},
	{"profile_improvement", (*ComplimentEngine).ruleProfileImprovement},
}

// Rules for a positive classifier verdict, in evaluation order.
var positiveRules = []complimentRule{
	{"low_signal", (*ComplimentEngine).ruleLowSignal},
	{"top_feature", (*ComplimentEngine).ruleTopFeature},
}

// Evaluate runs the classifier on m and returns the compliment verdict.
// lastCompliment is the "YYYY-MM-DD" date of the previous compliment, or
// empty. tags must be a stable snapshot for the whole call.
func (e *ComplimentEngine) Evaluate(m domain.SocialMetrics, lastCompliment string, tags domain.PopularTags) domain.Compliment {
	verdict := e.predictor.Predict(m.Vector())
	metrics.ClassifierVerdicts.WithLabelValues(strconv.Itoa(verdict)).Inc()
	return e.Decide(m, lastCompliment, tags, verdict)
}

// Decide applies the rule table to an already computed classifier verdict.
func (e *ComplimentEngine) Decide(m domain.SocialMetrics, lastCompliment string, tags domain.PopularTags, verdict int) domain.Compliment {
	s := &complimentEval{
		metrics:     m,
		tags:        tags,
		matched:     tags.Matches(m.TagsFollowed),
		improvement: m.ProfileImprovement(),
		elapsed:     e.complimentCooldownElapsed(lastCompliment),
	}

	rules := negativeRules
	if verdict == 1 {
		rules = positiveRules
	}
	for _, r := range rules {
		c, cause, ok := r.apply(e, s)
		if !ok {
			continue
		}
		if c.IsEmpty() {
			if cause != "" {
				metrics.ComplimentsSuppressed.WithLabelValues(cause).Inc()
			}
			e.logger.Debug("compliment withheld", zap.String("rule", r.name), zap.String("cause", cause))
			return domain.Compliment{}
		}
		metrics.ComplimentsIssued.WithLabelValues(c.Reason, string(c.Priority)).Inc()
		e.logger.Debug("compliment issued", zap.String("rule", r.name),
			zap.String("reason", c.Reason), zap.String("priority", string(c.Priority)))
		return c
	}
	return domain.Compliment{}
}

// ─── Negative verdict ───────────────────────────────────────────────────────

// ruleHighFeatureOverride flips a negative verdict when any feature reaches
// its high mark. The override is still subject to cooldown.
func (e *ComplimentEngine) ruleHighFeatureOverride(s *complimentEval) (domain.Compliment, string, bool) {
	values, ok := highFeatureValues(s.metrics, e.tuning)
	if !ok {
		return domain.Compliment{}, "", false
	}
	feature, ok := topFeature(values, e.tuning)
	if !ok {
		return domain.Compliment{}, "", false
	}
	if !s.elapsed {
		return domain.Compliment{}, "cooldown", true
	}
	return e.featureCompliment(feature, string(feature), "", s), "", true
}

// ruleProfileImprovement compliments a profile that grew by more than ten points.
func (e *ComplimentEngine) ruleProfileImprovement(s *complimentEval) (domain.Compliment, string, bool) {
	if s.improvement <= profileImprovementMin {
		return domain.Compliment{}, "", false
	}
	if !s.elapsed {
		return domain.Compliment{}, "cooldown", true
	}
	return e.featureCompliment(domain.FeatureProfileCompleteness, ReasonProfileImprovement, "", s), "", true
}

// ─── Positive verdict ───────────────────────────────────────────────────────

// ruleLowSignal distrusts a positive verdict when most features are weak.
// Only a profile improvement can still earn a compliment then.
func (e *ComplimentEngine) ruleLowSignal(s *complimentEval) (domain.Compliment, string, bool) {
	if lowFeatureCount(s.metrics, e.tuning) < lowSignalLimit {
		return domain.Compliment{}, "", false
	}
	if s.improvement <= profileImprovementMin {
		return domain.Compliment{}, "low_signal", true
	}
	if !s.elapsed {
		return domain.Compliment{}, "cooldown", true
	}
	return e.featureCompliment(domain.FeatureProfileCompleteness, ReasonProfileImprovementLowSignal, "", s), "", true
}

// ruleTopFeature compliments the most significant feature. A large profile
// improvement takes precedence over whatever scored highest.
func (e *ComplimentEngine) ruleTopFeature(s *complimentEval) (domain.Compliment, string, bool) {
	feature, found := topFeature(metricValues(s.metrics), e.tuning)
	if s.improvement > profileImprovementForce {
		feature, found = domain.FeatureProfileCompleteness, true
	}
	if !found {
		return domain.Compliment{}, "no_feature", true
	}

	if feature == domain.FeatureHelpfulAnswers && len(s.metrics.TagsFollowed) == 0 {
		return domain.Compliment{}, "no_feature", true
	}
	if !s.elapsed {
		return domain.Compliment{}, "cooldown", true
	}

	if feature != domain.FeatureHelpfulAnswers {
		return e.featureCompliment(feature, string(feature), "", s), "", true
	}
	if tag, ok := s.tags.Top(s.metrics.TagsFollowed); ok {
		return e.featureCompliment(feature, ReasonHelpfulTagMatch, tag, s), "", true
	}
	return domain.Compliment{
		Message:  e.composer.Compliment(noTagMatchTrigger, ""),
		Reason:   string(feature),
		Priority: ComplimentPriority(feature, s.metrics, s.matched, s.improvement, e.tuning),
	}, "", true
}

// featureCompliment renders the standard compliment for feature.
func (e *ComplimentEngine) featureCompliment(feature domain.Feature, reason, tag string, s *complimentEval) domain.Compliment {
	return domain.Compliment{
		Message:  e.composer.Compliment(string(feature), tag),
		Reason:   reason,
		Priority: ComplimentPriority(feature, s.metrics, s.matched, s.improvement, e.tuning),
	}
}
