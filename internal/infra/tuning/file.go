package tuning

import (
	"github.com/tutu-network/kudos/internal/domain"
)

// fileConfig mirrors the tuning file. Pointer fields distinguish a missing
// key from a zero value; every one of them is required.
type fileConfig struct {
	AverageUpvotes               *float64 `json:"average_upvotes" toml:"average_upvotes" yaml:"average_upvotes"`
	AverageHelpfulAnswers        *float64 `json:"average_helpful_answers" toml:"average_helpful_answers" yaml:"average_helpful_answers"`
	AverageQuizzesAttempted      *float64 `json:"average_quizzes_attempted" toml:"average_quizzes_attempted" yaml:"average_quizzes_attempted"`
	AverageKarma                 *float64 `json:"average_karma" toml:"average_karma" yaml:"average_karma"`
	AverageConsecutiveActiveDays *float64 `json:"average_consecutive_active_days" toml:"average_consecutive_active_days" yaml:"average_consecutive_active_days"`

	HighKarmaMark           *float64 `json:"high_karma_mark" toml:"high_karma_mark" yaml:"high_karma_mark"`
	HighHelpfulAnswersMark  *float64 `json:"high_helpful_answers_mark" toml:"high_helpful_answers_mark" yaml:"high_helpful_answers_mark"`
	HighQuizMark            *float64 `json:"high_quiz_mark" toml:"high_quiz_mark" yaml:"high_quiz_mark"`
	HighUpvotesMark         *float64 `json:"high_upvotes_mark" toml:"high_upvotes_mark" yaml:"high_upvotes_mark"`
	HighConsecutiveDaysMark *float64 `json:"high_consecutive_days_mark" toml:"high_consecutive_days_mark" yaml:"high_consecutive_days_mark"`

	FeatureLowMarks    map[string]float64 `json:"feature_low_marks" toml:"feature_low_marks" yaml:"feature_low_marks"`
	FeatureBaseFactors map[string]float64 `json:"feature_base_factors" toml:"feature_base_factors" yaml:"feature_base_factors"`
	FeatureImportances map[string]float64 `json:"feature_importances" toml:"feature_importances" yaml:"feature_importances"`

	ComplimentCooldownDays *int `json:"compliment_cooldown_days" toml:"compliment_cooldown_days" yaml:"compliment_cooldown_days"`

	BuddyNudgeIdleDays        *float64 `json:"buddy_nudge_idle_days" toml:"buddy_nudge_idle_days" yaml:"buddy_nudge_idle_days"`
	KarmaDropThreshold        *float64 `json:"karma_drop_threshold" toml:"karma_drop_threshold" yaml:"karma_drop_threshold"`
	BuddyScoreThreshold       *float64 `json:"buddy_score_threshold" toml:"buddy_score_threshold" yaml:"buddy_score_threshold"`
	QuizzesAttemptedThreshold *float64 `json:"quizzes_attempted_threshold" toml:"quizzes_attempted_threshold" yaml:"quizzes_attempted_threshold"`
	NudgeCooldownDays         *int     `json:"nudge_cooldown_days" toml:"nudge_cooldown_days" yaml:"nudge_cooldown_days"`
	MaxNudgesPerUser          *int     `json:"max_nudges_per_user" toml:"max_nudges_per_user" yaml:"max_nudges_per_user"`

	IdleDaysWeight *float64 `json:"last_interaction_days_weight_for_inactivity" toml:"last_interaction_days_weight_for_inactivity" yaml:"last_interaction_days_weight_for_inactivity"`
	KarmaWeight    *float64 `json:"karma_weight_for_inactivity" toml:"karma_weight_for_inactivity" yaml:"karma_weight_for_inactivity"`
	ScoreWeight    *float64 `json:"score_weight_for_inactivity" toml:"score_weight_for_inactivity" yaml:"score_weight_for_inactivity"`

	// PopularTags is optional and defaults to an empty table.
	PopularTags domain.PopularTags `json:"popular_tags" toml:"popular_tags" yaml:"popular_tags"`
}

// missing lists every absent required key, in file order.
func (f *fileConfig) missing() []string {
	var out []string
	check := func(key string, present bool) {
		if !present {
			out = append(out, key)
		}
	}
	check("average_upvotes", f.AverageUpvotes != nil)
	check("average_helpful_answers", f.AverageHelpfulAnswers != nil)
	check("average_quizzes_attempted", f.AverageQuizzesAttempted != nil)
	check("average_karma", f.AverageKarma != nil)
	check("average_consecutive_active_days", f.AverageConsecutiveActiveDays != nil)
	check("high_karma_mark", f.HighKarmaMark != nil)
	check("high_helpful_answers_mark", f.HighHelpfulAnswersMark != nil)
	check("high_quiz_mark", f.HighQuizMark != nil)
	check("high_upvotes_mark", f.HighUpvotesMark != nil)
	check("high_consecutive_days_mark", f.HighConsecutiveDaysMark != nil)

	check("feature_low_marks", f.FeatureLowMarks != nil)
	if f.FeatureLowMarks != nil {
		for _, feat := range domain.ScoredFeatures {
			_, ok := f.FeatureLowMarks[string(feat)]
			check("feature_low_marks."+string(feat), ok)
		}
	}
	check("feature_base_factors", f.FeatureBaseFactors != nil)
	check("feature_importances", f.FeatureImportances != nil)

	check("compliment_cooldown_days", f.ComplimentCooldownDays != nil)
	check("buddy_nudge_idle_days", f.BuddyNudgeIdleDays != nil)
	check("karma_drop_threshold", f.KarmaDropThreshold != nil)
	check("buddy_score_threshold", f.BuddyScoreThreshold != nil)
	check("quizzes_attempted_threshold", f.QuizzesAttemptedThreshold != nil)
	check("nudge_cooldown_days", f.NudgeCooldownDays != nil)
	check("max_nudges_per_user", f.MaxNudgesPerUser != nil)
	check("last_interaction_days_weight_for_inactivity", f.IdleDaysWeight != nil)
	check("karma_weight_for_inactivity", f.KarmaWeight != nil)
	check("score_weight_for_inactivity", f.ScoreWeight != nil)
	return out
}

// toTuning converts a validated file into engine thresholds.
func (f *fileConfig) toTuning() domain.Tuning {
	return domain.Tuning{
		Averages: map[domain.Feature]float64{
			domain.FeatureKarmaGrowth:           *f.AverageKarma,
			domain.FeatureHelpfulAnswers:        *f.AverageHelpfulAnswers,
			domain.FeatureQuizzesAttempted:      *f.AverageQuizzesAttempted,
			domain.FeatureUpvotes:               *f.AverageUpvotes,
			domain.FeatureConsecutiveActiveDays: *f.AverageConsecutiveActiveDays,
			domain.FeatureTagMatch:              0,
		},
		HighMarks: map[domain.Feature]float64{
			domain.FeatureKarmaGrowth:           *f.HighKarmaMark,
			domain.FeatureHelpfulAnswers:        *f.HighHelpfulAnswersMark,
			domain.FeatureQuizzesAttempted:      *f.HighQuizMark,
			domain.FeatureUpvotes:               *f.HighUpvotesMark,
			domain.FeatureConsecutiveActiveDays: *f.HighConsecutiveDaysMark,
		},
		LowMarks:    featureMap(f.FeatureLowMarks),
		BaseFactors: featureMap(f.FeatureBaseFactors),
		Importances: featureMap(f.FeatureImportances),

		ComplimentCooldownDays: *f.ComplimentCooldownDays,

		NudgeCooldownDays:  *f.NudgeCooldownDays,
		IdleDaysThreshold:  *f.BuddyNudgeIdleDays,
		KarmaDropThreshold: *f.KarmaDropThreshold,
		ScoreThreshold:     *f.BuddyScoreThreshold,
		QuizzesThreshold:   *f.QuizzesAttemptedThreshold,
		MaxNudgesPerUser:   *f.MaxNudgesPerUser,
		IdleDaysWeight:     *f.IdleDaysWeight,
		KarmaWeight:        *f.KarmaWeight,
		ScoreWeight:        *f.ScoreWeight,
	}
}

func featureMap(m map[string]float64) map[domain.Feature]float64 {
	out := make(map[domain.Feature]float64, len(m))
	for k, v := range m {
		out[domain.Feature(k)] = v
	}
	return out
}
