package engagement

import (
	"math/rand/v2"
	"time"

	"github.com/tutu-network/kudos/internal/domain"
)

// fixedNow is the evaluation clock used throughout the tests.
var fixedNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

func daysAgo(n int) string { return fixedNow.AddDate(0, 0, -n).Format(domain.DateLayout) }

func testTuning() domain.Tuning {
	all := func(v float64) map[domain.Feature]float64 {
		m := make(map[domain.Feature]float64, len(domain.ScoredFeatures))
		for _, f := range domain.ScoredFeatures {
			m[f] = v
		}
		return m
	}
	return domain.Tuning{
		Averages: map[domain.Feature]float64{
			domain.FeatureKarmaGrowth:           100,
			domain.FeatureHelpfulAnswers:        20,
			domain.FeatureQuizzesAttempted:      5,
			domain.FeatureUpvotes:               50,
			domain.FeatureConsecutiveActiveDays: 10,
		},

		HighMarks:   all(2),
		LowMarks:    all(0.5),
		BaseFactors: all(1),
		Importances: all(1),

		ComplimentCooldownDays: 7,

		NudgeCooldownDays:  7,
		IdleDaysThreshold:  3,
		KarmaDropThreshold: -5,
		ScoreThreshold:     20,
		QuizzesThreshold:   1,
		MaxNudgesPerUser:   5,
		IdleDaysWeight:     0.5,
		KarmaWeight:        -0.3,
		ScoreWeight:        -0.2,
	}
}

// fakeTemplates has one template and one emoji per trigger, so rendered
// messages are deterministic.
type fakeTemplates []domain.TemplateEntry

func (f fakeTemplates) Lookup(kind domain.TemplateKind, trigger string) (domain.TemplateEntry, bool) {
	for _, e := range f {
		if e.Trigger == trigger && (e.Kind == "" || e.Kind == kind) {
			return e, true
		}
	}
	return domain.TemplateEntry{}, false
}

func entry(kind domain.TemplateKind, trigger, text, emoji string) domain.TemplateEntry {
	e := domain.TemplateEntry{Trigger: trigger, Kind: kind, Templates: []string{text}}
	if emoji != "" {
		e.Emojis = []string{emoji}
	}
	return e
}

var testTemplates = fakeTemplates{
	entry(domain.KindCompliment, "karma_growth", "Karma up!", "🚀"),
	entry(domain.KindCompliment, "helpful_answers", "Great help in {tag}!", "🙌"),
	entry(domain.KindCompliment, "helpful_answers_but_no_tag_match", "Thanks for helping in {tag}.", "💬"),
	entry(domain.KindCompliment, "quizzes_attempted", "Quiz master!", "🧠"),
	entry(domain.KindCompliment, "upvotes", "Upvotes galore!", "👍"),
	entry(domain.KindCompliment, "consecutive_active_days", "Streak!", "📅"),
	entry(domain.KindCompliment, "profile_completeness", "Nice profile!", "🎉"),
	entry(domain.KindNudge, "last_interaction_days", "Say hi to {buddy_id}.", ""),
	entry(domain.KindNudge, "karma_drop", "Cheer up {buddy_id}.", ""),
	entry(domain.KindNudge, "score", "Invite {buddy_id}.", ""),
	entry(domain.KindNudge, "quizzes_attempted", "Quiz with {buddy_id}.", ""),
}

func newTestComposer(src domain.TemplateSource) *Composer {
	return NewComposer(src, rand.New(rand.NewPCG(1, 1)), nil)
}

func newTestComplimentEngine(t domain.Tuning) *ComplimentEngine {
	e := NewComplimentEngine(t, domain.PredictorFunc(func(domain.FeatureVector) int { return 0 }),
		newTestComposer(testTemplates), nil)
	e.SetClock(clock)
	return e
}

func newTestNudgeEngine(t domain.Tuning) *NudgeEngine {
	e := NewNudgeEngine(t, newTestComposer(testTemplates), nil)
	e.SetClock(clock)
	return e
}

// averageMetrics sits exactly on every average: nothing high, nothing low.
func averageMetrics() domain.SocialMetrics {
	return domain.SocialMetrics{
		KarmaGrowth:                 100,
		HelpfulAnswers:              20,
		QuizzesAttempted:            5,
		Upvotes:                     50,
		ConsecutiveActiveDays:       10,
		ProfileCompleteness:         60,
		PreviousProfileCompleteness: 60,
	}
}

type staticTags domain.PopularTags

func (s staticTags) PopularTags() domain.PopularTags { return domain.PopularTags(s) }
