// Package domain holds the engagement types shared by the compliment and nudge engines.
// A request carries one learner's social metrics, their buddy list and the
// dates of the last messages we sent them. Nothing here is stored between calls.
package domain

import (
	"encoding/json"
	"slices"
)

// DateLayout is the ISO calendar date format used by history fields.
const DateLayout = "2006-01-02"

// ─── Features ───────────────────────────────────────────────────────────────

// Feature names a metric that can earn a compliment.
type Feature string

const (
	FeatureKarmaGrowth           Feature = "karma_growth"
	FeatureHelpfulAnswers        Feature = "helpful_answers"
	FeatureQuizzesAttempted      Feature = "quizzes_attempted"
	FeatureUpvotes               Feature = "upvotes"
	FeatureConsecutiveActiveDays Feature = "consecutive_active_days"
	FeatureProfileCompleteness   Feature = "profile_completeness"

	// FeatureTagMatch is a scoring placeholder. It has an average of zero
	// and never appears in the classifier vector.
	FeatureTagMatch Feature = "tag_match"
)

// ScoredFeatures is the classifier vector order. Ties in feature scoring
// resolve to the earliest feature in this order.
var ScoredFeatures = []Feature{
	FeatureKarmaGrowth,
	FeatureHelpfulAnswers,
	FeatureQuizzesAttempted,
	FeatureUpvotes,
	FeatureConsecutiveActiveDays,
}

// ─── Inputs ─────────────────────────────────────────────────────────────────

// SocialMetrics is a per-learner snapshot. TagsFollowed is a set; order is ignored.
type SocialMetrics struct {
	KarmaGrowth                 int      `json:"karma_growth"`
	HelpfulAnswers              int      `json:"helpful_answers"`
	TagsFollowed                []string `json:"tags_followed"`
	QuizzesAttempted            int      `json:"quizzes_attempted"`
	Upvotes                     int      `json:"upvotes"`
	ConsecutiveActiveDays       int      `json:"consecutive_active_days"`
	ProfileCompleteness         int      `json:"profile_completeness"`
	PreviousProfileCompleteness int      `json:"previous_profile_completeness"`
}

// Value returns the metric backing a scored feature.
func (m SocialMetrics) Value(f Feature) int {
	switch f {
	case FeatureKarmaGrowth:
		return m.KarmaGrowth
	case FeatureHelpfulAnswers:
		return m.HelpfulAnswers
	case FeatureQuizzesAttempted:
		return m.QuizzesAttempted
	case FeatureUpvotes:
		return m.Upvotes
	case FeatureConsecutiveActiveDays:
		return m.ConsecutiveActiveDays
	case FeatureProfileCompleteness:
		return m.ProfileCompleteness
	}
	return 0
}

// ProfileImprovement is the change in profile completeness since the last snapshot.
func (m SocialMetrics) ProfileImprovement() int {
	return m.ProfileCompleteness - m.PreviousProfileCompleteness
}

// Vector returns the classifier input in ScoredFeatures order.
func (m SocialMetrics) Vector() FeatureVector {
	var v FeatureVector
	for i, f := range ScoredFeatures {
		v[i] = float64(m.Value(f))
	}
	return v
}

// FeatureVector is the fixed five-feature classifier input:
// [karma_growth, helpful_answers, quizzes_attempted, upvotes, consecutive_active_days].
type FeatureVector [5]float64

// BuddyMetrics is a per-relationship snapshot.
type BuddyMetrics struct {
	BuddyID             string `json:"buddy_id"`
	LastInteractionDays int    `json:"last_interaction_days"`
	MessagesSent        int    `json:"messages_sent"`
	KarmaChange7d       int    `json:"karma_change_7d"`
	QuizzesAttempted    int    `json:"quizzes_attempted"`
}

// Score is the raw buddy score: karma change + messages + idle days.
func (b BuddyMetrics) Score() int {
	return b.KarmaChange7d + b.MessagesSent + b.LastInteractionDays
}

// History holds the dates of the last messages sent, as "YYYY-MM-DD".
// Empty means never. Values are not validated; engines recover locally.
type History struct {
	LastComplimentGenerated string `json:"last_compliment_generated,omitempty"`
	LastBuddyNudge          string `json:"last_buddy_nudge,omitempty"`
}

// SocialNudgeRequest is one inbound evaluation request.
type SocialNudgeRequest struct {
	UserID        string         `json:"user_id"`
	Buddies       []BuddyMetrics `json:"buddies"`
	SocialMetrics SocialMetrics  `json:"social_metrics"`
	History       History        `json:"history"`
}

// ─── Outputs ────────────────────────────────────────────────────────────────

// Priority is the delivery tone attached to a compliment or nudge.
type Priority string

const (
	PriorityEmotional   Priority = "emotional"
	PriorityCelebratory Priority = "celebratory"
	PriorityGentle      Priority = "gentle"
	PriorityUrgent      Priority = "urgent"
	PriorityModerate    Priority = "moderate"
)

// Compliment is the compliment verdict. The zero value means
// "no compliment this cycle" and serializes with all fields null.
type Compliment struct {
	Message  string
	Reason   string
	Priority Priority
}

// IsEmpty reports whether no compliment was issued.
func (c Compliment) IsEmpty() bool {
	return c.Message == "" && c.Reason == "" && c.Priority == ""
}

// MarshalJSON writes empty fields as null.
func (c Compliment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message  *string `json:"message"`
		Reason   *string `json:"reason"`
		Priority *string `json:"priority"`
	}{nullable(c.Message), nullable(c.Reason), nullable(string(c.Priority))})
}

// UnmarshalJSON accepts the nullable wire form.
func (c *Compliment) UnmarshalJSON(data []byte) error {
	var w struct {
		Message  *string `json:"message"`
		Reason   *string `json:"reason"`
		Priority *string `json:"priority"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Compliment{}
	if w.Message != nil {
		c.Message = *w.Message
	}
	if w.Reason != nil {
		c.Reason = *w.Reason
	}
	if w.Priority != nil {
		c.Priority = Priority(*w.Priority)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NudgeReason is a buddy trigger code.
type NudgeReason string

const (
	ReasonIdle      NudgeReason = "last_interaction_days"
	ReasonKarmaDrop NudgeReason = "karma_drop"
	ReasonScore     NudgeReason = "score"
	ReasonQuizzes   NudgeReason = "quizzes_attempted"
)

// BuddyNudge is one nudge about one buddy. Reason is the comma-joined list
// of triggered reason codes, in trigger evaluation order.
type BuddyNudge struct {
	BuddyID         string   `json:"buddy_id"`
	Reason          string   `json:"reason"`
	Message         string   `json:"message"`
	Priority        Priority `json:"priority"`
	InactivityScore float64  `json:"inactivity_score"`
}

// SocialNudgeResponse merges both engines' output for one request.
type SocialNudgeResponse struct {
	EvaluationID string       `json:"evaluation_id"`
	UserID       string       `json:"user_id"`
	BuddyNudges  []BuddyNudge `json:"buddy_nudges"`
	Compliment   Compliment   `json:"compliment"`
	Status       string       `json:"status"`
}

// ─── Popular Tags ───────────────────────────────────────────────────────────

// PopularTags maps a topic tag to its popularity count. A published
// snapshot is never mutated; writers replace it whole.
type PopularTags map[string]int

// Clone returns an independent copy.
func (p PopularTags) Clone() PopularTags {
	out := make(PopularTags, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Matches returns the followed tags present in p, in followed order,
// without duplicates.
func (p PopularTags) Matches(followed []string) []string {
	var out []string
	for _, t := range followed {
		if _, ok := p[t]; ok && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// Top returns the matched tag with the highest count. Ties keep the
// earliest tag in followed order.
func (p PopularTags) Top(followed []string) (string, bool) {
	best, found := "", false
	for _, t := range p.Matches(followed) {
		if !found || p[t] > p[best] {
			best, found = t, true
		}
	}
	return best, found
}

// TagUpdate is the result of replacing the popular-tag table.
type TagUpdate struct {
	Previous PopularTags `json:"previous_popular_tags"`
	Updated  PopularTags `json:"updated_popular_tags"`
}

// TagRevision is an audit record of one popular-tag update.
type TagRevision struct {
	ID        int64       `json:"id"`
	RevisedAt int64       `json:"revised_at"`
	Previous  PopularTags `json:"previous"`
	Updated   PopularTags `json:"updated"`
}

// ─── Templates ──────────────────────────────────────────────────────────────

// TemplateKind scopes a template entry to one engine. Empty matches both.
type TemplateKind string

const (
	KindCompliment TemplateKind = "compliment"
	KindNudge      TemplateKind = "nudge"
)

// TemplateEntry is one catalog row.
type TemplateEntry struct {
	Trigger   string       `json:"trigger" yaml:"trigger"`
	Kind      TemplateKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Templates []string     `json:"template" yaml:"template"`
	Emojis    []string     `json:"emojis,omitempty" yaml:"emojis,omitempty"`
}
