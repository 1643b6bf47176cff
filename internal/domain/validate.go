package domain

import "fmt"

// Validate checks a request before it reaches the engines. History dates
// are not parsed here; each engine has its own recovery rule.
func (r SocialNudgeRequest) Validate() error {
	if r.UserID == "" {
		return &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if err := r.SocialMetrics.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(r.Buddies))
	for i, b := range r.Buddies {
		field := fmt.Sprintf("buddies[%d]", i)
		switch {
		case b.BuddyID == "":
			return &ValidationError{Field: field + ".buddy_id", Reason: "must not be empty"}
		case seen[b.BuddyID]:
			return &ValidationError{Field: field + ".buddy_id", Reason: fmt.Sprintf("duplicate buddy %q", b.BuddyID)}
		case b.LastInteractionDays < 0:
			return &ValidationError{Field: field + ".last_interaction_days", Reason: "must be >= 0"}
		case b.MessagesSent < 0:
			return &ValidationError{Field: field + ".messages_sent", Reason: "must be >= 0"}
		case b.QuizzesAttempted < 0:
			return &ValidationError{Field: field + ".quizzes_attempted", Reason: "must be >= 0"}
		}
		seen[b.BuddyID] = true
	}
	return nil
}

// Validate checks metric ranges. Karma growth is signed.
func (m SocialMetrics) Validate() error {
	counts := []struct {
		field string
		value int
	}{
		{"helpful_answers", m.HelpfulAnswers},
		{"quizzes_attempted", m.QuizzesAttempted},
		{"upvotes", m.Upvotes},
		{"consecutive_active_days", m.ConsecutiveActiveDays},
	}
	for _, c := range counts {
		if c.value < 0 {
			return &ValidationError{Field: "social_metrics." + c.field, Reason: "must be >= 0"}
		}
	}
	if m.ProfileCompleteness < 0 || m.ProfileCompleteness > 100 {
		return &ValidationError{Field: "social_metrics.profile_completeness", Reason: "must be within 0-100"}
	}
	if m.PreviousProfileCompleteness < 0 || m.PreviousProfileCompleteness > 100 {
		return &ValidationError{Field: "social_metrics.previous_profile_completeness", Reason: "must be within 0-100"}
	}
	return nil
}

// Validate checks a replacement popular-tag table.
func (p PopularTags) Validate() error {
	if p == nil {
		return &ValidationError{Field: "popular_tags", Reason: "is required"}
	}
	for tag := range p {
		if tag == "" {
			return &ValidationError{Field: "popular_tags", Reason: "tag names must not be empty"}
		}
	}
	return nil
}
