package engagement

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutu-network/kudos/internal/domain"
)

func TestNudge_Reasons(t *testing.T) {
	e := newTestNudgeEngine(testTuning())

	tests := []struct {
		name  string
		buddy domain.BuddyMetrics
		want  []domain.NudgeReason
	}{
		{"healthy", domain.BuddyMetrics{BuddyID: "ben", LastInteractionDays: 1, MessagesSent: 30, KarmaChange7d: 12, QuizzesAttempted: 4}, nil},
		{"idle", domain.BuddyMetrics{BuddyID: "cal", LastInteractionDays: 5, MessagesSent: 30, QuizzesAttempted: 2}, []domain.NudgeReason{domain.ReasonIdle}},
		{"idle at threshold", domain.BuddyMetrics{BuddyID: "cal", LastInteractionDays: 3, MessagesSent: 30, QuizzesAttempted: 2}, nil},
		{"everything", domain.BuddyMetrics{BuddyID: "ana", LastInteractionDays: 9, MessagesSent: 2, KarmaChange7d: -15}, []domain.NudgeReason{
			domain.ReasonIdle, domain.ReasonKarmaDrop, domain.ReasonScore, domain.ReasonQuizzes,
		}},
		{"low score", domain.BuddyMetrics{BuddyID: "dee", MessagesSent: 3, KarmaChange7d: 2, QuizzesAttempted: 3}, []domain.NudgeReason{domain.ReasonScore}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Reasons(tt.buddy))
		})
	}
}

func TestNudge_Evaluate(t *testing.T) {
	e := newTestNudgeEngine(testTuning())
	buddies := []domain.BuddyMetrics{
		{BuddyID: "ana", LastInteractionDays: 9, MessagesSent: 2, KarmaChange7d: -15},
		{BuddyID: "ben", LastInteractionDays: 1, MessagesSent: 30, KarmaChange7d: 12, QuizzesAttempted: 4},
		{BuddyID: "cal", LastInteractionDays: 5, MessagesSent: 30, QuizzesAttempted: 2},
		{BuddyID: "dee", MessagesSent: 3, KarmaChange7d: 2, QuizzesAttempted: 3},
	}

	batch := e.Evaluate("learner-42", buddies, "")
	assert.Equal(t, "learner-42", batch.UserID)
	require.Len(t, batch.Nudges, 3)

	ana, cal, dee := batch.Nudges[0], batch.Nudges[1], batch.Nudges[2]

	assert.Equal(t, "ana", ana.BuddyID)
	assert.Equal(t, "last_interaction_days, karma_drop, score, quizzes_attempted", ana.Reason)
	assert.Equal(t, "Say hi to ana.", ana.Message)
	assert.Equal(t, domain.PriorityUrgent, ana.Priority)
	assert.InDelta(t, 9.8, ana.InactivityScore, 1e-9)

	assert.Equal(t, "cal", cal.BuddyID)
	assert.Equal(t, "last_interaction_days", cal.Reason)
	assert.Equal(t, domain.PriorityGentle, cal.Priority)

	assert.Equal(t, "dee", dee.BuddyID)
	assert.Equal(t, "Invite dee.", dee.Message)
	assert.Equal(t, domain.PriorityUrgent, dee.Priority)
}

func TestNudge_Cooldown(t *testing.T) {
	e := newTestNudgeEngine(testTuning())
	quiet := []domain.BuddyMetrics{{BuddyID: "ana", LastInteractionDays: 9}}

	batch := e.Evaluate("u", quiet, daysAgo(1))
	assert.NotNil(t, batch.Nudges)
	assert.Empty(t, batch.Nudges)

	assert.Len(t, e.Evaluate("u", quiet, daysAgo(7)).Nudges, 1, "cooldown over")
	assert.Len(t, e.Evaluate("u", quiet, "not-a-date").Nudges, 1, "unparsable date is ignored")
}

func TestNudge_NoBuddies(t *testing.T) {
	batch := newTestNudgeEngine(testTuning()).Evaluate("u", nil, "")
	assert.NotNil(t, batch.Nudges)
	assert.Empty(t, batch.Nudges)
}

func TestNudge_CapKeepsLowestScores(t *testing.T) {
	tn := testTuning()
	e := newTestNudgeEngine(tn)

	// Interleave so input order and score order differ.
	var buddies []domain.BuddyMetrics
	for i := 0; i < 100; i++ {
		idle := 10 + (i*37)%100
		buddies = append(buddies, domain.BuddyMetrics{
			BuddyID:             fmt.Sprintf("b%03d", i),
			LastInteractionDays: idle,
			MessagesSent:        50,
			QuizzesAttempted:    5,
		})
	}

	batch := e.Evaluate("u", buddies, "")
	require.Len(t, batch.Nudges, tn.MaxNudgesPerUser)

	kept := make(map[string]bool)
	maxKept := batch.Nudges[0].InactivityScore
	for i, n := range batch.Nudges {
		kept[n.BuddyID] = true
		if i > 0 {
			assert.LessOrEqual(t, batch.Nudges[i-1].InactivityScore, n.InactivityScore, "ascending order")
		}
		maxKept = max(maxKept, n.InactivityScore)
	}
	for _, b := range buddies {
		if !kept[b.BuddyID] {
			assert.LessOrEqual(t, maxKept, e.InactivityScore(b), b.BuddyID)
		}
	}
}

func TestCapNudges(t *testing.T) {
	nudges := []domain.BuddyNudge{
		{BuddyID: "a", InactivityScore: 1},
		{BuddyID: "b", InactivityScore: 1},
		{BuddyID: "c", InactivityScore: 1},
		{BuddyID: "d", InactivityScore: 5},
		{BuddyID: "e", InactivityScore: -2},
	}

	ids := func(ns []domain.BuddyNudge) []string {
		out := make([]string, len(ns))
		for i, n := range ns {
			out[i] = n.BuddyID
		}
		return out
	}

	assert.Equal(t, []string{"e", "c", "b"}, ids(capNudges(nudges, 3)), "equal scores come out in reverse input order")
	assert.Empty(t, capNudges(nudges, 0))
	assert.Equal(t, "a", nudges[0].BuddyID, "input is not reordered")
}

func TestNudge_CapZero(t *testing.T) {
	tn := testTuning()
	tn.MaxNudgesPerUser = 0

	batch := newTestNudgeEngine(tn).Evaluate("u", []domain.BuddyMetrics{{BuddyID: "ana", LastInteractionDays: 9}}, "")
	assert.NotNil(t, batch.Nudges)
	assert.Empty(t, batch.Nudges)
}
