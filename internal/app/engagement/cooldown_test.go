package engagement

import (
	"testing"
	"time"
)

func TestDaysSince(t *testing.T) {
	tests := []struct {
		date    string
		want    int
		wantErr bool
	}{
		{"2024-06-10", 0, false},
		{"2024-06-09", 1, false},
		{"2024-06-03", 7, false},
		{"2024-06-11", -1, false},
		{"2023-06-10", 366, false},
		{"2024-6-9", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := daysSince(tt.date, fixedNow)
			if (err != nil) != tt.wantErr {
				t.Fatalf("daysSince(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("daysSince(%q) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestDaysSince_JustBeforeMidnight(t *testing.T) {
	now := time.Date(2024, 6, 10, 23, 59, 59, 0, time.UTC)
	if got, _ := daysSince("2024-06-10", now); got != 0 {
		t.Errorf("same day = %d, want 0", got)
	}
	if got, _ := daysSince("2024-06-04", now); got != 6 {
		t.Errorf("six days and change = %d, want 6", got)
	}
}

func TestCooldownRecoveryRules(t *testing.T) {
	tn := testTuning()
	c := newTestComplimentEngine(tn)
	n := newTestNudgeEngine(tn)

	tests := []struct {
		last            string
		complimentAllow bool
		nudgeBlocked    bool
	}{
		{"", true, false},
		{"garbage", false, false},
		{"2024-06-09", false, true},
		{"2024-06-03", true, false},
		{"2024-06-12", false, true},
	}
	for _, tt := range tests {
		if got := c.complimentCooldownElapsed(tt.last); got != tt.complimentAllow {
			t.Errorf("complimentCooldownElapsed(%q) = %v, want %v", tt.last, got, tt.complimentAllow)
		}
		if got := n.nudgeCooldownActive(tt.last); got != tt.nudgeBlocked {
			t.Errorf("nudgeCooldownActive(%q) = %v, want %v", tt.last, got, tt.nudgeBlocked)
		}
	}
}
