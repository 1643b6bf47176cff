// Package health provides periodic health checks for the kudos service.
// Six checks cover the configuration sources, both engines and the
// revision database.
package health

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tutu-network/kudos/internal/app/engagement"
	"github.com/tutu-network/kudos/internal/domain"
	"github.com/tutu-network/kudos/internal/infra/catalog"
	"github.com/tutu-network/kudos/internal/infra/classifier"
	"github.com/tutu-network/kudos/internal/infra/metrics"
	"github.com/tutu-network/kudos/internal/infra/sqlite"
	"github.com/tutu-network/kudos/internal/infra/tuning"
	"go.uber.org/zap"
)

// Check defines a single health check.
type Check struct {
	Name    string
	CheckFn func(ctx context.Context) error
}

// Status represents the result of a health check.
type Status struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Deps are the components the standard checks probe.
type Deps struct {
	Tuning        *tuning.Store
	TemplatesFile string // empty: builtin catalog
	ModelFile     string // empty: injected predictor, not file-backed
	Compliments   *engagement.ComplimentEngine
	Nudges        *engagement.NudgeEngine
	DB            *sqlite.DB // nil: audit log disabled, check skipped
}

// Checker runs periodic health checks.
type Checker struct {
	mu       sync.RWMutex
	checks   []Check
	statuses []Status
	interval time.Duration
	logger   *zap.Logger
}

// NewChecker creates a checker with the standard checks.
func NewChecker(d Deps, interval time.Duration, logger *zap.Logger) *Checker {
	checks := []Check{
		{Name: "tuning", CheckFn: func(ctx context.Context) error {
			return d.Tuning.Check()
		}},
		{Name: "templates", CheckFn: func(ctx context.Context) error {
			return checkTemplates(d.TemplatesFile)
		}},
		{Name: "model", CheckFn: func(ctx context.Context) error {
			if d.ModelFile == "" {
				return nil
			}
			_, err := classifier.Load(d.ModelFile)
			return err
		}},
		{Name: "compliment_logic", CheckFn: func(ctx context.Context) error {
			return probeCompliments(d.Compliments)
		}},
		{Name: "nudging_logic", CheckFn: func(ctx context.Context) error {
			return probeNudges(d.Nudges)
		}},
	}
	if d.DB != nil {
		checks = append(checks, Check{Name: "sqlite", CheckFn: func(ctx context.Context) error {
			return d.DB.Ping()
		}})
	}
	return New(checks, interval, logger)
}

// New creates a checker over arbitrary checks.
func New(checks []Check, interval time.Duration, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Checker{checks: checks, interval: interval, logger: logger.Named("health")}
}

// Run starts the health check loop. Call in a goroutine.
func (c *Checker) Run(ctx context.Context) {
	// Run immediately on start
	c.RunOnce(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.RunOnce(ctx)
		}
	}
}

// RunOnce runs every check now and returns the fresh statuses.
func (c *Checker) RunOnce(ctx context.Context) []Status {
	statuses := make([]Status, len(c.checks))
	for i, check := range c.checks {
		s := Status{
			Name:      check.Name,
			CheckedAt: time.Now(),
		}
		if err := runCheck(ctx, check); err != nil {
			s.Error = err.Error()
			c.logger.Warn("health check failed", zap.String("check", check.Name), zap.Error(err))
			metrics.HealthCheckStatus.WithLabelValues(check.Name).Set(0)
		} else {
			s.Healthy = true
			metrics.HealthCheckStatus.WithLabelValues(check.Name).Set(1)
		}
		statuses[i] = s
	}

	c.mu.Lock()
	c.statuses = statuses
	c.mu.Unlock()

	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// runCheck turns a panicking probe into a failed check.
func runCheck(ctx context.Context, check Check) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return check.CheckFn(ctx)
}

// Statuses returns the latest health check results.
func (c *Checker) Statuses() []Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Status, len(c.statuses))
	copy(result, c.statuses)
	return result
}

// IsHealthy returns true if all checks pass.
func (c *Checker) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return AllHealthy(c.statuses)
}

// AllHealthy reports whether every status passed.
func AllHealthy(statuses []Status) bool {
	for _, s := range statuses {
		if !s.Healthy {
			return false
		}
	}
	return true
}

// ─── Check Implementations ──────────────────────────────────────────────────

func checkTemplates(path string) error {
	c := catalog.Default()
	if path != "" {
		var err error
		if c, err = catalog.Load(path); err != nil {
			return err
		}
	}
	if c.Len() == 0 {
		return domain.ErrTemplatesEmpty
	}
	return nil
}

// probeMetrics is a learner busy enough to exercise the rule table.
var probeMetrics = domain.SocialMetrics{
	KarmaGrowth:                 250,
	HelpfulAnswers:              40,
	QuizzesAttempted:            12,
	Upvotes:                     120,
	ConsecutiveActiveDays:       20,
	ProfileCompleteness:         90,
	PreviousProfileCompleteness: 60,
	TagsFollowed:                []string{"health-check"},
}

func probeCompliments(e *engagement.ComplimentEngine) error {
	if e == nil {
		return errors.New("compliment engine not configured")
	}
	tags := domain.PopularTags{"health-check": 1}
	for _, verdict := range []int{0, 1} {
		c := e.Decide(probeMetrics, "", tags, verdict)
		if c.IsEmpty() {
			continue
		}
		if c.Message == "" || c.Reason == "" || c.Priority == "" {
			return fmt.Errorf("verdict %d: incomplete compliment %+v", verdict, c)
		}
	}
	return nil
}

func probeNudges(e *engagement.NudgeEngine) error {
	if e == nil {
		return errors.New("nudge engine not configured")
	}
	buddy := domain.BuddyMetrics{BuddyID: "health-check-buddy", LastInteractionDays: 365, KarmaChange7d: -100}
	if len(e.Reasons(buddy)) == 0 {
		return errors.New("idle buddy triggered no nudge reason")
	}
	batch := e.Evaluate("health-check", []domain.BuddyMetrics{buddy}, "")
	for _, n := range batch.Nudges {
		if !strings.Contains(n.Message, buddy.BuddyID) {
			return fmt.Errorf("nudge message does not name the buddy: %q", n.Message)
		}
	}
	return nil
}
