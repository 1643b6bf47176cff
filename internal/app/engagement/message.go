package engagement

import (
	"strings"
	"sync"

	"github.com/tutu-network/kudos/internal/domain"
	"github.com/tutu-network/kudos/internal/infra/metrics"
	"go.uber.org/zap"
)

const (
	fallbackCompliment = "Great job! Keep contributing."
	fallbackEmoji      = "✨"
	fallbackNudge      = "Looks like {buddy_id} has been quiet. Maybe send them a quick message?"
	fallbackTag        = "this space"

	// noTagMatchTrigger is the helpful-answers variant used when none of
	// the learner's followed tags are popular.
	noTagMatchTrigger = "helpful_answers_but_no_tag_match"
)

// Rand is the randomness a Composer draws from. *rand.Rand from
// math/rand/v2 satisfies it; tests pass a seeded one.
type Rand interface {
	IntN(n int) int
}

// Composer renders compliment and nudge text from the template catalog.
// Safe for concurrent use.
type Composer struct {
	templates domain.TemplateSource
	logger    *zap.Logger

	mu  sync.Mutex // guards rng
	rng Rand
}

// NewComposer creates a composer drawing templates from src.
func NewComposer(src domain.TemplateSource, rng Rand, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{templates: src, rng: rng, logger: logger.Named("composer")}
}

// Compliment renders a compliment for trigger. For the helpful-answers
// family, {tag} becomes tag, or "this space" when tag is empty.
func (c *Composer) Compliment(trigger, tag string) string {
	entry, ok := c.templates.Lookup(domain.KindCompliment, trigger)
	if !ok {
		c.logger.Warn("no compliment template, using fallback",
			zap.String("trigger", trigger), zap.Error(domain.ErrUnknownTrigger))
		metrics.TemplateFallbacks.WithLabelValues(string(domain.KindCompliment)).Inc()
		return fallbackCompliment
	}

	text := c.pick(entry.Templates, fallbackCompliment)
	if trigger == string(domain.FeatureHelpfulAnswers) || trigger == noTagMatchTrigger {
		if tag == "" {
			tag = fallbackTag
		}
		text = strings.ReplaceAll(text, "{tag}", tag)
	}
	return text + " " + c.pick(entry.Emojis, fallbackEmoji)
}

// Nudge renders a nudge about buddyID for trigger.
func (c *Composer) Nudge(trigger, buddyID string) string {
	text := fallbackNudge
	if entry, ok := c.templates.Lookup(domain.KindNudge, trigger); ok {
		text = c.pick(entry.Templates, fallbackNudge)
	} else {
		c.logger.Warn("no nudge template, using fallback",
			zap.String("trigger", trigger), zap.String("buddy_id", buddyID),
			zap.Error(domain.ErrUnknownTrigger))
		metrics.TemplateFallbacks.WithLabelValues(string(domain.KindNudge)).Inc()
	}
	return strings.ReplaceAll(text, "{buddy_id}", buddyID)
}

// pick returns a random element of options, or fallback when empty.
func (c *Composer) pick(options []string, fallback string) string {
	if len(options) == 0 {
		return fallback
	}
	c.mu.Lock()
	i := c.rng.IntN(len(options))
	c.mu.Unlock()
	return options[i]
}
