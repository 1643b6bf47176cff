package engagement

import (
	"time"

	"github.com/google/uuid"
	"github.com/tutu-network/kudos/internal/domain"
	"github.com/tutu-network/kudos/internal/infra/metrics"
	"go.uber.org/zap"
)

// StatusGenerated is the status of every evaluated response.
const StatusGenerated = "generated"

// Evaluator runs both engines over one request and merges the results.
// The popular-tag snapshot is taken once per request.
type Evaluator struct {
	compliments *ComplimentEngine
	nudges      *NudgeEngine
	tags        domain.TagSource
	logger      *zap.Logger
	newID       func() string
}

// NewEvaluator creates an evaluator.
func NewEvaluator(c *ComplimentEngine, n *NudgeEngine, tags domain.TagSource, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		compliments: c,
		nudges:      n,
		tags:        tags,
		logger:      logger.Named("evaluator"),
		newID:       uuid.NewString,
	}
}

// Evaluate computes the compliment and buddy nudges for a validated request.
func (e *Evaluator) Evaluate(req domain.SocialNudgeRequest) domain.SocialNudgeResponse {
	start := time.Now()
	id := e.newID()
	tags := e.tags.PopularTags()

	compliment := e.compliments.Evaluate(req.SocialMetrics, req.History.LastComplimentGenerated, tags)
	batch := e.nudges.Evaluate(req.UserID, req.Buddies, req.History.LastBuddyNudge)

	metrics.EvaluationLatency.Observe(time.Since(start).Seconds())
	e.logger.Info("evaluated",
		zap.String("evaluation_id", id),
		zap.String("user_id", req.UserID),
		zap.Bool("compliment", !compliment.IsEmpty()),
		zap.Int("buddies", len(req.Buddies)),
		zap.Int("nudges", len(batch.Nudges)))

	return domain.SocialNudgeResponse{
		EvaluationID: id,
		UserID:       batch.UserID,
		BuddyNudges:  batch.Nudges,
		Compliment:   compliment,
		Status:       StatusGenerated,
	}
}
