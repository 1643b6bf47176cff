// Package tags administers the popular-tag table the compliment engine
// matches followed tags against.
package tags

import (
	"fmt"
	"time"

	"github.com/tutu-network/kudos/internal/domain"
	"github.com/tutu-network/kudos/internal/infra/metrics"
	"go.uber.org/zap"
)

// Store owns the live table. Implemented by infra/tuning.Store.
type Store interface {
	domain.TagSource
	UpdatePopularTags(next domain.PopularTags) (domain.TagUpdate, error)
}

// RevisionLog records updates. Implemented by infra/sqlite.DB.
type RevisionLog interface {
	InsertTagRevision(upd domain.TagUpdate, at time.Time) (int64, error)
	ListTagRevisions(limit int) ([]domain.TagRevision, error)
}

// Service validates and applies popular-tag updates.
type Service struct {
	store  Store
	log    RevisionLog // nil disables the audit trail
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates a tag service. log may be nil.
func NewService(store Store, log RevisionLog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{store: store, log: log, now: time.Now, logger: logger.Named("tags")}
	metrics.PopularTagsSize.Set(float64(len(store.PopularTags())))
	return s
}

// SetClock overrides the revision timestamp source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Snapshot returns the current table.
func (s *Service) Snapshot() domain.PopularTags { return s.store.PopularTags() }

// Update replaces the table. The store write must succeed; the audit
// record is best effort.
func (s *Service) Update(next domain.PopularTags) (domain.TagUpdate, error) {
	if err := next.Validate(); err != nil {
		metrics.PopularTagUpdates.WithLabelValues("invalid").Inc()
		return domain.TagUpdate{}, err
	}

	upd, err := s.store.UpdatePopularTags(next)
	if err != nil {
		metrics.PopularTagUpdates.WithLabelValues("failed").Inc()
		return domain.TagUpdate{}, err
	}
	metrics.PopularTagUpdates.WithLabelValues("updated").Inc()
	metrics.PopularTagsSize.Set(float64(len(upd.Updated)))

	if s.log != nil {
		if id, err := s.log.InsertTagRevision(upd, s.now()); err != nil {
			s.logger.Warn("tag revision not recorded", zap.Error(err))
		} else {
			s.logger.Debug("tag revision recorded", zap.Int64("revision", id))
		}
	}
	s.logger.Info("popular tags replaced",
		zap.Int("previous", len(upd.Previous)), zap.Int("updated", len(upd.Updated)))
	return upd, nil
}

// History lists recorded updates, newest first.
func (s *Service) History(limit int) ([]domain.TagRevision, error) {
	if s.log == nil {
		return []domain.TagRevision{}, nil
	}
	revs, err := s.log.ListTagRevisions(limit)
	if err != nil {
		return nil, fmt.Errorf("list tag revisions: %w", err)
	}
	if revs == nil {
		revs = []domain.TagRevision{}
	}
	return revs, nil
}
