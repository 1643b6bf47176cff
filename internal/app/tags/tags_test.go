package tags_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutu-network/kudos/internal/app/tags"
	"github.com/tutu-network/kudos/internal/domain"
	"github.com/tutu-network/kudos/internal/infra/sqlite"
)

// memStore is an in-memory tags.Store.
type memStore struct {
	tags domain.PopularTags
	err  error
}

func (m *memStore) PopularTags() domain.PopularTags { return m.tags }

func (m *memStore) UpdatePopularTags(next domain.PopularTags) (domain.TagUpdate, error) {
	if m.err != nil {
		return domain.TagUpdate{}, m.err
	}
	upd := domain.TagUpdate{Previous: m.tags.Clone(), Updated: next.Clone()}
	m.tags = next.Clone()
	return upd, nil
}

type brokenLog struct{}

func (brokenLog) InsertTagRevision(domain.TagUpdate, time.Time) (int64, error) {
	return 0, errors.New("disk full")
}

func (brokenLog) ListTagRevisions(int) ([]domain.TagRevision, error) {
	return nil, errors.New("disk full")
}

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpdateRecordsRevision(t *testing.T) {
	store := &memStore{tags: domain.PopularTags{"python": 5}}
	svc := tags.NewService(store, openDB(t), nil)
	svc.SetClock(func() time.Time { return time.Unix(1_700_000_000, 0) })

	upd, err := svc.Update(domain.PopularTags{"python": 7, "go": 2})
	require.NoError(t, err)
	assert.Equal(t, domain.PopularTags{"python": 5}, upd.Previous)
	assert.Equal(t, domain.PopularTags{"python": 7, "go": 2}, upd.Updated)
	assert.Equal(t, upd.Updated, svc.Snapshot())

	hist, err := svc.History(10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, int64(1_700_000_000), hist[0].RevisedAt)
	assert.Equal(t, upd.Previous, hist[0].Previous)
	assert.Equal(t, upd.Updated, hist[0].Updated)
}

func TestUpdateRejectsInvalidTable(t *testing.T) {
	store := &memStore{tags: domain.PopularTags{"python": 5}}
	svc := tags.NewService(store, nil, nil)

	_, err := svc.Update(domain.PopularTags{"": 1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Update(nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.PopularTags{"python": 5}, svc.Snapshot())
}

func TestUpdateStoreFailure(t *testing.T) {
	store := &memStore{tags: domain.PopularTags{"python": 5}, err: domain.ErrTagPersist}
	svc := tags.NewService(store, openDB(t), nil)

	_, err := svc.Update(domain.PopularTags{"go": 1})
	assert.ErrorIs(t, err, domain.ErrTagPersist)

	hist, err := svc.History(0)
	require.NoError(t, err)
	assert.Empty(t, hist, "failed updates are not audited")
}

func TestAuditFailureDoesNotFailUpdate(t *testing.T) {
	store := &memStore{tags: domain.PopularTags{}}
	svc := tags.NewService(store, brokenLog{}, nil)

	upd, err := svc.Update(domain.PopularTags{"rust": 3})
	require.NoError(t, err)
	assert.Equal(t, domain.PopularTags{"rust": 3}, upd.Updated)

	_, err = svc.History(5)
	assert.Error(t, err)
}

func TestHistoryWithoutLog(t *testing.T) {
	svc := tags.NewService(&memStore{tags: domain.PopularTags{}}, nil, nil)
	hist, err := svc.History(5)
	require.NoError(t, err)
	assert.NotNil(t, hist)
	assert.Empty(t, hist)
}
