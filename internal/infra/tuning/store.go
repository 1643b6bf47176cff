// Package tuning loads the engine tuning file and owns its one mutable
// field, the popular-tag table.
//
// The file may be JSON, TOML or YAML, picked by extension. Thresholds are
// read once; popular tags are published as immutable snapshots so request
// handlers never block on a writer.
package tuning

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/tutu-network/kudos/internal/domain"
	"go.uber.org/zap"
)

// Store is the loaded tuning file. Safe for concurrent use.
type Store struct {
	path   string
	codec  codec
	tuning domain.Tuning
	logger *zap.Logger

	mu   sync.Mutex // serializes popular-tag writers; guards file
	file fileConfig
	tags atomic.Pointer[domain.PopularTags]
}

// Load reads and validates the tuning file at path.
func Load(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := codecFor(path)
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", domain.ErrConfigMalformed, err)}
	}
	file, err := decodeFile(path, c)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:   path,
		codec:  c,
		tuning: file.toTuning(),
		logger: logger.Named("tuning"),
		file:   *file,
	}
	tags := file.PopularTags.Clone()
	s.tags.Store(&tags)

	s.logger.Info("tuning loaded",
		zap.String("path", path),
		zap.Int("popular_tags", len(tags)),
		zap.Int("max_nudges_per_user", s.tuning.MaxNudgesPerUser))
	return s, nil
}

// Check re-reads the file on disk and reports whether it is still usable.
func (s *Store) Check() error {
	_, err := decodeFile(s.path, s.codec)
	return err
}

func decodeFile(path string, c codec) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", domain.ErrConfigMissing, err)}
		}
		return nil, &domain.ConfigError{Path: path, Err: err}
	}

	var file fileConfig
	if err := c.decode(data, &file); err != nil {
		return nil, &domain.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", domain.ErrConfigMalformed, err)}
	}
	if missing := file.missing(); len(missing) > 0 {
		return nil, &domain.ConfigError{Path: path, Missing: missing}
	}
	if err := validateFile(&file); err != nil {
		return nil, &domain.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", domain.ErrConfigMalformed, err)}
	}
	if file.PopularTags == nil {
		file.PopularTags = domain.PopularTags{}
	}
	return &file, nil
}

func validateFile(f *fileConfig) error {
	if *f.MaxNudgesPerUser < 0 {
		return errors.New("max_nudges_per_user must be >= 0")
	}
	if *f.ComplimentCooldownDays < 0 {
		return errors.New("compliment_cooldown_days must be >= 0")
	}
	if *f.NudgeCooldownDays < 0 {
		return errors.New("nudge_cooldown_days must be >= 0")
	}
	for tag := range f.PopularTags {
		if tag == "" {
			return errors.New("popular_tags contains an empty tag")
		}
	}
	return nil
}

// Path returns the file the store was loaded from.
func (s *Store) Path() string { return s.path }

// Tuning returns the engine thresholds.
func (s *Store) Tuning() domain.Tuning { return s.tuning }

// PopularTags returns the current snapshot. Callers must not mutate it.
func (s *Store) PopularTags() domain.PopularTags { return *s.tags.Load() }

// UpdatePopularTags replaces the popular-tag table and rewrites the tuning
// file. On a write failure the error wraps domain.ErrTagPersist and the
// in-memory table is left unchanged.
func (s *Store) UpdatePopularTags(next domain.PopularTags) (domain.TagUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := *s.tags.Load()
	updated := next.Clone()

	file := s.file
	file.PopularTags = updated
	data, err := s.codec.encode(&file)
	if err != nil {
		return domain.TagUpdate{}, fmt.Errorf("%w: encode: %v", domain.ErrTagPersist, err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		s.logger.Error("popular tags not persisted", zap.String("path", s.path), zap.Error(err))
		return domain.TagUpdate{}, fmt.Errorf("%w: %v", domain.ErrTagPersist, err)
	}

	s.file = file
	s.tags.Store(&updated)
	s.logger.Info("popular tags updated", zap.Int("previous", len(prev)), zap.Int("updated", len(updated)))
	return domain.TagUpdate{Previous: prev.Clone(), Updated: updated.Clone()}, nil
}

// writeFileAtomic replaces path with data via a temp file in the same
// directory, so readers see either the old file or the new one.
func writeFileAtomic(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
