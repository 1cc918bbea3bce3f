package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"crawlprep/internal/modules/listmode/domain"
	listmodeout "crawlprep/internal/modules/listmode/port/out"
	apperrors "crawlprep/internal/platform/errors"
	"crawlprep/internal/platform/logging"
)

// StateService owns the shared snapshot store and its optional persistence.
// Every other list-mode service mutates state through it.
type StateService struct {
	store *domain.Store
	repo  listmodeout.SnapshotRepository
	log   *log.Logger
}

func NewStateService(store *domain.Store, repo listmodeout.SnapshotRepository, logger *log.Logger) *StateService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &StateService{store: store, repo: repo, log: logger}
}

// Restore loads the last persisted snapshot, if any. A missing snapshot is
// not an error: the store keeps its initial state.
func (s *StateService) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	snapshot, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("restore snapshot: %w", err)
	}
	s.store.Replace(snapshot)
	return nil
}

func (s *StateService) Snapshot() domain.Snapshot {
	return s.store.Load()
}

func (s *StateService) Dispatch(ctx context.Context, r domain.Reducer) (domain.Snapshot, error) {
	next := s.store.Dispatch(r)
	return next, s.persist(ctx, next)
}

func (s *StateService) DispatchIf(ctx context.Context, guard func() bool, r domain.Reducer) (domain.Snapshot, bool, error) {
	next, ok := s.store.DispatchIf(guard, r)
	if !ok {
		return next, false, nil
	}
	return next, true, s.persist(ctx, next)
}

func (s *StateService) persist(ctx context.Context, snapshot domain.Snapshot) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.log.Warn("persist snapshot failed", "revision", snapshot.Revision, "err", err)
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}
