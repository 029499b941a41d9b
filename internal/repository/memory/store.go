// Package memory is a process-local store used for development and tests.
// Every read returns a deep copy so callers never alias stored state.
package memory

import (
	"context"
	"sync"

	"showcase/internal/domain/models"
	"showcase/internal/domain/repositories"
)

// Store holds users and projects behind one lock. Each repository method
// runs under the lock, which makes it atomic with respect to the others.
// txMu serializes ExecTx bodies, standing in for row locks.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	projects map[string]*models.Project
	users    map[string]*models.User
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		projects: make(map[string]*models.Project),
		users:    make(map[string]*models.User),
	}
}

// Projects returns the project repository view of the store
func (s *Store) Projects() repositories.ProjectRepository { return &projectRepository{s: s} }

// Engagement returns the engagement repository view of the store
func (s *Store) Engagement() repositories.EngagementRepository { return &engagementRepository{s: s} }

// Users returns the identity store view of the store
func (s *Store) Users() repositories.UserRepository { return &userRepository{s: s} }

// TransactionManager returns a manager that runs one transaction body at a
// time. No memory operation fails halfway, so there is nothing to roll back.
func (s *Store) TransactionManager() repositories.TransactionManager { return &txManager{s: s} }

type txKey struct{}

type txManager struct {
	s *Store
}

// ExecTx runs fn while holding the store's transaction lock. A nested call
// joins the enclosing transaction.
func (m *txManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if _, ok := ctx.Value(txKey{}).(bool); ok {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	return fn(context.WithValue(ctx, txKey{}, true))
}
