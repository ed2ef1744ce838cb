package repomanager

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

// MemoryDSN selects InMemoryRepositoryManager in place of PostgreSQL.
const MemoryDSN = "memory"

// InMemoryRepositoryManager serves process-local repositories. The db
// arguments are ignored; state lives for the life of the manager.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
	notes *notes.MemoryRepository
	txMu  sync.Mutex
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		notes: notes.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Notes(dbx.DBTX) notes.Repository {
	return m.notes
}

// InTx serialises units of work against each other. Nothing is rolled back
// on error.
func (m *InMemoryRepositoryManager) InTx(ctx context.Context, _ *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}
