package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeUsersRepo keeps users in memory with the same uniqueness rule as the
// users_email_key constraint.
type fakeUsersRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	getErr  error
	createE error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createE != nil {
		return nil, f.createE
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.CreatedOn = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// fakeNotesRepo mirrors the scoped SQL of the Postgres repository.
type fakeNotesRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.Note
	seq       int
	createErr error
	deleteErr error
	listErr   error
}

func newFakeNotesRepo() *fakeNotesRepo {
	return &fakeNotesRepo{byID: map[string]*models.Note{}}
}

func clone(n *models.Note) *models.Note {
	cp := *n
	cp.Tags = append([]string{}, n.Tags...)
	return &cp
}

func (f *fakeNotesRepo) Create(ctx context.Context, n *models.Note) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	n.ID = uuid.NewString()
	n.CreatedOn = time.Unix(int64(f.seq), 0)
	f.byID[n.ID] = clone(n)
	return n, nil
}

func (f *fakeNotesRepo) GetByID(ctx context.Context, id string) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(n), nil
}

func (f *fakeNotesRepo) sorted(match func(*models.Note) bool) []*models.Note {
	out := []*models.Note{}
	for _, n := range f.byID {
		if match(n) {
			out = append(out, clone(n))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].CreatedOn.After(out[j].CreatedOn)
	})
	return out
}

func (f *fakeNotesRepo) List(ctx context.Context) ([]*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(func(*models.Note) bool { return true }), nil
}

func (f *fakeNotesRepo) Search(ctx context.Context, q string) ([]*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	q = strings.ToLower(q)
	return f.sorted(func(n *models.Note) bool {
		return strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q)
	}), nil
}

func (f *fakeNotesRepo) Update(ctx context.Context, id, ownerID string, upd models.NoteUpdate) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.byID[id]
	if !ok || n.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	if upd.Title != nil {
		n.Title = *upd.Title
	}
	if upd.Content != nil {
		n.Content = *upd.Content
	}
	if upd.Tags != nil {
		n.Tags = append([]string{}, upd.Tags...)
	}
	if upd.IsPinned != nil {
		n.IsPinned = *upd.IsPinned
	}
	return clone(n), nil
}

func (f *fakeNotesRepo) Delete(ctx context.Context, id, ownerID string) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	n, ok := f.byID[id]
	if !ok || n.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	delete(f.byID, id)
	return n, nil
}

func (f *fakeNotesRepo) GetOwner(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.byID[id]
	if !ok {
		return "", common.ErrorNotFound
	}
	return n.UserID, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	n *fakeNotesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), n: newFakeNotesRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notes.Repository           { return m.n }

func (m *fakeRepoManager) InTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, db, nil, fn)
}

// fakeBlobs records uploads in memory.
type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string]string
	putErr  error
	delErr  error
	deleted []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string]string{}}
}

func (b *fakeBlobs) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if b.putErr != nil {
		return "", b.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = string(data)
	return fmt.Sprintf("http://blobs.local/notes/%s", key), nil
}

func (b *fakeBlobs) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, key)
	if b.delErr != nil {
		return b.delErr
	}
	if _, ok := b.objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(b.objects, key)
	return nil
}

func (b *fakeBlobs) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}
