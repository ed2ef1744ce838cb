package notes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// MemoryRepository keeps notes in process memory with the same ownership
// and ordering rules as PostgresRepository.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.Note
	now  func() time.Time
	last time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID: map[string]*models.Note{},
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func copyNote(n *models.Note) *models.Note {
	cp := *n
	cp.Tags = append([]string{}, n.Tags...)
	return &cp
}

func (r *MemoryRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// creation times stay strictly increasing so newest-first is total
	created := r.now()
	if !created.After(r.last) {
		created = r.last.Add(time.Nanosecond)
	}
	r.last = created

	note.ID = uuid.NewString()
	note.CreatedOn = created
	if note.Tags == nil {
		note.Tags = []string{}
	}
	r.byID[note.ID] = copyNote(note)
	return note, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyNote(n), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Note, error) {
	return r.selectSorted(func(*models.Note) bool { return true }), nil
}

func (r *MemoryRepository) Search(ctx context.Context, query string) ([]*models.Note, error) {
	q := strings.ToLower(query)
	return r.selectSorted(func(n *models.Note) bool {
		return strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q)
	}), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id, ownerID string, upd models.NoteUpdate) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
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
	return copyNote(n), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id, ownerID string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok || n.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	delete(r.byID, id)
	return n, nil
}

func (r *MemoryRepository) GetOwner(ctx context.Context, id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return "", common.ErrorNotFound
	}
	return n.UserID, nil
}

func (r *MemoryRepository) selectSorted(match func(*models.Note) bool) []*models.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*models.Note{}
	for _, n := range r.byID {
		if match(n) {
			out = append(out, copyNote(n))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].CreatedOn.After(out[j].CreatedOn)
	})
	return out
}
