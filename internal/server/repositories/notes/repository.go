package notes

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	List(ctx context.Context) ([]*models.Note, error)
	Search(ctx context.Context, query string) ([]*models.Note, error)
	Update(ctx context.Context, id, ownerID string, upd models.NoteUpdate) (*models.Note, error)
	Delete(ctx context.Context, id, ownerID string) (*models.Note, error)
	GetOwner(ctx context.Context, id string) (string, error)
}
