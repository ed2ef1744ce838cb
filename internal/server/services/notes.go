package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/blobstore"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

// NewNote is the add-notes payload. Attachment is optional.
type NewNote struct {
	Title      string
	Content    string
	Tags       []string
	Attachment *models.Attachment
}

// NoteService owns the note lifecycle. Writes are restricted to the owner;
// reads are public.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	log         logging.Logger
	now         func() time.Time
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, log logging.Logger) *NoteService {
	return &NoteService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		log:         log.With("module", "notes"),
		now:         time.Now,
	}
}

// Add stores a note owned by owner. The attachment, if any, is uploaded
// before the row is written; a failed insert removes the uploaded blob.
func (s *NoteService) Add(ctx context.Context, owner *models.User, in NewNote) (*models.Note, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, common.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, common.NewValidationError("content is required")
	}

	note := &models.Note{
		Title:   in.Title,
		Content: in.Content,
		Tags:    in.Tags,
		UserID:  owner.ID,
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}

	if in.Attachment != nil {
		if err := s.upload(ctx, note, in.Attachment); err != nil {
			return nil, err
		}
	}

	created, err := s.repomanager.Notes(s.db).Create(ctx, note)
	if err != nil {
		if note.FileKey != "" {
			s.removeBlob(ctx, note.FileKey)
		}
		return nil, fmt.Errorf("%w: create note: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "note created", "note_id", created.ID, "user_id", owner.ID)
	return created, nil
}

func (s *NoteService) upload(ctx context.Context, note *models.Note, a *models.Attachment) error {
	if s.blobs == nil {
		return common.NewValidationError("File uploads are disabled")
	}

	ext := path.Ext(a.FileName)
	key := blobstore.NewKey(s.now(), ext)

	url, err := s.blobs.Put(ctx, key, a.Body, a.Size, a.ContentType)
	if err != nil {
		return fmt.Errorf("%w: upload attachment: %v", common.ErrorInternal, err)
	}

	note.FileURL = url
	note.FileKey = key
	note.FileExtension = strings.ToLower(strings.TrimPrefix(ext, "."))
	return nil
}

// Edit applies upd to a note owned by owner. Notes that do not exist and
// notes owned by someone else both report common.ErrorNotFound.
func (s *NoteService) Edit(ctx context.Context, owner *models.User, noteID string, upd models.NoteUpdate) (*models.Note, error) {
	if upd.Empty() {
		return nil, common.NewValidationError("No changes provided")
	}

	note, err := s.repomanager.Notes(s.db).Update(ctx, noteID, owner.ID, upd.Normalize())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: update note: %v", common.ErrorInternal, err)
	}
	return note, nil
}

// Delete removes a note owned by owner. A note that exists but belongs to
// someone else yields common.ErrorForbidden.
func (s *NoteService) Delete(ctx context.Context, owner *models.User, noteID string) error {
	var deleted *models.Note

	err := s.repomanager.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)

		note, err := repo.Delete(ctx, noteID, owner.ID)
		if err == nil {
			deleted = note
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if _, err := repo.GetOwner(ctx, noteID); err != nil {
			return err
		}
		return common.ErrorForbidden
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorForbidden) {
			return err
		}
		return fmt.Errorf("%w: delete note: %v", common.ErrorInternal, err)
	}

	if deleted.FileKey != "" {
		s.removeBlob(ctx, deleted.FileKey)
	}
	s.log.Info(ctx, "note deleted", "note_id", noteID, "user_id", owner.ID)
	return nil
}

func (s *NoteService) Get(ctx context.Context, noteID string) (*models.Note, error) {
	note, err := s.repomanager.Notes(s.db).GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get note: %v", common.ErrorInternal, err)
	}
	return note, nil
}

// List returns all notes, pinned first, then newest first.
func (s *NoteService) List(ctx context.Context) ([]*models.Note, error) {
	notes, err := s.repomanager.Notes(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list notes: %v", common.ErrorInternal, err)
	}
	return notes, nil
}

// Search returns notes whose title or content contains query, ignoring
// case. No match is an empty slice.
func (s *NoteService) Search(ctx context.Context, query string) ([]*models.Note, error) {
	if query == "" {
		return nil, common.NewValidationError("Search query is required")
	}

	notes, err := s.repomanager.Notes(s.db).Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: search notes: %v", common.ErrorInternal, err)
	}
	return notes, nil
}

func (s *NoteService) removeBlob(ctx context.Context, key string) {
	if s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "attachment left behind", "key", key, "error", err)
	}
}
