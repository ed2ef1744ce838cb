// Package notes provides the PostgreSQL-backed note repository. Writes are
// scoped to the owning user inside the statement itself, so an ownership
// check and the change it guards cannot be separated by a concurrent request.
package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

const noteColumns = `id, title, content, tags, is_pinned, user_id, created_on, file_url, file_extension, file_key`

// Pinned notes first, then newest first.
const listOrder = `ORDER BY is_pinned DESC, created_on DESC`

// PostgresRepository implements note storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts note and fills in ID and CreatedOn.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO notes (title, content, tags, is_pinned, user_id, file_url, file_extension, file_key)
		VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7, $8)
		RETURNING id, created_on
	`
	err = r.db.QueryRowContext(ctx, query,
		note.Title, note.Content, tags, note.IsPinned, note.UserID,
		nullable(note.FileURL), nullable(note.FileExtension), nullable(note.FileKey),
	).Scan(&note.ID, &note.CreatedOn)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if note.Tags == nil {
		note.Tags = []string{}
	}
	return note, nil
}

// GetByID returns common.ErrorNotFound for unknown or malformed ids.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return note, nil
}

// List returns every note regardless of owner.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes ` + listOrder
	return r.selectMany(ctx, query)
}

// Search matches query as a literal, case-insensitive substring of title or
// content. strpos keeps % and _ from acting as wildcards.
func (r *PostgresRepository) Search(ctx context.Context, query string) ([]*models.Note, error) {
	q := `SELECT ` + noteColumns + ` FROM notes
		WHERE strpos(lower(title), lower($1)) > 0 OR strpos(lower(content), lower($1)) > 0
		` + listOrder
	return r.selectMany(ctx, q, query)
}

// Update applies the non-nil fields of upd to the note if ownerID owns it.
// Absent and foreign notes both yield common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID string, upd models.NoteUpdate) (*models.Note, error) {
	if !validID(id) || !validID(ownerID) {
		return nil, common.ErrorNotFound
	}

	var tags any
	if upd.Tags != nil {
		encoded, err := encodeTags(upd.Tags)
		if err != nil {
			return nil, err
		}
		tags = encoded
	}

	query := `
		UPDATE notes SET
			title = COALESCE($3::text, title),
			content = COALESCE($4::text, content),
			tags = COALESCE($5::jsonb, tags),
			is_pinned = COALESCE($6::boolean, is_pinned)
		WHERE id = $1 AND user_id = $2
		RETURNING ` + noteColumns

	note, err := scanNote(r.db.QueryRowContext(ctx, query,
		id, ownerID, deref(upd.Title), deref(upd.Content), tags, deref(upd.IsPinned)))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return note, nil
}

// Delete removes the note if ownerID owns it and returns the removed row.
// It cannot tell an absent note from a foreign one; callers that need the
// distinction follow up with GetOwner in the same transaction.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) (*models.Note, error) {
	if !validID(id) || !validID(ownerID) {
		return nil, common.ErrorNotFound
	}

	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2 RETURNING ` + noteColumns

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return note, nil
}

// GetOwner returns the user id owning the note.
func (r *PostgresRepository) GetOwner(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", common.ErrorNotFound
	}

	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM notes WHERE id = $1`, id).Scan(&owner)
	if err != nil {
		return "", notFoundOr(err)
	}
	return owner, nil
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := []*models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (*models.Note, error) {
	var (
		note                      models.Note
		tags                      []byte
		fileURL, fileExt, fileKey sql.NullString
	)

	if err := row.Scan(
		&note.ID, &note.Title, &note.Content, &tags, &note.IsPinned, &note.UserID,
		&note.CreatedOn, &fileURL, &fileExt, &fileKey,
	); err != nil {
		return nil, err
	}

	note.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &note.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of note %s: %w", note.ID, err)
		}
	}
	note.FileURL = fileURL.String
	note.FileExtension = fileExt.String
	note.FileKey = fileKey.String

	return &note, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// nullable maps "" to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
