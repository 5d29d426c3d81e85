package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhishek622/devvault/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const noteColumns = `n.id, n.title, n.content, n.type, n.user_id, n.created_at, n.updated_at`

// publicListLimit caps the public landing-page listings.
const publicListLimit = 10

func scanNotes(rows pgx.Rows) ([]model.Note, error) {
	out := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Type, &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note row: %w", err)
		}
		out = append(out, n)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

// ListNotes returns the owner's notes, newest update first. A tag
// filter takes precedence over a search query. An empty userID means
// no session; that is not an error, just an empty result.
func (r *Repository) ListNotes(ctx context.Context, userID uuid.UUID, tagID uuid.UUID, search string) ([]model.Note, error) {
	if userID == uuid.Nil {
		return []model.Note{}, nil
	}

	var (
		q    string
		args []interface{}
	)
	switch {
	case tagID != uuid.Nil:
		q = `
SELECT ` + noteColumns + `
FROM note n
INNER JOIN note_tag nt ON n.id = nt.note_id
INNER JOIN tag t ON nt.tag_id = t.id
WHERE n.user_id = $1 AND t.id = $2
ORDER BY n.updated_at DESC
`
		args = []interface{}{userID, tagID}
	case search != "":
		q = `
SELECT ` + noteColumns + `
FROM note n
WHERE n.user_id = $1 AND (n.title ILIKE $2 OR n.content ILIKE $2)
ORDER BY n.updated_at DESC
`
		args = []interface{}{userID, "%" + search + "%"}
	default:
		q = `
SELECT ` + noteColumns + `
FROM note n
WHERE n.user_id = $1
ORDER BY n.updated_at DESC
`
		args = []interface{}{userID}
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// ListPublicNotes returns the most recently updated notes of one type,
// regardless of owner, capped at the public listing limit.
func (r *Repository) ListPublicNotes(ctx context.Context, noteType string, tagID uuid.UUID) ([]model.Note, error) {
	var (
		q    string
		args []interface{}
	)
	if tagID != uuid.Nil {
		q = `
SELECT ` + noteColumns + `
FROM note n
INNER JOIN note_tag nt ON n.id = nt.note_id
INNER JOIN tag t ON nt.tag_id = t.id
WHERE n.type = $1 AND t.id = $2
ORDER BY n.updated_at DESC
LIMIT $3
`
		args = []interface{}{noteType, tagID, publicListLimit}
	} else {
		q = `
SELECT ` + noteColumns + `
FROM note n
WHERE n.type = $1
ORDER BY n.updated_at DESC
LIMIT $2
`
		args = []interface{}{noteType, publicListLimit}
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query public notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// GetNote returns one note scoped to its owner.
func (r *Repository) GetNote(ctx context.Context, noteID, userID uuid.UUID) (*model.Note, error) {
	if userID == uuid.Nil {
		return nil, ErrNotFound
	}

	const q = `
SELECT ` + noteColumns + `
FROM note n
WHERE n.id = $1 AND n.user_id = $2
`
	var n model.Note
	row := r.db.QueryRow(ctx, q, noteID, userID)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Type, &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &n, nil
}

// GetPublicNote returns one note by id without ownership scoping. The
// caller compares the owner id against the session for edit
// affordances.
func (r *Repository) GetPublicNote(ctx context.Context, noteID uuid.UUID) (*model.Note, error) {
	const q = `
SELECT ` + noteColumns + `
FROM note n
WHERE n.id = $1
`
	var n model.Note
	row := r.db.QueryRow(ctx, q, noteID)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Type, &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan public note: %w", err)
	}
	return &n, nil
}

// CreateNote inserts the note row and one join row per tag id.
func (r *Repository) CreateNote(ctx context.Context, userID uuid.UUID, title, content, noteType string, tagIDs []uuid.UUID) (*model.Note, error) {
	var n model.Note
	err := r.execTx(ctx, func(tx pgx.Tx) error {
		const q = `
INSERT INTO note (title, content, type, user_id)
VALUES ($1, $2, $3, $4)
RETURNING id, title, content, type, user_id, created_at, updated_at
`
		row := tx.QueryRow(ctx, q, title, content, noteType, userID)
		if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Type, &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
		return insertNoteTags(ctx, tx, n.ID, tagIDs)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNote replaces title, content, type, and the full tag set.
// Ownership is re-verified; updating someone else's note is a
// not-found error. The tag-set replace runs in the same transaction as
// the scalar update so no reader observes the intermediate empty set.
func (r *Repository) UpdateNote(ctx context.Context, noteID, userID uuid.UUID, title, content, noteType string, tagIDs []uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrNotFound
	}

	return r.execTx(ctx, func(tx pgx.Tx) error {
		const q = `
UPDATE note
SET title = $1, content = $2, type = $3, updated_at = now()
WHERE id = $4 AND user_id = $5
`
		tag, err := tx.Exec(ctx, q, title, content, noteType, noteID, userID)
		if err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		const del = `DELETE FROM note_tag WHERE note_id = $1`
		if _, err := tx.Exec(ctx, del, noteID); err != nil {
			return fmt.Errorf("delete note tags: %w", err)
		}
		return insertNoteTags(ctx, tx, noteID, tagIDs)
	})
}

// DeleteNote removes a note scoped by id and owner. A non-owner's
// request affects zero rows and is not an error.
func (r *Repository) DeleteNote(ctx context.Context, noteID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}

	const q = `DELETE FROM note WHERE id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, q, noteID, userID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func insertNoteTags(ctx context.Context, tx pgx.Tx, noteID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	const q = `INSERT INTO note_tag (note_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, tagID := range tagIDs {
		batch.Queue(q, noteID, tagID)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(tagIDs); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch insert note tag %d: %w", i, err)
		}
	}
	return nil
}
