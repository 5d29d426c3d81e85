package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhishek622/devvault/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListTags returns all tags owned by a user, ordered by name. An empty
// userID means no session and yields an empty result.
func (r *Repository) ListTags(ctx context.Context, userID uuid.UUID) ([]model.Tag, error) {
	if userID == uuid.Nil {
		return []model.Tag{}, nil
	}

	const q = `
SELECT id, name, user_id, created_at
FROM tag
WHERE user_id = $1
ORDER BY name
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

// ListPublicTags returns the distinct tags attached to at least one
// note, for the public tag filter.
func (r *Repository) ListPublicTags(ctx context.Context) ([]model.Tag, error) {
	const q = `
SELECT DISTINCT t.id, t.name, t.user_id, t.created_at
FROM tag t
INNER JOIN note_tag nt ON t.id = nt.tag_id
ORDER BY t.name
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query public tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

// ListNoteTags returns the tag set of one note.
func (r *Repository) ListNoteTags(ctx context.Context, noteID uuid.UUID) ([]model.Tag, error) {
	const q = `
SELECT t.id, t.name, t.user_id, t.created_at
FROM note_tag nt
INNER JOIN tag t ON nt.tag_id = t.id
WHERE nt.note_id = $1
`
	rows, err := r.db.Query(ctx, q, noteID)
	if err != nil {
		return nil, fmt.Errorf("query note tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

// MapNoteTags batch-fetches the tag sets for a set of notes, keyed by
// note id. Notes with no tags have no entry.
func (r *Repository) MapNoteTags(ctx context.Context, noteIDs []uuid.UUID) (map[uuid.UUID][]model.Tag, error) {
	out := map[uuid.UUID][]model.Tag{}
	if len(noteIDs) == 0 {
		return out, nil
	}

	const q = `
SELECT nt.note_id, t.id, t.name, t.user_id, t.created_at
FROM note_tag nt
INNER JOIN tag t ON nt.tag_id = t.id
WHERE nt.note_id = ANY($1)
`
	rows, err := r.db.Query(ctx, q, noteIDs)
	if err != nil {
		return nil, fmt.Errorf("query note tag map: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			noteID uuid.UUID
			t      model.Tag
		)
		if err := rows.Scan(&noteID, &t.ID, &t.Name, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note tag row: %w", err)
		}
		out[noteID] = append(out[noteID], t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

// CreateTag inserts a tag for the user, lower-casing the name. A
// duplicate (name, user) pair is not an error; the existing row is
// returned instead.
func (r *Repository) CreateTag(ctx context.Context, userID uuid.UUID, name string) (*model.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	const q = `
INSERT INTO tag (id, name, user_id)
VALUES ($1, $2, $3)
ON CONFLICT (name, user_id) DO NOTHING
RETURNING id, name, user_id, created_at
`
	var t model.Tag
	row := r.db.QueryRow(ctx, q, uuid.New(), name, userID)
	err := row.Scan(&t.ID, &t.Name, &t.UserID, &t.CreatedAt)
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("insert tag: %w", err)
	}

	// Conflict path: the tag already exists for this user.
	const sel = `
SELECT id, name, user_id, created_at
FROM tag
WHERE name = $1 AND user_id = $2
`
	row = r.db.QueryRow(ctx, sel, name, userID)
	if err := row.Scan(&t.ID, &t.Name, &t.UserID, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("select existing tag: %w", err)
	}
	return &t, nil
}

// DeleteTag removes a tag scoped by id and owner; join rows cascade.
// Like DeleteNote, a non-owner's request is a silent no-op.
func (r *Repository) DeleteTag(ctx context.Context, tagID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}

	const q = `DELETE FROM tag WHERE id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, q, tagID, userID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

func scanTags(rows pgx.Rows) ([]model.Tag, error) {
	out := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag row: %w", err)
		}
		out = append(out, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}
