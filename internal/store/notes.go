package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/go-sql-notes/internal/database"
	"github.com/safar/go-sql-notes/internal/models"
)

const noteColumns = `id, user_id, title, content, is_order, created_at, updated_at`

func scanNote(row interface{ Scan(...any) error }, note *models.Note) error {
	return row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Content,
		&note.IsOrder,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
}

func CreateNote(ctx context.Context, db *sql.DB, ownerID int64, in models.NoteInput) (int64, error) {
	var id int64

	err := db.QueryRowContext(ctx,
		`INSERT INTO notes (user_id, title, content, is_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 RETURNING id`,
		ownerID, in.Title, in.Content, in.IsOrder).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create note: %w", err)
	}

	return id, nil
}

func GetNote(ctx context.Context, db *sql.DB, id, ownerID int64) (*models.Note, error) {
	note := &models.Note{}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`

	if err := scanNote(db.QueryRowContext(ctx, query, id, ownerID), note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	return note, nil
}

// GetNoteUnchecked loads a note without an ownership filter. Admin paths only.
func GetNoteUnchecked(ctx context.Context, db *sql.DB, id int64) (*models.Note, error) {
	note := &models.Note{}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	if err := scanNote(db.QueryRowContext(ctx, query, id), note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note unchecked: %w", err)
	}

	return note, nil
}

func ListNotesByOwner(ctx context.Context, db *sql.DB, ownerID int64) ([]models.Note, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE user_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	return collectNotes(rows)
}

func ListNotesCursor(ctx context.Context, db *sql.DB, ownerID int64, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = $1
		  AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`

	rows, err := db.QueryContext(ctx, query, ownerID, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list notes cursor: %w", err)
	}
	defer rows.Close()

	notes, err := collectNotes(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(notes) > limit
	if hasMore {
		notes = notes[:limit]
	}

	var nextCursor string
	if hasMore && len(notes) > 0 {
		last := notes[len(notes)-1]
		nextCursor = EncodeCursor(NoteCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return &CursorPage{
		Items:      notes,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// ListAllNotes pages through every user's notes, newest first.
func ListAllNotes(ctx context.Context, db *sql.DB, page, pageSize int) ([]models.Note, int64, error) {
	return listNotesPage(ctx, db, "", page, pageSize)
}

// ListOrderNotes pages through notes whose is_order index is set. Callers
// still decode the content; the flag only narrows the scan.
func ListOrderNotes(ctx context.Context, db *sql.DB, page, pageSize int) ([]models.Note, int64, error) {
	return listNotesPage(ctx, db, "WHERE is_order", page, pageSize)
}

func listNotesPage(ctx context.Context, db *sql.DB, where string, page, pageSize int) ([]models.Note, int64, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes `+where).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT ` + noteColumns + `
		FROM notes ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes page: %w", err)
	}
	defer rows.Close()

	notes, err := collectNotes(rows)
	if err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

// UpdateNote rewrites a plain note. The is_order index is cleared because
// this path only ever stores free text.
func UpdateNote(ctx context.Context, db *sql.DB, id, ownerID int64, title, content string) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE notes
		 SET title = $1, content = $2, is_order = FALSE, updated_at = NOW()
		 WHERE id = $3 AND user_id = $4`,
		title, content, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("update note: %w", err)
	}

	return rowsAffected(result)
}

func DeleteNote(ctx context.Context, db *sql.DB, id, ownerID int64) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete note: %w", err)
	}

	return rowsAffected(result)
}

// UpdateNoteContentUnchecked replaces content without an ownership filter.
// Used by the admin order status path, which keeps is_order set.
func UpdateNoteContentUnchecked(ctx context.Context, db *sql.DB, id int64, content string) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE notes SET content = $1, is_order = TRUE, updated_at = NOW() WHERE id = $2`,
		content, id)
	if err != nil {
		return 0, fmt.Errorf("update note content: %w", err)
	}

	return rowsAffected(result)
}

func DeleteNoteUnchecked(ctx context.Context, db *sql.DB, id int64) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete note unchecked: %w", err)
	}

	return rowsAffected(result)
}

func collectNotes(rows *sql.Rows) ([]models.Note, error) {
	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		if err := scanNote(rows, &note); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return notes, nil
}

func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}
