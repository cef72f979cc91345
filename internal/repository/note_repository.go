//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"time"

	"skim/backend/internal/model"
	"skim/backend/pkg/snowflake"
)

type NoteRepository interface {
	Create(ctx context.Context, note model.Note) (model.Note, error)
	ListByItem(ctx context.Context, itemID, userID int64) ([]model.Note, error)
}

type noteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note model.Note) (model.Note, error) {
	note.ID = snowflake.NextID()
	note.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (id, item_id, user_id, content, selected_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, note.ID, note.ItemID, note.UserID, note.Content, nullableString(note.SelectedText), formatTime(note.CreatedAt))
	if err != nil {
		return model.Note{}, err
	}
	return note, nil
}

// ListByItem returns the user's notes for one item, newest first.
func (r *noteRepository) ListByItem(ctx context.Context, itemID, userID int64) ([]model.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, user_id, content, selected_text, created_at FROM notes
		WHERE item_id = ? AND user_id = ?
		ORDER BY created_at DESC, id DESC
	`, itemID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var note model.Note
		var selectedText sql.NullString
		var createdAt string
		if err := rows.Scan(&note.ID, &note.ItemID, &note.UserID, &note.Content, &selectedText, &createdAt); err != nil {
			return nil, err
		}
		note.SelectedText = nullStringPtr(selectedText)
		note.CreatedAt, _ = parseTime(createdAt)
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
