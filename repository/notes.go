package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"main/model"
	"main/utils"
)

type PostgresNoteRepo struct {
	db *sql.DB
}

func NewPostgresNoteRepo(db *sql.DB) *PostgresNoteRepo {
	return &PostgresNoteRepo{db: db}
}

func (r *PostgresNoteRepo) CreateNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	if note.UserID == "" {
		utils.TrackError("database", "invalid_note_data")
		return errors.New("user ID is required")
	}

	query := `
		INSERT INTO notes (id, title, content, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		note.ID, note.Title, note.Content, note.UserID, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		utils.TrackError("database", "note_creation_failed")
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// FindNote fetches by id alone. Ownership is checked by the service
// layer so a missing note and a foreign note stay distinguishable.
func (r *PostgresNoteRepo) FindNote(ctx context.Context, noteID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	query := `
		SELECT id, title, content, user_id, created_at, updated_at
		FROM notes
		WHERE id = $1`

	var note model.Note
	err := r.db.QueryRowContext(ctx, query, noteID).Scan(&note.ID, &note.Title,
		&note.Content, &note.UserID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		utils.TrackError("database", "note_lookup_error")
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &note, nil
}

func (r *PostgresNoteRepo) GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	query := `
		SELECT id, title, content, user_id, created_at, updated_at
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		utils.TrackError("database", "notes_fetch_failed")
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	notes := []*model.Note{}
	for rows.Next() {
		var note model.Note
		if err := rows.Scan(&note.ID, &note.Title, &note.Content, &note.UserID,
			&note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return notes, nil
}

func (r *PostgresNoteRepo) UpdateNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	query := `
		UPDATE notes
		SET title = $2, content = $3, updated_at = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		note.ID, note.Title, note.Content, note.UpdatedAt)
	if err != nil {
		utils.TrackError("database", "note_update_failed")
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *PostgresNoteRepo) DeleteNote(ctx context.Context, noteID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
	if err != nil {
		utils.TrackError("database", "note_deletion_failed")
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *PostgresNoteRepo) CountUserNotes(ctx context.Context, userID string) (int, error) {
	timer := utils.TrackDBOperation("count", "notes")
	defer timer.ObserveDuration()

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM notes WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}
