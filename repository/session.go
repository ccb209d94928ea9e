package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"main/model"
	"main/services"
	"main/utils"
)

type PostgresSessionRepo struct {
	db *sql.DB
}

func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

func (r *PostgresSessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	if session == nil {
		utils.TrackError("database", "nil_session")
		return fmt.Errorf("session cannot be nil")
	}
	if session.SessionID == "" || session.UserID == "" {
		utils.TrackError("database", "invalid_session_data")
		return fmt.Errorf("invalid session data: missing required fields")
	}

	query := `
		INSERT INTO sessions (session_id, user_id, created_at, expires_at,
		                      last_activity_at, device_info, ip_address, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		session.SessionID, session.UserID, session.CreatedAt, session.ExpiresAt,
		session.LastActivityAt, session.DeviceInfo, session.IPAddress, session.IsActive)
	if err != nil {
		utils.TrackError("database", "session_creation_failed")
		return fmt.Errorf("failed to create session: %w", err)
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(ctx, session); err != nil {
			utils.TrackError("cache", "session_cache_set_failed")
			log.Printf("Warning: Failed to cache session: %v", err)
		}
	}

	return nil
}

func (r *PostgresSessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	if sessionID == "" {
		return nil, fmt.Errorf("sessionID cannot be empty")
	}

	if services.GlobalSessionCache != nil {
		if session, err := services.GlobalSessionCache.GetSession(ctx, sessionID); err == nil && session != nil {
			utils.TrackCacheOperation("session", true)
			return session, nil
		}
		utils.TrackCacheOperation("session", false)
	}

	query := `
		SELECT session_id, user_id, created_at, expires_at,
		       last_activity_at, device_info, ip_address, is_active
		FROM sessions
		WHERE session_id = $1`

	var session model.Session
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&session.SessionID,
		&session.UserID, &session.CreatedAt, &session.ExpiresAt,
		&session.LastActivityAt, &session.DeviceInfo, &session.IPAddress,
		&session.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		utils.TrackError("database", "session_fetch_failed")
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(ctx, &session); err != nil {
			log.Printf("Warning: Failed to cache session: %v", err)
		}
	}

	return &session, nil
}

func (r *PostgresSessionRepo) UpdateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	query := `
		UPDATE sessions
		SET last_activity_at = $2, is_active = $3, expires_at = $4
		WHERE session_id = $1`

	result, err := r.db.ExecContext(ctx, query,
		session.SessionID, time.Now(), session.IsActive, session.ExpiresAt)
	if err != nil {
		utils.TrackError("database", "session_update_failed")
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if rows == 0 {
		return model.ErrSessionNotFound
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(ctx, session); err != nil {
			log.Printf("Warning: Failed to update session cache: %v", err)
		}
	}

	return nil
}

func (r *PostgresSessionRepo) DeleteSession(ctx context.Context, sessionID string) error {
	timer := utils.TrackDBOperation("delete", "sessions")
	defer timer.ObserveDuration()

	if sessionID == "" {
		return fmt.Errorf("sessionID cannot be empty")
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		utils.TrackError("database", "session_deletion_failed")
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if rows == 0 {
		return model.ErrSessionNotFound
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.DeleteSession(ctx, sessionID); err != nil {
			utils.TrackError("cache", "session_cache_delete_failed")
			log.Printf("Warning: Failed to remove session from cache: %v", err)
		}
	}

	return nil
}

func (r *PostgresSessionRepo) GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	query := `
		SELECT session_id, user_id, created_at, expires_at,
		       last_activity_at, device_info, ip_address, is_active
		FROM sessions
		WHERE user_id = $1 AND is_active = true AND expires_at > now()
		ORDER BY last_activity_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		utils.TrackError("database", "sessions_fetch_failed")
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*model.Session{}
	for rows.Next() {
		var session model.Session
		if err := rows.Scan(&session.SessionID, &session.UserID, &session.CreatedAt,
			&session.ExpiresAt, &session.LastActivityAt, &session.DeviceInfo,
			&session.IPAddress, &session.IsActive); err != nil {
			return nil, fmt.Errorf("failed to fetch sessions: %w", err)
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	return sessions, nil
}

func (r *PostgresSessionRepo) DeleteUserSessions(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "sessions")
	defer timer.ObserveDuration()

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		utils.TrackError("database", "sessions_deletion_failed")
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.DeleteUserSessions(ctx, userID); err != nil {
			log.Printf("Warning: Failed to clear session cache: %v", err)
		}
	}

	return nil
}

func (r *PostgresSessionRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	timer := utils.TrackDBOperation("count", "sessions")
	defer timer.ObserveDuration()

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sessions WHERE user_id = $1 AND is_active = true AND expires_at > now()`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}
