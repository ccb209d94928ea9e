package repository

import (
	"context"

	"main/model"
)

// Lookup methods return (nil, nil) when no row matches; callers decide
// whether a miss is an error.

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUser(ctx context.Context, userID string) (*model.User, error)
	SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error
}

type NoteRepository interface {
	CreateNote(ctx context.Context, note *model.Note) error
	FindNote(ctx context.Context, noteID string) (*model.Note, error)
	GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, noteID string) error
	CountUserNotes(ctx context.Context, userID string) (int, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	UpdateSession(ctx context.Context, session *model.Session) error
	DeleteSession(ctx context.Context, sessionID string) error
	GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error)
	DeleteUserSessions(ctx context.Context, userID string) error
	CountActiveSessions(ctx context.Context, userID string) (int, error)
}
