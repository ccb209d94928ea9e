package repository

import (
	"context"
	"sync"
	"time"

	"main/model"
)

// In-memory implementations backed by maps. They exist for tests and
// satisfy the same contracts as the postgres repositories, including
// duplicate-email detection.

type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]*model.User // keyed by id
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]*model.User)}
}

func (r *MemoryUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return model.ErrEmailExists
		}
	}

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *MemoryUserRepo) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryUserRepo) SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return model.ErrNotFound
	}
	user.TwoFactorSecret = secret
	user.TwoFactorEnabled = enabled
	user.UpdatedAt = time.Now()
	return nil
}

type MemoryNoteRepo struct {
	mu    sync.RWMutex
	notes map[string]*model.Note
	order []string // insertion order for GetUserNotes
}

func NewMemoryNoteRepo() *MemoryNoteRepo {
	return &MemoryNoteRepo{notes: make(map[string]*model.Note)}
}

func (r *MemoryNoteRepo) CreateNote(ctx context.Context, note *model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *note
	r.notes[note.ID] = &copied
	r.order = append(r.order, note.ID)
	return nil
}

func (r *MemoryNoteRepo) FindNote(ctx context.Context, noteID string) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[noteID]
	if !ok {
		return nil, nil
	}
	copied := *note
	return &copied, nil
}

func (r *MemoryNoteRepo) GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := []*model.Note{}
	for _, id := range r.order {
		if note, ok := r.notes[id]; ok && note.UserID == userID {
			copied := *note
			notes = append(notes, &copied)
		}
	}
	return notes, nil
}

func (r *MemoryNoteRepo) UpdateNote(ctx context.Context, note *model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.notes[note.ID]
	if !ok {
		return model.ErrNotFound
	}
	existing.Title = note.Title
	existing.Content = note.Content
	existing.UpdatedAt = note.UpdatedAt
	return nil
}

func (r *MemoryNoteRepo) DeleteNote(ctx context.Context, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[noteID]; !ok {
		return model.ErrNotFound
	}
	delete(r.notes, noteID)
	return nil
}

func (r *MemoryNoteRepo) CountUserNotes(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, note := range r.notes {
		if note.UserID == userID {
			count++
		}
	}
	return count, nil
}

type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *MemorySessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *session
	r.sessions[session.SessionID] = &copied
	return nil
}

func (r *MemorySessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *MemorySessionRepo) UpdateSession(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.sessions[session.SessionID]
	if !ok {
		return model.ErrSessionNotFound
	}
	existing.LastActivityAt = time.Now()
	existing.IsActive = session.IsActive
	existing.ExpiresAt = session.ExpiresAt
	return nil
}

func (r *MemorySessionRepo) DeleteSession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return model.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

func (r *MemorySessionRepo) GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := []*model.Session{}
	for _, session := range r.sessions {
		if session.UserID == userID && session.IsActive && !session.Expired() {
			copied := *session
			sessions = append(sessions, &copied)
		}
	}
	return sessions, nil
}

func (r *MemorySessionRepo) DeleteUserSessions(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *MemorySessionRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	sessions, err := r.GetUserActiveSessions(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(sessions), nil
}
