package usecase

import (
	"context"
	"time"

	"main/dto"
	"main/model"
	"main/repository"
	"main/utils"
)

type NoteService struct {
	NotesRepo repository.NoteRepository
}

func (svc *NoteService) CreateNote(ctx context.Context, req dto.CreateNoteRequest, ownerID string) (*model.Note, error) {
	now := time.Now()
	note := &model.Note{
		ID:        utils.GenerateID(),
		Title:     req.Title,
		Content:   req.Content,
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := svc.NotesRepo.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("create")
	return note, nil
}

func (svc *NoteService) GetUserNotes(ctx context.Context, ownerID string) ([]*model.Note, error) {
	return svc.NotesRepo.GetUserNotes(ctx, ownerID)
}

// GetNote fetches a note and enforces ownership. A missing note is
// ErrNotFound; an existing note owned by someone else is ErrForbidden.
// The two outcomes stay distinct: existence is not secret, content is.
func (svc *NoteService) GetNote(ctx context.Context, noteID, ownerID string) (*model.Note, error) {
	note, err := svc.NotesRepo.FindNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, model.ErrNotFound
	}
	if note.UserID != ownerID {
		return nil, model.ErrForbidden
	}
	return note, nil
}

// UpdateNote merges only the fields present in the patch onto the
// stored note. Absent fields are untouched.
func (svc *NoteService) UpdateNote(ctx context.Context, noteID string, patch dto.UpdateNoteRequest, ownerID string) (*model.Note, error) {
	note, err := svc.GetNote(ctx, noteID, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	note.UpdatedAt = time.Now()

	if err := svc.NotesRepo.UpdateNote(ctx, note); err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("update")
	return note, nil
}

func (svc *NoteService) DeleteNote(ctx context.Context, noteID, ownerID string) error {
	if _, err := svc.GetNote(ctx, noteID, ownerID); err != nil {
		return err
	}

	if err := svc.NotesRepo.DeleteNote(ctx, noteID); err != nil {
		return err
	}

	utils.TrackNoteOperation("delete")
	return nil
}
