package handler

import (
	"errors"
	"log"
	"net/http"

	"main/dto"
	"main/middleware"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type NotesHandler struct {
	noteService *usecase.NoteService
}

func NewNotesHandler(noteService *usecase.NoteService) *NotesHandler {
	return &NotesHandler{noteService: noteService}
}

func (h *NotesHandler) CreateNote(c *gin.Context) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.CreateNote(c.Request.Context(), req, c.GetString(middleware.ContextUserID))
	if err != nil {
		log.Printf("Failed to create note: %v", err)
		utils.InternalError(c, "Failed to create note")
		return
	}

	c.JSON(http.StatusCreated, note)
}

func (h *NotesHandler) GetNotes(c *gin.Context) {
	notes, err := h.noteService.GetUserNotes(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		log.Printf("Failed to list notes: %v", err)
		utils.InternalError(c, "Failed to fetch notes")
		return
	}

	c.JSON(http.StatusOK, notes)
}

func (h *NotesHandler) GetNote(c *gin.Context) {
	note, err := h.noteService.GetNote(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

func (h *NotesHandler) UpdateNote(c *gin.Context) {
	var patch dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.UpdateNote(c.Request.Context(), c.Param("id"), patch, c.GetString(middleware.ContextUserID))
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

func (h *NotesHandler) DeleteNote(c *gin.Context) {
	err := h.noteService.DeleteNote(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		utils.NotFound(c, "Note not found")
	case errors.Is(err, model.ErrForbidden):
		utils.Forbidden(c, "Access denied")
	default:
		log.Printf("Note operation failed: %v", err)
		utils.InternalError(c, "Internal server error")
	}
}
