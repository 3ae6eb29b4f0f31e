package handler

import (
	"errors"

	"notevault/dto"
	"notevault/middleware"
	"notevault/repository"
	"notevault/usecase"
	"notevault/utils"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	Notes *usecase.NoteService
}

func NewNoteHandler(notes *usecase.NoteService) *NoteHandler {
	return &NoteHandler{Notes: notes}
}

// ListNotes returns every note owned by the caller.
func (h *NoteHandler) ListNotes(c *gin.Context) {
	username := c.GetString(middleware.UsernameKey)

	notes, err := h.Notes.ListNotes(c.Request.Context(), username)
	if err != nil {
		utils.InternalError(c, "failed to list notes")
		return
	}

	utils.Success(c, dto.ToNoteResponses(notes))
}

// GetNote returns a single owned note. Notes owned by other users are
// indistinguishable from missing ones.
func (h *NoteHandler) GetNote(c *gin.Context) {
	username := c.GetString(middleware.UsernameKey)
	noteID := c.Param("id")

	note, err := h.Notes.GetNote(c.Request.Context(), username, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			utils.NotFound(c, "Note not found!")
			return
		}
		utils.InternalError(c, "failed to fetch note")
		return
	}

	utils.Success(c, dto.ToNoteResponse(note))
}

// CreateNote persists a new note for the caller. Both fields may be
// omitted.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	username := c.GetString(middleware.UsernameKey)

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}

	note, err := h.Notes.CreateNote(c.Request.Context(), username, req.Title, req.Body)
	if err != nil {
		if errors.Is(err, repository.ErrNoteConflict) {
			utils.Conflict(c, "note id already exists")
			return
		}
		utils.InternalError(c, "failed to create note")
		return
	}

	utils.Created(c, dto.ToNoteResponse(note))
}

// ReplaceNote is the full update. Fields left out of the body keep
// their stored values, so it shares the patch merge.
func (h *NoteHandler) ReplaceNote(c *gin.Context) {
	h.applyPatch(c)
}

// PatchNote applies only the fields present in the request body.
func (h *NoteHandler) PatchNote(c *gin.Context) {
	h.applyPatch(c)
}

func (h *NoteHandler) applyPatch(c *gin.Context) {
	username := c.GetString(middleware.UsernameKey)
	noteID := c.Param("id")

	var patch dto.NotePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}

	note, err := h.Notes.UpdateNote(c.Request.Context(), username, noteID, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoteNotFound):
			utils.NotFound(c, "Note not found!")
		case errors.Is(err, dto.ErrFieldTooLong):
			utils.BadRequest(c, "field exceeds maximum length")
		default:
			utils.InternalError(c, "failed to update note")
		}
		return
	}

	utils.Success(c, dto.ToNoteResponse(note))
}

// DeleteNote removes an owned note. A second delete of the same id is a
// plain 404.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	username := c.GetString(middleware.UsernameKey)
	noteID := c.Param("id")

	err := h.Notes.DeleteNote(c.Request.Context(), username, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			utils.NotFound(c, "Note not found!")
			return
		}
		utils.InternalError(c, "failed to delete note")
		return
	}

	utils.Success(c, dto.DeleteResponse{Result: "Deleted note successfully!"})
}
