package dto

import (
	"errors"
	"time"

	"notevault/model"
)

// Field limits shared by creation, update and CSV import payloads.
const (
	MaxTitleLen = 100
	MaxBodyLen  = 500
)

var ErrFieldTooLong = errors.New("field exceeds maximum length")

// CreateNoteRequest allows both fields to be omitted; absent fields are
// stored as empty strings.
type CreateNoteRequest struct {
	Title string `json:"title" binding:"max=100"`
	Body  string `json:"body" binding:"max=500"`
}

type NoteResponse struct {
	UUID      string    `json:"uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
}

type DeleteResponse struct {
	Result string `json:"result"`
}

type UploadResponse struct {
	Result string `json:"result"`
}

func ToNoteResponse(note *model.Note) NoteResponse {
	return NoteResponse{
		UUID:      note.UUID,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
		Title:     note.Title,
		Body:      note.Body,
	}
}

func ToNoteResponses(notes []*model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note)
	}
	return responses
}
