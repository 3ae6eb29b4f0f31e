package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"notevault/dto"
	"notevault/model"
	"notevault/repository"
	"notevault/services"
	"notevault/utils"

	"github.com/google/uuid"
)

// ErrMalformedImport is returned when any row of an uploaded file fails
// to parse or validate. The whole batch is rejected, there is no
// partial-success reporting.
var ErrMalformedImport = errors.New("malformed import file")

// NoteStore is the persistence surface for note rows.
type NoteStore interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, id string) (*model.Note, error)
	ListByIDs(ctx context.Context, ids []string) ([]*model.Note, error)
	Replace(ctx context.Context, id string, patch dto.NotePatch, updatedAt time.Time) (*model.Note, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// OwnershipRegistry is the sole authorization source for notes.
type OwnershipRegistry interface {
	Add(ctx context.Context, entry *model.OwnershipEntry) error
	ListNoteIDs(ctx context.Context, username string) ([]string, error)
	Owns(ctx context.Context, username, noteID string) (bool, error)
	Remove(ctx context.Context, noteID string) error
}

// TxRunner executes fn atomically. Note and registry writes always go
// through it together so neither can land without the other.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type NoteService struct {
	Notes    NoteStore
	Registry OwnershipRegistry
	Tx       TxRunner
	Cache    *services.NoteCache
}

// CreateNote persists a fresh note and its ownership entry in one
// transaction. Absent title or body are stored as empty strings.
func (s *NoteService) CreateNote(ctx context.Context, username, title, body string) (*model.Note, error) {
	now := time.Now().UTC()
	note := &model.Note{
		UUID:      uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		Body:      body,
	}

	err := s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Notes.Create(txCtx, note); err != nil {
			return err
		}
		return s.Registry.Add(txCtx, &model.OwnershipEntry{
			Username: username,
			NoteID:   note.UUID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, username)
	utils.TrackNoteOperation("create")
	return note, nil
}

// GetNote fetches a note by id, scoped to the caller. A note owned by
// someone else reads as not found so ids cannot be probed.
func (s *NoteService) GetNote(ctx context.Context, username, noteID string) (*model.Note, error) {
	owns, err := s.Registry.Owns(ctx, username, noteID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, repository.ErrNoteNotFound
	}

	return s.Notes.GetByID(ctx, noteID)
}

// ListNotes returns every note the caller owns, newest first. Ids in
// the registry with no matching note row are skipped.
func (s *NoteService) ListNotes(ctx context.Context, username string) ([]*model.Note, error) {
	if notes, ok := s.Cache.GetNoteList(ctx, username); ok {
		return notes, nil
	}

	ids, err := s.Registry.ListNoteIDs(ctx, username)
	if err != nil {
		return nil, err
	}

	notes, err := s.Notes.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	s.Cache.SetNoteList(ctx, username, notes)
	return notes, nil
}

// UpdateNote applies a patch to an owned note. Unset or null fields
// keep their stored values; updated_at is always refreshed. Used by
// both the full-update and partial-patch endpoints.
func (s *NoteService) UpdateNote(ctx context.Context, username, noteID string, patch dto.NotePatch) (*model.Note, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	owns, err := s.Registry.Owns(ctx, username, noteID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, repository.ErrNoteNotFound
	}

	note, err := s.Notes.Replace(ctx, noteID, patch, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, username)
	utils.TrackNoteOperation("update")
	return note, nil
}

// DeleteNote removes a note and its ownership entry in one
// transaction. Deleting an already-deleted note is a plain not-found.
func (s *NoteService) DeleteNote(ctx context.Context, username, noteID string) error {
	owns, err := s.Registry.Owns(ctx, username, noteID)
	if err != nil {
		return err
	}
	if !owns {
		return repository.ErrNoteNotFound
	}

	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		deleted, err := s.Notes.Delete(txCtx, noteID)
		if err != nil {
			return err
		}
		if !deleted {
			return repository.ErrNoteNotFound
		}
		return s.Registry.Remove(txCtx, noteID)
	})
	if err != nil {
		return err
	}

	s.Cache.Invalidate(ctx, username)
	utils.TrackNoteOperation("delete")
	return nil
}

// ImportCSV creates one note per row of a file with title,body header
// columns. The whole batch runs in a single transaction: a bad row
// rolls everything back, so a failed import creates exactly zero notes.
func (s *NoteService) ImportCSV(ctx context.Context, username string, file io.Reader) (int, error) {
	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return 0, ErrMalformedImport
	}

	titleCol, bodyCol := -1, -1
	for i, name := range header {
		switch name {
		case "title":
			titleCol = i
		case "body":
			bodyCol = i
		}
	}
	if titleCol < 0 || bodyCol < 0 {
		return 0, ErrMalformedImport
	}

	type csvRow struct {
		Title string `validate:"max=100"`
		Body  string `validate:"max=500"`
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, ErrMalformedImport
		}

		row := csvRow{Title: record[titleCol], Body: record[bodyCol]}
		if err := utils.Validate.Struct(row); err != nil {
			return 0, ErrMalformedImport
		}
		rows = append(rows, row)
	}

	now := time.Now().UTC()
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, row := range rows {
			note := &model.Note{
				UUID:      uuid.NewString(),
				CreatedAt: now,
				UpdatedAt: now,
				Title:     row.Title,
				Body:      row.Body,
			}
			if err := s.Notes.Create(txCtx, note); err != nil {
				return err
			}
			entry := &model.OwnershipEntry{Username: username, NoteID: note.UUID}
			if err := s.Registry.Add(txCtx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import failed: %w", err)
	}

	s.Cache.Invalidate(ctx, username)
	utils.TrackNoteOperation("import")
	return len(rows), nil
}
