package usecase

import (
	"context"
	"time"

	"notevault/dto"
	"notevault/model"
	"notevault/repository"
)

type fakeCredentialStore struct {
	users map[string]*model.User
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{users: make(map[string]*model.User)}
}

func (f *fakeCredentialStore) AddUser(_ context.Context, user *model.User) error {
	if _, exists := f.users[user.Username]; exists {
		return repository.ErrDuplicateUser
	}
	stored := *user
	f.users[user.Username] = &stored
	return nil
}

func (f *fakeCredentialStore) FindUserByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

type fakeNoteStore struct {
	notes map[string]*model.Note
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[string]*model.Note)}
}

func (f *fakeNoteStore) Create(_ context.Context, note *model.Note) error {
	if _, exists := f.notes[note.UUID]; exists {
		return repository.ErrNoteConflict
	}
	stored := *note
	f.notes[note.UUID] = &stored
	return nil
}

func (f *fakeNoteStore) GetByID(_ context.Context, id string) (*model.Note, error) {
	note, ok := f.notes[id]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	found := *note
	return &found, nil
}

func (f *fakeNoteStore) ListByIDs(_ context.Context, ids []string) ([]*model.Note, error) {
	notes := []*model.Note{}
	for _, id := range ids {
		if note, ok := f.notes[id]; ok {
			found := *note
			notes = append(notes, &found)
		}
	}
	return notes, nil
}

func (f *fakeNoteStore) Replace(_ context.Context, id string, patch dto.NotePatch, updatedAt time.Time) (*model.Note, error) {
	note, ok := f.notes[id]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	if patch.Title.Set() {
		note.Title = patch.Title.Value
	}
	if patch.Body.Set() {
		note.Body = patch.Body.Value
	}
	note.UpdatedAt = updatedAt
	updated := *note
	return &updated, nil
}

func (f *fakeNoteStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.notes[id]; !ok {
		return false, nil
	}
	delete(f.notes, id)
	return true, nil
}

type fakeRegistry struct {
	owners map[string]string // note id -> username
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{owners: make(map[string]string)}
}

func (f *fakeRegistry) Add(_ context.Context, entry *model.OwnershipEntry) error {
	f.owners[entry.NoteID] = entry.Username
	return nil
}

func (f *fakeRegistry) ListNoteIDs(_ context.Context, username string) ([]string, error) {
	var ids []string
	for noteID, owner := range f.owners {
		if owner == username {
			ids = append(ids, noteID)
		}
	}
	return ids, nil
}

func (f *fakeRegistry) Owns(_ context.Context, username, noteID string) (bool, error) {
	return f.owners[noteID] == username, nil
}

func (f *fakeRegistry) Remove(_ context.Context, noteID string) error {
	delete(f.owners, noteID)
	return nil
}

// fakeTxRunner runs the function directly; atomicity is the real
// runner's concern.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestNoteService() (*NoteService, *fakeNoteStore, *fakeRegistry) {
	notes := newFakeNoteStore()
	registry := newFakeRegistry()
	svc := &NoteService{
		Notes:    notes,
		Registry: registry,
		Tx:       fakeTxRunner{},
	}
	return svc, notes, registry
}
