package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"notevault/config"
	"notevault/dto"
	"notevault/middleware"
	"notevault/model"
	"notevault/repository"
	"notevault/services"
	"notevault/usecase"

	"github.com/gin-gonic/gin"
)

// In-memory stores backing the full handler stack.

type memUserStore struct {
	users map[string]*model.User
}

func (m *memUserStore) AddUser(_ context.Context, user *model.User) error {
	if _, exists := m.users[user.Username]; exists {
		return repository.ErrDuplicateUser
	}
	stored := *user
	m.users[user.Username] = &stored
	return nil
}

func (m *memUserStore) FindUserByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

type memNoteStore struct {
	notes map[string]*model.Note
}

func (m *memNoteStore) Create(_ context.Context, note *model.Note) error {
	if _, exists := m.notes[note.UUID]; exists {
		return repository.ErrNoteConflict
	}
	stored := *note
	m.notes[note.UUID] = &stored
	return nil
}

func (m *memNoteStore) GetByID(_ context.Context, id string) (*model.Note, error) {
	note, ok := m.notes[id]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	found := *note
	return &found, nil
}

func (m *memNoteStore) ListByIDs(_ context.Context, ids []string) ([]*model.Note, error) {
	notes := []*model.Note{}
	for _, id := range ids {
		if note, ok := m.notes[id]; ok {
			found := *note
			notes = append(notes, &found)
		}
	}
	return notes, nil
}

func (m *memNoteStore) Replace(_ context.Context, id string, patch dto.NotePatch, updatedAt time.Time) (*model.Note, error) {
	note, ok := m.notes[id]
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

func (m *memNoteStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.notes[id]; !ok {
		return false, nil
	}
	delete(m.notes, id)
	return true, nil
}

type memRegistry struct {
	owners map[string]string
}

func (m *memRegistry) Add(_ context.Context, entry *model.OwnershipEntry) error {
	m.owners[entry.NoteID] = entry.Username
	return nil
}

func (m *memRegistry) ListNoteIDs(_ context.Context, username string) ([]string, error) {
	var ids []string
	for noteID, owner := range m.owners {
		if owner == username {
			ids = append(ids, noteID)
		}
	}
	return ids, nil
}

func (m *memRegistry) Owns(_ context.Context, username, noteID string) (bool, error) {
	return m.owners[noteID] == username, nil
}

func (m *memRegistry) Remove(_ context.Context, noteID string) error {
	delete(m.owners, noteID)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := services.NewTokenService(config.AuthConfig{
		JWTSecretKey: "handler-test-secret-key-32-chars",
		JWTAlgorithm: "HS256",
		TokenTTL:     15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	userService := &usecase.UserService{
		Users: &memUserStore{users: make(map[string]*model.User)},
	}
	noteService := &usecase.NoteService{
		Notes:    &memNoteStore{notes: make(map[string]*model.Note)},
		Registry: &memRegistry{owners: make(map[string]string)},
		Tx:       passthroughTx{},
	}

	userHandler := NewUserHandler(userService)
	tokenHandler := NewTokenHandler(userService, tokens)
	noteHandler := NewNoteHandler(noteService)

	router := gin.New()
	router.POST("/register/", userHandler.Register)
	router.POST("/token", tokenHandler.Token)

	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		notes := protected.Group("/notes")
		{
			notes.GET("/", noteHandler.ListNotes)
			notes.GET("/:id", noteHandler.GetNote)
			notes.POST("/", noteHandler.CreateNote)
			notes.PUT("/:id", noteHandler.ReplaceNote)
			notes.PATCH("/:id", noteHandler.PatchNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
		}
		protected.POST("/upload_csv", noteHandler.UploadCSV)
	}

	return router
}

func doJSON(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/register/", "",
		`{"username": "`+username+`", "password": "`+password+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("token returned %d: %s", w.Code, w.Body.String())
	}

	var resp dto.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse token response: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("token_type = %q, want bearer", resp.TokenType)
	}
	return resp.AccessToken
}

func TestRegisterDuplicate(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/register/", "",
		`{"username": "alice", "password": "pw1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("first register returned %d", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/register/", "",
		`{"username": "alice", "password": "pw1"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register returned %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestTokenRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router, "alice", "pw1")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "alice", password: "wrong"},
		{name: "unknown user", username: "mallory", password: "pw1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"username": {tt.username}, "password": {tt.password}}
			req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("token returned %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage token", token: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodGet, "/notes/", tt.token, "")
			if w.Code != http.StatusUnauthorized {
				t.Errorf("GET /notes/ returned %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

// TestCreateAndListScenario walks the register, login, create, list
// flow end to end.
func TestCreateAndListScenario(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "pw1")

	w := doJSON(router, http.MethodPost, "/notes/", token, `{"title": "A", "body": "B"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create note returned %d: %s", w.Code, w.Body.String())
	}

	var created dto.NoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse create response: %v", err)
	}
	if created.UUID == "" {
		t.Fatal("created note has no uuid")
	}
	if created.Title != "A" || created.Body != "B" {
		t.Errorf("created note = %q/%q, want A/B", created.Title, created.Body)
	}

	w = doJSON(router, http.MethodGet, "/notes/", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list notes returned %d", w.Code)
	}

	var listed []dto.NoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to parse list response: %v", err)
	}
	if len(listed) != 1 || listed[0].UUID != created.UUID {
		t.Errorf("list = %+v, want exactly the created note", listed)
	}
}

func TestGetNoteScoping(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice", "pw1")
	bobToken := registerAndLogin(t, router, "bob", "pw2")

	w := doJSON(router, http.MethodPost, "/notes/", aliceToken, `{"title": "private"}`)
	var created dto.NoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse create response: %v", err)
	}

	// Owner can fetch it.
	w = doJSON(router, http.MethodGet, "/notes/"+created.UUID, aliceToken, "")
	if w.Code != http.StatusOK {
		t.Errorf("owner get returned %d, want %d", w.Code, http.StatusOK)
	}

	// Anyone else sees a 404, same as a missing id.
	w = doJSON(router, http.MethodGet, "/notes/"+created.UUID, bobToken, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-user get returned %d, want %d", w.Code, http.StatusNotFound)
	}

	w = doJSON(router, http.MethodGet, "/notes/no-such-id", aliceToken, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing id get returned %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestReplacePatchDeleteFlow(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "pw1")

	w := doJSON(router, http.MethodPost, "/notes/", token, `{"title": "t0", "body": "b0"}`)
	var created dto.NoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse create response: %v", err)
	}

	// PUT with only title keeps the body.
	w = doJSON(router, http.MethodPut, "/notes/"+created.UUID, token, `{"title": "t1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("replace returned %d: %s", w.Code, w.Body.String())
	}
	var updated dto.NoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to parse replace response: %v", err)
	}
	if updated.Title != "t1" || updated.Body != "b0" {
		t.Errorf("after PUT got %q/%q, want t1/b0", updated.Title, updated.Body)
	}

	// PATCH with only body keeps the title.
	w = doJSON(router, http.MethodPatch, "/notes/"+created.UUID, token, `{"body": "b1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("patch returned %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to parse patch response: %v", err)
	}
	if updated.Title != "t1" || updated.Body != "b1" {
		t.Errorf("after PATCH got %q/%q, want t1/b1", updated.Title, updated.Body)
	}

	// Delete, then the note is gone and a repeat delete is a 404.
	w = doJSON(router, http.MethodDelete, "/notes/"+created.UUID, token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete returned %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(router, http.MethodGet, "/notes/"+created.UUID, token, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete returned %d, want 404", w.Code)
	}
	w = doJSON(router, http.MethodDelete, "/notes/"+created.UUID, token, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete returned %d, want 404", w.Code)
	}
}

func uploadCSV(t *testing.T, router *gin.Engine, token, contents string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("csv_file", "notes.csv")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatalf("failed to write csv part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload_csv", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadCSV(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "pw1")

	w := uploadCSV(t, router, token, "title,body\na,1\nb,2\nc,3\n")
	if w.Code != http.StatusCreated {
		t.Fatalf("upload returned %d: %s", w.Code, w.Body.String())
	}

	var resp dto.UploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse upload response: %v", err)
	}
	if !strings.HasPrefix(resp.Result, "3 notes uploaded") {
		t.Errorf("result = %q, want 3 notes uploaded prefix", resp.Result)
	}

	w = doJSON(router, http.MethodGet, "/notes/", token, "")
	var listed []dto.NoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to parse list response: %v", err)
	}
	if len(listed) != 3 {
		t.Errorf("list after import has %d notes, want 3", len(listed))
	}
}

func TestUploadCSVMalformed(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "pw1")

	w := uploadCSV(t, router, token, "title,body\nok,fine\nragged,row,extra\n")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("malformed upload returned %d, want %d", w.Code, http.StatusUnauthorized)
	}

	// The failed batch created nothing.
	w = doJSON(router, http.MethodGet, "/notes/", token, "")
	var listed []dto.NoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to parse list response: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("list after failed import has %d notes, want 0", len(listed))
	}
}
