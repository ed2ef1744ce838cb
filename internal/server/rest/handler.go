package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type NoteService interface {
	Add(ctx context.Context, owner *models.User, in services.NewNote) (*models.Note, error)
	Edit(ctx context.Context, owner *models.User, noteID string, upd models.NoteUpdate) (*models.Note, error)
	Delete(ctx context.Context, owner *models.User, noteID string) error
	Get(ctx context.Context, noteID string) (*models.Note, error)
	List(ctx context.Context) ([]*models.Note, error)
	Search(ctx context.Context, query string) ([]*models.Note, error)
}

type Handler struct {
	users         UserService
	notes         NoteService
	log           logging.Logger
	maxUploadSize int64
}

func NewHandler(users UserService, notes NoteService, log logging.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		users:         users,
		notes:         notes,
		log:           log.With("module", "http"),
		maxUploadSize: maxUploadSize,
	}
}

type createAccountRequest struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RegistrationType string `json:"registrationType"`
}

type createAccountResponse struct {
	Error       bool         `json:"error"`
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	Message     string       `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Error       bool        `json:"error"`
	AccessToken string      `json:"accessToken"`
	Role        models.Role `json:"role"`
	Message     string      `json:"message"`
}

type addNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type editNoteRequest struct {
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Tags     []string `json:"tags"`
	IsPinned *bool    `json:"isPinned"`
}

type noteResponse struct {
	Error   bool         `json:"error"`
	Note    *models.Note `json:"note"`
	Message string       `json:"message"`
}

type notesResponse struct {
	Error   bool           `json:"error"`
	Notes   []*models.Note `json:"notes"`
	Message string         `json:"message"`
}

type userResponse struct {
	Error   bool         `json:"error"`
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

func (h *Handler) hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"data": "hello"})
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	user, token, err := h.users.Register(r.Context(), services.RegisterInput{
		FullName:         req.FullName,
		Email:            req.Email,
		Password:         req.Password,
		RegistrationType: req.RegistrationType,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, createAccountResponse{
		User:        user,
		AccessToken: token,
		Message:     "Registration successful",
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: res.AccessToken,
		Role:        res.Role,
		Message:     "Login successful",
	})
}

// addNote accepts either a JSON body or a multipart form with an optional
// "file" part.
func (h *Handler) addNote(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.IdentityFromContext(r.Context())

	var (
		in  services.NewNote
		err error
	)
	if isMultipart(r) {
		var cleanup func()
		in, cleanup, err = h.parseNoteForm(w, r)
		if cleanup != nil {
			defer cleanup()
		}
	} else {
		var req addNoteRequest
		err = h.decodeJSON(w, r, &req)
		in = services.NewNote{Title: req.Title, Content: req.Content, Tags: req.Tags}
	}
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	note, err := h.notes.Add(r.Context(), user, in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{Note: note, Message: "Note added successfully"})
}

func (h *Handler) editNote(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.IdentityFromContext(r.Context())

	var req editNoteRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	note, err := h.notes.Edit(r.Context(), user, chi.URLParam(r, "noteId"), models.NoteUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{Note: note, Message: "Note updated successfully"})
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.IdentityFromContext(r.Context())

	if err := h.notes.Delete(r.Context(), user, chi.URLParam(r, "noteId")); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, errorResponse{Error: false, Message: "Note deleted successfully"})
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{Notes: notes, Message: "All notes retrieved successfully"})
}

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{Note: note, Message: "Note retrieved successfully"})
}

func (h *Handler) searchNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if len(notes) == 0 {
		writeJSON(w, http.StatusNotFound, notesResponse{
			Error:   true,
			Notes:   []*models.Note{},
			Message: "No matching notes found",
		})
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{Notes: notes, Message: "Notes matching the search query retrieved successfully"})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, common.ErrorUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user, Message: ""})
}

// decodeJSON reads a size-limited JSON body into v. An empty body leaves v
// untouched so field validation reports what is missing.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case isTooLarge(err):
		return common.NewValidationError("Request body too large")
	default:
		return common.NewValidationError("Invalid request body")
	}
}

func (h *Handler) parseNoteForm(w http.ResponseWriter, r *http.Request) (services.NewNote, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			return services.NewNote{}, nil, common.NewValidationError("Request body too large")
		}
		return services.NewNote{}, nil, common.NewValidationError("Invalid multipart form")
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	tags, err := parseTags(r.MultipartForm.Value["tags"])
	if err != nil {
		return services.NewNote{}, cleanup, err
	}

	in := services.NewNote{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Tags:    tags,
	}

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return in, cleanup, nil
	case err != nil:
		return services.NewNote{}, cleanup, common.NewValidationError("Invalid file upload")
	}

	in.Attachment = &models.Attachment{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return in, func() {
		_ = file.Close()
		cleanup()
	}, nil
}

// parseTags accepts repeated form values or a single JSON array.
func parseTags(values []string) ([]string, error) {
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var tags []string
		if err := json.Unmarshal([]byte(values[0]), &tags); err != nil {
			return nil, common.NewValidationError("tags must be a JSON array of strings")
		}
		return tags, nil
	}

	tags := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			tags = append(tags, v)
		}
	}
	return tags, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
