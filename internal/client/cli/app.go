package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/notekeeper/internal/client/api"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/session"
	"github.com/dmitrijs2005/notekeeper/internal/filex"
	"github.com/dmitrijs2005/notekeeper/internal/netx"
)

const sessionFile = "session.db"

// Messages the server sends with 403 when the token itself is refused, as
// opposed to an ownership failure.
var tokenRejected = map[string]bool{"Token expired": true, "Invalid token": true}

// Client is the part of api.Client the commands use.
type Client interface {
	Ping(ctx context.Context) error
	SetToken(token string)
	Register(ctx context.Context, req api.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	Me(ctx context.Context) (*models.User, error)
	AddNote(ctx context.Context, d models.NoteDraft) (*models.Note, error)
	AddNoteWithFile(ctx context.Context, d models.NoteDraft, path string) (*models.Note, error)
	EditNote(ctx context.Context, id string, e models.NoteEdit) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context) ([]*models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	SearchNotes(ctx context.Context, query string) ([]*models.Note, error)
}

// SessionStore persists the login between runs.
type SessionStore interface {
	Load(ctx context.Context) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
	Clear(ctx context.Context) error
	Close() error
}

type App struct {
	api     Client
	store   SessionStore
	session session.Session
	reader  *bufio.Reader
	out     io.Writer

	// fetch saves an attachment URL to a local path.
	fetch func(ctx context.Context, url, path string) error
}

// NewApp opens the session file under c.SessionDir and restores any saved
// login.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	dir, err := filex.EnsureDir(c.SessionDir)
	if err != nil {
		return nil, err
	}

	store, err := session.Open(ctx, filepath.Join(dir, sessionFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing session store: %w", err)
	}

	app := newApp(api.New(c.ServerURL, c.RequestTimeout), store, os.Stdin, os.Stdout)
	httpClient := &http.Client{Timeout: c.RequestTimeout}
	app.fetch = func(ctx context.Context, url, path string) error {
		return netx.Download(ctx, httpClient, url, path)
	}
	if err := app.restore(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

func newApp(client Client, store SessionStore, in io.Reader, out io.Writer) *App {
	return &App{
		api:    client,
		store:  store,
		reader: bufio.NewReader(in),
		out:    out,
		fetch: func(ctx context.Context, url, path string) error {
			return netx.Download(ctx, http.DefaultClient, url, path)
		},
	}
}

func (a *App) restore(ctx context.Context) error {
	s, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	a.session = s
	a.api.SetToken(s.Token)
	return nil
}

// Run checks the server and starts the REPL. The session store is closed on
// return.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	if err := a.api.Ping(ctx); err != nil {
		a.fail(err)
	}
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.session.Email
	}
	return "guest"
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// fail reports err to the user. Server messages are shown as sent.
func (a *App) fail(err error) {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		a.println("Error:", apiErr.Message)
	case errors.Is(err, api.ErrUnavailable):
		a.println("Error: server unavailable")
	default:
		a.println("Error:", err.Error())
	}
}

// expired drops a session the server no longer accepts.
func (a *App) expired(ctx context.Context, err error) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return
	}
	switch {
	case apiErr.Status == http.StatusUnauthorized:
	case apiErr.Status == http.StatusForbidden && tokenRejected[apiErr.Message]:
	default:
		return
	}
	a.println("Session expired, please login again")
	_ = a.logout(ctx)
}

func (a *App) startSession(ctx context.Context, token, email string) error {
	s := session.Session{Token: token, Email: email}
	if err := a.store.Save(ctx, s); err != nil {
		return err
	}
	a.session = s
	a.api.SetToken(token)
	return nil
}

func (a *App) logout(ctx context.Context) error {
	a.session = session.Session{}
	a.api.SetToken("")
	return a.store.Clear(ctx)
}
