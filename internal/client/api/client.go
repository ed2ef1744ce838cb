// Package api is a typed client for the notekeeper HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// Client calls the API at baseURL. It is safe for concurrent use once the
// token has been set.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

type envelope struct {
	Error       bool           `json:"error"`
	Message     string         `json:"message"`
	AccessToken string         `json:"accessToken"`
	Role        string         `json:"role"`
	User        *models.User   `json:"user"`
	Note        *models.Note   `json:"note"`
	Notes       []*models.Note `json:"notes"`
	Data        string         `json:"data"`
}

// Ping checks that the API answers on its root path.
func (c *Client) Ping(ctx context.Context) error {
	var env envelope
	return c.doJSON(ctx, http.MethodGet, "/", nil, &env)
}

type RegisterRequest struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RegistrationType string `json:"registrationType"`
}

// Register creates an account and returns it with a ready-to-use token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, string, error) {
	var env envelope
	if err := c.doJSON(ctx, http.MethodPost, "/create-account", req, &env); err != nil {
		return nil, "", err
	}
	return env.User, env.AccessToken, nil
}

// Login exchanges credentials for an access token and the account role.
func (c *Client) Login(ctx context.Context, email, password string) (token, role string, err error) {
	body := map[string]string{"email": email, "password": password}
	var env envelope
	if err := c.doJSON(ctx, http.MethodPost, "/login", body, &env); err != nil {
		return "", "", err
	}
	return env.AccessToken, env.Role, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var env envelope
	if err := c.doJSON(ctx, http.MethodGet, "/get-user", nil, &env); err != nil {
		return nil, err
	}
	return env.User, nil
}

func (c *Client) AddNote(ctx context.Context, d models.NoteDraft) (*models.Note, error) {
	if d.Tags == nil {
		d.Tags = []string{}
	}
	var env envelope
	if err := c.doJSON(ctx, http.MethodPost, "/add-notes", d, &env); err != nil {
		return nil, err
	}
	return env.Note, nil
}

// AddNoteWithFile creates a note with the file at path attached, sent as a
// multipart form.
func (c *Client) AddNoteWithFile(ctx context.Context, d models.NoteDraft, path string) (*models.Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	_ = mw.WriteField("title", d.Title)
	_ = mw.WriteField("content", d.Content)
	if len(d.Tags) > 0 {
		tags, err := json.Marshal(d.Tags)
		if err != nil {
			return nil, err
		}
		_ = mw.WriteField("tags", string(tags))
	}

	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var env envelope
	if err := c.do(ctx, http.MethodPost, "/add-notes", &buf, mw.FormDataContentType(), &env); err != nil {
		return nil, err
	}
	return env.Note, nil
}

func (c *Client) EditNote(ctx context.Context, id string, e models.NoteEdit) (*models.Note, error) {
	var env envelope
	if err := c.doJSON(ctx, http.MethodPut, "/edit-note/"+url.PathEscape(id), e, &env); err != nil {
		return nil, err
	}
	return env.Note, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	var env envelope
	return c.doJSON(ctx, http.MethodDelete, "/delete-note/"+url.PathEscape(id), nil, &env)
}

func (c *Client) ListNotes(ctx context.Context) ([]*models.Note, error) {
	var env envelope
	if err := c.doJSON(ctx, http.MethodGet, "/get-all-notes", nil, &env); err != nil {
		return nil, err
	}
	return env.Notes, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var env envelope
	if err := c.doJSON(ctx, http.MethodGet, "/get-note/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, err
	}
	return env.Note, nil
}

// SearchNotes returns notes whose title or content contains query. No match
// is an empty result, not an error.
func (c *Client) SearchNotes(ctx context.Context, query string) ([]*models.Note, error) {
	var env envelope
	err := c.doJSON(ctx, http.MethodGet, "/search-note?query="+url.QueryEscape(query), nil, &env)
	if IsStatus(err, http.StatusNotFound) {
		return []*models.Note{}, nil
	}
	if err != nil {
		return nil, err
	}
	return env.Notes, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out *envelope) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out *envelope) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := out.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}
	return nil
}
