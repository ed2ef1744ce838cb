package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/api"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

var errAborted = errors.New("aborted")

func (a *App) Register(ctx context.Context) error {
	fullName, err := getSimpleText(a.reader, "-Enter full name", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	email, err := getSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	password, err := getPassword(a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	defer common.WipeByteArray(password)

	regType, err := getSimpleText(a.reader, "-Registration type (student or admin, empty for student)", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	if regType == "" {
		regType = common.RoleStudent
	}

	user, token, err := a.api.Register(ctx, api.RegisterRequest{
		FullName:         fullName,
		Email:            email,
		Password:         string(password),
		RegistrationType: regType,
	})
	if err != nil {
		return a.report(ctx, err)
	}
	if err := a.startSession(ctx, token, user.Email); err != nil {
		return a.report(ctx, err)
	}

	a.println("Registration successful, logged in as", user.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	password, err := getPassword(a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	defer common.WipeByteArray(password)

	token, role, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return a.report(ctx, err)
	}
	if err := a.startSession(ctx, token, strings.TrimSpace(email)); err != nil {
		return a.report(ctx, err)
	}

	a.println("Login successful, role:", role)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.logout(ctx); err != nil {
		return a.report(ctx, err)
	}
	a.println("Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	a.println(fmt.Sprintf("%s <%s>, role %s, since %s", u.FullName, u.Email, u.Role, u.CreatedOn.Format("2006-01-02")))
	return nil
}

func (a *App) Add(ctx context.Context) error {
	d, err := a.readDraft()
	if err != nil {
		return a.report(ctx, err)
	}
	n, err := a.api.AddNote(ctx, d)
	if err != nil {
		return a.report(ctx, err)
	}
	a.println("Note added:", n.ID)
	return nil
}

func (a *App) Attach(ctx context.Context, path string) error {
	d, err := a.readDraft()
	if err != nil {
		return a.report(ctx, err)
	}
	n, err := a.api.AddNoteWithFile(ctx, d, path)
	if err != nil {
		return a.report(ctx, err)
	}
	a.println("Note added:", n.ID, "attachment:", n.FileURL)
	return nil
}

func (a *App) readDraft() (models.NoteDraft, error) {
	title, err := getSimpleText(a.reader, "-Enter title", a.out)
	if err != nil {
		return models.NoteDraft{}, err
	}
	content, err := getMultiline(a.reader, "-Enter content", a.out)
	if err != nil {
		return models.NoteDraft{}, err
	}
	tags, err := getSimpleText(a.reader, "-Enter tags, comma separated", a.out)
	if err != nil {
		return models.NoteDraft{}, err
	}
	return models.NoteDraft{Title: title, Content: content, Tags: splitTags(tags)}, nil
}

// Edit prompts for each field; an empty answer keeps the stored value and
// "-" clears the tags.
func (a *App) Edit(ctx context.Context, id string) error {
	current, err := a.api.GetNote(ctx, id)
	if err != nil {
		return a.report(ctx, err)
	}
	a.println(formatNote(current))

	var e models.NoteEdit

	title, err := getSimpleText(a.reader, "-New title (empty to keep)", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	if title != "" {
		e.Title = &title
	}

	content, err := getMultiline(a.reader, "-New content (empty to keep)", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	if content != "" {
		e.Content = &content
	}

	tags, err := getSimpleText(a.reader, "-New tags, comma separated (empty to keep, - to clear)", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	switch tags {
	case "":
	case "-":
		e.Tags = []string{}
	default:
		e.Tags = splitTags(tags)
	}

	n, err := a.api.EditNote(ctx, id, e)
	if err != nil {
		return a.report(ctx, err)
	}
	a.println("Note updated:", n.ID)
	return nil
}

func (a *App) SetPinned(ctx context.Context, id string, pinned bool) error {
	if _, err := a.api.EditNote(ctx, id, models.NoteEdit{IsPinned: &pinned}); err != nil {
		return a.report(ctx, err)
	}
	if pinned {
		a.println("Note pinned")
	} else {
		a.println("Note unpinned")
	}
	return nil
}

func (a *App) List(ctx context.Context) error {
	notes, err := a.api.ListNotes(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(notes) == 0 {
		a.println("No notes")
		return nil
	}
	for _, n := range notes {
		a.println(formatNoteLine(n))
	}
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	n, err := a.api.GetNote(ctx, id)
	if err != nil {
		return a.report(ctx, err)
	}
	a.println(formatNote(n))
	return nil
}

func (a *App) Search(ctx context.Context, query string) error {
	notes, err := a.api.SearchNotes(ctx, query)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(notes) == 0 {
		a.println("No matching notes found")
		return nil
	}
	for _, n := range notes {
		a.println(formatNoteLine(n))
	}
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	confirm, err := getSimpleText(a.reader, fmt.Sprintf("-Delete note %s? (y/N)", id), a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	if !strings.EqualFold(confirm, "y") && !strings.EqualFold(confirm, "yes") {
		a.println("Cancelled")
		return errAborted
	}
	if err := a.api.DeleteNote(ctx, id); err != nil {
		return a.report(ctx, err)
	}
	a.println("Note deleted")
	return nil
}

// Download saves a note's attachment to dest, or to <id>.<ext> in the
// working directory when dest is empty.
func (a *App) Download(ctx context.Context, id, dest string) error {
	n, err := a.api.GetNote(ctx, id)
	if err != nil {
		return a.report(ctx, err)
	}
	if !n.HasAttachment() {
		a.println("Note has no attachment")
		return errAborted
	}
	if dest == "" {
		dest = n.ID
		if n.FileExtension != "" {
			dest += "." + n.FileExtension
		}
	}
	if err := a.fetch(ctx, n.FileURL, dest); err != nil {
		return a.report(ctx, err)
	}
	a.println("Saved", dest)
	return nil
}

// report prints err, drops a rejected session and returns err.
func (a *App) report(ctx context.Context, err error) error {
	a.fail(err)
	a.expired(ctx, err)
	return err
}
