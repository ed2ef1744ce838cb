package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// formatNoteLine renders a one-line summary, pinned notes marked with "*",
// e.g. `* 6f1c...  Groceries  #home #weekly  [pdf]`.
func formatNoteLine(n *models.Note) string {
	var b strings.Builder
	if n.IsPinned {
		b.WriteString("* ")
	} else {
		b.WriteString("  ")
	}
	b.WriteString(n.ID)
	b.WriteString("  ")
	b.WriteString(n.Title)
	if len(n.Tags) > 0 {
		b.WriteString("  #")
		b.WriteString(strings.Join(n.Tags, " #"))
	}
	if n.HasAttachment() {
		fmt.Fprintf(&b, "  [%s]", n.FileExtension)
	}
	return b.String()
}

func formatNote(n *models.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:      %s\n", n.ID)
	fmt.Fprintf(&b, "Title:   %s\n", n.Title)
	fmt.Fprintf(&b, "Created: %s\n", n.CreatedOn.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Pinned:  %t\n", n.IsPinned)
	if len(n.Tags) > 0 {
		fmt.Fprintf(&b, "Tags:    %s\n", strings.Join(n.Tags, ", "))
	}
	if n.HasAttachment() {
		fmt.Fprintf(&b, "File:    %s\n", n.FileURL)
	}
	b.WriteString("\n")
	b.WriteString(n.Content)
	return b.String()
}
