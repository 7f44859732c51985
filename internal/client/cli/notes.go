package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/filex"
)

const (
	// clearCategory typed at the category prompt of edit removes the category.
	clearCategory = "-"

	maxExportSize = 64 << 20
)

func (a *App) AddNote(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category (optional)", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}

	in := models.NoteInput{Title: title, Content: content}
	if category != "" {
		in.Category = &category
	}

	n, err := a.noteService.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created note %s\n", n.ID)
	return nil
}

// List prints the user's notes, optionally limited to the category given
// as the first argument.
func (a *App) List(ctx context.Context, args []string) error {
	var filter models.NoteFilter
	if len(args) > 0 {
		filter.Category = args[0]
	}
	return a.printList(ctx, filter)
}

func (a *App) Search(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		var err error
		if text, err = getSimpleText(a.reader, "Search for", a.out); err != nil {
			return err
		}
	}
	return a.printList(ctx, models.NoteFilter{Search: text})
}

func (a *App) printList(ctx context.Context, filter models.NoteFilter) error {
	list, err := a.noteService.List(ctx, filter)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No notes")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tUPDATED")
	for _, n := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Title, categoryOf(n), n.UpdatedAt.In(time.Local).Format(timeLayout))
	}
	return tw.Flush()
}

// noteID takes the id from args or asks for it.
func (a *App) noteID(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.noteID(args, "Enter note id to show")
	if err != nil {
		return err
	}

	n, err := a.noteService.Get(ctx, id)
	if err != nil {
		return err
	}
	printNote(a.out, n)
	return nil
}

// Edit prompts for each field; an empty answer keeps the current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.noteID(args, "Enter note id to edit")
	if err != nil {
		return err
	}

	n, err := a.noteService.Get(ctx, id)
	if err != nil {
		return err
	}
	printNote(a.out, n)

	var patch models.NotePatch

	title, err := getSimpleText(a.reader, "New title (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = &title
	}

	category, err := getSimpleText(a.reader, fmt.Sprintf("New category (empty to keep, %q to clear)", clearCategory), a.out)
	if err != nil {
		return err
	}
	switch category {
	case "":
	case clearCategory:
		empty := ""
		patch.Category = &empty
	default:
		patch.Category = &category
	}

	content, err := getMultiline(a.reader, "New content (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if content != "" {
		patch.Content = &content
	}

	if patch == (models.NotePatch{}) {
		fmt.Fprintln(a.out, "Nothing to change")
		return nil
	}

	if _, err := a.noteService.Update(ctx, n.ID, patch); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Note updated")
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.noteID(args, "Enter note id to delete")
	if err != nil {
		return err
	}

	msg, err := a.noteService.Delete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Categories(ctx context.Context) error {
	cats, err := a.noteService.Categories(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		fmt.Fprintln(a.out, "No categories")
		return nil
	}
	for _, c := range cats {
		fmt.Fprintln(a.out, c)
	}
	return nil
}

func (a *App) Export(ctx context.Context) error {
	e, err := a.noteService.Export(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d notes. Download link (valid until %s):\n%s\n",
		e.Count, e.ExpiresAt.In(time.Local).Format(timeLayout), e.URL)

	if a.exportDir == "" {
		return nil
	}

	data, err := download(ctx, nil, e.URL, maxExportSize)
	if err != nil {
		return fmt.Errorf("download export: %w", err)
	}
	dir, err := filex.EnsureDir(a.exportDir)
	if err != nil {
		return err
	}
	path, err := filex.WriteFile(dir, "notes-"+time.Now().UTC().Format("20060102-150405")+".json", data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}

func categoryOf(n *models.Note) string {
	if n.Category == nil {
		return ""
	}
	return *n.Category
}

func printNote(w io.Writer, n *models.Note) {
	fmt.Fprintf(w, "ID:       %s\n", n.ID)
	fmt.Fprintf(w, "Title:    %s\n", n.Title)
	if c := categoryOf(n); c != "" {
		fmt.Fprintf(w, "Category: %s\n", c)
	}
	fmt.Fprintf(w, "Updated:  %s\n\n", n.UpdatedAt.In(time.Local).Format(timeLayout))
	fmt.Fprintln(w, n.Content)
}
