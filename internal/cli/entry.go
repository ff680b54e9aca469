package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recoverylog/internal/journal"
)

// listPreviewLen caps how many runes of an entry body the list view shows.
const listPreviewLen = 60

// AddEntry collects a journal entry body and an optional mood rating and
// persists them as a new entry. While the vault is locked the write is
// refused, so nothing is ever stored unencrypted by accident.
func (a *App) AddEntry(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Enter journal entry (double Enter to finish):", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	mood, err := a.getMood()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	entry, err := a.journalService.Add(ctx, text, mood)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Printf("Saved entry %s\n", entry.ID)
	return nil
}

// getMood prompts for an optional mood rating. An empty answer means the
// rating is skipped.
func (a *App) getMood() (int, error) {
	s, err := getSimpleText(a.reader, "Mood from 1 (rough) to 5 (great), Enter to skip", os.Stdout)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// List prints a one-line overview of every entry, newest first. While the
// vault is locked, encrypted bodies show as a placeholder.
func (a *App) List(ctx context.Context) error {
	entries, err := a.journalService.Entries(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No entries yet")
		return nil
	}
	for _, e := range entries {
		fmt.Println(overviewLine(e))
	}
	return nil
}

// Show fetches and displays a single entry by ID.
func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter entry id to show", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	e, err := a.journalService.Entry(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Printf("Created: %s\n", e.CreatedAt.Format("2006-01-02 15:04"))
	if e.Mood > 0 {
		fmt.Printf("Mood: %d\n", e.Mood)
	}
	fmt.Println(e.Content)
	return nil
}

// Edit replaces the body and mood of an existing entry.
func (a *App) Edit(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter entry id to edit", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	text, err := GetMultiline(a.reader, "Enter new entry text (double Enter to finish):", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	mood, err := a.getMood()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if _, err := a.journalService.Update(ctx, id, text, mood); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("Entry updated")
	return nil
}

// Delete removes an entry by its identifier, prompting the user for the ID.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter entry id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.journalService.Delete(ctx, id); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("Entry deleted")
	return nil
}

func overviewLine(e journal.Entry) string {
	mood := "-"
	if e.Mood > 0 {
		mood = strconv.Itoa(e.Mood)
	}
	return fmt.Sprintf("%s  %s  mood:%s  %s", e.ID, e.CreatedAt.Format("2006-01-02 15:04"), mood, preview(e.Content))
}

// preview flattens an entry body to a single line and truncates it for the
// list view.
func preview(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= listPreviewLen {
		return s
	}
	return string(r[:listPreviewLen]) + "..."
}
