package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/illarion/lockdiary/internal/codec"
	"github.com/illarion/lockdiary/internal/config"
	"github.com/illarion/lockdiary/internal/core"
	"github.com/illarion/lockdiary/internal/diary"
)

// Write creates or replaces the entry for date. The body comes from file,
// or from stdin when file is empty. A nil title keeps the existing one.
func Write(ctx context.Context, cfg *config.Config, date string, title *string, file string) {
	if date == "" {
		date = diary.DateKey(time.Now())
	}
	if err := diary.ValidateDate(date); err != nil {
		HandleError(err)
	}

	text, err := readBody(file)
	if err != nil {
		HandleError(err)
	}

	session := openSession(cfg, false)
	defer session.Close()

	GetPasswordWithRetry(ctx, cfg, session)
	defer session.Lock()

	previous, err := session.Get(date)
	existed := err == nil
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		HandleError(err)
	}

	newTitle := previous.Title
	if title != nil {
		newTitle = *title
	}

	entry, err := session.Upsert(ctx, date, newTitle, text)
	if err != nil {
		HandleError(err)
	}

	if !existed {
		fmt.Printf("✓ Wrote %s\n", entry.Date)
		return
	}
	if diff := core.BodyDiff(date, previous.Text, entry.Text); diff != "" {
		fmt.Print(diff)
	}
	fmt.Printf("✓ Updated %s\n", entry.Date)
}

func readBody(file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if file == "" || file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read entry text: %w", err)
	}

	text, err := codec.DecodeText(data)
	if err != nil {
		return "", fmt.Errorf("entry text: %w", err)
	}
	return text, nil
}
