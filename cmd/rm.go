package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/lockdiary/internal/config"
	"github.com/illarion/lockdiary/internal/diary"
)

// Remove deletes entries from the diary
func Remove(ctx context.Context, cfg *config.Config, dates []string) {
	if len(dates) == 0 {
		fmt.Fprintf(os.Stderr, "Error: rm requires at least one date argument\n")
		fmt.Fprintf(os.Stderr, "Usage: lockdiary rm <date> [date...]\n")
		os.Exit(1)
	}
	for _, date := range dates {
		if err := diary.ValidateDate(date); err != nil {
			HandleError(err)
		}
	}

	session := openSession(cfg, false)
	defer session.Close()

	GetPasswordWithRetry(ctx, cfg, session)

	for _, date := range dates {
		removed, err := session.Remove(ctx, date)
		if err != nil {
			HandleError(err)
		}
		if removed {
			fmt.Printf("✓ Removed %s\n", date)
		} else {
			fmt.Printf("No entry for %s\n", date)
		}
	}
	session.Lock()

	// Compact database to reclaim space
	if err := session.Compact(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}
}
