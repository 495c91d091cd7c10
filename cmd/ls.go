package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/lockdiary/internal/config"
)

// Ls lists diary entries by date
func Ls(ctx context.Context, cfg *config.Config) {
	session := openSession(cfg, false)
	defer session.Close()

	GetPasswordWithRetry(ctx, cfg, session)
	defer session.Lock()

	entries, err := session.List()
	if err != nil {
		HandleError(err)
	}

	if len(entries) == 0 {
		fmt.Println("No entries yet")
		return
	}

	fmt.Printf("Entries (%d):\n", len(entries))
	for _, e := range entries {
		fmt.Println(formatListLine(e))
	}
}
