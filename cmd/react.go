package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/lockdiary/internal/config"
	"github.com/illarion/lockdiary/internal/diary"
)

// React sets the reaction glyph on an entry. An empty glyph clears it.
func React(ctx context.Context, cfg *config.Config, date, glyph string) {
	if err := diary.ValidateDate(date); err != nil {
		HandleError(err)
	}
	if err := diary.ValidateReaction(glyph); err != nil {
		HandleError(err)
	}

	session := openSession(cfg, false)
	defer session.Close()

	GetPasswordWithRetry(ctx, cfg, session)
	defer session.Lock()

	if err := session.SetReaction(ctx, date, glyph); err != nil {
		HandleError(err)
	}

	if glyph == "" {
		fmt.Printf("✓ Cleared reaction on %s\n", date)
		return
	}
	fmt.Printf("✓ %s %s\n", date, glyph)
}
