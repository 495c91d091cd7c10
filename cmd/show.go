package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/illarion/lockdiary/internal/config"
	"github.com/illarion/lockdiary/internal/diary"
)

// Show prints one entry, today's by default
func Show(ctx context.Context, cfg *config.Config, date string) {
	if date == "" {
		date = diary.DateKey(time.Now())
	}
	if err := diary.ValidateDate(date); err != nil {
		HandleError(err)
	}

	session := openSession(cfg, false)
	defer session.Close()

	GetPasswordWithRetry(ctx, cfg, session)
	defer session.Lock()

	entry, err := session.Get(date)
	if err != nil {
		HandleError(err)
	}

	fmt.Print(formatEntry(entry))
}
