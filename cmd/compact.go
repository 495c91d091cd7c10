package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/lockdiary/internal/config"
)

// Compact compacts the vault database to reclaim unused space
func Compact(ctx context.Context, cfg *config.Config) {
	session := openSession(cfg, false)
	defer session.Close()

	// Get file size before
	info, err := os.Stat(cfg.Path)
	if err != nil {
		HandleError(err)
	}
	sizeBefore := info.Size()

	if err := session.Compact(ctx); err != nil {
		HandleError(err)
	}

	// Get file size after
	info, err = os.Stat(cfg.Path)
	if err != nil {
		HandleError(err)
	}
	sizeAfter := info.Size()

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(sizeAfter))
}
