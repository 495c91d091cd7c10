package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/lockdiary/internal/config"
	"github.com/illarion/lockdiary/internal/core"
)

// Export writes the encrypted record to file. No password is needed.
func Export(_ context.Context, cfg *config.Config, file string, force bool) {
	session := openSession(cfg, false)
	defer session.Close()

	data, err := session.Export()
	if err != nil {
		HandleError(err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(file, flags, core.FilePermSecure)
	if err != nil {
		if os.IsExist(err) {
			fmt.Fprintf(os.Stderr, "Error: %s already exists (use --force to overwrite)\n", file)
			os.Exit(1)
		}
		HandleError(err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		HandleError(err)
	}
	if err := f.Close(); err != nil {
		HandleError(err)
	}

	fmt.Printf("✓ Exported to %s (%s)\n", file, formatSize(int64(len(data))))
}
