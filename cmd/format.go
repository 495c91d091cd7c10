package cmd

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/illarion/lockdiary/internal/diary"
)

// formatSize formats file size in human-readable format
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}

// formatListLine renders one row of 'ls'
func formatListLine(e diary.Entry) string {
	reaction := e.Reaction
	if reaction == "" {
		reaction = " "
	}

	title := e.Title
	if title == "" {
		title = preview(e.Text, 40)
	}

	return fmt.Sprintf("  %s %s %s", e.Date, reaction, title)
}

// formatEntry renders a full entry for 'show'
func formatEntry(e diary.Entry) string {
	var b strings.Builder

	b.WriteString(e.Date)
	if e.Reaction != "" {
		b.WriteString("  " + e.Reaction)
	}
	b.WriteString("\n")
	if e.Title != "" {
		b.WriteString(e.Title + "\n")
	}
	b.WriteString(fmt.Sprintf("(edited %s)\n\n", e.Modified.Local().Format(time.DateTime)))
	b.WriteString(e.Text)
	if !strings.HasSuffix(e.Text, "\n") {
		b.WriteString("\n")
	}

	return b.String()
}

// preview returns the first line of text, cut to n runes
func preview(text string, n int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if utf8.RuneCountInString(line) <= n {
		return line
	}
	runes := []rune(line)
	return string(runes[:n-1]) + "…"
}
