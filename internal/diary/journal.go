package diary

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DateLayout is the canonical, lexicographically sortable date key format
const DateLayout = "2006-01-02"

// MaxReactionBytes bounds a reaction glyph (emoji with modifiers included)
const MaxReactionBytes = 16

var (
	ErrNotFound        = errors.New("entry not found")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidReaction = errors.New("invalid reaction")
)

// Entry is one diary record
type Entry struct {
	Date     string    `json:"date"`
	Title    string    `json:"title,omitempty"`
	Text     string    `json:"text"`
	Modified time.Time `json:"modified"`
	Reaction string    `json:"reaction,omitempty"`
}

// Journal maps date keys to entries
type Journal struct {
	Entries map[string]Entry `json:"entries"`
}

// New returns an empty journal
func New() *Journal {
	return &Journal{Entries: make(map[string]Entry)}
}

// ValidateDate checks that date is a real calendar day in YYYY-MM-DD form
func ValidateDate(date string) error {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	// Parse accepts some non-canonical input; require an exact round trip
	if t.Format(DateLayout) != date {
		return fmt.Errorf("%w: %q is not canonical", ErrInvalidDate, date)
	}
	return nil
}

// DateKey returns the date key for t in t's location
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateReaction accepts a single short glyph. The empty string is valid and clears.
func ValidateReaction(glyph string) error {
	if glyph == "" {
		return nil
	}
	if len(glyph) > MaxReactionBytes || !utf8.ValidString(glyph) {
		return fmt.Errorf("%w: %q", ErrInvalidReaction, glyph)
	}
	if strings.IndexFunc(glyph, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: contains whitespace", ErrInvalidReaction)
	}
	return nil
}

// Upsert creates or overwrites the entry at date. An existing reaction is kept.
func (j *Journal) Upsert(date, title, text string, now time.Time) (Entry, error) {
	if err := ValidateDate(date); err != nil {
		return Entry{}, err
	}
	j.ensure()

	entry := Entry{
		Date:     date,
		Title:    title,
		Text:     text,
		Modified: now,
	}
	if existing, ok := j.Entries[date]; ok {
		entry.Reaction = existing.Reaction
	}
	j.Entries[date] = entry
	return entry, nil
}

// Remove deletes the entry at date and reports whether it existed
func (j *Journal) Remove(date string) bool {
	if _, ok := j.Entries[date]; !ok {
		return false
	}
	delete(j.Entries, date)
	return true
}

// SetReaction sets the reaction on an existing entry
func (j *Journal) SetReaction(date, glyph string) error {
	if err := ValidateReaction(glyph); err != nil {
		return err
	}
	entry, ok := j.Entries[date]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, date)
	}
	entry.Reaction = glyph
	j.Entries[date] = entry
	return nil
}

// Get returns the entry at date
func (j *Journal) Get(date string) (Entry, bool) {
	entry, ok := j.Entries[date]
	return entry, ok
}

// List returns all entries in no particular order
func (j *Journal) List() []Entry {
	entries := make([]Entry, 0, len(j.Entries))
	for _, e := range j.Entries {
		entries = append(entries, e)
	}
	return entries
}

// Len returns the number of entries
func (j *Journal) Len() int {
	return len(j.Entries)
}

// Clone returns a copy that can be changed without affecting j
func (j *Journal) Clone() *Journal {
	c := New()
	for k, v := range j.Entries {
		c.Entries[k] = v
	}
	return c
}

// Validate checks every key against its entry, for journals read from disk
func (j *Journal) Validate() error {
	for key, entry := range j.Entries {
		if err := ValidateDate(key); err != nil {
			return err
		}
		if entry.Date != key {
			return fmt.Errorf("%w: entry %q stored under %q", ErrInvalidDate, entry.Date, key)
		}
	}
	return nil
}

func (j *Journal) ensure() {
	if j.Entries == nil {
		j.Entries = make(map[string]Entry)
	}
}

// SortByDate orders entries chronologically
func SortByDate(entries []Entry) {
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].Date < entries[b].Date
	})
}
