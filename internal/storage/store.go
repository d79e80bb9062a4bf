// Package storage layers a typed façade over a kv.Store. Each collection
// lives under its own key as one JSON document. Loads substitute defaults
// when a document is absent or unreadable, and saves report failures to the
// logger without surfacing them, so a broken data directory degrades the
// app instead of crashing it.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jarify/internal/core"
	"jarify/internal/kv"
	"jarify/internal/log"
)

// Document keys. The prefix keeps the documents recognizable when several
// tools share one data directory.
const (
	KeyJars             = "jarify_jars"
	KeyFolders          = "jarify_folders"
	KeyCategories       = "jarify_categories"
	KeyNotes            = "jarify_notes"
	KeyDarkMode         = "jarify_darkMode"
	KeyLastNotification = "jarify_lastNotification"
)

type Store struct {
	kv     kv.Store
	logger *log.Logger
}

func New(store kv.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStorage)
	}
	return &Store{kv: store, logger: logger}
}

// DefaultFolders returns the three folders every fresh installation starts
// with. Default folders cannot be deleted.
func DefaultFolders() []core.Folder {
	return []core.Folder{
		{ID: 1, Name: "Jars", IsDefault: true},
		{ID: 2, Name: "Image-Based Goals", IsDefault: true},
		{ID: 3, Name: "All Goals", IsDefault: true},
	}
}

func (s *Store) LoadJars(ctx context.Context) []core.Jar {
	var jars []core.Jar
	if !s.load(ctx, KeyJars, &jars) {
		return []core.Jar{}
	}
	for i := range jars {
		if jars[i].Records == nil {
			jars[i].Records = []core.TransactionRecord{}
		}
	}
	return jars
}

func (s *Store) SaveJars(ctx context.Context, jars []core.Jar) {
	s.save(ctx, KeyJars, jars)
}

// LoadFolders returns the stored folders, seeding the defaults on first use
// so later loads see the same IDs.
func (s *Store) LoadFolders(ctx context.Context) []core.Folder {
	var folders []core.Folder
	if s.load(ctx, KeyFolders, &folders) && len(folders) > 0 {
		return folders
	}
	folders = DefaultFolders()
	s.save(ctx, KeyFolders, folders)
	return folders
}

func (s *Store) SaveFolders(ctx context.Context, folders []core.Folder) {
	s.save(ctx, KeyFolders, folders)
}

func (s *Store) LoadCategories(ctx context.Context) []core.Category {
	var categories []core.Category
	if !s.load(ctx, KeyCategories, &categories) {
		return []core.Category{}
	}
	return categories
}

func (s *Store) SaveCategories(ctx context.Context, categories []core.Category) {
	s.save(ctx, KeyCategories, categories)
}

func (s *Store) LoadNotes(ctx context.Context) []core.Note {
	var notes []core.Note
	if !s.load(ctx, KeyNotes, &notes) {
		return []core.Note{}
	}
	return notes
}

func (s *Store) SaveNotes(ctx context.Context, notes []core.Note) {
	s.save(ctx, KeyNotes, notes)
}

func (s *Store) LoadDarkMode(ctx context.Context) bool {
	var dark bool
	s.load(ctx, KeyDarkMode, &dark)
	return dark
}

func (s *Store) SaveDarkMode(ctx context.Context, dark bool) {
	s.save(ctx, KeyDarkMode, dark)
}

// LoadLastNotification returns the zero time when no upcoming-contribution
// notification has been sent yet.
func (s *Store) LoadLastNotification(ctx context.Context) time.Time {
	var last time.Time
	s.load(ctx, KeyLastNotification, &last)
	return last
}

func (s *Store) SaveLastNotification(ctx context.Context, at time.Time) {
	s.save(ctx, KeyLastNotification, at)
}

// ClearAll removes every document, returning the app to its first-run
// state. Unlike saves, a failed reset is surfaced to the caller.
func (s *Store) ClearAll(ctx context.Context) error {
	keys := []string{KeyJars, KeyFolders, KeyCategories, KeyNotes, KeyDarkMode, KeyLastNotification}
	for _, key := range keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) load(ctx context.Context, key string, out any) bool {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load document",
			log.FieldKey, key, log.FieldError, err.Error())
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.WarnContext(ctx, "Stored document is malformed, using defaults",
			log.FieldKey, key, log.FieldError, err.Error())
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode document",
			log.FieldKey, key, log.FieldError, err.Error())
		return
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save document",
			log.FieldKey, key, log.FieldError, err.Error())
	}
}
