package storage

import (
	"context"
	"testing"
	"time"

	"jarify/internal/core"
	"jarify/internal/kv"
)

func newTestStore() *Store {
	return New(kv.NewMemoryStore(), nil)
}

func TestLoadJarsEmpty(t *testing.T) {
	s := newTestStore()
	jars := s.LoadJars(context.Background())
	if jars == nil {
		t.Fatal("LoadJars() = nil, want empty slice")
	}
	if len(jars) != 0 {
		t.Errorf("LoadJars() len = %d, want 0", len(jars))
	}
}

func TestJarsRoundTrip(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	jars := []core.Jar{
		{
			ID:        1,
			Name:      "Vacation",
			Target:    core.Money{Cents: 50000},
			Saved:     core.Money{Cents: 12000},
			Currency:  "€",
			CreatedAt: &created,
			Records: []core.TransactionRecord{
				{ID: 10, Type: core.RecordSaved, Amount: core.Money{Cents: 12000}, Date: created},
			},
		},
	}

	s.SaveJars(ctx, jars)
	got := s.LoadJars(ctx)

	if len(got) != 1 {
		t.Fatalf("LoadJars() len = %d, want 1", len(got))
	}
	if got[0].Name != "Vacation" || got[0].Saved.Cents != 12000 {
		t.Errorf("LoadJars()[0] = %+v", got[0])
	}
	if got[0].CreatedAt == nil || !got[0].CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, created)
	}
	if len(got[0].Records) != 1 || got[0].Records[0].Amount.Cents != 12000 {
		t.Errorf("Records = %+v", got[0].Records)
	}
}

func TestLoadJarsNormalizesNilRecords(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	s.SaveJars(ctx, []core.Jar{{ID: 1, Name: "NoRecords", Target: core.Money{Cents: 100}}})
	got := s.LoadJars(ctx)
	if got[0].Records == nil {
		t.Error("Records = nil after load, want empty slice")
	}
}

func TestLoadJarsMalformedDocument(t *testing.T) {
	mem := kv.NewMemoryStore()
	s := New(mem, nil)
	ctx := context.Background()

	if err := mem.Set(ctx, KeyJars, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	got := s.LoadJars(ctx)
	if len(got) != 0 {
		t.Errorf("LoadJars() on malformed doc = %+v, want empty", got)
	}
}

func TestLoadFoldersSeedsDefaults(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	folders := s.LoadFolders(ctx)
	if len(folders) != 3 {
		t.Fatalf("LoadFolders() len = %d, want 3", len(folders))
	}
	names := []string{"Jars", "Image-Based Goals", "All Goals"}
	for i, f := range folders {
		if f.Name != names[i] {
			t.Errorf("folders[%d].Name = %s, want %s", i, f.Name, names[i])
		}
		if !f.IsDefault {
			t.Errorf("folders[%d].IsDefault = false, want true", i)
		}
	}

	// Seeding happens once; a second load returns the persisted set.
	folders = append(folders, core.Folder{ID: 4, Name: "Custom"})
	s.SaveFolders(ctx, folders)
	again := s.LoadFolders(ctx)
	if len(again) != 4 {
		t.Errorf("LoadFolders() after save len = %d, want 4", len(again))
	}
}

func TestDarkModeRoundTrip(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	if s.LoadDarkMode(ctx) {
		t.Error("LoadDarkMode() default = true, want false")
	}
	s.SaveDarkMode(ctx, true)
	if !s.LoadDarkMode(ctx) {
		t.Error("LoadDarkMode() = false after save")
	}
}

func TestLastNotificationRoundTrip(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	if !s.LoadLastNotification(ctx).IsZero() {
		t.Error("LoadLastNotification() default is not zero")
	}
	at := time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)
	s.SaveLastNotification(ctx, at)
	if got := s.LoadLastNotification(ctx); !got.Equal(at) {
		t.Errorf("LoadLastNotification() = %v, want %v", got, at)
	}
}

func TestClearAll(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	s.SaveJars(ctx, []core.Jar{{ID: 1, Name: "A", Target: core.Money{Cents: 100}}})
	s.SaveDarkMode(ctx, true)
	s.LoadFolders(ctx)

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	if len(s.LoadJars(ctx)) != 0 {
		t.Error("jars survived ClearAll")
	}
	if s.LoadDarkMode(ctx) {
		t.Error("dark mode survived ClearAll")
	}
	// Folders reseed after a reset.
	if len(s.LoadFolders(ctx)) != 3 {
		t.Error("folders did not reseed after ClearAll")
	}
}
