package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"jarify/internal/core"
	"jarify/internal/log"
	"jarify/internal/storage"
)

var (
	ErrJarNotFound  = errors.New("jar not found")
	ErrNoteNotFound = errors.New("note not found")
)

// JarService owns all jar mutations. A single mutex serializes
// load-modify-save cycles so concurrent requests cannot lose writes.
type JarService struct {
	store  *storage.Store
	logger *log.Logger
	now    func() time.Time

	mu sync.Mutex
}

func NewJarService(store *storage.Store, logger *log.Logger, now func() time.Time) *JarService {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent("jars")
	}
	if now == nil {
		now = time.Now
	}
	return &JarService{store: store, logger: logger, now: now}
}

func (s *JarService) List(ctx context.Context) []core.Jar {
	return s.store.LoadJars(ctx)
}

func (s *JarService) Get(ctx context.Context, id int64) (core.Jar, error) {
	for _, jar := range s.store.LoadJars(ctx) {
		if jar.ID == id {
			return jar, nil
		}
	}
	return core.Jar{}, ErrJarNotFound
}

// Create assigns the jar an ID and creation time and stores it. A newly
// enabled schedule without a next date gets its first occurrence computed
// from now.
func (s *JarService) Create(ctx context.Context, jar core.Jar) (core.Jar, error) {
	if err := jar.Validate(); err != nil {
		return core.Jar{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	jar.ID = core.NewJarID(now)
	jar.CreatedAt = &now
	if jar.Records == nil {
		jar.Records = []core.TransactionRecord{}
	}
	if jar.Recurring != nil && jar.Recurring.Enabled && jar.Recurring.NextDate.IsZero() {
		jar.Recurring.NextDate = InitialOccurrence(now, *jar.Recurring)
	}

	jars := append(s.store.LoadJars(ctx), jar)
	s.store.SaveJars(ctx, jars)

	s.logger.InfoContext(ctx, "Jar created",
		log.FieldJarID, jar.ID,
		log.FieldJarName, jar.Name,
		"target_cents", jar.Target.Cents)

	return jar, nil
}

// Update replaces the stored jar with the same ID. The creation time and
// transaction history survive the update.
func (s *JarService) Update(ctx context.Context, jar core.Jar) (core.Jar, error) {
	if err := jar.Validate(); err != nil {
		return core.Jar{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	jars := s.store.LoadJars(ctx)
	for i := range jars {
		if jars[i].ID != jar.ID {
			continue
		}
		jar.CreatedAt = jars[i].CreatedAt
		jar.Records = jars[i].Records
		if jar.Recurring != nil && jar.Recurring.Enabled && jar.Recurring.NextDate.IsZero() {
			jar.Recurring.NextDate = InitialOccurrence(s.now(), *jar.Recurring)
		}
		jars[i] = jar
		s.store.SaveJars(ctx, jars)
		return jar, nil
	}
	return core.Jar{}, ErrJarNotFound
}

func (s *JarService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jars := s.store.LoadJars(ctx)
	for i := range jars {
		if jars[i].ID == id {
			s.store.SaveJars(ctx, append(jars[:i], jars[i+1:]...))
			s.logger.InfoContext(ctx, "Jar deleted", log.FieldJarID, id)
			return nil
		}
	}
	return ErrJarNotFound
}

func (s *JarService) Deposit(ctx context.Context, id int64, amount core.Money) (core.Jar, error) {
	return s.mutate(ctx, id, log.OpDeposit, func(jar *core.Jar, now time.Time) error {
		_, err := jar.Deposit(amount, now)
		return err
	})
}

func (s *JarService) Withdraw(ctx context.Context, id int64, amount core.Money) (core.Jar, error) {
	return s.mutate(ctx, id, log.OpWithdraw, func(jar *core.Jar, now time.Time) error {
		_, err := jar.Withdraw(amount, now)
		return err
	})
}

// TogglePin flips the pinned flag on a jar.
func (s *JarService) TogglePin(ctx context.Context, id int64) (core.Jar, error) {
	return s.mutate(ctx, id, log.OpUpdate, func(jar *core.Jar, _ time.Time) error {
		jar.IsPinned = !jar.IsPinned
		return nil
	})
}

func (s *JarService) mutate(ctx context.Context, id int64, op string, fn func(*core.Jar, time.Time) error) (core.Jar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jars := s.store.LoadJars(ctx)
	for i := range jars {
		if jars[i].ID != id {
			continue
		}
		now := s.now()
		if err := fn(&jars[i], now); err != nil {
			return core.Jar{}, err
		}
		s.store.SaveJars(ctx, jars)
		s.logger.InfoContext(ctx, "Jar updated",
			log.FieldJarID, id,
			log.FieldOperation, op,
			"saved_cents", jars[i].Saved.Cents)
		return jars[i], nil
	}
	return core.Jar{}, ErrJarNotFound
}

// Folders returns the stored folders, seeding defaults on first use.
func (s *JarService) Folders(ctx context.Context) []core.Folder {
	return s.store.LoadFolders(ctx)
}

// ReplaceFolders stores the given folder list. The default folders cannot
// be removed; any missing default is put back at the front.
func (s *JarService) ReplaceFolders(ctx context.Context, folders []core.Folder) []core.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := make(map[int64]bool, len(folders))
	for _, f := range folders {
		present[f.ID] = true
	}
	var merged []core.Folder
	for _, def := range storage.DefaultFolders() {
		if !present[def.ID] {
			merged = append(merged, def)
		}
	}
	merged = append(merged, folders...)
	s.store.SaveFolders(ctx, merged)
	return merged
}

func (s *JarService) Categories(ctx context.Context) []core.Category {
	return s.store.LoadCategories(ctx)
}

func (s *JarService) ReplaceCategories(ctx context.Context, categories []core.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SaveCategories(ctx, categories)
}

func (s *JarService) Notes(ctx context.Context) []core.Note {
	return s.store.LoadNotes(ctx)
}

func (s *JarService) ReplaceNotes(ctx context.Context, notes []core.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SaveNotes(ctx, notes)
}

func (s *JarService) DarkMode(ctx context.Context) bool {
	return s.store.LoadDarkMode(ctx)
}

func (s *JarService) SetDarkMode(ctx context.Context, dark bool) {
	s.store.SaveDarkMode(ctx, dark)
}

// Reset wipes every stored document, returning the app to first-run state.
func (s *JarService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ClearAll(ctx)
}
