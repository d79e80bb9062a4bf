package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"jarify/internal/core"
	"jarify/internal/log"
	"jarify/internal/notify"
	"jarify/internal/storage"
)

// RecurringService runs automatic contributions. Process is safe to call
// from several goroutines: concurrent calls coalesce into one run.
type RecurringService struct {
	store    *storage.Store
	notifier notify.Notifier
	logger   *log.Logger
	now      func() time.Time
	group    singleflight.Group
}

func NewRecurringService(store *storage.Store, notifier notify.Notifier, logger *log.Logger, now func() time.Time) *RecurringService {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentRecurring)
	}
	if now == nil {
		now = time.Now
	}
	return &RecurringService{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      now,
	}
}

// Process fires every due schedule exactly once and returns how many jars
// received a contribution. A schedule is due when its next date is not in
// the future. Each due schedule fires once per run regardless of how long
// it was overdue; the next date is then recomputed from the current time.
func (s *RecurringService) Process(ctx context.Context) (int, error) {
	result, err, _ := s.group.Do("process", func() (any, error) {
		return s.processOnce(ctx)
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

func (s *RecurringService) processOnce(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("process recurring contributions: %w", err)
	}

	now := s.now()
	jars := s.store.LoadJars(ctx)

	processed := 0
	for i := range jars {
		jar := &jars[i]
		sched := jar.Recurring
		if sched == nil || !sched.Enabled {
			continue
		}
		if sched.NextDate.IsZero() || now.Before(sched.NextDate) {
			continue
		}

		contributed := s.applyContribution(jar, now)
		sched.NextDate = NextOccurrence(now, *sched)
		jar.Streak++
		processed++

		s.logger.InfoContext(ctx, "Applied recurring contribution",
			log.FieldJarID, jar.ID,
			log.FieldJarName, jar.Name,
			log.FieldAmountCents, contributed.Cents,
			log.FieldFrequency, string(sched.Frequency),
			log.FieldNextDate, sched.NextDate.Format(time.RFC3339),
			log.FieldStreak, jar.Streak)

		if s.notifier != nil {
			body := fmt.Sprintf("%s added to %s", sched.Amount.Format(jar.Currency), jar.Name)
			if err := s.notifier.Notify(ctx, "Recurring Transaction Processed", body); err != nil {
				s.logger.WarnContext(ctx, "Failed to send contribution notification",
					log.FieldJarID, jar.ID,
					log.FieldError, err.Error())
			}
		}
	}

	if processed > 0 {
		s.store.SaveJars(ctx, jars)
	}

	s.logger.InfoContext(ctx, "Recurring contribution run complete",
		log.FieldProcessed, processed,
		"total_jars", len(jars))

	return processed, nil
}

// applyContribution adds the scheduled amount to the jar, clamped at the
// target. The record always carries the full scheduled amount and is
// appended on every firing, even when the jar is already full, so the
// history shows each time the schedule ran.
func (s *RecurringService) applyContribution(jar *core.Jar, now time.Time) core.Money {
	added := jar.Recurring.Amount.Cents
	room := jar.Target.Cents - jar.Saved.Cents
	if room < added {
		added = room
	}
	if added < 0 {
		added = 0
	}

	jar.Saved = core.Money{Cents: jar.Saved.Cents + added}
	jar.Records = append(jar.Records, core.TransactionRecord{
		ID:     core.NewRecordID(now),
		Type:   core.RecordSaved,
		Amount: jar.Recurring.Amount,
		Date:   now,
	})
	return core.Money{Cents: added}
}

// NotifyUpcoming sends one reminder per day listing the jars whose
// contribution falls due tomorrow. Dates are compared at day granularity.
func (s *RecurringService) NotifyUpcoming(ctx context.Context) error {
	if s.notifier == nil {
		return nil
	}

	now := s.now()
	today := startOfDay(now)
	if startOfDay(s.store.LoadLastNotification(ctx)).Equal(today) {
		return nil
	}

	tomorrow := today.AddDate(0, 0, 1)
	var due []core.Jar
	for _, jar := range s.store.LoadJars(ctx) {
		sched := jar.Recurring
		if sched == nil || !sched.Enabled {
			continue
		}
		if startOfDay(sched.NextDate).Equal(tomorrow) {
			due = append(due, jar)
		}
	}

	if len(due) == 0 {
		return nil
	}

	for _, jar := range due {
		title := "Upcoming Contribution"
		body := fmt.Sprintf("%s of %s to %s is due tomorrow",
			jar.Recurring.Frequency, jar.Recurring.Amount.Format(jar.Currency), jar.Name)
		if err := s.notifier.Notify(ctx, title, body); err != nil {
			s.logger.WarnContext(ctx, "Failed to send reminder",
				log.FieldJarID, jar.ID,
				log.FieldError, err.Error())
		}
	}

	s.store.SaveLastNotification(ctx, now)
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
