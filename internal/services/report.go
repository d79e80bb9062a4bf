package services

import (
	"context"
	"time"

	"jarify/internal/cache"
	"jarify/internal/core"
	"jarify/internal/storage"
)

const reportCacheTTL = 30 * time.Second

// ReportService builds summaries, savings plans and per-jar breakdowns.
// Results are cached briefly; callers invalidate after any jar mutation.
type ReportService struct {
	store     *storage.Store
	now       func() time.Time
	summaries *cache.LRUCache[core.Summary]
	plans     *cache.LRUCache[core.SavingsPlan]
}

func NewReportService(store *storage.Store, now func() time.Time) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		store:     store,
		now:       now,
		summaries: cache.NewLRUCache[core.Summary](8, reportCacheTTL),
		plans:     cache.NewLRUCache[core.SavingsPlan](1, reportCacheTTL),
	}
}

func (s *ReportService) Summary(ctx context.Context, r core.TimeRange) core.Summary {
	if sum, ok := s.summaries.Get(string(r)); ok {
		return sum
	}
	sum := core.Summarize(s.store.LoadJars(ctx), r, s.now())
	s.summaries.Set(string(r), sum)
	return sum
}

func (s *ReportService) Plan(ctx context.Context) core.SavingsPlan {
	if plan, ok := s.plans.Get("plan"); ok {
		return plan
	}
	plan := core.PlanSavings(s.store.LoadJars(ctx), s.now())
	s.plans.Set("plan", plan)
	return plan
}

func (s *ReportService) Breakdown(ctx context.Context) []core.JarProgress {
	return core.Breakdown(s.store.LoadJars(ctx))
}

// Invalidate drops cached reports after a jar mutation.
func (s *ReportService) Invalidate() {
	s.summaries.Clear()
	s.plans.Clear()
}
