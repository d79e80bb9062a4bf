package core

import (
	"math"
	"time"
)

const (
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
	RangeAll   TimeRange = "all"
)

type (
	// TimeRange selects the window over which record activity is summed.
	TimeRange string

	// Summary aggregates the whole jar set plus activity inside a range.
	Summary struct {
		Range           TimeRange `json:"range"`
		TotalSaved      Money     `json:"totalSaved"`
		TotalTarget     Money     `json:"totalTarget"`
		TotalWithdrawn  Money     `json:"totalWithdrawn"`
		ProgressPercent float64   `json:"progressPercent"`
		PeriodSaved     Money     `json:"periodSaved"`
		PeriodWithdrawn Money     `json:"periodWithdrawn"`
		Currency        string    `json:"currency"`
	}

	// SavingsPlan spreads the remaining amount over the time left until the
	// nearest jar target date (365 days when no jar has one).
	SavingsPlan struct {
		Remaining     Money `json:"remaining"`
		DaysRemaining int   `json:"daysRemaining"`
		Daily         Money `json:"daily"`
		Weekly        Money `json:"weekly"`
		BiWeekly      Money `json:"biWeekly"`
		Monthly       Money `json:"monthly"`
		Yearly        Money `json:"yearly"`
	}

	// JarProgress is one row of the per-jar goals breakdown.
	JarProgress struct {
		ID      int64   `json:"id"`
		Name    string  `json:"name"`
		Saved   Money   `json:"saved"`
		Target  Money   `json:"target"`
		Percent float64 `json:"percent"`
	}
)

func (r TimeRange) IsValid() bool {
	switch r {
	case RangeWeek, RangeMonth, RangeYear, RangeAll:
		return true
	}
	return false
}

// Start returns the inclusive lower bound of the range relative to now.
func (r TimeRange) Start(now time.Time) time.Time {
	switch r {
	case RangeWeek:
		return now.AddDate(0, 0, -7)
	case RangeMonth:
		return now.AddDate(0, -1, 0)
	case RangeYear:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

// Summarize folds jar balances and record activity into a Summary. The
// currency symbol of the first jar wins, matching the reports page.
func Summarize(jars []Jar, r TimeRange, now time.Time) Summary {
	sum := Summary{Range: r, Currency: "€"}
	if len(jars) > 0 && jars[0].Currency != "" {
		sum.Currency = jars[0].Currency
	}
	start := r.Start(now)
	for _, jar := range jars {
		sum.TotalSaved.Cents += jar.Saved.Cents
		sum.TotalTarget.Cents += jar.Target.Cents
		sum.TotalWithdrawn.Cents += jar.Withdrawn.Cents
		for _, rec := range jar.Records {
			if rec.Date.Before(start) {
				continue
			}
			if rec.Type == RecordSaved {
				sum.PeriodSaved.Cents += rec.Amount.Cents
			} else {
				sum.PeriodWithdrawn.Cents += rec.Amount.Cents
			}
		}
	}
	if sum.TotalTarget.Cents > 0 {
		sum.ProgressPercent = float64(sum.TotalSaved.Cents) / float64(sum.TotalTarget.Cents) * 100
	}
	return sum
}

// PlanSavings computes how much must be put aside per period to reach all
// targets. The horizon is the nearest jar target date, floored at one day;
// jars without target dates default the horizon to a year.
func PlanSavings(jars []Jar, now time.Time) SavingsPlan {
	var remaining int64
	var nearest *time.Time
	for _, jar := range jars {
		remaining += jar.Target.Cents - jar.Saved.Cents
		if jar.TargetDate != nil {
			if nearest == nil || jar.TargetDate.Before(*nearest) {
				d := *jar.TargetDate
				nearest = &d
			}
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	days := 365
	if nearest != nil {
		days = int(math.Ceil(nearest.Sub(now).Hours() / 24))
		if days < 1 {
			days = 1
		}
	}
	perDay := float64(remaining) / float64(days)
	round := func(v float64) Money { return Money{Cents: int64(math.Round(v))} }
	return SavingsPlan{
		Remaining:     Money{Cents: remaining},
		DaysRemaining: days,
		Daily:         round(perDay),
		Weekly:        round(perDay * 7),
		BiWeekly:      round(perDay * 14),
		Monthly:       round(perDay * 30),
		Yearly:        round(perDay * 365),
	}
}

// Breakdown returns per-jar progress rows in jar order.
func Breakdown(jars []Jar) []JarProgress {
	rows := make([]JarProgress, 0, len(jars))
	for _, jar := range jars {
		rows = append(rows, JarProgress{
			ID:      jar.ID,
			Name:    jar.Name,
			Saved:   jar.Saved,
			Target:  jar.Target,
			Percent: jar.Progress(),
		})
	}
	return rows
}
