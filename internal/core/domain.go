package core

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

const (
	RecordSaved     RecordType = "saved"
	RecordWithdrawn RecordType = "withdrawn"
)

const (
	JarFlask    JarType = "flask"
	JarCircular JarType = "circular"
)

const (
	PurposeSaving PurposeType = "saving"
	PurposeDebt   PurposeType = "debt"
)

type (
	Frequency   string
	RecordType  string
	JarType     string
	PurposeType string

	// TransactionRecord is an immutable log entry of a single deposit or
	// withdrawal against a jar. Records are only ever appended; insertion
	// order is chronological order.
	TransactionRecord struct {
		ID     int64      `json:"id"`
		Type   RecordType `json:"type"`
		Amount Money      `json:"amount"`
		Date   time.Time  `json:"date"`
	}

	// RecurringSchedule is an automatic contribution attached to a jar.
	// Weekday (0-6, Sunday=0) is required for weekly schedules, MonthDay
	// (1-31) for monthly ones. NextDate is the instant the schedule fires
	// next and is always kept in the future by the recurring engine.
	RecurringSchedule struct {
		Enabled   bool      `json:"enabled"`
		Frequency Frequency `json:"frequency"`
		Amount    Money     `json:"amount"`
		NextDate  time.Time `json:"nextDate"`
		Time      string    `json:"time,omitempty"` // HH:MM
		Weekday   *int      `json:"weekday,omitempty"`
		MonthDay  *int      `json:"monthDay,omitempty"`
	}

	// Jar is a savings or debt goal with a target and running balance.
	Jar struct {
		ID          int64               `json:"id"`
		Name        string              `json:"name"`
		Target      Money               `json:"target"`
		Saved       Money               `json:"saved"`
		Withdrawn   Money               `json:"withdrawn"`
		Streak      int                 `json:"streak"`
		Currency    string              `json:"currency,omitempty"`
		CategoryID  int64               `json:"categoryId,omitempty"`
		FolderID    int64               `json:"folderId,omitempty"`
		TargetDate  *time.Time          `json:"targetDate,omitempty"`
		CreatedAt   *time.Time          `json:"createdAt,omitempty"`
		JarType     JarType             `json:"jarType,omitempty"`
		ImageURL    string              `json:"imageUrl,omitempty"`
		PurposeType PurposeType         `json:"purposeType,omitempty"`
		IsPinned    bool                `json:"isPinned,omitempty"`
		Order       int                 `json:"order,omitempty"`
		Notes       []Note              `json:"notes,omitempty"`
		Records     []TransactionRecord `json:"records"`
		Recurring   *RecurringSchedule  `json:"recurringTransaction,omitempty"`
	}

	// Folder groups jars. The three default folders are seeded by the
	// storage layer on first run and carry IsDefault=true.
	Folder struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		IsDefault bool   `json:"isDefault"`
	}

	// Category is a display label for jars inside a folder.
	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Icon string `json:"icon"`
	}

	// Note is a sticky note, either global or attached to a jar.
	Note struct {
		ID    int64  `json:"id"`
		Text  string `json:"text"`
		Color string `json:"color"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrMissingWeekday   = errors.New("weekly schedule requires a weekday")
	ErrMissingMonthDay  = errors.New("monthly schedule requires a day of month")
)

// NewJarID assigns a jar identifier from the creation instant.
func NewJarID(now time.Time) int64 {
	return now.UnixMilli()
}

// NewRecordID builds a time-based record identifier with a random component
// so that records created within the same millisecond stay distinct.
func NewRecordID(now time.Time) int64 {
	return now.UnixMilli()<<10 | rand.Int63n(1<<10)
}

// Deposit adds amount to the jar balance, capped at the target, and appends
// a record. The returned record is the one appended.
func (j *Jar) Deposit(amount Money, now time.Time) (TransactionRecord, error) {
	if amount.Cents <= 0 {
		return TransactionRecord{}, ErrInvalidAmount
	}
	saved := j.Saved.Cents + amount.Cents
	if saved > j.Target.Cents {
		saved = j.Target.Cents
	}
	j.Saved = Money{Cents: saved}
	rec := TransactionRecord{
		ID:     NewRecordID(now),
		Type:   RecordSaved,
		Amount: amount,
		Date:   now,
	}
	j.Records = append(j.Records, rec)
	return rec, nil
}

// Withdraw removes amount from the jar balance, floored at zero, adds it to
// the cumulative withdrawn total and appends a record.
func (j *Jar) Withdraw(amount Money, now time.Time) (TransactionRecord, error) {
	if amount.Cents <= 0 {
		return TransactionRecord{}, ErrInvalidAmount
	}
	saved := j.Saved.Cents - amount.Cents
	if saved < 0 {
		saved = 0
	}
	j.Saved = Money{Cents: saved}
	j.Withdrawn = Money{Cents: j.Withdrawn.Cents + amount.Cents}
	rec := TransactionRecord{
		ID:     NewRecordID(now),
		Type:   RecordWithdrawn,
		Amount: amount,
		Date:   now,
	}
	j.Records = append(j.Records, rec)
	return rec, nil
}

// Progress returns the percentage of the target reached, in [0, 100].
func (j Jar) Progress() float64 {
	if j.Target.Cents <= 0 {
		return 0
	}
	p := float64(j.Saved.Cents) / float64(j.Target.Cents) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// Remaining returns the amount still missing to reach the target, never
// negative.
func (j Jar) Remaining() Money {
	rem := j.Target.Cents - j.Saved.Cents
	if rem < 0 {
		rem = 0
	}
	return Money{Cents: rem}
}

func (j Jar) Validate() error {
	if len(strings.TrimSpace(j.Name)) == 0 {
		return ErrEmptyName
	}
	if j.Target.Cents < 0 || j.Saved.Cents < 0 || j.Withdrawn.Cents < 0 {
		return ErrInvalidAmount
	}
	if j.Recurring != nil {
		if err := j.Recurring.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a schedule as entered at the configuration boundary. The
// recurring engine itself is more lenient and falls back to a fixed advance
// for malformed schedules already in storage.
func (s RecurringSchedule) Validate() error {
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	switch s.Frequency {
	case Daily:
	case Weekly:
		if s.Weekday == nil || *s.Weekday < 0 || *s.Weekday > 6 {
			return ErrMissingWeekday
		}
	case Monthly:
		if s.MonthDay == nil || *s.MonthDay < 1 || *s.MonthDay > 31 {
			return ErrMissingMonthDay
		}
	default:
		return ErrInvalidFrequency
	}
	return nil
}
