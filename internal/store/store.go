// Package store keeps the income and outcome ledger in a SQL database.
//
// Every query goes through gorm with bound parameters; statement text such
// as descriptions and counterparty names is never spliced into SQL.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finman-dev/finman/internal/id"
	"github.com/finman-dev/finman/internal/model"
)

// Options selects and configures the database.
type Options struct {
	Driver  string // "sqlite" (default) or "postgres"
	Path    string // sqlite file
	DSN     string // postgres connection string
	Verbose bool   // log SQL
}

// Store is the ledger repository.
type Store struct {
	db *gorm.DB
}

// New wraps an open gorm handle. The schema must already exist.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to the configured database and migrates the schema.
func Open(opts Options) (*Store, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "", "sqlite":
		if opts.Path == "" {
			return nil, errors.New("sqlite store needs a path")
		}
		dialector = sqlite.Open(opts.Path)
	case "postgres":
		if opts.DSN == "" {
			return nil, errors.New("postgres store needs a DSN")
		}
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}

	level := logger.Silent
	if opts.Verbose {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", dialector.Name(), err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating store: %w", err)
	}
	return New(db), nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Assignment picks the codes statement lines are booked under.
type Assignment struct {
	IncomeCode  int
	OutcomeCode int
}

// Booked is the outcome of BookStatement.
type Booked struct {
	Entries []Entry
	// Unbooked holds lines with an unknown direction or a zero amount. They
	// need a manual decision and are never guessed.
	Unbooked []model.StatementLine
}

// UnbookedReason says why a statement line cannot be booked, or "" if it can.
func UnbookedReason(l model.StatementLine) string {
	if _, ok := model.KindFor(l.Direction); !ok {
		return "direction unknown"
	}
	if l.Amount.IsZero() {
		return "zero amount"
	}
	return ""
}

// EntriesFor converts statement lines into ledger entries.
func EntriesFor(st *model.Statement, a Assignment) ([]Entry, []model.StatementLine) {
	var entries []Entry
	var unbooked []model.StatementLine
	for _, l := range st.Lines {
		if UnbookedReason(l) != "" {
			unbooked = append(unbooked, l)
			continue
		}
		kind, _ := model.KindFor(l.Direction)
		code := a.IncomeCode
		if kind == model.KindOutcome {
			code = a.OutcomeCode
		}
		ref := id.FormatLineRef(st.Year, st.Number, l.LineNo)
		entries = append(entries, Entry{
			Kind:            kind,
			Code:            code,
			Description:     l.Description,
			Amount:          l.Amount,
			Day:             DayOf(l.Date),
			StatementNumber: st.Number,
			StatementYear:   st.Year,
			Counterparty:    l.Counterparty,
			Reference:       l.Reference,
			SourceRef:       &ref,
		})
	}
	return entries, unbooked
}

// BookStatement validates and inserts all bookable lines of st in one
// transaction.
func (s *Store) BookStatement(ctx context.Context, st *model.Statement, a Assignment, codes CodeChecker) (*Booked, error) {
	entries, unbooked := EntriesFor(st, a)
	if err := validationFailure(ValidateEntries(entries, codes)); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return nil, fmt.Errorf("booking statement %s/%s: %w", st.Number, st.Year, err)
	}
	return &Booked{Entries: entries, Unbooked: unbooked}, nil
}

// Add validates and inserts a single entry.
func (s *Store) Add(ctx context.Context, e *Entry, codes CodeChecker) error {
	if err := validationFailure(ValidateEntries([]Entry{*e}, codes)); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("adding entry: %w", err)
	}
	return nil
}

// HasStatement reports whether any line of the statement is already booked.
func (s *Store) HasStatement(ctx context.Context, year, number string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Entry{}).
		Where("statement_year = ? AND statement_number = ?", year, number).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking statement %s/%s: %w", number, year, err)
	}
	return n > 0, nil
}

// Filter narrows List. Zero values do not filter.
type Filter struct {
	Kind model.Kind
	Code int
	From time.Time
	To   time.Time // inclusive
}

// List returns entries matching f ordered by day.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	q := s.db.WithContext(ctx).Model(&Entry{})
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Code != 0 {
		q = q.Where("code = ?", f.Code)
	}
	if !f.From.IsZero() {
		q = q.Where("day >= ?", DayOf(f.From))
	}
	if !f.To.IsZero() {
		q = q.Where("day <= ?", DayOf(f.To))
	}

	var entries []Entry
	if err := q.Order("day").Order("created_at").Order("source_ref").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

func validationFailure(verrs []ValidationError) error {
	if len(verrs) == 0 {
		return nil
	}
	msgs := make([]string, len(verrs))
	for i, ve := range verrs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// Totals is income and outcome over a period.
type Totals struct {
	Income  decimal.Decimal
	Outcome decimal.Decimal
}

// Balance is income minus outcome.
func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Outcome)
}

// DayTotal is the sum of one kind on one day.
type DayTotal struct {
	Day   time.Time
	Total decimal.Decimal
}

// YearTotals sums the whole calendar year, both ends included.
func (s *Store) YearTotals(ctx context.Context, year int) (Totals, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return s.PeriodTotals(ctx, from, to)
}

// DayTotals sums a single day.
func (s *Store) DayTotals(ctx context.Context, day time.Time) (Totals, error) {
	return s.PeriodTotals(ctx, day, day)
}

// PeriodTotals sums income and outcome between from and to inclusive.
func (s *Store) PeriodTotals(ctx context.Context, from, to time.Time) (Totals, error) {
	var t Totals
	var err error
	if t.Income, err = s.sum(ctx, model.KindIncome, from, to); err != nil {
		return Totals{}, err
	}
	if t.Outcome, err = s.sum(ctx, model.KindOutcome, from, to); err != nil {
		return Totals{}, err
	}
	return t, nil
}

// DailySeries returns per-day sums of kind between from and to inclusive,
// for days that have entries, in date order.
func (s *Store) DailySeries(ctx context.Context, kind model.Kind, from, to time.Time) ([]DayTotal, error) {
	entries, err := s.amounts(ctx, kind, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]decimal.Decimal)
	for _, e := range entries {
		d := e.Date().UTC()
		byDay[d] = byDay[d].Add(e.Amount)
	}

	series := make([]DayTotal, 0, len(byDay))
	for d, total := range byDay {
		series = append(series, DayTotal{Day: d, Total: total})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day.Before(series[j].Day) })
	return series, nil
}

func (s *Store) sum(ctx context.Context, kind model.Kind, from, to time.Time) (decimal.Decimal, error) {
	entries, err := s.amounts(ctx, kind, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func (s *Store) amounts(ctx context.Context, kind model.Kind, from, to time.Time) ([]Entry, error) {
	var entries []Entry
	err := s.db.WithContext(ctx).Model(&Entry{}).
		Select("day", "amount").
		Where("kind = ? AND day BETWEEN ? AND ?", kind, DayOf(from), DayOf(to)).
		Order("day").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("summing %s: %w", kind, err)
	}
	return entries, nil
}
