package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/finman-dev/finman/internal/model"
)

// Entry is one booked income or outcome.
type Entry struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Kind            model.Kind      `gorm:"index;not null"`
	Code            int             `gorm:"index"`
	Description     string
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Day             datatypes.Date  `gorm:"index;not null"`
	StatementNumber string          `gorm:"index"`
	StatementYear   string
	Counterparty    string
	Reference       string
	SourceRef       *string `gorm:"uniqueIndex"` // nil for entries typed in by hand
	CreatedAt       time.Time
}

// TableName pins the table name across drivers.
func (Entry) TableName() string { return "entries" }

// BeforeCreate assigns an ID when the caller did not.
func (e *Entry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Date returns Day as a time.Time.
func (e Entry) Date() time.Time {
	return time.Time(e.Day)
}

// DayOf truncates t to a calendar date in UTC.
func DayOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
