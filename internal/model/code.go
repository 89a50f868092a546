package model

// Kind separates the income and outcome books.
type Kind string

const (
	KindIncome  Kind = "income"
	KindOutcome Kind = "outcome"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindOutcome
}

// Label is the display name of the book.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Prihod"
	case KindOutcome:
		return "Rashod"
	default:
		return string(k)
	}
}

// KindFor maps a statement direction to a ledger kind. ok is false for
// DirectionUnknown.
func KindFor(d Direction) (k Kind, ok bool) {
	switch d {
	case DirectionInflow:
		return KindIncome, true
	case DirectionOutflow:
		return KindOutcome, true
	default:
		return "", false
	}
}

// Code is a numbered booking category, e.g. income 1 "Članarine".
type Code struct {
	Number      int
	Kind        Kind
	Description string
}
