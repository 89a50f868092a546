package codes

import "github.com/finman-dev/finman/internal/model"

// DefaultCodes returns the starter income and outcome codes for a club.
func DefaultCodes() []model.Code {
	return []model.Code{
		{Number: 1, Kind: model.KindIncome, Description: "Članarine"},
		{Number: 2, Kind: model.KindIncome, Description: "Donacije"},
		{Number: 3, Kind: model.KindIncome, Description: "Potpore i dotacije"},
		{Number: 9, Kind: model.KindIncome, Description: "Ostali prihodi"},
		{Number: 1, Kind: model.KindOutcome, Description: "Najam prostora"},
		{Number: 2, Kind: model.KindOutcome, Description: "Oprema"},
		{Number: 3, Kind: model.KindOutcome, Description: "Bankovne naknade"},
		{Number: 9, Kind: model.KindOutcome, Description: "Ostali rashodi"},
	}
}
