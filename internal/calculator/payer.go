package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// PayerPolicy picks the member recorded as an expense's payer when several
// members contributed. Contributions for members missing from the map count as
// zero.
type PayerPolicy func(roster []string, contributions map[string]decimal.Decimal) (string, error)

// LargestContributor picks the member with the largest contribution. Ties go to
// whoever comes first in the roster.
func LargestContributor(roster []string, contributions map[string]decimal.Decimal) (string, error) {
	payer := ""
	best := decimal.Zero
	for _, m := range roster {
		amount := contributions[m]
		if amount.GreaterThan(best) {
			payer, best = m, amount
		}
	}
	if payer == "" {
		return "", fmt.Errorf("%w: nobody contributed", models.ErrValidation)
	}
	return payer, nil
}
