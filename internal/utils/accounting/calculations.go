// Package accounting holds the pure double-entry arithmetic shared by
// services and repositories.
package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/tonvq/ketoan_backend/internal/apperrors"
	"github.com/tonvq/ketoan_backend/internal/core/domain"
)

// LineTotals sums the debit and credit sides of a set of journal lines.
// A line with both sides set contributes its amount to both totals.
func LineTotals(lines []domain.JournalLine) (debit, credit decimal.Decimal) {
	debit = decimal.Zero
	credit = decimal.Zero
	for _, l := range lines {
		if l.HasDebit() {
			debit = debit.Add(l.Amount)
		}
		if l.HasCredit() {
			credit = credit.Add(l.Amount)
		}
	}
	return debit, credit
}

// CheckBalanced enforces the balance invariant with exact decimal equality.
// Returns an UnbalancedPostingError carrying both totals on violation.
func CheckBalanced(lines []domain.JournalLine) error {
	debit, credit := LineTotals(lines)
	if !debit.Equal(credit) {
		return &apperrors.UnbalancedPostingError{DebitTotal: debit, CreditTotal: credit}
	}
	return nil
}
