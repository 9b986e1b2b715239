package accounting

import (
	"github.com/coproledger/coproledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedBalance reduces debit and credit totals to a single signed balance
// using the class-aware sign convention. This is used by both services and
// repositories to keep the accounting logic consistent.
//
// ASSET/EXPENSE accounts grow with debits: balance = debit - credit.
// LIABILITY/REVENUE accounts grow with credits: balance = credit - debit.
// Off-balance accounts report zero.
func SignedBalance(class domain.AccountClass, debit, credit decimal.Decimal) decimal.Decimal {
	switch class {
	case domain.ClassAsset, domain.ClassExpense:
		return debit.Sub(credit)
	case domain.ClassLiability, domain.ClassRevenue:
		return credit.Sub(debit)
	default:
		return decimal.Zero
	}
}

// SumLines groups journal entry lines by account code and accumulates the
// debit and credit sides separately, without losing cent precision.
func SumLines(lines []domain.JournalEntryLine) map[string]DebitCredit {
	totals := make(map[string]DebitCredit)
	for _, line := range lines {
		t := totals[line.AccountCode]
		t.Debit = t.Debit.Add(line.Debit)
		t.Credit = t.Credit.Add(line.Credit)
		totals[line.AccountCode] = t
	}
	return totals
}

// DebitCredit carries per-account debit and credit accumulations.
type DebitCredit struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}
