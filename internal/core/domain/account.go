package domain

// AccountClass defines the fundamental accounting class of an account,
// derived from the leading digit of its code (Belgian PCMN convention).
type AccountClass string

const (
	ClassAsset      AccountClass = "ASSET"
	ClassLiability  AccountClass = "LIABILITY"
	ClassExpense    AccountClass = "EXPENSE"
	ClassRevenue    AccountClass = "REVENUE"
	ClassOffBalance AccountClass = "OFF_BALANCE"
)

// Well-known chart-of-accounts codes used by the entry generator.
const (
	AccountVATRecoverable = "4110" // Input VAT that can be reclaimed
	AccountSuppliers      = "4400" // Third-party supplier liability
	AccountBank           = "5500" // Default payment account
	AccountCash           = "5700"
)

// ClassFromCode derives the account class from the leading digit of a code.
// Class 1 holds capital and reserves, classes 2-5 are assets (receivables,
// financial accounts included), class 6 expenses, class 7 revenue and class 9
// off-balance control accounts. Class 8 is rarely used and treated as expense.
func ClassFromCode(code string) AccountClass {
	if code == "" {
		return ClassOffBalance
	}
	switch code[0] {
	case '1':
		return ClassLiability
	case '2', '3', '4', '5':
		return ClassAsset
	case '6', '8':
		return ClassExpense
	case '7':
		return ClassRevenue
	default:
		return ClassOffBalance
	}
}

// Account represents one entry of the per-tenant chart of accounts.
// Accounts are created administratively and are immutable once a posted
// journal line references them.
type Account struct {
	Code           string       `json:"code"` // Unique per organization
	OrganizationID string       `json:"organizationID"`
	Label          string       `json:"label"`
	Class          AccountClass `json:"class"`
	AuditFields
}

// NewAccount builds an account, deriving the class from the code.
func NewAccount(organizationID, code, label string) Account {
	return Account{
		Code:           code,
		OrganizationID: organizationID,
		Label:          label,
		Class:          ClassFromCode(code),
	}
}

// IsBalanceSheet reports whether the class appears on the balance sheet.
func (c AccountClass) IsBalanceSheet() bool {
	return c == ClassAsset || c == ClassLiability
}

// IsIncomeStatement reports whether the class appears on the income statement.
func (c AccountClass) IsIncomeStatement() bool {
	return c == ClassExpense || c == ClassRevenue
}
