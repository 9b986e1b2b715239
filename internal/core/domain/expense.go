package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies an expense for budget reporting.
type ExpenseCategory string

const (
	CategoryMaintenance    ExpenseCategory = "maintenance"
	CategoryRepairs        ExpenseCategory = "repairs"
	CategoryInsurance      ExpenseCategory = "insurance"
	CategoryUtilities      ExpenseCategory = "utilities"
	CategoryCleaning       ExpenseCategory = "cleaning"
	CategoryAdministration ExpenseCategory = "administration"
	CategoryWorks          ExpenseCategory = "works" // One-off capital works, extraordinary budget
	CategoryOther          ExpenseCategory = "other"
)

// Expense is the read-only view of an expense record that the ledger engine
// consumes from the expense workflow. The engine never mutates expenses.
type Expense struct {
	ExpenseID      string           `json:"expenseID"`
	OrganizationID string           `json:"organizationID"`
	BuildingID     string           `json:"buildingID"`
	Description    string           `json:"description"`
	Amount         decimal.Decimal  `json:"amount"` // VAT inclusive
	AmountExclVAT  *decimal.Decimal `json:"amountExclVAT"`
	VATRate        *decimal.Decimal `json:"vatRate"`
	ExpenseDate    time.Time        `json:"expenseDate"`
	PaidDate       *time.Time       `json:"paidDate"`
	Category       ExpenseCategory  `json:"category"`
	Supplier       *string          `json:"supplier"`
	InvoiceNumber  *string          `json:"invoiceNumber"`
	AccountCode    *string          `json:"accountCode"` // Chart-of-accounts code, class 6
}
